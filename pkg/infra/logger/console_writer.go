package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// consoleHook mirrors entries to the console while the primary output goes to
// the async file writer. Warnings and errors land on stderr, everything else
// on stdout, so failed probes and ingestion errors stand out in container
// logs.
type consoleHook struct {
	stdout io.Writer
	stderr io.Writer
}

func NewConsoleHook() logrus.Hook {
	return &consoleHook{stdout: os.Stdout, stderr: os.Stderr}
}

func (h *consoleHook) Fire(entry *logrus.Entry) error {
	line, err := entry.Logger.Formatter.Format(entry)
	if err != nil {
		return err
	}
	out := h.stdout
	if entry.Level <= logrus.WarnLevel {
		out = h.stderr
	}
	_, err = out.Write(line)
	return err
}

func (h *consoleHook) Levels() []logrus.Level {
	return logrus.AllLevels
}
