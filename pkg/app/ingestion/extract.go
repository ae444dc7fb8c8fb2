package ingestion

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ragstack/ragserver/pkg/domain/document"
)

var (
	htmlTag    = regexp.MustCompile(`(?s)<script.*?</script>|<style.*?</style>|<[^>]+>`)
	htmlEntity = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	)
)

// extractText pulls indexable text out of raw file content. Textual formats
// pass through; HTML is stripped to its visible text; binary formats fall back
// to scanning for printable UTF-8 runs.
func extractText(fileType document.FileType, raw []byte) string {
	switch fileType {
	case document.FileTypeTxt, document.FileTypeMd, document.FileTypeCSV:
		return string(raw)
	case document.FileTypeHTML:
		text := htmlTag.ReplaceAllString(string(raw), " ")
		return htmlEntity.Replace(text)
	default:
		return printableRuns(raw)
	}
}

// printableRuns keeps sequences of printable characters at least minRunLength
// long, which recovers embedded text from binary containers well enough to
// index.
func printableRuns(raw []byte) string {
	const minRunLength = 4

	var out strings.Builder
	var run strings.Builder

	flush := func() {
		if run.Len() >= minRunLength {
			if out.Len() > 0 {
				out.WriteString(" ")
			}
			out.WriteString(run.String())
		}
		run.Reset()
	}

	for _, r := range string(raw) {
		if r == utf8.RuneError {
			flush()
			continue
		}
		if unicode.IsPrint(r) || r == '\n' || r == '\t' {
			run.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	return out.String()
}
