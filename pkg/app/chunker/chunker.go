package chunker

import (
	"regexp"
	"strings"

	"github.com/ragstack/ragserver/pkg/domain/chunk"
)

//go:generate mockery --name=Chunker --dir=. --output=./mocks --filename=chunker_mock.go --case=underscore --with-expecter

// Chunker splits document text into overlapping passages sized for embedding.
type Chunker interface {
	Split(documentID, text string, metadata map[string]interface{}) []chunk.Chunk
	EstimateChunks(textLength int) int
}

type chunker struct {
	chunkSize int
	overlap   int
}

func NewChunker(chunkSize, overlap int) Chunker {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = chunkSize / 5
	}
	return &chunker{
		chunkSize: chunkSize,
		overlap:   overlap,
	}
}

var (
	multiSpace    = regexp.MustCompile(`[ \t]+`)
	multiNewline  = regexp.MustCompile(`\n{3,}`)
	sentenceSplit = regexp.MustCompile(`[.!?]+`)
)

func countSentences(text string) int {
	n := 0
	for _, s := range sentenceSplit.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			n++
		}
	}
	return n
}

// separators are tried in order; splitting prefers paragraph boundaries and
// degrades to word and finally character boundaries for pathological input.
var separators = []string{"\n\n", "\n", " ", ""}

func (c *chunker) Split(documentID, text string, metadata map[string]interface{}) []chunk.Chunk {
	cleaned := cleanText(text)
	if cleaned == "" {
		return nil
	}

	pieces := c.splitRecursive(cleaned, separators)
	merged := c.mergeWithOverlap(pieces)

	chunks := make([]chunk.Chunk, 0, len(merged))
	for i, content := range merged {
		meta := make(map[string]interface{}, len(metadata)+5)
		for k, v := range metadata {
			meta[k] = v
		}
		meta["chunk_index"] = i
		meta["total_chunks"] = len(merged)
		meta["char_count"] = len(content)
		meta["word_count"] = len(strings.Fields(content))
		meta["sentence_count"] = countSentences(content)

		chunks = append(chunks, chunk.Chunk{
			ID:         chunk.ID(documentID, i),
			DocumentID: documentID,
			Index:      i,
			Content:    content,
			Metadata:   meta,
		})
	}
	return chunks
}

func (c *chunker) EstimateChunks(textLength int) int {
	if textLength <= 0 {
		return 0
	}
	if textLength <= c.chunkSize {
		return 1
	}
	step := c.chunkSize - c.overlap
	return (textLength-c.overlap+step-1)/step
}

func cleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\x00", "")
	text = multiSpace.ReplaceAllString(text, " ")
	text = multiNewline.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// splitRecursive breaks text on the first separator that yields fragments no
// larger than chunkSize, recursing into oversized fragments with the next
// separator.
func (c *chunker) splitRecursive(text string, seps []string) []string {
	if len(text) <= c.chunkSize {
		return []string{text}
	}
	if len(seps) == 0 {
		return c.hardSplit(text)
	}

	sep := seps[0]
	if sep == "" {
		return c.hardSplit(text)
	}

	parts := strings.Split(text, sep)
	if len(parts) == 1 {
		return c.splitRecursive(text, seps[1:])
	}

	var out []string
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if len(part) > c.chunkSize {
			out = append(out, c.splitRecursive(part, seps[1:])...)
			continue
		}
		out = append(out, part)
	}
	return out
}

func (c *chunker) hardSplit(text string) []string {
	var out []string
	for len(text) > c.chunkSize {
		out = append(out, text[:c.chunkSize])
		text = text[c.chunkSize:]
	}
	if text != "" {
		out = append(out, text)
	}
	return out
}

// mergeWithOverlap packs fragments into chunks, carrying the tail of each
// chunk into the next so passages share context at boundaries. chunkSize is a
// hard cap: the carried tail counts against it, and a carry that would push a
// chunk past the cap is dropped rather than emitted.
func (c *chunker) mergeWithOverlap(pieces []string) []string {
	var out []string
	current := ""

	for _, piece := range pieces {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		if current == "" {
			current = piece
			continue
		}
		if len(current)+1+len(piece) <= c.chunkSize {
			current += " " + piece
			continue
		}
		out = append(out, current)
		current = piece
		if c.overlap > 0 {
			if tail := overlapTail(out[len(out)-1], c.overlap); len(tail)+1+len(piece) <= c.chunkSize {
				current = tail + " " + piece
			}
		}
	}
	if current != "" {
		out = append(out, current)
	}
	return out
}

// overlapTail returns the last n characters, extended left to the nearest word
// boundary so overlaps do not begin mid-word.
func overlapTail(text string, n int) string {
	if len(text) <= n {
		return text
	}
	tail := text[len(text)-n:]
	if idx := strings.IndexByte(tail, ' '); idx >= 0 && idx < len(tail)-1 {
		tail = tail[idx+1:]
	}
	return tail
}
