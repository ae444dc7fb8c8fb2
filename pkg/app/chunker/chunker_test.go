package chunker_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ragstack/ragserver/pkg/app/chunker"
)

func TestSplit_ShortTextProducesSingleChunk(t *testing.T) {
	c := chunker.NewChunker(1000, 200)

	chunks := c.Split("doc-1", "a short paragraph", map[string]interface{}{"title": "t"})

	assert.Len(t, chunks, 1)
	assert.Equal(t, "doc-1:0", chunks[0].ID)
	assert.Equal(t, "doc-1", chunks[0].DocumentID)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, "a short paragraph", chunks[0].Content)
	assert.Equal(t, "t", chunks[0].Metadata["title"])
	assert.Equal(t, 0, chunks[0].Metadata["chunk_index"])
	assert.Equal(t, 1, chunks[0].Metadata["total_chunks"])
	assert.Equal(t, 3, chunks[0].Metadata["word_count"])
	assert.Equal(t, 17, chunks[0].Metadata["char_count"])
	assert.Equal(t, 1, chunks[0].Metadata["sentence_count"])
}

func TestSplit_EmptyTextProducesNoChunks(t *testing.T) {
	c := chunker.NewChunker(1000, 200)

	assert.Nil(t, c.Split("doc-1", "", nil))
	assert.Nil(t, c.Split("doc-1", "   \n\n  ", nil))
}

func TestSplit_LongTextRespectsChunkSize(t *testing.T) {
	c := chunker.NewChunker(100, 20)

	var sb strings.Builder
	for i := 0; i < 50; i++ {
		sb.WriteString("the quick brown fox jumps over the lazy dog. ")
	}

	chunks := c.Split("doc-2", sb.String(), nil)

	assert.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Content), 100, "chunk exceeds size cap: %q", chunk.Content)
		assert.NotEmpty(t, chunk.Content)
	}
}

func TestSplit_OverlapCountsAgainstSizeCap(t *testing.T) {
	c := chunker.NewChunker(100, 20)

	para := strings.TrimSpace(strings.Repeat("carry over words here ", 4))
	text := para + "\n\n" + para + "\n\n" + para

	chunks := c.Split("doc-7", text, nil)

	assert.Len(t, chunks, 3)
	for _, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Content), 100)
	}
	last := chunks[len(chunks)-1].Content
	assert.Contains(t, last, "carry over words here")
}

func TestSplit_RepeatedParagraphsAllKept(t *testing.T) {
	c := chunker.NewChunker(100, 20)

	para := strings.TrimSpace(strings.Repeat("same sentence again ", 4))
	text := para + "\n\n" + para + "\n\n" + para

	chunks := c.Split("doc-8", text, nil)

	total := 0
	for _, chunk := range chunks {
		total += strings.Count(chunk.Content, "same sentence again")
	}
	assert.GreaterOrEqual(t, total, 12, "repeated trailing paragraph was dropped")
}

func TestSplit_ChunkIDsAreDeterministic(t *testing.T) {
	c := chunker.NewChunker(100, 20)
	text := strings.Repeat("alpha beta gamma delta. ", 30)

	first := c.Split("doc-3", text, nil)
	second := c.Split("doc-3", text, nil)

	assert.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Content, second[i].Content)
	}
}

func TestSplit_PrefersParagraphBoundaries(t *testing.T) {
	c := chunker.NewChunker(50, 0)

	text := "first paragraph here.\n\nsecond paragraph here.\n\nthird paragraph here."
	chunks := c.Split("doc-4", text, nil)

	for _, chunk := range chunks {
		assert.NotContains(t, chunk.Content, "\n\n")
	}
}

func TestSplit_HandlesTextWithoutSeparators(t *testing.T) {
	c := chunker.NewChunker(100, 10)

	text := strings.Repeat("x", 450)
	chunks := c.Split("doc-5", text, nil)

	assert.GreaterOrEqual(t, len(chunks), 4)
	total := 0
	for _, chunk := range chunks {
		total += len(chunk.Content)
	}
	assert.GreaterOrEqual(t, total, 450)
}

func TestEstimateChunks(t *testing.T) {
	c := chunker.NewChunker(1000, 200)

	assert.Equal(t, 0, c.EstimateChunks(0))
	assert.Equal(t, 1, c.EstimateChunks(500))
	assert.Equal(t, 1, c.EstimateChunks(1000))
	assert.Greater(t, c.EstimateChunks(5000), 4)
}

func TestNewChunker_SanitizesBadConfig(t *testing.T) {
	c := chunker.NewChunker(0, -5)

	chunks := c.Split("doc-6", "hello world", nil)
	assert.Len(t, chunks, 1)
}
