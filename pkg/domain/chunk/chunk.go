package chunk

import (
	"fmt"
	"time"
)

// Chunk is one passage of an ingested document together with its embedding.
// Chunk IDs are deterministic so re-ingestion overwrites prior generations.
type Chunk struct {
	ID         string                 `json:"id"`
	DocumentID string                 `json:"document_id"`
	Index      int                    `json:"index"`
	Content    string                 `json:"content"`
	Embedding  []float64              `json:"embedding,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// ID builds the deterministic chunk identifier for a document passage.
func ID(documentID string, index int) string {
	return fmt.Sprintf("%s:%d", documentID, index)
}
