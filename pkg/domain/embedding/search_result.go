package embedding

// SearchResult is a single similarity hit. Score is cosine similarity: 1.0 is
// an exact match, 0.0 is no similarity.
type SearchResult struct {
	Key        string                 `json:"id"`
	DocumentID string                 `json:"document_id"`
	ChunkIndex int                    `json:"chunk_index"`
	Content    string                 `json:"content"`
	Score      float64                `json:"score"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}
