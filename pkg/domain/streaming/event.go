package streaming

import "time"

const (
	TopicDocuments       = "rag.documents"
	TopicUpdates         = "rag.document-updates"
	TopicDeletions       = "rag.document-deletions"
	TopicMetadataUpdates = "rag.metadata-updates"
)

func Topics() []string {
	return []string{TopicDocuments, TopicUpdates, TopicDeletions, TopicMetadataUpdates}
}

type EventType string

const (
	EventDocumentCreated EventType = "document.created"
	EventDocumentUpdated EventType = "document.updated"
	EventDocumentDeleted EventType = "document.deleted"
	EventMetadataUpdated EventType = "document.metadata_updated"
)

// DocumentEvent is the wire format for the document lifecycle topics. Content
// carries the full document text for created/updated events and is empty for
// deletions and metadata updates.
type DocumentEvent struct {
	EventType  EventType              `json:"event_type" mapstructure:"event_type"`
	DocumentID string                 `json:"document_id" mapstructure:"document_id"`
	Filename   string                 `json:"filename,omitempty" mapstructure:"filename"`
	Content    string                 `json:"content,omitempty" mapstructure:"content"`
	Metadata   map[string]interface{} `json:"metadata,omitempty" mapstructure:"metadata"`
	Timestamp  time.Time              `json:"timestamp" mapstructure:"timestamp"`
}
