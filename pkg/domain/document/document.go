package document

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeDocx FileType = "docx"
	FileTypeTxt  FileType = "txt"
	FileTypeMd   FileType = "md"
	FileTypeHTML FileType = "html"
	FileTypeCSV  FileType = "csv"
	FileTypeXLSX FileType = "xlsx"
)

// SupportedFileTypes lists every format the ingestion pipeline accepts.
var SupportedFileTypes = []FileType{
	FileTypePDF, FileTypeDocx, FileTypeTxt, FileTypeMd, FileTypeHTML, FileTypeCSV, FileTypeXLSX,
}

// FileTypeFromExtension maps a filename extension (with or without the leading
// dot) to a FileType. Unknown extensions are treated as plain text.
func FileTypeFromExtension(ext string) FileType {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, t := range SupportedFileTypes {
		if string(t) == ext {
			return t
		}
	}
	return FileTypeTxt
}

// Document is the metadata record for an ingested document. Chunk content and
// embeddings live in the vector store; the raw payload lives in the data lake
// under StorageKey.
type Document struct {
	ID         string         `json:"id" gorm:"primaryKey"`
	Filename   string         `json:"filename" gorm:"not null"`
	FileType   FileType       `json:"file_type" gorm:"type:varchar(16)"`
	FileSize   int64          `json:"file_size"`
	Title      string         `json:"title,omitempty"`
	Author     string         `json:"author,omitempty"`
	SourceURL  string         `json:"source_url,omitempty"`
	Tags       TagList        `json:"tags" gorm:"type:text"`
	Status     Status         `json:"status" gorm:"type:varchar(16);index"`
	ChunkCount int            `json:"chunk_count"`
	StorageKey string         `json:"storage_key,omitempty"`
	Error      string         `json:"error,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}
