package errors

import "errors"

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrEmptyQuery       = errors.New("query cannot be empty")
	ErrQueryTooLong     = errors.New("query exceeds maximum length")
	ErrFileTooLarge     = errors.New("file exceeds maximum allowed size")
	ErrEmptyDocument    = errors.New("document has no content")
	ErrInvalidZone      = errors.New("invalid data lake zone")
)
