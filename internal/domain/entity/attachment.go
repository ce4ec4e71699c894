package entity

import (
	"path/filepath"
	"strings"
	"time"
)

// Attachment is an opaque handle to a data file held by the attachment store.
// The wizard never reads the file; only the submission side does.
type Attachment struct {
	ID          string    `json:"id"`
	FileName    string    `json:"file_name"`
	StoragePath string    `json:"-"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type,omitempty"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// Extension returns the lower-cased file extension, including the dot
func (a Attachment) Extension() string {
	return strings.ToLower(filepath.Ext(a.FileName))
}

// Format returns the extension without its dot, e.g. "csv"
func (a Attachment) Format() string {
	return strings.TrimPrefix(a.Extension(), ".")
}

// IsSupportedAttachment reports whether the file name has an accepted data file extension
func IsSupportedAttachment(fileName string) bool {
	return AttachmentExtensions[strings.ToLower(filepath.Ext(fileName))]
}

// AttachmentSummary describes what was found inside an attachment at submission time
type AttachmentSummary struct {
	AttachmentID string   `json:"attachment_id"`
	FileName     string   `json:"file_name"`
	Format       string   `json:"format"`
	Sheets       []string `json:"sheets,omitempty"`
	Rows         int      `json:"rows"`
	Parsed       bool     `json:"parsed"`
	Note         string   `json:"note,omitempty"`
}
