package port

import (
	"context"

	"github.com/garyjia/arziki-reports/internal/domain/entity"
)

// FileStorage defines file storage operations
type FileStorage interface {
	Save(ctx context.Context, path string, content []byte) error
	Read(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) bool
	Delete(ctx context.Context, path string) error
	Move(ctx context.Context, from, to string) error
	DeleteDir(ctx context.Context, dir string) error
	GetFullPath(relativePath string) string
}

// AttachmentStore holds uploaded data files for wizard sessions and
// archives them when a report is generated
type AttachmentStore interface {
	Put(ctx context.Context, sessionID, fileName, contentType string, content []byte) (entity.Attachment, error)
	Read(ctx context.Context, att entity.Attachment) ([]byte, error)
	Remove(ctx context.Context, att entity.Attachment) error
	Archive(ctx context.Context, reportID string, att entity.Attachment) (string, error)
	Purge(ctx context.Context, sessionID string) error
}
