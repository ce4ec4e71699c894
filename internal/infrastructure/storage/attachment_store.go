package storage

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/garyjia/arziki-reports/internal/application/port"
	"github.com/garyjia/arziki-reports/internal/domain/entity"
)

const (
	sessionsDir = "sessions"
	reportsDir  = "reports"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// AttachmentStore keeps uploaded data files under sessions/<session id>/
// and moves them to reports/<report id>/ once a report is generated
type AttachmentStore struct {
	files  port.FileStorage
	logger *zap.Logger
	now    func() time.Time
}

// NewAttachmentStore creates an attachment store on top of file storage
func NewAttachmentStore(files port.FileStorage, logger *zap.Logger) *AttachmentStore {
	return &AttachmentStore{
		files:  files,
		logger: logger,
		now:    time.Now,
	}
}

// Put stores an upload for a session and returns its handle
func (s *AttachmentStore) Put(ctx context.Context, sessionID, fileName, contentType string, content []byte) (entity.Attachment, error) {
	att := entity.Attachment{
		ID:          uuid.NewString(),
		FileName:    path.Base(strings.ReplaceAll(fileName, "\\", "/")),
		Size:        int64(len(content)),
		ContentType: contentType,
		UploadedAt:  s.now().UTC(),
	}
	att.StoragePath = path.Join(sessionsDir, SanitizeName(sessionID), att.ID+att.Extension())

	if err := s.files.Save(ctx, att.StoragePath, content); err != nil {
		return entity.Attachment{}, err
	}

	s.logger.Debug("Attachment stored",
		zap.String("session_id", sessionID),
		zap.String("attachment_id", att.ID),
		zap.String("path", att.StoragePath))
	return att, nil
}

// Read returns the content of a stored attachment
func (s *AttachmentStore) Read(ctx context.Context, att entity.Attachment) ([]byte, error) {
	if att.StoragePath == "" {
		return nil, fmt.Errorf("attachment %s has no stored file", att.ID)
	}
	return s.files.Read(ctx, att.StoragePath)
}

// Remove deletes a stored attachment
func (s *AttachmentStore) Remove(ctx context.Context, att entity.Attachment) error {
	if att.StoragePath == "" {
		return nil
	}
	return s.files.Delete(ctx, att.StoragePath)
}

// Archive moves an attachment under the report's directory and returns the new path
func (s *AttachmentStore) Archive(ctx context.Context, reportID string, att entity.Attachment) (string, error) {
	dst := path.Join(reportsDir, SanitizeName(reportID), att.ID+"_"+SanitizeName(att.FileName))
	if err := s.files.Move(ctx, att.StoragePath, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// Purge deletes every file uploaded for a session
func (s *AttachmentStore) Purge(ctx context.Context, sessionID string) error {
	name := SanitizeName(sessionID)
	if name == "" {
		return fmt.Errorf("invalid session id %q", sessionID)
	}
	return s.files.DeleteDir(ctx, path.Join(sessionsDir, name))
}

// SanitizeName returns a filesystem-safe version of the name
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "")
	name = strings.ReplaceAll(name, "\\", "")
	return unsafeNameChars.ReplaceAllString(name, "")
}

// Verify interface compliance
var _ port.AttachmentStore = (*AttachmentStore)(nil)
