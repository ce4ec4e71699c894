package service

import (
	"context"
	"fmt"

	"github.com/garyjia/arziki-reports/internal/application/port"
	"github.com/garyjia/arziki-reports/internal/application/wizard"
	"github.com/garyjia/arziki-reports/internal/domain/entity"
)

// AttachmentService stores uploaded data files and links them to wizard drafts
type AttachmentService interface {
	Attach(ctx context.Context, w *wizard.Wizard, fileName, contentType string, content []byte) (entity.Attachment, error)
	Detach(ctx context.Context, w *wizard.Wizard, attachmentID string) error
	PurgeSession(ctx context.Context, sessionID string)
}

type attachmentServiceImpl struct {
	store    port.AttachmentStore
	maxBytes int64
	logger   Logger
}

// NewAttachmentService creates a new AttachmentService. maxBytes <= 0 disables the size limit.
func NewAttachmentService(store port.AttachmentStore, maxBytes int64, logger Logger) AttachmentService {
	return &attachmentServiceImpl{
		store:    store,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// Attach stores the file and records its handle on the wizard's draft. The
// stored copy is removed again when the wizard refuses the handle.
func (s *attachmentServiceImpl) Attach(ctx context.Context, w *wizard.Wizard, fileName, contentType string, content []byte) (entity.Attachment, error) {
	if !entity.IsSupportedAttachment(fileName) {
		return entity.Attachment{}, fmt.Errorf("%w: %q is not a csv, xlsx, xls or json file", ErrUnsupportedAttachment, fileName)
	}
	if len(content) == 0 {
		return entity.Attachment{}, fmt.Errorf("%w: %q is empty", ErrUnsupportedAttachment, fileName)
	}
	if s.maxBytes > 0 && int64(len(content)) > s.maxBytes {
		return entity.Attachment{}, fmt.Errorf("%w: %q exceeds %d bytes", ErrUnsupportedAttachment, fileName, s.maxBytes)
	}

	att, err := s.store.Put(ctx, w.ID(), fileName, contentType, content)
	if err != nil {
		s.logger.Error("Failed to store attachment", "session_id", w.ID(), "file_name", fileName, "error", err)
		return entity.Attachment{}, fmt.Errorf("failed to store attachment: %w", err)
	}

	if err := w.AddAttachment(att); err != nil {
		if rmErr := s.store.Remove(ctx, att); rmErr != nil {
			s.logger.Error("Failed to remove refused attachment", "attachment_id", att.ID, "error", rmErr)
		}
		return entity.Attachment{}, err
	}

	s.logger.Info("Attachment added", "session_id", w.ID(), "attachment_id", att.ID, "file_name", fileName, "size", att.Size)
	return att, nil
}

// Detach removes the handle from the draft and deletes the stored file
func (s *attachmentServiceImpl) Detach(ctx context.Context, w *wizard.Wizard, attachmentID string) error {
	att, err := w.RemoveAttachment(attachmentID)
	if err != nil {
		return err
	}
	if err := s.store.Remove(ctx, att); err != nil {
		s.logger.Error("Failed to delete attachment file", "attachment_id", att.ID, "error", err)
	}
	return nil
}

// PurgeSession deletes every file uploaded for a session that has closed
func (s *attachmentServiceImpl) PurgeSession(ctx context.Context, sessionID string) {
	if err := s.store.Purge(ctx, sessionID); err != nil {
		s.logger.Error("Failed to purge session attachments", "session_id", sessionID, "error", err)
	}
}
