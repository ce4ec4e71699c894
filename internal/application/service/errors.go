package service

import "errors"

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

var (
	// ErrUnauthenticated is returned when a submission carries no credential
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidDraft is returned when a draft's numeric values cannot be read
	ErrInvalidDraft = errors.New("invalid draft")

	// ErrReportNotFound is returned when no report matches the id and owner
	ErrReportNotFound = errors.New("report not found")

	// ErrUnsupportedAttachment is returned for files outside the accepted types or size
	ErrUnsupportedAttachment = errors.New("unsupported attachment")

	// ErrChatUnavailable is returned when no chat model is configured
	ErrChatUnavailable = errors.New("chat assistant is not configured")

	// ErrEmptyMessage is returned when a chat message has no text
	ErrEmptyMessage = errors.New("message is empty")
)
