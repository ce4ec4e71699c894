package port

import (
	"context"

	"github.com/garyjia/arziki-reports/internal/domain/entity"
)

// Submission is the completed draft handed to the submission service.
// Draft is a private copy; the wizard keeps its own.
type Submission struct {
	SessionID string
	OwnerID   string
	Draft     entity.Draft
}

// SubmissionService turns a completed draft into a report
type SubmissionService interface {
	Submit(ctx context.Context, credential string, submission *Submission) (reportID string, err error)
}

// Notifier delivers one-way user-facing messages
type Notifier interface {
	Info(message string)
	Success(message string)
	Error(message string)
}

// CredentialProvider supplies the opaque credential forwarded with a submission
type CredentialProvider interface {
	CurrentCredential() (string, bool)
}
