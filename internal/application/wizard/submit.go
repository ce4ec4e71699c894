package wizard

import (
	"context"
	"errors"
	"time"

	"github.com/garyjia/arziki-reports/internal/application/port"
	domainwiz "github.com/garyjia/arziki-reports/internal/domain/wizard"
)

// Outcome is the single result of a submission
type Outcome struct {
	ReportID string
	Err      error
}

// Submit checks that at least one data file is attached, moves to the
// processing step and hands a copy of the draft to the submission service in
// the background. The returned channel yields exactly one Outcome once the
// wizard has settled in Success or back in Review, then closes.
func (w *Wizard) Submit(ctx context.Context) (<-chan Outcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.fire(ctx, domainwiz.TriggerSubmit); err != nil {
		return nil, err
	}

	submission := &port.Submission{
		SessionID: w.id,
		OwnerID:   w.ownerID,
		Draft:     w.draft.Clone(),
	}

	credential := ""
	if w.credentials != nil {
		if c, ok := w.credentials.CurrentCredential(); ok {
			credential = c
		}
	}

	outcome := make(chan Outcome, 1)

	// The request that triggered the submission may finish long before the
	// submission does, so only its values are kept.
	subCtx := context.WithoutCancel(ctx)
	go w.runSubmission(subCtx, credential, submission, outcome)

	return outcome, nil
}

func (w *Wizard) runSubmission(ctx context.Context, credential string, submission *port.Submission, outcome chan<- Outcome) {
	defer close(outcome)

	if w.submissionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.submissionTimeout)
		defer cancel()
	}

	type result struct {
		reportID string
		err      error
	}
	done := make(chan result, 1)

	start := time.Now()
	go func() {
		reportID, err := w.callSubmitter(ctx, credential, submission)
		done <- result{reportID: reportID, err: err}
	}()

	// A submitter that ignores cancellation must not pin the wizard in
	// processing past the deadline.
	var reportID string
	var err error
	select {
	case r := <-done:
		reportID, err = r.reportID, r.err
	case <-ctx.Done():
		err = ctx.Err()
	}

	outcome <- w.settle(ctx, reportID, err, time.Since(start))
}

// callSubmitter shields the wizard from a submitter that panics
func (w *Wizard) callSubmitter(ctx context.Context, credential string, submission *port.Submission) (reportID string, err error) {
	if w.submitter == nil {
		return "", errors.New("no submission service configured")
	}

	defer func() {
		if p := recover(); p != nil {
			w.logger.Error("Submission service panicked", "session_id", w.id, "panic", p)
			err = errors.New("submission service failed unexpectedly")
		}
	}()

	return w.submitter.Submit(ctx, credential, submission)
}

func (w *Wizard) settle(ctx context.Context, reportID string, err error, elapsed time.Duration) Outcome {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.lastActive = w.now()

	if err != nil {
		serr := &SubmissionError{Err: err}
		if fireErr := w.machine.Fire(ctx, domainwiz.TriggerFail); fireErr != nil {
			w.logger.Error("Failed to leave processing step", "session_id", w.id, "error", fireErr)
		} else {
			w.recorder.Transition(domainwiz.StepProcessing, domainwiz.StepReview, domainwiz.TriggerFail)
		}
		w.recorder.SubmissionSettled(OutcomeFailure, elapsed)
		w.logger.Error("Report submission failed", "session_id", w.id, "error", err, "elapsed", elapsed.String())
		w.notifier.Error(failureMessage(err))
		return Outcome{Err: serr}
	}

	if fireErr := w.machine.Fire(ctx, domainwiz.TriggerSucceed); fireErr != nil {
		w.logger.Error("Failed to leave processing step", "session_id", w.id, "error", fireErr)
	} else {
		w.recorder.Transition(domainwiz.StepProcessing, domainwiz.StepSuccess, domainwiz.TriggerSucceed)
	}
	w.reportID = reportID
	w.recorder.SubmissionSettled(OutcomeSuccess, elapsed)
	w.logger.Info("Report submission succeeded", "session_id", w.id, "report_id", reportID, "elapsed", elapsed.String())
	w.notifier.Success(MsgReportGenerated)
	return Outcome{ReportID: reportID}
}

func failureMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "Report generation timed out. Please try again"
	}
	return "Report generation failed: " + err.Error()
}
