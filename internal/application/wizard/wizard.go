// Package wizard runs report wizard sessions: it owns each session's draft,
// gates step changes on validation and orchestrates the final submission.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/garyjia/arziki-reports/internal/application/port"
	"github.com/garyjia/arziki-reports/internal/domain/entity"
	domainwiz "github.com/garyjia/arziki-reports/internal/domain/wizard"
)

// Logger interface for logging operations
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Recorder receives wizard activity for metrics
type Recorder interface {
	Transition(from, to domainwiz.Step, trigger domainwiz.Trigger)
	ValidationRejected(step domainwiz.Step)
	SubmissionSettled(outcome string, elapsed time.Duration)
}

// Submission outcome labels passed to Recorder.SubmissionSettled
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Notification messages for successful steps and settled submissions
const (
	MsgBusinessSaved   = "Business information saved!"
	MsgProductsSaved   = "Product information saved!"
	MsgStockSaved      = "Stock data saved!"
	MsgSupplierSaved   = "Supplier information saved!"
	MsgReportGenerated = "Report generated successfully!"
	MsgProcessing      = "Your report is still being generated"
)

var savedMessages = map[domainwiz.Step]string{
	domainwiz.StepBusiness: MsgBusinessSaved,
	domainwiz.StepProduct:  MsgProductsSaved,
	domainwiz.StepStock:    MsgStockSaved,
	domainwiz.StepSupplier: MsgSupplierSaved,
}

// userTriggers are the triggers a client may fire; the rest are internal
var userTriggers = map[domainwiz.Trigger]bool{
	domainwiz.TriggerNext:    true,
	domainwiz.TriggerBack:    true,
	domainwiz.TriggerSkip:    true,
	domainwiz.TriggerSubmit:  true,
	domainwiz.TriggerRestart: true,
}

// Wizard is one report wizard session. All methods are safe for concurrent
// use; they are serialised so the session behaves like a single event loop.
type Wizard struct {
	id      string
	ownerID string

	mu         sync.Mutex
	machine    domainwiz.StateMachine
	draft      entity.Draft
	reportID   string
	lastActive time.Time

	notifier          port.Notifier
	submitter         port.SubmissionService
	credentials       port.CredentialProvider
	submissionTimeout time.Duration
	recorder          Recorder
	logger            Logger
	now               func() time.Time
}

// Config holds the collaborators of a wizard session
type Config struct {
	ID                string
	OwnerID           string
	Notifier          port.Notifier
	Submitter         port.SubmissionService
	Credentials       port.CredentialProvider
	SubmissionTimeout time.Duration
	Recorder          Recorder
	Logger            Logger
	Now               func() time.Time
}

// View is a read-only snapshot of a session for rendering
type View struct {
	ID            string              `json:"id"`
	Step          domainwiz.Step      `json:"step"`
	StepNumber    int                 `json:"step_number"`
	ShowsProgress bool                `json:"shows_progress"`
	Actions       []domainwiz.Trigger `json:"actions"`
	Draft         entity.Draft        `json:"draft"`
	ReportID      string              `json:"report_id,omitempty"`
	LastActive    time.Time           `json:"last_active"`
}

// New creates a wizard positioned at the business step with an empty draft
func New(cfg Config) *Wizard {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Recorder == nil {
		cfg.Recorder = nopRecorder{}
	}
	if cfg.Logger == nil {
		cfg.Logger = nopLogger{}
	}
	if cfg.Notifier == nil {
		cfg.Notifier = NewInbox(0, cfg.Logger)
	}

	w := &Wizard{
		id:                cfg.ID,
		ownerID:           cfg.OwnerID,
		draft:             entity.NewDraft(),
		notifier:          cfg.Notifier,
		submitter:         cfg.Submitter,
		credentials:       cfg.Credentials,
		submissionTimeout: cfg.SubmissionTimeout,
		recorder:          cfg.Recorder,
		logger:            cfg.Logger,
		now:               cfg.Now,
	}
	w.lastActive = w.now()
	w.machine = buildStateMachine(w, domainwiz.StepBusiness)

	return w
}

// ID returns the session id
func (w *Wizard) ID() string {
	return w.id
}

// OwnerID returns the id of the user that owns the session
func (w *Wizard) OwnerID() string {
	return w.ownerID
}

// Step returns the current step
func (w *Wizard) Step() domainwiz.Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.machine.Step()
}

// StepNumber returns the 1-based progress ordinal, or 0 outside the indicator
func (w *Wizard) StepNumber() int {
	return w.Step().Ordinal()
}

// Draft returns a copy of the current draft
func (w *Wizard) Draft() entity.Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft.Clone()
}

// ReportID returns the id of the generated report once the wizard succeeded
func (w *Wizard) ReportID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reportID
}

// View returns a snapshot of the session
func (w *Wizard) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	step := w.machine.Step()
	actions := make([]domainwiz.Trigger, 0, 3)
	for _, trigger := range w.machine.PermittedTriggers() {
		if userTriggers[trigger] {
			actions = append(actions, trigger)
		}
	}

	return View{
		ID:            w.id,
		Step:          step,
		StepNumber:    step.Ordinal(),
		ShowsProgress: step.ShowsProgress(),
		Actions:       actions,
		Draft:         w.draft.Clone(),
		ReportID:      w.reportID,
		LastActive:    w.lastActive,
	}
}

// IdleSince reports when the session was last touched
func (w *Wizard) IdleSince() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastActive
}

// Next validates the current step and advances to the following one
func (w *Wizard) Next(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	from := w.machine.Step()
	if err := w.fire(ctx, domainwiz.TriggerNext); err != nil {
		return err
	}
	if msg, ok := savedMessages[from]; ok {
		w.notifier.Success(msg)
	}
	return nil
}

// Back returns to the previous step without validating
func (w *Wizard) Back(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fire(ctx, domainwiz.TriggerBack)
}

// Skip jumps from the product step straight to review. The product list is
// still validated; stock and supplier are left as they are.
func (w *Wizard) Skip(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fire(ctx, domainwiz.TriggerSkip)
}

// Restart discards the finished draft and starts over at the business step
func (w *Wizard) Restart(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.fire(ctx, domainwiz.TriggerRestart); err != nil {
		return err
	}
	w.draft = entity.NewDraft()
	w.reportID = ""
	return nil
}

// fire runs a trigger and raises exactly one error notification when it is
// refused. Callers hold w.mu.
func (w *Wizard) fire(ctx context.Context, trigger domainwiz.Trigger) error {
	from := w.machine.Step()
	w.lastActive = w.now()

	if err := w.machine.Fire(ctx, trigger); err != nil {
		var verr *entity.ValidationError
		if errors.As(err, &verr) {
			w.recorder.ValidationRejected(from)
			w.logger.Info("Wizard step refused", "session_id", w.id, "step", from.String(), "missing", verr.Fields)
			w.notifier.Error(verr.Message)
			return verr
		}

		if from == domainwiz.StepProcessing {
			w.notifier.Error(MsgProcessing)
			return fmt.Errorf("%w: %w", ErrSubmissionInFlight, err)
		}

		w.notifier.Error(fmt.Sprintf("That action is not available on the %s step", from))
		return err
	}

	to := w.machine.Step()
	w.recorder.Transition(from, to, trigger)
	w.logger.Info("Wizard step changed",
		"session_id", w.id,
		"from", from.String(),
		"to", to.String(),
		"trigger", trigger.String(),
	)
	return nil
}

// editable checks that the sub-record owned by step may be changed now.
// Callers hold w.mu.
func (w *Wizard) editable(owner domainwiz.Step) error {
	current := w.machine.Step()
	if current == domainwiz.StepProcessing {
		return ErrSubmissionInFlight
	}
	if current != owner {
		return fmt.Errorf("%w: %s data can only be changed on the %s step (current: %s)", ErrStepLocked, owner, owner, current)
	}
	w.lastActive = w.now()
	return nil
}

// SetBusiness replaces the business info
func (w *Wizard) SetBusiness(info entity.BusinessInfo) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editable(domainwiz.StepBusiness); err != nil {
		return err
	}
	w.draft.Business = info
	return nil
}

// SetSupplier replaces the supplier info
func (w *Wizard) SetSupplier(info entity.SupplierInfo) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.editable(domainwiz.StepSupplier); err != nil {
		return err
	}
	w.draft.Supplier = info
	return nil
}

type nopRecorder struct{}

func (nopRecorder) Transition(domainwiz.Step, domainwiz.Step, domainwiz.Trigger) {}
func (nopRecorder) ValidationRejected(domainwiz.Step)                            {}
func (nopRecorder) SubmissionSettled(string, time.Duration)                      {}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
