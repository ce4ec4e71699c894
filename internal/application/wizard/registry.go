package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/arziki-reports/internal/application/port"
	domainwiz "github.com/garyjia/arziki-reports/internal/domain/wizard"
)

// RegistryConfig holds session registry settings
type RegistryConfig struct {
	SubmissionTimeout time.Duration
	SessionTTL        time.Duration
	SweepInterval     time.Duration
	InboxCapacity     int
}

// DefaultRegistryConfig returns default registry settings
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		SubmissionTimeout: 2 * time.Minute,
		SessionTTL:        30 * time.Minute,
		SweepInterval:     time.Minute,
		InboxCapacity:     defaultInboxCapacity,
	}
}

// Session pairs a wizard with the inbox its notifications go to
type Session struct {
	Wizard *Wizard
	Inbox  *Inbox
}

// RemovalHook runs after a session leaves the registry
type RemovalHook func(ctx context.Context, sessionID string)

// RegistryOption configures optional registry collaborators
type RegistryOption func(*Registry)

// WithRecorder sets the metrics recorder passed to every wizard
func WithRecorder(recorder Recorder) RegistryOption {
	return func(r *Registry) {
		r.recorder = recorder
	}
}

// WithRemovalHook sets a hook run when a session is discarded or evicted
func WithRemovalHook(hook RemovalHook) RegistryOption {
	return func(r *Registry) {
		r.onRemove = hook
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = now
	}
}

// Registry keeps the live wizard sessions of this process
type Registry struct {
	cfg       RegistryConfig
	submitter port.SubmissionService
	recorder  Recorder
	logger    Logger
	onRemove  RemovalHook
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty session registry
func NewRegistry(cfg RegistryConfig, submitter port.SubmissionService, logger Logger, opts ...RegistryOption) *Registry {
	if logger == nil {
		logger = nopLogger{}
	}
	r := &Registry{
		cfg:       cfg,
		submitter: submitter,
		recorder:  nopRecorder{},
		logger:    logger,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create opens a new wizard session for the owner. The credential is
// forwarded untouched when the session submits.
func (r *Registry) Create(ownerID, credential string) *Session {
	id := uuid.NewString()
	inbox := NewInbox(r.cfg.InboxCapacity, r.logger)

	w := New(Config{
		ID:                id,
		OwnerID:           ownerID,
		Notifier:          inbox,
		Submitter:         r.submitter,
		Credentials:       StaticCredential(credential),
		SubmissionTimeout: r.cfg.SubmissionTimeout,
		Recorder:          r.recorder,
		Logger:            r.logger,
		Now:               r.now,
	})
	session := &Session{Wizard: w, Inbox: inbox}

	r.mu.Lock()
	r.sessions[id] = session
	r.mu.Unlock()

	r.logger.Info("Wizard session created", "session_id", id, "owner_id", ownerID)
	return session
}

// Get returns the session if it exists and belongs to the owner
func (r *Registry) Get(id, ownerID string) (*Session, error) {
	r.mu.RLock()
	session, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok || session.Wizard.OwnerID() != ownerID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Discard closes a session. A session with an outstanding submission is kept.
func (r *Registry) Discard(ctx context.Context, id, ownerID string) error {
	r.mu.Lock()
	session, ok := r.sessions[id]
	if !ok || session.Wizard.OwnerID() != ownerID {
		r.mu.Unlock()
		return ErrSessionNotFound
	}
	if session.Wizard.Step() == domainwiz.StepProcessing {
		r.mu.Unlock()
		return ErrSubmissionInFlight
	}
	delete(r.sessions, id)
	r.mu.Unlock()

	r.logger.Info("Wizard session discarded", "session_id", id)
	r.removed(ctx, id)
	return nil
}

// Evict removes sessions idle for longer than the TTL and returns how many
// went. Sessions waiting on a submission are never evicted.
func (r *Registry) Evict(ctx context.Context) int {
	if r.cfg.SessionTTL <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.cfg.SessionTTL)

	var evicted []string
	r.mu.Lock()
	for id, session := range r.sessions {
		if session.Wizard.Step() == domainwiz.StepProcessing {
			continue
		}
		if session.Wizard.IdleSince().Before(cutoff) {
			delete(r.sessions, id)
			evicted = append(evicted, id)
		}
	}
	r.mu.Unlock()

	for _, id := range evicted {
		r.removed(ctx, id)
	}
	if len(evicted) > 0 {
		r.logger.Info("Evicted idle wizard sessions", "count", len(evicted))
	}
	return len(evicted)
}

// Run evicts idle sessions every sweep interval until ctx is cancelled
func (r *Registry) Run(ctx context.Context) {
	interval := r.cfg.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Evict(ctx)
		}
	}
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) removed(ctx context.Context, id string) {
	if r.onRemove != nil {
		r.onRemove(ctx, id)
	}
}
