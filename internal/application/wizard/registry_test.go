package wizard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/arziki-reports/internal/application/port"
	"github.com/garyjia/arziki-reports/internal/domain/entity"
	domainwiz "github.com/garyjia/arziki-reports/internal/domain/wizard"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestRegistry_CreateAndGet(t *testing.T) {
	registry := NewRegistry(DefaultRegistryConfig(), &mockSubmitter{}, nil)

	session := registry.Create("owner-1", "token-abc")

	require.NotNil(t, session)
	assert.NotEmpty(t, session.Wizard.ID())
	assert.Equal(t, domainwiz.StepBusiness, session.Wizard.Step())
	assert.Equal(t, 1, registry.Len())

	got, err := registry.Get(session.Wizard.ID(), "owner-1")
	require.NoError(t, err)
	assert.Same(t, session, got)

	_, err = registry.Get(session.Wizard.ID(), "someone-else")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = registry.Get("missing", "owner-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRegistry_SessionsAreIndependent(t *testing.T) {
	registry := NewRegistry(DefaultRegistryConfig(), &mockSubmitter{}, nil)
	a := registry.Create("owner-1", "t")
	b := registry.Create("owner-1", "t")

	require.NoError(t, a.Wizard.SetBusiness(validBusiness()))
	require.NoError(t, a.Wizard.Next(context.Background()))

	assert.Equal(t, domainwiz.StepProduct, a.Wizard.Step())
	assert.Equal(t, domainwiz.StepBusiness, b.Wizard.Step())
	assert.Equal(t, 1, a.Inbox.Len())
	assert.Equal(t, 0, b.Inbox.Len())
}

func TestRegistry_CredentialForwarded(t *testing.T) {
	submitter := &mockSubmitter{}
	registry := NewRegistry(DefaultRegistryConfig(), submitter, nil)
	session := registry.Create("owner-1", "bearer-xyz")
	walkToReview(t, session.Wizard)
	require.NoError(t, session.Wizard.AddAttachment(entity.Attachment{ID: "a1", FileName: "sales.csv"}))

	ch, err := session.Wizard.Submit(context.Background())
	require.NoError(t, err)
	awaitOutcome(t, ch)

	assert.Equal(t, "bearer-xyz", submitter.credential)
	assert.Equal(t, "owner-1", submitter.calls[0].OwnerID)
	assert.Equal(t, session.Wizard.ID(), submitter.calls[0].SessionID)
}

func TestRegistry_Discard(t *testing.T) {
	var removed []string
	registry := NewRegistry(DefaultRegistryConfig(), &mockSubmitter{}, nil,
		WithRemovalHook(func(ctx context.Context, sessionID string) {
			removed = append(removed, sessionID)
		}))
	session := registry.Create("owner-1", "t")
	id := session.Wizard.ID()

	assert.ErrorIs(t, registry.Discard(context.Background(), id, "owner-2"), ErrSessionNotFound)

	require.NoError(t, registry.Discard(context.Background(), id, "owner-1"))
	assert.Equal(t, 0, registry.Len())
	assert.Equal(t, []string{id}, removed)

	assert.ErrorIs(t, registry.Discard(context.Background(), id, "owner-1"), ErrSessionNotFound)
}

func TestRegistry_DiscardRefusedWhileProcessing(t *testing.T) {
	release := make(chan struct{})
	submitter := &mockSubmitter{
		submitFunc: func(ctx context.Context, credential string, submission *port.Submission) (string, error) {
			<-release
			return "r1", nil
		},
	}
	registry := NewRegistry(DefaultRegistryConfig(), submitter, nil)
	session := registry.Create("owner-1", "t")
	walkToReview(t, session.Wizard)
	require.NoError(t, session.Wizard.AddAttachment(entity.Attachment{ID: "a1", FileName: "sales.csv"}))

	ch, err := session.Wizard.Submit(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, registry.Discard(context.Background(), session.Wizard.ID(), "owner-1"), ErrSubmissionInFlight)
	assert.Equal(t, 1, registry.Len())

	close(release)
	awaitOutcome(t, ch)
	require.NoError(t, registry.Discard(context.Background(), session.Wizard.ID(), "owner-1"))
}

func TestRegistry_EvictIdleSessions(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	cfg := DefaultRegistryConfig()
	cfg.SessionTTL = 10 * time.Minute

	var removed []string
	registry := NewRegistry(cfg, &mockSubmitter{}, nil,
		WithClock(clock.Now),
		WithRemovalHook(func(ctx context.Context, sessionID string) {
			removed = append(removed, sessionID)
		}))

	stale := registry.Create("owner-1", "t")
	clock.Advance(8 * time.Minute)
	fresh := registry.Create("owner-1", "t")
	clock.Advance(3 * time.Minute)

	evicted := registry.Evict(context.Background())

	assert.Equal(t, 1, evicted)
	assert.Equal(t, []string{stale.Wizard.ID()}, removed)
	_, err := registry.Get(fresh.Wizard.ID(), "owner-1")
	assert.NoError(t, err)
}

func TestRegistry_EvictSkipsProcessingSessions(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	cfg := DefaultRegistryConfig()
	cfg.SessionTTL = time.Minute

	release := make(chan struct{})
	submitter := &mockSubmitter{
		submitFunc: func(ctx context.Context, credential string, submission *port.Submission) (string, error) {
			<-release
			return "r1", nil
		},
	}
	registry := NewRegistry(cfg, submitter, nil, WithClock(clock.Now))
	session := registry.Create("owner-1", "t")
	walkToReview(t, session.Wizard)
	require.NoError(t, session.Wizard.AddAttachment(entity.Attachment{ID: "a1", FileName: "sales.csv"}))
	ch, err := session.Wizard.Submit(context.Background())
	require.NoError(t, err)

	clock.Advance(time.Hour)
	assert.Equal(t, 0, registry.Evict(context.Background()))

	close(release)
	awaitOutcome(t, ch)
	clock.Advance(time.Hour)
	assert.Equal(t, 1, registry.Evict(context.Background()))
}

func TestRegistry_EvictDisabled(t *testing.T) {
	cfg := DefaultRegistryConfig()
	cfg.SessionTTL = 0
	registry := NewRegistry(cfg, nil, nil)
	registry.Create("owner-1", "t")

	assert.Equal(t, 0, registry.Evict(context.Background()))
	assert.Equal(t, 1, registry.Len())
}

func TestRegistry_RunStopsOnCancel(t *testing.T) {
	cfg := DefaultRegistryConfig()
	cfg.SweepInterval = time.Millisecond
	registry := NewRegistry(cfg, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		registry.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
