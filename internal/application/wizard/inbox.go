package wizard

import (
	"sync"
	"time"
)

// Notification levels
const (
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelError   = "error"
)

const defaultInboxCapacity = 50

// Notification is a single user-facing message
type Notification struct {
	Level   string    `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Inbox is a bounded per-session notification queue drained by the client.
// When full, the oldest message is dropped.
type Inbox struct {
	mu       sync.Mutex
	items    []Notification
	capacity int
	logger   Logger
	now      func() time.Time
}

// NewInbox creates an inbox holding at most capacity messages
func NewInbox(capacity int, logger Logger) *Inbox {
	if capacity <= 0 {
		capacity = defaultInboxCapacity
	}
	if logger == nil {
		logger = nopLogger{}
	}
	return &Inbox{
		capacity: capacity,
		logger:   logger,
		now:      time.Now,
	}
}

// Info queues an informational message
func (i *Inbox) Info(message string) {
	i.push(LevelInfo, message)
}

// Success queues a success message
func (i *Inbox) Success(message string) {
	i.push(LevelSuccess, message)
}

// Error queues an error message
func (i *Inbox) Error(message string) {
	i.push(LevelError, message)
}

func (i *Inbox) push(level, message string) {
	i.mu.Lock()
	defer i.mu.Unlock()

	if len(i.items) >= i.capacity {
		i.items = i.items[1:]
	}
	i.items = append(i.items, Notification{Level: level, Message: message, At: i.now()})
	i.logger.Info("User notification", "level", level, "message", message)
}

// Drain returns all queued messages, oldest first, and empties the inbox
func (i *Inbox) Drain() []Notification {
	i.mu.Lock()
	defer i.mu.Unlock()

	out := i.items
	i.items = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

// Len returns the number of queued messages
func (i *Inbox) Len() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.items)
}
