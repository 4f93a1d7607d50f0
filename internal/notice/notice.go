package notice

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Level of a notice
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notice is one transient user-visible message
type Notice struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Resource  string    `json:"resource,omitempty"`
	Operation string    `json:"operation,omitempty"`
	RecordID  int64     `json:"record_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// New builds a notice with a fresh id
func New(level Level, resource, operation, message string) Notice {
	return Notice{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		Resource:  resource,
		Operation: operation,
		CreatedAt: time.Now(),
	}
}

// Notifier receives notices. Implementations must not block the caller on storage failures.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// Store is a Notifier that can list what it has kept
type Store interface {
	Notifier
	Recent(ctx context.Context, limit int) ([]Notice, error)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, n Notice)

func (f NotifierFunc) Notify(ctx context.Context, n Notice) { f(ctx, n) }

// Discard drops every notice
var Discard Notifier = NotifierFunc(func(context.Context, Notice) {})

type multi []Notifier

// Multi fans a notice out to every non-nil notifier in order
func Multi(notifiers ...Notifier) Notifier {
	var m multi
	for _, n := range notifiers {
		if n != nil {
			m = append(m, n)
		}
	}
	return m
}

func (m multi) Notify(ctx context.Context, n Notice) {
	for _, notifier := range m {
		notifier.Notify(ctx, n)
	}
}
