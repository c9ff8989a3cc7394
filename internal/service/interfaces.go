// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"io"
	"time"

	"github.com/Veraticus/financas/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Entry operations
	List(ctx context.Context) ([]model.Lancamento, error)
	Get(ctx context.Context, id string) (*model.Lancamento, error)
	Create(ctx context.Context, entry *model.Lancamento) error
	Update(ctx context.Context, id string, patch model.Patch) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)

	// Backup
	ExportSnapshot(ctx context.Context, w io.Writer) error
	ImportSnapshot(ctx context.Context, r io.Reader, opts ImportOptions) (int, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// Gateway is the subset of Storage the form and list controllers write through.
type Gateway interface {
	Create(ctx context.Context, entry *model.Lancamento) error
	Update(ctx context.Context, id string, patch model.Patch) error
}

// ImportOptions tunes a snapshot import.
type ImportOptions struct {
	// OnProgress is called after each entry is written with the running
	// count and the total. It may be nil.
	OnProgress func(done, total int)
}

// Clock supplies the current time. Controllers take one so that status
// derivation and timestamps are deterministic under test.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
