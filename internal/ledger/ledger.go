// Package ledger implements the list-level operations over stored entries:
// loading and filtering, the pay/unpay/delete quick actions and the JSON
// backup round trip.
package ledger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Veraticus/financas/internal/common"
	"github.com/Veraticus/financas/internal/filter"
	"github.com/Veraticus/financas/internal/model"
	"github.com/Veraticus/financas/internal/service"
)

// BackupFilePrefix starts every default backup file name.
const BackupFilePrefix = "financas-backup-"

// Service coordinates the storage gateway with the clock.
type Service struct {
	storage service.Storage
	clock   service.Clock
}

// NewService creates a ledger service. A nil clock reads the wall clock.
func NewService(storage service.Storage, clock service.Clock) *Service {
	if clock == nil {
		clock = service.SystemClock
	}
	return &Service{storage: storage, clock: clock}
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.clock.Now()
}

// Load returns every entry ordered by due date.
func (s *Service) Load(ctx context.Context) ([]model.Lancamento, error) {
	entries, err := s.storage.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	return entries, nil
}

// Filtered loads every entry and keeps those matching c.
func (s *Service) Filtered(ctx context.Context, c filter.Criteria) ([]model.Lancamento, error) {
	entries, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return filter.Apply(entries, c, s.clock.Now()), nil
}

// Get returns a single entry.
func (s *Service) Get(ctx context.Context, id string) (*model.Lancamento, error) {
	return s.storage.Get(ctx, id)
}

// MarkPaid records today as the payment date of the entry.
func (s *Service) MarkPaid(ctx context.Context, id string) error {
	now := s.clock.Now()
	today := model.Today(now)
	stamp := model.FormatTimestamp(now)

	if err := s.storage.Update(ctx, id, model.Patch{DataPagamento: &today, UpdatedAt: &stamp}); err != nil {
		return fmt.Errorf("failed to mark entry paid: %w", err)
	}
	common.LogDebug("Marked entry paid", common.Fields{"id": id, "date": today})
	return nil
}

// Unpay clears the payment date of the entry.
func (s *Service) Unpay(ctx context.Context, id string) error {
	stamp := model.FormatTimestamp(s.clock.Now())

	if err := s.storage.Update(ctx, id, model.Patch{ClearDataPagamento: true, UpdatedAt: &stamp}); err != nil {
		return fmt.Errorf("failed to clear payment: %w", err)
	}
	slog.Debug("Cleared entry payment", "id", id)
	return nil
}

// Delete removes the entry.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.storage.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	slog.Debug("Deleted entry", "id", id)
	return nil
}

// Export writes a snapshot of every entry to w.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	return s.storage.ExportSnapshot(ctx, w)
}

// Import replaces every entry with the snapshot read from r and returns the
// number of entries stored.
func (s *Service) Import(ctx context.Context, r io.Reader, opts service.ImportOptions) (int, error) {
	n, err := s.storage.ImportSnapshot(ctx, r, opts)
	if err != nil {
		return 0, fmt.Errorf("failed to import snapshot: %w", err)
	}
	slog.Info("Imported snapshot", "entries", n)
	return n, nil
}

// ConfirmDeletePrompt is the question asked before deleting l.
func ConfirmDeletePrompt(l model.Lancamento) string {
	return fmt.Sprintf("Excluir %q?", l.Descricao)
}

// BackupFileName returns the default export file name for the day of now.
func BackupFileName(now time.Time) string {
	return BackupFilePrefix + model.Today(now) + ".json"
}
