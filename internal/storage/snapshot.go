package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/financas/internal/model"
	"github.com/Veraticus/financas/internal/service"
)

// SnapshotVersion is written into every exported snapshot.
const SnapshotVersion = 1

// Snapshot errors.
var (
	ErrMalformedSnapshot    = errors.New("malformed snapshot")
	ErrInvalidSnapshotEntry = errors.New("invalid snapshot entry")
)

// Snapshot is the backup file layout.
type Snapshot struct {
	ExportedAt  string             `json:"exportedAt"`
	Version     int                `json:"version"`
	Lancamentos []model.Lancamento `json:"lancamentos"`
}

// ExportSnapshot writes every stored entry to w as an indented JSON snapshot.
func (s *SQLiteStorage) ExportSnapshot(ctx context.Context, w io.Writer) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if w == nil {
		return fmt.Errorf("%w: writer", ErrNilParameter)
	}

	entries, err := s.List(ctx)
	if err != nil {
		return err
	}

	snap := Snapshot{
		ExportedAt:  model.FormatTimestamp(s.clock.Now()),
		Version:     SnapshotVersion,
		Lancamentos: entries,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// ImportSnapshot replaces every stored entry with the entries in the
// snapshot read from r. The replacement is all or nothing: a malformed file,
// an invalid entry or a write failure leaves the stored entries untouched.
// Entries sharing an id collapse to the last one. It returns the number of
// entries stored afterwards.
func (s *SQLiteStorage) ImportSnapshot(ctx context.Context, r io.Reader, opts service.ImportOptions) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if r == nil {
		return 0, fmt.Errorf("%w: reader", ErrNilParameter)
	}

	entries, err := DecodeSnapshot(r)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM lancamentos`); err != nil {
		return 0, fmt.Errorf("failed to clear entries: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO lancamentos (`+lancamentoColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			slog.Error("failed to close statement", "error", closeErr)
		}
	}()

	for i := range entries {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if _, err := stmt.ExecContext(ctx, lancamentoArgs(&entries[i])...); err != nil {
			return 0, fmt.Errorf("failed to import entry %s: %w", entries[i].ID, err)
		}
		if opts.OnProgress != nil {
			opts.OnProgress(i+1, len(entries))
		}
	}

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM lancamentos`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Debug("Imported snapshot", "entries", len(entries), "stored", count)
	return count, nil
}

// DecodeSnapshot parses and validates a snapshot without touching storage.
// A missing or null "lancamentos" key is an empty snapshot.
func DecodeSnapshot(r io.Reader) ([]model.Lancamento, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrMalformedSnapshot)
	}

	var raw struct {
		Lancamentos []model.Lancamento `json:"lancamentos"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
	}

	for i := range raw.Lancamentos {
		if err := validateEntry(&raw.Lancamentos[i]); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrInvalidSnapshotEntry, i, err)
		}
	}

	if raw.Lancamentos == nil {
		return []model.Lancamento{}, nil
	}
	return raw.Lancamentos, nil
}
