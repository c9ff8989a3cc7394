package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrSchemaTooNew means the database was written by a newer financas.
var ErrSchemaTooNew = errors.New("database schema is newer than this binary")

// migration is one schema step. Version n is applied on top of n-1 and
// recorded in PRAGMA user_version.
type migration struct {
	description string
	statements  []string
}

var migrations = []migration{
	{
		description: "Initial schema",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS lancamentos (
				id TEXT PRIMARY KEY,
				mes_ref TEXT NOT NULL,
				descricao TEXT NOT NULL,
				data_vencimento TEXT NOT NULL,
				data_pagamento TEXT,
				valor REAL NOT NULL,
				tipo TEXT NOT NULL,
				prioridade TEXT NOT NULL,
				fonte TEXT NOT NULL DEFAULT 'N/A',
				modo TEXT NOT NULL DEFAULT 'N/A',
				observacoes TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_lancamentos_data_vencimento ON lancamentos(data_vencimento)`,
		},
	},
	{
		description: "Index reference month for month filters",
		statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_lancamentos_mes_ref ON lancamentos(mes_ref)`,
		},
	},
}

// ExpectedSchemaVersion is the schema version this binary writes.
var ExpectedSchemaVersion = len(migrations)

// SchemaVersion reads PRAGMA user_version.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// Migrate applies every pending migration, each in its own transaction.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if current > ExpectedSchemaVersion {
		return fmt.Errorf("%w: found %d, expected %d", ErrSchemaTooNew, current, ExpectedSchemaVersion)
	}

	for i := current; i < len(migrations); i++ {
		if err := s.applyMigration(ctx, i+1, migrations[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStorage) applyMigration(ctx context.Context, version int, m migration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range m.statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", version, err)
		}
	}

	// PRAGMA does not take bind parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", version)); err != nil {
		return fmt.Errorf("failed to update schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", version, err)
	}

	slog.Debug("Applied migration", "version", version, "description", m.description)
	return nil
}
