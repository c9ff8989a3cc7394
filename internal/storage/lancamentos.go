package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Veraticus/financas/internal/common"
	"github.com/Veraticus/financas/internal/model"
)

const lancamentoColumns = `id, mes_ref, descricao, data_vencimento, data_pagamento, valor,
	tipo, prioridade, fonte, modo, observacoes, created_at, updated_at`

// List returns every entry ordered by due date. Entries sharing a due date
// keep creation order.
func (s *SQLiteStorage) List(ctx context.Context) ([]model.Lancamento, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.listTx(ctx, s.db)
}

func (s *SQLiteStorage) listTx(ctx context.Context, q queryable) ([]model.Lancamento, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+lancamentoColumns+`
		FROM lancamentos
		ORDER BY data_vencimento ASC, created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	entries := []model.Lancamento{}
	for rows.Next() {
		entry, scanErr := scanLancamento(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}
	return entries, nil
}

// Get returns the entry with the given id, or an error wrapping
// common.ErrNotFound.
func (s *SQLiteStorage) Get(ctx context.Context, id string) (*model.Lancamento, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return s.getTx(ctx, s.db, id)
}

func (s *SQLiteStorage) getTx(ctx context.Context, q queryable, id string) (*model.Lancamento, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+lancamentoColumns+`
		FROM lancamentos
		WHERE id = ?
	`, id)

	entry, err := scanLancamento(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entry %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Create inserts a new entry. The id must not already exist.
func (s *SQLiteStorage) Create(ctx context.Context, entry *model.Lancamento) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateEntry(entry); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lancamentos (`+lancamentoColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, lancamentoArgs(entry)...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("entry %s: %w", entry.ID, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create entry: %w", err)
	}
	return nil
}

// Update applies a partial update to the entry with the given id.
func (s *SQLiteStorage) Update(ctx context.Context, id string, patch model.Patch) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	entry, err := s.getTx(ctx, tx, id)
	if err != nil {
		return err
	}

	patch.Apply(entry)
	if err := validateEntry(entry); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE lancamentos SET
			mes_ref = ?, descricao = ?, data_vencimento = ?, data_pagamento = ?,
			valor = ?, tipo = ?, prioridade = ?, fonte = ?, modo = ?,
			observacoes = ?, updated_at = ?
		WHERE id = ?
	`,
		entry.MesRef, entry.Descricao, entry.DataVencimento, nullString(entry.DataPagamento),
		entry.Valor, string(entry.Tipo), string(entry.Prioridade), entry.Fonte, entry.Modo,
		nullString(entry.Observacoes), entry.UpdatedAt,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to update entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Delete removes the entry with the given id.
func (s *SQLiteStorage) Delete(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM lancamentos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("entry %s: %w", id, common.ErrNotFound)
	}
	return nil
}

// Count returns the number of stored entries.
func (s *SQLiteStorage) Count(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM lancamentos`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return count, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLancamento(row scanner) (*model.Lancamento, error) {
	var (
		entry         model.Lancamento
		dataPagamento sql.NullString
		observacoes   sql.NullString
		tipo          string
		prioridade    string
	)

	err := row.Scan(
		&entry.ID,
		&entry.MesRef,
		&entry.Descricao,
		&entry.DataVencimento,
		&dataPagamento,
		&entry.Valor,
		&tipo,
		&prioridade,
		&entry.Fonte,
		&entry.Modo,
		&observacoes,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan entry: %w", err)
	}

	entry.Tipo = model.Tipo(tipo)
	entry.Prioridade = model.Prioridade(prioridade)
	if dataPagamento.Valid {
		entry.DataPagamento = &dataPagamento.String
	}
	if observacoes.Valid {
		entry.Observacoes = &observacoes.String
	}
	return &entry, nil
}

func lancamentoArgs(entry *model.Lancamento) []any {
	return []any{
		entry.ID,
		entry.MesRef,
		entry.Descricao,
		entry.DataVencimento,
		nullString(entry.DataPagamento),
		entry.Valor,
		string(entry.Tipo),
		string(entry.Prioridade),
		entry.Fonte,
		entry.Modo,
		nullString(entry.Observacoes),
		entry.CreatedAt,
		entry.UpdatedAt,
	}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
