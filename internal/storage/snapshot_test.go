package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/Veraticus/financas/internal/model"
	"github.com/Veraticus/financas/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportSnapshot(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	paid := testEntry("b", "2026-01-05")
	paid.DataPagamento = model.StringPtr("2026-01-04")
	require.NoError(t, store.Create(ctx, testEntry("a", "2026-02-10")))
	require.NoError(t, store.Create(ctx, paid))

	var buf bytes.Buffer
	require.NoError(t, store.ExportSnapshot(ctx, &buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "{\n  \"exportedAt\": \"2026-02-15T12:30:15.123Z\",\n  \"version\": 1,\n  \"lancamentos\": ["), out)
	assert.Contains(t, out, `"dataPagamento": null`)
	assert.Contains(t, out, `"observacoes": null`)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &snap))
	require.Len(t, snap.Lancamentos, 2)
	assert.Equal(t, "b", snap.Lancamentos[0].ID)
	assert.Equal(t, "2026-01-04", snap.Lancamentos[0].DataPagamentoText())
}

func TestExportSnapshot_Empty(t *testing.T) {
	store := createTestStorage(t)

	var buf bytes.Buffer
	require.NoError(t, store.ExportSnapshot(context.Background(), &buf))
	assert.Contains(t, buf.String(), `"lancamentos": []`)
}

func TestSnapshot_RoundTrip(t *testing.T) {
	source := createTestStorage(t)
	target := createTestStorage(t)
	ctx := context.Background()

	a := testEntry("a", "2026-02-10")
	a.Observacoes = model.StringPtr("com acentuação & <símbolos>")
	b := testEntry("b", "2026-03-10")
	b.DataPagamento = model.StringPtr("2026-03-01")
	b.Prioridade = model.PrioridadeAS3
	require.NoError(t, source.Create(ctx, a))
	require.NoError(t, source.Create(ctx, b))
	require.NoError(t, target.Create(ctx, testEntry("stale", "2025-12-01")))

	var buf bytes.Buffer
	require.NoError(t, source.ExportSnapshot(ctx, &buf))

	n, err := target.ImportSnapshot(ctx, &buf, service.ImportOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	want, err := source.List(ctx)
	require.NoError(t, err)
	got, err := target.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestImportSnapshot(t *testing.T) {
	valid := `{"lancamentos":[{"id":"x","mesRef":"2026-02","descricao":"Luz","dataVencimento":"2026-02-10","dataPagamento":null,"valor":89.9,"tipo":"ROTINA","prioridade":"NECESSIDADE","fonte":"NUBANK","modo":"PIX","observacoes":null,"createdAt":"2026-02-01T10:00:00.000Z","updatedAt":"2026-02-01T10:00:00.000Z"}]}`
	duplicate := `{"lancamentos":[` +
		`{"id":"x","mesRef":"2026-02","descricao":"Primeiro","dataVencimento":"2026-02-10","valor":1,"tipo":"ROTINA","prioridade":"DESEJO"},` +
		`{"id":"x","mesRef":"2026-02","descricao":"Segundo","dataVencimento":"2026-02-10","valor":2,"tipo":"ROTINA","prioridade":"DESEJO"}]}`

	tests := []struct {
		wantErr   error
		name      string
		input     string
		wantIDs   []string
		wantCount int
	}{
		{name: "valid file replaces content", input: valid, wantCount: 1, wantIDs: []string{"x"}},
		{name: "missing array clears storage", input: `{"exportedAt":"2026-01-01T00:00:00.000Z","version":1}`, wantCount: 0, wantIDs: []string{}},
		{name: "null array clears storage", input: `{"lancamentos":null}`, wantCount: 0, wantIDs: []string{}},
		{name: "duplicate ids keep the last", input: duplicate, wantCount: 1, wantIDs: []string{"x"}},
		{name: "malformed json", input: `{"lancamentos": [`, wantErr: ErrMalformedSnapshot},
		{name: "top level array", input: `[]`, wantErr: ErrMalformedSnapshot},
		{name: "top level null", input: `null`, wantErr: ErrMalformedSnapshot},
		{name: "empty input", input: "", wantErr: ErrMalformedSnapshot},
		{name: "array of wrong type", input: `{"lancamentos":{"id":"x"}}`, wantErr: ErrMalformedSnapshot},
		{name: "amount as string", input: `{"lancamentos":[{"id":"x","valor":"10"}]}`, wantErr: ErrMalformedSnapshot},
		{name: "invalid entry", input: `{"lancamentos":[{"id":"x","mesRef":"2026-13","descricao":"Luz","dataVencimento":"2026-02-10","valor":1,"tipo":"ROTINA","prioridade":"DESEJO"}]}`, wantErr: ErrInvalidSnapshotEntry},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := createTestStorage(t)
			ctx := context.Background()
			require.NoError(t, store.Create(ctx, testEntry("existing", "2026-01-10")))

			n, err := store.ImportSnapshot(ctx, strings.NewReader(tt.input), service.ImportOptions{})

			entries, listErr := store.List(ctx)
			require.NoError(t, listErr)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				require.Len(t, entries, 1, "failed import must leave storage untouched")
				assert.Equal(t, "existing", entries[0].ID)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantCount, n)
			ids := make([]string, len(entries))
			for i, e := range entries {
				ids[i] = e.ID
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestImportSnapshot_DuplicateKeepsLast(t *testing.T) {
	store := createTestStorage(t)
	ctx := context.Background()

	input := `{"lancamentos":[` +
		`{"id":"x","mesRef":"2026-02","descricao":"Primeiro","dataVencimento":"2026-02-10","valor":1,"tipo":"ROTINA","prioridade":"DESEJO"},` +
		`{"id":"x","mesRef":"2026-02","descricao":"Segundo","dataVencimento":"2026-02-10","valor":2,"tipo":"ROTINA","prioridade":"DESEJO"}]}`

	_, err := store.ImportSnapshot(ctx, strings.NewReader(input), service.ImportOptions{})
	require.NoError(t, err)

	got, err := store.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "Segundo", got.Descricao)
}

func TestImportSnapshot_Progress(t *testing.T) {
	store := createTestStorage(t)

	input := `{"lancamentos":[` +
		`{"id":"a","mesRef":"2026-02","descricao":"A","dataVencimento":"2026-02-10","valor":1,"tipo":"ROTINA","prioridade":"DESEJO"},` +
		`{"id":"b","mesRef":"2026-02","descricao":"B","dataVencimento":"2026-02-11","valor":2,"tipo":"EXTRA","prioridade":"SUPERFLUO"}]}`

	var calls [][2]int
	_, err := store.ImportSnapshot(context.Background(), strings.NewReader(input), service.ImportOptions{
		OnProgress: func(done, total int) { calls = append(calls, [2]int{done, total}) },
	})
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{1, 2}, {2, 2}}, calls)
}

func TestDecodeSnapshot_ReportsEntryIndex(t *testing.T) {
	input := `{"lancamentos":[` +
		`{"id":"a","mesRef":"2026-02","descricao":"A","dataVencimento":"2026-02-10","valor":1,"tipo":"ROTINA","prioridade":"DESEJO"},` +
		`{"id":"b","mesRef":"2026-02","descricao":"B","dataVencimento":"2026-02-11","valor":0,"tipo":"ROTINA","prioridade":"DESEJO"}]}`

	_, err := DecodeSnapshot(strings.NewReader(input))
	require.ErrorIs(t, err, ErrInvalidSnapshotEntry)
	assert.Contains(t, err.Error(), "entry 1")
	assert.Contains(t, err.Error(), "valor")
}
