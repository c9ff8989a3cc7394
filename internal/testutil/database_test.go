package testutil

import (
	"testing"

	"github.com/Veraticus/financas/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTestDB_Seeds(t *testing.T) {
	db := SetupTestDB(t,
		NewEntry("b").DueOn("2026-03-01").Build(),
		NewEntry("a").DueOn("2026-02-01").PaidOn("2026-02-01").Build(),
	)

	entries := db.MustList()
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].ID)
	assert.Equal(t, "2026-03", db.MustGet("b").MesRef)
}

func TestEntryBuilder_BuildCopies(t *testing.T) {
	b := NewEntry("x").Noted("original")
	first := b.Build()
	*first.Observacoes = "changed"

	second := b.Build()
	assert.Equal(t, "original", second.ObservacoesText())
	assert.Equal(t, model.TipoRotina, second.Tipo)
}
