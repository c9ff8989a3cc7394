package tui

import (
	"context"
	"testing"
	"time"

	"github.com/Veraticus/financas/internal/common"
	"github.com/Veraticus/financas/internal/ledger"
	"github.com/Veraticus/financas/internal/model"
	"github.com/Veraticus/financas/internal/service"
	"github.com/Veraticus/financas/internal/testutil"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 2, 15, 14, 0, 0, 0, time.UTC)

func fixedClock() service.Clock {
	return service.ClockFunc(func() time.Time { return now })
}

// setup returns a loaded model over an aluguel (overdue) and an internet
// (pending) entry.
func setup(t *testing.T, entries ...model.Lancamento) (Model, *testutil.TestDB) {
	t.Helper()
	if entries == nil {
		entries = []model.Lancamento{
			testutil.NewEntry("a").Described("Aluguel").DueOn("2026-02-10").Amount(1500).Build(),
			testutil.NewEntry("b").Described("Internet").DueOn("2026-02-20").Amount(99.9).From("ITAU", "BOLETO").Build(),
		}
	}
	db := testutil.SetupTestDBWithOptions(t, testutil.TestDBOptions{Clock: fixedClock(), Entries: entries})
	svc := ledger.NewService(db.Storage, fixedClock())

	m := newModel(context.Background(), svc, defaultConfig())
	m = settle(t, m, m.Init())
	return m, db
}

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

// settle runs ledger commands until the model is idle.
func settle(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		switch msg.(type) {
		case entriesLoadedMsg, actionDoneMsg:
			m, cmd = step(t, m, msg)
		default:
			t.Fatalf("unexpected message %T", msg)
		}
	}
	return m
}

func press(t *testing.T, m Model, keys string) (Model, tea.Cmd) {
	t.Helper()
	return step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)})
}

func ids(entries []model.Lancamento) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestModel_Loads(t *testing.T) {
	m, _ := setup(t)

	assert.True(t, m.ready)
	assert.Equal(t, []string{"a", "b"}, ids(m.entries))
	assert.Len(t, m.table.Rows(), 2)

	view := m.View()
	assert.Contains(t, view, "Aluguel")
	assert.Contains(t, view, "R$ 1.500,00")
	assert.Contains(t, view, "1 atrasados")
}

func TestModel_RowsShowDerivedStatus(t *testing.T) {
	m, _ := setup(t)

	rows := m.table.Rows()
	assert.Equal(t, "ATRASADO", rows[0][7])
	assert.Equal(t, "PENDENTE", rows[1][7])
	assert.Equal(t, "R$ 99,90", rows[1][4])
}

func TestModel_Pay(t *testing.T) {
	m, db := setup(t)

	m, cmd := press(t, m, "p")
	require.NotNil(t, cmd)
	m = settle(t, m, cmd)

	got := db.MustGet("a")
	require.NotNil(t, got.DataPagamento)
	assert.Equal(t, "2026-02-15", *got.DataPagamento)
	assert.Equal(t, "PAGO", m.table.Rows()[0][7])
	assert.Contains(t, m.message, "Aluguel")
	assert.NoError(t, m.lastError)
}

func TestModel_Unpay(t *testing.T) {
	m, db := setup(t, testutil.NewEntry("a").Described("Luz").DueOn("2026-02-20").PaidOn("2026-02-12").Build())

	m, cmd := press(t, m, "u")
	m = settle(t, m, cmd)

	assert.Nil(t, db.MustGet("a").DataPagamento)
	assert.Equal(t, "PENDENTE", m.table.Rows()[0][7])
}

func TestModel_DeleteNeedsConfirmation(t *testing.T) {
	m, db := setup(t)

	m, cmd := press(t, m, "d")
	assert.Nil(t, cmd)
	assert.Equal(t, StateConfirmDelete, m.state)
	assert.Contains(t, m.View(), `Excluir "Aluguel"?`)

	m, cmd = press(t, m, "n")
	assert.Nil(t, cmd)
	assert.Equal(t, StateBrowsing, m.state)
	assert.Len(t, db.MustList(), 2)

	m, _ = press(t, m, "d")
	m, cmd = press(t, m, "y")
	m = settle(t, m, cmd)

	assert.Equal(t, []string{"b"}, ids(m.entries))
	assert.Equal(t, []string{"b"}, ids(db.MustList()))
}

func TestModel_ToggleOverdue(t *testing.T) {
	m, _ := setup(t)

	m, cmd := press(t, m, "o")
	m = settle(t, m, cmd)
	assert.Equal(t, []string{"a"}, ids(m.entries))
	assert.Contains(t, m.View(), "só atrasados")

	m, cmd = press(t, m, "o")
	m = settle(t, m, cmd)
	assert.Equal(t, []string{"a", "b"}, ids(m.entries))
}

func TestModel_Search(t *testing.T) {
	m, _ := setup(t)

	m, _ = press(t, m, "/")
	assert.Equal(t, StateSearching, m.state)

	// Keys go to the input while searching.
	m, _ = press(t, m, "itau")
	assert.Equal(t, StateSearching, m.state)

	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = settle(t, m, cmd)
	assert.Equal(t, StateBrowsing, m.state)
	assert.Equal(t, "itau", m.criteria.Search)
	assert.Equal(t, []string{"b"}, ids(m.entries))

	m, cmd = step(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = settle(t, m, cmd)
	assert.Empty(t, m.criteria.Search)
	assert.Len(t, m.entries, 2)
}

func TestModel_SearchEscKeepsCriteria(t *testing.T) {
	m, _ := setup(t)

	m, _ = press(t, m, "/")
	m, _ = press(t, m, "aluguel")
	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, cmd)
	assert.Equal(t, StateBrowsing, m.state)
	assert.Empty(t, m.criteria.Search)
}

func TestModel_ActionErrorIsShown(t *testing.T) {
	m, db := setup(t)
	require.NoError(t, db.Storage.Delete(context.Background(), "a"))

	m, cmd := press(t, m, "p")
	m = settle(t, m, cmd)

	assert.ErrorIs(t, m.lastError, common.ErrNotFound)
	assert.Contains(t, m.View(), "✗")
}

func TestModel_Empty(t *testing.T) {
	m, _ := setup(t, []model.Lancamento{}...)

	assert.Contains(t, m.View(), "Nenhum lançamento encontrado.")

	m, cmd := press(t, m, "p")
	assert.Nil(t, cmd)
	m, cmd = press(t, m, "d")
	assert.Nil(t, cmd)
	assert.Equal(t, StateBrowsing, m.state)
}

func TestModel_Quit(t *testing.T) {
	m, _ := setup(t)

	m, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}

func TestModel_Resize(t *testing.T) {
	m, _ := setup(t)

	m, cmd := step(t, m, tea.WindowSizeMsg{Width: 160, Height: 40})
	assert.Nil(t, cmd)
	assert.Equal(t, 160, m.width)
	tall := m.table.Height()

	m, _ = step(t, m, tea.WindowSizeMsg{Width: 20, Height: 5})
	assert.Less(t, m.table.Height(), tall)
	assert.Contains(t, m.View(), "Aluguel")
}

func TestModel_HelpToggle(t *testing.T) {
	m, _ := setup(t)

	m, _ = press(t, m, "?")
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "recarregar")
}

func TestRun_RequiresLedger(t *testing.T) {
	assert.Error(t, Run(context.Background(), nil))
}
