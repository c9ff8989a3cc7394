package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/financas/internal/model"
	tea "github.com/charmbracelet/bubbletea"
)

const actionTimeout = 10 * time.Second

// loadEntries loads the filtered entries from the ledger.
func (m Model) loadEntries() tea.Cmd {
	criteria := m.criteria
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, actionTimeout)
		defer cancel()

		entries, err := m.ledger.Filtered(ctx, criteria)
		return entriesLoadedMsg{entries: entries, err: err}
	}
}

// pay stamps today's date as the payment date.
func (m Model) pay(l model.Lancamento) tea.Cmd {
	return m.action(func(ctx context.Context) error {
		return m.ledger.MarkPaid(ctx, l.ID)
	}, fmt.Sprintf("%q marcado como pago", l.Descricao))
}

// unpay clears the payment date.
func (m Model) unpay(l model.Lancamento) tea.Cmd {
	return m.action(func(ctx context.Context) error {
		return m.ledger.Unpay(ctx, l.ID)
	}, fmt.Sprintf("pagamento de %q desfeito", l.Descricao))
}

// remove deletes the entry.
func (m Model) remove(l model.Lancamento) tea.Cmd {
	return m.action(func(ctx context.Context) error {
		return m.ledger.Delete(ctx, l.ID)
	}, fmt.Sprintf("%q excluído", l.Descricao))
}

func (m Model) action(fn func(context.Context) error, message string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, actionTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			return actionDoneMsg{err: err}
		}
		return actionDoneMsg{message: message}
	}
}
