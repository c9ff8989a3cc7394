package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/financas/internal/ledger"
	"github.com/Veraticus/financas/internal/model"
	"github.com/Veraticus/financas/internal/money"
	"github.com/Veraticus/financas/internal/report"
)

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.theme.Title.Render("💰 Finanças"))
	b.WriteString("  ")
	b.WriteString(m.theme.Subtitle.Render(m.filterSummary()))
	b.WriteString("\n")
	b.WriteString(m.totalsLine())
	b.WriteString("\n\n")

	switch {
	case !m.ready && m.lastError == nil:
		b.WriteString(m.theme.Subtitle.Render("Carregando..."))
	case len(m.entries) == 0:
		b.WriteString(m.theme.Subtitle.Render("Nenhum lançamento encontrado."))
	default:
		b.WriteString(m.theme.BorderedBox.Render(m.table.View()))
	}
	b.WriteString("\n")

	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keymap))

	return b.String()
}

func (m Model) filterSummary() string {
	var parts []string
	if m.criteria.MesRef != "" {
		parts = append(parts, "mês "+m.criteria.MesRef)
	}
	if m.criteria.Tipo != nil {
		parts = append(parts, string(*m.criteria.Tipo))
	}
	if m.criteria.Prioridade != nil {
		parts = append(parts, string(*m.criteria.Prioridade))
	}
	if m.criteria.Status != nil {
		parts = append(parts, string(*m.criteria.Status))
	}
	if m.criteria.OnlyOverdue {
		parts = append(parts, "só atrasados")
	}
	if s := strings.TrimSpace(m.criteria.Search); s != "" {
		parts = append(parts, fmt.Sprintf("busca %q", s))
	}
	if len(parts) == 0 {
		return "todos os lançamentos"
	}
	return strings.Join(parts, " · ")
}

func (m Model) totalsLine() string {
	s := report.Summarize(m.entries, m.ledger.Now())
	overdue := s.ByStatus[model.StatusAtrasado]

	line := fmt.Sprintf("%d lançamentos · total %s · em aberto %s",
		s.Total.Count,
		money.FormatBRL(s.Total.Amount.InexactFloat64()),
		money.FormatBRL(s.Outstanding().InexactFloat64()))
	if overdue.Count > 0 {
		return m.theme.Normal.Render(line+" · ") +
			m.theme.Status(model.StatusAtrasado).Render(fmt.Sprintf("%d atrasados", overdue.Count))
	}
	return m.theme.Normal.Render(line)
}

func (m Model) statusLine() string {
	switch {
	case m.state == StateSearching:
		return m.search.View()
	case m.state == StateConfirmDelete && m.pendingDelete != nil:
		return m.theme.StatusWarning.Render(ledger.ConfirmDeletePrompt(*m.pendingDelete) + " (y/n)")
	case m.lastError != nil:
		return m.theme.StatusError.Render("✗ " + m.lastError.Error())
	case m.message != "":
		return m.theme.StatusSuccess.Render("✓ " + m.message)
	}
	return ""
}
