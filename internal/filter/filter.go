// Package filter implements the in-memory query over ledger entries.
package filter

import (
	"strings"
	"time"

	"github.com/Veraticus/financas/internal/model"
	"golang.org/x/text/cases"
)

// Criteria holds the optional filters. Zero values mean "not set", and all
// set filters must match for an entry to pass.
type Criteria struct {
	Tipo        *model.Tipo
	Prioridade  *model.Prioridade
	Status      *model.Status
	MesRef      string
	Search      string
	OnlyOverdue bool
}

// Default returns criteria that let every entry through.
func Default() Criteria {
	return Criteria{}
}

// IsZero reports whether no filter is set.
func (c Criteria) IsZero() bool {
	return c.MesRef == "" &&
		strings.TrimSpace(c.Search) == "" &&
		c.Tipo == nil &&
		c.Prioridade == nil &&
		c.Status == nil &&
		!c.OnlyOverdue
}

// Apply returns the entries that satisfy c, keeping their relative order.
// The input slice is not modified. now feeds the status derivation.
func Apply(items []model.Lancamento, c Criteria, now time.Time) []model.Lancamento {
	folder := cases.Fold()
	query := folder.String(strings.TrimSpace(c.Search))

	out := make([]model.Lancamento, 0, len(items))
	for _, it := range items {
		if matches(it, c, query, now) {
			out = append(out, it)
		}
	}
	return out
}

// Match reports whether a single entry passes c.
func Match(it model.Lancamento, c Criteria, now time.Time) bool {
	return matches(it, c, cases.Fold().String(strings.TrimSpace(c.Search)), now)
}

func matches(it model.Lancamento, c Criteria, query string, now time.Time) bool {
	if c.MesRef != "" && it.MesRef != c.MesRef {
		return false
	}
	if c.Tipo != nil && it.Tipo != *c.Tipo {
		return false
	}
	if c.Prioridade != nil && it.Prioridade != *c.Prioridade {
		return false
	}

	st := model.ComputeStatus(it, now)
	if c.OnlyOverdue && st != model.StatusAtrasado {
		return false
	}
	if c.Status != nil && st != *c.Status {
		return false
	}

	if query != "" && !strings.Contains(haystack(it), query) {
		return false
	}
	return true
}

func haystack(it model.Lancamento) string {
	joined := strings.Join([]string{it.Descricao, it.Fonte, it.Modo, it.ObservacoesText()}, " ")
	return cases.Fold().String(joined)
}
