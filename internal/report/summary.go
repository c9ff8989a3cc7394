// Package report aggregates ledger entries into totals and tabular exports.
package report

import (
	"sort"
	"time"

	"github.com/Veraticus/financas/internal/model"
	"github.com/shopspring/decimal"
)

// Totals is a count and an exact sum of amounts.
type Totals struct {
	Amount decimal.Decimal
	Count  int
}

func (t *Totals) add(v decimal.Decimal) {
	t.Amount = t.Amount.Add(v)
	t.Count++
}

// MonthSummary holds the totals of one reference month split by status.
type MonthSummary struct {
	MesRef   string
	Total    Totals
	Pago     Totals
	Pendente Totals
	Atrasado Totals
}

// Summary holds the totals over a set of entries.
type Summary struct {
	ByStatus map[model.Status]Totals
	Months   []MonthSummary
	Total    Totals
}

// Summarize totals entries by status and by reference month as of now.
// Months are sorted ascending.
func Summarize(entries []model.Lancamento, now time.Time) Summary {
	s := Summary{ByStatus: make(map[model.Status]Totals, len(model.Statuses()))}
	for _, st := range model.Statuses() {
		s.ByStatus[st] = Totals{}
	}

	months := make(map[string]*MonthSummary)
	for _, e := range entries {
		v := decimal.NewFromFloat(e.Valor)
		st := model.ComputeStatus(e, now)

		s.Total.add(v)
		byStatus := s.ByStatus[st]
		byStatus.add(v)
		s.ByStatus[st] = byStatus

		m, ok := months[e.MesRef]
		if !ok {
			m = &MonthSummary{MesRef: e.MesRef}
			months[e.MesRef] = m
		}
		m.Total.add(v)
		switch st {
		case model.StatusPago:
			m.Pago.add(v)
		case model.StatusAtrasado:
			m.Atrasado.add(v)
		default:
			m.Pendente.add(v)
		}
	}

	s.Months = make([]MonthSummary, 0, len(months))
	for _, m := range months {
		s.Months = append(s.Months, *m)
	}
	sort.Slice(s.Months, func(i, j int) bool {
		return s.Months[i].MesRef < s.Months[j].MesRef
	})
	return s
}

// Outstanding is the amount still to pay: pending plus overdue.
func (s Summary) Outstanding() decimal.Decimal {
	return s.ByStatus[model.StatusPendente].Amount.Add(s.ByStatus[model.StatusAtrasado].Amount)
}
