package report

import (
	"time"

	"github.com/Veraticus/financas/internal/model"
)

// Sheet names used by every tabular export.
const (
	EntriesSheet = "Lançamentos"
	SummarySheet = "Resumo"
)

// Table is a header row followed by data rows, ready for a spreadsheet.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// Values returns the header and data rows as one grid.
func (t Table) Values() [][]any {
	values := make([][]any, 0, len(t.Rows)+1)
	header := make([]any, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h
	}
	values = append(values, header)
	return append(values, t.Rows...)
}

// EntriesTable lays out entries one per row with their status as of now.
func EntriesTable(entries []model.Lancamento, now time.Time) Table {
	t := Table{
		Name: EntriesSheet,
		Headers: []string{
			"MES REF", "DESPESA", "DATA VENC", "DATA PG", "VALOR",
			"TIPO", "PRIORIDADE", "FONTE", "MODO", "STATUS", "OBS",
		},
		Rows: make([][]any, 0, len(entries)),
	}

	for _, e := range entries {
		t.Rows = append(t.Rows, []any{
			e.MesRef,
			e.Descricao,
			e.DataVencimento,
			e.DataPagamentoText(),
			e.Valor,
			string(e.Tipo),
			string(e.Prioridade),
			e.Fonte,
			e.Modo,
			string(model.ComputeStatus(e, now)),
			e.ObservacoesText(),
		})
	}
	return t
}

// SummaryTable lays out the per-month totals followed by a grand total row.
func SummaryTable(s Summary) Table {
	t := Table{
		Name:    SummarySheet,
		Headers: []string{"MES REF", "LANÇAMENTOS", "TOTAL", "PAGO", "PENDENTE", "ATRASADO"},
		Rows:    make([][]any, 0, len(s.Months)+1),
	}

	for _, m := range s.Months {
		t.Rows = append(t.Rows, []any{
			m.MesRef,
			m.Total.Count,
			m.Total.Amount.InexactFloat64(),
			m.Pago.Amount.InexactFloat64(),
			m.Pendente.Amount.InexactFloat64(),
			m.Atrasado.Amount.InexactFloat64(),
		})
	}

	t.Rows = append(t.Rows, []any{
		"TOTAL",
		s.Total.Count,
		s.Total.Amount.InexactFloat64(),
		s.ByStatus[model.StatusPago].Amount.InexactFloat64(),
		s.ByStatus[model.StatusPendente].Amount.InexactFloat64(),
		s.ByStatus[model.StatusAtrasado].Amount.InexactFloat64(),
	})
	return t
}
