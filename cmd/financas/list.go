package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/Veraticus/financas/internal/cli"
	"github.com/Veraticus/financas/internal/model"
	"github.com/Veraticus/financas/internal/money"
	"github.com/Veraticus/financas/internal/report"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List entries",
		Long: `List ledger entries ordered by due date, with their derived status.

Examples:
  financas list --mes 2026-02
  financas list --atrasados
  financas list --busca nubank --tipo ROTINA`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			criteria, err := flags.criteria()
			if err != nil {
				return err
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			entries, err := s.ledger.Filtered(ctx, criteria)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				writeln(out, cli.FormatInfo("Nenhum lançamento encontrado."))
				return nil
			}

			now := s.ledger.Now()
			renderEntries(out, entries, now)
			writeln(out)
			writeln(out, totalsLine(report.Summarize(entries, now)))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// renderEntries prints entries as an aligned table with status pills.
func renderEntries(out io.Writer, entries []model.Lancamento, now time.Time) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer func() { _ = w.Flush() }()

	writeln(w, cli.HeaderRow([]string{"MES REF", "DESPESA", "DATA VENC", "DATA PG", "VALOR", "TIPO", "PRIORIDADE", "FONTE", "MODO", "STATUS", "ID"}))

	for _, e := range entries {
		pago := e.DataPagamentoText()
		if pago == "" {
			pago = "-"
		}
		writeln(w, strings.Join([]string{
			e.MesRef,
			e.Descricao,
			e.DataVencimento,
			pago,
			money.FormatBRL(e.Valor),
			string(e.Tipo),
			string(e.Prioridade),
			e.Fonte,
			e.Modo,
			cli.StatusPill(model.ComputeStatus(e, now)),
			cli.SubtleStyle.Render(e.ID),
		}, "\t"))
	}
}

func totalsLine(s report.Summary) string {
	line := fmt.Sprintf("%d lançamentos · total %s · em aberto %s",
		s.Total.Count,
		money.FormatBRL(s.Total.Amount.InexactFloat64()),
		money.FormatBRL(s.Outstanding().InexactFloat64()))
	if overdue := s.ByStatus[model.StatusAtrasado]; overdue.Count > 0 {
		line += " · " + cli.StyleError(fmt.Sprintf("%d atrasados (%s)", overdue.Count, money.FormatBRL(overdue.Amount.InexactFloat64())))
	}
	return line
}

func summaryCmd() *cobra.Command {
	var flags filterFlags

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals per status and per month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			criteria, err := flags.criteria()
			if err != nil {
				return err
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			entries, err := s.ledger.Filtered(ctx, criteria)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			summary := report.Summarize(entries, s.ledger.Now())

			writeln(out, cli.FormatTitle("Resumo"))
			renderSummary(out, summary)
			writeln(out)
			writeln(out, totalsLine(summary))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func renderSummary(out io.Writer, s report.Summary) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	defer func() { _ = w.Flush() }()

	writeln(w, cli.HeaderRow(report.SummaryTable(s).Headers)+"\t")

	row := func(label string, count int, total, pago, pendente, atrasado float64) {
		writeln(w, strings.Join([]string{
			label,
			fmt.Sprint(count),
			money.FormatBRL(total),
			money.FormatBRL(pago),
			money.FormatBRL(pendente),
			money.FormatBRL(atrasado),
		}, "\t")+"\t")
	}

	for _, m := range s.Months {
		row(m.MesRef, m.Total.Count,
			m.Total.Amount.InexactFloat64(),
			m.Pago.Amount.InexactFloat64(),
			m.Pendente.Amount.InexactFloat64(),
			m.Atrasado.Amount.InexactFloat64())
	}
	row("TOTAL", s.Total.Count,
		s.Total.Amount.InexactFloat64(),
		s.ByStatus[model.StatusPago].Amount.InexactFloat64(),
		s.ByStatus[model.StatusPendente].Amount.InexactFloat64(),
		s.ByStatus[model.StatusAtrasado].Amount.InexactFloat64())
}
