package main

import (
	"fmt"
	"os"

	"github.com/Veraticus/financas/internal/cli"
	"github.com/Veraticus/financas/internal/report"
	"github.com/spf13/cobra"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate reports",
	}
	cmd.AddCommand(reportXLSXCmd())
	return cmd
}

func reportXLSXCmd() *cobra.Command {
	var (
		flags filterFlags
		out   string
	)

	cmd := &cobra.Command{
		Use:   "xlsx",
		Short: "Write the filtered entries and a summary to an Excel workbook",
		Long: `Write a workbook with a "Lançamentos" sheet holding the filtered entries
and their status, and a "Resumo" sheet with totals per month.
The default file is financas-YYYY-MM-DD.xlsx; --out - writes to stdout.`,
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
			now := s.ledger.Now()

			if out == stdio {
				return report.WriteXLSX(cmd.OutOrStdout(), entries, now)
			}

			path := out
			if path == "" {
				path = report.FileName(now)
			}

			f, err := os.Create(path) // #nosec G304
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			if err := report.WriteXLSX(f, entries, now); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			writeln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Relatório com %d lançamentos salvo em %s.", len(entries), path)))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (- for stdout)")
	return cmd
}
