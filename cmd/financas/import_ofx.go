package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Veraticus/financas/internal/cli"
	"github.com/Veraticus/financas/internal/common"
	"github.com/Veraticus/financas/internal/money"
	"github.com/Veraticus/financas/internal/ofx"
	"github.com/spf13/cobra"
)

func importOFXCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import bank statement debits from OFX/QFX files",
		Long: `Import the debits of OFX or QFX statements exported from your bank as
paid EXTRA entries. Each transaction becomes the entry ofx-<FITID>, so
importing the same statement twice adds nothing. Credits are skipped.

Examples:
  # Import single file
  financas import-ofx ~/Downloads/extrato-2026-02.ofx

  # Import every statement in a directory
  financas import-ofx ~/Downloads/*.ofx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			files, err := expandFiles(args)
			if err != nil {
				return err
			}

			parser := ofx.NewParser()
			var all []ofx.Transaction
			for _, path := range files {
				txns, err := parseOFXFile(cmd, parser, path)
				if err != nil {
					common.LogError(err, "Failed to parse OFX file", common.Fields{"file": path})
					writeln(out, cli.FormatWarning(fmt.Sprintf("%s ignorado: %v", filepath.Base(path), err)))
					continue
				}
				slog.Info("Parsed file", "file", filepath.Base(path), "transactions", len(txns))
				all = append(all, txns...)
			}

			if len(all) == 0 {
				writeln(out, cli.FormatInfo("Nenhuma transação encontrada."))
				return nil
			}

			if dryRun {
				now := clock.Now()
				for _, tx := range all {
					if !tx.IsDebit() {
						continue
					}
					e := ofx.ToEntry(tx, now)
					writef(out, "  %s  %-32s  %s\n", e.DataVencimento, e.Descricao, money.FormatBRL(e.Valor))
				}
				writeln(out, cli.FormatInfo("Simulação: nada foi gravado."))
				return nil
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			result, err := ofx.Import(ctx, s.store, all, clock.Now())
			if err != nil {
				return err
			}

			writeln(out, cli.FormatSuccess(fmt.Sprintf("%d lançamentos criados, %d já existiam, %d créditos ignorados.",
				result.Created, result.Duplicates, result.Credits)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Preview import without saving")
	return cmd
}

// expandFiles expands globs and keeps plain paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			// If no glob matches, check if it's a direct file
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("no files found to import")
	}
	return files, nil
}

func parseOFXFile(cmd *cobra.Command, parser *ofx.Parser, path string) ([]ofx.Transaction, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return parser.ParseFile(cmd.Context(), f)
}
