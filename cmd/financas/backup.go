package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Veraticus/financas/internal/cli"
	"github.com/Veraticus/financas/internal/common"
	"github.com/Veraticus/financas/internal/ledger"
	"github.com/Veraticus/financas/internal/service"
	"github.com/Veraticus/financas/internal/storage"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// stdio is the file name that means stdin or stdout.
const stdio = "-"

func exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every entry as a JSON backup",
		Long: `Export every entry as a JSON snapshot. By default the file is
financas-backup-YYYY-MM-DD.json in the current directory; --out - writes to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if out == stdio {
				return s.ledger.Export(ctx, cmd.OutOrStdout())
			}

			path := out
			if path == "" {
				path = ledger.BackupFileName(s.ledger.Now())
			}

			f, err := os.Create(path) // #nosec G304
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			if err := s.ledger.Export(ctx, f); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			count, err := s.store.Count(ctx)
			if err != nil {
				return err
			}
			writeln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%d lançamentos exportados para %s.", count, path)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (- for stdout)")
	return cmd
}

func importCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace every entry with a JSON backup",
		Long: `Replace the whole ledger with the entries of a JSON snapshot written by
export. The file is validated first and applied in one transaction: on any
error nothing changes. Reading from stdin (-) skips the confirmation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			var r io.Reader
			if path == stdio {
				r = cmd.InOrStdin()
				force = true
			} else {
				f, err := os.Open(path) // #nosec G304
				if err != nil {
					return common.NewUserError(fmt.Sprintf("Não foi possível abrir %s.", path), err)
				}
				defer func() { _ = f.Close() }()
				r = f
			}

			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			count, err := s.store.Count(ctx)
			if err != nil {
				return err
			}
			if count > 0 {
				ok, err := confirm(cmd, force, fmt.Sprintf("Importar vai substituir os %d lançamentos atuais. Continuar?", count))
				if err != nil {
					return err
				}
				if !ok {
					writeln(cmd.OutOrStdout(), cli.FormatInfo("Importação cancelada."))
					return nil
				}
			}

			var bar *progressbar.ProgressBar
			opts := service.ImportOptions{
				OnProgress: func(done, total int) {
					if bar == nil {
						bar = newProgressBar(cmd.ErrOrStderr(), total, "Importando lançamentos...")
					}
					if err := bar.Set(done); err != nil {
						slog.Warn("Failed to update progress bar", "error", err)
					}
				},
			}

			n, err := s.ledger.Import(ctx, r, opts)
			if err != nil {
				if errors.Is(err, storage.ErrMalformedSnapshot) || errors.Is(err, storage.ErrInvalidSnapshotEntry) {
					return common.NewUserError("Arquivo de backup inválido. Nenhum dado foi alterado.", err)
				}
				return err
			}

			writeln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%d lançamentos importados.", n)))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}

func newProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}
