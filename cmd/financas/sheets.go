package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Veraticus/financas/internal/cli"
	"github.com/Veraticus/financas/internal/common"
	"github.com/Veraticus/financas/internal/config"
	"github.com/Veraticus/financas/internal/report"
	"github.com/Veraticus/financas/internal/sheets"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newTableWriter is replaced in tests.
var newTableWriter = func(ctx context.Context, cfg sheets.Config) (sheets.TableWriter, error) {
	return sheets.NewWriter(ctx, cfg, slog.Default())
}

func sheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Push the ledger to Google Sheets",
		Long: `Push the ledger to a Google Sheets spreadsheet.

Credentials come from sheets.* in the config file, FINANCAS_SHEETS_* or
GOOGLE_SHEETS_* environment variables, or the token saved by "sheets auth".`,
	}
	cmd.AddCommand(sheetsPushCmd())
	cmd.AddCommand(sheetsAuthCmd())
	return cmd
}

func sheetsPushCmd() *cobra.Command {
	var (
		flags         filterFlags
		spreadsheetID string
	)

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Replace the spreadsheet tabs with the filtered entries and a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			criteria, err := flags.criteria()
			if err != nil {
				return err
			}

			cfg := config.LoadSheetsConfig()
			if spreadsheetID != "" {
				cfg.SpreadsheetID = spreadsheetID
			}
			if err := cfg.Validate(); err != nil {
				return common.NewUserError("Google Sheets não configurado. Rode \"financas sheets auth\" ou defina sheets.* no config.", err)
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

			slog.Debug("Pushing to sheets", "auth", cfg.Auth(), "entries", len(entries))
			writer, err := newTableWriter(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to create sheets writer: %w", err)
			}

			if err := writer.Write(ctx,
				report.EntriesTable(entries, now),
				report.SummaryTable(report.Summarize(entries, now)),
			); err != nil {
				return fmt.Errorf("failed to push to sheets: %w", err)
			}

			msg := fmt.Sprintf("%d lançamentos enviados ao Google Sheets.", len(entries))
			if w, ok := writer.(*sheets.Writer); ok && w.SpreadsheetID() != "" {
				msg += " Planilha: " + w.SpreadsheetID()
			}
			writeln(cmd.OutOrStdout(), cli.FormatSuccess(msg))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&spreadsheetID, "spreadsheet", "", "spreadsheet id (overrides sheets.spreadsheet_id)")
	return cmd
}

func sheetsAuthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "auth",
		Short: "Authorize access to Google Sheets and save the token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			cfg := config.LoadSheetsConfig()
			if cfg.ClientID == "" || cfg.ClientSecret == "" {
				return common.NewUserError("Defina sheets.client_id e sheets.client_secret antes de autenticar.", common.ErrMissingConfig)
			}

			token, err := sheets.GetOrCreateToken(ctx, sheets.OAuth2Config{
				ClientID:     cfg.ClientID,
				ClientSecret: cfg.ClientSecret,
				TokenFile:    cfg.TokenFile,
				CallbackAddr: viper.GetString("sheets.callback_addr"),
			}, func(url string) {
				writeln(out, cli.FormatInfo("Abra este endereço no navegador para autorizar o acesso:"))
				writeln(out, url)
			})
			if err != nil {
				return fmt.Errorf("failed to authenticate: %w", err)
			}

			if token.RefreshToken == "" {
				writeln(out, cli.FormatWarning("O Google não devolveu um refresh token; revogue o acesso e tente de novo."))
				return nil
			}
			writeln(out, cli.FormatSuccess("Autenticado. Token salvo em "+cfg.TokenFile))
			return nil
		},
	}
}
