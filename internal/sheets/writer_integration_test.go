//go:build integration
// +build integration

package sheets

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/Veraticus/financas/internal/model"
	"github.com/Veraticus/financas/internal/report"
	"github.com/stretchr/testify/require"
)

func integrationTables(now time.Time) []report.Table {
	entries := []model.Lancamento{
		{
			ID: "int-1", MesRef: "2026-02", Descricao: "Aluguel", DataVencimento: "2026-02-05",
			DataPagamento: model.StringPtr("2026-02-05"), Valor: 1500,
			Tipo: model.TipoRotina, Prioridade: model.PrioridadeNecessidade, Fonte: "NUBANK", Modo: "PIX",
		},
		{
			ID: "int-2", MesRef: "2026-02", Descricao: "Internet", DataVencimento: "2026-02-20",
			Valor: 99.9, Tipo: model.TipoRotina, Prioridade: model.PrioridadeNecessidade, Fonte: "ITAU", Modo: "BOLETO",
		},
	}
	return []report.Table{
		report.EntriesTable(entries, now),
		report.SummaryTable(report.Summarize(entries, now)),
	}
}

func TestWriter_Integration_OAuth2(t *testing.T) {
	clientID := os.Getenv("GOOGLE_SHEETS_CLIENT_ID")
	clientSecret := os.Getenv("GOOGLE_SHEETS_CLIENT_SECRET")
	refreshToken := os.Getenv("GOOGLE_SHEETS_REFRESH_TOKEN")

	if clientID == "" || clientSecret == "" || refreshToken == "" {
		t.Skip("OAuth2 credentials not available")
	}

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	config := DefaultConfig()
	config.ClientID = clientID
	config.ClientSecret = clientSecret
	config.RefreshToken = refreshToken
	config.SpreadsheetName = "Finanças - Integration"

	writer, err := NewWriter(ctx, config, logger)
	require.NoError(t, err)

	require.NoError(t, writer.Write(ctx, integrationTables(time.Now())...))
}

func TestWriter_Integration_ExistingSpreadsheet(t *testing.T) {
	spreadsheetID := os.Getenv("GOOGLE_SHEETS_TEST_SPREADSHEET_ID")
	serviceAccountPath := os.Getenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH")
	if spreadsheetID == "" || serviceAccountPath == "" {
		t.Skip("Test spreadsheet ID or service account not available")
	}

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	config := DefaultConfig()
	config.ServiceAccountPath = serviceAccountPath
	config.SpreadsheetID = spreadsheetID

	writer, err := NewWriter(ctx, config, logger)
	require.NoError(t, err)

	// Twice: the second push must replace, not append.
	now := time.Now()
	require.NoError(t, writer.Write(ctx, integrationTables(now)...))
	require.NoError(t, writer.Write(ctx, integrationTables(now)...))
}
