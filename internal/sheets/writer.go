package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Veraticus/financas/internal/common"
	"github.com/Veraticus/financas/internal/report"
	"github.com/Veraticus/financas/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// TableWriter writes tables to a spreadsheet, one tab per table.
type TableWriter interface {
	Write(ctx context.Context, tables ...report.Table) error
}

// Writer implements TableWriter for Google Sheets.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Writer{
		config:  config,
		service: srv,
		logger:  logger,
	}, nil
}

// SpreadsheetID returns the configured spreadsheet, or "" when Write will
// create one.
func (w *Writer) SpreadsheetID() string {
	return w.config.SpreadsheetID
}

// Write replaces the content of one tab per table. Missing tabs are added,
// and a new spreadsheet is created when none is configured.
func (w *Writer) Write(ctx context.Context, tables ...report.Table) error {
	w.logger.Info("starting sheets push", "tables", len(tables))

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx, tables)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	sheetIDs, err := w.ensureTabs(ctx, spreadsheetID, tables)
	if err != nil {
		return fmt.Errorf("failed to prepare tabs: %w", err)
	}

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	for _, table := range tables {
		values := table.Values()

		err = common.WithRetry(ctx, func() error {
			if clearErr := w.clearTab(ctx, spreadsheetID, table.Name); clearErr != nil {
				return classify(clearErr)
			}
			return classify(w.writeData(ctx, spreadsheetID, table.Name, values))
		}, retryOpts)
		if err != nil {
			return fmt.Errorf("failed to write tab %s: %w", table.Name, err)
		}

		if w.config.EnableFormatting {
			requests := formatRequests(sheetIDs[table.Name], len(table.Headers), moneyColumns(table))
			err = common.WithRetry(ctx, func() error {
				return classify(w.applyFormatting(ctx, spreadsheetID, requests))
			}, retryOpts)
			if err != nil {
				// Formatting is cosmetic; the data is already written.
				w.logger.Warn("failed to apply formatting", "tab", table.Name, "error", err)
			}
		}

		w.logger.Debug("wrote tab", "tab", table.Name, "rows", len(values))
	}

	w.config.SpreadsheetID = spreadsheetID
	w.logger.Info("sheets push completed", "spreadsheet_id", spreadsheetID)
	return nil
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.Auth() == AuthServiceAccount {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := oauthConfig(config.ClientID, config.ClientSecret, "")
		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}
		tokenSource = client.TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// getOrCreateSpreadsheet gets an existing spreadsheet or creates a new one
// holding a tab per table.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context, tables []report.Table) (string, error) {
	if w.config.SpreadsheetID != "" {
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
			Locale:   "pt_BR",
		},
	}
	for _, table := range tables {
		spreadsheet.Sheets = append(spreadsheet.Sheets, &sheets.Sheet{
			Properties: &sheets.SheetProperties{Title: table.Name},
		})
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, nil
}

// ensureTabs adds the tabs the spreadsheet lacks and returns the sheet id of
// every table's tab.
func (w *Writer) ensureTabs(ctx context.Context, spreadsheetID string, tables []report.Table) (map[string]int64, error) {
	spreadsheet, err := w.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to access spreadsheet %s: %w", spreadsheetID, err)
	}

	existing := make(map[string]int64, len(spreadsheet.Sheets))
	for _, sheet := range spreadsheet.Sheets {
		existing[sheet.Properties.Title] = sheet.Properties.SheetId
	}

	missing := missingTabs(existing, tables)
	if len(missing) == 0 {
		return existing, nil
	}

	requests := make([]*sheets.Request, 0, len(missing))
	for _, name := range missing {
		requests = append(requests, &sheets.Request{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: name},
			},
		})
	}

	resp, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("unable to add tabs: %w", err)
	}

	for _, reply := range resp.Replies {
		if reply.AddSheet != nil && reply.AddSheet.Properties != nil {
			existing[reply.AddSheet.Properties.Title] = reply.AddSheet.Properties.SheetId
		}
	}
	return existing, nil
}

// clearTab clears all data from a tab.
func (w *Writer) clearTab(ctx context.Context, spreadsheetID, tab string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, tabRange(tab, "A:Z"), &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// writeData writes the values to a tab in batches.
func (w *Writer) writeData(ctx context.Context, spreadsheetID, tab string, values [][]any) error {
	for _, b := range batches(values, w.config.BatchSize) {
		valueRange := &sheets.ValueRange{
			Values: b.values,
		}

		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, tabRange(tab, fmt.Sprintf("A%d", b.startRow)), valueRange).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", b.startRow, err)
		}

		w.logger.Debug("wrote batch", "tab", tab, "start_row", b.startRow, "rows", len(b.values))
	}

	return nil
}

// applyFormatting sends formatting requests for a tab.
func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, requests []*sheets.Request) error {
	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}

// classify marks API errors that a retry cannot fix. Rate limits, timeouts
// and server errors stay retryable.
func classify(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.Code == http.StatusTooManyRequests, apiErr.Code == http.StatusRequestTimeout:
		return err
	case apiErr.Code >= 400 && apiErr.Code < 500:
		return common.Permanent(err)
	}
	return err
}

type batch struct {
	values   [][]any
	startRow int
}

// batches splits values into chunks of at most size rows. startRow is 1-based.
func batches(values [][]any, size int) []batch {
	if size <= 0 {
		size = len(values)
	}

	var out []batch
	for i := 0; i < len(values); i += size {
		end := i + size
		if end > len(values) {
			end = len(values)
		}
		out = append(out, batch{values: values[i:end], startRow: i + 1})
	}
	return out
}

// tabRange builds an A1 range inside a tab, quoting the tab name.
func tabRange(tab, cells string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'!" + cells
}

func missingTabs(existing map[string]int64, tables []report.Table) []string {
	var missing []string
	seen := make(map[string]bool, len(tables))
	for _, table := range tables {
		if _, ok := existing[table.Name]; ok || seen[table.Name] {
			continue
		}
		seen[table.Name] = true
		missing = append(missing, table.Name)
	}
	return missing
}

// moneyColumns returns the 0-based columns that hold amounts.
func moneyColumns(table report.Table) []int {
	var cols []int
	for i, h := range table.Headers {
		switch h {
		case "VALOR", "TOTAL", "PAGO", "PENDENTE", "ATRASADO":
			cols = append(cols, i)
		}
	}
	return cols
}

// formatRequests bolds and freezes the header row, shows amount columns as
// BRL and fits column widths.
func formatRequests(sheetID int64, columns int, moneyCols []int) []*sheets.Request {
	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:       sheetID,
					StartRowIndex: 0,
					EndRowIndex:   1,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{
							Bold: true,
						},
						BackgroundColor: &sheets.Color{
							Red:   0.9,
							Green: 0.9,
							Blue:  0.9,
							Alpha: 1.0,
						},
					},
				},
				Fields: "userEnteredFormat.textFormat,userEnteredFormat.backgroundColor",
			},
		},
		{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: sheetID,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount: 1,
					},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	}

	for _, col := range moneyCols {
		requests = append(requests, &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    1,
					StartColumnIndex: int64(col),
					EndColumnIndex:   int64(col + 1),
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						NumberFormat: &sheets.NumberFormat{
							Type:    "CURRENCY",
							Pattern: `"R$" #,##0.00`,
						},
					},
				},
				Fields: "userEnteredFormat.numberFormat",
			},
		})
	}

	requests = append(requests, &sheets.Request{
		AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
			Dimensions: &sheets.DimensionRange{
				SheetId:    sheetID,
				Dimension:  "COLUMNS",
				StartIndex: 0,
				EndIndex:   int64(columns),
			},
		},
	})

	return requests
}
