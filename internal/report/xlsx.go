package report

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Veraticus/financas/internal/model"
	"github.com/xuri/excelize/v2"
)

// FileName returns the default workbook name for the day of now.
func FileName(now time.Time) string {
	return "financas-" + model.Today(now) + ".xlsx"
}

// WriteXLSX writes a workbook with an entries sheet and a summary sheet.
func WriteXLSX(w io.Writer, entries []model.Lancamento, now time.Time) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("failed to close workbook", "error", err)
		}
	}()

	entriesTable := EntriesTable(entries, now)
	summaryTable := SummaryTable(Summarize(entries, now))

	// The default sheet becomes the entries sheet.
	if err := f.SetSheetName("Sheet1", entriesTable.Name); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if err := writeTable(f, entriesTable, []float64{10, 32, 12, 12, 14, 13, 14, 14, 12, 11, 40}, 5); err != nil {
		return err
	}

	if _, err := f.NewSheet(summaryTable.Name); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := writeTable(f, summaryTable, []float64{10, 14, 16, 16, 16, 16}, 3, 4, 5, 6); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// writeTable fills a sheet with t. widths sets column widths from column A;
// moneyCols are 1-based column numbers shown as BRL amounts.
func writeTable(f *excelize.File, t Table, widths []float64, moneyCols ...int) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6E6E6"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	brlFormat := `"R$" #,##0.00`
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &brlFormat})
	if err != nil {
		return fmt.Errorf("failed to create money style: %w", err)
	}

	for r, row := range t.Values() {
		cell, cellErr := excelize.CoordinatesToCellName(1, r+1)
		if cellErr != nil {
			return fmt.Errorf("failed to address row %d: %w", r+1, cellErr)
		}
		if err := f.SetSheetRow(t.Name, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", r+1, t.Name, err)
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(t.Headers))
	if err != nil {
		return fmt.Errorf("failed to address columns: %w", err)
	}
	if err := f.SetCellStyle(t.Name, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	lastRow := len(t.Rows) + 1
	if lastRow > 1 {
		for _, col := range moneyCols {
			name, nameErr := excelize.ColumnNumberToName(col)
			if nameErr != nil {
				return fmt.Errorf("failed to address column %d: %w", col, nameErr)
			}
			if err := f.SetCellStyle(t.Name, fmt.Sprintf("%s2", name), fmt.Sprintf("%s%d", name, lastRow), moneyStyle); err != nil {
				return fmt.Errorf("failed to style column %s: %w", name, err)
			}
		}
	}

	for i, width := range widths {
		name, nameErr := excelize.ColumnNumberToName(i + 1)
		if nameErr != nil {
			return fmt.Errorf("failed to address column %d: %w", i+1, nameErr)
		}
		if err := f.SetColWidth(t.Name, name, name, width); err != nil {
			return fmt.Errorf("failed to set width of column %s: %w", name, err)
		}
	}

	return f.SetPanes(t.Name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
