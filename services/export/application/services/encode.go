package services

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/ghuser/fournil/services/export/domain"
)

// Formats accepted by Encode.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// ContentType returns the MIME type for a format, or false when the format
// is unknown.
func ContentType(format string) (string, bool) {
	switch format {
	case FormatCSV:
		return "text/csv", true
	case FormatJSON:
		return "application/json", true
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", true
	}
	return "", false
}

// Encode writes the dataset to w in the requested format.
func Encode(w io.Writer, ds *domain.Dataset, format string) error {
	switch format {
	case FormatCSV:
		return encodeCSV(w, ds)
	case FormatJSON:
		return encodeJSON(w, ds)
	case FormatXLSX:
		return encodeXLSX(w, ds)
	}
	return fmt.Errorf("%w: %q", domain.ErrUnknownFormat, format)
}

func encodeCSV(w io.Writer, ds *domain.Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.Headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range ds.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func encodeJSON(w io.Writer, ds *domain.Dataset) error {
	// rows become objects keyed by header so the payload is self-describing
	records := make([]map[string]string, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		rec := make(map[string]string, len(ds.Headers))
		for i, h := range ds.Headers {
			if i < len(row) {
				rec[h] = row[i]
			}
		}
		records = append(records, rec)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func encodeXLSX(w io.Writer, ds *domain.Dataset) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	sheet := ds.Entity
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(ds.Headers))
	widths := make([]float64, len(ds.Headers))
	for i, h := range ds.Headers {
		header[i] = h
		widths[i] = float64(len(h))
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}

	for i, row := range ds.Rows {
		cells := make([]any, len(row))
		for j, c := range row {
			cells[j] = c
			if j < len(widths) && float64(len(c)) > widths[j] {
				widths[j] = float64(len(c))
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("write xlsx row: %w", err)
		}
	}

	// fit columns to the widest cell, capped so one long note cannot blow up
	// the sheet layout
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("xlsx column name: %w", err)
		}
		if width > 60 {
			width = 60
		}
		if err := f.SetColWidth(sheet, col, col, width+2); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
