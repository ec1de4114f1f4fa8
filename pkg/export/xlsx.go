package export

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"sort"

	"github.com/xuri/excelize/v2"

	"humboldt-hq/biotica/pkg/observation"
)

const (
	// DataSheet is the name of the sheet holding the record rows.
	DataSheet = "Observaciones"

	// SummarySheet is the name of the sheet holding aggregate counts.
	SummarySheet = "Resumen"

	// minColumnWidth keeps narrow columns readable.
	minColumnWidth = 8.0
)

// fixedDocTimestamp pins the workbook's metadata timestamps so identical
// inputs produce byte-identical artifacts.
const fixedDocTimestamp = "2006-01-02T00:00:00Z"

var hexColorPattern = regexp.MustCompile(`^[0-9A-Fa-f]{6}$`)

// XLSXConfig contains configuration for the spreadsheet exporter.
type XLSXConfig struct {
	// HeaderFillColor is the header row fill as a 6-digit hex RGB code.
	// Default: "DDEBF7"
	HeaderFillColor string

	// HeaderFontColor is the header row font color as a 6-digit hex RGB
	// code. Default: "1F4E78"
	HeaderFontColor string

	// MaxColumnWidth caps auto-sized column widths, in character units.
	// Default: 45
	MaxColumnWidth float64

	// SummaryGroupField is the categorical column the summary sheet
	// groups by. Default: "grupo_biologico"
	SummaryGroupField string

	// Columns is the export column list in output order. Empty means
	// DefaultColumns.
	Columns []string

	// IncludeCoordinates appends the derived WGS84 columns.
	IncludeCoordinates bool
}

// XLSXExporter exports observation records to a two-sheet workbook.
type XLSXExporter struct {
	fillColor  string
	fontColor  string
	maxWidth   float64
	groupField string
	columns    []string
}

// NewXLSXExporter creates a spreadsheet exporter, validating the styling
// configuration up front.
func NewXLSXExporter(config *XLSXConfig) (*XLSXExporter, error) {
	if config == nil {
		config = &XLSXConfig{}
	}

	fillColor := config.HeaderFillColor
	if fillColor == "" {
		fillColor = "DDEBF7"
	}
	fontColor := config.HeaderFontColor
	if fontColor == "" {
		fontColor = "1F4E78"
	}
	if !hexColorPattern.MatchString(fillColor) {
		return nil, observation.NewConfigError("header_fill_color", fillColor,
			fmt.Errorf("not a 6-digit hex RGB code"))
	}
	if !hexColorPattern.MatchString(fontColor) {
		return nil, observation.NewConfigError("header_font_color", fontColor,
			fmt.Errorf("not a 6-digit hex RGB code"))
	}

	maxWidth := config.MaxColumnWidth
	if maxWidth == 0 {
		maxWidth = 45
	}
	if maxWidth < minColumnWidth {
		return nil, observation.NewConfigError("max_column_width",
			fmt.Sprintf("%g", maxWidth),
			fmt.Errorf("must be at least %g", minColumnWidth))
	}

	groupField := config.SummaryGroupField
	if groupField == "" {
		groupField = "grupo_biologico"
	}

	return &XLSXExporter{
		fillColor:  fillColor,
		fontColor:  fontColor,
		maxWidth:   maxWidth,
		groupField: groupField,
		columns:    exportColumns(config.Columns, config.IncludeCoordinates),
	}, nil
}

// Format implements Exporter.
func (e *XLSXExporter) Format() observation.Format {
	return observation.FormatXLSX
}

// Export writes the workbook to w. The data sheet carries one row per
// record in input order; the summary sheet carries the total row count and
// per-group counts, both computed in the same pass over the records.
func (e *XLSXExporter) Export(ctx context.Context, records []observation.Record, w io.Writer) error {
	wrap := func(err error) error {
		return observation.NewExportError(observation.FormatXLSX, len(records), err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DataSheet); err != nil {
		return wrap(err)
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Creator:  "biotica",
		Created:  fixedDocTimestamp,
		Modified: fixedDocTimestamp,
	}); err != nil {
		return wrap(err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{e.fillColor}, Pattern: 1},
		Font: &excelize.Font{Bold: true, Color: e.fontColor},
	})
	if err != nil {
		return wrap(err)
	}

	// Header row.
	widths := make([]float64, len(e.columns))
	for i, column := range e.columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return wrap(err)
		}
		if err := f.SetCellValue(DataSheet, cell, column); err != nil {
			return wrap(err)
		}
		widths[i] = float64(len([]rune(column)))
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(e.columns), 1)
	if err != nil {
		return wrap(err)
	}
	if err := f.SetCellStyle(DataSheet, "A1", lastHeader, headerStyle); err != nil {
		return wrap(err)
	}

	// Data rows and the single-pass summary aggregation.
	groupCounts := make(map[string]int)
	for i := range records {
		if err := ctx.Err(); err != nil {
			return wrap(err)
		}
		for j, column := range e.columns {
			value := columnValue(&records[i], column)
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return wrap(err)
			}
			if err := f.SetCellValue(DataSheet, cell, value); err != nil {
				return wrap(err)
			}
			if width := float64(len([]rune(value))); width > widths[j] {
				widths[j] = width
			}
		}
		groupCounts[columnValue(&records[i], e.groupField)]++
	}

	// Auto-size up to the configured maximum.
	for i := range e.columns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return wrap(err)
		}
		width := widths[i] + 2
		if width < minColumnWidth {
			width = minColumnWidth
		}
		if width > e.maxWidth {
			width = e.maxWidth
		}
		if err := f.SetColWidth(DataSheet, name, name, width); err != nil {
			return wrap(err)
		}
	}

	if err := e.writeSummary(f, headerStyle, len(records), groupCounts); err != nil {
		return wrap(err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return wrap(err)
	}
	return nil
}

// writeSummary renders the aggregate sheet: total rows, then one row per
// group value in lexical order.
func (e *XLSXExporter) writeSummary(f *excelize.File, headerStyle, total int, groupCounts map[string]int) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return err
	}

	if err := f.SetCellValue(SummarySheet, "A1", "Total de registros"); err != nil {
		return err
	}
	if err := f.SetCellValue(SummarySheet, "B1", total); err != nil {
		return err
	}

	if err := f.SetCellValue(SummarySheet, "A3", e.groupField); err != nil {
		return err
	}
	if err := f.SetCellValue(SummarySheet, "B3", "registros"); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A3", "B3", headerStyle); err != nil {
		return err
	}

	groups := make([]string, 0, len(groupCounts))
	for group := range groupCounts {
		groups = append(groups, group)
	}
	sort.Strings(groups)

	for i, group := range groups {
		label := group
		if label == "" {
			label = "(sin valor)"
		}
		row := i + 4
		if err := f.SetCellValue(SummarySheet, fmt.Sprintf("A%d", row), label); err != nil {
			return err
		}
		if err := f.SetCellValue(SummarySheet, fmt.Sprintf("B%d", row), groupCounts[group]); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SummarySheet, "A", "A", 28); err != nil {
		return err
	}
	return nil
}
