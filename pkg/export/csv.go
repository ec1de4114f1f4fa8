package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"humboldt-hq/biotica/pkg/observation"
)

// utf8BOM is the UTF-8 byte-order marker some spreadsheet tools need to
// detect encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVConfig contains configuration for the CSV exporter.
type CSVConfig struct {
	// Delimiter is the column separator. Default: ','
	Delimiter rune

	// AddBOM prefixes the output with the UTF-8 byte-order marker.
	AddBOM bool

	// Columns is the export column list in output order. Empty means
	// DefaultColumns.
	Columns []string

	// IncludeCoordinates appends the derived WGS84 columns.
	IncludeCoordinates bool
}

// CSVExporter exports observation records to CSV.
type CSVExporter struct {
	delimiter rune
	addBOM    bool
	columns   []string
}

// NewCSVExporter creates a CSV exporter, validating the delimiter.
func NewCSVExporter(config *CSVConfig) (*CSVExporter, error) {
	if config == nil {
		config = &CSVConfig{}
	}

	delimiter := config.Delimiter
	if delimiter == 0 {
		delimiter = ','
	}
	// encoding/csv rejects these at write time with an opaque error;
	// surface the bad configuration up front instead.
	if delimiter == '\n' || delimiter == '\r' || delimiter == '"' {
		return nil, observation.NewConfigError("csv_delimiter", string(delimiter),
			fmt.Errorf("delimiter cannot be a quote or line break"))
	}

	return &CSVExporter{
		delimiter: delimiter,
		addBOM:    config.AddBOM,
		columns:   exportColumns(config.Columns, config.IncludeCoordinates),
	}, nil
}

// Format implements Exporter.
func (e *CSVExporter) Format() observation.Format {
	return observation.FormatCSV
}

// Export writes the records to w: optional BOM, one header row, then one
// data row per record in input order.
func (e *CSVExporter) Export(ctx context.Context, records []observation.Record, w io.Writer) error {
	if e.addBOM {
		if _, err := w.Write(utf8BOM); err != nil {
			return observation.NewExportError(observation.FormatCSV, len(records), err)
		}
	}

	writer := csv.NewWriter(w)
	writer.Comma = e.delimiter

	if err := writer.Write(e.columns); err != nil {
		return observation.NewExportError(observation.FormatCSV, len(records), err)
	}

	row := make([]string, len(e.columns))
	for i := range records {
		if err := ctx.Err(); err != nil {
			return observation.NewExportError(observation.FormatCSV, len(records), err)
		}
		for j, column := range e.columns {
			row[j] = columnValue(&records[i], column)
		}
		if err := writer.Write(row); err != nil {
			return observation.NewExportError(observation.FormatCSV, len(records), err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return observation.NewExportError(observation.FormatCSV, len(records), err)
	}
	return nil
}
