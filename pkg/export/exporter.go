package export

import (
	"context"
	"io"
	"strconv"
	"time"

	"humboldt-hq/biotica/pkg/observation"
)

const (
	// DateFormat is the single fixed textual format for exported dates.
	DateFormat = "2006-01-02"

	// CoordinatePrecision is the number of decimals coordinates are
	// rendered with in both formats.
	CoordinatePrecision = 6
)

// Exporter writes a finite record sequence to a writer in one format.
// Implementations are deterministic and order-preserving.
type Exporter interface {
	// Export writes the records to w. An empty sequence yields a
	// header-only artifact.
	Export(ctx context.Context, records []observation.Record, w io.Writer) error

	// Format returns the artifact format the exporter produces.
	Format() observation.Format
}

// DefaultColumns is the fixed export column order. Not every stored field
// is exported; the derived WGS84 columns are appended only when the
// include-coordinates option is on.
func DefaultColumns() []string {
	return []string{
		"nombre_cientifico",
		"nombre_comun",
		"codigo_muestra",
		"proyecto",
		"municipio",
		"grupo_biologico",
		"tipo_hidrobiota",
		"fecha_colecta",
	}
}

// coordinateColumns are the derived columns added by the
// include-coordinates option.
var coordinateColumns = []string{"lat_wgs84", "lon_wgs84"}

// exportColumns resolves the effective column list.
func exportColumns(columns []string, includeCoordinates bool) []string {
	if len(columns) == 0 {
		columns = DefaultColumns()
	}
	out := make([]string, len(columns))
	copy(out, columns)
	if includeCoordinates {
		out = append(out, coordinateColumns...)
	}
	return out
}

// columnValue renders one record field for export. Unknown columns render
// empty rather than failing: the column list is configuration, and a stale
// entry should not poison a whole artifact.
func columnValue(record *observation.Record, column string) string {
	switch column {
	case "id":
		return strconv.FormatInt(record.ID, 10)
	case "nombre_cientifico":
		return record.ScientificName
	case "nombre_comun":
		return record.CommonName
	case "codigo_muestra":
		return record.SampleCode
	case "proyecto":
		return record.Project
	case "municipio":
		return record.Municipality
	case "grupo_biologico":
		return record.BiologicalGroup
	case "tipo_hidrobiota":
		return record.HydrobiotaType
	case "fecha_colecta":
		return formatDate(record.CollectedAt)
	case "coord_este":
		if !record.HasRawCoords {
			return ""
		}
		return formatCoordinate(record.RawEast)
	case "coord_norte":
		if !record.HasRawCoords {
			return ""
		}
		return formatCoordinate(record.RawNorth)
	case "codigo_epsg":
		if !record.HasRawCoords {
			return ""
		}
		return strconv.Itoa(record.EPSGCode)
	case "lat_wgs84":
		if !record.HasGeo {
			return ""
		}
		return formatCoordinate(record.LatWGS84)
	case "lon_wgs84":
		if !record.HasGeo {
			return ""
		}
		return formatCoordinate(record.LonWGS84)
	default:
		return ""
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateFormat)
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', CoordinatePrecision, 64)
}
