package observation

import (
	"context"
	"time"
)

// Record represents a single biological observation as stored. It is
// read-only once fetched: the raw coordinate fields are never overwritten,
// and the derived WGS84 fields are only populated when the coordinate
// transform succeeds.
type Record struct {
	// Identity
	ID int64 `json:"id"`

	// Taxonomy and collection metadata
	ScientificName  string    `json:"nombre_cientifico"`
	CommonName      string    `json:"nombre_comun"`
	SampleCode      string    `json:"codigo_muestra"`
	Project         string    `json:"proyecto"`
	Municipality    string    `json:"municipio"`
	BiologicalGroup string    `json:"grupo_biologico"`
	HydrobiotaType  string    `json:"tipo_hidrobiota"`
	CollectedAt     time.Time `json:"fecha_colecta"`

	// Raw projected coordinates, exactly as stored. HasRawCoords is false
	// when the source row has no coordinate pair at all.
	RawEast      float64 `json:"coord_este"`
	RawNorth     float64 `json:"coord_norte"`
	EPSGCode     int     `json:"codigo_epsg"`
	HasRawCoords bool    `json:"has_raw_coords"`

	// Derived geographic coordinates for map display. HasGeo is false when
	// the transform failed or no raw pair was present.
	LatWGS84 float64 `json:"lat_wgs84,omitempty"`
	LonWGS84 float64 `json:"lon_wgs84,omitempty"`
	HasGeo   bool    `json:"has_geo"`
}

// MatchKind selects how a filter criterion is compared against a column.
type MatchKind string

const (
	// MatchExact matches the whole column value, case-insensitively.
	MatchExact MatchKind = "exact"

	// MatchContains matches any column value containing the criterion
	// value, case-insensitively.
	MatchContains MatchKind = "contains"
)

// Criterion is one per-field match constraint. A Criterion with an empty
// Value places no constraint on its field.
type Criterion struct {
	Value string    `json:"value"`
	Match MatchKind `json:"match,omitempty"`
}

// FilterSpec describes one search request: a sparse set of per-field
// criteria plus an optional global keyword. Absent or empty entries mean
// "no constraint on this field".
type FilterSpec struct {
	// Fields maps field names to match criteria. Every key must appear in
	// the configured allow-list.
	Fields map[string]Criterion `json:"fields,omitempty"`

	// Keyword, when non-empty, is OR-matched (contains, case-insensitive)
	// across every text column.
	Keyword string `json:"keyword,omitempty"`

	// SortBy selects the result ordering. It must be in the sort
	// allow-list; empty means the default stable order (id ascending).
	SortBy string `json:"sort_by,omitempty"`

	// SortOrder is "asc" or "desc". Empty means "asc".
	SortOrder string `json:"sort_order,omitempty"`

	// Limit is the maximum number of rows to return. Zero means no
	// requested limit; the configured row cap always applies on top.
	Limit int `json:"limit,omitempty"`

	// Offset skips the first N rows of the ordered result.
	Offset int `json:"offset,omitempty"`
}

// ResultSet holds the outcome of one search: the matching records in their
// deterministic order and a flag telling the caller whether the row cap cut
// the set short.
type ResultSet struct {
	Records   []Record `json:"records"`
	Truncated bool     `json:"truncated"`
}

// Format selects the export artifact type.
type Format string

const (
	// FormatCSV produces a delimiter-separated text artifact.
	FormatCSV Format = "csv"

	// FormatXLSX produces a two-sheet spreadsheet artifact.
	FormatXLSX Format = "xlsx"
)

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatXLSX:
		return ".xlsx"
	default:
		return ".csv"
	}
}

// ContentType returns the MIME type served for download of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// Valid reports whether f is a known export format.
func (f Format) Valid() bool {
	return f == FormatCSV || f == FormatXLSX
}

// ExportJob describes one generated export artifact. A job is immutable
// once its artifact has been written; the lifecycle manager deletes both
// the artifact and the job entry when the retention threshold passes.
type ExportJob struct {
	ID        string    `json:"id"`
	Format    Format    `json:"format"`
	Path      string    `json:"path"`
	SizeBytes int64     `json:"size_bytes"`
	RowCount  int       `json:"row_count"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is the record store consumed by the engine. Implementations must
// be safe for concurrent use; all blocking calls honor the context.
type Store interface {
	// Search executes the filter spec and returns matching records in a
	// deterministic order, with derived geographic coordinates populated
	// where the per-record transform succeeded. The configured row cap
	// applies; sets larger than the cap are truncated and flagged.
	Search(ctx context.Context, spec *FilterSpec) (*ResultSet, error)

	// SearchStream is the streaming variant of Search for large exports.
	// The record channel is closed when the query completes; the error
	// channel carries at most one error. Callers must drain both.
	SearchStream(ctx context.Context, spec *FilterSpec) (<-chan Record, <-chan error, error)

	// Count returns the number of records matching the spec, ignoring
	// limit and offset.
	Count(ctx context.Context, spec *FilterSpec) (int64, error)

	// DistinctValues returns the sorted distinct non-empty values of an
	// allow-listed field, for populating filter choices.
	DistinctValues(ctx context.Context, field string) ([]string, error)

	// Ping verifies store connectivity.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
