package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"humboldt-hq/biotica/pkg/geo"
	"humboldt-hq/biotica/pkg/observation"
	"humboldt-hq/biotica/pkg/observation/query"
)

// Config contains configuration for the SQLite record store.
type Config struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration

	// RowCap is the hard upper bound on rows any single search returns.
	// Requests resolving to more rows truncate deterministically and set
	// the result's Truncated flag. Default: 10000
	RowCap int
}

// DefaultConfig returns the default store configuration.
func DefaultConfig() *Config {
	return &Config{
		Path:         "data/observations.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
		RowCap:       10000,
	}
}

// SQLiteStore implements observation.Store backed by SQLite.
type SQLiteStore struct {
	db       *sql.DB
	config   *Config
	allow    *query.Allowlist
	registry *geo.Registry
	logger   *slog.Logger
}

// NewSQLiteStore opens the database, applies the pragmas, and ensures the
// schema exists. The registry is used to derive WGS84 coordinates per
// fetched row.
func NewSQLiteStore(config *Config, registry *geo.Registry) (*SQLiteStore, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if registry == nil {
		registry = geo.NewRegistry()
	}

	logger := slog.Default().With("component", "observation.storage.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, observation.NewStoreError("sqlite", "open", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	s := &SQLiteStore{
		db:       db,
		config:   config,
		allow:    query.DefaultAllowlist(),
		registry: registry,
		logger:   logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite store initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
		"row_cap", config.RowCap,
	)

	return s, nil
}

// initialize applies pragmas and creates the schema.
func (s *SQLiteStore) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return observation.NewStoreError("sqlite", "enable_wal", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return observation.NewStoreError("sqlite", "set_busy_timeout", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return observation.NewStoreError("sqlite", "create_schema", err)
	}

	return nil
}

// normalize returns a defaults-applied copy of the spec so callers' specs
// stay untouched.
func normalize(spec *observation.FilterSpec) *observation.FilterSpec {
	out := &observation.FilterSpec{}
	if spec != nil {
		*out = *spec
		out.Fields = make(map[string]observation.Criterion, len(spec.Fields))
		for field, criterion := range spec.Fields {
			out.Fields[field] = criterion
		}
	}
	query.ApplyDefaults(out)
	return out
}

// effectiveLimit caps the requested limit at the configured row cap.
func (s *SQLiteStore) effectiveLimit(requested int) int {
	if requested <= 0 || requested > s.config.RowCap {
		return s.config.RowCap
	}
	return requested
}

// Search executes the filter spec and returns matching records with
// derived geographic coordinates where the transform succeeded.
func (s *SQLiteStore) Search(ctx context.Context, spec *observation.FilterSpec) (*observation.ResultSet, error) {
	spec = normalize(spec)

	pred, err := query.Build(spec, s.allow)
	if err != nil {
		return nil, err
	}

	limit := s.effectiveLimit(spec.Limit)

	sqlQuery := "SELECT " + selectColumns + " FROM observations"
	if pred.Where != "" {
		sqlQuery += " WHERE " + pred.Where
	}
	sqlQuery += " ORDER BY " + pred.OrderBy
	// Fetch one row past the cap so truncation is detectable without a
	// second query.
	sqlQuery += fmt.Sprintf(" LIMIT %d", limit+1)
	if spec.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", spec.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, pred.Args...)
	if err != nil {
		return nil, observation.NewStoreError("sqlite", "search", err)
	}
	defer rows.Close()

	result := &observation.ResultSet{Records: []observation.Record{}}
	for rows.Next() {
		record, err := s.scanRow(rows)
		if err != nil {
			return nil, observation.NewStoreError("sqlite", "scan", err)
		}
		if err := s.applyGeo(record); err != nil {
			return nil, err
		}
		result.Records = append(result.Records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, observation.NewStoreError("sqlite", "search", err)
	}

	if len(result.Records) > limit {
		result.Records = result.Records[:limit]
		result.Truncated = true
	}

	return result, nil
}

// SearchStream streams matching records for memory-efficient exports. The
// row cap applies; streamed results do not carry a truncation flag, so
// callers needing it should Count first.
func (s *SQLiteStore) SearchStream(ctx context.Context, spec *observation.FilterSpec) (<-chan observation.Record, <-chan error, error) {
	spec = normalize(spec)

	pred, err := query.Build(spec, s.allow)
	if err != nil {
		return nil, nil, err
	}

	limit := s.effectiveLimit(spec.Limit)

	sqlQuery := "SELECT " + selectColumns + " FROM observations"
	if pred.Where != "" {
		sqlQuery += " WHERE " + pred.Where
	}
	sqlQuery += " ORDER BY " + pred.OrderBy
	sqlQuery += fmt.Sprintf(" LIMIT %d", limit)
	if spec.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", spec.Offset)
	}

	recordsCh := make(chan observation.Record, 100)
	errCh := make(chan error, 1)

	go func() {
		defer close(recordsCh)
		defer close(errCh)

		rows, err := s.db.QueryContext(ctx, sqlQuery, pred.Args...)
		if err != nil {
			errCh <- observation.NewStoreError("sqlite", "search_stream", err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			record, err := s.scanRow(rows)
			if err != nil {
				errCh <- observation.NewStoreError("sqlite", "scan", err)
				return
			}
			if err := s.applyGeo(record); err != nil {
				errCh <- err
				return
			}

			select {
			case <-ctx.Done():
				errCh <- observation.NewStoreError("sqlite", "search_stream", ctx.Err())
				return
			case recordsCh <- *record:
			}
		}

		if err := rows.Err(); err != nil {
			errCh <- observation.NewStoreError("sqlite", "search_stream", err)
		}
	}()

	return recordsCh, errCh, nil
}

// Count returns the number of records matching the spec, ignoring limit
// and offset.
func (s *SQLiteStore) Count(ctx context.Context, spec *observation.FilterSpec) (int64, error) {
	spec = normalize(spec)

	pred, err := query.Build(spec, s.allow)
	if err != nil {
		return 0, err
	}

	sqlQuery := "SELECT COUNT(*) FROM observations"
	if pred.Where != "" {
		sqlQuery += " WHERE " + pred.Where
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, sqlQuery, pred.Args...).Scan(&count); err != nil {
		return 0, observation.NewStoreError("sqlite", "count", err)
	}
	return count, nil
}

// DistinctValues returns the sorted distinct non-empty values of an
// allow-listed field.
func (s *SQLiteStore) DistinctValues(ctx context.Context, field string) ([]string, error) {
	if !s.allow.Fields[field] {
		return nil, observation.NewValidationError(field,
			fmt.Errorf("field is not filterable"))
	}

	// The field name comes from the allow-list, never from raw input.
	sqlQuery := fmt.Sprintf(
		"SELECT DISTINCT %s FROM observations WHERE %s IS NOT NULL AND %s != '' ORDER BY %s",
		field, field, field, field)

	rows, err := s.db.QueryContext(ctx, sqlQuery)
	if err != nil {
		return nil, observation.NewStoreError("sqlite", "distinct_values", err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, observation.NewStoreError("sqlite", "scan", err)
		}
		values = append(values, value)
	}
	if err := rows.Err(); err != nil {
		return nil, observation.NewStoreError("sqlite", "distinct_values", err)
	}
	return values, nil
}

// Insert stores a record. Used by ingest tooling and tests; the engine
// itself never writes observation rows.
func (s *SQLiteStore) Insert(ctx context.Context, record *observation.Record) error {
	var collectedAt any
	if !record.CollectedAt.IsZero() {
		collectedAt = record.CollectedAt.UTC()
	}
	var east, north, epsg any
	if record.HasRawCoords {
		east, north, epsg = record.RawEast, record.RawNorth, record.EPSGCode
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO observations (
			nombre_cientifico, nombre_comun, codigo_muestra, proyecto,
			municipio, grupo_biologico, tipo_hidrobiota, fecha_colecta,
			coord_este, coord_norte, codigo_epsg
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ScientificName, record.CommonName, record.SampleCode, record.Project,
		record.Municipality, record.BiologicalGroup, record.HydrobiotaType, collectedAt,
		east, north, epsg,
	)
	if err != nil {
		return observation.NewStoreError("sqlite", "insert", err)
	}
	if id, err := result.LastInsertId(); err == nil {
		record.ID = id
	}
	return nil
}

// Ping verifies store connectivity.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return observation.NewStoreError("sqlite", "ping", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return observation.NewStoreError("sqlite", "close", err)
	}
	return nil
}

// scanRow scans a database row into a Record.
func (s *SQLiteStore) scanRow(rows *sql.Rows) (*observation.Record, error) {
	var record observation.Record
	var collectedAt sql.NullTime
	var east, north sql.NullFloat64
	var epsg sql.NullInt64

	err := rows.Scan(
		&record.ID,
		&record.ScientificName, &record.CommonName, &record.SampleCode, &record.Project,
		&record.Municipality, &record.BiologicalGroup, &record.HydrobiotaType, &collectedAt,
		&east, &north, &epsg,
	)
	if err != nil {
		return nil, err
	}

	if collectedAt.Valid {
		record.CollectedAt = collectedAt.Time.UTC()
	}
	if east.Valid && north.Valid && epsg.Valid {
		record.RawEast = east.Float64
		record.RawNorth = north.Float64
		record.EPSGCode = int(epsg.Int64)
		record.HasRawCoords = true
	}

	return &record, nil
}

// applyGeo attaches derived WGS84 coordinates to a record. A per-record
// TransformError degrades only that record; an unknown reference system is
// a data/config problem and aborts the request.
func (s *SQLiteStore) applyGeo(record *observation.Record) error {
	if !record.HasRawCoords {
		return nil
	}

	lat, lon, err := s.registry.Transform(record.EPSGCode, record.RawEast, record.RawNorth)
	if err != nil {
		var transformErr *observation.TransformError
		if errors.As(err, &transformErr) {
			s.logger.Debug("coordinate transform failed",
				"record_id", record.ID,
				"epsg", record.EPSGCode,
				"error", err,
			)
			return nil
		}
		return err
	}

	record.LatWGS84 = lat
	record.LonWGS84 = lon
	record.HasGeo = true
	return nil
}
