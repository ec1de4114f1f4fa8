package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"humboldt-hq/biotica/pkg/observation"
	"humboldt-hq/biotica/pkg/observation/query"
)

// MemoryStore implements observation.Store in memory. It exists for tests
// and mirrors the SQLite backend's matching, ordering, and truncation
// semantics so handler and export tests run without a database file.
type MemoryStore struct {
	mu      sync.RWMutex
	records []observation.Record
	allow   *query.Allowlist
	rowCap  int
	closed  bool
	pingErr error
	nextID  int64
}

// NewMemoryStore creates an empty in-memory store with the given row cap.
func NewMemoryStore(rowCap int) *MemoryStore {
	if rowCap <= 0 {
		rowCap = DefaultConfig().RowCap
	}
	return &MemoryStore{
		allow:  query.DefaultAllowlist(),
		rowCap: rowCap,
		nextID: 1,
	}
}

// Insert adds a record, assigning it the next ID.
func (m *MemoryStore) Insert(_ context.Context, record *observation.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	record.ID = m.nextID
	m.nextID++
	m.records = append(m.records, *record)
	return nil
}

// SetPingError makes Ping fail, for exercising health-check paths.
func (m *MemoryStore) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingErr = err
}

// Search implements observation.Store.
func (m *MemoryStore) Search(ctx context.Context, spec *observation.FilterSpec) (*observation.ResultSet, error) {
	matched, err := m.match(ctx, spec)
	if err != nil {
		return nil, err
	}

	spec = normalize(spec)
	limit := spec.Limit
	if limit <= 0 || limit > m.rowCap {
		limit = m.rowCap
	}
	if spec.Offset > 0 {
		if spec.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[spec.Offset:]
		}
	}

	result := &observation.ResultSet{Records: matched}
	if result.Records == nil {
		result.Records = []observation.Record{}
	}
	if len(result.Records) > limit {
		result.Records = result.Records[:limit]
		result.Truncated = true
	}
	return result, nil
}

// SearchStream implements observation.Store.
func (m *MemoryStore) SearchStream(ctx context.Context, spec *observation.FilterSpec) (<-chan observation.Record, <-chan error, error) {
	result, err := m.Search(ctx, spec)
	if err != nil {
		return nil, nil, err
	}

	recordsCh := make(chan observation.Record, 100)
	errCh := make(chan error, 1)
	go func() {
		defer close(recordsCh)
		defer close(errCh)
		for _, record := range result.Records {
			select {
			case <-ctx.Done():
				errCh <- observation.NewStoreError("memory", "search_stream", ctx.Err())
				return
			case recordsCh <- record:
			}
		}
	}()
	return recordsCh, errCh, nil
}

// Count implements observation.Store.
func (m *MemoryStore) Count(ctx context.Context, spec *observation.FilterSpec) (int64, error) {
	matched, err := m.match(ctx, spec)
	if err != nil {
		return 0, err
	}
	return int64(len(matched)), nil
}

// DistinctValues implements observation.Store.
func (m *MemoryStore) DistinctValues(_ context.Context, field string) ([]string, error) {
	if !m.allow.Fields[field] {
		return nil, observation.NewValidationError(field,
			fmt.Errorf("field is not filterable"))
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	values := []string{}
	for i := range m.records {
		value := fieldValue(&m.records[i], field)
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		values = append(values, value)
	}
	sort.Strings(values)
	return values, nil
}

// Ping implements observation.Store.
func (m *MemoryStore) Ping(context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return observation.NewStoreError("memory", "ping", fmt.Errorf("store closed"))
	}
	return m.pingErr
}

// Close implements observation.Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// match returns the records matching the spec in the spec's sort order,
// before offset and cap are applied.
func (m *MemoryStore) match(ctx context.Context, spec *observation.FilterSpec) ([]observation.Record, error) {
	spec = normalize(spec)
	if err := query.Validate(spec, m.allow); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, observation.NewStoreError("memory", "search", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := []observation.Record{}
	for i := range m.records {
		if m.matches(&m.records[i], spec) {
			matched = append(matched, m.records[i])
		}
	}

	sortField := spec.SortBy
	descending := spec.SortOrder == "desc"
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := &matched[i], &matched[j]
		less, equal := compareByField(a, b, sortField)
		if equal {
			return a.ID < b.ID
		}
		if descending {
			return !less
		}
		return less
	})

	return matched, nil
}

func (m *MemoryStore) matches(record *observation.Record, spec *observation.FilterSpec) bool {
	for field, criterion := range spec.Fields {
		value := strings.TrimSpace(criterion.Value)
		if value == "" {
			continue
		}
		have := strings.ToLower(fieldValue(record, field))
		want := strings.ToLower(value)
		switch criterion.Match {
		case observation.MatchExact:
			if have != want {
				return false
			}
		default:
			if !strings.Contains(have, want) {
				return false
			}
		}
	}

	if keyword := strings.ToLower(strings.TrimSpace(spec.Keyword)); keyword != "" {
		hit := false
		for _, column := range m.allow.TextColumns {
			if strings.Contains(strings.ToLower(fieldValue(record, column)), keyword) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}

	return true
}

// fieldValue maps an allow-listed column name to its record field.
func fieldValue(record *observation.Record, field string) string {
	switch field {
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
	default:
		return ""
	}
}

// compareByField orders two records by the given sort field. The second
// return value reports equality so the caller can apply the id tie-break.
func compareByField(a, b *observation.Record, field string) (less, equal bool) {
	switch field {
	case "id", "":
		return a.ID < b.ID, a.ID == b.ID
	case "fecha_colecta":
		return a.CollectedAt.Before(b.CollectedAt), a.CollectedAt.Equal(b.CollectedAt)
	default:
		av, bv := fieldValue(a, field), fieldValue(b, field)
		return av < bv, av == bv
	}
}
