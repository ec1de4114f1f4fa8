package query

import (
	"fmt"

	"humboldt-hq/biotica/pkg/observation"
)

// DefaultSortField is the stable default ordering column.
const DefaultSortField = "id"

// Allowlist declares which fields a FilterSpec may reference. The zero
// value allows nothing; use DefaultAllowlist for the observation schema.
type Allowlist struct {
	// Fields are the filterable column names.
	Fields map[string]bool

	// TextColumns are the columns the global keyword is OR-matched
	// against, in the fixed order they appear in the predicate.
	TextColumns []string

	// SortFields are the columns accepted for explicit ordering.
	SortFields map[string]bool
}

// DefaultAllowlist returns the allow-list for the observation table.
func DefaultAllowlist() *Allowlist {
	return &Allowlist{
		Fields: map[string]bool{
			"municipio":         true,
			"proyecto":          true,
			"nombre_comun":      true,
			"nombre_cientifico": true,
			"codigo_muestra":    true,
			"grupo_biologico":   true,
			"tipo_hidrobiota":   true,
		},
		TextColumns: []string{
			"nombre_cientifico",
			"nombre_comun",
			"codigo_muestra",
			"proyecto",
			"municipio",
			"grupo_biologico",
			"tipo_hidrobiota",
		},
		SortFields: map[string]bool{
			"id":                true,
			"fecha_colecta":     true,
			"municipio":         true,
			"proyecto":          true,
			"nombre_cientifico": true,
			"grupo_biologico":   true,
		},
	}
}

// validSortOrders contains the accepted sort orders.
var validSortOrders = map[string]bool{
	"asc":  true,
	"desc": true,
}

// Validate checks a FilterSpec against the allow-list. Any field key or
// sort field outside the allow-list fails with a ValidationError and no
// predicate is produced.
func Validate(spec *observation.FilterSpec, allow *Allowlist) error {
	for field, criterion := range spec.Fields {
		if !allow.Fields[field] {
			return observation.NewValidationError(field,
				fmt.Errorf("field is not filterable"))
		}
		if criterion.Match != "" && criterion.Match != observation.MatchExact && criterion.Match != observation.MatchContains {
			return observation.NewValidationError(field,
				fmt.Errorf("unknown match kind %q", criterion.Match))
		}
	}

	if spec.SortBy != "" && !allow.SortFields[spec.SortBy] {
		return observation.NewValidationError(spec.SortBy,
			fmt.Errorf("field is not sortable"))
	}
	if spec.SortOrder != "" && !validSortOrders[spec.SortOrder] {
		return observation.NewValidationError("sort_order",
			fmt.Errorf("sort order must be asc or desc, got %q", spec.SortOrder))
	}

	if spec.Limit < 0 {
		return observation.NewValidationError("limit",
			fmt.Errorf("limit must be >= 0, got %d", spec.Limit))
	}
	if spec.Offset < 0 {
		return observation.NewValidationError("offset",
			fmt.Errorf("offset must be >= 0, got %d", spec.Offset))
	}

	return nil
}

// ApplyDefaults fills the defaulted parts of a spec in place: criterion
// match kind (contains), sort field, and sort order. A zero limit is left
// alone; the store resolves it to its configured row cap.
func ApplyDefaults(spec *observation.FilterSpec) {
	for field, criterion := range spec.Fields {
		if criterion.Match == "" {
			criterion.Match = observation.MatchContains
			spec.Fields[field] = criterion
		}
	}
	if spec.SortBy == "" {
		spec.SortBy = DefaultSortField
	}
	if spec.SortOrder == "" {
		spec.SortOrder = "asc"
	}
}
