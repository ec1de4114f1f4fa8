package query

import (
	"sort"
	"strings"

	"humboldt-hq/biotica/pkg/observation"
)

// Predicate is the assembled query condition: a WHERE fragment with bound
// arguments and a deterministic ORDER BY fragment. The store composes it
// into a full statement; the builder never sees table or SELECT text.
type Predicate struct {
	// Where is the condition without the "WHERE" keyword. Empty means no
	// condition (the unfiltered set).
	Where string

	// Args are the bound parameters, one per "?" in Where.
	Args []any

	// OrderBy is the ordering without the "ORDER BY" keyword. Never empty.
	OrderBy string
}

// Build validates the spec and assembles its predicate. One constraint is
// produced per non-empty field entry, ANDed together; a non-empty keyword
// adds one OR-group across all text columns. Matching is case-insensitive.
//
// Build does not modify the spec and is safe for concurrent use.
func Build(spec *observation.FilterSpec, allow *Allowlist) (*Predicate, error) {
	if err := Validate(spec, allow); err != nil {
		return nil, err
	}

	var conditions []string
	var args []any

	// Map iteration order is not stable; sort the present fields so the
	// same spec always yields the same predicate.
	fields := make([]string, 0, len(spec.Fields))
	for field := range spec.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		criterion := spec.Fields[field]
		value := strings.TrimSpace(criterion.Value)
		if value == "" {
			// Absent constraint, never "field = ''".
			continue
		}
		switch criterion.Match {
		case observation.MatchExact:
			conditions = append(conditions, "LOWER("+field+") = ?")
			args = append(args, strings.ToLower(value))
		default:
			conditions = append(conditions, "LOWER("+field+") LIKE ?")
			args = append(args, "%"+strings.ToLower(value)+"%")
		}
	}

	if keyword := strings.TrimSpace(spec.Keyword); keyword != "" {
		group := make([]string, 0, len(allow.TextColumns))
		for _, column := range allow.TextColumns {
			group = append(group, "LOWER("+column+") LIKE ?")
			args = append(args, "%"+strings.ToLower(keyword)+"%")
		}
		conditions = append(conditions, "("+strings.Join(group, " OR ")+")")
	}

	return &Predicate{
		Where:   strings.Join(conditions, " AND "),
		Args:    args,
		OrderBy: orderBy(spec),
	}, nil
}

// orderBy renders the ORDER BY fragment. Sort field and order have already
// been validated against the allow-list; a tie-break on id keeps any
// non-unique sort column deterministic.
func orderBy(spec *observation.FilterSpec) string {
	field := spec.SortBy
	if field == "" {
		field = DefaultSortField
	}
	order := "ASC"
	if spec.SortOrder == "desc" {
		order = "DESC"
	}
	if field == DefaultSortField {
		return field + " " + order
	}
	return field + " " + order + ", id ASC"
}
