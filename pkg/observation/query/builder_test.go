package query

import (
	"errors"
	"testing"

	"humboldt-hq/biotica/pkg/observation"
)

// TestBuild_EmptySpec tests that an empty spec produces no condition.
func TestBuild_EmptySpec(t *testing.T) {
	pred, err := Build(&observation.FilterSpec{}, DefaultAllowlist())
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if pred.Where != "" {
		t.Errorf("Expected empty WHERE, got %q", pred.Where)
	}
	if len(pred.Args) != 0 {
		t.Errorf("Expected no args, got %v", pred.Args)
	}
	if pred.OrderBy != "id ASC" {
		t.Errorf("Expected default ordering 'id ASC', got %q", pred.OrderBy)
	}
}

// TestBuild_ExactMatch tests exact matching on a single field.
func TestBuild_ExactMatch(t *testing.T) {
	spec := &observation.FilterSpec{
		Fields: map[string]observation.Criterion{
			"municipio": {Value: "Cali", Match: observation.MatchExact},
		},
	}

	pred, err := Build(spec, DefaultAllowlist())
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if pred.Where != "LOWER(municipio) = ?" {
		t.Errorf("Unexpected WHERE: %q", pred.Where)
	}
	if len(pred.Args) != 1 || pred.Args[0] != "cali" {
		t.Errorf("Expected args [cali], got %v", pred.Args)
	}
}

// TestBuild_ContainsDefault tests that the match kind defaults to contains.
func TestBuild_ContainsDefault(t *testing.T) {
	spec := &observation.FilterSpec{
		Fields: map[string]observation.Criterion{
			"proyecto": {Value: "Magdalena"},
		},
	}

	pred, err := Build(spec, DefaultAllowlist())
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if pred.Where != "LOWER(proyecto) LIKE ?" {
		t.Errorf("Unexpected WHERE: %q", pred.Where)
	}
	if len(pred.Args) != 1 || pred.Args[0] != "%magdalena%" {
		t.Errorf("Expected args [%%magdalena%%], got %v", pred.Args)
	}
}

// TestBuild_MultipleFields tests that constraints are ANDed in sorted
// field order regardless of map insertion order.
func TestBuild_MultipleFields(t *testing.T) {
	spec := &observation.FilterSpec{
		Fields: map[string]observation.Criterion{
			"proyecto":  {Value: "Cauca", Match: observation.MatchContains},
			"municipio": {Value: "Yumbo", Match: observation.MatchExact},
		},
	}

	pred, err := Build(spec, DefaultAllowlist())
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	want := "LOWER(municipio) = ? AND LOWER(proyecto) LIKE ?"
	if pred.Where != want {
		t.Errorf("Expected %q, got %q", want, pred.Where)
	}
	if len(pred.Args) != 2 || pred.Args[0] != "yumbo" || pred.Args[1] != "%cauca%" {
		t.Errorf("Unexpected args: %v", pred.Args)
	}
}

// TestBuild_BlankValueSkipped tests that a whitespace-only value adds no
// constraint.
func TestBuild_BlankValueSkipped(t *testing.T) {
	spec := &observation.FilterSpec{
		Fields: map[string]observation.Criterion{
			"municipio": {Value: "   "},
			"proyecto":  {Value: "Pance"},
		},
	}

	pred, err := Build(spec, DefaultAllowlist())
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if pred.Where != "LOWER(proyecto) LIKE ?" {
		t.Errorf("Blank value should be skipped, got WHERE %q", pred.Where)
	}
	if len(pred.Args) != 1 {
		t.Errorf("Expected 1 arg, got %v", pred.Args)
	}
}

// TestBuild_Keyword tests the OR-group across all text columns.
func TestBuild_Keyword(t *testing.T) {
	allow := DefaultAllowlist()
	spec := &observation.FilterSpec{Keyword: "Rana"}

	pred, err := Build(spec, allow)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	want := "(LOWER(nombre_cientifico) LIKE ? OR LOWER(nombre_comun) LIKE ? OR LOWER(codigo_muestra) LIKE ? OR LOWER(proyecto) LIKE ? OR LOWER(municipio) LIKE ? OR LOWER(grupo_biologico) LIKE ? OR LOWER(tipo_hidrobiota) LIKE ?)"
	if pred.Where != want {
		t.Errorf("Expected %q, got %q", want, pred.Where)
	}
	if len(pred.Args) != len(allow.TextColumns) {
		t.Fatalf("Expected %d args, got %d", len(allow.TextColumns), len(pred.Args))
	}
	for i, arg := range pred.Args {
		if arg != "%rana%" {
			t.Errorf("Arg %d: expected %%rana%%, got %v", i, arg)
		}
	}
}

// TestBuild_KeywordAndFields tests that a keyword group ANDs with field
// constraints.
func TestBuild_KeywordAndFields(t *testing.T) {
	spec := &observation.FilterSpec{
		Fields: map[string]observation.Criterion{
			"municipio": {Value: "Cali", Match: observation.MatchExact},
		},
		Keyword: "peces",
	}

	pred, err := Build(spec, DefaultAllowlist())
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if pred.Where[:len("LOWER(municipio) = ? AND (")] != "LOWER(municipio) = ? AND (" {
		t.Errorf("Field constraint should precede keyword group: %q", pred.Where)
	}
	if len(pred.Args) != 8 {
		t.Errorf("Expected 8 args (1 field + 7 keyword), got %d", len(pred.Args))
	}
}

// TestBuild_Deterministic tests that repeated builds of the same spec
// produce identical predicates.
func TestBuild_Deterministic(t *testing.T) {
	spec := &observation.FilterSpec{
		Fields: map[string]observation.Criterion{
			"tipo_hidrobiota":   {Value: "Perifiton"},
			"grupo_biologico":   {Value: "Algas"},
			"nombre_cientifico": {Value: "Navicula"},
			"municipio":         {Value: "Buga"},
		},
		Keyword: "rio",
	}

	first, err := Build(spec, DefaultAllowlist())
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	for i := 0; i < 50; i++ {
		pred, err := Build(spec, DefaultAllowlist())
		if err != nil {
			t.Fatalf("Build() iteration %d failed: %v", i, err)
		}
		if pred.Where != first.Where {
			t.Fatalf("Non-deterministic WHERE on iteration %d:\n%q\n%q", i, pred.Where, first.Where)
		}
		if len(pred.Args) != len(first.Args) {
			t.Fatalf("Non-deterministic args on iteration %d", i)
		}
		for j := range pred.Args {
			if pred.Args[j] != first.Args[j] {
				t.Fatalf("Arg %d differs on iteration %d: %v vs %v", j, i, pred.Args[j], first.Args[j])
			}
		}
	}
}

// TestBuild_UnknownField tests that a field outside the allow-list fails.
func TestBuild_UnknownField(t *testing.T) {
	spec := &observation.FilterSpec{
		Fields: map[string]observation.Criterion{
			"id; DROP TABLE observations": {Value: "x"},
		},
	}

	_, err := Build(spec, DefaultAllowlist())
	if err == nil {
		t.Fatal("Expected error for unknown field")
	}

	var validationErr *observation.ValidationError
	if !errors.As(err, &validationErr) {
		t.Errorf("Expected ValidationError, got %T", err)
	}
}

// TestBuild_OrderBy tests ordering fragments including the id tie-break.
func TestBuild_OrderBy(t *testing.T) {
	tests := []struct {
		name      string
		sortBy    string
		sortOrder string
		want      string
	}{
		{"default", "", "", "id ASC"},
		{"id descending", "id", "desc", "id DESC"},
		{"non-unique column gets tie-break", "municipio", "asc", "municipio ASC, id ASC"},
		{"descending with tie-break", "fecha_colecta", "desc", "fecha_colecta DESC, id ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := &observation.FilterSpec{SortBy: tt.sortBy, SortOrder: tt.sortOrder}
			pred, err := Build(spec, DefaultAllowlist())
			if err != nil {
				t.Fatalf("Build() failed: %v", err)
			}
			if pred.OrderBy != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, pred.OrderBy)
			}
		})
	}
}
