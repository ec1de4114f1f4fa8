package query

import (
	"errors"
	"testing"

	"humboldt-hq/biotica/pkg/observation"
)

// TestValidate_AllowedFields tests that every default field passes.
func TestValidate_AllowedFields(t *testing.T) {
	allow := DefaultAllowlist()

	for field := range allow.Fields {
		spec := &observation.FilterSpec{
			Fields: map[string]observation.Criterion{
				field: {Value: "x"},
			},
		}
		if err := Validate(spec, allow); err != nil {
			t.Errorf("Field %q should validate: %v", field, err)
		}
	}
}

// TestValidate_SortFields tests that every declared sort column passes in
// both directions.
func TestValidate_SortFields(t *testing.T) {
	allow := DefaultAllowlist()

	for field := range allow.SortFields {
		for _, order := range []string{"asc", "desc"} {
			spec := &observation.FilterSpec{SortBy: field, SortOrder: order}
			if err := Validate(spec, allow); err != nil {
				t.Errorf("Sort by %q %s should validate: %v", field, order, err)
			}
		}
	}
}

// TestValidate_Rejections tests the rejection cases.
func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name string
		spec *observation.FilterSpec
	}{
		{
			"unknown field",
			&observation.FilterSpec{
				Fields: map[string]observation.Criterion{"password": {Value: "x"}},
			},
		},
		{
			"unknown match kind",
			&observation.FilterSpec{
				Fields: map[string]observation.Criterion{"municipio": {Value: "x", Match: "regex"}},
			},
		},
		{
			"unknown sort field",
			&observation.FilterSpec{SortBy: "rowid"},
		},
		{
			"unknown sort order",
			&observation.FilterSpec{SortOrder: "random"},
		},
		{
			"negative limit",
			&observation.FilterSpec{Limit: -1},
		},
		{
			"negative offset",
			&observation.FilterSpec{Offset: -10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.spec, DefaultAllowlist())
			if err == nil {
				t.Fatal("Expected validation error")
			}
			var validationErr *observation.ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("Expected ValidationError, got %T", err)
			}
		})
	}
}

// TestApplyDefaults tests that defaults fill only zero values.
func TestApplyDefaults(t *testing.T) {
	spec := &observation.FilterSpec{
		Fields: map[string]observation.Criterion{
			"municipio": {Value: "Cali"},
			"proyecto":  {Value: "Pance", Match: observation.MatchExact},
		},
	}

	ApplyDefaults(spec)

	if spec.Fields["municipio"].Match != observation.MatchContains {
		t.Errorf("Expected contains default, got %q", spec.Fields["municipio"].Match)
	}
	if spec.Fields["proyecto"].Match != observation.MatchExact {
		t.Errorf("Explicit match kind should survive, got %q", spec.Fields["proyecto"].Match)
	}
	if spec.SortBy != "id" {
		t.Errorf("Expected default sort field id, got %q", spec.SortBy)
	}
	if spec.SortOrder != "asc" {
		t.Errorf("Expected default sort order asc, got %q", spec.SortOrder)
	}
	if spec.Limit != 0 {
		t.Errorf("Zero limit should stay zero for the store to resolve, got %d", spec.Limit)
	}
}

// TestApplyDefaults_ExplicitValuesKept tests that explicit values are not
// overwritten.
func TestApplyDefaults_ExplicitValuesKept(t *testing.T) {
	spec := &observation.FilterSpec{
		SortBy:    "municipio",
		SortOrder: "desc",
		Limit:     25,
	}

	ApplyDefaults(spec)

	if spec.SortBy != "municipio" || spec.SortOrder != "desc" || spec.Limit != 25 {
		t.Errorf("Explicit values changed: %+v", spec)
	}
}
