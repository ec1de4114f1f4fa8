package geo

import (
	"errors"
	"math"
	"testing"

	"humboldt-hq/biotica/pkg/observation"
)

// TestRegistry_Codes tests that the built-in systems are registered.
func TestRegistry_Codes(t *testing.T) {
	r := NewRegistry()

	want := []int{3114, 3115, 3116, 3117, 3118, 4326, 4686, 9377}
	got := r.Codes()

	if len(got) != len(want) {
		t.Fatalf("Expected %d codes, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Code %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

// TestRegistry_TransformOrigin tests that the projection origin maps back
// to the origin coordinates for each projected zone.
func TestRegistry_TransformOrigin(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name    string
		code    int
		east    float64
		north   float64
		wantLat float64
		wantLon float64
	}{
		{"zona oeste-oeste", 3114, 1000000, 1000000, 4.596200416666666, -80.07750791666666},
		{"zona oeste", 3115, 1000000, 1000000, 4.596200416666666, -77.07750791666666},
		{"zona Bogota", 3116, 1000000, 1000000, 4.596200416666666, -74.07750791666666},
		{"zona este", 3117, 1000000, 1000000, 4.596200416666666, -71.07750791666666},
		{"zona este-este", 3118, 1000000, 1000000, 4.596200416666666, -68.07750791666666},
		{"origen nacional", 9377, 5000000, 2000000, 4.0, -73.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lon, err := r.Transform(tt.code, tt.east, tt.north)
			if err != nil {
				t.Fatalf("Transform() failed: %v", err)
			}
			if math.Abs(lat-tt.wantLat) > 1e-7 {
				t.Errorf("Latitude: expected %v, got %v", tt.wantLat, lat)
			}
			if math.Abs(lon-tt.wantLon) > 1e-7 {
				t.Errorf("Longitude: expected %v, got %v", tt.wantLon, lon)
			}
		})
	}
}

// TestRegistry_RoundTrip tests forward/inverse consistency across the
// projected zones at points away from the origin.
func TestRegistry_RoundTrip(t *testing.T) {
	r := NewRegistry()

	points := []struct {
		lat float64
		lon float64
	}{
		{3.4372, -76.5225}, // Cali
		{4.7110, -74.0721}, // Bogota
		{10.3910, -75.4794},
		{6.2442, -75.5812},
		{1.2136, -77.2811},
	}

	for _, code := range []int{3115, 3116, 9377} {
		for _, p := range points {
			east, north, err := r.Inverse(code, p.lat, p.lon)
			if err != nil {
				t.Fatalf("Inverse(%d, %v, %v) failed: %v", code, p.lat, p.lon, err)
			}

			lat, lon, err := r.Transform(code, east, north)
			if err != nil {
				t.Fatalf("Transform(%d, %v, %v) failed: %v", code, east, north, err)
			}

			// Round trip should close to well under a meter (~1e-5 deg).
			if math.Abs(lat-p.lat) > 1e-6 || math.Abs(lon-p.lon) > 1e-6 {
				t.Errorf("Round trip %d (%v, %v): got (%v, %v)", code, p.lat, p.lon, lat, lon)
			}
		}
	}
}

// TestRegistry_GeographicPassthrough tests that geographic codes pass
// coordinates through with the (east=lon, north=lat) convention.
func TestRegistry_GeographicPassthrough(t *testing.T) {
	r := NewRegistry()

	for _, code := range []int{4326, 4686} {
		lat, lon, err := r.Transform(code, -76.5225, 3.4372)
		if err != nil {
			t.Fatalf("Transform(%d) failed: %v", code, err)
		}
		if lat != 3.4372 || lon != -76.5225 {
			t.Errorf("Code %d: expected (3.4372, -76.5225), got (%v, %v)", code, lat, lon)
		}
	}
}

// TestRegistry_UnknownCode tests that an unregistered EPSG code fails with
// a configuration error.
func TestRegistry_UnknownCode(t *testing.T) {
	r := NewRegistry()

	_, _, err := r.Transform(32618, 500000, 400000)
	if err == nil {
		t.Fatal("Expected error for unknown EPSG code")
	}

	var configErr *observation.ConfigError
	if !errors.As(err, &configErr) {
		t.Errorf("Expected ConfigError, got %T", err)
	}
}

// TestRegistry_BadPairs tests the per-record input rejections.
func TestRegistry_BadPairs(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name  string
		east  float64
		north float64
	}{
		{"NaN east", math.NaN(), 1000000},
		{"NaN north", 1000000, math.NaN()},
		{"infinite east", math.Inf(1), 1000000},
		{"zero pair", 0, 0},
		{"absurd magnitude", 1e9, 1000000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := r.Transform(3116, tt.east, tt.north)
			if err == nil {
				t.Fatal("Expected error")
			}
			var transformErr *observation.TransformError
			if !errors.As(err, &transformErr) {
				t.Errorf("Expected TransformError, got %T", err)
			}
		})
	}
}

// TestRegistry_GeographicOutOfRange tests that an out-of-range geographic
// pair fails rather than passing through.
func TestRegistry_GeographicOutOfRange(t *testing.T) {
	r := NewRegistry()

	_, _, err := r.Transform(4326, 200, 95)
	if err == nil {
		t.Fatal("Expected error for out-of-range geographic pair")
	}

	var transformErr *observation.TransformError
	if !errors.As(err, &transformErr) {
		t.Errorf("Expected TransformError, got %T", err)
	}
}

// TestRegistry_Register tests custom system registration.
func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	r.Register(32618, newTransverseMercator(0, -75, 0.9996, 500000, 0))

	if _, ok := r.Lookup(32618); !ok {
		t.Error("Registered system not found")
	}

	lat, lon, err := r.Transform(32618, 500000, 380000)
	if err != nil {
		t.Fatalf("Transform() failed: %v", err)
	}
	if math.Abs(lon-(-75)) > 1e-6 {
		t.Errorf("Central meridian easting should map to lon -75, got %v", lon)
	}
	if lat < 3.3 || lat > 3.6 {
		t.Errorf("Unexpected latitude %v for northing 380000", lat)
	}
}
