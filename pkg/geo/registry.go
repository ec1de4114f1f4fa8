package geo

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"humboldt-hq/biotica/pkg/observation"
)

// maxProjectedMagnitude bounds the absolute easting/northing a projected
// system will accept. Values beyond this are data errors, not coordinates.
const maxProjectedMagnitude = 1e8

// CRS is one coordinate reference system. Implementations must be pure and
// safe for concurrent use.
type CRS interface {
	// ToWGS84 converts a projected (east, north) pair into WGS84
	// (latitude, longitude) degrees.
	ToWGS84(east, north float64) (lat, lon float64, err error)

	// FromWGS84 is the inverse conversion, used for round-trip checks and
	// for callers that need to project geographic input.
	FromWGS84(lat, lon float64) (east, north float64, err error)
}

// Registry maps EPSG codes to coordinate reference systems.
type Registry struct {
	mu      sync.RWMutex
	systems map[int]CRS
}

// NewRegistry creates a registry pre-populated with the built-in Colombian
// MAGNA-SIRGAS systems and the geographic passthrough codes.
func NewRegistry() *Registry {
	r := &Registry{systems: make(map[int]CRS)}

	// MAGNA-SIRGAS Gauss-Krüger zones share the Bogotá origin latitude and
	// step the central meridian 3 degrees per zone.
	const originLat = 4.596200416666666
	r.Register(3114, newTransverseMercator(originLat, -80.07750791666666, 1.0, 1000000, 1000000))
	r.Register(3115, newTransverseMercator(originLat, -77.07750791666666, 1.0, 1000000, 1000000))
	r.Register(3116, newTransverseMercator(originLat, -74.07750791666666, 1.0, 1000000, 1000000))
	r.Register(3117, newTransverseMercator(originLat, -71.07750791666666, 1.0, 1000000, 1000000))
	r.Register(3118, newTransverseMercator(originLat, -68.07750791666666, 1.0, 1000000, 1000000))

	// Origen-Nacional single zone (CTM12).
	r.Register(9377, newTransverseMercator(4.0, -73.0, 0.9992, 5000000, 2000000))

	// Already-geographic data passes through unchanged.
	r.Register(4326, geographic{})
	r.Register(4686, geographic{})

	return r
}

// Register adds or replaces the system for an EPSG code.
func (r *Registry) Register(code int, crs CRS) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.systems[code] = crs
}

// Lookup returns the system registered for an EPSG code.
func (r *Registry) Lookup(code int) (CRS, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	crs, ok := r.systems[code]
	return crs, ok
}

// Codes returns the registered EPSG codes in ascending order.
func (r *Registry) Codes() []int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]int, 0, len(r.systems))
	for code := range r.systems {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	return codes
}

// Transform converts a projected (east, north) pair in the given reference
// system into WGS84 (latitude, longitude) degrees.
//
// An unknown code fails with observation.ConfigError; an out-of-domain pair
// fails with observation.TransformError. The inputs are never modified.
func (r *Registry) Transform(code int, east, north float64) (lat, lon float64, err error) {
	crs, ok := r.Lookup(code)
	if !ok {
		return 0, 0, observation.NewConfigError("epsg", fmt.Sprintf("%d", code),
			fmt.Errorf("unknown reference system"))
	}

	if err := checkPair(code, east, north); err != nil {
		return 0, 0, err
	}

	lat, lon, err = crs.ToWGS84(east, north)
	if err != nil {
		return 0, 0, err
	}

	if lat < -90 || lat > 90 || lon < -180 || lon > 180 ||
		math.IsNaN(lat) || math.IsNaN(lon) {
		return 0, 0, observation.NewTransformError(code, east, north,
			fmt.Errorf("result (%g, %g) outside geographic bounds", lat, lon))
	}

	return lat, lon, nil
}

// Inverse converts WGS84 (latitude, longitude) degrees back into the given
// reference system.
func (r *Registry) Inverse(code int, lat, lon float64) (east, north float64, err error) {
	crs, ok := r.Lookup(code)
	if !ok {
		return 0, 0, observation.NewConfigError("epsg", fmt.Sprintf("%d", code),
			fmt.Errorf("unknown reference system"))
	}
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, observation.NewTransformError(code, lon, lat,
			fmt.Errorf("geographic input (%g, %g) out of range", lat, lon))
	}
	return crs.FromWGS84(lat, lon)
}

// checkPair rejects pairs that no reference system can meaningfully
// transform: non-finite values, the zero pair (a common null sentinel in
// the source data), and magnitudes no projected grid reaches.
func checkPair(code int, east, north float64) error {
	if math.IsNaN(east) || math.IsNaN(north) || math.IsInf(east, 0) || math.IsInf(north, 0) {
		return observation.NewTransformError(code, east, north,
			fmt.Errorf("non-finite coordinate"))
	}
	if east == 0 && north == 0 {
		return observation.NewTransformError(code, east, north,
			fmt.Errorf("zero coordinate pair"))
	}
	if math.Abs(east) > maxProjectedMagnitude || math.Abs(north) > maxProjectedMagnitude {
		return observation.NewTransformError(code, east, north,
			fmt.Errorf("magnitude exceeds %g", maxProjectedMagnitude))
	}
	return nil
}

// geographic is the passthrough system for data already stored as
// latitude/longitude. The (east, north) convention maps east to longitude
// and north to latitude.
type geographic struct{}

func (geographic) ToWGS84(east, north float64) (lat, lon float64, err error) {
	if north < -90 || north > 90 || east < -180 || east > 180 {
		return 0, 0, observation.NewTransformError(0, east, north,
			fmt.Errorf("geographic pair (%g, %g) out of range", north, east))
	}
	return north, east, nil
}

func (geographic) FromWGS84(lat, lon float64) (east, north float64, err error) {
	return lon, lat, nil
}
