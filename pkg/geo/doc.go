// Package geo converts projected observation coordinates into WGS84
// geographic coordinates for map display.
//
// # Reference Systems
//
// Coordinate reference systems are looked up by EPSG code in a Registry.
// The built-in registrations cover the systems the observation data set is
// stored in:
//
//   - 3114-3118: MAGNA-SIRGAS Colombia Gauss-Krüger zones (Far West to East)
//   - 9377: MAGNA-SIRGAS / Origen-Nacional (CTM12)
//   - 4326, 4686: geographic coordinates, passed through unchanged
//
// Additional systems can be added with Register.
//
// # Error Semantics
//
// An unknown EPSG code yields an observation.ConfigError; a coordinate pair
// outside the valid domain of its declared system (NaN, the zero pair, or
// out-of-range magnitude) yields an observation.TransformError. Transforms
// are pure functions: callers keep the raw pair untouched and only attach
// the derived latitude/longitude on success.
//
// # Basic Usage
//
//	registry := geo.NewRegistry()
//	lat, lon, err := registry.Transform(3116, 1000000, 1000000)
//	if err != nil {
//	    // record keeps its raw coordinates, map fields stay absent
//	}
package geo
