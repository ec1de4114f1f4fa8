package geo

import (
	"fmt"
	"math"

	"humboldt-hq/biotica/pkg/observation"
)

// GRS80 ellipsoid, the datum surface of MAGNA-SIRGAS.
const (
	grs80SemiMajor  = 6378137.0
	grs80Flattening = 1.0 / 298.257222101
)

// transverseMercator implements the Gauss-Krüger projection on the GRS80
// ellipsoid using the standard series expansion (Snyder, Map Projections:
// A Working Manual, eqs. 8-9..8-25). Accuracy is well below a meter inside
// a zone, which is far tighter than the source data's own precision.
type transverseMercator struct {
	lat0 float64 // origin latitude, radians
	lon0 float64 // central meridian, radians
	k0   float64 // scale factor at the central meridian
	fe   float64 // false easting, meters
	fn   float64 // false northing, meters

	// Derived ellipsoid constants.
	e2  float64 // first eccentricity squared
	ep2 float64 // second eccentricity squared
	m0  float64 // meridional arc at lat0
}

func newTransverseMercator(lat0Deg, lon0Deg, k0, fe, fn float64) *transverseMercator {
	f := grs80Flattening
	tm := &transverseMercator{
		lat0: lat0Deg * math.Pi / 180,
		lon0: lon0Deg * math.Pi / 180,
		k0:   k0,
		fe:   fe,
		fn:   fn,
		e2:   f * (2 - f),
	}
	tm.ep2 = tm.e2 / (1 - tm.e2)
	tm.m0 = tm.meridionalArc(tm.lat0)
	return tm
}

// meridionalArc returns the distance along the meridian from the equator
// to latitude phi.
func (tm *transverseMercator) meridionalArc(phi float64) float64 {
	e2 := tm.e2
	e4 := e2 * e2
	e6 := e4 * e2
	return grs80SemiMajor * ((1-e2/4-3*e4/64-5*e6/256)*phi -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
		(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
		(35*e6/3072)*math.Sin(6*phi))
}

// ToWGS84 converts a projected (east, north) pair to latitude/longitude
// degrees via the inverse series.
func (tm *transverseMercator) ToWGS84(east, north float64) (lat, lon float64, err error) {
	e2, ep2 := tm.e2, tm.ep2

	m := tm.m0 + (north-tm.fn)/tm.k0
	mu := m / (grs80SemiMajor * (1 - e2/4 - 3*e2*e2/64 - 5*e2*e2*e2/256))

	e1 := (1 - math.Sqrt(1-e2)) / (1 + math.Sqrt(1-e2))
	phi1 := mu +
		(3*e1/2-27*math.Pow(e1, 3)/32)*math.Sin(2*mu) +
		(21*e1*e1/16-55*math.Pow(e1, 4)/32)*math.Sin(4*mu) +
		(151*math.Pow(e1, 3)/96)*math.Sin(6*mu) +
		(1097*math.Pow(e1, 4)/512)*math.Sin(8*mu)

	sin1, cos1 := math.Sin(phi1), math.Cos(phi1)
	if math.Abs(cos1) < 1e-12 {
		return 0, 0, observation.NewTransformError(0, east, north,
			fmt.Errorf("footpoint latitude at a pole"))
	}
	t1 := (sin1 / cos1) * (sin1 / cos1)
	c1 := ep2 * cos1 * cos1
	n1 := grs80SemiMajor / math.Sqrt(1-e2*sin1*sin1)
	r1 := grs80SemiMajor * (1 - e2) / math.Pow(1-e2*sin1*sin1, 1.5)
	d := (east - tm.fe) / (n1 * tm.k0)

	phi := phi1 - (n1*sin1/cos1/r1)*(d*d/2-
		(5+3*t1+10*c1-4*c1*c1-9*ep2)*math.Pow(d, 4)/24+
		(61+90*t1+298*c1+45*t1*t1-252*ep2-3*c1*c1)*math.Pow(d, 6)/720)
	lam := tm.lon0 + (d-
		(1+2*t1+c1)*math.Pow(d, 3)/6+
		(5-2*c1+28*t1-3*c1*c1+8*ep2+24*t1*t1)*math.Pow(d, 5)/120)/cos1

	return phi * 180 / math.Pi, lam * 180 / math.Pi, nil
}

// FromWGS84 converts latitude/longitude degrees to a projected
// (east, north) pair via the forward series.
func (tm *transverseMercator) FromWGS84(lat, lon float64) (east, north float64, err error) {
	phi := lat * math.Pi / 180
	lam := lon * math.Pi / 180
	e2, ep2 := tm.e2, tm.ep2

	sinP, cosP := math.Sin(phi), math.Cos(phi)
	if math.Abs(cosP) < 1e-12 {
		return 0, 0, observation.NewTransformError(0, lon, lat,
			fmt.Errorf("latitude at a pole"))
	}

	n := grs80SemiMajor / math.Sqrt(1-e2*sinP*sinP)
	t := (sinP / cosP) * (sinP / cosP)
	c := ep2 * cosP * cosP
	a := (lam - tm.lon0) * cosP
	m := tm.meridionalArc(phi)

	east = tm.fe + tm.k0*n*(a+
		(1-t+c)*math.Pow(a, 3)/6+
		(5-18*t+t*t+72*c-58*ep2)*math.Pow(a, 5)/120)
	north = tm.fn + tm.k0*(m-tm.m0+n*(sinP/cosP)*(a*a/2+
		(5-t+9*c+4*c*c)*math.Pow(a, 4)/24+
		(61-58*t+t*t+600*c-330*ep2)*math.Pow(a, 6)/720))

	return east, north, nil
}
