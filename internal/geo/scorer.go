// internal/geo/scorer.go
// Location scoring: named-location lookup, great-circle distance and
// the session similarity measure used by recommendations.

package geo

import (
	"math"
	"strings"
)

const (
	// MaxDistanceKM is the distance at which session similarity decays to zero.
	MaxDistanceKM = 2000.0

	// DefaultLocalRadiusKM is the default "nearby" threshold for user ranking.
	DefaultLocalRadiusKM = 50.0

	earthRadiusKM = 6371

	// WGS84 ellipsoid, used for session similarity distances.
	wgs84SemiMajorM = 6378137.0
	wgs84Flattening = 1 / 298.257223563
)

// GeoPoint is a latitude/longitude pair. Coordinate bounds are validated
// at the ingestion boundary; the scorer assumes valid points.
type GeoPoint struct {
	Lat float64 `json:"latitude"`
	Lng float64 `json:"longitude"`
}

// ValidPoint reports whether lat/lng fall within geographic bounds.
func ValidPoint(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Scorer resolves named locations and computes closeness measures.
type Scorer struct {
	locations LocationTable
}

// NewScorer creates a scorer over the given location table.
func NewScorer(locations LocationTable) *Scorer {
	return &Scorer{locations: locations}
}

// Resolve looks up a free-text city label. The lookup trims whitespace and
// is case-insensitive; unknown or empty labels resolve to nil. No fuzzy
// matching or external geocoding.
func (s *Scorer) Resolve(label string) *GeoPoint {
	if label == "" {
		return nil
	}
	point, ok := s.locations[titleCase(strings.TrimSpace(label))]
	if !ok {
		return nil
	}
	return &point
}

// DistanceKM returns the great-circle distance between two points in
// kilometers, rounded to two decimals, or nil if either point is absent.
// Symmetric, and zero for identical points.
func DistanceKM(a, b *GeoPoint) *float64 {
	if a == nil || b == nil {
		return nil
	}

	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Asin(math.Sqrt(h))

	d := round2(earthRadiusKM * c)
	return &d
}

// SessionSimilarity maps the distance between two named locations onto
// [0,1] with a linear decay over MaxDistanceKM, rounded to four decimals.
// Returns exactly 0.0 when either label fails to resolve; there is no
// partial credit. The distance here is ellipsoidal, not spherical:
// stored match scores were produced against WGS84 geodesics, so the two
// measures must not be swapped.
func (s *Scorer) SessionSimilarity(userLocation, sessionLocation string) float64 {
	userPoint := s.Resolve(userLocation)
	sessionPoint := s.Resolve(sessionLocation)
	if userPoint == nil || sessionPoint == nil {
		return 0.0
	}

	distance := geodesicKM(userPoint, sessionPoint)
	return round4(math.Max(0, 1-(distance/MaxDistanceKM)))
}

// geodesicKM returns the WGS84 ellipsoidal distance between two points in
// kilometers, computed with Vincenty's inverse formula. Falls back to the
// spherical distance for the rare near-antipodal pairs where the
// iteration does not converge.
func geodesicKM(a, b *GeoPoint) float64 {
	if a.Lat == b.Lat && a.Lng == b.Lng {
		return 0
	}

	semiMinor := wgs84SemiMajorM * (1 - wgs84Flattening)
	u1 := math.Atan((1 - wgs84Flattening) * math.Tan(a.Lat*math.Pi/180))
	u2 := math.Atan((1 - wgs84Flattening) * math.Tan(b.Lat*math.Pi/180))
	lngDiff := (b.Lng - a.Lng) * math.Pi / 180

	sinU1, cosU1 := math.Sincos(u1)
	sinU2, cosU2 := math.Sincos(u2)

	lambda := lngDiff
	for i := 0; i < 200; i++ {
		sinLambda, cosLambda := math.Sincos(lambda)
		sinSigma := math.Hypot(cosU2*sinLambda, cosU1*sinU2-sinU1*cosU2*cosLambda)
		if sinSigma == 0 {
			return 0
		}
		cosSigma := sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma := math.Atan2(sinSigma, cosSigma)
		sinAlpha := cosU1 * cosU2 * sinLambda / sinSigma
		cosSqAlpha := 1 - sinAlpha*sinAlpha

		// On the equatorial line cosSqAlpha is zero.
		cos2SigmaM := 0.0
		if cosSqAlpha != 0 {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		}

		c := wgs84Flattening / 16 * cosSqAlpha * (4 + wgs84Flattening*(4-3*cosSqAlpha))
		prev := lambda
		lambda = lngDiff + (1-c)*wgs84Flattening*sinAlpha*
			(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

		if math.Abs(lambda-prev) < 1e-12 {
			uSq := cosSqAlpha * (wgs84SemiMajorM*wgs84SemiMajorM - semiMinor*semiMinor) / (semiMinor * semiMinor)
			bigA := 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
			bigB := uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
			deltaSigma := bigB * sinSigma * (cos2SigmaM + bigB/4*
				(cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)-
					bigB/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*cos2SigmaM*cos2SigmaM)))
			return semiMinor * bigA * (sigma - deltaSigma) / 1000
		}
	}

	return *DistanceKM(a, b)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// titleCase uppercases the first letter of each space-separated word and
// lowercases the rest, matching how table keys are stored.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
