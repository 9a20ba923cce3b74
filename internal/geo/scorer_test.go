package geo

import (
	"math"
	"testing"
)

var (
	bengaluru = GeoPoint{Lat: 12.9716, Lng: 77.5946}
	mumbai    = GeoPoint{Lat: 19.0760, Lng: 72.8777}
)

func TestDistanceKMIdentity(t *testing.T) {
	points := []GeoPoint{
		{Lat: 0, Lng: 0},
		bengaluru,
		{Lat: -33.8688, Lng: 151.2093},
		{Lat: 90, Lng: 0},
	}

	for _, p := range points {
		d := DistanceKM(&p, &p)
		if d == nil {
			t.Fatalf("distance(%v, %v) returned nil", p, p)
		}
		if *d != 0 {
			t.Errorf("distance(%v, %v) = %f, want 0", p, p, *d)
		}
	}
}

func TestDistanceKMSymmetry(t *testing.T) {
	pairs := []struct{ a, b GeoPoint }{
		{bengaluru, mumbai},
		{GeoPoint{Lat: 28.7041, Lng: 77.1025}, GeoPoint{Lat: 13.0827, Lng: 80.2707}},
		{GeoPoint{Lat: -45, Lng: -170}, GeoPoint{Lat: 60, Lng: 20}},
	}

	for _, pair := range pairs {
		ab := DistanceKM(&pair.a, &pair.b)
		ba := DistanceKM(&pair.b, &pair.a)
		if *ab != *ba {
			t.Errorf("distance not symmetric: %f vs %f", *ab, *ba)
		}
	}
}

func TestDistanceKMNilInputs(t *testing.T) {
	if d := DistanceKM(nil, &mumbai); d != nil {
		t.Errorf("distance(nil, b) = %v, want nil", *d)
	}
	if d := DistanceKM(&bengaluru, nil); d != nil {
		t.Errorf("distance(a, nil) = %v, want nil", *d)
	}
	if d := DistanceKM(nil, nil); d != nil {
		t.Errorf("distance(nil, nil) = %v, want nil", *d)
	}
}

func TestDistanceKMBengaluruMumbai(t *testing.T) {
	d := DistanceKM(&bengaluru, &mumbai)
	if d == nil {
		t.Fatal("expected a distance")
	}
	if math.Abs(*d-845.32) > 0.5 {
		t.Errorf("Bengaluru-Mumbai distance = %f, want ~845.32", *d)
	}
}

func TestGeodesicKMBengaluruMumbai(t *testing.T) {
	// Ellipsoidal distance is ~2 km shorter than the spherical one on
	// this pair; the two must stay distinct.
	d := geodesicKM(&bengaluru, &mumbai)
	if math.Abs(d-843.1) > 0.5 {
		t.Errorf("geodesic Bengaluru-Mumbai = %f, want ~843.1", d)
	}

	spherical := DistanceKM(&bengaluru, &mumbai)
	if math.Abs(d-*spherical) < 1 {
		t.Errorf("geodesic %f should not match spherical %f", d, *spherical)
	}
}

func TestGeodesicKMIdentity(t *testing.T) {
	if d := geodesicKM(&bengaluru, &bengaluru); d != 0 {
		t.Errorf("geodesic(p, p) = %f, want 0", d)
	}
}

func TestResolve(t *testing.T) {
	scorer := NewScorer(DefaultLocations())

	tests := []struct {
		name  string
		label string
		found bool
	}{
		{"exact", "Bengaluru", true},
		{"lowercase", "bengaluru", true},
		{"uppercase", "MUMBAI", true},
		{"whitespace", "  Delhi  ", true},
		{"unknown", "Atlantis", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			point := scorer.Resolve(tt.label)
			if tt.found && point == nil {
				t.Errorf("Resolve(%q) = nil, want a point", tt.label)
			}
			if !tt.found && point != nil {
				t.Errorf("Resolve(%q) = %v, want nil", tt.label, point)
			}
		})
	}
}

func TestSessionSimilarity(t *testing.T) {
	scorer := NewScorer(DefaultLocations())

	tests := []struct {
		name     string
		userLoc  string
		sessLoc  string
		expected float64
	}{
		{"same city", "Bengaluru", "Bengaluru", 1.0},
		{"case differs", "bengaluru", "BENGALURU", 1.0},
		{"unresolvable user side", "Nowhere", "Mumbai", 0.0},
		{"unresolvable session side", "Mumbai", "Nowhere", 0.0},
		{"both unresolvable", "", "Nowhere", 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.SessionSimilarity(tt.userLoc, tt.sessLoc)
			if got != tt.expected {
				t.Errorf("SessionSimilarity(%q, %q) = %f, want %f", tt.userLoc, tt.sessLoc, got, tt.expected)
			}
		})
	}
}

func TestSessionSimilarityLinearDecay(t *testing.T) {
	scorer := NewScorer(DefaultLocations())

	// ~843.1 km apart on the ellipsoid => round(1 - 843.1/2000, 4).
	// The spherical distance would give 0.5773 instead.
	got := scorer.SessionSimilarity("Bengaluru", "Mumbai")
	if math.Abs(got-0.5784) > 0.0005 {
		t.Errorf("SessionSimilarity(Bengaluru, Mumbai) = %f, want ~0.5784", got)
	}

	// Similarity never negative, even for cities beyond the decay range.
	far := NewScorer(LocationTable{
		"Near": {Lat: 0, Lng: 0},
		"Far":  {Lat: 0, Lng: 90},
	})
	if got := far.SessionSimilarity("Near", "Far"); got != 0 {
		t.Errorf("similarity beyond max distance = %f, want 0", got)
	}
}

func TestValidPoint(t *testing.T) {
	tests := []struct {
		lat, lng float64
		want     bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{90.01, 0, false},
		{0, -180.5, false},
		{-91, 200, false},
	}

	for _, tt := range tests {
		if got := ValidPoint(tt.lat, tt.lng); got != tt.want {
			t.Errorf("ValidPoint(%f, %f) = %v, want %v", tt.lat, tt.lng, got, tt.want)
		}
	}
}
