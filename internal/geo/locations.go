// internal/geo/locations.go
// Seed table of named locations with reference coordinates.

package geo

// LocationTable maps a canonical (title-cased) city label to its
// reference coordinates. Built once at startup and passed into the
// Scorer; lookups never mutate it.
type LocationTable map[string]GeoPoint

// DefaultLocations returns the compiled-in city table.
func DefaultLocations() LocationTable {
	return LocationTable{
		"Bengaluru": {Lat: 12.9716, Lng: 77.5946},
		"Belagavi":  {Lat: 15.8497, Lng: 74.4977},
		"Mumbai":    {Lat: 19.0760, Lng: 72.8777},
		"Delhi":     {Lat: 28.7041, Lng: 77.1025},
		"Chennai":   {Lat: 13.0827, Lng: 80.2707},
		"Hyderabad": {Lat: 17.3850, Lng: 78.4867},
	}
}
