package model

// Station is a named geographic point that routes connect.  This
// struct corresponds to a row in the `stations` table.
type Station struct {
	ID        uint64  // stations.id
	Name      string  // stations.name
	Latitude  float64 // stations.latitude
	Longitude float64 // stations.longitude
}
