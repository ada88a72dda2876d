package model

// Route connects two distinct stations.  The source and destination
// must differ; this is validated before insert.  This struct
// corresponds to a row in the `routes` table.
type Route struct {
	ID            uint64 // routes.id
	Name          string // routes.name
	Distance      uint32 // routes.distance
	FromStationID uint64 // routes.from_station_id
	ToStationID   uint64 // routes.to_station_id
}
