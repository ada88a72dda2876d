package model

// Train represents a physical train composed of carriages.  The
// capacity of a train is never stored; it is derived on read as the
// sum of seats over its carriages.  This struct corresponds to a row
// in the `trains` table.
type Train struct {
	ID          uint64  // trains.id
	Name        string  // trains.name
	Number      string  // trains.number (unique)
	TrainTypeID uint64  // trains.train_type_id
	ImageURL    *string // trains.image_url (nullable)
}
