package model

// TrainType classifies trains (e.g. intercity, express, suburban).
// Each train references exactly one type.  This struct corresponds
// to a row in the `train_types` table.
type TrainType struct {
	ID   uint64 // train_types.id
	Name string // train_types.name
}
