package handler

import (
	"github.com/olekhv/train-station-api/internal/repository"
	"github.com/olekhv/train-station-api/internal/storage"
)

// CatalogHandler groups the repositories behind the catalog
// endpoints: train types, trains, carriages, stations, routes and
// crew.  Write endpoints are admin-only; the role check happens in
// middleware.  Images is nil when no blob store is configured, which
// disables the upload endpoints.
type CatalogHandler struct {
	TrainTypes *repository.TrainTypeRepo
	Trains     *repository.TrainRepo
	Carriages  *repository.CarriageRepo
	Stations   *repository.StationRepo
	Routes     *repository.RouteRepo
	Crew       *repository.CrewRepo
	Images     storage.Uploader
}

// NewCatalogHandler constructs a CatalogHandler.  All repositories
// must be non-nil; Images may be nil.
func NewCatalogHandler(
	trainTypes *repository.TrainTypeRepo,
	trains *repository.TrainRepo,
	carriages *repository.CarriageRepo,
	stations *repository.StationRepo,
	routes *repository.RouteRepo,
	crew *repository.CrewRepo,
	images storage.Uploader,
) *CatalogHandler {
	if trainTypes == nil || trains == nil || carriages == nil || stations == nil || routes == nil || crew == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{
		TrainTypes: trainTypes,
		Trains:     trains,
		Carriages:  carriages,
		Stations:   stations,
		Routes:     routes,
		Crew:       crew,
		Images:     images,
	}
}
