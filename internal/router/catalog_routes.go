package router

import (
	"github.com/labstack/echo/v4"

	"github.com/olekhv/train-station-api/internal/handler"
	"github.com/olekhv/train-station-api/internal/middleware"
)

// RegisterCatalog registers the catalog and journey endpoints.  Reads
// are available to any authenticated user; creates, updates, deletes
// and image uploads require the ADMIN role.  The optional cacheMW is
// applied to list/detail reads only, so writes are never cached.
func RegisterCatalog(e *echo.Echo, cat *handler.CatalogHandler, j *handler.JourneyHandler, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	read := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole("ADMIN", "USER"))
	if cacheMW != nil {
		read.Use(cacheMW)
	}
	admin := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole("ADMIN"))

	// ---- Train types ----
	read.GET("/train-types", cat.ListTrainTypes)
	admin.POST("/train-types", cat.CreateTrainType)

	// ---- Trains ----
	read.GET("/trains", cat.ListTrains)
	read.GET("/trains/:id", cat.GetTrain)
	admin.POST("/trains", cat.CreateTrain)
	admin.POST("/trains/:id/upload-image", cat.UploadTrainImage)

	// ---- Carriages ----
	read.GET("/carriages", cat.ListCarriages)
	read.GET("/carriages/:id", cat.GetCarriage)
	admin.POST("/carriages", cat.CreateCarriage)

	// ---- Stations ----
	read.GET("/stations", cat.ListStations)
	admin.POST("/stations", cat.CreateStation)

	// ---- Routes ----
	read.GET("/routes", cat.ListRoutes)
	admin.POST("/routes", cat.CreateRoute)

	// ---- Crew ----
	read.GET("/crew", cat.ListCrew)
	admin.POST("/crew", cat.CreateCrew)
	admin.POST("/crew/:id/upload-image", cat.UploadCrewImage)

	// ---- Journeys ----
	read.GET("/journeys", j.ListJourneys)
	read.GET("/journeys/:id", j.GetJourney)
	admin.POST("/journeys", j.CreateJourney)
	admin.PUT("/journeys/:id", j.UpdateJourney)
	admin.DELETE("/journeys/:id", j.DeleteJourney)
	admin.POST("/journeys/:id/upload-image", j.UploadJourneyImage)
}
