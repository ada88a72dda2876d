package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/olekhv/train-station-api/internal/model"
)

type stationResp struct {
	ID        uint64  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CreateStation handles POST /v1/stations.
func (h *CatalogHandler) CreateStation(c echo.Context) error {
	var body struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if body.Latitude < -90 || body.Latitude > 90 || body.Longitude < -180 || body.Longitude > 180 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid coordinates"})
	}
	st := &model.Station{Name: name, Latitude: body.Latitude, Longitude: body.Longitude}
	if err := h.Stations.Create(c.Request().Context(), st); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create station"})
	}
	return c.JSON(http.StatusCreated, stationResp{ID: st.ID, Name: st.Name, Latitude: st.Latitude, Longitude: st.Longitude})
}

// ListStations handles GET /v1/stations.
func (h *CatalogHandler) ListStations(c echo.Context) error {
	items, err := h.Stations.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]stationResp, 0, len(items))
	for _, it := range items {
		out = append(out, stationResp{ID: it.ID, Name: it.Name, Latitude: it.Latitude, Longitude: it.Longitude})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
