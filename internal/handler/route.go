package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/olekhv/train-station-api/internal/model"
	"github.com/olekhv/train-station-api/internal/repository"
)

// CreateRoute handles POST /v1/routes.  Source and destination must
// be distinct existing stations.
func (h *CatalogHandler) CreateRoute(c echo.Context) error {
	var body struct {
		Name        string `json:"name"`
		Distance    uint32 `json:"distance"`
		FromStation uint64 `json:"from_station"`
		ToStation   uint64 `json:"to_station"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if body.Distance == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "distance must be positive"})
	}
	rt := &model.Route{
		Name:          name,
		Distance:      body.Distance,
		FromStationID: body.FromStation,
		ToStationID:   body.ToStation,
	}
	if err := h.Routes.Create(c.Request().Context(), rt); err != nil {
		switch err {
		case repository.ErrSameStation:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "source and destination stations must differ"})
		case repository.ErrStationNotFound:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "referenced station does not exist"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create route"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":           rt.ID,
		"name":         rt.Name,
		"distance":     rt.Distance,
		"from_station": rt.FromStationID,
		"to_station":   rt.ToStationID,
	})
}

// ListRoutes handles GET /v1/routes.
func (h *CatalogHandler) ListRoutes(c echo.Context) error {
	items, err := h.Routes.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
