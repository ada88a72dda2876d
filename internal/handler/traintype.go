package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/olekhv/train-station-api/internal/model"
)

type trainTypeResp struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// CreateTrainType handles POST /v1/train-types.
func (h *CatalogHandler) CreateTrainType(c echo.Context) error {
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	tt := &model.TrainType{Name: name}
	if err := h.TrainTypes.Create(c.Request().Context(), tt); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create train type"})
	}
	return c.JSON(http.StatusCreated, trainTypeResp{ID: tt.ID, Name: tt.Name})
}

// ListTrainTypes handles GET /v1/train-types.
func (h *CatalogHandler) ListTrainTypes(c echo.Context) error {
	items, err := h.TrainTypes.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	out := make([]trainTypeResp, 0, len(items))
	for _, it := range items {
		out = append(out, trainTypeResp{ID: it.ID, Name: it.Name})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
