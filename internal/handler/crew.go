package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/olekhv/train-station-api/internal/model"
	"github.com/olekhv/train-station-api/internal/repository"
)

// CreateCrew handles POST /v1/crew.
func (h *CatalogHandler) CreateCrew(c echo.Context) error {
	var body struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	first := strings.TrimSpace(body.FirstName)
	last := strings.TrimSpace(body.LastName)
	if first == "" || last == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "first_name and last_name are required"})
	}
	member := &model.Crew{FirstName: first, LastName: last}
	if err := h.Crew.Create(c.Request().Context(), member); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create crew member"})
	}
	return c.JSON(http.StatusCreated, repository.CrewListItem{
		ID:        member.ID,
		FirstName: member.FirstName,
		LastName:  member.LastName,
		FullName:  member.FullName(),
	})
}

// ListCrew handles GET /v1/crew.
func (h *CatalogHandler) ListCrew(c echo.Context) error {
	items, err := h.Crew.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// UploadCrewImage handles POST /v1/crew/:id/upload-image.
func (h *CatalogHandler) UploadCrewImage(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Crew.GetByID(ctx, id); err != nil {
		if err == repository.ErrCrewNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "crew member not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	url, err := uploadImage(c, h.Images, "crew", fmt.Sprintf("crew-%d", id))
	if err != nil {
		return err
	}
	if err := h.Crew.SetImageURL(ctx, id, url); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save image url"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "image_url": url})
}
