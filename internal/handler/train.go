package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/olekhv/train-station-api/internal/model"
	"github.com/olekhv/train-station-api/internal/repository"
)

// CreateTrain handles POST /v1/trains.
func (h *CatalogHandler) CreateTrain(c echo.Context) error {
	var body struct {
		Name      string `json:"name"`
		Number    string `json:"number"`
		TrainType uint64 `json:"train_type"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	number := strings.TrimSpace(body.Number)
	if name == "" || number == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and number are required"})
	}
	if body.TrainType == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "train_type is required"})
	}
	ctx := c.Request().Context()
	if _, err := h.TrainTypes.GetByID(ctx, body.TrainType); err != nil {
		if err == repository.ErrTrainTypeNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "train type does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	t := &model.Train{Name: name, Number: number, TrainTypeID: body.TrainType}
	if err := h.Trains.Create(ctx, t); err != nil {
		if err == repository.ErrDuplicateTrainNumber {
			return c.JSON(http.StatusConflict, echo.Map{"error": "train number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create train"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":         t.ID,
		"name":       t.Name,
		"number":     t.Number,
		"train_type": t.TrainTypeID,
	})
}

// ListTrains handles GET /v1/trains with optional name, number and
// train_type query filters (case-insensitive contains).
func (h *CatalogHandler) ListTrains(c echo.Context) error {
	f := repository.TrainFilter{
		Name:          strings.TrimSpace(c.QueryParam("name")),
		Number:        strings.TrimSpace(c.QueryParam("number")),
		TrainTypeName: strings.TrimSpace(c.QueryParam("train_type")),
	}
	items, err := h.Trains.List(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetTrain handles GET /v1/trains/:id and returns the train with its
// carriages and computed capacity.
func (h *CatalogHandler) GetTrain(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	det, err := h.Trains.GetDetail(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrTrainNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "train not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, det)
}

// UploadTrainImage handles POST /v1/trains/:id/upload-image.
func (h *CatalogHandler) UploadTrainImage(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Trains.GetByID(ctx, id); err != nil {
		if err == repository.ErrTrainNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "train not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	url, err := uploadImage(c, h.Images, "trains", fmt.Sprintf("train-%d", id))
	if err != nil {
		return err
	}
	if err := h.Trains.SetImageURL(ctx, id, url); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save image url"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "image_url": url})
}
