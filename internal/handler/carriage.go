package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/olekhv/train-station-api/internal/model"
	"github.com/olekhv/train-station-api/internal/repository"
)

// CreateCarriage handles POST /v1/carriages.  The carriage number
// must be unique within its train and the type one of the known
// carriage classes; seat prices are derived from the type and never
// accepted from the client.
func (h *CatalogHandler) CreateCarriage(c echo.Context) error {
	var body struct {
		Number       uint32 `json:"number"`
		CarriageType string `json:"carriage_type"`
		Seats        uint32 `json:"seats"`
		Train        uint64 `json:"train"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Number == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "number must be positive"})
	}
	if body.Seats == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats must be positive"})
	}
	ct := model.CarriageType(strings.TrimSpace(body.CarriageType))
	if !ct.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "carriage_type must be one of Economy, Business, Premium"})
	}
	ctx := c.Request().Context()
	if _, err := h.Trains.GetByID(ctx, body.Train); err != nil {
		if err == repository.ErrTrainNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "train does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	car := &model.Carriage{
		Number:       body.Number,
		CarriageType: ct,
		Seats:        body.Seats,
		TrainID:      body.Train,
	}
	if err := h.Carriages.Create(ctx, car); err != nil {
		if err == repository.ErrDuplicateCarriageNumber {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "carriage with this number already exists on this train"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create carriage"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"id":            car.ID,
		"number":        car.Number,
		"carriage_type": car.CarriageType,
		"seats":         car.Seats,
		"seat_price":    car.SeatPrice(),
		"train":         car.TrainID,
	})
}

// GetCarriage handles GET /v1/carriages/:id.
func (h *CatalogHandler) GetCarriage(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	car, err := h.Carriages.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrCarriageNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "carriage not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":            car.ID,
		"number":        car.Number,
		"carriage_type": car.CarriageType,
		"seats":         car.Seats,
		"seat_price":    car.SeatPrice(),
		"train":         car.TrainID,
	})
}

// ListCarriages handles GET /v1/carriages.
func (h *CatalogHandler) ListCarriages(c echo.Context) error {
	items, err := h.Carriages.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
