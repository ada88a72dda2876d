package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/olekhv/train-station-api/internal/model"
	"github.com/olekhv/train-station-api/internal/repository"
	"github.com/olekhv/train-station-api/internal/storage"
)

// JourneyHandler groups the repositories behind the journey
// endpoints.  Journey creation spans several tables (journey, crew,
// journey_crew) and runs in one transaction.
type JourneyHandler struct {
	Journeys *repository.JourneyRepo
	Trains   *repository.TrainRepo
	Routes   *repository.RouteRepo
	Crew     *repository.CrewRepo
	Images   storage.Uploader
}

// NewJourneyHandler constructs a JourneyHandler.  Images may be nil.
func NewJourneyHandler(journeys *repository.JourneyRepo, trains *repository.TrainRepo, routes *repository.RouteRepo, crew *repository.CrewRepo, images storage.Uploader) *JourneyHandler {
	if journeys == nil || trains == nil || routes == nil || crew == nil {
		panic("nil repository passed to NewJourneyHandler")
	}
	return &JourneyHandler{Journeys: journeys, Trains: trains, Routes: routes, Crew: crew, Images: images}
}

type newCrewMember struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type journeyReq struct {
	Route         uint64          `json:"route"`
	Train         uint64          `json:"train"`
	DepartureTime time.Time       `json:"departure_time"`
	ArrivalTime   time.Time       `json:"arrival_time"`
	Crew          []uint64        `json:"crew"`     // existing crew IDs
	NewCrew       []newCrewMember `json:"new_crew"` // created inline with the journey
}

func (r *journeyReq) validateBasics(c echo.Context) error {
	if r.Route == 0 || r.Train == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "route and train are required"})
	}
	if r.DepartureTime.IsZero() || r.ArrivalTime.IsZero() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "departure_time and arrival_time are required"})
	}
	if !r.DepartureTime.Before(r.ArrivalTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "arrival time must be greater than departure time"})
	}
	return nil
}

// CreateJourney handles POST /v1/journeys.  Existing crew members are
// referenced by ID; new_crew entries are created inside the same
// transaction and assigned to the journey together with them.
func (h *JourneyHandler) CreateJourney(c echo.Context) error {
	var req journeyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if resp := req.validateBasics(c); resp != nil {
		return resp
	}
	for _, nc := range req.NewCrew {
		if strings.TrimSpace(nc.FirstName) == "" || strings.TrimSpace(nc.LastName) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "new_crew entries need first_name and last_name"})
		}
	}

	ctx := c.Request().Context()
	if _, err := h.Routes.GetByID(ctx, req.Route); err != nil {
		if err == repository.ErrRouteNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "route does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if _, err := h.Trains.GetByID(ctx, req.Train); err != nil {
		if err == repository.ErrTrainNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "train does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	tx, err := h.Journeys.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	crewIDs := append([]uint64(nil), req.Crew...)
	if len(crewIDs) > 0 {
		n, err := h.Crew.CountByIDs(ctx, tx, crewIDs)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		if n != len(uniqueIDs(crewIDs)) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "one or more crew members do not exist"})
		}
	}
	if len(req.NewCrew) > 0 {
		members := make([]*model.Crew, 0, len(req.NewCrew))
		for _, nc := range req.NewCrew {
			members = append(members, &model.Crew{
				FirstName: strings.TrimSpace(nc.FirstName),
				LastName:  strings.TrimSpace(nc.LastName),
			})
		}
		if err := h.Crew.CreateBulkTx(ctx, tx, members); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create crew members"})
		}
		for _, m := range members {
			crewIDs = append(crewIDs, m.ID)
		}
	}

	j := &model.Journey{
		RouteID:       req.Route,
		TrainID:       req.Train,
		DepartureTime: req.DepartureTime.UTC(),
		ArrivalTime:   req.ArrivalTime.UTC(),
	}
	if err := h.Journeys.CreateTx(ctx, tx, j, uniqueIDs(crewIDs)); err != nil {
		if err == repository.ErrInvalidTimeWindow {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "arrival time must be greater than departure time"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create journey"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create journey"})
	}
	committed = true

	return c.JSON(http.StatusCreated, echo.Map{
		"id":             j.ID,
		"route":          j.RouteID,
		"train":          j.TrainID,
		"departure_time": j.DepartureTime,
		"arrival_time":   j.ArrivalTime,
		"crew":           uniqueIDs(crewIDs),
	})
}

// ListJourneys handles GET /v1/journeys.  departure_time and
// arrival_time accept a YYYY-MM-DD date whose day-of-month is matched
// against the stored timestamps; train narrows to one train by id.
func (h *JourneyHandler) ListJourneys(c echo.Context) error {
	var f repository.JourneyFilter
	if s := strings.TrimSpace(c.QueryParam("departure_time")); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "departure_time must be YYYY-MM-DD"})
		}
		f.DepartureDay = t.Day()
	}
	if s := strings.TrimSpace(c.QueryParam("arrival_time")); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "arrival_time must be YYYY-MM-DD"})
		}
		f.ArrivalDay = t.Day()
	}
	trainParam := strings.TrimSpace(c.QueryParam("train"))
	if trainParam == "" {
		trainParam = strings.TrimSpace(c.QueryParam("train_id"))
	}
	if trainParam != "" {
		id, err := strconv.ParseUint(trainParam, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "train must be a positive integer"})
		}
		f.TrainID = id
	}
	items, err := h.Journeys.List(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetJourney handles GET /v1/journeys/:id and returns the detail view
// with taken seats.
func (h *JourneyHandler) GetJourney(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	det, err := h.Journeys.GetDetail(c.Request().Context(), id, h.Trains)
	if err != nil {
		if err == repository.ErrJourneyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "journey not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, det)
}

// UpdateJourney handles PUT /v1/journeys/:id.  Crew assignments are
// not touched here; only route, train and the time window change.
func (h *JourneyHandler) UpdateJourney(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req journeyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if resp := req.validateBasics(c); resp != nil {
		return resp
	}
	ctx := c.Request().Context()
	if _, err := h.Routes.GetByID(ctx, req.Route); err != nil {
		if err == repository.ErrRouteNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "route does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if _, err := h.Trains.GetByID(ctx, req.Train); err != nil {
		if err == repository.ErrTrainNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "train does not exist"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	j := &model.Journey{
		ID:            id,
		RouteID:       req.Route,
		TrainID:       req.Train,
		DepartureTime: req.DepartureTime.UTC(),
		ArrivalTime:   req.ArrivalTime.UTC(),
	}
	if err := h.Journeys.Update(ctx, j); err != nil {
		switch err {
		case repository.ErrJourneyNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "journey not found"})
		case repository.ErrInvalidTimeWindow:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "arrival time must be greater than departure time"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":             j.ID,
		"route":          j.RouteID,
		"train":          j.TrainID,
		"departure_time": j.DepartureTime,
		"arrival_time":   j.ArrivalTime,
	})
}

// DeleteJourney handles DELETE /v1/journeys/:id.  Tickets sold for
// the journey are removed by the database cascade.
func (h *JourneyHandler) DeleteJourney(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Journeys.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrJourneyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "journey not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadJourneyImage handles POST /v1/journeys/:id/upload-image.
func (h *JourneyHandler) UploadJourneyImage(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx := c.Request().Context()
	if _, err := h.Journeys.GetByID(ctx, id); err != nil {
		if err == repository.ErrJourneyNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "journey not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	url, err := uploadImage(c, h.Images, "journeys", fmt.Sprintf("journey-%d", id))
	if err != nil {
		return err
	}
	if err := h.Journeys.SetImageURL(ctx, id, url); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not save image url"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": id, "image_url": url})
}

// uniqueIDs deduplicates while preserving first-seen order.
func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
