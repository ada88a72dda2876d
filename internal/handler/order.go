package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/olekhv/train-station-api/internal/booking"
	"github.com/olekhv/train-station-api/internal/queue"
	"github.com/olekhv/train-station-api/internal/repository"
	queue_publisher "github.com/olekhv/train-station-api/internal/service"
)

const (
	defaultOrderPageSize = 5
	maxOrderPageSize     = 100
)

// OrderHandler exposes order placement and the owner-scoped order
// listing.  Placement is delegated to the booking service; this layer
// only translates its errors into HTTP responses and fires the
// order.placed event after a successful commit.
type OrderHandler struct {
	Booking *booking.Service
	Orders  *repository.OrderRepo

	// PublishEvents toggles the best-effort broker notification.
	PublishEvents bool
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(svc *booking.Service, orders *repository.OrderRepo, publishEvents bool) *OrderHandler {
	if svc == nil || orders == nil {
		panic("nil dependency passed to NewOrderHandler")
	}
	return &OrderHandler{Booking: svc, Orders: orders, PublishEvents: publishEvents}
}

// PlaceOrder handles POST /v1/orders.  The body carries the full
// ticket list; the order succeeds or fails as a whole.
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		Tickets []booking.TicketRequest `json:"tickets"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	detail, err := h.Booking.PlaceOrder(c.Request().Context(), userID, body.Tickets)
	if err != nil {
		if errors.Is(err, booking.ErrEmptyOrder) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "tickets must contain at least one entry"})
		}
		var te *booking.TicketError
		if errors.As(err, &te) {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error":        te.Detail,
				"ticket_index": te.Index,
				"field":        te.Field,
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not place order"})
	}

	if h.PublishEvents {
		go publishOrderPlaced(userID, detail)
	}
	return c.JSON(http.StatusCreated, detail)
}

// ListOrders handles GET /v1/orders with page/page_size pagination.
// Only the authenticated user's orders are visible, newest first.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	page := 1
	if s := c.QueryParam("page"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			page = n
		}
	}
	pageSize := defaultOrderPageSize
	if s := c.QueryParam("page_size"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			pageSize = n
		}
	}
	if pageSize > maxOrderPageSize {
		pageSize = maxOrderPageSize
	}

	ctx := c.Request().Context()
	total, err := h.Orders.CountByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	items, err := h.Orders.ListByUser(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count":     total,
		"page":      page,
		"page_size": pageSize,
		"items":     items,
	})
}

// GetOrder handles GET /v1/orders/:id.  Orders belonging to other
// users come back as 404, not 403, so IDs cannot be probed.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	detail, err := h.Orders.GetByIDForUser(c.Request().Context(), id, userID)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, detail)
}

// publishOrderPlaced assembles and publishes the broker event for a
// committed order.  Failures are logged and otherwise ignored.
func publishOrderPlaced(userID uint64, detail *repository.OrderDetail) {
	var total uint32
	seen := make(map[string]struct{})
	journeys := make([]string, 0, 1)
	for _, t := range detail.Tickets {
		total += t.Price
		key := t.JourneyRouteName + " / " + t.JourneyTrainNumber
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			journeys = append(journeys, key)
		}
	}
	ev := queue.OrderPlacedEvent{
		OrderID:     detail.ID,
		UserID:      userID,
		TicketCount: len(detail.Tickets),
		TotalPrice:  total,
		Journeys:    journeys,
		PlacedAt:    detail.CreatedAt.UTC().Format(time.RFC3339),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := queue_publisher.PublishOrderPlaced(ctx, ev); err != nil {
		log.Printf("order event publish failed for order %d: %v", detail.ID, err)
	}
}
