package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/olekhv/train-station-api/internal/model"
)

// ErrSameStation is returned when a route's source and destination
// reference the same station.
var ErrSameStation = errors.New("source and destination stations cannot be the same")

// RouteRepo provides persistence for routes.
type RouteRepo struct {
	db *sql.DB
}

// NewRouteRepo constructs a RouteRepo with the given DB handle.
func NewRouteRepo(db *sql.DB) *RouteRepo {
	return &RouteRepo{db: db}
}

// RouteListItem is the list view of a route with station names in
// place of raw IDs.
type RouteListItem struct {
	ID          uint64 `json:"id"`
	Name        string `json:"name"`
	Distance    uint32 `json:"distance"`
	FromStation string `json:"from_station"`
	ToStation   string `json:"to_station"`
}

// Create inserts a new route.  It fails with ErrSameStation when the
// two endpoints are identical and with ErrStationNotFound when either
// referenced station does not exist.
func (r *RouteRepo) Create(ctx context.Context, rt *model.Route) error {
	if rt.FromStationID == rt.ToStationID {
		return ErrSameStation
	}
	const check = `SELECT COUNT(*) FROM stations WHERE id IN (?, ?)`
	var n int
	if err := r.db.QueryRowContext(ctx, check, rt.FromStationID, rt.ToStationID).Scan(&n); err != nil {
		return err
	}
	if n != 2 {
		return ErrStationNotFound
	}
	const q = `INSERT INTO routes (name, distance, from_station_id, to_station_id) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rt.Name, rt.Distance, rt.FromStationID, rt.ToStationID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = uint64(id)
	return nil
}

// List returns all routes with their station names, ordered by route
// name.
func (r *RouteRepo) List(ctx context.Context) ([]RouteListItem, error) {
	const q = `SELECT r.id, r.name, r.distance, sf.name, st.name
	           FROM routes r
	           JOIN stations sf ON sf.id = r.from_station_id
	           JOIN stations st ON st.id = r.to_station_id
	           ORDER BY r.name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RouteListItem
	for rows.Next() {
		var it RouteListItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Distance, &it.FromStation, &it.ToStation); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID retrieves a route by its ID.  It returns ErrRouteNotFound
// when no row is found.
func (r *RouteRepo) GetByID(ctx context.Context, id uint64) (*model.Route, error) {
	const q = `SELECT id, name, distance, from_station_id, to_station_id FROM routes WHERE id = ?`
	var rt model.Route
	err := r.db.QueryRowContext(ctx, q, id).Scan(&rt.ID, &rt.Name, &rt.Distance, &rt.FromStationID, &rt.ToStationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRouteNotFound
		}
		return nil, err
	}
	return &rt, nil
}
