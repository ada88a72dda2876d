package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/olekhv/train-station-api/internal/model"
)

// ErrInvalidTimeWindow is returned when a journey's departure is not
// strictly before its arrival.
var ErrInvalidTimeWindow = errors.New("arrival time must be greater than departure time")

// JourneyRepo provides persistence for journeys and their crew
// assignments.
type JourneyRepo struct {
	db *sql.DB
}

// NewJourneyRepo constructs a JourneyRepo with the given DB handle.
func NewJourneyRepo(db *sql.DB) *JourneyRepo {
	return &JourneyRepo{db: db}
}

// DB exposes the underlying sql.DB for callers that need to begin
// transactions spanning multiple repositories.
func (r *JourneyRepo) DB() *sql.DB {
	return r.db
}

// JourneyFilter narrows List results.  DepartureDay and ArrivalDay
// match on the day-of-month of the respective timestamp, so
// "2021-12-31" matches any month's 31st.  TrainID of zero is ignored.
type JourneyFilter struct {
	DepartureDay int
	ArrivalDay   int
	TrainID      uint64
}

// JourneyListItem is the list view of a journey.  TicketsAvailable is
// the train's current capacity minus tickets already issued for the
// journey, computed in a single query so the value is consistent even
// while bookings are being committed.
type JourneyListItem struct {
	ID               uint64    `json:"id"`
	RouteName        string    `json:"route_name"`
	TrainName        string    `json:"train_name"`
	TrainNumber      string    `json:"train_number"`
	TrainType        string    `json:"train_type"`
	TicketsAvailable int64     `json:"tickets_available"`
	DepartureTime    time.Time `json:"departure_time"`
	ArrivalTime      time.Time `json:"arrival_time"`
	Crew             []string  `json:"crew"`
}

// TakenSeat identifies one booked seat on a journey.
type TakenSeat struct {
	Seat           uint32 `json:"seat"`
	CarriageID     uint64 `json:"carriage"`
	CarriageNumber uint32 `json:"carriage_number"`
}

// JourneyDetail is the detail view of a journey: the full route with
// stations, the train with its carriages, assigned crew and the list
// of already taken seats.
type JourneyDetail struct {
	ID            uint64         `json:"id"`
	Route         RouteListItem  `json:"route"`
	Train         TrainDetail    `json:"train"`
	Crew          []CrewListItem `json:"crew"`
	DepartureTime time.Time      `json:"departure_time"`
	ArrivalTime   time.Time      `json:"arrival_time"`
	ImageURL      *string        `json:"image_url,omitempty"`
	TakenSeats    []TakenSeat    `json:"taken_seats"`
}

// CreateTx inserts a journey and its crew assignments within the
// caller's transaction.  Departure must be strictly before arrival.
// Crew IDs must all reference existing members; the caller validates
// them beforehand via CrewRepo.CountByIDs.
func (r *JourneyRepo) CreateTx(ctx context.Context, tx *sql.Tx, j *model.Journey, crewIDs []uint64) error {
	if !j.DepartureTime.Before(j.ArrivalTime) {
		return ErrInvalidTimeWindow
	}
	const q = `INSERT INTO journeys (route_id, train_id, departure_time, arrival_time) VALUES (?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, j.RouteID, j.TrainID, j.DepartureTime, j.ArrivalTime)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	j.ID = uint64(id)
	return r.attachCrewTx(ctx, tx, j.ID, crewIDs)
}

func (r *JourneyRepo) attachCrewTx(ctx context.Context, tx *sql.Tx, journeyID uint64, crewIDs []uint64) error {
	if len(crewIDs) == 0 {
		return nil
	}
	q := `INSERT INTO journey_crew (journey_id, crew_id) VALUES `
	args := make([]interface{}, 0, len(crewIDs)*2)
	for i, cid := range crewIDs {
		if i > 0 {
			q += ","
		}
		q += "(?, ?)"
		args = append(args, journeyID, cid)
	}
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

// List returns journeys matching the filter, ordered by departure
// time descending.  Crew names are loaded in a second query per
// journey set; tickets_available is computed inline.
func (r *JourneyRepo) List(ctx context.Context, f JourneyFilter) ([]JourneyListItem, error) {
	q := `SELECT j.id, r.name, t.name, t.number, tt.name, j.departure_time, j.arrival_time,
	             (SELECT COALESCE(SUM(c.seats), 0) FROM carriages c WHERE c.train_id = j.train_id)
	             - (SELECT COUNT(*) FROM tickets tk WHERE tk.journey_id = j.id)
	      FROM journeys j
	      JOIN routes r ON r.id = j.route_id
	      JOIN trains t ON t.id = j.train_id
	      JOIN train_types tt ON tt.id = t.train_type_id
	      WHERE 1=1`
	args := make([]interface{}, 0, 3)
	if f.DepartureDay > 0 {
		q += ` AND DAY(j.departure_time) = ?`
		args = append(args, f.DepartureDay)
	}
	if f.ArrivalDay > 0 {
		q += ` AND DAY(j.arrival_time) = ?`
		args = append(args, f.ArrivalDay)
	}
	if f.TrainID > 0 {
		q += ` AND j.train_id = ?`
		args = append(args, f.TrainID)
	}
	q += ` ORDER BY j.departure_time DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []JourneyListItem
	ids := make([]uint64, 0)
	for rows.Next() {
		var it JourneyListItem
		if err := rows.Scan(&it.ID, &it.RouteName, &it.TrainName, &it.TrainNumber, &it.TrainType,
			&it.DepartureTime, &it.ArrivalTime, &it.TicketsAvailable); err != nil {
			return nil, err
		}
		it.Crew = []string{}
		out = append(out, it)
		ids = append(ids, it.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	crewByJourney, err := r.crewNamesByJourney(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if names, ok := crewByJourney[out[i].ID]; ok {
			out[i].Crew = names
		}
	}
	return out, nil
}

// crewNamesByJourney loads crew full names for a set of journeys in
// one query.
func (r *JourneyRepo) crewNamesByJourney(ctx context.Context, journeyIDs []uint64) (map[uint64][]string, error) {
	q := `SELECT jc.journey_id, CONCAT(c.first_name, ' ', c.last_name)
	      FROM journey_crew jc
	      JOIN crew c ON c.id = jc.crew_id
	      WHERE jc.journey_id IN (`
	args := make([]interface{}, 0, len(journeyIDs))
	for i, id := range journeyIDs {
		if i > 0 {
			q += ","
		}
		q += "?"
		args = append(args, id)
	}
	q += `) ORDER BY c.first_name, c.last_name`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	res := make(map[uint64][]string)
	for rows.Next() {
		var jid uint64
		var name string
		if err := rows.Scan(&jid, &name); err != nil {
			return nil, err
		}
		res[jid] = append(res[jid], name)
	}
	return res, rows.Err()
}

// GetByID retrieves a journey row by its ID.  It returns
// ErrJourneyNotFound when no row is found.
func (r *JourneyRepo) GetByID(ctx context.Context, id uint64) (*model.Journey, error) {
	const q = `SELECT id, route_id, train_id, departure_time, arrival_time, image_url FROM journeys WHERE id = ?`
	var j model.Journey
	err := r.db.QueryRowContext(ctx, q, id).Scan(&j.ID, &j.RouteID, &j.TrainID, &j.DepartureTime, &j.ArrivalTime, &j.ImageURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJourneyNotFound
		}
		return nil, err
	}
	return &j, nil
}

// GetByIDTx is like GetByID but runs inside the caller's transaction
// so that booking sees a consistent snapshot of the journey.
func (r *JourneyRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Journey, error) {
	const q = `SELECT id, route_id, train_id, departure_time, arrival_time, image_url FROM journeys WHERE id = ?`
	var j model.Journey
	err := tx.QueryRowContext(ctx, q, id).Scan(&j.ID, &j.RouteID, &j.TrainID, &j.DepartureTime, &j.ArrivalTime, &j.ImageURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJourneyNotFound
		}
		return nil, err
	}
	return &j, nil
}

// GetDetail returns the detail view of a journey: route with station
// names, train with carriages, assigned crew and taken seats ordered
// by carriage then seat.
func (r *JourneyRepo) GetDetail(ctx context.Context, id uint64, trains *TrainRepo) (*JourneyDetail, error) {
	const q = `SELECT j.id, j.departure_time, j.arrival_time, j.image_url, j.train_id,
	                  r.id, r.name, r.distance, sf.name, st.name
	           FROM journeys j
	           JOIN routes r ON r.id = j.route_id
	           JOIN stations sf ON sf.id = r.from_station_id
	           JOIN stations st ON st.id = r.to_station_id
	           WHERE j.id = ?`
	var det JourneyDetail
	var trainID uint64
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&det.ID, &det.DepartureTime, &det.ArrivalTime, &det.ImageURL, &trainID,
		&det.Route.ID, &det.Route.Name, &det.Route.Distance, &det.Route.FromStation, &det.Route.ToStation,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJourneyNotFound
		}
		return nil, err
	}
	train, err := trains.GetDetail(ctx, trainID)
	if err != nil {
		return nil, err
	}
	det.Train = *train

	det.Crew = []CrewListItem{}
	const crewQ = `SELECT c.id, c.first_name, c.last_name
	               FROM journey_crew jc
	               JOIN crew c ON c.id = jc.crew_id
	               WHERE jc.journey_id = ?
	               ORDER BY c.first_name, c.last_name`
	crows, err := r.db.QueryContext(ctx, crewQ, id)
	if err != nil {
		return nil, err
	}
	defer crows.Close()
	for crows.Next() {
		var it CrewListItem
		if err := crows.Scan(&it.ID, &it.FirstName, &it.LastName); err != nil {
			return nil, err
		}
		it.FullName = it.FirstName + " " + it.LastName
		det.Crew = append(det.Crew, it)
	}
	if err := crows.Err(); err != nil {
		return nil, err
	}

	det.TakenSeats = []TakenSeat{}
	const seatQ = `SELECT tk.seat, tk.carriage_id, c.number
	               FROM tickets tk
	               JOIN carriages c ON c.id = tk.carriage_id
	               WHERE tk.journey_id = ?
	               ORDER BY c.number, tk.seat`
	srows, err := r.db.QueryContext(ctx, seatQ, id)
	if err != nil {
		return nil, err
	}
	defer srows.Close()
	for srows.Next() {
		var ts TakenSeat
		if err := srows.Scan(&ts.Seat, &ts.CarriageID, &ts.CarriageNumber); err != nil {
			return nil, err
		}
		det.TakenSeats = append(det.TakenSeats, ts)
	}
	if err := srows.Err(); err != nil {
		return nil, err
	}
	return &det, nil
}

// Update rewrites a journey's route, train and time window.  The time
// ordering invariant is re-validated.  Returns ErrJourneyNotFound
// when the row does not exist.
func (r *JourneyRepo) Update(ctx context.Context, j *model.Journey) error {
	if !j.DepartureTime.Before(j.ArrivalTime) {
		return ErrInvalidTimeWindow
	}
	const q = `UPDATE journeys SET route_id = ?, train_id = ?, departure_time = ?, arrival_time = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, j.RouteID, j.TrainID, j.DepartureTime, j.ArrivalTime, j.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrJourneyNotFound
	}
	return nil
}

// Delete removes a journey.  Tickets and crew assignments cascade via
// foreign keys in the same transaction as the delete.  Returns
// ErrJourneyNotFound when the row does not exist.
func (r *JourneyRepo) Delete(ctx context.Context, id uint64) error {
	const q = `DELETE FROM journeys WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrJourneyNotFound
	}
	return nil
}

// SetImageURL stores the blob store URL of an uploaded journey image.
// Returns ErrJourneyNotFound when the journey does not exist.
func (r *JourneyRepo) SetImageURL(ctx context.Context, id uint64, url string) error {
	const q = `UPDATE journeys SET image_url = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, url, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrJourneyNotFound
	}
	return nil
}
