package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/olekhv/train-station-api/internal/model"
)

// TrainRepo provides persistence for trains.  Train capacity is never
// stored; list and detail queries derive it from the carriages table.
type TrainRepo struct {
	db *sql.DB
}

// NewTrainRepo constructs a TrainRepo with the given DB handle.
func NewTrainRepo(db *sql.DB) *TrainRepo {
	return &TrainRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *TrainRepo) DB() *sql.DB {
	return r.db
}

// TrainFilter narrows List results.  Name and Number match with
// case-insensitive contains semantics; TrainTypeName matches against
// the joined type name the same way.  Empty fields are ignored.
type TrainFilter struct {
	Name          string
	Number        string
	TrainTypeName string
}

// TrainListItem is the list view of a train.  CarriageCount and
// Capacity are computed from the carriages owned by the train at
// query time.
type TrainListItem struct {
	ID            uint64 `json:"id"`
	Name          string `json:"name"`
	Number        string `json:"number"`
	TrainTypeName string `json:"train_type"`
	CarriageCount uint32 `json:"carriage_count"`
	Capacity      uint32 `json:"capacity"`
}

// CarriageListItem is the list view of a carriage, including the
// derived seat price and the owning train's name.
type CarriageListItem struct {
	ID           uint64 `json:"id"`
	Number       uint32 `json:"number"`
	CarriageType string `json:"carriage_type"`
	Seats        uint32 `json:"seats"`
	SeatPrice    uint32 `json:"seat_price"`
	TrainName    string `json:"train"`
}

// TrainDetail is the detail view of a train with its carriages.
type TrainDetail struct {
	ID            uint64             `json:"id"`
	Name          string             `json:"name"`
	Number        string             `json:"number"`
	TrainTypeName string             `json:"train_type"`
	ImageURL      *string            `json:"image_url,omitempty"`
	Carriages     []CarriageListItem `json:"carriages"`
}

// Create inserts a new train.  A unique key violation on the number
// column maps to ErrDuplicateTrainNumber.
func (r *TrainRepo) Create(ctx context.Context, t *model.Train) error {
	const q = `INSERT INTO trains (name, number, train_type_id) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Number, t.TrainTypeID)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicateTrainNumber
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// List returns trains matching the filter, ordered by number.  Each
// item carries the carriage count and the derived capacity so that
// adding or removing a carriage is reflected immediately.
func (r *TrainRepo) List(ctx context.Context, f TrainFilter) ([]TrainListItem, error) {
	q := `SELECT t.id, t.name, t.number, tt.name,
	             COUNT(c.id), COALESCE(SUM(c.seats), 0)
	      FROM trains t
	      JOIN train_types tt ON tt.id = t.train_type_id
	      LEFT JOIN carriages c ON c.train_id = t.id
	      WHERE 1=1`
	args := make([]interface{}, 0, 3)
	if f.Name != "" {
		q += ` AND LOWER(t.name) LIKE ?`
		args = append(args, containsPattern(f.Name))
	}
	if f.Number != "" {
		q += ` AND LOWER(t.number) LIKE ?`
		args = append(args, containsPattern(f.Number))
	}
	if f.TrainTypeName != "" {
		q += ` AND LOWER(tt.name) LIKE ?`
		args = append(args, containsPattern(f.TrainTypeName))
	}
	q += ` GROUP BY t.id, t.name, t.number, tt.name ORDER BY t.number`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TrainListItem
	for rows.Next() {
		var it TrainListItem
		if err := rows.Scan(&it.ID, &it.Name, &it.Number, &it.TrainTypeName, &it.CarriageCount, &it.Capacity); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID retrieves a train row by its ID.  It returns
// ErrTrainNotFound when no row is found.
func (r *TrainRepo) GetByID(ctx context.Context, id uint64) (*model.Train, error) {
	const q = `SELECT id, name, number, train_type_id, image_url FROM trains WHERE id = ?`
	var t model.Train
	err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name, &t.Number, &t.TrainTypeID, &t.ImageURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrainNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetDetail returns the detail view of a train, embedding its
// carriages ordered by number.
func (r *TrainRepo) GetDetail(ctx context.Context, id uint64) (*TrainDetail, error) {
	const q = `SELECT t.id, t.name, t.number, tt.name, t.image_url
	           FROM trains t
	           JOIN train_types tt ON tt.id = t.train_type_id
	           WHERE t.id = ?`
	var det TrainDetail
	err := r.db.QueryRowContext(ctx, q, id).Scan(&det.ID, &det.Name, &det.Number, &det.TrainTypeName, &det.ImageURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrainNotFound
		}
		return nil, err
	}
	det.Carriages = []CarriageListItem{}
	const cq = `SELECT c.id, c.number, c.carriage_type, c.seats, t.name
	            FROM carriages c
	            JOIN trains t ON t.id = c.train_id
	            WHERE c.train_id = ?
	            ORDER BY c.number`
	rows, err := r.db.QueryContext(ctx, cq, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var it CarriageListItem
		if err := rows.Scan(&it.ID, &it.Number, &it.CarriageType, &it.Seats, &it.TrainName); err != nil {
			return nil, err
		}
		it.SeatPrice = model.CarriageType(it.CarriageType).SeatPrice()
		det.Carriages = append(det.Carriages, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &det, nil
}

// Capacity returns the sum of seats over all carriages currently
// owned by the train.
func (r *TrainRepo) Capacity(ctx context.Context, id uint64) (uint32, error) {
	const q = `SELECT COALESCE(SUM(seats), 0) FROM carriages WHERE train_id = ?`
	var cap uint32
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&cap); err != nil {
		return 0, err
	}
	return cap, nil
}

// SetImageURL stores the blob store URL of an uploaded train image.
// Returns ErrTrainNotFound when the train does not exist.
func (r *TrainRepo) SetImageURL(ctx context.Context, id uint64, url string) error {
	const q = `UPDATE trains SET image_url = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, url, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrTrainNotFound
	}
	return nil
}

// containsPattern builds a lower-cased LIKE pattern implementing
// case-insensitive contains semantics.
func containsPattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}
