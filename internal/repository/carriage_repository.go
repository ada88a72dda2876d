package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/olekhv/train-station-api/internal/model"
)

// CarriageRepo provides persistence for carriages.  The
// (train_id, number) pair is protected by a unique key; Create
// pre-checks it and also maps the key violation raised on a lost
// race to ErrDuplicateCarriageNumber.
type CarriageRepo struct {
	db *sql.DB
}

// NewCarriageRepo constructs a CarriageRepo with the given DB handle.
func NewCarriageRepo(db *sql.DB) *CarriageRepo {
	return &CarriageRepo{db: db}
}

// Create inserts a new carriage.  It fails with
// ErrDuplicateCarriageNumber when a carriage with the same number
// already exists for the same train, whether detected by the
// pre-check or by the unique key at insert time.
func (r *CarriageRepo) Create(ctx context.Context, c *model.Carriage) error {
	const check = `SELECT EXISTS(SELECT 1 FROM carriages WHERE train_id = ? AND number = ?)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, check, c.TrainID, c.Number).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrDuplicateCarriageNumber
	}
	const q = `INSERT INTO carriages (train_id, carriage_type, number, seats) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.TrainID, c.CarriageType, c.Number, c.Seats)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrDuplicateCarriageNumber
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// List returns all carriages with their owning train's name, ordered
// by carriage number.  Seat prices are derived from the carriage type.
func (r *CarriageRepo) List(ctx context.Context) ([]CarriageListItem, error) {
	const q = `SELECT c.id, c.number, c.carriage_type, c.seats, t.name
	           FROM carriages c
	           JOIN trains t ON t.id = c.train_id
	           ORDER BY c.number`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CarriageListItem
	for rows.Next() {
		var it CarriageListItem
		if err := rows.Scan(&it.ID, &it.Number, &it.CarriageType, &it.Seats, &it.TrainName); err != nil {
			return nil, err
		}
		it.SeatPrice = model.CarriageType(it.CarriageType).SeatPrice()
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID retrieves a carriage by its ID.  It returns
// ErrCarriageNotFound when no row is found.
func (r *CarriageRepo) GetByID(ctx context.Context, id uint64) (*model.Carriage, error) {
	const q = `SELECT id, train_id, carriage_type, number, seats FROM carriages WHERE id = ?`
	var c model.Carriage
	err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.TrainID, &c.CarriageType, &c.Number, &c.Seats)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCarriageNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetByIDTx is like GetByID but runs inside the caller's transaction
// so that booking sees a consistent snapshot of the carriage.
func (r *CarriageRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Carriage, error) {
	const q = `SELECT id, train_id, carriage_type, number, seats FROM carriages WHERE id = ?`
	var c model.Carriage
	err := tx.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.TrainID, &c.CarriageType, &c.Number, &c.Seats)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCarriageNotFound
		}
		return nil, err
	}
	return &c, nil
}
