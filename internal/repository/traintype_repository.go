package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/olekhv/train-station-api/internal/model"
)

// TrainTypeRepo provides persistence for train types.
type TrainTypeRepo struct {
	db *sql.DB
}

// NewTrainTypeRepo constructs a TrainTypeRepo with the given DB handle.
func NewTrainTypeRepo(db *sql.DB) *TrainTypeRepo {
	return &TrainTypeRepo{db: db}
}

// Create inserts a new train type and assigns the generated ID back
// to the struct.
func (r *TrainTypeRepo) Create(ctx context.Context, t *model.TrainType) error {
	const q = `INSERT INTO train_types (name) VALUES (?)`
	res, err := r.db.ExecContext(ctx, q, t.Name)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// List returns all train types ordered by name.
func (r *TrainTypeRepo) List(ctx context.Context) ([]model.TrainType, error) {
	const q = `SELECT id, name FROM train_types ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.TrainType
	for rows.Next() {
		var t model.TrainType
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID retrieves a train type by its ID.  It returns
// ErrTrainTypeNotFound when no row is found.
func (r *TrainTypeRepo) GetByID(ctx context.Context, id uint64) (*model.TrainType, error) {
	const q = `SELECT id, name FROM train_types WHERE id = ?`
	var t model.TrainType
	err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrainTypeNotFound
		}
		return nil, err
	}
	return &t, nil
}
