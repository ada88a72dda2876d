package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/olekhv/train-station-api/internal/model"
)

// CrewRepo provides persistence for crew members.
type CrewRepo struct {
	db *sql.DB
}

// NewCrewRepo constructs a CrewRepo with the given DB handle.
func NewCrewRepo(db *sql.DB) *CrewRepo {
	return &CrewRepo{db: db}
}

// CrewListItem is the list view of a crew member including the
// derived full name.
type CrewListItem struct {
	ID        uint64 `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
}

// Create inserts a new crew member and assigns the generated ID back
// to the struct.
func (r *CrewRepo) Create(ctx context.Context, c *model.Crew) error {
	const q = `INSERT INTO crew (first_name, last_name) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.FirstName, c.LastName)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// CreateBulkTx inserts several crew members within the caller's
// transaction, assigning generated IDs back to each struct.  Used by
// journey creation to bulk-create inline crew.  Passing an empty
// slice has no effect and returns nil.
func (r *CrewRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, members []*model.Crew) error {
	if len(members) == 0 {
		return nil
	}
	const q = `INSERT INTO crew (first_name, last_name) VALUES (?, ?)`
	for _, m := range members {
		res, err := tx.ExecContext(ctx, q, m.FirstName, m.LastName)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		m.ID = uint64(id)
	}
	return nil
}

// List returns all crew members ordered by first then last name.
func (r *CrewRepo) List(ctx context.Context) ([]CrewListItem, error) {
	const q = `SELECT id, first_name, last_name FROM crew ORDER BY first_name, last_name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CrewListItem
	for rows.Next() {
		var it CrewListItem
		if err := rows.Scan(&it.ID, &it.FirstName, &it.LastName); err != nil {
			return nil, err
		}
		it.FullName = it.FirstName + " " + it.LastName
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID retrieves a crew member by ID.  It returns ErrCrewNotFound
// when no row is found.
func (r *CrewRepo) GetByID(ctx context.Context, id uint64) (*model.Crew, error) {
	const q = `SELECT id, first_name, last_name, image_url FROM crew WHERE id = ?`
	var c model.Crew
	err := r.db.QueryRowContext(ctx, q, id).Scan(&c.ID, &c.FirstName, &c.LastName, &c.ImageURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCrewNotFound
		}
		return nil, err
	}
	return &c, nil
}

// CountByIDs returns how many of the given crew IDs exist.  Used to
// validate crew references before attaching them to a journey.
func (r *CrewRepo) CountByIDs(ctx context.Context, tx *sql.Tx, ids []uint64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := `SELECT COUNT(*) FROM crew WHERE id IN (`
	args := make([]interface{}, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			q += ","
		}
		q += "?"
		args = append(args, id)
	}
	q += ")"
	var n int
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// SetImageURL stores the blob store URL of an uploaded crew image.
// Returns ErrCrewNotFound when the crew member does not exist.
func (r *CrewRepo) SetImageURL(ctx context.Context, id uint64, url string) error {
	const q = `UPDATE crew SET image_url = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, url, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCrewNotFound
	}
	return nil
}
