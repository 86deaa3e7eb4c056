package customers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sohaibsultan43/pos-software/internal/shared"
)

// Repository defines persistence operations for customers.
type Repository interface {
	List(ctx context.Context) ([]Customer, error)
	ListRefs(ctx context.Context) ([]Ref, error)
	Get(ctx context.Context, id int64) (*Customer, error)
	Create(ctx context.Context, input CustomerInput) (int64, error)
	Update(ctx context.Context, id int64, input CustomerInput) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// List returns all customers, newest first.
func (r *PGRepository) List(ctx context.Context) ([]Customer, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, contact, created_at FROM customers ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		var (
			c         Customer
			contact   pgtype.Text
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&c.ID, &c.Name, &contact, &createdAt); err != nil {
			return nil, err
		}
		if contact.Valid {
			c.Contact = &contact.String
		}
		c.CreatedAt = createdAt.Time
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// ListRefs returns id/name pairs ordered by name for pickers.
func (r *PGRepository) ListRefs(ctx context.Context) ([]Ref, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM customers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []Ref
	for rows.Next() {
		var ref Ref
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// Get fetches a single customer by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Customer, error) {
	var (
		c         Customer
		contact   pgtype.Text
		createdAt pgtype.Timestamptz
	)
	err := r.pool.QueryRow(ctx, `SELECT id, name, contact, created_at FROM customers WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &contact, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if contact.Valid {
		c.Contact = &contact.String
	}
	c.CreatedAt = createdAt.Time
	return &c, nil
}

// Create inserts a new customer row.
func (r *PGRepository) Create(ctx context.Context, input CustomerInput) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO customers (name, contact, created_at) VALUES ($1, NULLIF($2, ''), NOW()) RETURNING id`,
		input.Name, input.Contact).Scan(&id)
	return id, err
}

// Update rewrites an existing customer row keyed by id.
func (r *PGRepository) Update(ctx context.Context, id int64, input CustomerInput) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE customers SET name = $2, contact = NULLIF($3, '') WHERE id = $1`,
		id, input.Name, input.Contact)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ Repository = (*PGRepository)(nil)
