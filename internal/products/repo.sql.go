package products

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sohaibsultan43/pos-software/internal/shared"
)

// Repository defines persistence operations for products.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, input ProductInput) (int64, error)
	Update(ctx context.Context, id int64, input ProductInput) error
	ListBelowStock(ctx context.Context, threshold int) ([]Product, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func scanProduct(row pgx.Row, p *Product) error {
	var (
		description pgtype.Text
		price       pgtype.Numeric
		createdAt   pgtype.Timestamptz
	)
	if err := row.Scan(&p.ID, &p.Name, &description, &price, &p.Stock, &createdAt); err != nil {
		return err
	}
	if description.Valid {
		p.Description = &description.String
	}
	if price.Valid {
		f, err := price.Float64Value()
		if err != nil {
			return err
		}
		p.Price = f.Float64
	}
	p.CreatedAt = createdAt.Time
	return nil
}

// List returns all products, newest first.
func (r *PGRepository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description, price, stock, created_at FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Get fetches a single product by id.
func (r *PGRepository) Get(ctx context.Context, id int64) (*Product, error) {
	var p Product
	row := r.pool.QueryRow(ctx, `SELECT id, name, description, price, stock, created_at FROM products WHERE id = $1`, id)
	if err := scanProduct(row, &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create inserts a new product row.
func (r *PGRepository) Create(ctx context.Context, input ProductInput) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO products (name, description, price, stock, created_at) VALUES ($1, NULLIF($2, ''), $3, $4, NOW()) RETURNING id`,
		input.Name, input.Description, input.Price, input.Stock).Scan(&id)
	return id, err
}

// Update rewrites an existing product row keyed by id.
func (r *PGRepository) Update(ctx context.Context, id int64, input ProductInput) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET name = $2, description = NULLIF($3, ''), price = $4, stock = $5 WHERE id = $1`,
		id, input.Name, input.Description, input.Price, input.Stock)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListBelowStock returns products whose stock sits below the threshold.
func (r *PGRepository) ListBelowStock(ctx context.Context, threshold int) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description, price, stock, created_at FROM products WHERE stock < $1 ORDER BY stock`, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

var _ Repository = (*PGRepository)(nil)
