package sales

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sohaibsultan43/pos-software/internal/platform/db"
)

// PGRepository implements RepositoryPort using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// WithTx runs fn inside a database transaction.
func (r *PGRepository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

// List returns sales joined with customer display names, newest first.
func (r *PGRepository) List(ctx context.Context) ([]Sale, error) {
	rows, err := r.pool.Query(ctx, `SELECT s.id, s.customer_id, COALESCE(c.name, ''), s.product, s.quantity, s.total_price, s.sale_date
		FROM sales s
		LEFT JOIN customers c ON c.id = s.customer_id
		ORDER BY s.sale_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		var (
			s        Sale
			total    pgtype.Numeric
			saleDate pgtype.Timestamptz
		)
		if err := rows.Scan(&s.ID, &s.CustomerID, &s.CustomerName, &s.Product, &s.Quantity, &total, &saleDate); err != nil {
			return nil, err
		}
		if total.Valid {
			f, err := total.Float64Value()
			if err != nil {
				return nil, err
			}
			s.TotalPrice = f.Float64
		}
		s.SaleDate = saleDate.Time
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

type txRepository struct {
	tx pgx.Tx
}

// GetProductForUpdate locks the product row for the rest of the transaction.
func (r *txRepository) GetProductForUpdate(ctx context.Context, productID int64) (ProductRow, error) {
	var (
		product ProductRow
		price   pgtype.Numeric
	)
	err := r.tx.QueryRow(ctx, `SELECT id, name, price, stock FROM products WHERE id = $1 FOR UPDATE`, productID).
		Scan(&product.ID, &product.Name, &price, &product.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProductRow{}, ErrProductNotFound
		}
		return ProductRow{}, err
	}
	if price.Valid {
		f, err := price.Float64Value()
		if err != nil {
			return ProductRow{}, err
		}
		product.Price = f.Float64
	}
	return product, nil
}

// InsertSale writes the sale row and returns its id.
func (r *txRepository) InsertSale(ctx context.Context, sale Sale) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx,
		`INSERT INTO sales (customer_id, product, quantity, total_price, sale_date) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		sale.CustomerID, sale.Product, sale.Quantity, sale.TotalPrice, sale.SaleDate.UTC()).Scan(&id)
	return id, err
}

// SetProductStock writes the new stock level for the locked product.
func (r *txRepository) SetProductStock(ctx context.Context, productID int64, stock int) error {
	_, err := r.tx.Exec(ctx, `UPDATE products SET stock = $2 WHERE id = $1`, productID, stock)
	return err
}

var _ RepositoryPort = (*PGRepository)(nil)
var _ TxRepository = (*txRepository)(nil)
