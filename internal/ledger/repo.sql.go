package ledger

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines persistence operations for ledger entries.
type Repository interface {
	ListByCustomer(ctx context.Context, customerID int64) ([]Entry, error)
	Create(ctx context.Context, entry Entry) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// ListByCustomer returns the customer's entries, newest first.
func (r *PGRepository) ListByCustomer(ctx context.Context, customerID int64) ([]Entry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, customer_id, type, amount, description, entry_date
		FROM ledger_entries
		WHERE customer_id = $1
		ORDER BY entry_date DESC`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e           Entry
			entryType   string
			amount      pgtype.Numeric
			description pgtype.Text
			entryDate   pgtype.Timestamptz
		)
		if err := rows.Scan(&e.ID, &e.CustomerID, &entryType, &amount, &description, &entryDate); err != nil {
			return nil, err
		}
		e.Type = EntryType(entryType)
		if amount.Valid {
			f, err := amount.Float64Value()
			if err != nil {
				return nil, err
			}
			e.Amount = f.Float64
		}
		if description.Valid {
			e.Description = &description.String
		}
		e.EntryDate = entryDate.Time
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Create appends a ledger entry and returns the new id.
func (r *PGRepository) Create(ctx context.Context, entry Entry) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO ledger_entries (customer_id, type, amount, description, entry_date)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		RETURNING id`,
		entry.CustomerID, string(entry.Type), entry.Amount, derefString(entry.Description), entry.EntryDate,
	).Scan(&id)
	return id, err
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
