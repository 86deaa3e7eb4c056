package ledger

import (
	"errors"
	"time"
)

var (
	ErrCustomerRequired = errors.New("ledger: customer is required")
	ErrInvalidType      = errors.New("ledger: entry type must be credit or debit")
	ErrInvalidAmount    = errors.New("ledger: amount must be zero or positive")
)

// EntryType classifies a ledger entry.
type EntryType string

const (
	EntryCredit EntryType = "credit"
	EntryDebit  EntryType = "debit"
)

// Valid reports whether the type is one of the known enum values.
func (t EntryType) Valid() bool {
	return t == EntryCredit || t == EntryDebit
}

// Entry is an append-only credit or debit record against a customer's
// account. Entries are never edited or deleted once written.
type Entry struct {
	ID          int64
	CustomerID  int64
	Type        EntryType
	Amount      float64
	Description *string
	EntryDate   time.Time
}

// EntryInput carries form values for a new ledger entry.
type EntryInput struct {
	CustomerID  int64
	Type        EntryType
	Amount      float64
	Description string
}

// Balance derives the running balance by summation: credits add,
// debits subtract. The balance is never stored.
func Balance(entries []Entry) float64 {
	var total float64
	for _, e := range entries {
		switch e.Type {
		case EntryCredit:
			total += e.Amount
		case EntryDebit:
			total -= e.Amount
		}
	}
	return total
}
