package ledger

import (
	"context"
	"strings"
	"time"
)

// Service implements ledger business rules.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService constructs ledger service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// ListByCustomer returns the entries for one customer, newest first.
func (s *Service) ListByCustomer(ctx context.Context, customerID int64) ([]Entry, error) {
	if customerID == 0 {
		return nil, ErrCustomerRequired
	}
	return s.repo.ListByCustomer(ctx, customerID)
}

// Record validates and appends a new ledger entry.
func (s *Service) Record(ctx context.Context, input EntryInput) (Entry, error) {
	if input.CustomerID == 0 {
		return Entry{}, ErrCustomerRequired
	}
	if !input.Type.Valid() {
		return Entry{}, ErrInvalidType
	}
	if input.Amount < 0 {
		return Entry{}, ErrInvalidAmount
	}

	entry := Entry{
		CustomerID: input.CustomerID,
		Type:       input.Type,
		Amount:     input.Amount,
		EntryDate:  s.now(),
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		entry.Description = &desc
	}

	id, err := s.repo.Create(ctx, entry)
	if err != nil {
		return Entry{}, err
	}
	entry.ID = id
	return entry, nil
}
