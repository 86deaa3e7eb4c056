package customers

import (
	"context"
	"errors"
	"strings"
)

// ErrNameRequired rejects submissions without a name.
var ErrNameRequired = errors.New("customers: name required")

// Service handles customer business logic.
type Service struct {
	repo Repository
}

// NewService builds Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all customers, newest first.
func (s *Service) List(ctx context.Context) ([]Customer, error) {
	return s.repo.List(ctx)
}

// ListRefs returns customers for pickers, ordered by name.
func (s *Service) ListRefs(ctx context.Context) ([]Ref, error) {
	return s.repo.ListRefs(ctx)
}

// Get fetches one customer.
func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

// Create inserts a new customer.
func (s *Service) Create(ctx context.Context, input CustomerInput) (int64, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return 0, ErrNameRequired
	}
	return s.repo.Create(ctx, input)
}

// Update edits an existing customer keyed by id.
func (s *Service) Update(ctx context.Context, id int64, input CustomerInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return ErrNameRequired
	}
	return s.repo.Update(ctx, id, input)
}
