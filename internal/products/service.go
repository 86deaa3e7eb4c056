package products

import (
	"context"
	"strings"
)

// Service handles product business logic.
type Service struct {
	repo Repository
}

// NewService builds Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func validateInput(input *ProductInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return ErrNameRequired
	}
	if input.Price < 0 {
		return ErrInvalidPrice
	}
	if input.Stock < 0 {
		return ErrInvalidStock
	}
	return nil
}

// List returns all products, newest first.
func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

// Get fetches one product.
func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	return s.repo.Get(ctx, id)
}

// Create inserts a new product.
func (s *Service) Create(ctx context.Context, input ProductInput) (int64, error) {
	if err := validateInput(&input); err != nil {
		return 0, err
	}
	return s.repo.Create(ctx, input)
}

// Update edits an existing product keyed by id.
func (s *Service) Update(ctx context.Context, id int64, input ProductInput) error {
	if err := validateInput(&input); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, input)
}

// LowStock lists products whose stock fell below the threshold.
func (s *Service) LowStock(ctx context.Context, threshold int) ([]Product, error) {
	return s.repo.ListBelowStock(ctx, threshold)
}
