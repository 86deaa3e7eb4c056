package sales

import (
	"context"
	"time"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	List(ctx context.Context) ([]Sale, error)
}

// TxRepository exposes the writes available inside a sale transaction.
type TxRepository interface {
	GetProductForUpdate(ctx context.Context, productID int64) (ProductRow, error)
	InsertSale(ctx context.Context, sale Sale) (int64, error)
	SetProductStock(ctx context.Context, productID int64, stock int) error
}

// Service coordinates the sale workflow.
type Service struct {
	repo RepositoryPort
	now  func() time.Time
}

// NewService builds Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns recorded sales, most recent first.
func (s *Service) List(ctx context.Context) ([]Sale, error) {
	return s.repo.List(ctx)
}

// RecordSale validates the request and performs the sale as one transaction:
// the product row is locked, stock is checked against the requested
// quantity, the sale row is inserted and the stock decremented. A failure at
// any point rolls the whole thing back, so a recorded sale always matches
// the stock movement, and concurrent sales against the same product
// serialize on the row lock.
func (s *Service) RecordSale(ctx context.Context, input RecordSaleInput) (Sale, error) {
	if input.CustomerID == 0 {
		return Sale{}, ErrCustomerRequired
	}
	if input.Quantity < 1 {
		return Sale{}, ErrInvalidQuantity
	}

	var recorded Sale
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		product, err := tx.GetProductForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if input.Quantity > product.Stock {
			return ErrInsufficientStock
		}

		sale := Sale{
			CustomerID: input.CustomerID,
			Product:    product.Name,
			Quantity:   input.Quantity,
			TotalPrice: product.Price * float64(input.Quantity),
			SaleDate:   s.now(),
		}
		id, err := tx.InsertSale(ctx, sale)
		if err != nil {
			return err
		}
		sale.ID = id

		if err := tx.SetProductStock(ctx, product.ID, product.Stock-input.Quantity); err != nil {
			return err
		}
		recorded = sale
		return nil
	})
	if err != nil {
		return Sale{}, err
	}
	return recorded, nil
}
