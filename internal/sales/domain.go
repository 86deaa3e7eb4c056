package sales

import (
	"errors"
	"time"
)

var (
	// ErrCustomerRequired rejects sales without a selected customer.
	ErrCustomerRequired = errors.New("sales: customer required")
	// ErrProductNotFound indicates the selected product does not exist.
	ErrProductNotFound = errors.New("sales: product not found")
	// ErrInvalidQuantity rejects non-positive quantities.
	ErrInvalidQuantity = errors.New("sales: quantity must be at least 1")
	// ErrInsufficientStock indicates the requested quantity exceeds stock.
	ErrInsufficientStock = errors.New("sales: insufficient stock")
)

// Sale is a recorded sale transaction. Sales are immutable once recorded:
// no update or delete path exists anywhere in the application.
type Sale struct {
	ID           int64
	CustomerID   int64
	CustomerName string
	// Product keeps the name as sold, not a live reference, so later
	// product renames do not rewrite history.
	Product    string
	Quantity   int
	TotalPrice float64
	SaleDate   time.Time
}

// RecordSaleInput carries the sale form values.
type RecordSaleInput struct {
	CustomerID int64
	ProductID  int64
	Quantity   int
}

// ProductRow is the product projection locked during the sale transaction.
type ProductRow struct {
	ID    int64
	Name  string
	Price float64
	Stock int
}
