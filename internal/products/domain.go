package products

import (
	"errors"
	"time"
)

var (
	// ErrNameRequired rejects submissions without a name.
	ErrNameRequired = errors.New("products: name required")
	// ErrInvalidPrice rejects negative prices.
	ErrInvalidPrice = errors.New("products: price must be zero or positive")
	// ErrInvalidStock rejects negative stock.
	ErrInvalidStock = errors.New("products: stock must be zero or positive")
)

// Product is an item offered for sale.
type Product struct {
	ID          int64
	Name        string
	Description *string
	Price       float64
	Stock       int
	CreatedAt   time.Time
}

// ProductInput carries form values for create and update.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
}
