package sales

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	products   map[int64]ProductRow
	sales      []Sale
	nextID     int64
	insertFail error
}

type memoryTx struct {
	repo     *memoryRepo
	products map[int64]ProductRow
	sales    []Sale
	nextID   int64
}

func newMemoryRepo(products ...ProductRow) *memoryRepo {
	repo := &memoryRepo{products: make(map[int64]ProductRow)}
	for _, p := range products {
		repo.products[p.ID] = p
	}
	return repo
}

// WithTx snapshots state and applies it back only when fn succeeds, which
// mirrors the commit/rollback behavior of the real repository.
func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx := &memoryTx{repo: r, products: make(map[int64]ProductRow, len(r.products)), nextID: r.nextID}
	for id, p := range r.products {
		tx.products[id] = p
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	r.products = tx.products
	r.sales = append(r.sales, tx.sales...)
	r.nextID = tx.nextID
	return nil
}

func (r *memoryRepo) List(ctx context.Context) ([]Sale, error) {
	out := make([]Sale, len(r.sales))
	copy(out, r.sales)
	return out, nil
}

func (tx *memoryTx) GetProductForUpdate(ctx context.Context, productID int64) (ProductRow, error) {
	product, ok := tx.products[productID]
	if !ok {
		return ProductRow{}, ErrProductNotFound
	}
	return product, nil
}

func (tx *memoryTx) InsertSale(ctx context.Context, sale Sale) (int64, error) {
	if tx.repo.insertFail != nil {
		return 0, tx.repo.insertFail
	}
	tx.nextID++
	sale.ID = tx.nextID
	tx.sales = append(tx.sales, sale)
	return sale.ID, nil
}

func (tx *memoryTx) SetProductStock(ctx context.Context, productID int64, stock int) error {
	product := tx.products[productID]
	product.Stock = stock
	tx.products[productID] = product
	return nil
}

func TestRecordSaleDecrementsStock(t *testing.T) {
	repo := newMemoryRepo(ProductRow{ID: 1, Name: "Widget", Price: 9.99, Stock: 10})
	svc := NewService(repo)
	ctx := context.Background()

	sale, err := svc.RecordSale(ctx, RecordSaleInput{CustomerID: 5, ProductID: 1, Quantity: 3})
	require.NoError(t, err)
	require.Equal(t, "Widget", sale.Product)
	require.Equal(t, 3, sale.Quantity)
	require.InDelta(t, 29.97, sale.TotalPrice, 0.0001)

	require.Equal(t, 7, repo.products[1].Stock)
	require.Len(t, repo.sales, 1)
}

func TestRecordSaleRejectsInsufficientStock(t *testing.T) {
	repo := newMemoryRepo(ProductRow{ID: 1, Name: "Widget", Price: 9.99, Stock: 10})
	svc := NewService(repo)

	_, err := svc.RecordSale(context.Background(), RecordSaleInput{CustomerID: 5, ProductID: 1, Quantity: 15})
	require.ErrorIs(t, err, ErrInsufficientStock)

	// Rejection writes nothing.
	require.Equal(t, 10, repo.products[1].Stock)
	require.Empty(t, repo.sales)
}

func TestRecordSaleRejectsUnknownProduct(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	_, err := svc.RecordSale(context.Background(), RecordSaleInput{CustomerID: 5, ProductID: 42, Quantity: 1})
	require.ErrorIs(t, err, ErrProductNotFound)
	require.Empty(t, repo.sales)
}

func TestRecordSaleValidatesInput(t *testing.T) {
	repo := newMemoryRepo(ProductRow{ID: 1, Name: "Widget", Price: 9.99, Stock: 10})
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.RecordSale(ctx, RecordSaleInput{ProductID: 1, Quantity: 1})
	require.ErrorIs(t, err, ErrCustomerRequired)

	_, err = svc.RecordSale(ctx, RecordSaleInput{CustomerID: 5, ProductID: 1, Quantity: 0})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	require.Empty(t, repo.sales)
}

func TestRecordSaleRollsBackOnInsertFailure(t *testing.T) {
	repo := newMemoryRepo(ProductRow{ID: 1, Name: "Widget", Price: 9.99, Stock: 10})
	repo.insertFail = errors.New("boom")
	svc := NewService(repo)

	_, err := svc.RecordSale(context.Background(), RecordSaleInput{CustomerID: 5, ProductID: 1, Quantity: 3})
	require.Error(t, err)

	// Stock stays untouched because the transaction never commits.
	require.Equal(t, 10, repo.products[1].Stock)
	require.Empty(t, repo.sales)
}

func TestRecordSaleExactStock(t *testing.T) {
	repo := newMemoryRepo(ProductRow{ID: 1, Name: "Widget", Price: 2.50, Stock: 4})
	svc := NewService(repo)

	sale, err := svc.RecordSale(context.Background(), RecordSaleInput{CustomerID: 1, ProductID: 1, Quantity: 4})
	require.NoError(t, err)
	require.InDelta(t, 10.0, sale.TotalPrice, 0.0001)
	require.Equal(t, 0, repo.products[1].Stock)
}
