package ledger

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	entries []Entry
	nextID  int64
}

func (r *memoryRepo) ListByCustomer(ctx context.Context, customerID int64) ([]Entry, error) {
	var out []Entry
	for _, e := range r.entries {
		if e.CustomerID == customerID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryDate.After(out[j].EntryDate) })
	return out, nil
}

func (r *memoryRepo) Create(ctx context.Context, entry Entry) (int64, error) {
	r.nextID++
	entry.ID = r.nextID
	r.entries = append(r.entries, entry)
	return entry.ID, nil
}

func TestRecordValidation(t *testing.T) {
	svc := NewService(&memoryRepo{})
	ctx := context.Background()

	_, err := svc.Record(ctx, EntryInput{Type: EntryCredit, Amount: 10})
	require.ErrorIs(t, err, ErrCustomerRequired)

	_, err = svc.Record(ctx, EntryInput{CustomerID: 1, Type: "transfer", Amount: 10})
	require.ErrorIs(t, err, ErrInvalidType)

	_, err = svc.Record(ctx, EntryInput{CustomerID: 1, Type: EntryDebit, Amount: -3})
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRecordTrimsDescription(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo)

	entry, err := svc.Record(context.Background(), EntryInput{
		CustomerID:  1,
		Type:        EntryCredit,
		Amount:      50,
		Description: "  pembayaran awal  ",
	})
	require.NoError(t, err)
	require.NotNil(t, entry.Description)
	require.Equal(t, "pembayaran awal", *entry.Description)

	entry, err = svc.Record(context.Background(), EntryInput{CustomerID: 1, Type: EntryDebit, Amount: 5})
	require.NoError(t, err)
	require.Nil(t, entry.Description)
}

func TestListByCustomerIsolatesCustomers(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Record(ctx, EntryInput{CustomerID: 1, Type: EntryCredit, Amount: 100})
	require.NoError(t, err)
	_, err = svc.Record(ctx, EntryInput{CustomerID: 2, Type: EntryDebit, Amount: 40})
	require.NoError(t, err)

	// Switching customers yields only that customer's entries.
	entries, err := svc.ListByCustomer(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, int64(1), entries[0].CustomerID)

	entries, err = svc.ListByCustomer(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, int64(2), entries[0].CustomerID)

	_, err = svc.ListByCustomer(ctx, 0)
	require.ErrorIs(t, err, ErrCustomerRequired)
}

func TestListByCustomerNewestFirst(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewService(repo)
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}
	ctx := context.Background()

	for _, amount := range []float64{10, 20, 30} {
		_, err := svc.Record(ctx, EntryInput{CustomerID: 1, Type: EntryCredit, Amount: amount})
		require.NoError(t, err)
	}

	entries, err := svc.ListByCustomer(ctx, 1)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, 30.0, entries[0].Amount)
	require.Equal(t, 10.0, entries[2].Amount)
}

func TestBalanceSumsCreditsMinusDebits(t *testing.T) {
	entries := []Entry{
		{Type: EntryCredit, Amount: 100},
		{Type: EntryDebit, Amount: 35.5},
		{Type: EntryCredit, Amount: 10},
	}
	require.InDelta(t, 74.5, Balance(entries), 0.0001)
	require.Zero(t, Balance(nil))
}
