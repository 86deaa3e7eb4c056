package customers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sohaibsultan43/pos-software/internal/shared"
)

type memoryRepo struct {
	rows   []Customer
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{}
}

func (r *memoryRepo) List(ctx context.Context) ([]Customer, error) {
	out := make([]Customer, len(r.rows))
	copy(out, r.rows)
	return out, nil
}

func (r *memoryRepo) ListRefs(ctx context.Context) ([]Ref, error) {
	refs := make([]Ref, 0, len(r.rows))
	for _, c := range r.rows {
		refs = append(refs, Ref{ID: c.ID, Name: c.Name})
	}
	return refs, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (*Customer, error) {
	for i := range r.rows {
		if r.rows[i].ID == id {
			c := r.rows[i]
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryRepo) Create(ctx context.Context, input CustomerInput) (int64, error) {
	r.nextID++
	c := Customer{ID: r.nextID, Name: input.Name}
	if input.Contact != "" {
		contact := input.Contact
		c.Contact = &contact
	}
	r.rows = append(r.rows, c)
	return c.ID, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, input CustomerInput) error {
	for i := range r.rows {
		if r.rows[i].ID == id {
			r.rows[i].Name = input.Name
			if input.Contact != "" {
				contact := input.Contact
				r.rows[i].Contact = &contact
			} else {
				r.rows[i].Contact = nil
			}
			return nil
		}
	}
	return shared.ErrNotFound
}

func TestCreateRequiresName(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), CustomerInput{Name: "   "})
	require.ErrorIs(t, err, ErrNameRequired)
	require.Empty(t, repo.rows)
}

func TestCreateThenUpdateKeepsSingleRow(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	id, err := svc.Create(ctx, CustomerInput{Name: "Budi", Contact: "0812"})
	require.NoError(t, err)
	require.Len(t, repo.rows, 1)

	err = svc.Update(ctx, id, CustomerInput{Name: "Budi Santoso"})
	require.NoError(t, err)
	require.Len(t, repo.rows, 1)

	row, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "Budi Santoso", row.Name)
	require.Nil(t, row.Contact)
}

func TestUpdateUnknownCustomer(t *testing.T) {
	svc := NewService(newMemoryRepo())
	err := svc.Update(context.Background(), 99, CustomerInput{Name: "Siapa"})
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListIsIdempotent(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CustomerInput{Name: "Ani"})
	require.NoError(t, err)

	first, err := svc.List(ctx)
	require.NoError(t, err)
	second, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
