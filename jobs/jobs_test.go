package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/sohaibsultan43/pos-software/internal/auth"
	jobmetrics "github.com/sohaibsultan43/pos-software/internal/jobs"
	"github.com/sohaibsultan43/pos-software/internal/products"
)

type stubSessionRepo struct {
	deleted   int64
	gotBefore time.Time
}

func (s *stubSessionRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	return nil, nil
}

func (s *stubSessionRepo) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	return nil
}

func (s *stubSessionRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return nil
}

func (s *stubSessionRepo) DeleteSession(ctx context.Context, id string) error {
	return nil
}

func (s *stubSessionRepo) DeleteExpiredSessions(ctx context.Context, before time.Time) (int64, error) {
	s.gotBefore = before
	return s.deleted, nil
}

type stubProductRepo struct {
	low []products.Product
}

func (s *stubProductRepo) List(ctx context.Context) ([]products.Product, error) { return nil, nil }

func (s *stubProductRepo) Get(ctx context.Context, id int64) (*products.Product, error) {
	return nil, nil
}

func (s *stubProductRepo) Create(ctx context.Context, input products.ProductInput) (int64, error) {
	return 0, nil
}

func (s *stubProductRepo) Update(ctx context.Context, id int64, input products.ProductInput) error {
	return nil
}

func (s *stubProductRepo) ListBelowStock(ctx context.Context, threshold int) ([]products.Product, error) {
	return s.low, nil
}

func TestSessionPurgeRespectsGracePeriod(t *testing.T) {
	repo := &stubSessionRepo{deleted: 3}
	job := NewSessionPurgeJob(repo, slog.Default(), jobmetrics.NewMetrics(prometheus.NewRegistry()))
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	job.clock = func() time.Time { return now }

	task, err := NewSessionPurgeTask(SessionPurgePayload{GraceMinutes: 30})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, now.Add(-30*time.Minute), repo.gotBefore)
}

func TestLowStockScanCachesIDs(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	repo := &stubProductRepo{low: []products.Product{
		{ID: 4, Name: "Widget", Stock: 1},
		{ID: 9, Name: "Gadget", Stock: 3},
	}}
	job := NewLowStockScanJob(products.NewService(repo), rdb, slog.Default(), jobmetrics.NewMetrics(prometheus.NewRegistry()))

	task, err := NewLowStockScanTask(LowStockScanPayload{Threshold: 5})
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	raw, err := rdb.Get(context.Background(), LowStockCacheKey).Result()
	require.NoError(t, err)
	var ids []string
	require.NoError(t, json.Unmarshal([]byte(raw), &ids))
	require.Equal(t, []string{"4", "9"}, ids)
}
