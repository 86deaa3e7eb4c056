package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	jobmetrics "github.com/sohaibsultan43/pos-software/internal/jobs"
	"github.com/sohaibsultan43/pos-software/internal/products"
)

// LowStockCacheKey holds the cached ids of products below the stock threshold.
const LowStockCacheKey = "pos:low_stock"

// LowStockScanJob scans products below the stock threshold and caches the
// result in Redis.
type LowStockScanJob struct {
	Products *products.Service
	Redis    *redis.Client
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
}

// NewLowStockScanJob wires dependencies for the scan handler.
func NewLowStockScanJob(productSvc *products.Service, rdb *redis.Client, logger *slog.Logger, metrics *jobmetrics.Metrics) *LowStockScanJob {
	return &LowStockScanJob{Products: productSvc, Redis: rdb, Logger: logger, Metrics: metrics}
}

// Handle executes the scan.
func (j *LowStockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Products == nil {
		return errors.New("low stock scan: handler not configured")
	}
	var payload LowStockScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Threshold <= 0 {
		payload.Threshold = 5
	}

	tracker := j.Metrics.Track(TaskLowStockScan)
	rows, err := j.Products.LowStock(ctx, payload.Threshold)
	if err != nil {
		j.Logger.Error("low stock scan failed", slog.Any("error", err))
		return tracker.End(err)
	}

	ids := make([]string, 0, len(rows))
	for _, p := range rows {
		ids = append(ids, strconv.FormatInt(p.ID, 10))
		j.Logger.Warn("product below stock threshold",
			slog.Int64("product_id", p.ID),
			slog.String("name", p.Name),
			slog.Int("stock", p.Stock),
			slog.Int("threshold", payload.Threshold),
		)
	}
	j.Metrics.SetLowStockCount(len(ids))

	if j.Redis != nil {
		data, err := json.Marshal(ids)
		if err != nil {
			return tracker.End(err)
		}
		if err := j.Redis.Set(ctx, LowStockCacheKey, data, 48*time.Hour).Err(); err != nil {
			j.Logger.Error("cache low stock ids", slog.Any("error", err))
			return tracker.End(err)
		}
	}
	return tracker.End(nil)
}
