package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/sohaibsultan43/pos-software/internal/auth"
	jobmetrics "github.com/sohaibsultan43/pos-software/internal/jobs"
)

// SessionPurgeJob deletes expired session rows from the registry table.
type SessionPurgeJob struct {
	Sessions auth.Repository
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
	clock    func() time.Time
}

// NewSessionPurgeJob wires dependencies for the purge handler.
func NewSessionPurgeJob(sessions auth.Repository, logger *slog.Logger, metrics *jobmetrics.Metrics) *SessionPurgeJob {
	return &SessionPurgeJob{
		Sessions: sessions,
		Logger:   logger,
		Metrics:  metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle executes the purge.
func (j *SessionPurgeJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Sessions == nil {
		return errors.New("session purge: handler not configured")
	}
	var payload SessionPurgePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.GraceMinutes < 0 {
		payload.GraceMinutes = 0
	}

	tracker := j.Metrics.Track(TaskSessionPurge)
	cutoff := j.clock().Add(-time.Duration(payload.GraceMinutes) * time.Minute)
	deleted, err := j.Sessions.DeleteExpiredSessions(ctx, cutoff)
	if err != nil {
		j.Logger.Error("session purge failed", slog.Any("error", err))
		return tracker.End(err)
	}
	if deleted > 0 {
		j.Logger.Info("session purge completed", slog.Int64("deleted", deleted))
	}
	return tracker.End(nil)
}
