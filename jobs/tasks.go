package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSessionPurge removes expired session rows from PostgreSQL.
	TaskSessionPurge = "session:purge"
	// TaskLowStockScan flags products whose stock fell below the threshold.
	TaskLowStockScan = "stock:lowscan"
)

// SessionPurgePayload configures a session purge run.
type SessionPurgePayload struct {
	// GraceMinutes keeps sessions that expired less than this many
	// minutes ago, so an in-flight request never loses its row.
	GraceMinutes int `json:"grace_minutes"`
}

// LowStockScanPayload configures a low stock scan run.
type LowStockScanPayload struct {
	Threshold int `json:"threshold"`
}

// NewSessionPurgeTask constructs an Asynq task.
func NewSessionPurgeTask(payload SessionPurgePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSessionPurge, data), nil
}

// NewLowStockScanTask constructs an Asynq task.
func NewLowStockScanTask(payload LowStockScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLowStockScan, data), nil
}
