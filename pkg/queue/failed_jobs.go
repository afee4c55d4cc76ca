package queue

import (
	"context"
	"time"

	"github.com/shashiranjanraj/electrostore/pkg/logger"
	"github.com/shashiranjanraj/electrostore/pkg/metrics"
)

// FailedJob is a job that exhausted its attempts.
type FailedJob struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Job      string    `gorm:"size:255;not null;index" json:"job"`
	Payload  string    `gorm:"type:text;not null" json:"payload"`
	Error    string    `gorm:"type:text" json:"error"`
	Attempts int       `gorm:"not null;default:0" json:"attempts"`
	FailedAt time.Time `gorm:"not null" json:"failed_at"`
}

func (FailedJob) TableName() string { return "failed_jobs" }

func (m *Manager) fail(ctx context.Context, env envelope, cause error, attempts int) {
	rec := FailedJob{
		Job:      env.Name,
		Payload:  string(env.Payload),
		Error:    cause.Error(),
		Attempts: attempts,
		FailedAt: time.Now().UTC(),
	}
	metrics.JobsProcessed.WithLabelValues(env.Name, "failed").Inc()
	logger.WithCtx(ctx).Error("queue: job failed permanently", "job", env.Name, "attempts", attempts, "error", cause)

	m.mu.Lock()
	m.failed = append(m.failed, rec)
	db := m.db
	m.mu.Unlock()

	if db == nil {
		return
	}
	if err := db.WithContext(context.WithoutCancel(ctx)).Create(&rec).Error; err != nil {
		logger.Error("queue: persist failed job", "job", env.Name, "error", err)
	}
}

// Failed returns a snapshot of the jobs that failed in this process.
func (m *Manager) Failed() []FailedJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]FailedJob(nil), m.failed...)
}
