package logger

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ForecastRunLog is one row of the regeneration audit trail.
type ForecastRunLog struct {
	ID              uint   `gorm:"primaryKey"`
	RunID           string `gorm:"size:32;index"`
	AccountID       string `gorm:"size:64;index"`
	Trigger         string `gorm:"size:32"`
	PayoutFrequency string `gorm:"size:16"`
	RangeFrom       time.Time
	RangeTo         time.Time
	RecordsWritten  int
	SkippedEvents   int
	Warnings        string
	Result          string `gorm:"size:32"`
	Error           string
	StartedAt       time.Time
	FinishedAt      time.Time
}

func (ForecastRunLog) TableName() string {
	return "forecast_run_logs"
}

type RunLogger interface {
	LogRun(ctx context.Context, entry ForecastRunLog) error
}

type PGRunLogger struct {
	db *gorm.DB
}

func NewPGRunLogger(db *gorm.DB) *PGRunLogger {
	return &PGRunLogger{db: db}
}

func (l *PGRunLogger) LogRun(ctx context.Context, entry ForecastRunLog) error {
	return l.db.WithContext(ctx).Create(&entry).Error
}

// ListRuns returns the latest runs of an account, newest first.
func (l *PGRunLogger) ListRuns(ctx context.Context, accountID string, limit int) ([]ForecastRunLog, error) {
	var runs []ForecastRunLog
	err := l.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("started_at DESC").
		Limit(limit).
		Find(&runs).Error
	return runs, err
}
