package logger

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ChangeProcessedEvent is one processed change-feed invocation, kept for
// reconciliation against the documents themselves.
type ChangeProcessedEvent struct {
	ID         uint `gorm:"primaryKey"`
	EventID    string
	Collection string
	TID        string
	PID        string
	Action     string
	Error      string
	Timestamp  time.Time
}

type ChangeEventLogger interface {
	LogChangeProcessed(ctx context.Context, event ChangeProcessedEvent) error
}

type PGChangeEventLogger struct {
	db *gorm.DB
}

func NewPGChangeEventLogger(db *gorm.DB) *PGChangeEventLogger {
	return &PGChangeEventLogger{db: db}
}

func (l *PGChangeEventLogger) LogChangeProcessed(ctx context.Context, event ChangeProcessedEvent) error {
	return l.db.WithContext(ctx).Create(&event).Error
}
