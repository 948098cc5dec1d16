package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrQuotaDisabled           = errors.New("quota_disabled")
	ErrOrderQuotaExceeded      = errors.New("order_quota_exceeded")
	ErrClockEventQuotaExceeded = errors.New("clock_event_quota_exceeded")
)

// Service caps POS ingestion per restaurant per UTC day.
type Service interface {
	CanIngestOrder(ctx context.Context, restaurantID snowflake.ID) error
	CanRecordClockEvent(ctx context.Context, restaurantID snowflake.ID) error

	// Usage returns today's counters for a restaurant.
	Usage(ctx context.Context, restaurantID snowflake.ID) (map[string]int64, error)
}
