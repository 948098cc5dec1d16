package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var ErrUnknownEventType = errors.New("staff: unknown clock event type")

const (
	EventClockIn  = "clock_in"
	EventClockOut = "clock_out"
)

type ClockEvent struct {
	ID           snowflake.ID `json:"id" gorm:"primaryKey"`
	RestaurantID snowflake.ID `json:"restaurant_id" gorm:"not null;index"`
	StaffName    string       `json:"staff_name" gorm:"type:varchar(255);not null"`
	Role         string       `json:"role" gorm:"type:varchar(50)"`
	EventType    string       `json:"event_type" gorm:"type:varchar(20);not null"`
	Timestamp    time.Time    `json:"timestamp" gorm:"not null;index"`
	POSReference string       `json:"pos_reference,omitempty" gorm:"type:varchar(100)"`
	CreatedAt    time.Time    `json:"created_at" gorm:"not null"`
}

func (ClockEvent) TableName() string { return "staff_clock_events" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, event *ClockEvent) error
	ListByRestaurant(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID, limit int) ([]*ClockEvent, error)
}

type ClockRequest struct {
	RestaurantID snowflake.ID `json:"restaurant_id"`
	StaffName    string       `json:"staff_name" binding:"required"`
	Role         string       `json:"role"`
	Timestamp    *time.Time   `json:"timestamp"`
	POSReference string       `json:"pos_reference"`
}

type Service interface {
	RecordClock(ctx context.Context, eventType string, req ClockRequest) (*ClockEvent, error)
	Schedule(ctx context.Context, restaurantID snowflake.ID, limit int) ([]*ClockEvent, error)
}
