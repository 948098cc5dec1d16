package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/forkastlabs/forkast/internal/staff/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) handle(db *gorm.DB) *gorm.DB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *repository) Insert(ctx context.Context, db *gorm.DB, event *domain.ClockEvent) error {
	return r.handle(db).WithContext(ctx).Create(event).Error
}

func (r *repository) ListByRestaurant(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID, limit int) ([]*domain.ClockEvent, error) {
	var events []*domain.ClockEvent
	q := r.handle(db).WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("timestamp DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&events).Error
	return events, err
}
