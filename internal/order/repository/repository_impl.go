package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/forkastlabs/forkast/internal/order/domain"
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

// Insert persists the order and its items in one transaction via gorm's
// association handling.
func (r *repository) Insert(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return r.handle(db).WithContext(ctx).Create(order).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Order, error) {
	var order domain.Order
	err := r.handle(db).WithContext(ctx).
		Preload("Items").
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *repository) ListByRestaurant(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID, from, to time.Time, limit, offset int) ([]*domain.Order, int64, error) {
	q := r.handle(db).WithContext(ctx).
		Model(&domain.Order{}).
		Where("restaurant_id = ?", restaurantID)
	if !from.IsZero() {
		q = q.Where("order_date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("order_date <= ?", to)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []*domain.Order
	err := q.Preload("Items").
		Order("order_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	return orders, total, err
}

func (r *repository) ListForRange(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID, from, to time.Time) ([]*domain.Order, error) {
	var orders []*domain.Order
	err := r.handle(db).WithContext(ctx).
		Preload("Items").
		Where("restaurant_id = ? AND order_date >= ? AND order_date <= ?", restaurantID, from, to).
		Order("order_date ASC").
		Find(&orders).Error
	return orders, err
}
