package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/forkastlabs/forkast/internal/payment/domain"
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

func (r *repository) Insert(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return r.handle(db).WithContext(ctx).Create(payment).Error
}

func (r *repository) Update(ctx context.Context, db *gorm.DB, payment *domain.Payment) error {
	return r.handle(db).WithContext(ctx).Save(payment).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Payment, error) {
	var payment domain.Payment
	if err := r.handle(db).WithContext(ctx).First(&payment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *repository) ListByRestaurant(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID, cursor *domain.ListCursor, limit int) ([]*domain.Payment, error) {
	var payments []*domain.Payment
	q := r.handle(db).WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC, id DESC")
	if cursor != nil {
		q = q.Where("created_at < ? OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&payments).Error
	return payments, err
}
