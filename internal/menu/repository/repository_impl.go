package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/forkastlabs/forkast/internal/menu/domain"
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

func (r *repository) Insert(ctx context.Context, db *gorm.DB, item *domain.MenuItem) error {
	return r.handle(db).WithContext(ctx).Create(item).Error
}

func (r *repository) Update(ctx context.Context, db *gorm.DB, item *domain.MenuItem) error {
	return r.handle(db).WithContext(ctx).Save(item).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.MenuItem, error) {
	var item domain.MenuItem
	if err := r.handle(db).WithContext(ctx).First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindByName(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID, name string) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := r.handle(db).WithContext(ctx).
		Where("restaurant_id = ? AND name = ?", restaurantID, name).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *repository) ListByRestaurant(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID) ([]*domain.MenuItem, error) {
	var items []*domain.MenuItem
	err := r.handle(db).WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("category ASC, name ASC").
		Find(&items).Error
	return items, err
}
