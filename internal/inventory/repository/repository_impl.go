package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/forkastlabs/forkast/internal/inventory/domain"
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

func (r *repository) Insert(ctx context.Context, db *gorm.DB, item *domain.InventoryItem) error {
	return r.handle(db).WithContext(ctx).Create(item).Error
}

func (r *repository) Update(ctx context.Context, db *gorm.DB, item *domain.InventoryItem) error {
	return r.handle(db).WithContext(ctx).Save(item).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, restaurantID, id snowflake.ID) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := r.handle(db).WithContext(ctx).
		Where("restaurant_id = ? AND id = ?", restaurantID, id).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (r *repository) FindByName(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID, name string) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
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

func (r *repository) ListByRestaurant(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID) ([]*domain.InventoryItem, error) {
	var items []*domain.InventoryItem
	err := r.handle(db).WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("category ASC, name ASC").
		Find(&items).Error
	return items, err
}
