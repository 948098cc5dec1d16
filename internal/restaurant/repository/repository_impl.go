package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/forkastlabs/forkast/internal/restaurant/domain"
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

func (r *repository) Insert(ctx context.Context, db *gorm.DB, restaurant *domain.Restaurant) error {
	return r.handle(db).WithContext(ctx).Create(restaurant).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Restaurant, error) {
	var restaurant domain.Restaurant
	if err := r.handle(db).WithContext(ctx).First(&restaurant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &restaurant, nil
}

func (r *repository) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Restaurant, error) {
	var restaurant domain.Restaurant
	if err := r.handle(db).WithContext(ctx).Where("code = ?", code).First(&restaurant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &restaurant, nil
}

func (r *repository) List(ctx context.Context, db *gorm.DB) ([]*domain.Restaurant, error) {
	var restaurants []*domain.Restaurant
	err := r.handle(db).WithContext(ctx).Order("name ASC").Find(&restaurants).Error
	return restaurants, err
}
