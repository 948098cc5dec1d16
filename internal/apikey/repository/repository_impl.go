package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/forkastlabs/forkast/internal/apikey/domain"
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

func (r *repository) Insert(ctx context.Context, db *gorm.DB, key *domain.APIKey) error {
	return r.handle(db).WithContext(ctx).Create(key).Error
}

func (r *repository) Update(ctx context.Context, db *gorm.DB, key *domain.APIKey) error {
	return r.handle(db).WithContext(ctx).Save(key).Error
}

func (r *repository) FindByLookupHash(ctx context.Context, db *gorm.DB, hash string) (*domain.APIKey, error) {
	var key domain.APIKey
	err := r.handle(db).WithContext(ctx).
		Where("lookup_hash = ?", hash).
		First(&key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &key, nil
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.APIKey, error) {
	var key domain.APIKey
	if err := r.handle(db).WithContext(ctx).First(&key, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &key, nil
}

func (r *repository) ListByRestaurant(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID) ([]*domain.APIKey, error) {
	var keys []*domain.APIKey
	err := r.handle(db).WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("created_at DESC").
		Find(&keys).Error
	return keys, err
}
