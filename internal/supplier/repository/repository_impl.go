package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/forkastlabs/forkast/internal/supplier/domain"
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

func (r *repository) Insert(ctx context.Context, db *gorm.DB, supplier *domain.Supplier) error {
	return r.handle(db).WithContext(ctx).Create(supplier).Error
}

func (r *repository) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Supplier, error) {
	var supplier domain.Supplier
	if err := r.handle(db).WithContext(ctx).First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &supplier, nil
}

func (r *repository) List(ctx context.Context, db *gorm.DB) ([]*domain.Supplier, error) {
	var suppliers []*domain.Supplier
	err := r.handle(db).WithContext(ctx).Order("name ASC").Find(&suppliers).Error
	return suppliers, err
}
