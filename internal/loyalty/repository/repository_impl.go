package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/forkastlabs/forkast/internal/loyalty/domain"
	paymentdomain "github.com/forkastlabs/forkast/internal/payment/domain"
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

func (r *repository) InsertAccount(ctx context.Context, db *gorm.DB, account *domain.Account) error {
	return r.handle(db).WithContext(ctx).Create(account).Error
}

func (r *repository) UpdateAccount(ctx context.Context, db *gorm.DB, account *domain.Account) error {
	return r.handle(db).WithContext(ctx).Save(account).Error
}

func (r *repository) FindAccount(ctx context.Context, db *gorm.DB, restaurantID, supplierID snowflake.ID) (*domain.Account, error) {
	var account domain.Account
	err := r.handle(db).WithContext(ctx).
		Where("restaurant_id = ? AND supplier_id = ?", restaurantID, supplierID).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *repository) ListAccountsByRestaurant(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID) ([]*domain.Account, error) {
	var accounts []*domain.Account
	err := r.handle(db).WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Find(&accounts).Error
	return accounts, err
}

func (r *repository) ListAllAccounts(ctx context.Context, db *gorm.DB) ([]*domain.Account, error) {
	var accounts []*domain.Account
	err := r.handle(db).WithContext(ctx).Find(&accounts).Error
	return accounts, err
}

func (r *repository) InsertTransaction(ctx context.Context, db *gorm.DB, tx *domain.Transaction) error {
	return r.handle(db).WithContext(ctx).Create(tx).Error
}

func (r *repository) UpdateTransaction(ctx context.Context, db *gorm.DB, tx *domain.Transaction) error {
	return r.handle(db).WithContext(ctx).Save(tx).Error
}

func (r *repository) ListTransactions(ctx context.Context, db *gorm.DB, accountID snowflake.ID, limit int) ([]*domain.Transaction, error) {
	var txs []*domain.Transaction
	q := r.handle(db).WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&txs).Error
	return txs, err
}

func (r *repository) SumDiscountApplied(ctx context.Context, db *gorm.DB, accountID snowflake.ID) (float64, error) {
	var total float64
	err := r.handle(db).WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("account_id = ?", accountID).
		Select("COALESCE(SUM(discount_applied), 0)").
		Scan(&total).Error
	return total, err
}

func (r *repository) CountSucceededPayments(ctx context.Context, db *gorm.DB, restaurantID, supplierID snowflake.ID, since time.Time) (int64, error) {
	var count int64
	err := r.handle(db).WithContext(ctx).
		Model(&paymentdomain.Payment{}).
		Where("restaurant_id = ? AND supplier_id = ? AND status = ? AND created_at >= ?",
			restaurantID, supplierID, paymentdomain.StatusSucceeded, since).
		Count(&count).Error
	return count, err
}
