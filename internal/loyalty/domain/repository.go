package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Repository persists loyalty accounts and their transaction log, and reads
// the payment history the rolling count depends on. Methods take a db handle
// so callers can thread a transaction; nil falls back to the repository's own.
type Repository interface {
	InsertAccount(ctx context.Context, db *gorm.DB, account *Account) error
	UpdateAccount(ctx context.Context, db *gorm.DB, account *Account) error
	FindAccount(ctx context.Context, db *gorm.DB, restaurantID, supplierID snowflake.ID) (*Account, error)
	ListAccountsByRestaurant(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID) ([]*Account, error)
	ListAllAccounts(ctx context.Context, db *gorm.DB) ([]*Account, error)

	InsertTransaction(ctx context.Context, db *gorm.DB, tx *Transaction) error
	UpdateTransaction(ctx context.Context, db *gorm.DB, tx *Transaction) error
	ListTransactions(ctx context.Context, db *gorm.DB, accountID snowflake.ID, limit int) ([]*Transaction, error)
	SumDiscountApplied(ctx context.Context, db *gorm.DB, accountID snowflake.ID) (float64, error)

	CountSucceededPayments(ctx context.Context, db *gorm.DB, restaurantID, supplierID snowflake.ID, since time.Time) (int64, error)
}
