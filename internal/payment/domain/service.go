package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/forkastlabs/forkast/pkg/db/pagination"
	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("payment: not found")
	ErrInvalidAmount    = errors.New("payment: supplier amount must be positive")
	ErrNotPending       = errors.New("payment: status transition requires a pending payment")
	ErrInvalidPageToken = errors.New("payment: invalid page token")
)

// ListCursor is the decoded resume point for a payment listing, pointing at
// the last row of the previous page.
type ListCursor struct {
	CreatedAt time.Time
	ID        snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, payment *Payment) error
	Update(ctx context.Context, db *gorm.DB, payment *Payment) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Payment, error)
	ListByRestaurant(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID, cursor *ListCursor, limit int) ([]*Payment, error)
}

// CreateRequest carries the caller-supplied half of a payment; the fee side
// is computed from the loyalty tier.
type CreateRequest struct {
	RestaurantID   snowflake.ID  `json:"restaurant_id"`
	SupplierID     *snowflake.ID `json:"supplier_id,omitempty"`
	SupplierAmount float64       `json:"supplier_amount"`
	Currency       string        `json:"currency"`
	Description    string        `json:"description"`
}

type ListResponse struct {
	Payments []*Payment          `json:"payments"`
	PageInfo pagination.PageInfo `json:"page_info"`
}

// Service creates payment records with loyalty-derived fees and reports
// completed payments back to the loyalty engine.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Payment, error)
	MarkSucceeded(ctx context.Context, id snowflake.ID) (*Payment, error)
	MarkFailed(ctx context.Context, id snowflake.ID) (*Payment, error)
	Get(ctx context.Context, id snowflake.ID) (*Payment, error)
	List(ctx context.Context, restaurantID snowflake.ID, page pagination.Pagination) (*ListResponse, error)
}
