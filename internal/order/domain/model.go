package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/forkastlabs/forkast/internal/forecast"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound = errors.New("order: not found")
	ErrNoItems       = errors.New("order: at least one item is required")
)

const (
	ChannelDineIn   = "dine_in"
	ChannelDelivery = "delivery"
	ChannelTakeaway = "takeaway"
)

type Order struct {
	ID           snowflake.ID `json:"id" gorm:"primaryKey"`
	RestaurantID snowflake.ID `json:"restaurant_id" gorm:"not null;index:idx_orders_restaurant_date"`
	Channel      string       `json:"channel" gorm:"type:varchar(20);not null;default:dine_in"`
	Covers       int          `json:"covers" gorm:"not null;default:1"`
	TotalAmount  float64      `json:"total_amount" gorm:"not null;default:0"`
	TableNumber  string       `json:"table_number,omitempty" gorm:"type:varchar(10)"`
	POSReference string       `json:"pos_reference,omitempty" gorm:"type:varchar(100)"`
	// Waste the POS attributes to this order, usually reported at day close.
	FoodWasteKg float64     `json:"food_waste_kg" gorm:"not null;default:0"`
	Items       []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	OrderDate   time.Time   `json:"order_date" gorm:"not null;index:idx_orders_restaurant_date"`
	CreatedAt   time.Time   `json:"created_at" gorm:"not null"`
}

func (Order) TableName() string { return "orders" }

type OrderItem struct {
	ID         snowflake.ID  `json:"id" gorm:"primaryKey"`
	OrderID    snowflake.ID  `json:"order_id" gorm:"not null;index"`
	MenuItemID *snowflake.ID `json:"menu_item_id,omitempty"`
	ItemName   string        `json:"item_name" gorm:"type:varchar(255);not null"`
	Quantity   int           `json:"quantity" gorm:"not null"`
	UnitPrice  float64       `json:"unit_price" gorm:"not null"`
	TotalPrice float64       `json:"total_price" gorm:"not null"`
}

func (OrderItem) TableName() string { return "order_items" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, order *Order) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Order, error)
	ListByRestaurant(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID, from, to time.Time, limit, offset int) ([]*Order, int64, error)
	ListForRange(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID, from, to time.Time) ([]*Order, error)
}

type ItemRequest struct {
	MenuItemID *snowflake.ID `json:"menu_item_id"`
	ItemName   string        `json:"item_name" binding:"required"`
	Quantity   int           `json:"quantity" binding:"required,gt=0"`
	UnitPrice  float64       `json:"unit_price" binding:"gte=0"`
}

type CreateRequest struct {
	RestaurantID snowflake.ID  `json:"restaurant_id"`
	Channel      string        `json:"channel"`
	Covers       int           `json:"covers"`
	TableNumber  string        `json:"table_number"`
	POSReference string        `json:"pos_reference"`
	FoodWasteKg  float64       `json:"food_waste_kg"`
	OrderDate    *time.Time    `json:"order_date"`
	Items        []ItemRequest `json:"items" binding:"required,dive"`
}

type ListRequest struct {
	RestaurantID snowflake.ID
	From, To     time.Time
	Limit        int
	Offset       int
}

// Service ingests POS orders and aggregates them into the daily history the
// forecast engine trains on.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Order, error)
	Get(ctx context.Context, id snowflake.ID) (*Order, error)
	List(ctx context.Context, req ListRequest) ([]*Order, int64, error)
	DailySummaries(ctx context.Context, restaurantID snowflake.ID, days int) ([]forecast.DailyOrderSummary, error)
}
