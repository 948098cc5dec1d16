package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrItemNotFound = errors.New("menu: item not found")

// MenuItem is unique per (restaurant, name); SyncMenu upserts on that pair.
type MenuItem struct {
	ID          snowflake.ID   `json:"id" gorm:"primaryKey"`
	RestaurantID snowflake.ID  `json:"restaurant_id" gorm:"not null;uniqueIndex:uq_menu_restaurant_name"`
	Name        string         `json:"name" gorm:"type:varchar(255);not null;uniqueIndex:uq_menu_restaurant_name"`
	Category    string         `json:"category" gorm:"type:varchar(50);default:main"`
	Price       float64        `json:"price" gorm:"not null;default:0"`
	Cost        float64        `json:"cost" gorm:"not null;default:0"`
	FoodCostPct float64        `json:"food_cost_pct" gorm:"not null;default:0"`
	Ingredients datatypes.JSON `json:"ingredients" gorm:"type:json"`
	PrepTimeMin int            `json:"prep_time_min" gorm:"default:10"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"not null"`
}

func (MenuItem) TableName() string { return "menu_items" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, item *MenuItem) error
	Update(ctx context.Context, db *gorm.DB, item *MenuItem) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*MenuItem, error)
	FindByName(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID, name string) (*MenuItem, error)
	ListByRestaurant(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID) ([]*MenuItem, error)
}

// SyncItem is one POS-side menu entry pushed through the sync endpoint.
type SyncItem struct {
	Name        string         `json:"name" binding:"required"`
	Category    string         `json:"category"`
	Price       float64        `json:"price"`
	Cost        float64        `json:"cost"`
	Ingredients datatypes.JSON `json:"ingredients"`
	PrepTimeMin int            `json:"prep_time_min"`
	IsActive    *bool          `json:"is_active"`
}

// UpdateRequest patches a single item; nil fields are untouched.
type UpdateRequest struct {
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Cost        *float64 `json:"cost"`
	PrepTimeMin *int     `json:"prep_time_min"`
	IsActive    *bool    `json:"is_active"`
}

type Service interface {
	SyncMenu(ctx context.Context, restaurantID snowflake.ID, items []SyncItem) ([]*MenuItem, error)
	Menu(ctx context.Context, restaurantID snowflake.ID) ([]*MenuItem, error)
	UpdateItem(ctx context.Context, id snowflake.ID, req UpdateRequest) (*MenuItem, error)
}
