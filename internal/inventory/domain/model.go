package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type InventoryItem struct {
	ID           snowflake.ID  `json:"id" gorm:"primaryKey"`
	RestaurantID snowflake.ID  `json:"restaurant_id" gorm:"not null;index"`
	SupplierID   *snowflake.ID `json:"supplier_id,omitempty"`
	Name         string        `json:"name" gorm:"type:varchar(255);not null"`
	Category     string        `json:"category" gorm:"type:varchar(50);default:dry_goods"`
	Unit         string        `json:"unit" gorm:"type:varchar(20);default:kg"`
	CurrentStock float64       `json:"current_stock" gorm:"not null;default:0"`
	ParLevel     float64       `json:"par_level" gorm:"not null;default:0"`
	ReorderPoint float64       `json:"reorder_point" gorm:"not null;default:0"`
	UnitCost     float64       `json:"unit_cost" gorm:"not null;default:0"`
	CreatedAt    time.Time     `json:"created_at" gorm:"not null"`
	UpdatedAt    time.Time     `json:"updated_at" gorm:"not null"`
}

func (InventoryItem) TableName() string { return "inventory_items" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, item *InventoryItem) error
	Update(ctx context.Context, db *gorm.DB, item *InventoryItem) error
	FindByID(ctx context.Context, db *gorm.DB, restaurantID, id snowflake.ID) (*InventoryItem, error)
	FindByName(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID, name string) (*InventoryItem, error)
	ListByRestaurant(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID) ([]*InventoryItem, error)
}

// StockUpdate addresses an item by ID or, failing that, by name. Updates that
// match nothing are dropped, matching how POS deltas behave in the field.
type StockUpdate struct {
	ItemID   *snowflake.ID `json:"item_id"`
	Name     string        `json:"name"`
	NewStock float64       `json:"new_stock"`
	Unit     string        `json:"unit"`
}

type Service interface {
	BatchUpdate(ctx context.Context, restaurantID snowflake.ID, updates []StockUpdate) ([]*InventoryItem, error)
	Inventory(ctx context.Context, restaurantID snowflake.ID) ([]*InventoryItem, error)
}
