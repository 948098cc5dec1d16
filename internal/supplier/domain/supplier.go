package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("supplier: not found")

type Supplier struct {
	ID               snowflake.ID   `json:"id" gorm:"primaryKey"`
	Name             string         `json:"name" gorm:"type:varchar(255);not null"`
	Categories       datatypes.JSON `json:"categories" gorm:"type:json"`
	City             string         `json:"city" gorm:"type:varchar(100)"`
	Country          string         `json:"country" gorm:"type:varchar(50);default:UAE"`
	LeadTimeDays     float64        `json:"lead_time_days" gorm:"default:1"`
	MinOrderValue    float64        `json:"min_order_value" gorm:"default:0"`
	ReliabilityScore float64        `json:"reliability_score" gorm:"default:0.85"`
	ContactEmail     string         `json:"contact_email" gorm:"type:varchar(255)"`
	ContactPhone     string         `json:"contact_phone" gorm:"type:varchar(50)"`
	IsActive         bool           `json:"is_active" gorm:"default:true"`
	CreatedAt        time.Time      `json:"created_at" gorm:"not null"`
	UpdatedAt        time.Time      `json:"updated_at" gorm:"not null"`
}

func (Supplier) TableName() string { return "suppliers" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, supplier *Supplier) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Supplier, error)
	List(ctx context.Context, db *gorm.DB) ([]*Supplier, error)
}
