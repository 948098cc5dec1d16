package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusRefunded  Status = "refunded"
)

// Payment is a restaurant-to-supplier payment. The total amount charged is
// the supplier amount plus the platform fee; the fee percentage is resolved
// from the pair's loyalty tier at creation time.
type Payment struct {
	ID             snowflake.ID  `json:"id" gorm:"primaryKey"`
	RestaurantID   snowflake.ID  `json:"restaurant_id" gorm:"not null;index"`
	SupplierID     *snowflake.ID `json:"supplier_id,omitempty" gorm:"index"`
	Reference      string        `json:"reference" gorm:"type:varchar(64);not null;uniqueIndex"`
	Amount         float64       `json:"amount" gorm:"not null"`
	SupplierAmount float64       `json:"supplier_amount" gorm:"not null"`
	PlatformFee    float64       `json:"platform_fee" gorm:"not null"`
	PlatformFeePct float64       `json:"platform_fee_pct" gorm:"not null;default:15"`
	DiscountPct    float64       `json:"discount_pct" gorm:"not null;default:0"`
	Currency       string        `json:"currency" gorm:"type:varchar(10);not null;default:aed"`
	Status         Status        `json:"status" gorm:"type:varchar(30);not null;default:pending;index"`
	Description    string        `json:"description" gorm:"type:text"`
	CreatedAt      time.Time     `json:"created_at" gorm:"not null;index"`
	UpdatedAt      time.Time     `json:"updated_at" gorm:"not null"`
}

func (Payment) TableName() string { return "payments" }
