package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// BaseFeePct is the undiscounted platform fee applied to supplier payments.
const BaseFeePct = 15.0

// RollingWindowDays is the trailing window over which qualifying orders count
// toward a tier. The count is recomputed on demand, never incremented.
const RollingWindowDays = 90

// Tier is one loyalty bracket. For every tier,
// EffectiveFee + DiscountPct == BaseFeePct.
type Tier struct {
	Name         string  `json:"name"`
	MinOrders    int     `json:"min_orders"`
	DiscountPct  float64 `json:"discount_pct"`
	EffectiveFee float64 `json:"effective_fee"`
}

// Tiers is ordered ascending by MinOrders and shared process-wide. Never
// mutated at runtime.
var Tiers = []Tier{
	{Name: "standard", MinOrders: 0, DiscountPct: 0.0, EffectiveFee: 15.0},
	{Name: "bronze", MinOrders: 25, DiscountPct: 2.0, EffectiveFee: 13.0},
	{Name: "silver", MinOrders: 50, DiscountPct: 3.0, EffectiveFee: 12.0},
	{Name: "gold", MinOrders: 100, DiscountPct: 5.0, EffectiveFee: 10.0},
	{Name: "platinum", MinOrders: 200, DiscountPct: 7.0, EffectiveFee: 8.0},
}

// TierForOrders resolves the highest tier whose threshold the count meets.
func TierForOrders(orderCount int) Tier {
	result := Tiers[0]
	for _, tier := range Tiers {
		if orderCount >= tier.MinOrders {
			result = tier
		}
	}
	return result
}

// TierIndex returns the ordinal position of a tier name, or 0 for unknown
// names so a corrupt row degrades to the lowest tier instead of panicking.
func TierIndex(name string) int {
	for i, tier := range Tiers {
		if tier.Name == name {
			return i
		}
	}
	return 0
}

// NextTier returns the tier above the named one, or false at the top.
func NextTier(name string) (Tier, bool) {
	idx := TierIndex(name)
	if idx+1 < len(Tiers) {
		return Tiers[idx+1], true
	}
	return Tier{}, false
}

// Account tracks one restaurant-supplier loyalty relationship. Exactly one
// row exists per pair, created lazily on first payment or fee lookup.
type Account struct {
	ID            snowflake.ID `json:"id" gorm:"primaryKey"`
	RestaurantID  snowflake.ID `json:"restaurant_id" gorm:"not null;uniqueIndex:uq_loyalty_restaurant_supplier"`
	SupplierID    snowflake.ID `json:"supplier_id" gorm:"not null;uniqueIndex:uq_loyalty_restaurant_supplier"`
	CurrentTier   string       `json:"current_tier" gorm:"type:varchar(20);not null;default:standard"`
	Orders90d     int          `json:"orders_90d" gorm:"not null;default:0"`
	TotalOrders   int          `json:"total_orders" gorm:"not null;default:0"`
	TotalSpent    float64      `json:"total_spent" gorm:"not null;default:0"`
	DiscountPct   float64      `json:"discount_pct" gorm:"not null;default:0"`
	EffectiveFee  float64      `json:"effective_fee" gorm:"not null;default:15"`
	LastEvaluated time.Time    `json:"last_evaluated"`
	CreatedAt     time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt     time.Time    `json:"updated_at" gorm:"not null"`
}

func (Account) TableName() string { return "loyalty_accounts" }

const (
	EventPaymentCompleted = "payment_completed"
	EventTierUpgrade      = "tier_upgrade"
	EventTierDowngrade    = "tier_downgrade"
)

// Transaction is an append-only log entry. Rows are immutable once written,
// except for the deliberate correction of a payment row's NewTier/OrderCount
// after tier evaluation within the same RecordPayment call.
type Transaction struct {
	ID              snowflake.ID  `json:"id" gorm:"primaryKey"`
	AccountID       snowflake.ID  `json:"account_id" gorm:"not null;index"`
	EventType       string        `json:"event_type" gorm:"type:varchar(30);not null"`
	PaymentID       *snowflake.ID `json:"payment_id,omitempty"`
	OrderCount      int           `json:"order_count" gorm:"not null;default:0"`
	OldTier         string        `json:"old_tier" gorm:"type:varchar(20)"`
	NewTier         string        `json:"new_tier" gorm:"type:varchar(20)"`
	Amount          float64       `json:"amount" gorm:"not null;default:0"`
	DiscountApplied float64       `json:"discount_applied" gorm:"not null;default:0"`
	Note            string        `json:"note" gorm:"type:text"`
	CreatedAt       time.Time     `json:"created_at" gorm:"not null;index"`
}

func (Transaction) TableName() string { return "loyalty_transactions" }
