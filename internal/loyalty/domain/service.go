package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var ErrAccountNotFound = errors.New("loyalty: account not found")

// EvaluationSummary tallies a batch re-evaluation for operator visibility.
type EvaluationSummary struct {
	TotalAccounts int `json:"total_accounts"`
	Upgrades      int `json:"upgrades"`
	Downgrades    int `json:"downgrades"`
	Unchanged     int `json:"unchanged"`
}

// AccountView is an account enriched with supplier identity and progress
// toward the next tier, as served by the reporting endpoints.
type AccountView struct {
	ID               snowflake.ID `json:"id"`
	RestaurantID     snowflake.ID `json:"restaurant_id"`
	SupplierID       snowflake.ID `json:"supplier_id"`
	SupplierName     string       `json:"supplier_name"`
	CurrentTier      string       `json:"current_tier"`
	Orders90d        int          `json:"orders_90d"`
	TotalOrders      int          `json:"total_orders"`
	TotalSpent       float64      `json:"total_spent"`
	DiscountPct      float64      `json:"discount_pct"`
	EffectiveFee     float64      `json:"effective_fee"`
	NextTier         *string      `json:"next_tier"`
	OrdersToNextTier *int         `json:"orders_to_next_tier"`
	LastEvaluated    time.Time    `json:"last_evaluated"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// Summary aggregates a restaurant's loyalty standing across all suppliers.
type Summary struct {
	TotalSupplierAccounts int            `json:"total_supplier_accounts"`
	ActiveTiers           map[string]int `json:"active_tiers"`
	TotalLifetimeOrders   int            `json:"total_lifetime_orders"`
	TotalLifetimeSpent    float64        `json:"total_lifetime_spent"`
	TotalSavings          float64        `json:"total_savings"`
	AvgDiscountPct        float64        `json:"avg_discount_pct"`
	Accounts              []AccountView  `json:"accounts"`
}

// Service is the loyalty tier engine consumed by the payment flow and the
// reporting endpoints.
type Service interface {
	// TierDefinitions returns the static ordered tier table.
	TierDefinitions() []Tier

	// EffectiveFee returns the platform fee percentage for a pair. A zero
	// supplierID or a missing account yields BaseFeePct. When an account
	// exists it is re-evaluated first: this is a read-with-refresh and may
	// persist a tier transition as a side effect.
	EffectiveFee(ctx context.Context, restaurantID, supplierID snowflake.ID) (float64, error)

	// RecordPayment logs a completed payment against the pair's account and
	// re-evaluates its tier. The payment event row is written first with a
	// provisional order count, then corrected after evaluation, so an
	// intermediate failure still leaves an auditable entry.
	RecordPayment(ctx context.Context, restaurantID, supplierID, paymentID snowflake.ID, amount, discountApplied float64) error

	// GetOrCreateAccount is an idempotent lookup-or-insert for a pair.
	GetOrCreateAccount(ctx context.Context, restaurantID, supplierID snowflake.ID) (*Account, error)

	// CountRecentOrders recomputes the succeeded-payment count in the
	// trailing window. windowDays <= 0 uses RollingWindowDays.
	CountRecentOrders(ctx context.Context, restaurantID, supplierID snowflake.ID, windowDays int) (int, error)

	// EvaluateTier refreshes the account's rolling count and tier, logging a
	// transition when the tier changed. Reports whether it did.
	EvaluateTier(ctx context.Context, account *Account) (bool, error)

	// EvaluateAllAccounts re-evaluates every account.
	EvaluateAllAccounts(ctx context.Context) (EvaluationSummary, error)

	Account(ctx context.Context, restaurantID, supplierID snowflake.ID) (*AccountView, error)
	Accounts(ctx context.Context, restaurantID snowflake.ID) ([]AccountView, error)
	History(ctx context.Context, restaurantID, supplierID snowflake.ID, limit int) ([]*Transaction, error)
	Summary(ctx context.Context, restaurantID snowflake.ID) (*Summary, error)
}
