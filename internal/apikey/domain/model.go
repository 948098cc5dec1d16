package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var (
	ErrKeyNotFound  = errors.New("apikey: not found or inactive")
	ErrKeyRevoked   = errors.New("apikey: revoked")
	ErrMissingScope = errors.New("apikey: missing required scope")
)

// Scopes granted to POS and payment integrations. ScopeAdmin implies all.
const (
	ScopeAdmin         = "admin"
	ScopePOSRead       = "pos:read"
	ScopePOSWrite      = "pos:write"
	ScopePaymentsRead  = "payments:read"
	ScopePaymentsWrite = "payments:write"
)

// APIKey stores only digests of the issued credential. LookupHash is the
// SHA-256 of the full key for the indexed lookup; SecretHash is a bcrypt
// digest verified after the lookup, so an exfiltrated table alone is not
// enough to forge a key.
type APIKey struct {
	ID           snowflake.ID `json:"id" gorm:"primaryKey"`
	RestaurantID snowflake.ID `json:"restaurant_id" gorm:"not null;index"`
	Name         string       `json:"name" gorm:"type:varchar(255);not null"`
	KeyPrefix    string       `json:"key_prefix" gorm:"type:varchar(20);not null"`
	LookupHash   string       `json:"-" gorm:"type:varchar(64);not null;uniqueIndex"`
	SecretHash   string       `json:"-" gorm:"type:varchar(100);not null"`
	Scopes       string       `json:"scopes" gorm:"type:varchar(255);not null"`
	IsActive     bool         `json:"is_active" gorm:"not null;default:true"`
	RequestCount int64        `json:"request_count" gorm:"not null;default:0"`
	LastUsedAt   *time.Time   `json:"last_used_at,omitempty"`
	CreatedAt    time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt    time.Time    `json:"updated_at" gorm:"not null"`
}

func (APIKey) TableName() string { return "api_keys" }

// HasScope reports whether the key carries the scope, honoring admin.
func (k *APIKey) HasScope(scope string) bool {
	for _, s := range k.ScopeList() {
		if s == ScopeAdmin || s == scope {
			return true
		}
	}
	return false
}

func (k *APIKey) ScopeList() []string {
	if k.Scopes == "" {
		return nil
	}
	return strings.Split(k.Scopes, ",")
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, key *APIKey) error
	Update(ctx context.Context, db *gorm.DB, key *APIKey) error
	FindByLookupHash(ctx context.Context, db *gorm.DB, hash string) (*APIKey, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*APIKey, error)
	ListByRestaurant(ctx context.Context, db *gorm.DB, restaurantID snowflake.ID) ([]*APIKey, error)
}

// IssuedKey carries the plaintext exactly once, at creation.
type IssuedKey struct {
	Key       *APIKey `json:"key"`
	Plaintext string  `json:"plaintext"`
}

type Service interface {
	// Issue mints a key with the given scopes. The plaintext is returned once
	// and never stored.
	Issue(ctx context.Context, restaurantID snowflake.ID, name string, scopes []string) (*IssuedKey, error)

	// Verify resolves and authenticates a presented key, bumping its usage
	// counters. Unknown, inactive, or mismatched keys yield ErrKeyNotFound.
	Verify(ctx context.Context, plaintext string) (*APIKey, error)

	Revoke(ctx context.Context, id snowflake.ID) error
	List(ctx context.Context, restaurantID snowflake.ID) ([]*APIKey, error)
}
