package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("restaurant: not found")

type Restaurant struct {
	ID             snowflake.ID `json:"id" gorm:"primaryKey"`
	Code           string       `json:"code" gorm:"type:varchar(100);not null;uniqueIndex"`
	Name           string       `json:"name" gorm:"type:varchar(255);not null"`
	RestaurantType string       `json:"restaurant_type" gorm:"type:varchar(50);default:casual_dining"`
	Cuisine        string       `json:"cuisine" gorm:"type:varchar(50);default:mixed"`
	City           string       `json:"city" gorm:"type:varchar(100)"`
	Country        string       `json:"country" gorm:"type:varchar(50);default:UAE"`
	Seats          int          `json:"seats" gorm:"default:40"`
	AvgDailyCovers int          `json:"avg_daily_covers" gorm:"default:80"`
	OperatingHours string       `json:"operating_hours" gorm:"type:varchar(20);default:10:00-23:00"`
	StaffCount     int          `json:"staff_count" gorm:"default:10"`
	CreatedAt      time.Time    `json:"created_at" gorm:"not null"`
	UpdatedAt      time.Time    `json:"updated_at" gorm:"not null"`
}

func (Restaurant) TableName() string { return "restaurants" }

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, restaurant *Restaurant) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Restaurant, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Restaurant, error)
	List(ctx context.Context, db *gorm.DB) ([]*Restaurant, error)
}
