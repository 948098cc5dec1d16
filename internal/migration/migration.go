package migration

import (
	apikeydomain "github.com/forkastlabs/forkast/internal/apikey/domain"
	inventorydomain "github.com/forkastlabs/forkast/internal/inventory/domain"
	loyaltydomain "github.com/forkastlabs/forkast/internal/loyalty/domain"
	menudomain "github.com/forkastlabs/forkast/internal/menu/domain"
	orderdomain "github.com/forkastlabs/forkast/internal/order/domain"
	paymentdomain "github.com/forkastlabs/forkast/internal/payment/domain"
	restaurantdomain "github.com/forkastlabs/forkast/internal/restaurant/domain"
	staffdomain "github.com/forkastlabs/forkast/internal/staff/domain"
	supplierdomain "github.com/forkastlabs/forkast/internal/supplier/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migration",
	fx.Invoke(Run),
)

// Run auto-migrates every model. Gorm's migrator only adds missing tables,
// columns and indexes; it never drops, so running it at each startup is safe
// across the supported drivers.
func Run(db *gorm.DB, log *zap.Logger) error {
	log = log.Named("migration")
	log.Info("running schema migration")

	if err := db.AutoMigrate(
		&restaurantdomain.Restaurant{},
		&supplierdomain.Supplier{},
		&menudomain.MenuItem{},
		&inventorydomain.InventoryItem{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
		&staffdomain.ClockEvent{},
		&paymentdomain.Payment{},
		&loyaltydomain.Account{},
		&loyaltydomain.Transaction{},
		&apikeydomain.APIKey{},
	); err != nil {
		return err
	}

	log.Info("schema migration complete")
	return nil
}
