package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/forkastlabs/forkast/internal/clock"
	"github.com/forkastlabs/forkast/internal/inventory/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	log  *zap.Logger
	clk  clock.Clock
	repo domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		log:  p.Log.Named("inventory.service"),
		clk:  p.Clock,
		repo: p.Repo,
	}
}

func (s *Service) BatchUpdate(ctx context.Context, restaurantID snowflake.ID, updates []domain.StockUpdate) ([]*domain.InventoryItem, error) {
	now := s.clk.Now(ctx)
	results := make([]*domain.InventoryItem, 0, len(updates))

	for _, update := range updates {
		var (
			item *domain.InventoryItem
			err  error
		)
		switch {
		case update.ItemID != nil:
			item, err = s.repo.FindByID(ctx, nil, restaurantID, *update.ItemID)
		case update.Name != "":
			item, err = s.repo.FindByName(ctx, nil, restaurantID, update.Name)
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		if item == nil {
			s.log.Warn("stock update matched no item",
				zap.String("restaurant_id", restaurantID.String()),
				zap.String("name", update.Name),
			)
			continue
		}

		item.CurrentStock = update.NewStock
		if update.Unit != "" {
			item.Unit = update.Unit
		}
		item.UpdatedAt = now
		if err := s.repo.Update(ctx, nil, item); err != nil {
			return nil, err
		}
		results = append(results, item)
	}
	return results, nil
}

func (s *Service) Inventory(ctx context.Context, restaurantID snowflake.ID) ([]*domain.InventoryItem, error) {
	return s.repo.ListByRestaurant(ctx, nil, restaurantID)
}
