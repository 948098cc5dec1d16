package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/forkastlabs/forkast/internal/clock"
	"github.com/forkastlabs/forkast/internal/menu/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	clk   clock.Clock
	repo  domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("menu.service"),
		genID: p.GenID,
		clk:   p.Clock,
		repo:  p.Repo,
	}
}

// SyncMenu upserts each pushed item by (restaurant, name). The food cost
// percentage is recomputed on every write so a price change keeps it honest.
func (s *Service) SyncMenu(ctx context.Context, restaurantID snowflake.ID, items []domain.SyncItem) ([]*domain.MenuItem, error) {
	now := s.clk.Now(ctx)
	results := make([]*domain.MenuItem, 0, len(items))

	for _, incoming := range items {
		existing, err := s.repo.FindByName(ctx, nil, restaurantID, incoming.Name)
		if err != nil {
			return nil, err
		}

		if existing != nil {
			if incoming.Category != "" {
				existing.Category = incoming.Category
			}
			existing.Price = incoming.Price
			existing.Cost = incoming.Cost
			if incoming.Ingredients != nil {
				existing.Ingredients = incoming.Ingredients
			}
			if incoming.PrepTimeMin > 0 {
				existing.PrepTimeMin = incoming.PrepTimeMin
			}
			if incoming.IsActive != nil {
				existing.IsActive = *incoming.IsActive
			}
			existing.FoodCostPct = foodCostPct(existing.Cost, existing.Price)
			existing.UpdatedAt = now
			if err := s.repo.Update(ctx, nil, existing); err != nil {
				return nil, err
			}
			results = append(results, existing)
			continue
		}

		item := &domain.MenuItem{
			ID:           s.genID.Generate(),
			RestaurantID: restaurantID,
			Name:         incoming.Name,
			Category:     incoming.Category,
			Price:        incoming.Price,
			Cost:         incoming.Cost,
			FoodCostPct:  foodCostPct(incoming.Cost, incoming.Price),
			Ingredients:  incoming.Ingredients,
			PrepTimeMin:  incoming.PrepTimeMin,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if item.Category == "" {
			item.Category = "main"
		}
		if incoming.IsActive != nil {
			item.IsActive = *incoming.IsActive
		}
		if err := s.repo.Insert(ctx, nil, item); err != nil {
			return nil, err
		}
		results = append(results, item)
	}

	s.log.Info("menu synced",
		zap.String("restaurant_id", restaurantID.String()),
		zap.Int("items", len(results)),
	)
	return results, nil
}

func (s *Service) Menu(ctx context.Context, restaurantID snowflake.ID) ([]*domain.MenuItem, error) {
	return s.repo.ListByRestaurant(ctx, nil, restaurantID)
}

func (s *Service) UpdateItem(ctx context.Context, id snowflake.ID, req domain.UpdateRequest) (*domain.MenuItem, error) {
	item, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}

	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.Cost != nil {
		item.Cost = *req.Cost
	}
	if req.PrepTimeMin != nil {
		item.PrepTimeMin = *req.PrepTimeMin
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}
	item.FoodCostPct = foodCostPct(item.Cost, item.Price)
	item.UpdatedAt = s.clk.Now(ctx)

	if err := s.repo.Update(ctx, nil, item); err != nil {
		return nil, err
	}
	return item, nil
}

func foodCostPct(cost, price float64) float64 {
	if price <= 0 {
		return 0
	}
	return cost / price * 100
}
