package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/forkastlabs/forkast/internal/clock"
	"github.com/forkastlabs/forkast/internal/forecast"
	"github.com/forkastlabs/forkast/internal/order/domain"
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
		log:   p.Log.Named("order.service"),
		genID: p.GenID,
		clk:   p.Clock,
		repo:  p.Repo,
	}
}

// Create ingests one POS order. The total is always recomputed from the item
// lines; a POS-supplied total is ignored.
func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Order, error) {
	if len(req.Items) == 0 {
		return nil, domain.ErrNoItems
	}

	now := s.clk.Now(ctx)
	orderDate := now
	if req.OrderDate != nil {
		orderDate = req.OrderDate.UTC()
	}

	channel := req.Channel
	switch channel {
	case domain.ChannelDineIn, domain.ChannelDelivery, domain.ChannelTakeaway:
	default:
		channel = domain.ChannelDineIn
	}

	covers := req.Covers
	if covers <= 0 {
		covers = 1
	}

	order := &domain.Order{
		ID:           s.genID.Generate(),
		RestaurantID: req.RestaurantID,
		Channel:      channel,
		Covers:       covers,
		TableNumber:  req.TableNumber,
		POSReference: req.POSReference,
		FoodWasteKg:  req.FoodWasteKg,
		OrderDate:    orderDate,
		CreatedAt:    now,
	}

	var total float64
	for _, line := range req.Items {
		lineTotal := float64(line.Quantity) * line.UnitPrice
		total += lineTotal
		order.Items = append(order.Items, domain.OrderItem{
			ID:         s.genID.Generate(),
			OrderID:    order.ID,
			MenuItemID: line.MenuItemID,
			ItemName:   line.ItemName,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			TotalPrice: lineTotal,
		})
	}
	order.TotalAmount = round2(total)

	if err := s.repo.Insert(ctx, nil, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]*domain.Order, int64, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}
	return s.repo.ListByRestaurant(ctx, nil, req.RestaurantID, req.From, req.To, limit, req.Offset)
}

// DailySummaries folds the trailing N days of orders into per-day trading
// rows, ascending by date. Days with no orders are absent rather than zero,
// matching what the forecast engine expects of real history.
func (s *Service) DailySummaries(ctx context.Context, restaurantID snowflake.ID, days int) ([]forecast.DailyOrderSummary, error) {
	if days <= 0 {
		days = 90
	}
	now := s.clk.Now(ctx)
	from := now.AddDate(0, 0, -days)

	orders, err := s.repo.ListForRange(ctx, nil, restaurantID, from, now)
	if err != nil {
		return nil, err
	}

	byDay := make(map[time.Time]*forecast.DailyOrderSummary)
	for _, order := range orders {
		day := order.OrderDate.UTC().Truncate(24 * time.Hour)
		summary, ok := byDay[day]
		if !ok {
			summary = &forecast.DailyOrderSummary{Date: day, ItemOrders: map[string]int{}}
			byDay[day] = summary
		}

		summary.TotalCovers += order.Covers
		summary.TotalRevenue += order.TotalAmount
		summary.FoodWasteKg += order.FoodWasteKg
		switch order.Channel {
		case domain.ChannelDelivery:
			summary.Delivery += order.Covers
		case domain.ChannelTakeaway:
			summary.Takeaway += order.Covers
		default:
			summary.DineIn += order.Covers
		}
		for _, line := range order.Items {
			summary.ItemOrders[line.ItemName] += line.Quantity
		}
	}

	summaries := make([]forecast.DailyOrderSummary, 0, len(byDay))
	for _, summary := range byDay {
		if summary.TotalCovers > 0 {
			summary.AvgCheck = round2(summary.TotalRevenue / float64(summary.TotalCovers))
		}
		summary.TotalRevenue = round2(summary.TotalRevenue)
		summary.FoodWasteKg = round2(summary.FoodWasteKg)
		summaries = append(summaries, *summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Date.Before(summaries[j].Date)
	})
	return summaries, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
