package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/forkastlabs/forkast/internal/clock"
	"github.com/forkastlabs/forkast/internal/staff/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const defaultScheduleLimit = 200

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
		log:   p.Log.Named("staff.service"),
		genID: p.GenID,
		clk:   p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) RecordClock(ctx context.Context, eventType string, req domain.ClockRequest) (*domain.ClockEvent, error) {
	if eventType != domain.EventClockIn && eventType != domain.EventClockOut {
		return nil, domain.ErrUnknownEventType
	}

	now := s.clk.Now(ctx)
	timestamp := now
	if req.Timestamp != nil {
		timestamp = req.Timestamp.UTC()
	}

	event := &domain.ClockEvent{
		ID:           s.genID.Generate(),
		RestaurantID: req.RestaurantID,
		StaffName:    req.StaffName,
		Role:         req.Role,
		EventType:    eventType,
		Timestamp:    timestamp,
		POSReference: req.POSReference,
		CreatedAt:    now,
	}
	if err := s.repo.Insert(ctx, nil, event); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *Service) Schedule(ctx context.Context, restaurantID snowflake.ID, limit int) ([]*domain.ClockEvent, error) {
	if limit <= 0 {
		limit = defaultScheduleLimit
	}
	return s.repo.ListByRestaurant(ctx, nil, restaurantID, limit)
}
