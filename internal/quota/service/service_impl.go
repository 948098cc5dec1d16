package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/forkastlabs/forkast/internal/clock"
	"github.com/forkastlabs/forkast/internal/config"
	quotadomain "github.com/forkastlabs/forkast/internal/quota/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Counters expire well after the day rolls over so Usage can still report
// yesterday's tail during clock skew.
const counterTTL = 48 * time.Hour

type Params struct {
	fx.In

	Redis  *redis.Client `optional:"true"`
	Log    *zap.Logger
	Clock  clock.Clock
	Config config.Config
}

type service struct {
	redis *redis.Client
	log   *zap.Logger
	clk   clock.Clock
	cfg   config.QuotaConfig
}

func NewService(p Params) quotadomain.Service {
	return &service{
		redis: p.Redis,
		log:   p.Log.Named("quota.service"),
		clk:   p.Clock,
		cfg:   p.Config.Quota,
	}
}

func (s *service) CanIngestOrder(ctx context.Context, restaurantID snowflake.ID) error {
	return s.check(ctx, "orders", restaurantID, s.cfg.OrdersPerDay, quotadomain.ErrOrderQuotaExceeded)
}

func (s *service) CanRecordClockEvent(ctx context.Context, restaurantID snowflake.ID) error {
	return s.check(ctx, "clock_events", restaurantID, s.cfg.ClockEventsPerDay, quotadomain.ErrClockEventQuotaExceeded)
}

func (s *service) check(ctx context.Context, kind string, restaurantID snowflake.ID, limit int64, exceeded error) error {
	if !s.cfg.Enabled || s.redis == nil {
		return nil
	}

	key := s.key(ctx, kind, restaurantID)
	val, err := s.redis.Incr(ctx, key).Result()
	if err != nil {
		// Fail open so a redis outage never blocks POS ingestion.
		s.log.Error("quota counter increment failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	if val == 1 {
		s.redis.Expire(ctx, key, counterTTL)
	}

	if val > limit {
		return exceeded
	}
	return nil
}

func (s *service) Usage(ctx context.Context, restaurantID snowflake.ID) (map[string]int64, error) {
	if !s.cfg.Enabled || s.redis == nil {
		return nil, quotadomain.ErrQuotaDisabled
	}

	usage := make(map[string]int64)
	for _, kind := range []string{"orders", "clock_events"} {
		val, err := s.redis.Get(ctx, s.key(ctx, kind, restaurantID)).Int64()
		if err != nil && err != redis.Nil {
			return nil, err
		}
		usage[kind] = val
	}
	return usage, nil
}

// Key: quota:{kind}:{restaurant_id}:{day}, e.g. quota:orders:123:2024-06-03.
func (s *service) key(ctx context.Context, kind string, restaurantID snowflake.ID) string {
	day := s.clk.Now(ctx).Format("2006-01-02")
	return fmt.Sprintf("quota:%s:%s:%s", kind, restaurantID.String(), day)
}
