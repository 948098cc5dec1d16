package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/bwmarrin/snowflake"
	"github.com/forkastlabs/forkast/internal/clock"
	"github.com/forkastlabs/forkast/internal/config"
	quotadomain "github.com/forkastlabs/forkast/internal/quota/domain"
	"github.com/forkastlabs/forkast/internal/quota/service"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T, quotaCfg config.QuotaConfig) (quotadomain.Service, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := service.NewService(service.Params{
		Redis:  rdb,
		Log:    zap.NewNop(),
		Clock:  clock.Fixed{T: time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)},
		Config: config.Config{Quota: quotaCfg},
	})
	return svc, mr
}

func TestCanIngestOrderCapsPerDay(t *testing.T) {
	svc, mr := newService(t, config.QuotaConfig{Enabled: true, OrdersPerDay: 5})
	ctx := context.Background()
	restID := snowflake.ID(123)

	for i := 0; i < 5; i++ {
		assert.NoError(t, svc.CanIngestOrder(ctx, restID))
	}
	assert.ErrorIs(t, svc.CanIngestOrder(ctx, restID), quotadomain.ErrOrderQuotaExceeded)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, "quota:orders:123:2024-06-03", keys[0])
}

func TestQuotaDisabledPassesThrough(t *testing.T) {
	svc, mr := newService(t, config.QuotaConfig{Enabled: false, OrdersPerDay: 1})
	ctx := context.Background()
	restID := snowflake.ID(123)

	for i := 0; i < 10; i++ {
		assert.NoError(t, svc.CanIngestOrder(ctx, restID))
	}
	assert.Empty(t, mr.Keys(), "disabled quota must not touch redis")
}

func TestCountersAreScopedPerRestaurant(t *testing.T) {
	svc, _ := newService(t, config.QuotaConfig{Enabled: true, OrdersPerDay: 1})
	ctx := context.Background()

	require.NoError(t, svc.CanIngestOrder(ctx, snowflake.ID(1)))
	assert.ErrorIs(t, svc.CanIngestOrder(ctx, snowflake.ID(1)), quotadomain.ErrOrderQuotaExceeded)
	assert.NoError(t, svc.CanIngestOrder(ctx, snowflake.ID(2)))
}

func TestClockEventQuotaIndependentOfOrders(t *testing.T) {
	svc, _ := newService(t, config.QuotaConfig{Enabled: true, OrdersPerDay: 1, ClockEventsPerDay: 2})
	ctx := context.Background()
	restID := snowflake.ID(7)

	require.NoError(t, svc.CanIngestOrder(ctx, restID))
	assert.ErrorIs(t, svc.CanIngestOrder(ctx, restID), quotadomain.ErrOrderQuotaExceeded)

	assert.NoError(t, svc.CanRecordClockEvent(ctx, restID))
	assert.NoError(t, svc.CanRecordClockEvent(ctx, restID))
	assert.ErrorIs(t, svc.CanRecordClockEvent(ctx, restID), quotadomain.ErrClockEventQuotaExceeded)
}

func TestUsageReportsTodaysCounters(t *testing.T) {
	svc, _ := newService(t, config.QuotaConfig{Enabled: true, OrdersPerDay: 10, ClockEventsPerDay: 10})
	ctx := context.Background()
	restID := snowflake.ID(9)

	require.NoError(t, svc.CanIngestOrder(ctx, restID))
	require.NoError(t, svc.CanIngestOrder(ctx, restID))
	require.NoError(t, svc.CanRecordClockEvent(ctx, restID))

	usage, err := svc.Usage(ctx, restID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, usage["orders"])
	assert.EqualValues(t, 1, usage["clock_events"])
}
