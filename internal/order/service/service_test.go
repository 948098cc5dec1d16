package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/forkastlabs/forkast/internal/clock"
	"github.com/forkastlabs/forkast/internal/order/domain"
	"github.com/forkastlabs/forkast/internal/order/repository"
	"github.com/forkastlabs/forkast/internal/order/service"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) (domain.Service, snowflake.ID) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Order{}, &domain.OrderItem{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := service.NewService(service.Params{
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.Fixed{T: testNow},
		Repo:  repository.NewRepository(db),
	})
	return svc, node.Generate()
}

func TestCreateComputesTotalFromLines(t *testing.T) {
	svc, restID := newService(t)

	order, err := svc.Create(context.Background(), domain.CreateRequest{
		RestaurantID: restID,
		Channel:      domain.ChannelDineIn,
		Covers:       4,
		Items: []domain.ItemRequest{
			{ItemName: "Lamb Machboos", Quantity: 2, UnitPrice: 64},
			{ItemName: "Karak Chai", Quantity: 4, UnitPrice: 8},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 160.0, order.TotalAmount)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 128.0, order.Items[0].TotalPrice)
}

func TestCreateRejectsEmptyOrder(t *testing.T) {
	svc, restID := newService(t)

	_, err := svc.Create(context.Background(), domain.CreateRequest{RestaurantID: restID})
	assert.ErrorIs(t, err, domain.ErrNoItems)
}

func TestCreateDefaultsChannelAndCovers(t *testing.T) {
	svc, restID := newService(t)

	order, err := svc.Create(context.Background(), domain.CreateRequest{
		RestaurantID: restID,
		Channel:      "drive_thru",
		Items:        []domain.ItemRequest{{ItemName: "Karak Chai", Quantity: 1, UnitPrice: 8}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ChannelDineIn, order.Channel)
	assert.Equal(t, 1, order.Covers)
}

func TestListPaginates(t *testing.T) {
	svc, restID := newService(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Create(ctx, domain.CreateRequest{
			RestaurantID: restID,
			Items:        []domain.ItemRequest{{ItemName: "Karak Chai", Quantity: 1, UnitPrice: 8}},
		})
		require.NoError(t, err)
	}

	orders, total, err := svc.List(ctx, domain.ListRequest{RestaurantID: restID, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, orders, 2)
}

func TestDailySummariesAggregation(t *testing.T) {
	svc, restID := newService(t)
	ctx := context.Background()

	day1 := time.Date(2024, 5, 30, 19, 0, 0, 0, time.UTC)
	day1Late := time.Date(2024, 5, 30, 21, 30, 0, 0, time.UTC)
	day2 := time.Date(2024, 5, 31, 13, 0, 0, 0, time.UTC)

	_, err := svc.Create(ctx, domain.CreateRequest{
		RestaurantID: restID,
		Channel:      domain.ChannelDineIn,
		Covers:       4,
		FoodWasteKg:  0.5,
		OrderDate:    &day1,
		Items:        []domain.ItemRequest{{ItemName: "Lamb Machboos", Quantity: 2, UnitPrice: 60}},
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateRequest{
		RestaurantID: restID,
		Channel:      domain.ChannelDelivery,
		Covers:       2,
		OrderDate:    &day1Late,
		Items:        []domain.ItemRequest{{ItemName: "Lamb Machboos", Quantity: 1, UnitPrice: 60}},
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateRequest{
		RestaurantID: restID,
		Channel:      domain.ChannelTakeaway,
		Covers:       1,
		OrderDate:    &day2,
		Items:        []domain.ItemRequest{{ItemName: "Karak Chai", Quantity: 3, UnitPrice: 8}},
	})
	require.NoError(t, err)

	summaries, err := svc.DailySummaries(ctx, restID, 30)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	first := summaries[0]
	assert.Equal(t, time.Date(2024, 5, 30, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, 6, first.TotalCovers)
	assert.Equal(t, 180.0, first.TotalRevenue)
	assert.Equal(t, 30.0, first.AvgCheck)
	assert.Equal(t, 4, first.DineIn)
	assert.Equal(t, 2, first.Delivery)
	assert.Equal(t, 0, first.Takeaway)
	assert.Equal(t, 0.5, first.FoodWasteKg)
	assert.Equal(t, 3, first.ItemOrders["Lamb Machboos"])

	second := summaries[1]
	assert.Equal(t, 1, second.Takeaway)
	assert.Equal(t, 3, second.ItemOrders["Karak Chai"])
	assert.True(t, first.Date.Before(second.Date), "summaries ascend by date")
}

func TestDailySummariesWindowExcludesOldOrders(t *testing.T) {
	svc, restID := newService(t)
	ctx := context.Background()

	old := testNow.AddDate(0, 0, -40)
	_, err := svc.Create(ctx, domain.CreateRequest{
		RestaurantID: restID,
		OrderDate:    &old,
		Items:        []domain.ItemRequest{{ItemName: "Karak Chai", Quantity: 1, UnitPrice: 8}},
	})
	require.NoError(t, err)

	summaries, err := svc.DailySummaries(ctx, restID, 30)
	require.NoError(t, err)
	assert.Empty(t, summaries)
}
