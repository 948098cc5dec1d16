package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/forkastlabs/forkast/internal/clock"
	loyaltydomain "github.com/forkastlabs/forkast/internal/loyalty/domain"
	loyaltyrepo "github.com/forkastlabs/forkast/internal/loyalty/repository"
	loyaltyservice "github.com/forkastlabs/forkast/internal/loyalty/service"
	"github.com/forkastlabs/forkast/internal/payment/domain"
	paymentrepo "github.com/forkastlabs/forkast/internal/payment/repository"
	"github.com/forkastlabs/forkast/internal/payment/service"
	supplierdomain "github.com/forkastlabs/forkast/internal/supplier/domain"
	supplierrepo "github.com/forkastlabs/forkast/internal/supplier/repository"
	"github.com/forkastlabs/forkast/pkg/db/pagination"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	svc     domain.Service
	loyalty loyaltydomain.Service
	node    *snowflake.Node
	restID  snowflake.ID
	supID   snowflake.ID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.Payment{},
		&loyaltydomain.Account{},
		&loyaltydomain.Transaction{},
		&supplierdomain.Supplier{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.Fixed{T: time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)}
	log := zap.NewNop()

	loyaltySvc := loyaltyservice.NewService(loyaltyservice.Params{
		DB:           db,
		Log:          log,
		GenID:        node,
		Clock:        clk,
		Repo:         loyaltyrepo.NewRepository(db),
		SupplierRepo: supplierrepo.NewRepository(db),
	})
	svc := service.NewService(service.Params{
		DB:      db,
		Log:     log,
		GenID:   node,
		Clock:   clk,
		Repo:    paymentrepo.NewRepository(db),
		Loyalty: loyaltySvc,
	})

	return &fixture{
		svc:     svc,
		loyalty: loyaltySvc,
		node:    node,
		restID:  node.Generate(),
		supID:   node.Generate(),
	}
}

func TestCreateAppliesBaseFee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	payment, err := f.svc.Create(ctx, domain.CreateRequest{
		RestaurantID:   f.restID,
		SupplierID:     &f.supID,
		SupplierAmount: 1000,
		Description:    "weekly produce order",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, payment.Status)
	assert.Equal(t, 15.0, payment.PlatformFeePct)
	assert.Equal(t, 150.0, payment.PlatformFee)
	assert.Equal(t, 1150.0, payment.Amount)
	assert.Equal(t, 0.0, payment.DiscountPct)
	assert.Equal(t, "aed", payment.Currency)
	assert.NotEmpty(t, payment.Reference)
}

func TestCreateRejectsNonPositiveAmount(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), domain.CreateRequest{
		RestaurantID:   f.restID,
		SupplierAmount: 0,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestCreateWithoutSupplierUsesBaseFee(t *testing.T) {
	f := newFixture(t)

	payment, err := f.svc.Create(context.Background(), domain.CreateRequest{
		RestaurantID:   f.restID,
		SupplierAmount: 200,
	})
	require.NoError(t, err)
	assert.Nil(t, payment.SupplierID)
	assert.Equal(t, 15.0, payment.PlatformFeePct)
	assert.Equal(t, 230.0, payment.Amount)
}

func TestMarkSucceededFeedsLoyalty(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	payment, err := f.svc.Create(ctx, domain.CreateRequest{
		RestaurantID:   f.restID,
		SupplierID:     &f.supID,
		SupplierAmount: 400,
	})
	require.NoError(t, err)

	succeeded, err := f.svc.MarkSucceeded(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSucceeded, succeeded.Status)

	account, err := f.loyalty.GetOrCreateAccount(ctx, f.restID, f.supID)
	require.NoError(t, err)
	assert.Equal(t, 1, account.TotalOrders)
	assert.Equal(t, 400.0, account.TotalSpent)
	assert.Equal(t, 1, account.Orders90d)
}

func TestMarkSucceededRequiresPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	payment, err := f.svc.Create(ctx, domain.CreateRequest{
		RestaurantID:   f.restID,
		SupplierID:     &f.supID,
		SupplierAmount: 100,
	})
	require.NoError(t, err)

	_, err = f.svc.MarkSucceeded(ctx, payment.ID)
	require.NoError(t, err)

	_, err = f.svc.MarkSucceeded(ctx, payment.ID)
	assert.ErrorIs(t, err, domain.ErrNotPending)
}

func TestMarkFailed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	payment, err := f.svc.Create(ctx, domain.CreateRequest{
		RestaurantID:   f.restID,
		SupplierID:     &f.supID,
		SupplierAmount: 100,
	})
	require.NoError(t, err)

	failed, err := f.svc.MarkFailed(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, failed.Status)

	// A failed payment never reaches the loyalty ledger.
	count, err := f.loyalty.CountRecentOrders(ctx, f.restID, f.supID, 0)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGetUnknownPayment(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Get(context.Background(), f.node.Generate())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListPaginatesWithCursor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created := make(map[snowflake.ID]bool, 5)
	for i := 0; i < 5; i++ {
		p, err := f.svc.Create(ctx, domain.CreateRequest{
			RestaurantID:   f.restID,
			SupplierAmount: 100,
		})
		require.NoError(t, err)
		created[p.ID] = true
	}

	var seen []snowflake.ID
	token := ""
	pages := 0
	for {
		resp, err := f.svc.List(ctx, f.restID, pagination.Pagination{PageToken: token, PageSize: 2})
		require.NoError(t, err)
		for _, p := range resp.Payments {
			seen = append(seen, p.ID)
		}
		pages++
		if !resp.PageInfo.HasMore {
			break
		}
		require.NotEmpty(t, resp.PageInfo.NextPageToken)
		token = resp.PageInfo.NextPageToken
	}

	assert.Equal(t, 3, pages)
	require.Len(t, seen, 5)
	for i, id := range seen {
		assert.True(t, created[id])
		if i > 0 {
			// Newest first with the ID as tiebreak, no row repeated across pages.
			assert.Less(t, int64(id), int64(seen[i-1]))
		}
	}
}

func TestListRejectsBadPageToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.List(context.Background(), f.restID, pagination.Pagination{PageToken: "not-a-cursor"})
	assert.ErrorIs(t, err, domain.ErrInvalidPageToken)
}

func TestDiscountedFeeAfterUpgrade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 25 succeeded payments push the pair to bronze.
	for i := 0; i < 25; i++ {
		p, err := f.svc.Create(ctx, domain.CreateRequest{
			RestaurantID:   f.restID,
			SupplierID:     &f.supID,
			SupplierAmount: 100,
		})
		require.NoError(t, err)
		_, err = f.svc.MarkSucceeded(ctx, p.ID)
		require.NoError(t, err)
	}

	payment, err := f.svc.Create(ctx, domain.CreateRequest{
		RestaurantID:   f.restID,
		SupplierID:     &f.supID,
		SupplierAmount: 1000,
	})
	require.NoError(t, err)
	assert.Equal(t, 13.0, payment.PlatformFeePct)
	assert.Equal(t, 130.0, payment.PlatformFee)
	assert.Equal(t, 1130.0, payment.Amount)
	assert.Equal(t, 2.0, payment.DiscountPct)
}
