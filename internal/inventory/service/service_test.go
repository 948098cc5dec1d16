package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/forkastlabs/forkast/internal/clock"
	"github.com/forkastlabs/forkast/internal/inventory/domain"
	"github.com/forkastlabs/forkast/internal/inventory/repository"
	"github.com/forkastlabs/forkast/internal/inventory/service"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newFixture(t *testing.T) (domain.Service, domain.Repository, *snowflake.Node, snowflake.ID) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.InventoryItem{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	repo := repository.NewRepository(db)
	svc := service.NewService(service.Params{
		Log:   zap.NewNop(),
		Clock: clock.Fixed{T: time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)},
		Repo:  repo,
	})
	return svc, repo, node, node.Generate()
}

func seedItem(t *testing.T, repo domain.Repository, node *snowflake.Node, restID snowflake.ID, name string, stock float64) *domain.InventoryItem {
	t.Helper()
	item := &domain.InventoryItem{
		ID:           node.Generate(),
		RestaurantID: restID,
		Name:         name,
		Unit:         "kg",
		CurrentStock: stock,
	}
	require.NoError(t, repo.Insert(context.Background(), nil, item))
	return item
}

func TestBatchUpdateByIDAndName(t *testing.T) {
	svc, repo, node, restID := newFixture(t)
	ctx := context.Background()

	rice := seedItem(t, repo, node, restID, "Basmati Rice", 20)
	seedItem(t, repo, node, restID, "Saffron", 0.5)

	updated, err := svc.BatchUpdate(ctx, restID, []domain.StockUpdate{
		{ItemID: &rice.ID, NewStock: 35},
		{Name: "Saffron", NewStock: 0.2, Unit: "g"},
	})
	require.NoError(t, err)
	require.Len(t, updated, 2)
	assert.Equal(t, 35.0, updated[0].CurrentStock)
	assert.Equal(t, 0.2, updated[1].CurrentStock)
	assert.Equal(t, "g", updated[1].Unit)
}

func TestBatchUpdateSkipsUnmatched(t *testing.T) {
	svc, repo, node, restID := newFixture(t)

	seedItem(t, repo, node, restID, "Basmati Rice", 20)

	updated, err := svc.BatchUpdate(context.Background(), restID, []domain.StockUpdate{
		{Name: "No Such Item", NewStock: 5},
		{NewStock: 7},
		{Name: "Basmati Rice", NewStock: 18},
	})
	require.NoError(t, err)
	require.Len(t, updated, 1)
	assert.Equal(t, 18.0, updated[0].CurrentStock)
}

func TestBatchUpdateScopedToRestaurant(t *testing.T) {
	svc, repo, node, restID := newFixture(t)

	otherRest := node.Generate()
	seedItem(t, repo, node, otherRest, "Basmati Rice", 20)

	updated, err := svc.BatchUpdate(context.Background(), restID, []domain.StockUpdate{
		{Name: "Basmati Rice", NewStock: 5},
	})
	require.NoError(t, err)
	assert.Empty(t, updated, "another restaurant's stock must be untouchable")
}
