package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/forkastlabs/forkast/internal/apikey/domain"
	"github.com/forkastlabs/forkast/internal/apikey/repository"
	"github.com/forkastlabs/forkast/internal/apikey/service"
	"github.com/forkastlabs/forkast/internal/clock"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newService(t *testing.T) (domain.Service, snowflake.ID) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.APIKey{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := service.NewService(service.Params{
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.Fixed{T: time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)},
		Repo:  repository.NewRepository(db),
	})
	return svc, node.Generate()
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	svc, restID := newService(t)
	ctx := context.Background()

	issued, err := svc.Issue(ctx, restID, "kitchen POS", []string{domain.ScopePOSRead, domain.ScopePOSWrite})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(issued.Plaintext, "fk_"))
	assert.NotContains(t, issued.Key.LookupHash, issued.Plaintext)
	assert.NotEqual(t, issued.Plaintext, issued.Key.SecretHash)

	key, err := svc.Verify(ctx, issued.Plaintext)
	require.NoError(t, err)
	assert.Equal(t, issued.Key.ID, key.ID)
	assert.EqualValues(t, 1, key.RequestCount)
	require.NotNil(t, key.LastUsedAt)
}

func TestVerifyUnknownKey(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Verify(context.Background(), "fk_deadbeef_0000000000000000000000000000000000000000000000")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestVerifyRevokedKey(t *testing.T) {
	svc, restID := newService(t)
	ctx := context.Background()

	issued, err := svc.Issue(ctx, restID, "old terminal", []string{domain.ScopePOSRead})
	require.NoError(t, err)
	require.NoError(t, svc.Revoke(ctx, issued.Key.ID))

	_, err = svc.Verify(ctx, issued.Plaintext)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	assert.ErrorIs(t, svc.Revoke(ctx, issued.Key.ID), domain.ErrKeyRevoked)
}

func TestScopeChecks(t *testing.T) {
	svc, restID := newService(t)
	ctx := context.Background()

	issued, err := svc.Issue(ctx, restID, "reporting", []string{domain.ScopePOSRead})
	require.NoError(t, err)
	assert.True(t, issued.Key.HasScope(domain.ScopePOSRead))
	assert.False(t, issued.Key.HasScope(domain.ScopePaymentsWrite))

	admin, err := svc.Issue(ctx, restID, "back office", []string{domain.ScopeAdmin})
	require.NoError(t, err)
	assert.True(t, admin.Key.HasScope(domain.ScopePaymentsWrite), "admin implies every scope")
}

func TestListShowsOnlyDigests(t *testing.T) {
	svc, restID := newService(t)
	ctx := context.Background()

	issued, err := svc.Issue(ctx, restID, "kitchen POS", []string{domain.ScopePOSWrite})
	require.NoError(t, err)

	keys, err := svc.List(ctx, restID)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, issued.Key.KeyPrefix, keys[0].KeyPrefix)
	assert.NotEqual(t, issued.Plaintext, keys[0].LookupHash)
}
