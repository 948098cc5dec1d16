package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/forkastlabs/forkast/internal/apikey/domain"
	"github.com/forkastlabs/forkast/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Issued keys look like fk_<prefix>_<secret>. The prefix is stored in clear
// for operator display; everything else is digested.
const (
	keyNamespace = "fk"
	prefixBytes  = 4
	secretBytes  = 24
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
		log:   p.Log.Named("apikey.service"),
		genID: p.GenID,
		clk:   p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Issue(ctx context.Context, restaurantID snowflake.ID, name string, scopes []string) (*domain.IssuedKey, error) {
	prefix, err := randomHex(prefixBytes)
	if err != nil {
		return nil, err
	}
	secret, err := randomHex(secretBytes)
	if err != nil {
		return nil, err
	}
	plaintext := keyNamespace + "_" + prefix + "_" + secret

	secretHash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.clk.Now(ctx)
	key := &domain.APIKey{
		ID:           s.genID.Generate(),
		RestaurantID: restaurantID,
		Name:         name,
		KeyPrefix:    keyNamespace + "_" + prefix,
		LookupHash:   lookupHash(plaintext),
		SecretHash:   string(secretHash),
		Scopes:       strings.Join(scopes, ","),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Insert(ctx, nil, key); err != nil {
		return nil, err
	}

	s.log.Info("api key issued",
		zap.String("key_id", key.ID.String()),
		zap.String("restaurant_id", restaurantID.String()),
		zap.String("prefix", key.KeyPrefix),
		zap.Strings("scopes", scopes),
	)
	return &domain.IssuedKey{Key: key, Plaintext: plaintext}, nil
}

func (s *Service) Verify(ctx context.Context, plaintext string) (*domain.APIKey, error) {
	key, err := s.repo.FindByLookupHash(ctx, nil, lookupHash(plaintext))
	if err != nil {
		return nil, err
	}
	if key == nil || !key.IsActive {
		return nil, domain.ErrKeyNotFound
	}

	parts := strings.Split(plaintext, "_")
	secret := parts[len(parts)-1]
	if bcrypt.CompareHashAndPassword([]byte(key.SecretHash), []byte(secret)) != nil {
		return nil, domain.ErrKeyNotFound
	}

	now := s.clk.Now(ctx)
	key.RequestCount++
	key.LastUsedAt = &now
	key.UpdatedAt = now
	if err := s.repo.Update(ctx, nil, key); err != nil {
		// Usage tracking is best effort; the caller is already authenticated.
		s.log.Warn("api key usage update failed", zap.Error(err))
	}
	return key, nil
}

func (s *Service) Revoke(ctx context.Context, id snowflake.ID) error {
	key, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return err
	}
	if key == nil {
		return domain.ErrKeyNotFound
	}
	if !key.IsActive {
		return domain.ErrKeyRevoked
	}

	key.IsActive = false
	key.UpdatedAt = s.clk.Now(ctx)
	return s.repo.Update(ctx, nil, key)
}

func (s *Service) List(ctx context.Context, restaurantID snowflake.ID) ([]*domain.APIKey, error) {
	return s.repo.ListByRestaurant(ctx, nil, restaurantID)
}

func lookupHash(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
