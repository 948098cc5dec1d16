package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/forkastlabs/forkast/internal/clock"
	loyaltydomain "github.com/forkastlabs/forkast/internal/loyalty/domain"
	"github.com/forkastlabs/forkast/internal/payment/domain"
	"github.com/forkastlabs/forkast/pkg/db/pagination"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Loyalty loyaltydomain.Service
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clk     clock.Clock
	repo    domain.Repository
	loyalty loyaltydomain.Service
}

func NewService(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("payment.service"),
		genID:   p.GenID,
		clk:     p.Clock,
		repo:    p.Repo,
		loyalty: p.Loyalty,
	}
}

// Create prices a pending payment. The platform fee percentage comes from the
// pair's loyalty tier at creation time and is frozen on the row, so a later
// tier change never reprices an existing payment.
func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Payment, error) {
	if req.SupplierAmount <= 0 {
		return nil, domain.ErrInvalidAmount
	}

	var supplierID snowflake.ID
	if req.SupplierID != nil {
		supplierID = *req.SupplierID
	}
	feePct, err := s.loyalty.EffectiveFee(ctx, req.RestaurantID, supplierID)
	if err != nil {
		return nil, err
	}

	currency := strings.ToLower(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "aed"
	}

	now := s.clk.Now(ctx)
	fee := round2(req.SupplierAmount * feePct / 100)
	payment := &domain.Payment{
		ID:             s.genID.Generate(),
		RestaurantID:   req.RestaurantID,
		SupplierID:     req.SupplierID,
		Reference:      "pay_" + uuid.NewString(),
		Amount:         round2(req.SupplierAmount + fee),
		SupplierAmount: req.SupplierAmount,
		PlatformFee:    fee,
		PlatformFeePct: feePct,
		DiscountPct:    loyaltydomain.BaseFeePct - feePct,
		Currency:       currency,
		Status:         domain.StatusPending,
		Description:    req.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Insert(ctx, nil, payment); err != nil {
		return nil, err
	}

	s.log.Info("payment created",
		zap.String("payment_id", payment.ID.String()),
		zap.String("reference", payment.Reference),
		zap.Float64("amount", payment.Amount),
		zap.Float64("platform_fee_pct", payment.PlatformFeePct),
	)
	return payment, nil
}

// MarkSucceeded completes a pending payment and reports it to the loyalty
// engine. The status flip is persisted before the loyalty call so a loyalty
// failure never un-succeeds a payment.
func (s *Service) MarkSucceeded(ctx context.Context, id snowflake.ID) (*domain.Payment, error) {
	payment, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domain.ErrNotFound
	}
	if payment.Status != domain.StatusPending {
		return nil, domain.ErrNotPending
	}

	payment.Status = domain.StatusSucceeded
	payment.UpdatedAt = s.clk.Now(ctx)
	if err := s.repo.Update(ctx, nil, payment); err != nil {
		return nil, err
	}

	if payment.SupplierID != nil {
		discountApplied := round2(payment.SupplierAmount * payment.DiscountPct / 100)
		if err := s.loyalty.RecordPayment(ctx, payment.RestaurantID, *payment.SupplierID, payment.ID, payment.SupplierAmount, discountApplied); err != nil {
			return nil, err
		}
	}
	return payment, nil
}

func (s *Service) MarkFailed(ctx context.Context, id snowflake.ID) (*domain.Payment, error) {
	payment, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domain.ErrNotFound
	}
	if payment.Status != domain.StatusPending {
		return nil, domain.ErrNotPending
	}

	payment.Status = domain.StatusFailed
	payment.UpdatedAt = s.clk.Now(ctx)
	if err := s.repo.Update(ctx, nil, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Payment, error) {
	payment, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domain.ErrNotFound
	}
	return payment, nil
}

func (s *Service) List(ctx context.Context, restaurantID snowflake.ID, page pagination.Pagination) (*domain.ListResponse, error) {
	pageSize := page.PageSize
	if pageSize <= 0 {
		pageSize = 100
	} else if pageSize > 500 {
		pageSize = 500
	}

	cursor, err := decodeListCursor(page.PageToken)
	if err != nil {
		return nil, err
	}

	// One extra row tells us whether another page exists.
	items, err := s.repo.ListByRestaurant(ctx, nil, restaurantID, cursor, pageSize+1)
	if err != nil {
		return nil, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(p *domain.Payment) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        p.ID.String(),
			CreatedAt: p.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > pageSize {
		items = items[:pageSize]
	}

	resp := &domain.ListResponse{Payments: items}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func decodeListCursor(token string) (*domain.ListCursor, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := pagination.DecodeCursor(token)
	if err != nil {
		return nil, domain.ErrInvalidPageToken
	}
	createdAt, err := time.Parse(time.RFC3339Nano, raw.CreatedAt)
	if err != nil {
		return nil, domain.ErrInvalidPageToken
	}
	id, err := snowflake.ParseString(raw.ID)
	if err != nil {
		return nil, domain.ErrInvalidPageToken
	}
	return &domain.ListCursor{CreatedAt: createdAt, ID: id}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
