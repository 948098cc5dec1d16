package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/forkastlabs/forkast/internal/clock"
	"github.com/forkastlabs/forkast/internal/loyalty/domain"
	supplierdomain "github.com/forkastlabs/forkast/internal/supplier/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Repo         domain.Repository
	SupplierRepo supplierdomain.Repository
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	clk          clock.Clock
	repo         domain.Repository
	supplierRepo supplierdomain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("loyalty.service"),
		genID:        p.GenID,
		clk:          p.Clock,
		repo:         p.Repo,
		supplierRepo: p.SupplierRepo,
	}
}

func (s *Service) TierDefinitions() []domain.Tier {
	return domain.Tiers
}

func (s *Service) GetOrCreateAccount(ctx context.Context, restaurantID, supplierID snowflake.ID) (*domain.Account, error) {
	account, err := s.repo.FindAccount(ctx, nil, restaurantID, supplierID)
	if err != nil {
		return nil, err
	}
	if account != nil {
		return account, nil
	}

	now := s.clk.Now(ctx)
	base := domain.Tiers[0]
	account = &domain.Account{
		ID:            s.genID.Generate(),
		RestaurantID:  restaurantID,
		SupplierID:    supplierID,
		CurrentTier:   base.Name,
		DiscountPct:   base.DiscountPct,
		EffectiveFee:  base.EffectiveFee,
		LastEvaluated: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.InsertAccount(ctx, nil, account); err != nil {
		// A concurrent caller won the insert race; the unique constraint on
		// (restaurant_id, supplier_id) is the authority. Re-fetch theirs.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, findErr := s.repo.FindAccount(ctx, nil, restaurantID, supplierID)
			if findErr != nil {
				return nil, findErr
			}
			if existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}
	return account, nil
}

func (s *Service) CountRecentOrders(ctx context.Context, restaurantID, supplierID snowflake.ID, windowDays int) (int, error) {
	if windowDays <= 0 {
		windowDays = domain.RollingWindowDays
	}
	cutoff := s.clk.Now(ctx).AddDate(0, 0, -windowDays)
	count, err := s.repo.CountSucceededPayments(ctx, nil, restaurantID, supplierID, cutoff)
	return int(count), err
}

// EvaluateTier recomputes the rolling count, resolves the tier and persists
// the refreshed account state. A tier change appends a transition entry to
// the transaction log.
func (s *Service) EvaluateTier(ctx context.Context, account *domain.Account) (bool, error) {
	orders90d, err := s.CountRecentOrders(ctx, account.RestaurantID, account.SupplierID, domain.RollingWindowDays)
	if err != nil {
		return false, err
	}

	newTier := domain.TierForOrders(orders90d)
	oldTier := account.CurrentTier
	changed := oldTier != newTier.Name

	now := s.clk.Now(ctx)
	account.Orders90d = orders90d
	account.CurrentTier = newTier.Name
	account.DiscountPct = newTier.DiscountPct
	account.EffectiveFee = newTier.EffectiveFee
	account.LastEvaluated = now
	account.UpdatedAt = now

	if err := s.repo.UpdateAccount(ctx, nil, account); err != nil {
		return false, err
	}

	if changed {
		eventType := domain.EventTierDowngrade
		if domain.TierIndex(newTier.Name) > domain.TierIndex(oldTier) {
			eventType = domain.EventTierUpgrade
		}
		entry := &domain.Transaction{
			ID:         s.genID.Generate(),
			AccountID:  account.ID,
			EventType:  eventType,
			OrderCount: orders90d,
			OldTier:    oldTier,
			NewTier:    newTier.Name,
			Note:       fmt.Sprintf("Tier changed: %s -> %s (%d orders in 90d)", oldTier, newTier.Name, orders90d),
			CreatedAt:  now,
		}
		if err := s.repo.InsertTransaction(ctx, nil, entry); err != nil {
			return false, err
		}
		s.log.Info("loyalty tier changed",
			zap.String("restaurant_id", account.RestaurantID.String()),
			zap.String("supplier_id", account.SupplierID.String()),
			zap.String("old_tier", oldTier),
			zap.String("new_tier", newTier.Name),
			zap.Int("orders_90d", orders90d),
		)
	}

	return changed, nil
}

// RecordPayment runs the deliberate two-phase sequence: log the payment event
// with a provisional order count first, evaluate the tier, then correct the
// logged row to the authoritative post-evaluation numbers. A failure between
// the phases leaves a provisional-but-valid audit entry, never a missing one.
func (s *Service) RecordPayment(ctx context.Context, restaurantID, supplierID, paymentID snowflake.ID, amount, discountApplied float64) error {
	account, err := s.GetOrCreateAccount(ctx, restaurantID, supplierID)
	if err != nil {
		return err
	}

	now := s.clk.Now(ctx)
	account.TotalOrders++
	account.TotalSpent += amount
	account.UpdatedAt = now

	entry := &domain.Transaction{
		ID:              s.genID.Generate(),
		AccountID:       account.ID,
		EventType:       domain.EventPaymentCompleted,
		PaymentID:       &paymentID,
		OrderCount:      account.Orders90d + 1, // provisional, corrected after evaluation
		OldTier:         account.CurrentTier,
		NewTier:         account.CurrentTier,
		Amount:          amount,
		DiscountApplied: discountApplied,
		Note:            fmt.Sprintf("Payment %s: AED %.2f", paymentID, amount),
		CreatedAt:       now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.UpdateAccount(ctx, tx, account); err != nil {
			return err
		}
		return s.repo.InsertTransaction(ctx, tx, entry)
	})
	if err != nil {
		return err
	}

	if _, err := s.EvaluateTier(ctx, account); err != nil {
		return err
	}

	entry.NewTier = account.CurrentTier
	entry.OrderCount = account.Orders90d
	return s.repo.UpdateTransaction(ctx, nil, entry)
}

// EffectiveFee is a read-with-refresh: when an account exists its tier is
// re-evaluated before the fee is returned, which may persist a transition.
func (s *Service) EffectiveFee(ctx context.Context, restaurantID, supplierID snowflake.ID) (float64, error) {
	if supplierID == 0 {
		return domain.BaseFeePct, nil
	}

	account, err := s.repo.FindAccount(ctx, nil, restaurantID, supplierID)
	if err != nil {
		return 0, err
	}
	if account == nil {
		return domain.BaseFeePct, nil
	}

	if _, err := s.EvaluateTier(ctx, account); err != nil {
		return 0, err
	}
	return account.EffectiveFee, nil
}

func (s *Service) EvaluateAllAccounts(ctx context.Context) (domain.EvaluationSummary, error) {
	accounts, err := s.repo.ListAllAccounts(ctx, nil)
	if err != nil {
		return domain.EvaluationSummary{}, err
	}

	summary := domain.EvaluationSummary{TotalAccounts: len(accounts)}
	for _, account := range accounts {
		oldIdx := domain.TierIndex(account.CurrentTier)
		changed, err := s.EvaluateTier(ctx, account)
		if err != nil {
			return summary, err
		}
		switch {
		case !changed:
			summary.Unchanged++
		case domain.TierIndex(account.CurrentTier) > oldIdx:
			summary.Upgrades++
		default:
			summary.Downgrades++
		}
	}
	return summary, nil
}

func (s *Service) Account(ctx context.Context, restaurantID, supplierID snowflake.ID) (*domain.AccountView, error) {
	account, err := s.repo.FindAccount(ctx, nil, restaurantID, supplierID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}
	view := s.toView(ctx, account)
	return &view, nil
}

func (s *Service) Accounts(ctx context.Context, restaurantID snowflake.ID) ([]domain.AccountView, error) {
	accounts, err := s.repo.ListAccountsByRestaurant(ctx, nil, restaurantID)
	if err != nil {
		return nil, err
	}
	views := make([]domain.AccountView, 0, len(accounts))
	for _, account := range accounts {
		views = append(views, s.toView(ctx, account))
	}
	sortViewsByTier(views)
	return views, nil
}

func (s *Service) History(ctx context.Context, restaurantID, supplierID snowflake.ID, limit int) ([]*domain.Transaction, error) {
	account, err := s.repo.FindAccount(ctx, nil, restaurantID, supplierID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, domain.ErrAccountNotFound
	}
	if limit <= 0 {
		limit = 100
	}
	return s.repo.ListTransactions(ctx, nil, account.ID, limit)
}

func (s *Service) Summary(ctx context.Context, restaurantID snowflake.ID) (*domain.Summary, error) {
	accounts, err := s.repo.ListAccountsByRestaurant(ctx, nil, restaurantID)
	if err != nil {
		return nil, err
	}

	summary := &domain.Summary{
		TotalSupplierAccounts: len(accounts),
		ActiveTiers:           make(map[string]int),
		Accounts:              make([]domain.AccountView, 0, len(accounts)),
	}

	var discountSum float64
	for _, account := range accounts {
		summary.ActiveTiers[account.CurrentTier]++
		summary.TotalLifetimeOrders += account.TotalOrders
		summary.TotalLifetimeSpent += account.TotalSpent
		discountSum += account.DiscountPct

		savings, err := s.repo.SumDiscountApplied(ctx, nil, account.ID)
		if err != nil {
			return nil, err
		}
		summary.TotalSavings += savings
		summary.Accounts = append(summary.Accounts, s.toView(ctx, account))
	}
	if len(accounts) > 0 {
		summary.AvgDiscountPct = discountSum / float64(len(accounts))
	}
	sortViewsByTier(summary.Accounts)
	return summary, nil
}

func (s *Service) toView(ctx context.Context, account *domain.Account) domain.AccountView {
	view := domain.AccountView{
		ID:            account.ID,
		RestaurantID:  account.RestaurantID,
		SupplierID:    account.SupplierID,
		SupplierName:  account.SupplierID.String(),
		CurrentTier:   account.CurrentTier,
		Orders90d:     account.Orders90d,
		TotalOrders:   account.TotalOrders,
		TotalSpent:    account.TotalSpent,
		DiscountPct:   account.DiscountPct,
		EffectiveFee:  account.EffectiveFee,
		LastEvaluated: account.LastEvaluated,
		CreatedAt:     account.CreatedAt,
		UpdatedAt:     account.UpdatedAt,
	}

	if supplier, err := s.supplierRepo.FindByID(ctx, nil, account.SupplierID); err == nil && supplier != nil {
		view.SupplierName = supplier.Name
	}

	if next, ok := domain.NextTier(account.CurrentTier); ok {
		name := next.Name
		toNext := next.MinOrders - account.Orders90d
		if toNext < 0 {
			toNext = 0
		}
		view.NextTier = &name
		view.OrdersToNextTier = &toNext
	}
	return view
}

func sortViewsByTier(views []domain.AccountView) {
	// Highest tier first, as the dashboard lists accounts.
	for i := 1; i < len(views); i++ {
		for j := i; j > 0 && domain.TierIndex(views[j].CurrentTier) > domain.TierIndex(views[j-1].CurrentTier); j-- {
			views[j], views[j-1] = views[j-1], views[j]
		}
	}
}
