package scheduler

import (
	"context"
	"time"

	"github.com/forkastlabs/forkast/internal/config"
	loyaltydomain "github.com/forkastlabs/forkast/internal/loyalty/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Config  config.Config
	Loyalty loyaltydomain.Service
}

// Scheduler periodically re-evaluates every loyalty account so tiers decay
// when orders age out of the rolling window, even for idle pairs no payment
// or fee lookup ever touches.
type Scheduler struct {
	log      *zap.Logger
	cfg      config.SchedulerConfig
	loyalty  loyaltydomain.Service
	stopped  chan struct{}
	stopOnce chan struct{}
}

func New(p Params) *Scheduler {
	return &Scheduler{
		log:      p.Log.Named("scheduler"),
		cfg:      p.Config.Scheduler,
		loyalty:  p.Loyalty,
		stopped:  make(chan struct{}),
		stopOnce: make(chan struct{}),
	}
}

var Module = fx.Module("scheduler",
	fx.Provide(New),
	fx.Invoke(register),
)

func register(lc fx.Lifecycle, s *Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if !s.cfg.Enabled {
				s.log.Info("scheduler disabled")
				return nil
			}
			go s.run()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if !s.cfg.Enabled {
				return nil
			}
			s.Stop()
			return nil
		},
	})
}

func (s *Scheduler) run() {
	interval := time.Duration(s.cfg.LoyaltyEvaluateInterval) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}
	s.log.Info("scheduler started", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer close(s.stopped)

	for {
		select {
		case <-ticker.C:
			s.EvaluateLoyaltyJob(context.Background())
		case <-s.stopOnce:
			return
		}
	}
}

// EvaluateLoyaltyJob runs one full pass. Exported so the scheduler command
// can trigger it ad hoc.
func (s *Scheduler) EvaluateLoyaltyJob(ctx context.Context) {
	start := time.Now()
	summary, err := s.loyalty.EvaluateAllAccounts(ctx)
	if err != nil {
		s.log.Error("loyalty evaluation job failed", zap.Error(err))
		return
	}
	s.log.Info("loyalty evaluation job completed",
		zap.Int("total_accounts", summary.TotalAccounts),
		zap.Int("upgrades", summary.Upgrades),
		zap.Int("downgrades", summary.Downgrades),
		zap.Int("unchanged", summary.Unchanged),
		zap.Duration("took", time.Since(start)),
	)
}

func (s *Scheduler) Stop() {
	select {
	case <-s.stopOnce:
		return
	default:
		close(s.stopOnce)
	}
	select {
	case <-s.stopped:
	case <-time.After(5 * time.Second):
		s.log.Warn("scheduler stop timed out")
	}
}
