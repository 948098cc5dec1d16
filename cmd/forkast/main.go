package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/forkastlabs/forkast/internal/apikey"
	"github.com/forkastlabs/forkast/internal/clock"
	"github.com/forkastlabs/forkast/internal/config"
	"github.com/forkastlabs/forkast/internal/inventory"
	"github.com/forkastlabs/forkast/internal/loyalty"
	"github.com/forkastlabs/forkast/internal/menu"
	"github.com/forkastlabs/forkast/internal/migration"
	"github.com/forkastlabs/forkast/internal/observability"
	"github.com/forkastlabs/forkast/internal/order"
	"github.com/forkastlabs/forkast/internal/payment"
	"github.com/forkastlabs/forkast/internal/quota"
	"github.com/forkastlabs/forkast/internal/redis"
	"github.com/forkastlabs/forkast/internal/restaurant"
	"github.com/forkastlabs/forkast/internal/scheduler"
	"github.com/forkastlabs/forkast/internal/seed"
	"github.com/forkastlabs/forkast/internal/server"
	"github.com/forkastlabs/forkast/internal/staff"
	"github.com/forkastlabs/forkast/internal/supplier"
	"github.com/forkastlabs/forkast/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "forkast",
		Short:   "Forkast CLI",
		Version: readVersionFromEnv(),
	}
	root.AddCommand(newMigrateCmd(), newSeedCmd(), newServeCmd(), newSchedulerCmd(), newAllCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate()
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo restaurant, menu, orders and loyalty history",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed()
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the POS + loyalty API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			runServe()
			return nil
		},
	}
}

func newSchedulerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scheduler",
		Short: "Run background loyalty evaluation workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			runScheduler()
			return nil
		},
	}
}

func newAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run migrations, then start API server and scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runMigrate(); err != nil {
				return err
			}
			runMonolith()
			return nil
		},
	}
}

func runMigrate() error {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		migration.Module,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}
	_ = app.Stop(context.Background())
	return nil
}

func runSeed() error {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		domainModules(),
		seed.Module,
		fx.Invoke(func(s *seed.Seeder) error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			return s.Run(ctx)
		}),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	_ = app.Stop(context.Background())
	return nil
}

func runServe() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		redis.Module,
		domainModules(),
		scheduler.Module,
		server.Module,
	)
	app.Run()
}

func runScheduler() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		domainModules(),
		scheduler.Module,
	)
	app.Run()
}

func runMonolith() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		redis.Module,
		domainModules(),
		server.Module,
		scheduler.Module,
	)
	app.Run()
}

func domainModules() fx.Option {
	return fx.Options(
		restaurant.Module,
		supplier.Module,
		menu.Module,
		inventory.Module,
		order.Module,
		staff.Module,
		loyalty.Module,
		payment.Module,
		quota.Module,
		apikey.Module,
	)
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func readVersionFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	return "dev"
}
