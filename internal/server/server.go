package server

import (
	"context"
	"net/http"
	"time"

	apikeydomain "github.com/forkastlabs/forkast/internal/apikey/domain"
	"github.com/forkastlabs/forkast/internal/clock"
	"github.com/forkastlabs/forkast/internal/config"
	inventorydomain "github.com/forkastlabs/forkast/internal/inventory/domain"
	loyaltydomain "github.com/forkastlabs/forkast/internal/loyalty/domain"
	menudomain "github.com/forkastlabs/forkast/internal/menu/domain"
	orderdomain "github.com/forkastlabs/forkast/internal/order/domain"
	paymentdomain "github.com/forkastlabs/forkast/internal/payment/domain"
	quotadomain "github.com/forkastlabs/forkast/internal/quota/domain"
	restaurantdomain "github.com/forkastlabs/forkast/internal/restaurant/domain"
	staffdomain "github.com/forkastlabs/forkast/internal/staff/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Config config.Config
	Log    *zap.Logger
	DB     *gorm.DB
	Clock  clock.Clock

	Loyalty        loyaltydomain.Service
	Payments       paymentdomain.Service
	Orders         orderdomain.Service
	Menu           menudomain.Service
	Inventory      inventorydomain.Service
	Staff          staffdomain.Service
	Quota          quotadomain.Service
	APIKeys        apikeydomain.Service
	RestaurantRepo restaurantdomain.Repository
}

type Server struct {
	cfg config.Config
	log *zap.Logger
	db  *gorm.DB
	clk clock.Clock

	loyaltySvc     loyaltydomain.Service
	paymentSvc     paymentdomain.Service
	orderSvc       orderdomain.Service
	menuSvc        menudomain.Service
	inventorySvc   inventorydomain.Service
	staffSvc       staffdomain.Service
	quotaSvc       quotadomain.Service
	apiKeySvc      apikeydomain.Service
	restaurantRepo restaurantdomain.Repository
}

func New(p Params) *Server {
	return &Server{
		cfg:            p.Config,
		log:            p.Log.Named("server"),
		db:             p.DB,
		clk:            p.Clock,
		loyaltySvc:     p.Loyalty,
		paymentSvc:     p.Payments,
		orderSvc:       p.Orders,
		menuSvc:        p.Menu,
		inventorySvc:   p.Inventory,
		staffSvc:       p.Staff,
		quotaSvc:       p.Quota,
		apiKeySvc:      p.APIKeys,
		restaurantRepo: p.RestaurantRepo,
	}
}

var Module = fx.Module("server",
	fx.Provide(New),
	fx.Invoke(register),
)

func (s *Server) Router() *gin.Engine {
	gin.SetMode(s.cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())

	r.GET("/healthz", s.Healthz)
	r.GET("/readyz", s.Readyz)
	if s.cfg.Telemetry.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	v1 := r.Group("/api/v1")

	loyalty := v1.Group("/loyalty", s.APIKeyRequired())
	{
		loyalty.GET("/tiers", s.ListLoyaltyTiers)
		loyalty.GET("/summary", s.GetLoyaltySummary)
		loyalty.GET("/accounts", s.ListLoyaltyAccounts)
		loyalty.GET("/accounts/:supplier_id", s.GetLoyaltyAccount)
		loyalty.GET("/accounts/:supplier_id/history", s.GetLoyaltyHistory)
		loyalty.POST("/evaluate", s.RequireScope(apikeydomain.ScopeAdmin), s.EvaluateLoyaltyAccounts)
	}

	pos := v1.Group("/pos", s.APIKeyRequired())
	{
		pos.POST("/orders", s.RequireScope(apikeydomain.ScopePOSWrite), s.CreateOrder)
		pos.GET("/orders", s.RequireScope(apikeydomain.ScopePOSRead), s.ListOrders)
		pos.GET("/orders/:id", s.RequireScope(apikeydomain.ScopePOSRead), s.GetOrder)
		pos.POST("/menu/sync", s.RequireScope(apikeydomain.ScopePOSWrite), s.SyncMenu)
		pos.GET("/menu", s.RequireScope(apikeydomain.ScopePOSRead), s.GetMenu)
		pos.PATCH("/menu/:id", s.RequireScope(apikeydomain.ScopePOSWrite), s.UpdateMenuItem)
		pos.GET("/inventory", s.RequireScope(apikeydomain.ScopePOSRead), s.GetInventory)
		pos.POST("/inventory/update", s.RequireScope(apikeydomain.ScopePOSWrite), s.UpdateInventory)
		pos.POST("/staff/clock-in", s.RequireScope(apikeydomain.ScopePOSWrite), s.StaffClockIn)
		pos.POST("/staff/clock-out", s.RequireScope(apikeydomain.ScopePOSWrite), s.StaffClockOut)
		pos.GET("/staff/schedule", s.RequireScope(apikeydomain.ScopePOSRead), s.GetStaffSchedule)
		pos.GET("/forecasts", s.RequireScope(apikeydomain.ScopePOSRead), s.GetForecasts)
		pos.GET("/forecasts/items", s.RequireScope(apikeydomain.ScopePOSRead), s.GetItemForecasts)
		pos.GET("/forecasts/insights", s.RequireScope(apikeydomain.ScopePOSRead), s.GetForecastInsights)
		pos.GET("/forecasts/model", s.RequireScope(apikeydomain.ScopePOSRead), s.GetForecastModel)
	}

	payments := v1.Group("/payments", s.APIKeyRequired())
	{
		payments.POST("", s.RequireScope(apikeydomain.ScopePaymentsWrite), s.CreatePayment)
		payments.GET("", s.RequireScope(apikeydomain.ScopePaymentsRead), s.ListPayments)
		payments.GET("/:id", s.RequireScope(apikeydomain.ScopePaymentsRead), s.GetPayment)
		payments.POST("/:id/succeed", s.RequireScope(apikeydomain.ScopePaymentsWrite), s.SucceedPayment)
		payments.POST("/:id/fail", s.RequireScope(apikeydomain.ScopePaymentsWrite), s.FailPayment)
	}

	return r
}

func register(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.log.Info("http server starting", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}
