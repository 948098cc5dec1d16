package server_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	apikeydomain "github.com/forkastlabs/forkast/internal/apikey/domain"
	apikeyrepo "github.com/forkastlabs/forkast/internal/apikey/repository"
	apikeyservice "github.com/forkastlabs/forkast/internal/apikey/service"
	"github.com/forkastlabs/forkast/internal/clock"
	"github.com/forkastlabs/forkast/internal/config"
	inventorydomain "github.com/forkastlabs/forkast/internal/inventory/domain"
	inventoryrepo "github.com/forkastlabs/forkast/internal/inventory/repository"
	inventoryservice "github.com/forkastlabs/forkast/internal/inventory/service"
	loyaltydomain "github.com/forkastlabs/forkast/internal/loyalty/domain"
	loyaltyrepo "github.com/forkastlabs/forkast/internal/loyalty/repository"
	loyaltyservice "github.com/forkastlabs/forkast/internal/loyalty/service"
	menudomain "github.com/forkastlabs/forkast/internal/menu/domain"
	menurepo "github.com/forkastlabs/forkast/internal/menu/repository"
	menuservice "github.com/forkastlabs/forkast/internal/menu/service"
	orderdomain "github.com/forkastlabs/forkast/internal/order/domain"
	orderrepo "github.com/forkastlabs/forkast/internal/order/repository"
	orderservice "github.com/forkastlabs/forkast/internal/order/service"
	paymentdomain "github.com/forkastlabs/forkast/internal/payment/domain"
	paymentrepo "github.com/forkastlabs/forkast/internal/payment/repository"
	paymentservice "github.com/forkastlabs/forkast/internal/payment/service"
	quotaservice "github.com/forkastlabs/forkast/internal/quota/service"
	restaurantdomain "github.com/forkastlabs/forkast/internal/restaurant/domain"
	restaurantrepo "github.com/forkastlabs/forkast/internal/restaurant/repository"
	"github.com/forkastlabs/forkast/internal/server"
	staffdomain "github.com/forkastlabs/forkast/internal/staff/domain"
	staffrepo "github.com/forkastlabs/forkast/internal/staff/repository"
	staffservice "github.com/forkastlabs/forkast/internal/staff/service"
	supplierdomain "github.com/forkastlabs/forkast/internal/supplier/domain"
	supplierrepo "github.com/forkastlabs/forkast/internal/supplier/repository"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)

type fixture struct {
	router   *gin.Engine
	orderSvc orderdomain.Service
	restID   snowflake.ID
	key      string
	posKey   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&restaurantdomain.Restaurant{},
		&supplierdomain.Supplier{},
		&menudomain.MenuItem{},
		&inventorydomain.InventoryItem{},
		&orderdomain.Order{},
		&orderdomain.OrderItem{},
		&staffdomain.ClockEvent{},
		&paymentdomain.Payment{},
		&loyaltydomain.Account{},
		&loyaltydomain.Transaction{},
		&apikeydomain.APIKey{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.Fixed{T: testNow}
	log := zap.NewNop()
	cfg := config.Config{
		Server: config.ServerConfig{Addr: ":0", Mode: gin.TestMode},
	}

	loyaltySvc := loyaltyservice.NewService(loyaltyservice.Params{
		DB: db, Log: log, GenID: node, Clock: clk,
		Repo:         loyaltyrepo.NewRepository(db),
		SupplierRepo: supplierrepo.NewRepository(db),
	})
	paymentSvc := paymentservice.NewService(paymentservice.Params{
		DB: db, Log: log, GenID: node, Clock: clk,
		Repo:    paymentrepo.NewRepository(db),
		Loyalty: loyaltySvc,
	})
	orderSvc := orderservice.NewService(orderservice.Params{
		Log: log, GenID: node, Clock: clk,
		Repo: orderrepo.NewRepository(db),
	})
	menuSvc := menuservice.NewService(menuservice.Params{
		Log: log, GenID: node, Clock: clk,
		Repo: menurepo.NewRepository(db),
	})
	inventorySvc := inventoryservice.NewService(inventoryservice.Params{
		Log: log, Clock: clk,
		Repo: inventoryrepo.NewRepository(db),
	})
	staffSvc := staffservice.NewService(staffservice.Params{
		Log: log, GenID: node, Clock: clk,
		Repo: staffrepo.NewRepository(db),
	})
	quotaSvc := quotaservice.NewService(quotaservice.Params{
		Log: log, Clock: clk, Config: cfg,
	})
	apiKeySvc := apikeyservice.NewService(apikeyservice.Params{
		Log: log, GenID: node, Clock: clk,
		Repo: apikeyrepo.NewRepository(db),
	})

	srv := server.New(server.Params{
		Config:         cfg,
		Log:            log,
		DB:             db,
		Clock:          clk,
		Loyalty:        loyaltySvc,
		Payments:       paymentSvc,
		Orders:         orderSvc,
		Menu:           menuSvc,
		Inventory:      inventorySvc,
		Staff:          staffSvc,
		Quota:          quotaSvc,
		APIKeys:        apiKeySvc,
		RestaurantRepo: restaurantrepo.NewRepository(db),
	})

	restID := node.Generate()
	admin, err := apiKeySvc.Issue(context.Background(), restID, "test admin", []string{apikeydomain.ScopeAdmin})
	require.NoError(t, err)
	posRead, err := apiKeySvc.Issue(context.Background(), restID, "read only", []string{apikeydomain.ScopePOSRead})
	require.NoError(t, err)

	return &fixture{
		router:   srv.Router(),
		orderSvc: orderSvc,
		restID:   restID,
		key:      admin.Plaintext,
		posKey:   posRead.Plaintext,
	}
}

func (f *fixture) do(t *testing.T, method, path, key, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if key != "" {
		req.Header.Set("X-API-Key", key)
	}
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoints(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMissingAPIKeyIsUnauthorized(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/loyalty/tiers", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListLoyaltyTiers(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/loyalty/tiers", f.key, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []loyaltydomain.Tier `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 5)
	assert.Equal(t, "standard", resp.Data[0].Name)
	assert.Equal(t, "platinum", resp.Data[4].Name)
}

func TestScopeEnforcement(t *testing.T) {
	f := newFixture(t)

	body := `{"covers":2,"items":[{"item_name":"Karak Chai","quantity":2,"unit_price":8}]}`
	w := f.do(t, http.MethodPost, "/api/v1/pos/orders", f.posKey, body)
	assert.Equal(t, http.StatusForbidden, w.Code, "pos:read key must not write orders")

	w = f.do(t, http.MethodPost, "/api/v1/pos/orders", f.key, body)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/pos/orders", f.key, `{"covers":2,"items":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestForecastFlow(t *testing.T) {
	f := newFixture(t)

	// Four weeks of history, one order per day.
	for i := 28; i >= 1; i-- {
		at := testNow.AddDate(0, 0, -i)
		_, err := f.orderSvc.Create(context.Background(), orderdomain.CreateRequest{
			RestaurantID: f.restID,
			Covers:       80 + i%7,
			OrderDate:    &at,
			Items:        []orderdomain.ItemRequest{{ItemName: "Chicken Shawarma", Quantity: 10, UnitPrice: 38}},
		})
		require.NoError(t, err)
	}

	w := f.do(t, http.MethodGet, "/api/v1/pos/forecasts?days_ahead=7", f.key, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 7)

	w = f.do(t, http.MethodGet, "/api/v1/pos/forecasts/model", f.key, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodGet, "/api/v1/pos/forecasts/insights", f.key, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestForecastWithoutHistory(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/pos/forecasts", f.key, "")
	assert.Equal(t, http.StatusBadRequest, w.Code, "no history means nothing to train on")
}

func TestPaymentLifecycleOverHTTP(t *testing.T) {
	f := newFixture(t)

	body := `{"supplier_amount":1000,"description":"weekly produce"}`
	w := f.do(t, http.MethodPost, "/api/v1/payments", f.key, body)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Data paymentdomain.Payment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 1150.0, created.Data.Amount)

	path := fmt.Sprintf("/api/v1/payments/%s/succeed", created.Data.ID)
	w = f.do(t, http.MethodPost, path, f.key, "")
	require.Equal(t, http.StatusOK, w.Code)

	// Second attempt conflicts: the payment is no longer pending.
	w = f.do(t, http.MethodPost, path, f.key, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRestaurantScoping(t *testing.T) {
	f := newFixture(t)

	// A pos-scoped key cannot masquerade as another restaurant.
	w := f.do(t, http.MethodGet, "/api/v1/pos/menu?restaurant_id=42", f.posKey, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// An admin key can.
	w = f.do(t, http.MethodGet, "/api/v1/pos/menu?restaurant_id=42", f.key, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
