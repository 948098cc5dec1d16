package seed

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/bwmarrin/snowflake"
	apikeydomain "github.com/forkastlabs/forkast/internal/apikey/domain"
	"github.com/forkastlabs/forkast/internal/clock"
	inventorydomain "github.com/forkastlabs/forkast/internal/inventory/domain"
	loyaltydomain "github.com/forkastlabs/forkast/internal/loyalty/domain"
	menudomain "github.com/forkastlabs/forkast/internal/menu/domain"
	orderdomain "github.com/forkastlabs/forkast/internal/order/domain"
	paymentdomain "github.com/forkastlabs/forkast/internal/payment/domain"
	restaurantdomain "github.com/forkastlabs/forkast/internal/restaurant/domain"
	supplierdomain "github.com/forkastlabs/forkast/internal/supplier/domain"
	"github.com/gosimple/slug"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// historyDays covers the loyalty rolling window exactly, so the seeded
// payments all count toward tiers and the forecast engine gets a full
// quarter of history.
const (
	historyDays = 90
	randSeed    = 42
)

type Params struct {
	fx.In

	Log            *zap.Logger
	GenID          *snowflake.Node
	Clock          clock.Clock
	RestaurantRepo restaurantdomain.Repository
	SupplierRepo   supplierdomain.Repository
	MenuService    menudomain.Service
	InventoryRepo  inventorydomain.Repository
	OrderService   orderdomain.Service
	PaymentRepo    paymentdomain.Repository
	Loyalty        loyaltydomain.Service
	APIKeys        apikeydomain.Service
}

type Seeder struct {
	log            *zap.Logger
	genID          *snowflake.Node
	clk            clock.Clock
	restaurantRepo restaurantdomain.Repository
	supplierRepo   supplierdomain.Repository
	menuService    menudomain.Service
	inventoryRepo  inventorydomain.Repository
	orderService   orderdomain.Service
	paymentRepo    paymentdomain.Repository
	loyalty        loyaltydomain.Service
	apiKeys        apikeydomain.Service
	rng            *rand.Rand
}

func NewSeeder(p Params) *Seeder {
	return &Seeder{
		log:            p.Log.Named("seed"),
		genID:          p.GenID,
		clk:            p.Clock,
		restaurantRepo: p.RestaurantRepo,
		supplierRepo:   p.SupplierRepo,
		menuService:    p.MenuService,
		inventoryRepo:  p.InventoryRepo,
		orderService:   p.OrderService,
		paymentRepo:    p.PaymentRepo,
		loyalty:        p.Loyalty,
		apiKeys:        p.APIKeys,
		rng:            rand.New(rand.NewSource(randSeed)),
	}
}

var Module = fx.Module("seed",
	fx.Provide(NewSeeder),
)

// Run populates the demo dataset: one restaurant, its suppliers, menu,
// inventory, a quarter of orders with MENA weekend peaks, and succeeded
// supplier payments that exercise the loyalty tiers. Idempotent: a second
// run against the same database is a no-op.
func (s *Seeder) Run(ctx context.Context) error {
	code := slug.Make("Al Safwa Kitchen")
	if existing, err := s.restaurantRepo.FindByCode(ctx, nil, code); err != nil {
		return err
	} else if existing != nil {
		s.log.Info("demo data already present, skipping", zap.String("code", code))
		return nil
	}

	now := s.clk.Now(ctx)
	restaurant := &restaurantdomain.Restaurant{
		ID:             s.genID.Generate(),
		Code:           code,
		Name:           "Al Safwa Kitchen",
		RestaurantType: "casual_dining",
		Cuisine:        "arabic",
		City:           "Dubai",
		Country:        "UAE",
		Seats:          65,
		AvgDailyCovers: 95,
		OperatingHours: "11:00-23:00",
		StaffCount:     18,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.restaurantRepo.Insert(ctx, nil, restaurant); err != nil {
		return err
	}

	suppliers, err := s.seedSuppliers(ctx, now)
	if err != nil {
		return err
	}
	menu, err := s.seedMenu(ctx, restaurant.ID)
	if err != nil {
		return err
	}
	if err := s.seedInventory(ctx, restaurant.ID, suppliers, now); err != nil {
		return err
	}
	if err := s.seedOrders(ctx, restaurant.ID, menu, now); err != nil {
		return err
	}
	if err := s.seedPayments(ctx, restaurant.ID, suppliers, now); err != nil {
		return err
	}

	issued, err := s.apiKeys.Issue(ctx, restaurant.ID, "Demo terminal", []string{
		apikeydomain.ScopePOSRead,
		apikeydomain.ScopePOSWrite,
		apikeydomain.ScopePaymentsRead,
		apikeydomain.ScopePaymentsWrite,
	})
	if err != nil {
		return err
	}

	s.log.Info("demo data seeded",
		zap.String("restaurant", restaurant.Name),
		zap.String("code", restaurant.Code),
		zap.String("api_key", issued.Plaintext),
	)
	return nil
}

func (s *Seeder) seedSuppliers(ctx context.Context, now time.Time) ([]*supplierdomain.Supplier, error) {
	rows := []struct {
		name       string
		categories string
		city       string
		leadDays   float64
		minOrder   float64
		score      float64
	}{
		{"Al Jazira Foods", `["protein","dairy"]`, "Dubai", 1.0, 500, 0.95},
		{"Gulf Fresh Produce", `["produce"]`, "Sharjah", 0.5, 200, 0.88},
		{"Emirates Dry Goods", `["dry_goods","grains","spices"]`, "Dubai", 2.0, 300, 0.92},
		{"MENA Oils & Condiments", `["oils","spices"]`, "Abu Dhabi", 3.0, 150, 0.82},
		{"PackRight Solutions", `["packaging"]`, "Dubai", 2.0, 100, 0.90},
		{"Seafood Direct", `["protein"]`, "Dubai", 0.5, 400, 0.93},
		{"Farm to Table UAE", `["produce","dairy"]`, "Al Ain", 1.5, 250, 0.90},
	}

	suppliers := make([]*supplierdomain.Supplier, 0, len(rows))
	for _, row := range rows {
		supplier := &supplierdomain.Supplier{
			ID:               s.genID.Generate(),
			Name:             row.name,
			Categories:       datatypes.JSON(row.categories),
			City:             row.city,
			Country:          "UAE",
			LeadTimeDays:     row.leadDays,
			MinOrderValue:    row.minOrder,
			ReliabilityScore: row.score,
			IsActive:         true,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		if err := s.supplierRepo.Insert(ctx, nil, supplier); err != nil {
			return nil, err
		}
		suppliers = append(suppliers, supplier)
	}
	return suppliers, nil
}

func (s *Seeder) seedMenu(ctx context.Context, restaurantID snowflake.ID) ([]*menudomain.MenuItem, error) {
	items := []menudomain.SyncItem{
		{Name: "Hummus Classic", Category: "appetizer", Price: 22, Cost: 5.5, Ingredients: datatypes.JSON(`["chickpeas","tahini","lemon","garlic"]`), PrepTimeMin: 10},
		{Name: "Fattoush Salad", Category: "appetizer", Price: 25, Cost: 6, Ingredients: datatypes.JSON(`["lettuce","tomato","cucumber","pita","sumac"]`), PrepTimeMin: 8},
		{Name: "Falafel Plate", Category: "appetizer", Price: 20, Cost: 4.5, Ingredients: datatypes.JSON(`["chickpeas","herbs","spices"]`), PrepTimeMin: 12},
		{Name: "Kibbeh", Category: "appetizer", Price: 30, Cost: 8.5, Ingredients: datatypes.JSON(`["bulgur","lamb","onion","pine_nuts"]`), PrepTimeMin: 18},
		{Name: "Mixed Grill Platter", Category: "main", Price: 75, Cost: 22, Ingredients: datatypes.JSON(`["lamb","chicken","beef","rice"]`), PrepTimeMin: 25},
		{Name: "Chicken Shawarma", Category: "main", Price: 38, Cost: 10, Ingredients: datatypes.JSON(`["chicken","garlic_sauce","pickles","bread"]`), PrepTimeMin: 15},
		{Name: "Grilled Sea Bass", Category: "main", Price: 85, Cost: 28, Ingredients: datatypes.JSON(`["sea_bass","lemon","herbs","rice"]`), PrepTimeMin: 20},
		{Name: "Chicken Biryani", Category: "main", Price: 45, Cost: 12, Ingredients: datatypes.JSON(`["chicken","rice","spices","onion"]`), PrepTimeMin: 25},
		{Name: "Lamb Ouzi", Category: "main", Price: 65, Cost: 20, Ingredients: datatypes.JSON(`["lamb","rice","nuts","spices"]`), PrepTimeMin: 30},
		{Name: "Kunafa", Category: "dessert", Price: 32, Cost: 8, Ingredients: datatypes.JSON(`["cheese","semolina","syrup","pistachios"]`), PrepTimeMin: 15},
		{Name: "Umm Ali", Category: "dessert", Price: 28, Cost: 6, Ingredients: datatypes.JSON(`["bread","milk","cream","nuts"]`), PrepTimeMin: 20},
		{Name: "Fresh Lemon Mint", Category: "beverage", Price: 15, Cost: 2.5, Ingredients: datatypes.JSON(`["lemon","mint","sugar"]`), PrepTimeMin: 5},
		{Name: "Arabic Coffee", Category: "beverage", Price: 12, Cost: 1.8, Ingredients: datatypes.JSON(`["coffee","cardamom","saffron"]`), PrepTimeMin: 3},
	}
	return s.menuService.SyncMenu(ctx, restaurantID, items)
}

func (s *Seeder) seedInventory(ctx context.Context, restaurantID snowflake.ID, suppliers []*supplierdomain.Supplier, now time.Time) error {
	rows := []struct {
		name     string
		category string
		unit     string
		stock    float64
		par      float64
		reorder  float64
		cost     float64
		supplier int
	}{
		{"Chicken Breast", "protein", "kg", 45, 80, 25, 18.0, 0},
		{"Lamb Shoulder", "protein", "kg", 30, 60, 18, 35.0, 0},
		{"Sea Bass Fillet", "protein", "kg", 12, 25, 8, 55.0, 5},
		{"Basmati Rice", "grains", "kg", 80, 150, 40, 4.5, 2},
		{"Pita Bread", "grains", "pcs", 200, 400, 100, 0.5, 2},
		{"Chickpeas", "dry_goods", "kg", 30, 60, 15, 3.2, 2},
		{"Tahini", "dry_goods", "kg", 8, 15, 5, 12.0, 2},
		{"Olive Oil", "oils", "L", 15, 30, 8, 18.0, 3},
		{"Tomatoes", "produce", "kg", 25, 50, 15, 5.5, 1},
		{"Cucumbers", "produce", "kg", 15, 30, 10, 3.8, 1},
		{"Lemons", "produce", "kg", 10, 20, 6, 6.0, 1},
		{"Saffron", "spices", "g", 50, 100, 20, 2.5, 3},
		{"Yogurt", "dairy", "kg", 20, 40, 12, 4.5, 6},
		{"Cheese Mix", "dairy", "kg", 12, 25, 8, 22.0, 6},
		{"Takeaway Containers", "packaging", "pcs", 300, 600, 200, 0.35, 4},
	}

	for _, row := range rows {
		supplierID := suppliers[row.supplier].ID
		item := &inventorydomain.InventoryItem{
			ID:           s.genID.Generate(),
			RestaurantID: restaurantID,
			SupplierID:   &supplierID,
			Name:         row.name,
			Category:     row.category,
			Unit:         row.unit,
			CurrentStock: math.Round(row.stock * (0.6 + s.rng.Float64()*0.6)),
			ParLevel:     row.par,
			ReorderPoint: row.reorder,
			UnitCost:     row.cost,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.inventoryRepo.Insert(ctx, nil, item); err != nil {
			return err
		}
	}
	return nil
}

// Day-of-week covers pattern: the MENA weekend (Thu-Fri-Sat) peaks.
var dowFactors = map[time.Weekday]float64{
	time.Monday:    0.75,
	time.Tuesday:   0.80,
	time.Wednesday: 0.85,
	time.Thursday:  0.95,
	time.Friday:    1.25,
	time.Saturday:  1.30,
	time.Sunday:    0.90,
}

var monthFactors = map[time.Month]float64{
	time.January: 0.85, time.February: 0.90, time.March: 1.05,
	time.April: 1.0, time.May: 0.95, time.June: 0.80,
	time.July: 0.75, time.August: 0.78, time.September: 0.85,
	time.October: 1.0, time.November: 1.10, time.December: 1.20,
}

func (s *Seeder) seedOrders(ctx context.Context, restaurantID snowflake.ID, menu []*menudomain.MenuItem, now time.Time) error {
	baseCovers := 85.0
	start := now.AddDate(0, 0, -historyDays)

	for offset := 0; offset < historyDays; offset++ {
		day := start.AddDate(0, 0, offset)
		factor := dowFactors[day.Weekday()] * monthFactors[day.Month()]
		trend := 1.0 + float64(offset)/float64(historyDays)*0.08
		noise := 0.9 + s.rng.Float64()*0.2

		dayCovers := int(baseCovers * factor * trend * noise)
		if dayCovers < 20 {
			dayCovers = 20
		}

		// Spread the day's covers over several orders across service hours.
		orderCount := 6 + s.rng.Intn(4)
		remaining := dayCovers
		dayWaste := float64(dayCovers) * (0.08 + s.rng.Float64()*0.07)

		for i := 0; i < orderCount; i++ {
			covers := remaining / (orderCount - i)
			if covers < 1 {
				covers = 1
			}
			remaining -= covers

			channel := orderdomain.ChannelDineIn
			switch r := s.rng.Float64(); {
			case r < 0.20:
				channel = orderdomain.ChannelTakeaway
			case r < 0.55:
				channel = orderdomain.ChannelDelivery
			}

			placedAt := time.Date(day.Year(), day.Month(), day.Day(), 12+s.rng.Intn(10), s.rng.Intn(60), 0, 0, time.UTC)
			waste := 0.0
			if i == orderCount-1 {
				waste = math.Round(dayWaste*10) / 10
			}

			items := s.pickItems(menu, covers)
			req := orderdomain.CreateRequest{
				RestaurantID: restaurantID,
				Channel:      channel,
				Covers:       covers,
				FoodWasteKg:  waste,
				OrderDate:    &placedAt,
				Items:        items,
			}
			if _, err := s.orderService.Create(ctx, req); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) pickItems(menu []*menudomain.MenuItem, covers int) []orderdomain.ItemRequest {
	lines := 1 + s.rng.Intn(3)
	items := make([]orderdomain.ItemRequest, 0, lines)
	for i := 0; i < lines; i++ {
		m := menu[s.rng.Intn(len(menu))]
		qty := 1 + s.rng.Intn(covers+1)
		items = append(items, orderdomain.ItemRequest{
			MenuItemID: &m.ID,
			ItemName:   m.Name,
			Quantity:   qty,
			UnitPrice:  m.Price,
		})
	}
	return items
}

// seedPayments writes succeeded supplier payments across the window with
// volumes that land different suppliers in different tiers, then lets the
// loyalty engine classify every pair.
func (s *Seeder) seedPayments(ctx context.Context, restaurantID snowflake.ID, suppliers []*supplierdomain.Supplier, now time.Time) error {
	volumes := []int{110, 55, 30, 12, 6, 28, 18}

	for i, supplier := range suppliers {
		count := volumes[i%len(volumes)]
		for n := 0; n < count; n++ {
			offset := s.rng.Intn(historyDays)
			at := now.AddDate(0, 0, -offset)
			amount := math.Round((supplier.MinOrderValue+s.rng.Float64()*supplier.MinOrderValue)*100) / 100

			supplierID := supplier.ID
			payment := &paymentdomain.Payment{
				ID:             s.genID.Generate(),
				RestaurantID:   restaurantID,
				SupplierID:     &supplierID,
				Reference:      "seed_" + s.genID.Generate().String(),
				Amount:         math.Round(amount*1.15*100) / 100,
				SupplierAmount: amount,
				PlatformFee:    math.Round(amount*0.15*100) / 100,
				PlatformFeePct: loyaltydomain.BaseFeePct,
				Currency:       "aed",
				Status:         paymentdomain.StatusSucceeded,
				CreatedAt:      at,
				UpdatedAt:      at,
			}
			if err := s.paymentRepo.Insert(ctx, nil, payment); err != nil {
				return err
			}
		}

		account, err := s.loyalty.GetOrCreateAccount(ctx, restaurantID, supplier.ID)
		if err != nil {
			return err
		}
		if _, err := s.loyalty.EvaluateTier(ctx, account); err != nil {
			return err
		}
	}
	return nil
}
