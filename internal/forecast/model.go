package forecast

import "time"

// DailyOrderSummary is one historical day of trading, produced by POS
// ingestion or the demo seeder. Immutable once recorded.
type DailyOrderSummary struct {
	Date         time.Time      `json:"date"`
	TotalCovers  int            `json:"total_covers"`
	TotalRevenue float64        `json:"total_revenue"`
	AvgCheck     float64        `json:"avg_check"`
	DineIn       int            `json:"dine_in"`
	Delivery     int            `json:"delivery"`
	Takeaway     int            `json:"takeaway"`
	FoodWasteKg  float64        `json:"food_waste_kg"`
	ItemOrders   map[string]int `json:"item_orders,omitempty"`
}

type ChannelBreakdown struct {
	DineIn   int `json:"dine_in"`
	Delivery int `json:"delivery"`
	Takeaway int `json:"takeaway"`
}

// Forecast is the prediction for a single future day.
type Forecast struct {
	Date             time.Time        `json:"date"`
	PredictedCovers  int              `json:"predicted_covers"`
	PredictedRevenue float64          `json:"predicted_revenue"`
	ConfidenceLower  float64          `json:"confidence_lower"`
	ConfidenceUpper  float64          `json:"confidence_upper"`
	DayOfWeek        string           `json:"day_of_week"`
	ChannelBreakdown ChannelBreakdown `json:"channel_breakdown"`
}

type ItemForecast struct {
	Date              time.Time `json:"date"`
	DayOfWeek         string    `json:"day_of_week"`
	PredictedQuantity int       `json:"predicted_quantity"`
}

type Impact string

const (
	ImpactLow      Impact = "low"
	ImpactMedium   Impact = "medium"
	ImpactHigh     Impact = "high"
	ImpactCritical Impact = "critical"
)

// Insight is a human-readable finding derived from the trained model.
type Insight struct {
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      Impact `json:"impact"`
}

// AccuracyMetrics is the holdout score computed during training. Nil on the
// summary when the history was too short to reserve a holdout slice.
type AccuracyMetrics struct {
	MAPE        float64 `json:"mape"`
	Accuracy    float64 `json:"accuracy"`
	HoldoutSize int     `json:"holdout_size"`
	TotalSamples int    `json:"total_samples"`
}

type ModelSummary struct {
	TrainingSamples  int                `json:"training_samples"`
	BaseDailyCovers  float64            `json:"base_daily_covers"`
	BaseDailyRevenue float64            `json:"base_daily_revenue"`
	AvgCheck         float64            `json:"avg_check"`
	TrendDirection   string             `json:"trend_direction"`
	TrendSlopePerDay float64            `json:"trend_slope_per_day"`
	Accuracy         *AccuracyMetrics   `json:"accuracy,omitempty"`
	DayPatterns      map[string]float64 `json:"day_patterns"`
	ItemsTracked     int                `json:"items_tracked"`
}
