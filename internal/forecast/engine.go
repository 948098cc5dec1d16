package forecast

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/forkastlabs/forkast/internal/clock"
)

var (
	ErrEmptyTrainingData = errors.New("forecast: no historical data for training")
	ErrNotTrained        = errors.New("forecast: model not trained")
)

const (
	// Confidence half-width is 1.96 standard deviations, with the standard
	// deviation fixed at 12% of base covers rather than fitted from residuals.
	confidenceZ     = 1.96
	stdDevFraction  = 0.12
	holdoutFraction = 0.8
)

// Engine fits a seasonal+trend decomposition over daily order summaries and
// answers per-day and per-item demand queries. An Engine instance is owned by
// a single caller; it is not safe for concurrent use.
type Engine struct {
	clk clock.Clock

	history       []DailyOrderSummary
	dayPatterns   map[time.Weekday]float64
	monthPatterns map[time.Month]float64
	itemPatterns  map[string]map[time.Weekday]float64
	trendSlope    float64
	baseCovers    float64
	baseRevenue   float64
	avgCheck      float64
	accuracy      *AccuracyMetrics
	trained       bool
}

func NewEngine(clk clock.Clock) *Engine {
	return &Engine{clk: clk}
}

// Train fits the model on an ordered-by-date history. Retraining replaces all
// derived state. An empty history leaves the engine untrained.
func (e *Engine) Train(history []DailyOrderSummary) error {
	if len(history) == 0 {
		return ErrEmptyTrainingData
	}

	n := len(history)
	e.history = history
	e.dayPatterns = make(map[time.Weekday]float64)
	e.monthPatterns = make(map[time.Month]float64)
	e.itemPatterns = make(map[string]map[time.Weekday]float64)
	e.accuracy = nil

	var sumCovers, sumRevenue, sumCheck float64
	for _, d := range history {
		sumCovers += float64(d.TotalCovers)
		sumRevenue += d.TotalRevenue
		sumCheck += d.AvgCheck
	}
	e.baseCovers = sumCovers / float64(n)
	e.baseRevenue = sumRevenue / float64(n)
	e.avgCheck = sumCheck / float64(n)

	daySums := make(map[time.Weekday][]float64)
	monthSums := make(map[time.Month][]float64)
	for _, d := range history {
		daySums[d.Date.Weekday()] = append(daySums[d.Date.Weekday()], float64(d.TotalCovers))
		monthSums[d.Date.Month()] = append(monthSums[d.Date.Month()], float64(d.TotalCovers))
	}
	for dow, values := range daySums {
		e.dayPatterns[dow] = mean(values) / e.baseCovers
	}
	for month, values := range monthSums {
		e.monthPatterns[month] = mean(values) / e.baseCovers
	}

	// OLS slope of covers against the zero-based day index.
	xMean := float64(n-1) / 2
	var num, den float64
	for i, d := range history {
		dx := float64(i) - xMean
		num += dx * (float64(d.TotalCovers) - e.baseCovers)
		den += dx * dx
	}
	if den != 0 {
		e.trendSlope = num / den
	} else {
		e.trendSlope = 0
	}

	itemSamples := make(map[string]map[time.Weekday][]float64)
	for _, d := range history {
		dow := d.Date.Weekday()
		for name, qty := range d.ItemOrders {
			if itemSamples[name] == nil {
				itemSamples[name] = make(map[time.Weekday][]float64)
			}
			itemSamples[name][dow] = append(itemSamples[name][dow], float64(qty))
		}
	}
	for name, byDay := range itemSamples {
		e.itemPatterns[name] = make(map[time.Weekday]float64, len(byDay))
		for dow, values := range byDay {
			e.itemPatterns[name][dow] = mean(values)
		}
	}

	e.calculateAccuracy()
	e.trained = true
	return nil
}

// calculateAccuracy scores the fitted model on the last 20% of training rows.
// Short histories with an empty holdout slice leave the metrics unset.
func (e *Engine) calculateAccuracy() {
	n := len(e.history)
	holdoutStart := int(float64(n) * holdoutFraction)
	holdout := e.history[holdoutStart:]
	if len(holdout) == 0 {
		return
	}

	var errs []float64
	for i, d := range holdout {
		if d.TotalCovers <= 0 {
			continue
		}
		predicted := e.predictSingle(d.Date, holdoutStart+i)
		actual := float64(d.TotalCovers)
		errs = append(errs, math.Abs(actual-float64(predicted.PredictedCovers))/actual)
	}
	if len(errs) == 0 {
		return
	}

	mape := mean(errs)
	e.accuracy = &AccuracyMetrics{
		MAPE:         round2(mape * 100),
		Accuracy:     round2((1 - mape) * 100),
		HoldoutSize:  len(holdout),
		TotalSamples: n,
	}
}

// predictSingle is the one prediction routine, shared by holdout scoring and
// live forecasting so the two can never diverge.
func (e *Engine) predictSingle(target time.Time, daysFromStart int) Forecast {
	dayFactor := 1.0
	if f, ok := e.dayPatterns[target.Weekday()]; ok {
		dayFactor = f
	}
	monthFactor := 1.0
	if f, ok := e.monthPatterns[target.Month()]; ok {
		monthFactor = f
	}

	trendValue := e.baseCovers + e.trendSlope*float64(daysFromStart)
	predictedCovers := int(math.Floor(trendValue * dayFactor * monthFactor))
	if predictedCovers < 0 {
		predictedCovers = 0
	}

	halfWidth := confidenceZ * stdDevFraction * e.baseCovers
	lower := math.Max(0, float64(predictedCovers)-halfWidth)
	upper := float64(predictedCovers) + halfWidth

	dineIn, delivery, takeaway := channelShares(target.Weekday())

	return Forecast{
		Date:             target,
		PredictedCovers:  predictedCovers,
		PredictedRevenue: round2(float64(predictedCovers) * e.avgCheck),
		ConfidenceLower:  math.Round(lower),
		ConfidenceUpper:  math.Round(upper),
		DayOfWeek:        target.Weekday().String(),
		ChannelBreakdown: ChannelBreakdown{
			DineIn:   int(math.Round(dineIn * float64(predictedCovers))),
			Delivery: int(math.Round(delivery * float64(predictedCovers))),
			Takeaway: int(math.Round(takeaway * float64(predictedCovers))),
		},
	}
}

// channelShares is a hand-tuned lookup, not fitted from training data.
// Weekend days skew delivery-heavy. Components are not renormalized after
// rounding, so a breakdown may be off predicted covers by one.
func channelShares(dow time.Weekday) (dineIn, delivery, takeaway float64) {
	switch dow {
	case time.Friday, time.Saturday:
		return 0.42, 0.38, 0.20
	case time.Thursday:
		return 0.50, 0.30, 0.20
	default:
		return 0.52, 0.28, 0.20
	}
}

// Forecast predicts the next daysAhead days in ascending date order.
func (e *Engine) Forecast(ctx context.Context, daysAhead int) ([]Forecast, error) {
	if !e.trained {
		return nil, ErrNotTrained
	}

	today := e.clk.Now(ctx)
	daysFromStart := len(e.history)
	out := make([]Forecast, 0, daysAhead)
	for i := 1; i <= daysAhead; i++ {
		target := today.AddDate(0, 0, i)
		out = append(out, e.predictSingle(target, daysFromStart+i))
	}
	return out, nil
}

// ForecastItems predicts per-item daily quantities for every tracked item.
func (e *Engine) ForecastItems(ctx context.Context, daysAhead int) (map[string][]ItemForecast, error) {
	if !e.trained {
		return nil, ErrNotTrained
	}

	today := e.clk.Now(ctx)
	out := make(map[string][]ItemForecast, len(e.itemPatterns))
	for name, byDay := range e.itemPatterns {
		forecasts := make([]ItemForecast, 0, daysAhead)
		for i := 1; i <= daysAhead; i++ {
			target := today.AddDate(0, 0, i)
			baseQty := byDay[target.Weekday()]

			trendFactor := 1.0
			if e.baseCovers > 0 {
				trendFactor = 1.0 + (e.trendSlope/e.baseCovers)*float64(i)
			}
			qty := int(math.Floor(math.Max(0, baseQty*trendFactor)))

			forecasts = append(forecasts, ItemForecast{
				Date:              target,
				DayOfWeek:         target.Weekday().String(),
				PredictedQuantity: qty,
			})
		}
		out[name] = forecasts
	}
	return out, nil
}

// ModelSummary reports the fitted parameters and accuracy of the model.
func (e *Engine) ModelSummary() (*ModelSummary, error) {
	if !e.trained {
		return nil, ErrNotTrained
	}

	direction := "flat"
	if e.trendSlope > 0 {
		direction = "up"
	} else if e.trendSlope < 0 {
		direction = "down"
	}

	dayPatterns := make(map[string]float64, len(e.dayPatterns))
	for dow, ratio := range e.dayPatterns {
		dayPatterns[dow.String()[:3]] = round3(ratio)
	}

	summary := &ModelSummary{
		TrainingSamples:  len(e.history),
		BaseDailyCovers:  math.Round(e.baseCovers*10) / 10,
		BaseDailyRevenue: round2(e.baseRevenue),
		AvgCheck:         round2(e.avgCheck),
		TrendDirection:   direction,
		TrendSlopePerDay: round3(e.trendSlope),
		DayPatterns:      dayPatterns,
		ItemsTracked:     len(e.itemPatterns),
	}
	if e.accuracy != nil {
		acc := *e.accuracy
		summary.Accuracy = &acc
	}
	return summary, nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
