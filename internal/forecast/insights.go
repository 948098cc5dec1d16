package forecast

import (
	"fmt"
	"math"
	"time"
)

const (
	deliveryShareThreshold = 0.30
	wastePerCoverTargetKg  = 0.10
)

var weekScanOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// Insights derives operator-facing findings from the trained model: peak and
// slow weekdays, trend direction, delivery-channel share and food waste.
func (e *Engine) Insights() ([]Insight, error) {
	if !e.trained {
		return nil, ErrNotTrained
	}

	insights := make([]Insight, 0, 5)

	if peak, ok := e.extremeDay(func(a, b float64) bool { return a > b }); ok {
		insights = append(insights, Insight{
			Category: "demand",
			Title:    fmt.Sprintf("Peak Day: %s", peak),
			Description: fmt.Sprintf("%s drives %.0f%% of average daily covers. Ensure full staffing and stock.",
				peak, e.dayPatterns[peak]*100),
			Impact: ImpactHigh,
		})
	}

	if slow, ok := e.extremeDay(func(a, b float64) bool { return a < b }); ok {
		insights = append(insights, Insight{
			Category: "labor",
			Title:    fmt.Sprintf("Slowest Day: %s", slow),
			Description: fmt.Sprintf("%s averages %.0f%% of normal. Consider reduced staffing or promotions.",
				slow, e.dayPatterns[slow]*100),
			Impact: ImpactMedium,
		})
	}

	if e.trendSlope > 0 {
		weeklyGrowth := (e.trendSlope * 7 / e.baseCovers) * 100
		insights = append(insights, Insight{
			Category: "growth",
			Title:    "Upward Demand Trend",
			Description: fmt.Sprintf("Demand is growing by ~%.1f%% per week. Plan for increased procurement and staffing.",
				weeklyGrowth),
			Impact: ImpactHigh,
		})
	} else if e.trendSlope < 0 {
		weeklyDecline := math.Abs(e.trendSlope*7/e.baseCovers) * 100
		insights = append(insights, Insight{
			Category: "risk",
			Title:    "Declining Demand Trend",
			Description: fmt.Sprintf("Demand is declining by ~%.1f%% per week. Review marketing and menu strategy.",
				weeklyDecline),
			Impact: ImpactCritical,
		})
	}

	if share, ok := e.recentDeliveryShare(14); ok && share > deliveryShareThreshold {
		insights = append(insights, Insight{
			Category: "channel",
			Title:    "Strong Delivery Channel",
			Description: fmt.Sprintf("Delivery accounts for %.0f%% of covers. Optimize packaging and delivery prep workflows.",
				share*100),
			Impact: ImpactMedium,
		})
	}

	if wastePerCover := e.recentWastePerCover(30); wastePerCover > wastePerCoverTargetKg {
		insights = append(insights, Insight{
			Category: "waste",
			Title:    "Food Waste Reduction Opportunity",
			Description: fmt.Sprintf("Current waste: %.0fg per cover. Target: <100g. Use forecast-based prep to reduce overproduction.",
				wastePerCover*1000),
			Impact: ImpactHigh,
		})
	}

	return insights, nil
}

// extremeDay scans Monday through Sunday so ties resolve deterministically.
func (e *Engine) extremeDay(better func(a, b float64) bool) (time.Weekday, bool) {
	var (
		best  time.Weekday
		ratio float64
		found bool
	)
	for _, dow := range weekScanOrder {
		r, ok := e.dayPatterns[dow]
		if !ok {
			continue
		}
		if !found || better(r, ratio) {
			best, ratio, found = dow, r, true
		}
	}
	return best, found
}

func (e *Engine) recentDeliveryShare(days int) (float64, bool) {
	recent := tail(e.history, days)
	if len(recent) == 0 {
		return 0, false
	}
	var sum float64
	for _, d := range recent {
		if d.TotalCovers > 0 {
			sum += float64(d.Delivery) / float64(d.TotalCovers)
		}
	}
	return sum / float64(len(recent)), true
}

func (e *Engine) recentWastePerCover(days int) float64 {
	recent := tail(e.history, days)
	var waste, covers float64
	for _, d := range recent {
		waste += d.FoodWasteKg
		covers += float64(d.TotalCovers)
	}
	if covers == 0 {
		return 0
	}
	return waste / covers
}

func tail(history []DailyOrderSummary, n int) []DailyOrderSummary {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
