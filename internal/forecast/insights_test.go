package forecast_test

import (
	"testing"
	"time"

	"github.com/forkastlabs/forkast/internal/forecast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insightCategories(insights []forecast.Insight) map[string]forecast.Insight {
	out := make(map[string]forecast.Insight, len(insights))
	for _, ins := range insights {
		out[ins.Category] = ins
	}
	return out
}

func TestInsightsPeakAndSlowDay(t *testing.T) {
	days := 70
	start := fixedNow.AddDate(0, 0, -days)
	history := make([]forecast.DailyOrderSummary, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		covers := 60
		switch date.Weekday() {
		case time.Saturday:
			covers = 120
		case time.Tuesday:
			covers = 30
		}
		history = append(history, forecast.DailyOrderSummary{
			Date:         date,
			TotalCovers:  covers,
			TotalRevenue: float64(covers) * 40,
			AvgCheck:     40,
		})
	}

	e := newEngine()
	require.NoError(t, e.Train(history))

	insights, err := e.Insights()
	require.NoError(t, err)
	byCategory := insightCategories(insights)

	require.Contains(t, byCategory, "demand")
	assert.Contains(t, byCategory["demand"].Title, "Saturday")
	assert.Equal(t, forecast.ImpactHigh, byCategory["demand"].Impact)

	require.Contains(t, byCategory, "labor")
	assert.Contains(t, byCategory["labor"].Title, "Tuesday")
	assert.Equal(t, forecast.ImpactMedium, byCategory["labor"].Impact)
}

func TestInsightsTrendDirection(t *testing.T) {
	growing := make([]forecast.DailyOrderSummary, 0, 60)
	start := fixedNow.AddDate(0, 0, -60)
	for i := 0; i < 60; i++ {
		covers := 50 + i
		growing = append(growing, forecast.DailyOrderSummary{
			Date:         start.AddDate(0, 0, i),
			TotalCovers:  covers,
			TotalRevenue: float64(covers) * 35,
			AvgCheck:     35,
		})
	}

	e := newEngine()
	require.NoError(t, e.Train(growing))
	insights, err := e.Insights()
	require.NoError(t, err)
	byCategory := insightCategories(insights)
	require.Contains(t, byCategory, "growth")
	assert.Equal(t, forecast.ImpactHigh, byCategory["growth"].Impact)
	assert.NotContains(t, byCategory, "risk")

	declining := make([]forecast.DailyOrderSummary, 0, 60)
	for i := 0; i < 60; i++ {
		covers := 120 - i
		declining = append(declining, forecast.DailyOrderSummary{
			Date:         start.AddDate(0, 0, i),
			TotalCovers:  covers,
			TotalRevenue: float64(covers) * 35,
			AvgCheck:     35,
		})
	}
	require.NoError(t, e.Train(declining))
	insights, err = e.Insights()
	require.NoError(t, err)
	byCategory = insightCategories(insights)
	require.Contains(t, byCategory, "risk")
	assert.Equal(t, forecast.ImpactCritical, byCategory["risk"].Impact)
	assert.NotContains(t, byCategory, "growth")
}

func TestInsightsDeliveryShare(t *testing.T) {
	history := constantHistory(30, 100, 50)
	for i := range history {
		history[i].Delivery = 40
		history[i].DineIn = 45
		history[i].Takeaway = 15
	}

	e := newEngine()
	require.NoError(t, e.Train(history))
	insights, err := e.Insights()
	require.NoError(t, err)
	byCategory := insightCategories(insights)
	require.Contains(t, byCategory, "channel")
	assert.Contains(t, byCategory["channel"].Description, "40%")
}

func TestInsightsFoodWaste(t *testing.T) {
	history := constantHistory(30, 100, 50)
	for i := range history {
		history[i].FoodWasteKg = 15 // 150g per cover
	}

	e := newEngine()
	require.NoError(t, e.Train(history))
	insights, err := e.Insights()
	require.NoError(t, err)
	byCategory := insightCategories(insights)
	require.Contains(t, byCategory, "waste")
	assert.Equal(t, forecast.ImpactHigh, byCategory["waste"].Impact)

	// Below the 100g/cover threshold no waste insight is produced.
	for i := range history {
		history[i].FoodWasteKg = 5
	}
	require.NoError(t, e.Train(history))
	insights, err = e.Insights()
	require.NoError(t, err)
	assert.NotContains(t, insightCategories(insights), "waste")
}
