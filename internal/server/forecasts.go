package server

import (
	"strconv"

	"github.com/forkastlabs/forkast/internal/forecast"
	"github.com/gin-gonic/gin"
)

// trainingWindowDays bounds how much history feeds the engine. A year is
// enough to learn monthly seasonality without dragging in stale regimes.
const trainingWindowDays = 365

// trainedEngine builds a fresh engine on the restaurant's order history.
// Training is cheap (a few passes over at most a year of daily rows), so the
// model is rebuilt per request instead of cached and invalidated.
func (s *Server) trainedEngine(c *gin.Context) (*forecast.Engine, error) {
	history, err := s.orderSvc.DailySummaries(c.Request.Context(), s.restaurantID(c), trainingWindowDays)
	if err != nil {
		return nil, err
	}

	engine := forecast.NewEngine(s.clk)
	if err := engine.Train(history); err != nil {
		return nil, err
	}
	return engine, nil
}

func daysAhead(c *gin.Context) int {
	days, _ := strconv.Atoi(c.DefaultQuery("days_ahead", "14"))
	if days < 1 {
		days = 1
	}
	if days > 30 {
		days = 30
	}
	return days
}

// @Summary      Demand Forecast
// @Description  Per-day cover and revenue predictions with channel splits
// @Tags         forecasts
// @Produce      json
// @Security     ApiKeyAuth
// @Param        days_ahead  query  int  false  "Horizon, 1-30 days"
// @Success      200  {object}  map[string]any
// @Router       /pos/forecasts [get]
func (s *Server) GetForecasts(c *gin.Context) {
	engine, err := s.trainedEngine(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	forecasts, err := engine.Forecast(c.Request.Context(), daysAhead(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, forecasts)
}

// @Summary      Item Demand Forecast
// @Description  Per-item daily quantity predictions
// @Tags         forecasts
// @Produce      json
// @Security     ApiKeyAuth
// @Param        days_ahead  query  int  false  "Horizon, 1-30 days"
// @Success      200  {object}  map[string]any
// @Router       /pos/forecasts/items [get]
func (s *Server) GetItemForecasts(c *gin.Context) {
	engine, err := s.trainedEngine(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	forecasts, err := engine.ForecastItems(c.Request.Context(), daysAhead(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, forecasts)
}

// @Summary      Forecast Insights
// @Description  Findings derived from the trained model: peaks, trend, channels, waste
// @Tags         forecasts
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  map[string]any
// @Router       /pos/forecasts/insights [get]
func (s *Server) GetForecastInsights(c *gin.Context) {
	engine, err := s.trainedEngine(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	insights, err := engine.Insights()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, insights)
}

// @Summary      Forecast Model Summary
// @Description  Training stats, trend, day patterns and holdout accuracy
// @Tags         forecasts
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  map[string]any
// @Router       /pos/forecasts/model [get]
func (s *Server) GetForecastModel(c *gin.Context) {
	engine, err := s.trainedEngine(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	summary, err := engine.ModelSummary()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, summary)
}
