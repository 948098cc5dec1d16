package server

import (
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

// @Summary      List Loyalty Tiers
// @Description  Static tier table with thresholds, discounts and fees
// @Tags         loyalty
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  map[string]any
// @Router       /loyalty/tiers [get]
func (s *Server) ListLoyaltyTiers(c *gin.Context) {
	respondData(c, s.loyaltySvc.TierDefinitions())
}

// @Summary      Loyalty Summary
// @Description  Aggregate loyalty standing across all supplier accounts
// @Tags         loyalty
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  map[string]any
// @Router       /loyalty/summary [get]
func (s *Server) GetLoyaltySummary(c *gin.Context) {
	summary, err := s.loyaltySvc.Summary(c.Request.Context(), s.restaurantID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, summary)
}

// @Summary      List Loyalty Accounts
// @Tags         loyalty
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  map[string]any
// @Router       /loyalty/accounts [get]
func (s *Server) ListLoyaltyAccounts(c *gin.Context) {
	accounts, err := s.loyaltySvc.Accounts(c.Request.Context(), s.restaurantID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, accounts)
}

// @Summary      Get Loyalty Account
// @Tags         loyalty
// @Produce      json
// @Security     ApiKeyAuth
// @Param        supplier_id  path  string  true  "Supplier ID"
// @Success      200  {object}  map[string]any
// @Router       /loyalty/accounts/{supplier_id} [get]
func (s *Server) GetLoyaltyAccount(c *gin.Context) {
	supplierID, err := snowflake.ParseString(strings.TrimSpace(c.Param("supplier_id")))
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	account, err := s.loyaltySvc.Account(c.Request.Context(), s.restaurantID(c), supplierID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, account)
}

// @Summary      Loyalty Account History
// @Tags         loyalty
// @Produce      json
// @Security     ApiKeyAuth
// @Param        supplier_id  path  string  true  "Supplier ID"
// @Param        limit  query  int  false  "Max entries"
// @Success      200  {object}  map[string]any
// @Router       /loyalty/accounts/{supplier_id}/history [get]
func (s *Server) GetLoyaltyHistory(c *gin.Context) {
	supplierID, err := snowflake.ParseString(strings.TrimSpace(c.Param("supplier_id")))
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	history, err := s.loyaltySvc.History(c.Request.Context(), s.restaurantID(c), supplierID, limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, history)
}

// @Summary      Evaluate All Loyalty Accounts
// @Description  Force a re-evaluation of every account, admin only
// @Tags         loyalty
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  map[string]any
// @Router       /loyalty/evaluate [post]
func (s *Server) EvaluateLoyaltyAccounts(c *gin.Context) {
	summary, err := s.loyaltySvc.EvaluateAllAccounts(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, summary)
}
