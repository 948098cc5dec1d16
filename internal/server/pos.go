package server

import (
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	inventorydomain "github.com/forkastlabs/forkast/internal/inventory/domain"
	menudomain "github.com/forkastlabs/forkast/internal/menu/domain"
	orderdomain "github.com/forkastlabs/forkast/internal/order/domain"
	staffdomain "github.com/forkastlabs/forkast/internal/staff/domain"
	"github.com/gin-gonic/gin"
)

// @Summary      Ingest Order
// @Description  Record one POS order with its item lines
// @Tags         pos
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body orderdomain.CreateRequest true "Order"
// @Success      201  {object}  map[string]any
// @Router       /pos/orders [post]
func (s *Server) CreateOrder(c *gin.Context) {
	restaurantID := s.restaurantID(c)
	if err := s.quotaSvc.CanIngestOrder(c.Request.Context(), restaurantID); err != nil {
		AbortWithError(c, err)
		return
	}

	var req orderdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.RestaurantID = restaurantID

	order, err := s.orderSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, order)
}

// @Summary      List Orders
// @Tags         pos
// @Produce      json
// @Security     ApiKeyAuth
// @Param        date_from  query  string  false  "RFC3339 lower bound"
// @Param        date_to    query  string  false  "RFC3339 upper bound"
// @Param        limit      query  int     false  "Page size"
// @Param        offset     query  int     false  "Page offset"
// @Success      200  {object}  map[string]any
// @Router       /pos/orders [get]
func (s *Server) ListOrders(c *gin.Context) {
	req := orderdomain.ListRequest{RestaurantID: s.restaurantID(c)}
	req.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))
	req.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	if raw := c.Query("date_from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
		req.From = from
	}
	if raw := c.Query("date_to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
		req.To = to
	}

	orders, total, err := s.orderSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, orders, total)
}

// @Summary      Get Order
// @Tags         pos
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id  path  string  true  "Order ID"
// @Success      200  {object}  map[string]any
// @Router       /pos/orders/{id} [get]
func (s *Server) GetOrder(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	order, err := s.orderSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if order.RestaurantID != s.restaurantID(c) {
		AbortWithError(c, orderdomain.ErrOrderNotFound)
		return
	}
	respondData(c, order)
}

// @Summary      Sync Menu
// @Description  Upsert the POS menu by item name
// @Tags         pos
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body []menudomain.SyncItem true "Menu items"
// @Success      200  {object}  map[string]any
// @Router       /pos/menu/sync [post]
func (s *Server) SyncMenu(c *gin.Context) {
	var items []menudomain.SyncItem
	if err := c.ShouldBindJSON(&items); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	synced, err := s.menuSvc.SyncMenu(c.Request.Context(), s.restaurantID(c), items)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, synced)
}

// @Summary      Get Menu
// @Tags         pos
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  map[string]any
// @Router       /pos/menu [get]
func (s *Server) GetMenu(c *gin.Context) {
	menu, err := s.menuSvc.Menu(c.Request.Context(), s.restaurantID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, menu)
}

// @Summary      Update Menu Item
// @Tags         pos
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id  path  string  true  "Menu Item ID"
// @Param        request body menudomain.UpdateRequest true "Fields to patch"
// @Success      200  {object}  map[string]any
// @Router       /pos/menu/{id} [patch]
func (s *Server) UpdateMenuItem(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var req menudomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.menuSvc.UpdateItem(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, item)
}

// @Summary      Get Inventory
// @Tags         pos
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  map[string]any
// @Router       /pos/inventory [get]
func (s *Server) GetInventory(c *gin.Context) {
	items, err := s.inventorySvc.Inventory(c.Request.Context(), s.restaurantID(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, items)
}

// @Summary      Batch Update Inventory
// @Tags         pos
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body []inventorydomain.StockUpdate true "Stock updates"
// @Success      200  {object}  map[string]any
// @Router       /pos/inventory/update [post]
func (s *Server) UpdateInventory(c *gin.Context) {
	var updates []inventorydomain.StockUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	items, err := s.inventorySvc.BatchUpdate(c.Request.Context(), s.restaurantID(c), updates)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, items)
}

// @Summary      Staff Clock In
// @Tags         pos
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body staffdomain.ClockRequest true "Clock event"
// @Success      201  {object}  map[string]any
// @Router       /pos/staff/clock-in [post]
func (s *Server) StaffClockIn(c *gin.Context) {
	s.recordClock(c, staffdomain.EventClockIn)
}

// @Summary      Staff Clock Out
// @Tags         pos
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body staffdomain.ClockRequest true "Clock event"
// @Success      201  {object}  map[string]any
// @Router       /pos/staff/clock-out [post]
func (s *Server) StaffClockOut(c *gin.Context) {
	s.recordClock(c, staffdomain.EventClockOut)
}

func (s *Server) recordClock(c *gin.Context, eventType string) {
	restaurantID := s.restaurantID(c)
	if err := s.quotaSvc.CanRecordClockEvent(c.Request.Context(), restaurantID); err != nil {
		AbortWithError(c, err)
		return
	}

	var req staffdomain.ClockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.RestaurantID = restaurantID

	event, err := s.staffSvc.RecordClock(c.Request.Context(), eventType, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, event)
}

// @Summary      Staff Schedule
// @Description  Recent clock events, newest first
// @Tags         pos
// @Produce      json
// @Security     ApiKeyAuth
// @Param        limit  query  int  false  "Max events"
// @Success      200  {object}  map[string]any
// @Router       /pos/staff/schedule [get]
func (s *Server) GetStaffSchedule(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "200"))

	events, err := s.staffSvc.Schedule(c.Request.Context(), s.restaurantID(c), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, events)
}
