package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	paymentdomain "github.com/forkastlabs/forkast/internal/payment/domain"
	"github.com/forkastlabs/forkast/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

// @Summary      Create Payment
// @Description  Price a pending supplier payment using the loyalty fee
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body paymentdomain.CreateRequest true "Create Payment Request"
// @Success      201  {object}  map[string]any
// @Router       /payments [post]
func (s *Server) CreatePayment(c *gin.Context) {
	var req paymentdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	req.RestaurantID = s.restaurantID(c)

	payment, err := s.paymentSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, payment)
}

// @Summary      List Payments
// @Description  Newest first, cursor paginated
// @Tags         payments
// @Produce      json
// @Security     ApiKeyAuth
// @Param        page_size   query  int     false  "Page size, max 500"
// @Param        page_token  query  string  false  "Cursor from the previous page"
// @Success      200  {object}  map[string]any
// @Router       /payments [get]
func (s *Server) ListPayments(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.List(c.Request.Context(), s.restaurantID(c), page)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

// @Summary      Get Payment
// @Tags         payments
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id  path  string  true  "Payment ID"
// @Success      200  {object}  map[string]any
// @Router       /payments/{id} [get]
func (s *Server) GetPayment(c *gin.Context) {
	payment, err := s.paymentByParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, payment)
}

// @Summary      Mark Payment Succeeded
// @Description  Complete a pending payment and feed the loyalty engine
// @Tags         payments
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id  path  string  true  "Payment ID"
// @Success      200  {object}  map[string]any
// @Router       /payments/{id}/succeed [post]
func (s *Server) SucceedPayment(c *gin.Context) {
	existing, err := s.paymentByParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	payment, err := s.paymentSvc.MarkSucceeded(c.Request.Context(), existing.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, payment)
}

// @Summary      Mark Payment Failed
// @Tags         payments
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id  path  string  true  "Payment ID"
// @Success      200  {object}  map[string]any
// @Router       /payments/{id}/fail [post]
func (s *Server) FailPayment(c *gin.Context) {
	existing, err := s.paymentByParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	payment, err := s.paymentSvc.MarkFailed(c.Request.Context(), existing.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, payment)
}

func paymentID(c *gin.Context) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return 0, ErrInvalidRequest
	}
	return id, nil
}

// paymentByParam also enforces that the payment belongs to the key's
// restaurant.
func (s *Server) paymentByParam(c *gin.Context) (*paymentdomain.Payment, error) {
	id, err := paymentID(c)
	if err != nil {
		return nil, err
	}
	payment, err := s.paymentSvc.Get(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if payment.RestaurantID != s.restaurantID(c) {
		return nil, paymentdomain.ErrNotFound
	}
	return payment, nil
}
