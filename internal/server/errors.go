package server

import (
	"errors"
	"net/http"

	apikeydomain "github.com/forkastlabs/forkast/internal/apikey/domain"
	"github.com/forkastlabs/forkast/internal/forecast"
	loyaltydomain "github.com/forkastlabs/forkast/internal/loyalty/domain"
	menudomain "github.com/forkastlabs/forkast/internal/menu/domain"
	orderdomain "github.com/forkastlabs/forkast/internal/order/domain"
	paymentdomain "github.com/forkastlabs/forkast/internal/payment/domain"
	quotadomain "github.com/forkastlabs/forkast/internal/quota/domain"
	staffdomain "github.com/forkastlabs/forkast/internal/staff/domain"
	"github.com/gin-gonic/gin"
)

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidRequest = errors.New("invalid_request")
)

// AbortWithError maps domain sentinels onto HTTP statuses. Anything
// unrecognized is a 500 with a generic body so internals never leak to POS
// integrations.
func AbortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, ErrUnauthorized):
		status, message = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, ErrForbidden), errors.Is(err, apikeydomain.ErrMissingScope):
		status, message = http.StatusForbidden, "forbidden"
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, paymentdomain.ErrInvalidAmount),
		errors.Is(err, paymentdomain.ErrInvalidPageToken),
		errors.Is(err, orderdomain.ErrNoItems),
		errors.Is(err, staffdomain.ErrUnknownEventType),
		errors.Is(err, forecast.ErrEmptyTrainingData):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, forecast.ErrNotTrained):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, paymentdomain.ErrNotPending):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, loyaltydomain.ErrAccountNotFound),
		errors.Is(err, paymentdomain.ErrNotFound),
		errors.Is(err, orderdomain.ErrOrderNotFound),
		errors.Is(err, menudomain.ErrItemNotFound),
		errors.Is(err, apikeydomain.ErrKeyNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, quotadomain.ErrOrderQuotaExceeded),
		errors.Is(err, quotadomain.ErrClockEventQuotaExceeded):
		status, message = http.StatusTooManyRequests, err.Error()
	}

	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func invalidRequestError() error { return ErrInvalidRequest }
