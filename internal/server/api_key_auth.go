package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	apikeydomain "github.com/forkastlabs/forkast/internal/apikey/domain"
	"github.com/gin-gonic/gin"
)

const (
	headerAPIKey = "X-API-Key"

	contextAPIKey       = "api_key"
	contextRestaurantID = "restaurant_id"
)

// APIKeyRequired authenticates the X-API-Key header. Restaurant identity is
// derived solely from the api_keys table; an explicit restaurant_id query is
// honored only for admin keys.
func (s *Server) APIKeyRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(headerAPIKey))
		if raw == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		key, err := s.apiKeySvc.Verify(c.Request.Context(), raw)
		if err != nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		restaurantID := key.RestaurantID
		if requested := strings.TrimSpace(c.Query("restaurant_id")); requested != "" {
			id, parseErr := snowflake.ParseString(requested)
			if parseErr != nil {
				AbortWithError(c, invalidRequestError())
				return
			}
			if id != key.RestaurantID && !key.HasScope(apikeydomain.ScopeAdmin) {
				AbortWithError(c, ErrForbidden)
				return
			}
			restaurantID = id
		}

		c.Set(contextAPIKey, key)
		c.Set(contextRestaurantID, restaurantID)
		c.Next()
	}
}

// RequireScope guards a route with one scope; admin passes everything.
func (s *Server) RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := apiKeyFromContext(c)
		if key == nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		if !key.HasScope(scope) {
			AbortWithError(c, apikeydomain.ErrMissingScope)
			return
		}
		c.Next()
	}
}

func apiKeyFromContext(c *gin.Context) *apikeydomain.APIKey {
	if v, ok := c.Get(contextAPIKey); ok {
		if key, ok := v.(*apikeydomain.APIKey); ok {
			return key
		}
	}
	return nil
}

func (s *Server) restaurantID(c *gin.Context) snowflake.ID {
	if v, ok := c.Get(contextRestaurantID); ok {
		if id, ok := v.(snowflake.ID); ok {
			return id
		}
	}
	return 0
}
