package routes

import (
	"github.com/dukerupert/seshop/internal/handler/api"
	"github.com/dukerupert/seshop/internal/middleware"
)

// APIDeps contains dependencies for the REST API routes
type APIDeps struct {
	// Resources
	CartHandler    *api.CartHandler
	ProductHandler *api.ProductHandler
	UserHandler    *api.UserHandler
	TokenHandler   *api.TokenHandler

	// Authentication
	Verifier middleware.TokenVerifier
	Users    middleware.UserLookup

	// Operational
	Store   api.Pinger
	Metrics *middleware.Metrics // nil disables /metrics

	// AuthLimiter throttles token issue and sign-up. Nil disables it.
	AuthLimiter *middleware.RateLimiter
}
