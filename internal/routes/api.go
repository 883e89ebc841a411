package routes

import (
	"github.com/dukerupert/seshop/internal/domain"
	"github.com/dukerupert/seshop/internal/handler/api"
	"github.com/dukerupert/seshop/internal/middleware"
	"github.com/dukerupert/seshop/internal/router"
	"github.com/dukerupert/seshop/internal/telemetry"
)

// RegisterAPIRoutes registers the storefront REST API.
//
// Cart routes accept an optional bearer token; when present its email is the
// cart owner. Catalog writes and user administration require an admin token.
func RegisterAPIRoutes(r *router.Router, deps APIDeps) {
	tagUser := telemetry.SentryUserMiddleware(domain.CurrentOwnerEmail)

	optional := r.Group(middleware.WithIdentity(deps.Verifier), tagUser)
	authed := r.Group(middleware.VerifyToken(deps.Verifier), tagUser)
	admin := authed.Group(middleware.RequireAdmin(deps.Users))

	credentials := r
	if deps.AuthLimiter != nil {
		credentials = r.Group(deps.AuthLimiter.Middleware)
	}

	// Operational
	r.Get("/{$}", api.Banner)
	r.Get("/health", api.Health(deps.Store))
	if deps.Metrics != nil {
		r.Get("/metrics", deps.Metrics.Handler().ServeHTTP)
	}
	r.NotFound(api.NotFound)

	// Token issue
	credentials.Post("/jwt", deps.TokenHandler.Issue)

	// Carts
	carts := deps.CartHandler
	admin.Get("/carts", carts.ListAll)
	optional.Get("/carts/{email}", carts.ListForOwner)
	optional.Get("/carts/{email}/summary", carts.Summary)
	optional.Post("/carts", carts.Add)
	optional.Put("/carts/{id}", carts.Update)
	optional.Delete("/carts/{id}", carts.Remove)
	optional.Delete("/carts/clear/{email}", carts.Clear)
	optional.Post("/carts/{id}/increment", carts.Increment)
	optional.Post("/carts/{id}/decrement", carts.Decrement)

	// Products
	products := deps.ProductHandler
	r.Get("/products", products.List)
	r.Get("/products/{id}", products.Get)
	admin.Post("/products", products.Create)
	admin.Put("/products/{id}", products.Update)
	admin.Delete("/products/{id}", products.Delete)

	// Users
	users := deps.UserHandler
	admin.Get("/users", users.List)
	r.Get("/users/{id}", users.Get)
	credentials.Post("/users", users.Create)
	authed.Put("/users/{id}", users.Update)
	admin.Delete("/users/{id}", users.Delete)
	authed.Get("/users/admin/{email}", users.IsAdmin)
	admin.Patch("/users/user/{id}/{role}", users.ToggleRole)
}
