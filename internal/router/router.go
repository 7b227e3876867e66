// Package router defines how HTTP routes are registered and which
// middleware guards each surface.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/lukavran/winelabel/internal/auth"
	"github.com/lukavran/winelabel/internal/config"
	"github.com/lukavran/winelabel/internal/handler"
	"github.com/lukavran/winelabel/internal/middleware"
)

// Deps carries everything the routes need. All of it is constructed in main
// and passed down; nothing here reaches for globals.
type Deps struct {
	Auth        *handler.AuthHandler
	Products    *handler.ProductHandler
	Ingredients *handler.IngredientHandler
	Upload      *handler.UploadHandler
	Public      *handler.PublicHandler
	Pages       *handler.PageHandler
	Resolver    auth.Resolver
	Redis       *redis.Client // nil disables cache and rate limiting
	CacheCfg    config.CacheConfig
	RateCfg     config.RateLimitConfig
}

// Register wires all routes onto the Echo instance.
//
// Three surfaces with three guards: page routes behind the session gate,
// /api behind per-request principal resolution, and the public label routes
// behind cache + rate limit but no authentication at all.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	// Page shells. The session gate classifies every non-API path and
	// redirects before a shell is served.
	e.Use(middleware.SessionGate(d.Resolver))
	e.GET("/login", d.Pages.Login)
	e.GET("/signup", d.Pages.Signup)
	e.GET("/forgot-password", d.Pages.ForgotPassword)
	e.GET("/dashboard", d.Pages.Dashboard)
	e.GET("/dashboard/*", d.Pages.Dashboard)

	limiter := middleware.NewTokenBucket(d.RateCfg, d.Redis)

	// Account endpoints. Credential guessing is what the rate limiter is
	// there for, so it wraps the whole group.
	ag := e.Group("/api/auth", limiter)
	ag.POST("/register", d.Auth.Register)
	ag.POST("/login", d.Auth.Login)
	ag.POST("/refresh", d.Auth.Refresh)
	ag.POST("/logout", d.Auth.Logout)
	ag.GET("/me", d.Auth.Me)

	// Owner-scoped resource API. Every handler sees a resolved principal id
	// in the context or never runs.
	api := e.Group("/api", middleware.RequirePrincipal(d.Resolver))
	api.PUT("/auth/password", d.Auth.ChangePassword)

	api.GET("/products", d.Products.List)
	api.POST("/products", d.Products.Create)
	api.POST("/products/upload", d.Upload.Upload)
	api.GET("/products/:id", d.Products.Get)
	api.PUT("/products/:id", d.Products.Update)
	api.DELETE("/products/:id", d.Products.Delete)

	api.GET("/ingredients", d.Ingredients.List)
	api.POST("/ingredients", d.Ingredients.Create)
	api.GET("/ingredients/:id", d.Ingredients.Get)
	api.PUT("/ingredients/:id", d.Ingredients.Update)
	api.DELETE("/ingredients/:id", d.Ingredients.Delete)

	// Public label surface: cached, rate limited, unauthenticated.
	cache := middleware.NewRedisCache(d.CacheCfg, d.Redis)
	e.GET("/public/product/:id", d.Public.LabelPage, limiter, cache)
	e.GET("/public/product/:id/qr.png", d.Public.QRImage, limiter, cache)
	e.GET("/api/public/products/:id", d.Public.GetProduct, limiter, cache)
}
