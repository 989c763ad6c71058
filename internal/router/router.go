package router // package router wires HTTP routes to their handlers

import (
    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/config"
    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/handler"
    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/middleware"
    "github.com/Houseiana/Houseiana-Holidays-Homes-sub004/internal/model"
)

// RegisterRoutes registers routes that carry no authentication at all.
func RegisterRoutes(e *echo.Echo) {
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Register, login
// and the refresh flows are open; logout without a refresh token in the
// body needs a valid access token so it can revoke every session.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    g.POST("/refresh", a.Refresh)
    g.POST("/logout", a.Logout, middleware.JWTAuth(jwtSecret))
}

// RegisterPublic registers the unauthenticated browse endpoints.  The
// calendar response is served through the Redis response cache when one
// is configured.
func RegisterPublic(e *echo.Echo, p *handler.PublicPropertyHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
    cached := middleware.NewRedisCache(cacheCfg, rdb)
    e.GET("/v1/properties/:id", p.Get)
    e.GET("/v1/properties/:id/calendar", p.Calendar, cached)
}

// RegisterBookings registers the authenticated booking lifecycle routes.
//
// Guests create, list and soft-delete bookings.  Hosts approve, decline
// and check guests in under /v1/host.  Cancel, complete and single-booking
// reads are shared: either side of a booking may call them, and the
// engine enforces per-booking ownership beyond the coarse role gate here.
func RegisterBookings(e *echo.Echo, b *handler.BookingHandler, hb *handler.HostBookingHandler, jwtSecret string) {
    shared := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleGuest, model.RoleHost))
    shared.GET("/bookings/:id", b.Get)
    shared.POST("/bookings/:id/cancel", b.Cancel)
    shared.POST("/bookings/:id/complete", b.Complete)

    guest := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleGuest))
    guest.POST("/bookings", b.Create)
    guest.GET("/my-bookings", b.ListMine)
    guest.DELETE("/bookings/:id", b.Delete)

    host := e.Group("/v1/host", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleHost))
    host.POST("/bookings/:id/approve", hb.Approve)
    host.POST("/bookings/:id/decline", hb.Decline)
    host.POST("/bookings/:id/check-in", hb.CheckIn)
    host.GET("/properties/:id/bookings", hb.ListForProperty)
}

// RegisterHostProperties registers the host listing management routes.
func RegisterHostProperties(e *echo.Echo, hp *handler.HostPropertyHandler, jwtSecret string) {
    host := e.Group("/v1/host", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleHost))
    host.POST("/properties", hp.Create)
    host.GET("/properties", hp.ListMine)
    host.POST("/properties/:id/blackout", hp.Blackout)
}

// RegisterPayments registers the payment provider callback.  No JWT: the
// provider authenticates with the shared webhook secret instead.
func RegisterPayments(e *echo.Echo, p *handler.PaymentHandler) {
    e.POST("/v1/payments/callback", p.Callback)
}
