package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/cinema-box-office/internal/handler"    // box office handlers
	"github.com/iliyamo/cinema-box-office/internal/middleware" // JWT, role, rate limit and cache middleware
	"github.com/iliyamo/cinema-box-office/internal/utils"      // role names
)

// Deps collects what the box office routes need.  Cache and RateLimit may
// be no-op middleware (see middleware.NewRedisCache and
// middleware.NewTokenBucket); they are never nil.
type Deps struct {
	BoxOffice *handler.BoxOfficeHandler
	JWTSecret string
	Cache     echo.MiddlewareFunc
	RateLimit echo.MiddlewareFunc
}

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterBoxOffice registers the room and reservation endpoints.
//
// Room listings are public and cached.  Opening a room requires an OWNER
// token; booking a seat requires an OWNER or CUSTOMER token and is rate
// limited per caller.
func RegisterBoxOffice(e *echo.Echo, d Deps) {
	h := d.BoxOffice

	e.GET("/v1/rooms", h.ListRooms, d.Cache)
	e.GET("/v1/rooms/:movie", h.GetRoom, d.Cache)

	auth := e.Group("/v1", middleware.JWTAuth(d.JWTSecret))
	auth.POST("/rooms", h.OpenRoom, middleware.RequireRole(utils.RoleOwner))
	auth.POST("/rooms/:movie/reservations", h.Reserve,
		middleware.RequireRole(utils.RoleOwner, utils.RoleCustomer), d.RateLimit)
}
