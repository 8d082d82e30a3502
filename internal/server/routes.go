package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/premstats/premstats/internal/store"
)

// RegisterRoutes configures all API routes, middleware and error handling.
func RegisterRoutes(e *echo.Echo, h *Handlers, cfg ServerConfig) {
	e.HTTPErrorHandler = JSONErrorHandler()

	e.Use(SetJSONContentType)
	e.Use(SetNoCacheHeaders)

	e.GET("/check", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	// Query pipeline, rate limited: each question costs up to two
	// completion calls.
	query := api.Group("/query")
	query.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(0.5), // 1 question every 2 seconds per client
		Burst:     3,
		ExpiresIn: 2 * time.Minute,
	})))
	query.POST("/ask_stats", h.AskStats)

	addAuth := bearerToken(cfg.AddToken)
	updateAuth := bearerToken(cfg.UpdateToken)
	deleteAuth := bearerToken(cfg.DeleteToken)

	named := []struct {
		prefix string
		label  string
		ns     func() store.NamedStore
	}{
		{"/season", "Season", h.Store.Seasons},
		{"/team", "Team", h.Store.Teams},
		{"/referee", "Referee", h.Store.Referees},
	}
	for _, n := range named {
		g := api.Group(n.prefix)
		g.POST("/add", h.createNamed(n.ns), addAuth)
		g.POST("/upsert", h.upsertNamed(n.ns), addAuth)
		g.GET("/list", h.listNamed(n.ns))
		g.GET("/get/:id", h.getNamed(n.ns, n.label))
		g.PUT("/update/:id", h.updateNamed(n.ns, n.label), updateAuth)
		g.DELETE("/delete/:id", h.deleteNamed(n.ns, n.label), deleteAuth)
	}

	match := api.Group("/match")
	match.POST("/add", h.MatchCreate, addAuth)
	match.POST("/upsert", h.MatchUpsert, addAuth)
	match.GET("/list", h.MatchList)
	match.GET("/get/:id", h.MatchGet)
	match.PUT("/update/:id", h.MatchUpdate, updateAuth)
	match.DELETE("/delete/:id", h.MatchDelete, deleteAuth)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, ErrorResponse{Detail: "not found"})
	})
}

// bearerToken guards write routes with a static token. An empty configured
// token disables the guard, matching local development setups.
func bearerToken(token string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token == "" {
				return next(c)
			}
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			got, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || got != token {
				return c.JSON(http.StatusForbidden, ErrorResponse{Detail: "Invalid or expired token."})
			}
			return next(c)
		}
	}
}
