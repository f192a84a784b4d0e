// Package api exposes the planning engine over HTTP: POST /plan for
// synchronous preview/apply, the async-apply/job-status pair for long
// applies, and a minimal liveness surface.
package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/crunchynapkin404/team-planner-sub001/internal/job"
	"github.com/crunchynapkin404/team-planner-sub001/internal/repository"
	"github.com/crunchynapkin404/team-planner-sub001/internal/service"
)

// Router wires the Echo instance and its handlers.
type Router struct {
	echo     *echo.Echo
	handlers *Handlers
}

// ServiceDeps holds the collaborators every handler needs. Scheduler may be
// nil, in which case the async-apply endpoint responds 503 rather than
// panicking — a deployment without Redis still serves the synchronous
// Planning API in full.
type ServiceDeps struct {
	Orchestrator *service.Orchestrator
	DB           repository.Database
	Scheduler    *job.Scheduler
}

// NewRouter builds an Echo router with the standard middleware stack and
// every route registered.
func NewRouter(deps *ServiceDeps) *Router {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	r := &Router{
		echo:     e,
		handlers: &Handlers{deps: deps},
	}
	r.registerRoutes()
	return r
}

func (r *Router) registerRoutes() {
	r.echo.GET("/api/health", r.handlers.Health)
	r.echo.GET("/api/health/db", r.handlers.HealthDB)

	r.echo.POST("/plan", r.handlers.Plan)
	r.echo.POST("/api/plan/:runID/apply-async", r.handlers.ApplyAsync)
	r.echo.GET("/api/jobs/:jobID/status", r.handlers.JobStatus)
}

// Start begins serving HTTP on addr, blocking until the server stops.
func (r *Router) Start(addr string) error {
	return r.echo.Start(addr)
}

// Shutdown stops accepting new connections and waits for in-flight
// requests to finish, bounded by ctx.
func (r *Router) Shutdown(ctx context.Context) error {
	return r.echo.Shutdown(ctx)
}
