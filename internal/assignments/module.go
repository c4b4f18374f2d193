// Package assignments provides the lead assignment bounded context: the
// durable record of every timer the engine has opened and how it resolved.
package assignments

import (
	"leadwatch_backend/internal/assignments/handler"
	"leadwatch_backend/internal/assignments/repository"
	"leadwatch_backend/internal/assignments/service"
	apphttp "leadwatch_backend/internal/http"
	"leadwatch_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the assignments bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Store
}

// NewModule creates and initializes the assignments module with all its dependencies.
func NewModule(pool *pgxpool.Pool, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "assignments"
}

// Store returns the assignment store for the engine.
func (m *Module) Store() repository.Store {
	return m.repo
}

// RegisterRoutes mounts assignment history routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/assignments")
	group.GET("", m.handler.List)
	group.GET("/stats", m.handler.Stats)
	group.GET("/:id", m.handler.GetByID)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
