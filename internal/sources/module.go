// Package sources provides the source registry bounded context.
// Operators manage which CRM lead sources are watched and each source's
// timer duration; the engine reads the enabled set every detection cycle.
package sources

import (
	apphttp "leadwatch_backend/internal/http"
	"leadwatch_backend/internal/sources/handler"
	"leadwatch_backend/internal/sources/repository"
	"leadwatch_backend/internal/sources/service"
	"leadwatch_backend/platform/logger"
	"leadwatch_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the sources bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the sources module with all its dependencies.
func NewModule(pool *pgxpool.Pool, directory service.DirectorySourceLister, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, directory, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "sources"
}

// Repository returns the registry reader for the engine.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts monitored source routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	adminGroup := ctx.Admin.Group("/sources")
	adminGroup.GET("", m.handler.List)
	adminGroup.GET("/directory", m.handler.ListDirectorySources)
	adminGroup.POST("", m.handler.Create)
	adminGroup.GET("/:id", m.handler.GetByID)
	adminGroup.PUT("/:id", m.handler.Update)
	adminGroup.PATCH("/:id/toggle", m.handler.ToggleEnabled)
	adminGroup.DELETE("/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
