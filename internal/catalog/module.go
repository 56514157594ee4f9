// Package catalog provides the material catalog bounded context module.
package catalog

import (
	"marmurfit_voicebot/internal/catalog/handler"
	"marmurfit_voicebot/internal/catalog/repository"
	"marmurfit_voicebot/internal/catalog/service"
	apphttp "marmurfit_voicebot/internal/http"
	"marmurfit_voicebot/platform/config"
	"marmurfit_voicebot/platform/logger"
	"marmurfit_voicebot/platform/validator"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	catalog *service.Catalog
}

// NewModule loads the catalog file and fails if it is missing or invalid.
func NewModule(cfg config.CatalogConfig, val *validator.Validator, log *logger.Logger) (*Module, error) {
	repo := repository.NewFileRepository(cfg.GetCatalogPath())
	c, err := service.Load(repo, val, log)
	if err != nil {
		return nil, err
	}

	return &Module{
		handler: handler.New(c, val),
		catalog: c,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Catalog returns the loaded knowledge base for other modules.
func (m *Module) Catalog() *service.Catalog {
	return m.catalog
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/catalog", m.handler.ListMaterials)
	ctx.V1.GET("/catalog/price", m.handler.GetPrice)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
