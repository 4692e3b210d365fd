package catalog

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
	enabled bool
}

// NewFeature creates the catalog feature. It is disabled when store is nil.
func NewFeature(store Store, logger *zap.Logger) *Feature {
	if store == nil {
		return &Feature{}
	}
	return &Feature{handler: NewHandler(NewService(store, logger)), enabled: true}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "catalog"
}

// IsEnabled reports whether a catalog store is configured.
func (f *Feature) IsEnabled() bool {
	return f.enabled
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
