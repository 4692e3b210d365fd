package catalog

import (
	"errors"
	"strconv"

	"dataset-manifest/core/catalog"
	"dataset-manifest/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for catalog lookups.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/images", h.HandleImagesByHash)
	app.Get("/images/:id", h.HandleImage)
	app.Get("/partitions/*", h.HandlePartition)
}

// HandleImage returns one record by image id.
func (h *Handler) HandleImage(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image id must be an integer"})
	}

	img, err := h.service.Image(c.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Image lookup failed", zap.Int64("image_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(img)
}

// HandleImagesByHash returns every record with the fingerprint given in ?hash=.
func (h *Handler) HandleImagesByHash(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	hash := c.Query("hash")
	if hash == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "query parameter hash is required"})
	}

	imgs, err := h.service.ImagesByHash(c.Context(), hash)
	if errors.Is(err, ErrInvalidHash) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Hash lookup failed", zap.String("hash", hash), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if len(imgs) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": catalog.ErrNotFound.Error()})
	}
	return c.JSON(imgs)
}

// HandlePartition returns the records of one partition. The wildcard keeps
// nested archive keys such as "batch/a" addressable.
func (h *Handler) HandlePartition(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	partition := c.Params("*")
	if partition == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "partition is required"})
	}

	imgs, err := h.service.Partition(c.Context(), partition)
	if err != nil {
		l.Error("Partition lookup failed", zap.String("partition", partition), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if len(imgs) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "partition not found"})
	}
	return c.JSON(imgs)
}
