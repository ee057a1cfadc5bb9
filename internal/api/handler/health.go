package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/popupkit/internal/domain"
)

// SettingsReadiness reports whether widget settings have been loaded.
type SettingsReadiness interface {
	Current() (domain.Settings, bool)
}

type HealthHandler struct {
	settings SettingsReadiness
}

func NewHealthHandler(settings SettingsReadiness) *HealthHandler {
	return &HealthHandler{settings: settings}
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:  "ok",
		Version: "0.1.0",
	})
}

// Ready reports 503 until the settings file has been read at least once.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	if h.settings != nil {
		if _, ok := h.settings.Current(); !ok {
			return c.Status(fiber.StatusServiceUnavailable).JSON(HealthResponse{
				Status: "waiting_settings",
			})
		}
	}

	return c.JSON(HealthResponse{
		Status: "ready",
	})
}
