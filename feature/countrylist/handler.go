package countrylist

import (
	"rules-service/core/apperror"
	"rules-service/core/logger"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SignatureHeader carries the signature of a served payload.
const SignatureHeader = "X-SIGNATURE"

// Handler handles HTTP requests for the country list.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the country list routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/countrylist", h.HandleGet)
}

// RegisterTestRoutes registers the direct-save route behind guard.
func (h *Handler) RegisterTestRoutes(app fiber.Router, guard fiber.Handler) {
	app.Post("/countrylist", guard, h.HandleSave)
}

// HandleGet returns the country list.
// @Summary Get country list
// @Tags countrylist
// @Produce json
// @Success 200 {array} string "Country codes"
// @Failure 500 {object} apperror.Error "Internal Server Error"
// @Router /countrylist [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	e, err := h.service.Get(c.Context())
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Failed to load country list", zap.Error(err))
		return err
	}
	if e.Signature != "" {
		c.Set(SignatureHeader, e.Signature)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.SendString(e.RawData)
}

// HandleSave replaces the country list.
// @Summary Save country list (test API)
// @Tags countrylist
// @Accept json
// @Param countries body []string true "Country codes"
// @Success 204 "Saved"
// @Failure 400 {object} apperror.Error "Invalid payload"
// @Failure 401 {object} apperror.Error "Unauthorized"
// @Router /countrylist [post]
func (h *Handler) HandleSave(c *fiber.Ctx) error {
	var countries []string
	if err := json.Unmarshal(c.Body(), &countries); err != nil {
		return apperror.BadRequest(apperror.CodeInvalidPayload, "Invalid payload", "", "body must be a JSON array of country codes")
	}

	changed, err := h.service.Update(c.Context(), string(c.Body()))
	if err != nil {
		return err
	}
	logger.WithRayID(h.logger, c).Info("Country list saved", zap.Int("countries", len(countries)), zap.Bool("changed", changed))
	return c.SendStatus(fiber.StatusNoContent)
}
