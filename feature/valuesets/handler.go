package valuesets

import (
	"errors"
	"strings"

	"rules-service/core/apperror"
	"rules-service/core/catalog"
	"rules-service/core/dataset"
	"rules-service/core/logger"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

// SignatureHeader carries the signature of a served payload.
const SignatureHeader = "X-SIGNATURE"

// HeaderID carries the value set id on the test API.
const HeaderID = "X_ID"

// Handler handles HTTP requests for value sets.
type Handler struct {
	service *catalog.Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *catalog.Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers the value set routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/valuesets")
	group.Get("/", h.HandleList)
	group.Get("/:hash", h.HandleGet)
}

// RegisterTestRoutes registers the direct-save route behind guard.
func (h *Handler) RegisterTestRoutes(app fiber.Router, guard fiber.Handler) {
	app.Post("/valuesets", guard, h.HandleSave)
}

// HandleList returns the signed list of value sets.
// @Summary List value sets
// @Tags valuesets
// @Produce json
// @Success 200 {array} map[string]string "Value set ids and hashes"
// @Failure 500 {object} apperror.Error "Internal Server Error"
// @Router /valuesets [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	list, err := h.service.SignedList(c.Context())
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Failed to load signed list", zap.Error(err))
		return err
	}
	if list.Signature != "" {
		c.Set(SignatureHeader, list.Signature)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.SendString(list.RawData)
}

// HandleGet returns one value set.
// @Summary Get value set
// @Tags valuesets
// @Produce json
// @Param hash path string true "Value set hash"
// @Success 200 {object} map[string]interface{} "Value set JSON"
// @Failure 404 {object} apperror.Error "Value set not found"
// @Router /valuesets/{hash} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	hash := strings.ToLower(c.Params("hash"))
	if hash == "" {
		return apperror.BadRequest(apperror.CodeMissingHash, "Missing hash", "", "")
	}

	item, err := h.service.Get(c.Context(), dataset.Key{Hash: hash})
	if errors.Is(err, dataset.ErrNotFound) {
		return apperror.NotFound("Value set not found", hash)
	}
	if err != nil {
		return err
	}

	if item.Signature != "" {
		c.Set(SignatureHeader, item.Signature)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.SendString(item.RawData)
}

// HandleSave stores a value set directly.
// @Summary Save value set (test API)
// @Tags valuesets
// @Accept json
// @Param X_ID header string true "Value set id"
// @Success 201 "Created"
// @Failure 400 {object} apperror.Error "Invalid request"
// @Failure 401 {object} apperror.Error "Unauthorized"
// @Router /valuesets [post]
func (h *Handler) HandleSave(c *fiber.Ctx) error {
	id := c.Get(HeaderID)
	if id == "" {
		return apperror.BadRequest(apperror.CodeMissingID, "Missing identifier", "", HeaderID+" header is required")
	}
	body := c.Body()
	if len(body) == 0 || !json.Valid(body) {
		return apperror.BadRequest(apperror.CodeInvalidPayload, "Invalid payload", "", "body must be a JSON document")
	}

	// Header values point into the request buffer and must not outlive it.
	item := dataset.NewItem(utils.CopyString(id), "", "", string(body))
	if err := h.service.Save(c.Context(), item); err != nil {
		return err
	}

	logger.WithRayID(h.logger, c).Info("Value set saved",
		zap.String("id", item.Identifier),
		zap.String("hash", item.Hash))
	return c.SendStatus(fiber.StatusCreated)
}
