package rules

import (
	"errors"
	"regexp"
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

// Test API headers.
const (
	HeaderCountry = "X_COUNTRY"
	HeaderID      = "X_ID"
	HeaderVersion = "X_VER"
)

var countryPattern = regexp.MustCompile(`^[a-zA-Z]{2}$`)

// Handler handles HTTP requests for a rule dataset.
type Handler struct {
	service *catalog.Service
	logger  *zap.Logger
	prefix  string
}

// NewHandler creates a handler mounted under prefix, e.g. "/rules".
func NewHandler(service *catalog.Service, prefix string, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger, prefix: prefix}
}

// RegisterRoutes registers the read routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group(h.prefix)
	group.Get("/", h.HandleList)
	group.Get("/:country", h.HandleListByCountry)
	group.Get("/:country/:hash", h.HandleGet)
}

// RegisterTestRoutes registers the direct-save route behind guard.
func (h *Handler) RegisterTestRoutes(app fiber.Router, guard fiber.Handler) {
	app.Post(h.prefix, guard, h.HandleSave)
}

// HandleList returns the signed list of every rule.
// @Summary List rules
// @Description Signed listing of every rule. The signature of the body is returned in X-SIGNATURE.
// @Tags rules
// @Produce json
// @Success 200 {array} dataset.Listing "Rule listing"
// @Failure 500 {object} apperror.Error "Internal Server Error"
// @Router /rules [get]
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

// HandleListByCountry returns the listing of one country.
// @Summary List rules of a country
// @Tags rules
// @Produce json
// @Param country path string true "Two letter country code"
// @Success 200 {array} dataset.Listing "Rule listing"
// @Failure 400 {object} apperror.Error "Malformed country code"
// @Router /rules/{country} [get]
func (h *Handler) HandleListByCountry(c *fiber.Ctx) error {
	country := c.Params("country")
	if err := validateCountry(country); err != nil {
		return err
	}

	listings, err := h.service.ListByCountry(c.Context(), country)
	if err != nil {
		return err
	}
	body, err := dataset.MarshalListing(h.service.Kind(), listings)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// HandleGet returns one rule.
// @Summary Get rule
// @Tags rules
// @Produce json
// @Param country path string true "Two letter country code"
// @Param hash path string true "Rule hash"
// @Success 200 {object} map[string]interface{} "Rule JSON"
// @Failure 400 {object} apperror.Error "Malformed country code"
// @Failure 404 {object} apperror.Error "Rule not found"
// @Router /rules/{country}/{hash} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	country := c.Params("country")
	if err := validateCountry(country); err != nil {
		return err
	}
	hash := strings.ToLower(c.Params("hash"))
	if hash == "" {
		return apperror.BadRequest(apperror.CodeMissingHash, "Missing hash", "", "")
	}

	item, err := h.service.Get(c.Context(), dataset.Key{Country: country, Hash: hash})
	if errors.Is(err, dataset.ErrNotFound) {
		return apperror.NotFound("Rule not found", country+"/"+hash)
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

// HandleSave stores a rule directly.
// @Summary Save rule (test API)
// @Tags rules
// @Accept json
// @Param X_COUNTRY header string true "Two letter country code"
// @Param X_ID header string true "Rule identifier"
// @Param X_VER header string false "Rule version"
// @Success 201 "Created"
// @Failure 400 {object} apperror.Error "Invalid request"
// @Failure 401 {object} apperror.Error "Unauthorized"
// @Router /rules [post]
func (h *Handler) HandleSave(c *fiber.Ctx) error {
	country := c.Get(HeaderCountry)
	if err := validateCountry(country); err != nil {
		return err
	}
	id := c.Get(HeaderID)
	if id == "" {
		return apperror.BadRequest(apperror.CodeMissingID, "Missing identifier", "", HeaderID+" header is required")
	}
	body := c.Body()
	if len(body) == 0 || !json.Valid(body) {
		return apperror.BadRequest(apperror.CodeInvalidPayload, "Invalid payload", "", "body must be a JSON document")
	}

	// Header values point into the request buffer and must not outlive it.
	item := dataset.NewItem(utils.CopyString(id), utils.CopyString(country), utils.CopyString(c.Get(HeaderVersion)), string(body))
	if err := h.service.Save(c.Context(), item); err != nil {
		return err
	}

	logger.WithRayID(h.logger, c).Info("Rule saved",
		zap.String("identifier", id),
		zap.String("country", item.Country),
		zap.String("hash", item.Hash))
	return c.SendStatus(fiber.StatusCreated)
}

func validateCountry(country string) error {
	if !countryPattern.MatchString(country) {
		return apperror.BadRequest(apperror.CodeInvalidCountry, "Invalid country code", country, "country code must be two letters")
	}
	return nil
}
