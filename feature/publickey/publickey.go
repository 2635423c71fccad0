// Package publickey serves the public key that verifies X-SIGNATURE values.
package publickey

import (
	"rules-service/core/apperror"
	"rules-service/core/logger"
	"rules-service/core/signing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	signer signing.Signer
	logger *zap.Logger
}

// NewFeature creates the public key feature. signer may be nil.
func NewFeature(signer signing.Signer, logger *zap.Logger) *Feature {
	return &Feature{signer: signer, logger: logger}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "publickey"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	app.Get("/publickey", f.HandleGet)
	return nil
}

// HandleGet returns the base64 DER public key.
// @Summary Get public key
// @Description Base64 encoded DER (PKIX) public key verifying X-SIGNATURE headers.
// @Tags publickey
// @Produce plain
// @Success 200 {string} string "Public key"
// @Failure 404 {object} apperror.Error "No signer configured"
// @Router /publickey [get]
func (f *Feature) HandleGet(c *fiber.Ctx) error {
	if f.signer == nil {
		return apperror.NotFound("No signer configured", "")
	}
	key, err := f.signer.PublicKey(c.Context())
	if err != nil {
		logger.WithRayID(f.logger, c).Error("Failed to load public key", zap.Error(err))
		return err
	}
	return c.SendString(key)
}
