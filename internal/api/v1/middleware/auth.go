package middleware

import (
	"errors"

	"github.com/Behyna/hisabkitab/internal/auth"
	"github.com/Behyna/hisabkitab/internal/constants"
	"github.com/Behyna/hisabkitab/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const subjectKey = "auth_subject"

var errUnauthorized = errors.New("unauthorized")

// RequireToken rejects requests without a valid bearer token. The reason is
// logged; the client always gets the same unauthorized response.
func RequireToken(signer *auth.Signer, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		result := signer.Decode(auth.BearerToken(c.Get(fiber.HeaderAuthorization)))
		if !result.Valid() {
			logger.Info("Rejected request token",
				zap.String("path", c.Path()),
				zap.String("reason", result.Reason.String()),
				zap.String("track_id", GetTrackID(c)),
			)
			return service.NewServiceError(constants.ErrCodeUnauthorized, errUnauthorized)
		}

		c.Locals(subjectKey, result.Claims.Subject)
		return c.Next()
	}
}

func GetSubject(c *fiber.Ctx) string {
	subject, _ := c.Locals(subjectKey).(string)
	return subject
}
