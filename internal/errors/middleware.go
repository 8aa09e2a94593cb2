package errors

import (
	"errors"

	"github.com/Behyna/hisabkitab/internal/api/contract"
	"github.com/Behyna/hisabkitab/internal/api/v1/middleware"
	"github.com/Behyna/hisabkitab/internal/constants"
	"github.com/Behyna/hisabkitab/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var serviceErr service.Error
		if errors.As(err, &serviceErr) {
			return handleServiceError(c, logger, serviceErr)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(contract.Response{
				Code:    constants.ErrCodeInternalError,
				Message: fiberErr.Message,
				TrackID: middleware.GetTrackID(c),
			})
		}

		logger.Error("Unhandled request error",
			zap.String("path", c.Path()),
			zap.String("track_id", middleware.GetTrackID(c)),
			zap.Error(err),
		)

		return c.Status(fiber.StatusInternalServerError).JSON(contract.Response{
			Code:    constants.ErrCodeInternalError,
			Message: constants.ErrMsgInternalError,
			TrackID: middleware.GetTrackID(c),
		})
	}
}

// handleServiceError answers with the code's fixed message. Only validation
// errors expose their cause, which names the violated constraint.
func handleServiceError(c *fiber.Ctx, logger *zap.Logger, err service.Error) error {
	message := constants.GetErrorMessage(err.Code)
	if err.Code == constants.ErrCodeValidationFailed && err.Cause != nil {
		message = err.Cause.Error()
	}

	if constants.GetHTTPStatus(err.Code) >= fiber.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("code", err.Code),
			zap.String("path", c.Path()),
			zap.String("track_id", middleware.GetTrackID(c)),
			zap.Error(err.Cause),
		)
	}

	return c.Status(constants.GetHTTPStatus(err.Code)).JSON(contract.Response{
		Code:    err.Code,
		Message: message,
		TrackID: middleware.GetTrackID(c),
	})
}
