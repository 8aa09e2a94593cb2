package v1

import (
	"errors"
	"strconv"
	"time"

	"github.com/Behyna/hisabkitab/internal/api/contract"
	"github.com/Behyna/hisabkitab/internal/api/v1/middleware"
	"github.com/Behyna/hisabkitab/internal/api/validator"
	"github.com/Behyna/hisabkitab/internal/config"
	"github.com/Behyna/hisabkitab/internal/constants"
	"github.com/Behyna/hisabkitab/internal/metrics"
	"github.com/Behyna/hisabkitab/internal/model"
	"github.com/Behyna/hisabkitab/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var errInvalidID = errors.New("id must be a positive integer")

type Handler struct {
	logger       *zap.Logger
	entryService service.EntryService
	XValidator   validator.IXValidator
	metrics      *metrics.Metrics
	engine       string
}

func NewHandler(logger *zap.Logger, entryService service.EntryService, XValidator validator.IXValidator,
	metrics *metrics.Metrics, cfg *config.Config,
) *Handler {
	return &Handler{
		logger:       logger,
		entryService: entryService,
		XValidator:   XValidator,
		metrics:      metrics,
		engine:       cfg.API.Engine,
	}
}

func (h *Handler) Home(c *fiber.Ctx) error {
	return c.JSON(HomeResponse{Status: "Online", Engine: h.engine})
}

func (h *Handler) Pong(c *fiber.Ctx) error {
	return c.SendString("pong")
}

func (h *Handler) ProcessEntry(c *fiber.Ctx) error {
	start := time.Now()

	var handlerRequest EntryRequest
	responseError := h.XValidator.Validator(&handlerRequest, c)
	if responseError.Code != "" {
		h.logger.Info("Rejected entry request",
			zap.String("code", responseError.Code),
			zap.String("message", responseError.Message))
		responseError.TrackID = middleware.GetTrackID(c)
		return c.JSON(responseError)
	}

	result, err := h.entryService.Process(c.UserContext(), handlerRequest.command())
	if err != nil {
		return err
	}

	h.logger.Info("Entry request served",
		zap.Int64("transaction_id", result.TransactionID),
		zap.Duration("duration", time.Since(start)),
	)

	return c.JSON(newEntryResponse(result, constants.EntryProcessed, middleware.GetTrackID(c)))
}

// ListEntries answers with a bare array, newest first.
func (h *Handler) ListEntries(c *fiber.Ctx) error {
	entries, err := h.entryService.List(c.UserContext())
	if err != nil {
		return err
	}

	if entries == nil {
		entries = []model.Entry{}
	}

	return c.JSON(entries)
}

func (h *Handler) UpdateEntry(c *fiber.Ctx) error {
	id, err := entryID(c)
	if err != nil {
		return err
	}

	var handlerRequest EntryRequest
	responseError := h.XValidator.Validator(&handlerRequest, c)
	if responseError.Code != "" {
		responseError.TrackID = middleware.GetTrackID(c)
		return c.JSON(responseError)
	}

	result, err := h.entryService.Update(c.UserContext(), id, handlerRequest.command())
	if err != nil {
		return err
	}

	return c.JSON(newEntryResponse(result, constants.EntryUpdated, middleware.GetTrackID(c)))
}

func (h *Handler) DeleteEntry(c *fiber.Ctx) error {
	id, err := entryID(c)
	if err != nil {
		return err
	}

	if err := h.entryService.Delete(c.UserContext(), id); err != nil {
		return err
	}

	return c.JSON(contract.Response{
		Success: true,
		Code:    "success",
		Message: constants.EntryDeleted,
		TrackID: middleware.GetTrackID(c),
	})
}

func entryID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.NewServiceError(constants.ErrCodeValidationFailed, errInvalidID)
	}
	return id, nil
}
