package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Behyna/hisabkitab/internal/bill"
	"github.com/Behyna/hisabkitab/internal/constants"
	"github.com/Behyna/hisabkitab/internal/metrics"
	"github.com/Behyna/hisabkitab/internal/model"
	"github.com/Behyna/hisabkitab/internal/money"
	"github.com/Behyna/hisabkitab/internal/publishers"
	"github.com/Behyna/hisabkitab/internal/repository"
	"github.com/Behyna/hisabkitab/internal/risk"
	"go.uber.org/zap"
)

type EntryService interface {
	Process(ctx context.Context, cmd EntryCommand) (EntryResult, error)
	List(ctx context.Context) ([]model.Entry, error)
	Update(ctx context.Context, id int64, cmd EntryCommand) (EntryResult, error)
	Delete(ctx context.Context, id int64) error
}

type entryService struct {
	txManager    repository.TxManager
	customerRepo repository.CustomerRepository
	entryRepo    repository.EntryRepository
	renderer     *bill.Renderer
	publisher    publishers.BillPublisher
	log          *zap.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
}

func NewEntryService(txManager repository.TxManager, customerRepo repository.CustomerRepository,
	entryRepo repository.EntryRepository, renderer *bill.Renderer, publisher publishers.BillPublisher,
	log *zap.Logger, metrics *metrics.Metrics,
) EntryService {
	return &entryService{
		txManager:    txManager,
		customerRepo: customerRepo,
		entryRepo:    entryRepo,
		renderer:     renderer,
		publisher:    publisher,
		log:          log,
		metrics:      metrics,
		now:          time.Now,
	}
}

func (s *entryService) Process(ctx context.Context, cmd EntryCommand) (EntryResult, error) {
	start := time.Now()

	total, err := validate(cmd)
	if err != nil {
		s.metrics.RecordEntryError("process", constants.ErrCodeValidationFailed)
		return EntryResult{}, err
	}

	tier, tone := risk.Classify(total, cmd.Quantity)

	transaction := model.Transaction{
		Item:         cmd.Item,
		Quantity:     cmd.Quantity,
		PricePerUnit: cmd.PricePerUnit,
		Total:        total,
		Timestamp:    s.now(),
	}

	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		customerID, err := s.customerRepo.Upsert(ctx, cmd.CustomerName)
		if err != nil {
			s.log.Error("error upsert customer", zap.Error(err))
			return NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		if err := s.customerRepo.SetRiskScore(ctx, customerID, tier.String()); err != nil {
			s.log.Error("error update customer risk score", zap.Error(err))
			return NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		transaction.CustomerID = customerID
		if err := s.entryRepo.Create(ctx, &transaction); err != nil {
			s.log.Error("error create transaction", zap.Error(err))
			return NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		return nil
	})
	if err != nil {
		s.log.Error("Failed to process entry",
			zap.String("customer", cmd.CustomerName),
			zap.Float64("total", total),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		s.metrics.RecordEntryError("process", errorCode(err))
		return EntryResult{}, err
	}

	result := s.buildResult(cmd, transaction, tier, tone)
	s.metrics.RecordEntryProcessed("process", tier.String(), total)
	s.publish(ctx, cmd, result)

	s.log.Info("Entry processed successfully",
		zap.Int64("transaction_id", transaction.ID),
		zap.Int64("customer_id", transaction.CustomerID),
		zap.Float64("total", total),
		zap.String("tier", tier.String()),
		zap.Duration("duration", time.Since(start)),
	)

	return result, nil
}

func (s *entryService) List(ctx context.Context) ([]model.Entry, error) {
	start := time.Now()

	entries, err := s.entryRepo.List(ctx)
	if err != nil {
		s.log.Error("Failed to list entries", zap.Duration("duration", time.Since(start)), zap.Error(err))
		s.metrics.RecordEntryError("list", constants.ErrCodeOperationFailed)
		return nil, NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	s.log.Debug("Entries listed", zap.Int("count", len(entries)), zap.Duration("duration", time.Since(start)))

	return entries, nil
}

func (s *entryService) Update(ctx context.Context, id int64, cmd EntryCommand) (EntryResult, error) {
	total, err := validate(cmd)
	if err != nil {
		s.metrics.RecordEntryError("update", constants.ErrCodeValidationFailed)
		return EntryResult{}, err
	}

	tier, tone := risk.Classify(total, cmd.Quantity)

	var transaction model.Transaction
	err = s.txManager.WithTx(ctx, func(ctx context.Context) error {
		existing, err := s.entryRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrEntryNotFound) {
				return NewServiceError(constants.ErrCodeEntryNotFound, err)
			}
			return NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		customerID, err := s.customerRepo.Upsert(ctx, cmd.CustomerName)
		if err != nil {
			s.log.Error("error upsert customer", zap.Error(err))
			return NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		if err := s.customerRepo.SetRiskScore(ctx, customerID, tier.String()); err != nil {
			s.log.Error("error update customer risk score", zap.Error(err))
			return NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		fields := repository.EntryFields{
			CustomerID:   customerID,
			Item:         cmd.Item,
			Quantity:     cmd.Quantity,
			PricePerUnit: cmd.PricePerUnit,
			Total:        total,
		}
		if err := s.entryRepo.Update(ctx, id, fields); err != nil {
			if errors.Is(err, repository.ErrEntryNotFound) {
				return NewServiceError(constants.ErrCodeEntryNotFound, err)
			}
			s.log.Error("error update transaction", zap.Error(err))
			return NewServiceError(constants.ErrCodeOperationFailed, err)
		}

		transaction = existing
		transaction.CustomerID = customerID
		transaction.Item = cmd.Item
		transaction.Quantity = cmd.Quantity
		transaction.PricePerUnit = cmd.PricePerUnit
		transaction.Total = total

		return nil
	})
	if err != nil {
		if errorCode(err) == constants.ErrCodeEntryNotFound {
			s.metrics.RecordEntryNotFound("update")
			s.log.Info("Entry to update not found", zap.Int64("id", id))
		} else {
			s.metrics.RecordEntryError("update", errorCode(err))
			s.log.Error("Failed to update entry", zap.Int64("id", id), zap.Error(err))
		}
		return EntryResult{}, err
	}

	s.metrics.RecordEntryProcessed("update", tier.String(), total)
	s.log.Info("Entry updated successfully",
		zap.Int64("id", id),
		zap.Float64("total", total),
		zap.String("tier", tier.String()),
	)

	return s.buildResult(cmd, transaction, tier, tone), nil
}

func (s *entryService) Delete(ctx context.Context, id int64) error {
	if err := s.entryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			s.metrics.RecordEntryNotFound("delete")
			s.log.Info("Entry to delete not found", zap.Int64("id", id))
			return NewServiceError(constants.ErrCodeEntryNotFound, err)
		}

		s.metrics.RecordEntryError("delete", constants.ErrCodeOperationFailed)
		s.log.Error("Failed to delete entry", zap.Int64("id", id), zap.Error(err))
		return NewServiceError(constants.ErrCodeOperationFailed, err)
	}

	s.log.Info("Entry deleted successfully", zap.Int64("id", id))

	return nil
}

func (s *entryService) buildResult(cmd EntryCommand, tx model.Transaction, tier risk.Tier, tone risk.Tone) EntryResult {
	rendered := s.renderer.Render(cmd.CustomerName, cmd.Item, tx.Total, tier, tone)

	return EntryResult{
		TransactionID: tx.ID,
		CustomerID:    tx.CustomerID,
		Total:         tx.Total,
		Tier:          tier,
		Tone:          tone,
		Bill:          rendered.Text,
		ShareLink:     rendered.ShareLink,
		Report:        bill.Report(tier, tone),
		Timestamp:     tx.Timestamp,
	}
}

// publish hands the bill to the reminder queue. The entry is already
// committed, so failures are logged and counted but not returned.
func (s *entryService) publish(ctx context.Context, cmd EntryCommand, result EntryResult) {
	event := model.BillIssued{
		TransactionID: result.TransactionID,
		CustomerID:    result.CustomerID,
		CustomerName:  cmd.CustomerName,
		Item:          cmd.Item,
		Total:         result.Total,
		Tier:          result.Tier.String(),
		Tone:          result.Tone.String(),
		ShareLink:     result.ShareLink,
		IssuedAt:      result.Timestamp,
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn("Failed to publish bill event",
			zap.Int64("transaction_id", result.TransactionID),
			zap.Error(err))
		s.metrics.RecordBillPublished("error")
		return
	}

	s.metrics.RecordBillPublished("success")
}

// validate checks the command and returns its rounded total. A total that
// overflows or exceeds money.MaxTotal is rejected before any write.
func validate(cmd EntryCommand) (float64, error) {
	switch {
	case strings.TrimSpace(cmd.CustomerName) == "":
		return 0, NewServiceError(constants.ErrCodeValidationFailed, ErrMissingCustomer)
	case strings.TrimSpace(cmd.Item) == "":
		return 0, NewServiceError(constants.ErrCodeValidationFailed, ErrMissingItem)
	case cmd.Quantity < 0:
		return 0, NewServiceError(constants.ErrCodeValidationFailed, ErrNegativeQuantity)
	case cmd.PricePerUnit < 0:
		return 0, NewServiceError(constants.ErrCodeValidationFailed, ErrNegativePrice)
	}

	total, err := money.Total(cmd.Quantity, cmd.PricePerUnit)
	if err != nil {
		return 0, NewServiceError(constants.ErrCodeValidationFailed, ErrTotalOutOfRange)
	}

	return total, nil
}

func errorCode(err error) string {
	var serviceErr Error
	if errors.As(err, &serviceErr) {
		return serviceErr.Code
	}
	return constants.ErrCodeOperationFailed
}
