package mocks

import (
	"context"

	"github.com/Behyna/hisabkitab/internal/model"
	"github.com/Behyna/hisabkitab/pkg/reminder"
	"github.com/stretchr/testify/mock"
)

type ReminderService struct {
	mock.Mock
}

func (r *ReminderService) Send(ctx context.Context, event model.BillIssued) error {
	args := r.Called(ctx, event)
	return args.Error(0)
}

type ReminderProvider struct {
	mock.Mock
}

func (r *ReminderProvider) Send(ctx context.Context, msg reminder.Message) (reminder.Response, error) {
	args := r.Called(ctx, msg)
	return args.Get(0).(reminder.Response), args.Error(1)
}
