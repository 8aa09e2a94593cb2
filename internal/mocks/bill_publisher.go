package mocks

import (
	"context"

	"github.com/Behyna/hisabkitab/internal/model"
	"github.com/stretchr/testify/mock"
)

type BillPublisher struct {
	mock.Mock
}

func (b *BillPublisher) Publish(ctx context.Context, event model.BillIssued) error {
	args := b.Called(ctx, event)
	return args.Error(0)
}
