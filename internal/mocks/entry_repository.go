package mocks

import (
	"context"

	"github.com/Behyna/hisabkitab/internal/model"
	"github.com/Behyna/hisabkitab/internal/repository"
	"github.com/stretchr/testify/mock"
)

type EntryRepository struct {
	mock.Mock
}

func (e *EntryRepository) Create(ctx context.Context, tx *model.Transaction) error {
	args := e.Called(ctx, tx)
	return args.Error(0)
}

func (e *EntryRepository) GetByID(ctx context.Context, id int64) (model.Transaction, error) {
	args := e.Called(ctx, id)
	return args.Get(0).(model.Transaction), args.Error(1)
}

func (e *EntryRepository) List(ctx context.Context) ([]model.Entry, error) {
	args := e.Called(ctx)
	entries, _ := args.Get(0).([]model.Entry)
	return entries, args.Error(1)
}

func (e *EntryRepository) Update(ctx context.Context, id int64, fields repository.EntryFields) error {
	args := e.Called(ctx, id, fields)
	return args.Error(0)
}

func (e *EntryRepository) Delete(ctx context.Context, id int64) error {
	args := e.Called(ctx, id)
	return args.Error(0)
}

func (e *EntryRepository) Count(ctx context.Context) (int64, error) {
	args := e.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
