package mocks

import (
	"context"

	"github.com/Behyna/hisabkitab/internal/model"
	"github.com/stretchr/testify/mock"
)

type CustomerRepository struct {
	mock.Mock
}

func (c *CustomerRepository) Upsert(ctx context.Context, name string) (int64, error) {
	args := c.Called(ctx, name)
	return args.Get(0).(int64), args.Error(1)
}

func (c *CustomerRepository) FindByName(ctx context.Context, name string) (model.Customer, error) {
	args := c.Called(ctx, name)
	return args.Get(0).(model.Customer), args.Error(1)
}

func (c *CustomerRepository) SetRiskScore(ctx context.Context, id int64, riskScore string) error {
	args := c.Called(ctx, id, riskScore)
	return args.Error(0)
}

func (c *CustomerRepository) Count(ctx context.Context) (int64, error) {
	args := c.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
