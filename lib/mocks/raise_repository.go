package mocks

import (
	"context"

	"github.com/capitalninja/ninja/core/raise"
	"github.com/stretchr/testify/mock"
)

type RaiseRepository struct {
	mock.Mock
}

func (repo *RaiseRepository) Create(ctx context.Context, r *raise.Raise) (string, error) {
	args := repo.Called(ctx, r)
	return args.String(0), args.Error(1)
}

func (repo *RaiseRepository) Update(ctx context.Context, r *raise.Raise) error {
	args := repo.Called(ctx, r)
	return args.Error(0)
}

func (repo *RaiseRepository) UpdateMemo(ctx context.Context, id string, memo string) error {
	args := repo.Called(ctx, id, memo)
	return args.Error(0)
}

func (repo *RaiseRepository) GetByID(ctx context.Context, id string) (raise.Raise, error) {
	args := repo.Called(ctx, id)
	return args.Get(0).(raise.Raise), args.Error(1)
}

func (repo *RaiseRepository) GetAll(ctx context.Context) ([]raise.Raise, error) {
	args := repo.Called(ctx)
	return args.Get(0).([]raise.Raise), args.Error(1)
}

func (repo *RaiseRepository) Delete(ctx context.Context, id string) error {
	args := repo.Called(ctx, id)
	return args.Error(0)
}
