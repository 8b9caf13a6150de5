package mocks

import (
	"context"

	"github.com/capitalninja/ninja/core/investor"
	"github.com/capitalninja/ninja/core/list"
	"github.com/stretchr/testify/mock"
)

type ListRepository struct {
	mock.Mock
}

func (repo *ListRepository) Create(ctx context.Context, l *list.List) (string, error) {
	args := repo.Called(ctx, l)
	return args.String(0), args.Error(1)
}

func (repo *ListRepository) GetByID(ctx context.Context, id string) (list.List, error) {
	args := repo.Called(ctx, id)
	return args.Get(0).(list.List), args.Error(1)
}

func (repo *ListRepository) GetAll(ctx context.Context) ([]list.List, error) {
	args := repo.Called(ctx)
	return args.Get(0).([]list.List), args.Error(1)
}

func (repo *ListRepository) Update(ctx context.Context, l *list.List) error {
	args := repo.Called(ctx, l)
	return args.Error(0)
}

func (repo *ListRepository) Delete(ctx context.Context, id string) error {
	args := repo.Called(ctx, id)
	return args.Error(0)
}

func (repo *ListRepository) AddInvestors(ctx context.Context, listID string, investorIDs []int64) (int, error) {
	args := repo.Called(ctx, listID, investorIDs)
	return args.Int(0), args.Error(1)
}

func (repo *ListRepository) RemoveInvestors(ctx context.Context, listID string, investorIDs []int64) (int, error) {
	args := repo.Called(ctx, listID, investorIDs)
	return args.Int(0), args.Error(1)
}

func (repo *ListRepository) FindInvestors(ctx context.Context, listID string, q investor.Query) (investor.QueryResult, error) {
	args := repo.Called(ctx, listID, q)
	return args.Get(0).(investor.QueryResult), args.Error(1)
}

func (repo *ListRepository) Count(ctx context.Context) (int, error) {
	args := repo.Called(ctx)
	return args.Int(0), args.Error(1)
}
