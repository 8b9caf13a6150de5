package mocks

import (
	"context"

	"github.com/capitalninja/ninja/core/investor"
	"github.com/stretchr/testify/mock"
)

type InvestorRepository struct {
	mock.Mock
}

func (repo *InvestorRepository) Find(ctx context.Context, q investor.Query) (investor.QueryResult, error) {
	args := repo.Called(ctx, q)
	return args.Get(0).(investor.QueryResult), args.Error(1)
}

func (repo *InvestorRepository) GetByID(ctx context.Context, id int64) (investor.Investor, error) {
	args := repo.Called(ctx, id)
	return args.Get(0).(investor.Investor), args.Error(1)
}

func (repo *InvestorRepository) Upsert(ctx context.Context, inv *investor.Investor) (int64, error) {
	args := repo.Called(ctx, inv)
	return args.Get(0).(int64), args.Error(1)
}

func (repo *InvestorRepository) Delete(ctx context.Context, id int64) error {
	args := repo.Called(ctx, id)
	return args.Error(0)
}

func (repo *InvestorRepository) GetTypes(ctx context.Context) (map[string]int, error) {
	args := repo.Called(ctx)
	return args.Get(0).(map[string]int), args.Error(1)
}

func (repo *InvestorRepository) FindContacts(ctx context.Context, q investor.Query) (investor.ContactResult, error) {
	args := repo.Called(ctx, q)
	return args.Get(0).(investor.ContactResult), args.Error(1)
}
