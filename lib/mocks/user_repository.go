package mocks

import (
	"context"

	"github.com/capitalninja/ninja/core/user"
	"github.com/stretchr/testify/mock"
)

type UserRepository struct {
	mock.Mock
}

func (repo *UserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	args := repo.Called(ctx, id)
	return args.Get(0).(user.User), args.Error(1)
}

func (repo *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	args := repo.Called(ctx, email)
	return args.Get(0).(user.User), args.Error(1)
}

func (repo *UserRepository) Upsert(ctx context.Context, u *user.User) (string, error) {
	args := repo.Called(ctx, u)
	return args.String(0), args.Error(1)
}
