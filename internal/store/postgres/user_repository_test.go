package postgres_test

import (
	"context"
	"testing"

	"github.com/capitalninja/ninja/core/user"
	"github.com/capitalninja/ninja/internal/store/postgres"
	"github.com/google/uuid"
	"github.com/goto/salt/log"
	"github.com/stretchr/testify/suite"
)

type UserRepositoryTestSuite struct {
	suite.Suite
	ctx        context.Context
	db         *testDB
	repository *postgres.UserRepository
}

func (r *UserRepositoryTestSuite) SetupSuite() {
	var err error

	r.db, err = newTestDB(r.T(), log.NewNoop())
	if err != nil {
		r.T().Fatal(err)
	}

	r.ctx = context.TODO()
	r.repository, err = postgres.NewUserRepository(r.db.app)
	if err != nil {
		r.T().Fatal(err)
	}
}

func (r *UserRepositoryTestSuite) TestUpsert() {
	id := uuid.NewString()

	r.Run("return error if user is nil", func() {
		_, err := r.repository.Upsert(r.ctx, nil)
		r.ErrorIs(err, user.ErrNoUserInformation)
	})

	r.Run("return InvalidError if id is not a uuid", func() {
		_, err := r.repository.Upsert(r.ctx, &user.User{ID: "not-a-uuid"})
		r.ErrorAs(err, new(user.InvalidError))
	})

	r.Run("insert then update keeps stored fields that are empty", func() {
		got, err := r.repository.Upsert(r.ctx, &user.User{ID: id, Email: "ada@example.com", FullName: "Ada"})
		r.Require().NoError(err)
		r.Equal(id, got)

		_, err = r.repository.Upsert(r.ctx, &user.User{ID: id, Email: "ada@example.org"})
		r.Require().NoError(err)

		u, err := r.repository.GetByID(r.ctx, id)
		r.Require().NoError(err)
		r.Equal("ada@example.org", u.Email)
		r.Equal("Ada", u.FullName)
	})

	r.Run("email of another profile is rejected", func() {
		_, err := r.repository.Upsert(r.ctx, &user.User{ID: uuid.NewString(), Email: "ada@example.org"})
		r.Error(err)
	})
}

func (r *UserRepositoryTestSuite) TestGetBy() {
	id := uuid.NewString()
	_, err := r.repository.Upsert(r.ctx, &user.User{ID: id, Email: "grace@example.com"})
	r.Require().NoError(err)

	r.Run("by email ignores case", func() {
		u, err := r.repository.GetByEmail(r.ctx, "Grace@Example.com")
		r.Require().NoError(err)
		r.Equal(id, u.ID)
	})

	r.Run("unknown email", func() {
		_, err := r.repository.GetByEmail(r.ctx, "nobody@example.com")
		r.ErrorAs(err, new(user.NotFoundError))
	})

	r.Run("unknown id", func() {
		_, err := r.repository.GetByID(r.ctx, uuid.NewString())
		r.ErrorAs(err, new(user.NotFoundError))
	})
}

func TestUserRepository(t *testing.T) {
	suite.Run(t, &UserRepositoryTestSuite{})
}
