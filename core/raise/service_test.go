package raise_test

import (
	"context"
	"strings"
	"testing"

	"github.com/capitalninja/ninja/core/raise"
	"github.com/capitalninja/ninja/core/user"
	"github.com/capitalninja/ninja/lib/mocks"
	"github.com/goto/salt/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const raiseID = "0d3b1a6e-8a4f-4f0c-b1e2-6f7a9c1d2e30"

func seedRound() *raise.Raise {
	return &raise.Raise{
		Type:         raise.TypeEquity,
		Category:     raise.CategoryStartup,
		Name:         "Seed round",
		TargetAmount: 2_000_000,
		PitchDeckURL: "https://files.capital.ninja/decks/seed.pdf",
	}
}

func TestServiceCreate(t *testing.T) {
	ctx := user.NewContext(context.Background(), user.User{ID: "user-1"})

	t.Run("should stamp the requesting user", func(t *testing.T) {
		repo := new(mocks.RaiseRepository)
		defer repo.AssertExpectations(t)
		want := seedRound()
		want.UserID = "user-1"
		repo.On("Create", ctx, want).Return(raiseID, nil).Once()

		id, err := raise.NewService(log.NewNoop(), repo).Create(ctx, seedRound())
		require.NoError(t, err)
		assert.Equal(t, raiseID, id)
	})

	t.Run("should require a user", func(t *testing.T) {
		repo := new(mocks.RaiseRepository)
		_, err := raise.NewService(log.NewNoop(), repo).Create(context.Background(), seedRound())
		assert.ErrorIs(t, err, user.ErrNoUserInformation)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("should require a pitch deck", func(t *testing.T) {
		rs := seedRound()
		rs.PitchDeckURL = ""
		_, err := raise.NewService(log.NewNoop(), new(mocks.RaiseRepository)).Create(ctx, rs)
		assert.ErrorAs(t, err, new(raise.InvalidError))
	})
}

func TestServiceUpdate(t *testing.T) {
	ctx := context.Background()

	type testCase struct {
		Description string
		Mutate      func(r *raise.Raise)
		Setup       func(repo *mocks.RaiseRepository, r *raise.Raise)
		ExpectErr   error
	}

	testCases := []testCase{
		{
			Description: "should save a full edit",
			Setup: func(repo *mocks.RaiseRepository, r *raise.Raise) {
				repo.On("Update", ctx, r).Return(nil).Once()
			},
		},
		{
			Description: "should allow leaving the pitch deck out",
			Mutate:      func(r *raise.Raise) { r.PitchDeckURL = "" },
			Setup: func(repo *mocks.RaiseRepository, r *raise.Raise) {
				repo.On("Update", ctx, r).Return(nil).Once()
			},
		},
		{
			Description: "should reject a malformed pitch deck url",
			Mutate:      func(r *raise.Raise) { r.PitchDeckURL = "deck.pdf" },
			ExpectErr:   raise.InvalidError{},
		},
		{
			Description: "should still require a name",
			Mutate:      func(r *raise.Raise) { r.Name = "" },
			ExpectErr:   raise.InvalidError{},
		},
		{
			Description: "should pass not found through",
			Setup: func(repo *mocks.RaiseRepository, r *raise.Raise) {
				repo.On("Update", ctx, r).Return(raise.NotFoundError{ID: raiseID}).Once()
			},
			ExpectErr: raise.NotFoundError{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			rs := seedRound()
			rs.ID = raiseID
			if tc.Mutate != nil {
				tc.Mutate(rs)
			}
			repo := new(mocks.RaiseRepository)
			if tc.Setup != nil {
				tc.Setup(repo, rs)
			}
			defer repo.AssertExpectations(t)

			err := raise.NewService(log.NewNoop(), repo).Update(ctx, rs)
			switch want := tc.ExpectErr.(type) {
			case nil:
				assert.NoError(t, err)
			case raise.InvalidError:
				assert.ErrorAs(t, err, &want)
			case raise.NotFoundError:
				assert.ErrorAs(t, err, &want)
			}
		})
	}
}

func TestServiceUpdateMemo(t *testing.T) {
	ctx := context.Background()

	t.Run("should save the memo", func(t *testing.T) {
		repo := new(mocks.RaiseRepository)
		defer repo.AssertExpectations(t)
		repo.On("UpdateMemo", ctx, raiseID, "Strong team").Return(nil).Once()

		assert.NoError(t, raise.NewService(log.NewNoop(), repo).UpdateMemo(ctx, raiseID, "Strong team"))
	})

	t.Run("should allow clearing the memo", func(t *testing.T) {
		repo := new(mocks.RaiseRepository)
		defer repo.AssertExpectations(t)
		repo.On("UpdateMemo", ctx, raiseID, "").Return(nil).Once()

		assert.NoError(t, raise.NewService(log.NewNoop(), repo).UpdateMemo(ctx, raiseID, ""))
	})

	t.Run("should reject an oversized memo", func(t *testing.T) {
		repo := new(mocks.RaiseRepository)
		err := raise.NewService(log.NewNoop(), repo).UpdateMemo(ctx, raiseID, strings.Repeat("a", raise.MaxMemoLength+1))
		assert.ErrorAs(t, err, new(raise.InvalidError))
		repo.AssertNotCalled(t, "UpdateMemo", mock.Anything, mock.Anything, mock.Anything)
	})
}
