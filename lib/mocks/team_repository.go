package mocks

import (
	"context"
	"time"

	"github.com/capitalninja/ninja/core/team"
	"github.com/stretchr/testify/mock"
)

type TeamRepository struct {
	mock.Mock
}

func (repo *TeamRepository) GetProfileIDByEmail(ctx context.Context, email string) (string, error) {
	args := repo.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (repo *TeamRepository) AddMember(ctx context.Context, m *team.Member) (string, error) {
	args := repo.Called(ctx, m)
	return args.String(0), args.Error(1)
}

func (repo *TeamRepository) GetMembers(ctx context.Context) ([]team.Member, error) {
	args := repo.Called(ctx)
	return args.Get(0).([]team.Member), args.Error(1)
}

func (repo *TeamRepository) GetPendingInvitation(ctx context.Context, email string) (team.Invitation, error) {
	args := repo.Called(ctx, email)
	return args.Get(0).(team.Invitation), args.Error(1)
}

func (repo *TeamRepository) CreateInvitation(ctx context.Context, inv *team.Invitation) (string, error) {
	args := repo.Called(ctx, inv)
	return args.String(0), args.Error(1)
}

func (repo *TeamRepository) RefreshInvitation(ctx context.Context, id string, createdAt, expiresAt time.Time) error {
	args := repo.Called(ctx, id, createdAt, expiresAt)
	return args.Error(0)
}

func (repo *TeamRepository) GetInvitationByToken(ctx context.Context, token string) (team.Invitation, error) {
	args := repo.Called(ctx, token)
	return args.Get(0).(team.Invitation), args.Error(1)
}

func (repo *TeamRepository) SetInvitationStatus(ctx context.Context, id string, status team.InvitationStatus) error {
	args := repo.Called(ctx, id, status)
	return args.Error(0)
}

func (repo *TeamRepository) AcceptInvitation(ctx context.Context, invitationID string, m *team.Member) (string, error) {
	args := repo.Called(ctx, invitationID, m)
	return args.String(0), args.Error(1)
}
