package team

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/capitalninja/ninja/core/validator"
	"github.com/google/uuid"
	"github.com/goto/salt/log"
)

type Service struct {
	repository Repository
	logger     log.Logger
	now        func() time.Time
	newToken   func() string
}

type ServiceOption func(*Service)

// ServiceWithClock replaces the clock used for invitation expiry.
func ServiceWithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

func ServiceWithTokenGenerator(gen func() string) ServiceOption {
	return func(s *Service) {
		s.newToken = gen
	}
}

func NewService(logger log.Logger, repository Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repository: repository,
		logger:     logger,
		now:        time.Now,
		newToken:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Invite adds an existing profile to the team, or issues an invitation
// for an e-mail that has no profile yet. A pending invitation for the same
// e-mail is renewed and keeps its token.
func (s *Service) Invite(ctx context.Context, email string, role Role) (InviteResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validator.ValidateEmail(email); err != nil {
		return InviteResult{}, InvalidError{Reason: err.Error()}
	}
	if role == "" {
		role = RoleMember
	}
	if err := validator.ValidateOneOf(string(role), string(RoleAdmin), string(RoleMember), string(RoleViewer)); err != nil {
		return InviteResult{}, InvalidError{Reason: err.Error()}
	}

	profileID, err := s.repository.GetProfileIDByEmail(ctx, email)
	switch {
	case err == nil:
		m := &Member{UserID: profileID, Email: email, Role: role}
		id, err := s.repository.AddMember(ctx, m)
		if err != nil {
			return InviteResult{}, err
		}
		m.ID = id
		s.logger.Info("added existing profile to team", "email", email)
		return InviteResult{AddedMember: m}, nil
	case !errors.As(err, new(NotFoundError)):
		return InviteResult{}, err
	}

	now := s.now()
	pending, err := s.repository.GetPendingInvitation(ctx, email)
	switch {
	case err == nil:
		expiresAt := now.Add(InvitationTTL)
		if err := s.repository.RefreshInvitation(ctx, pending.ID, now, expiresAt); err != nil {
			return InviteResult{}, err
		}
		pending.CreatedAt, pending.ExpiresAt = now, expiresAt
		s.logger.Info("renewed pending invitation", "email", email)
		return InviteResult{Invitation: &pending, Token: pending.Token, AcceptURL: acceptURL(pending.Token)}, nil
	case !errors.As(err, new(NotFoundError)):
		return InviteResult{}, err
	}

	inv := &Invitation{
		Email:     email,
		Role:      role,
		Token:     s.newToken(),
		Status:    StatusPending,
		ExpiresAt: now.Add(InvitationTTL),
		CreatedAt: now,
	}
	id, err := s.repository.CreateInvitation(ctx, inv)
	if err != nil {
		return InviteResult{}, err
	}
	inv.ID = id
	s.logger.Info("created invitation", "email", email)
	return InviteResult{Invitation: inv, Token: inv.Token, AcceptURL: acceptURL(inv.Token)}, nil
}

// Accept redeems an invitation token for the signed-in user.
func (s *Service) Accept(ctx context.Context, token, userID string) (Member, error) {
	if token == "" {
		return Member{}, ErrInvalidToken
	}
	inv, err := s.repository.GetInvitationByToken(ctx, token)
	if err != nil {
		return Member{}, err
	}
	if inv.Status != StatusPending {
		return Member{}, NotFoundError{Token: true}
	}
	if inv.Expired(s.now()) {
		if err := s.repository.SetInvitationStatus(ctx, inv.ID, StatusExpired); err != nil {
			s.logger.Warn("failed to mark invitation expired", "id", inv.ID, "err", err)
		}
		return Member{}, ExpiredError{Email: inv.Email}
	}

	m := Member{UserID: userID, Email: inv.Email, Role: inv.Role}
	id, err := s.repository.AcceptInvitation(ctx, inv.ID, &m)
	if err != nil {
		return Member{}, err
	}
	m.ID = id
	return m, nil
}

func (s *Service) Members(ctx context.Context) ([]Member, error) {
	return s.repository.GetMembers(ctx)
}
