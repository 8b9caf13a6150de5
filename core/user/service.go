package user

import (
	"context"
	"errors"

	"github.com/goto/salt/log"
)

// Service is a type of service that manages business process
type Service struct {
	repository Repository
	logger     log.Logger
}

// ValidateUser resolves the profile for the given id. A profile that does
// not exist yet is created from the id and email.
func (s *Service) ValidateUser(ctx context.Context, id, email string) (User, error) {
	if id == "" {
		return User{}, ErrNoUserInformation
	}

	usr, err := s.repository.GetByID(ctx, id)
	if err == nil {
		return usr, nil
	}
	if !errors.As(err, new(NotFoundError)) {
		s.logger.Error("error when GetByID in ValidateUser service", "err", err.Error())
		return User{}, err
	}

	usr = User{ID: id, Email: email}
	if _, err := s.repository.Upsert(ctx, &usr); err != nil {
		s.logger.Error("error when Upsert in ValidateUser service", "err", err.Error())
		return User{}, err
	}
	return usr, nil
}

// NewService initializes user service
func NewService(logger log.Logger, repository Repository) *Service {
	return &Service{
		repository: repository,
		logger:     logger,
	}
}
