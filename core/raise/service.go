package raise

import (
	"context"

	"github.com/capitalninja/ninja/core/user"
	"github.com/goto/salt/log"
)

type Service struct {
	repository Repository
	logger     log.Logger
}

func NewService(logger log.Logger, repository Repository) *Service {
	return &Service{
		repository: repository,
		logger:     logger,
	}
}

func (s *Service) Create(ctx context.Context, r *Raise) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	if err := ValidateMemo(r.Memo); err != nil {
		return "", err
	}
	usr := user.FromContext(ctx)
	if usr.ID == "" {
		return "", user.ErrNoUserInformation
	}
	r.UserID = usr.ID
	return s.repository.Create(ctx, r)
}

// Update saves the wizard fields of r. An empty pitch deck URL keeps the
// stored one. The memo is left untouched.
func (s *Service) Update(ctx context.Context, r *Raise) error {
	if err := r.ValidateEdit(); err != nil {
		return err
	}
	return s.repository.Update(ctx, r)
}

func (s *Service) UpdateMemo(ctx context.Context, id string, memo string) error {
	if err := ValidateMemo(memo); err != nil {
		return err
	}
	return s.repository.UpdateMemo(ctx, id, memo)
}

func (s *Service) GetByID(ctx context.Context, id string) (Raise, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *Service) GetAll(ctx context.Context) ([]Raise, error) {
	return s.repository.GetAll(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repository.Delete(ctx, id)
}
