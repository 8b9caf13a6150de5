package campaign

import (
	"context"

	"github.com/capitalninja/ninja/core/user"
	"github.com/capitalninja/ninja/core/validator"
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

// Create records a draft campaign. Nothing is sent.
func (s *Service) Create(ctx context.Context, c *Campaign) (string, error) {
	if c == nil {
		return "", InvalidError{Reason: "campaign is nil"}
	}
	if err := validator.ValidateStruct(c); err != nil {
		return "", InvalidError{Reason: err.Error()}
	}
	usr := user.FromContext(ctx)
	if usr.ID == "" {
		return "", user.ErrNoUserInformation
	}
	c.UserID = usr.ID
	c.Status = StatusDraft
	c.SuccessfulSends = 0
	return s.repository.Create(ctx, c)
}

func (s *Service) GetByID(ctx context.Context, id string) (Campaign, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *Service) GetAll(ctx context.Context, flt Filter) (Page, error) {
	if err := validator.ValidateStruct(flt); err != nil {
		return Page{}, InvalidError{Reason: err.Error()}
	}
	if flt.Page < 1 {
		flt.Page = 1
	}
	return s.repository.GetAll(ctx, flt)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repository.Delete(ctx, id)
}
