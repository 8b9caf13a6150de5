package mocks

import (
	"context"

	"github.com/capitalninja/ninja/core/campaign"
	"github.com/stretchr/testify/mock"
)

type CampaignRepository struct {
	mock.Mock
}

func (repo *CampaignRepository) Create(ctx context.Context, c *campaign.Campaign) (string, error) {
	args := repo.Called(ctx, c)
	return args.String(0), args.Error(1)
}

func (repo *CampaignRepository) GetByID(ctx context.Context, id string) (campaign.Campaign, error) {
	args := repo.Called(ctx, id)
	return args.Get(0).(campaign.Campaign), args.Error(1)
}

func (repo *CampaignRepository) GetAll(ctx context.Context, flt campaign.Filter) (campaign.Page, error) {
	args := repo.Called(ctx, flt)
	return args.Get(0).(campaign.Page), args.Error(1)
}

func (repo *CampaignRepository) Delete(ctx context.Context, id string) error {
	args := repo.Called(ctx, id)
	return args.Error(0)
}
