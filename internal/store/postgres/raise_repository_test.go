package postgres_test

import (
	"context"
	"testing"

	"github.com/capitalninja/ninja/core/campaign"
	"github.com/capitalninja/ninja/core/list"
	"github.com/capitalninja/ninja/core/raise"
	"github.com/capitalninja/ninja/internal/store/postgres"
	"github.com/goto/salt/log"
	"github.com/stretchr/testify/suite"
)

type RaiseRepositoryTestSuite struct {
	suite.Suite
	db        *testDB
	raises    *postgres.RaiseRepository
	campaigns *postgres.CampaignRepository
	lists     *postgres.ListRepository
	ctx       context.Context
	userID    string
	otherCtx  context.Context
}

func (r *RaiseRepositoryTestSuite) SetupSuite() {
	var err error

	r.db, err = newTestDB(r.T(), log.NewNoop())
	if err != nil {
		r.T().Fatal(err)
	}
	if r.raises, err = postgres.NewRaiseRepository(r.db.app); err != nil {
		r.T().Fatal(err)
	}
	if r.campaigns, err = postgres.NewCampaignRepository(r.db.app); err != nil {
		r.T().Fatal(err)
	}
	if r.lists, err = postgres.NewListRepository(r.db.app); err != nil {
		r.T().Fatal(err)
	}
}

func (r *RaiseRepositoryTestSuite) SetupTest() {
	var err error
	if err = r.db.reset(r.T()); err != nil {
		r.T().Fatal(err)
	}
	if err = seedInvestors(r.db.admin, 5); err != nil {
		r.T().Fatal(err)
	}
	if r.ctx, r.userID, err = createProfile(r.db.admin, "founder@example.com"); err != nil {
		r.T().Fatal(err)
	}
	if r.otherCtx, _, err = createProfile(r.db.admin, "other@example.com"); err != nil {
		r.T().Fatal(err)
	}
}

func (r *RaiseRepositoryTestSuite) newRaise(name string) *raise.Raise {
	return &raise.Raise{
		UserID:       r.userID,
		Type:         raise.TypeEquity,
		Category:     raise.CategoryStartup,
		Name:         name,
		TargetAmount: 2.5e6,
		PitchDeckURL: "https://example.com/deck.pdf",
	}
}

func (r *RaiseRepositoryTestSuite) TestRaises() {
	id, err := r.raises.Create(r.ctx, r.newRaise("Seed"))
	r.Require().NoError(err)

	got, err := r.raises.GetByID(r.ctx, id)
	r.Require().NoError(err)
	r.Equal("Seed", got.Name)
	r.Equal(raise.TypeEquity, got.Type)
	r.InDelta(2.5e6, got.TargetAmount, 0.01)

	got.Name = "Seed II"
	r.Require().NoError(r.raises.Update(r.ctx, &got))

	all, err := r.raises.GetAll(r.ctx)
	r.Require().NoError(err)
	r.Require().Len(all, 1)
	r.Equal("Seed II", all[0].Name)

	r.Run("other users cannot see or delete it", func() {
		_, err := r.raises.GetByID(r.otherCtx, id)
		r.ErrorAs(err, new(raise.NotFoundError))
		r.ErrorAs(r.raises.Delete(r.otherCtx, id), new(raise.NotFoundError))
	})

	r.Run("non positive targets are invalid", func() {
		rs := r.newRaise("Broken")
		rs.TargetAmount = 0
		_, err := r.raises.Create(r.ctx, rs)
		r.ErrorAs(err, new(raise.InvalidError))
	})

	r.Require().NoError(r.raises.Delete(r.ctx, id))
	_, err = r.raises.GetByID(r.ctx, id)
	r.ErrorAs(err, new(raise.NotFoundError))
}

func (r *RaiseRepositoryTestSuite) TestMemo() {
	id, err := r.raises.Create(r.ctx, r.newRaise("Growth"))
	r.Require().NoError(err)

	got, err := r.raises.GetByID(r.ctx, id)
	r.Require().NoError(err)
	r.Equal("", got.Memo)

	r.Require().NoError(r.raises.UpdateMemo(r.ctx, id, "Strong team, 3x ARR growth."))
	got, err = r.raises.GetByID(r.ctx, id)
	r.Require().NoError(err)
	r.Equal("Strong team, 3x ARR growth.", got.Memo)

	r.Run("editing the raise keeps the memo and an omitted deck url", func() {
		edit := r.newRaise("Growth II")
		edit.ID = id
		edit.PitchDeckURL = ""
		r.Require().NoError(r.raises.Update(r.ctx, edit))

		got, err := r.raises.GetByID(r.ctx, id)
		r.Require().NoError(err)
		r.Equal("Growth II", got.Name)
		r.Equal("https://example.com/deck.pdf", got.PitchDeckURL)
		r.Equal("Strong team, 3x ARR growth.", got.Memo)
	})

	r.Run("other users cannot write the memo", func() {
		r.ErrorAs(r.raises.UpdateMemo(r.otherCtx, id, "mine"), new(raise.NotFoundError))
	})

	r.Run("unknown raise", func() {
		r.ErrorAs(r.raises.UpdateMemo(r.ctx, "not-a-uuid", "x"), new(raise.NotFoundError))
		r.ErrorAs(r.raises.UpdateMemo(r.ctx, "2b1f4f0e-5d8c-4c1e-9a4b-0c9f1a2b3c4d", "x"), new(raise.NotFoundError))
	})
}

func (r *RaiseRepositoryTestSuite) TestCampaigns() {
	listID, err := r.lists.Create(r.ctx, &list.List{UserID: r.userID, Name: "Targets"})
	r.Require().NoError(err)
	_, err = r.lists.AddInvestors(r.ctx, listID, []int64{1, 2, 3})
	r.Require().NoError(err)
	raiseID, err := r.raises.Create(r.ctx, r.newRaise("Series A"))
	r.Require().NoError(err)

	for _, subject := range []string{"First", "Second"} {
		_, err := r.campaigns.Create(r.ctx, &campaign.Campaign{
			UserID:  r.userID,
			Subject: subject,
			ListID:  listID,
			RaiseID: &raiseID,
			Status:  campaign.StatusDraft,
		})
		r.Require().NoError(err)
	}

	page, err := r.campaigns.GetAll(r.ctx, campaign.Filter{Page: 1})
	r.Require().NoError(err)
	r.Equal(2, page.TotalCount)
	r.Require().Len(page.Campaigns, 2)
	r.Equal("Second", page.Campaigns[0].Subject)
	r.Equal("Targets", page.Campaigns[0].ListName)
	r.Equal("Series A", page.Campaigns[0].RaiseName)
	r.Equal(3, page.Campaigns[0].TotalRecipients)

	r.Run("status filter", func() {
		page, err := r.campaigns.GetAll(r.ctx, campaign.Filter{Page: 1, Status: campaign.StatusCompleted})
		r.Require().NoError(err)
		r.Equal(0, page.TotalCount)
		r.Empty(page.Campaigns)
	})

	r.Run("lists of other users cannot be targeted", func() {
		_, err := r.campaigns.Create(r.otherCtx, &campaign.Campaign{Subject: "x", ListID: listID, Status: campaign.StatusDraft})
		r.ErrorAs(err, new(campaign.InvalidError))
	})

	r.Run("other users see no campaigns", func() {
		page, err := r.campaigns.GetAll(r.otherCtx, campaign.Filter{Page: 1})
		r.Require().NoError(err)
		r.Equal(0, page.TotalCount)
	})

	r.Require().NoError(r.campaigns.Delete(r.ctx, page.Campaigns[0].ID))
	_, err = r.campaigns.GetByID(r.ctx, page.Campaigns[0].ID)
	r.ErrorAs(err, new(campaign.NotFoundError))
}

func TestRaiseRepository(t *testing.T) {
	suite.Run(t, &RaiseRepositoryTestSuite{})
}
