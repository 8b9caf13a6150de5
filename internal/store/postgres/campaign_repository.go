package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/capitalninja/ninja/core/campaign"
	"github.com/capitalninja/ninja/core/investor"
	"github.com/jmoiron/sqlx"
)

type CampaignModel struct {
	ID              string         `db:"id"`
	UserID          string         `db:"user_id"`
	Subject         string         `db:"subject"`
	ListID          string         `db:"list_id"`
	ListName        sql.NullString `db:"list_name"`
	RaiseID         sql.NullString `db:"raise_id"`
	RaiseName       sql.NullString `db:"raise_name"`
	Status          string         `db:"status"`
	TotalRecipients int            `db:"total_recipients"`
	SuccessfulSends int            `db:"successful_sends"`
	CreatedAt       time.Time      `db:"created_at"`
}

func (m CampaignModel) toCampaign() campaign.Campaign {
	c := campaign.Campaign{
		ID:              m.ID,
		UserID:          m.UserID,
		Subject:         m.Subject,
		ListID:          m.ListID,
		ListName:        m.ListName.String,
		RaiseName:       m.RaiseName.String,
		Status:          campaign.Status(m.Status),
		TotalRecipients: m.TotalRecipients,
		SuccessfulSends: m.SuccessfulSends,
		CreatedAt:       m.CreatedAt,
	}
	if m.RaiseID.Valid {
		id := m.RaiseID.String
		c.RaiseID = &id
	}
	return c
}

// CampaignRepository is a type that manages campaign records. Rows are
// scoped to the user in the context by RLS.
type CampaignRepository struct {
	client *Client
}

// Create records the campaign with its recipient count taken from the
// current size of the list.
func (r *CampaignRepository) Create(ctx context.Context, c *campaign.Campaign) (string, error) {
	if c == nil {
		return "", campaign.InvalidError{Reason: "campaign is nil"}
	}

	var id string
	err := r.client.GetContext(ctx, &id, `
		INSERT INTO campaigns (user_id, subject, list_id, raise_id, status, total_recipients, successful_sends)
		SELECT $1, $2, l.id, $4, $5, (SELECT count(1) FROM list_investors li WHERE li.list_id = l.id), $6
		FROM lists l WHERE l.id = $3
		RETURNING id`,
		c.UserID, c.Subject, c.ListID, c.RaiseID, string(c.Status), c.SuccessfulSends)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", campaign.InvalidError{Reason: fmt.Sprintf("unknown list %q", c.ListID)}
		}
		err = checkPostgresError(err)
		if errors.Is(err, errForeignKeyViolation) {
			return "", campaign.InvalidError{Reason: "unknown raise"}
		}
		return "", fmt.Errorf("error creating campaign: %w", err)
	}
	return id, nil
}

func (r *CampaignRepository) GetByID(ctx context.Context, id string) (campaign.Campaign, error) {
	if !isValidUUID(id) {
		return campaign.Campaign{}, campaign.NotFoundError{ID: id}
	}

	query, args, err := buildSQL(r.getCampaignSQL().Where(sq.Eq{"c.id": id}))
	if err != nil {
		return campaign.Campaign{}, err
	}

	var model CampaignModel
	if err := r.client.GetContext(ctx, &model, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return campaign.Campaign{}, campaign.NotFoundError{ID: id}
		}
		return campaign.Campaign{}, fmt.Errorf("error getting campaign %q: %w", id, err)
	}
	return model.toCampaign(), nil
}

// GetAll returns one page of campaigns, newest first, with the names of
// their list and raise.
func (r *CampaignRepository) GetAll(ctx context.Context, flt campaign.Filter) (campaign.Page, error) {
	rows := r.getCampaignSQL()
	count := sq.Select("count(1)").From("campaigns c")
	if flt.Status != "" {
		rows = rows.Where(sq.Eq{"c.status": string(flt.Status)})
		count = count.Where(sq.Eq{"c.status": string(flt.Status)})
	}
	rows = buildRangeQuery(rows.OrderBy("c.created_at DESC", "c.id ASC"), investor.PageRange(flt.Page, campaign.PageSize))

	rowsQuery, rowsArgs, err := buildSQL(rows)
	if err != nil {
		return campaign.Page{}, err
	}
	countQuery, countArgs, err := buildSQL(count)
	if err != nil {
		return campaign.Page{}, err
	}

	var (
		models []CampaignModel
		total  int
	)
	if err := r.client.RunReadOnly(ctx, func(tx *sqlx.Tx) error {
		if err := tx.SelectContext(ctx, &models, rowsQuery, rowsArgs...); err != nil {
			return fmt.Errorf("error getting campaigns: %w", err)
		}
		return tx.GetContext(ctx, &total, countQuery, countArgs...)
	}); err != nil {
		return campaign.Page{}, err
	}

	page := campaign.Page{Campaigns: make([]campaign.Campaign, 0, len(models)), TotalCount: total}
	for _, m := range models {
		page.Campaigns = append(page.Campaigns, m.toCampaign())
	}
	return page, nil
}

func (r *CampaignRepository) Delete(ctx context.Context, id string) error {
	if !isValidUUID(id) {
		return campaign.NotFoundError{ID: id}
	}
	res, err := r.client.ExecContext(ctx, "DELETE FROM campaigns WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting campaign %q: %w", id, err)
	}
	return requireAffected(res, campaign.NotFoundError{ID: id})
}

func (r *CampaignRepository) getCampaignSQL() sq.SelectBuilder {
	return sq.Select(`
		c.id, c.user_id, c.subject, c.list_id, l.name AS list_name, c.raise_id, rs.name AS raise_name,
		c.status, c.total_recipients, c.successful_sends, c.created_at`).
		From("campaigns c").
		LeftJoin("lists l ON l.id = c.list_id").
		LeftJoin("raises rs ON rs.id = c.raise_id")
}

// NewCampaignRepository initializes campaign repository clients
func NewCampaignRepository(c *Client) (*CampaignRepository, error) {
	if c == nil {
		return nil, errNilPostgresClient
	}
	return &CampaignRepository{
		client: c,
	}, nil
}
