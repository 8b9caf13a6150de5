package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/capitalninja/ninja/core/investor"
	"github.com/jmoiron/sqlx"
	"github.com/r3labs/diff/v2"
)

const investorSummaryColumns = `
	id,
	limited_partner_name,
	limited_partner_type,
	aum,
	hqlocation,
	preferred_fund_type,
	primary_contact,
	primary_contact_title`

// InvestorRepository is a type that manages limited partner operation to the primary database
type InvestorRepository struct {
	client *Client
}

// Find returns one page of investors and the total number of matches, both
// read inside one read-only snapshot.
func (r *InvestorRepository) Find(ctx context.Context, q investor.Query) (investor.QueryResult, error) {
	rowsQuery, rowsArgs, countQuery, countArgs, err := buildPagedQueries(
		sq.Select(investorSummaryColumns).From("limited_partners"),
		sq.Select("count(1)").From("limited_partners"),
		q,
	)
	if err != nil {
		return investor.QueryResult{}, err
	}

	var (
		models InvestorSummaryModels
		total  int
	)
	if err := r.client.RunReadOnly(ctx, func(tx *sqlx.Tx) error {
		if err := tx.SelectContext(ctx, &models, rowsQuery, rowsArgs...); err != nil {
			return fmt.Errorf("error getting investors: %w", err)
		}
		if err := tx.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
			return fmt.Errorf("error counting investors: %w", err)
		}
		return nil
	}); err != nil {
		return investor.QueryResult{}, classifyQueryError(err)
	}

	return investor.QueryResult{Rows: models.toSummaries(), TotalCount: total}, nil
}

func (r *InvestorRepository) GetByID(ctx context.Context, id int64) (investor.Investor, error) {
	query, args, err := buildSQL(sq.Select("*").From("limited_partners").Where(sq.Eq{"id": id}))
	if err != nil {
		return investor.Investor{}, err
	}

	var model InvestorModel
	if err := r.client.GetContext(ctx, &model, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return investor.Investor{}, investor.NotFoundError{ID: id}
		}
		return investor.Investor{}, classifyQueryError(fmt.Errorf("error getting investor %d: %w", id, err))
	}
	return model.toInvestor(), nil
}

// Upsert inserts an investor without id and updates the one with an id.
// An update that changes nothing is skipped.
func (r *InvestorRepository) Upsert(ctx context.Context, inv *investor.Investor) (int64, error) {
	if inv == nil {
		return 0, investor.InvalidError{Reason: "investor is nil"}
	}
	if inv.ID == 0 {
		return r.insert(ctx, inv)
	}

	current, err := r.GetByID(ctx, inv.ID)
	if err != nil {
		return 0, err
	}
	changelog, err := diff.Diff(current, *inv)
	if err != nil {
		return 0, fmt.Errorf("error diffing investor %d: %w", inv.ID, err)
	}
	if len(changelog) == 0 {
		return inv.ID, nil
	}

	builder := sq.Update("limited_partners").
		SetMap(investorColumns(inv)).
		Set(columnNameUpdatedAt, time.Now()).
		Where(sq.Eq{"id": inv.ID})
	query, args, err := buildSQL(builder)
	if err != nil {
		return 0, err
	}
	if _, err := r.client.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("error updating investor %d: %w", inv.ID, checkPostgresError(err))
	}
	return inv.ID, nil
}

func (r *InvestorRepository) insert(ctx context.Context, inv *investor.Investor) (int64, error) {
	query, args, err := buildSQL(sq.Insert("limited_partners").SetMap(investorColumns(inv)).Suffix("RETURNING id"))
	if err != nil {
		return 0, err
	}

	var id int64
	if err := r.client.GetContext(ctx, &id, query, args...); err != nil {
		return 0, fmt.Errorf("error inserting investor: %w", checkPostgresError(err))
	}
	return id, nil
}

func (r *InvestorRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.client.ExecContext(ctx, "DELETE FROM limited_partners WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting investor %d: %w", id, checkPostgresError(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting affected rows: %w", err)
	}
	if affected == 0 {
		return investor.NotFoundError{ID: id}
	}
	return nil
}

// GetTypes counts investors per type. Investors without a type are
// counted under "Unknown".
func (r *InvestorRepository) GetTypes(ctx context.Context) (map[string]int, error) {
	query := `SELECT COALESCE(NULLIF(limited_partner_type, ''), 'Unknown') AS name, count(1) AS value
		FROM limited_partners GROUP BY 1`

	var rows []struct {
		Name  string `db:"name"`
		Value int    `db:"value"`
	}
	if err := r.client.SelectContext(ctx, &rows, query); err != nil {
		return nil, classifyQueryError(fmt.Errorf("error getting investor types: %w", err))
	}

	types := make(map[string]int, len(rows))
	for _, row := range rows {
		types[row.Name] = row.Value
	}
	return types, nil
}

func (r *InvestorRepository) FindContacts(ctx context.Context, q investor.Query) (investor.ContactResult, error) {
	rowsQuery, rowsArgs, countQuery, countArgs, err := buildPagedQueries(
		sq.Select(`c.id, c.limited_partner_id, c.name, c.title, c.email, c.phone,
			COALESCE(lp.limited_partner_name, 'N/A') AS company_name`).
			From("investor_contacts c").
			LeftJoin("limited_partners lp ON lp.id = c.limited_partner_id"),
		sq.Select("count(1)").From("investor_contacts c"),
		q,
	)
	if err != nil {
		return investor.ContactResult{}, err
	}

	var (
		models []ContactModel
		total  int
	)
	if err := r.client.RunReadOnly(ctx, func(tx *sqlx.Tx) error {
		if err := tx.SelectContext(ctx, &models, rowsQuery, rowsArgs...); err != nil {
			return fmt.Errorf("error getting contacts: %w", err)
		}
		return tx.GetContext(ctx, &total, countQuery, countArgs...)
	}); err != nil {
		return investor.ContactResult{}, classifyQueryError(err)
	}

	res := investor.ContactResult{Rows: make([]investor.Contact, 0, len(models)), TotalCount: total}
	for _, m := range models {
		res.Rows = append(res.Rows, m.toContact())
	}
	return res, nil
}

// buildPagedQueries applies the predicates of q to both builders, and the
// order and range to the rows builder only.
func buildPagedQueries(rows, count sq.SelectBuilder, q investor.Query) (rowsQuery string, rowsArgs []interface{}, countQuery string, countArgs []interface{}, err error) {
	if rows, err = BuildFilterQuery(rows, q.Predicates); err != nil {
		return
	}
	if count, err = BuildFilterQuery(count, q.Predicates); err != nil {
		return
	}
	rows = buildRangeQuery(BuildOrderQuery(rows, q.OrderBy), q.Range)

	if rowsQuery, rowsArgs, err = buildSQL(rows); err != nil {
		return
	}
	countQuery, countArgs, err = buildSQL(count)
	return
}

// classifyQueryError marks connection exhaustion as rate limiting.
func classifyQueryError(err error) error {
	err = checkPostgresError(err)
	if errors.Is(err, errTooManyConnections) {
		return fmt.Errorf("%w: %v", investor.ErrRateLimited, err)
	}
	return err
}

// NewInvestorRepository initializes investor repository clients
func NewInvestorRepository(c *Client) (*InvestorRepository, error) {
	if c == nil {
		return nil, errNilPostgresClient
	}
	return &InvestorRepository{
		client: c,
	}, nil
}
