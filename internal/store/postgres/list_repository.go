package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/capitalninja/ninja/core/investor"
	"github.com/capitalninja/ninja/core/list"
	"github.com/jmoiron/sqlx"
)

type ListModel struct {
	ID            string         `db:"id"`
	UserID        string         `db:"user_id"`
	Name          string         `db:"name"`
	Description   sql.NullString `db:"description"`
	InvestorCount int            `db:"investor_count"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (m ListModel) toList() list.List {
	return list.List{
		ID:            m.ID,
		UserID:        m.UserID,
		Name:          m.Name,
		Description:   m.Description.String,
		InvestorCount: m.InvestorCount,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

// ListRepository is a type that manages saved investor lists. Rows are
// scoped to the user in the context by RLS.
type ListRepository struct {
	client *Client
}

func (r *ListRepository) Create(ctx context.Context, l *list.List) (string, error) {
	if l == nil {
		return "", list.InvalidError{Reason: "list is nil"}
	}

	var id string
	err := r.client.GetContext(ctx, &id, `
		INSERT INTO lists (user_id, name, description) VALUES ($1, $2, $3) RETURNING id`,
		l.UserID, l.Name, nullString(l.Description))
	if err != nil {
		err = checkPostgresError(err)
		if errors.Is(err, errDuplicateKey) {
			return "", list.DuplicateNameError{Name: l.Name}
		}
		return "", fmt.Errorf("error creating list: %w", err)
	}
	return id, nil
}

func (r *ListRepository) GetByID(ctx context.Context, id string) (list.List, error) {
	if !isValidUUID(id) {
		return list.List{}, list.NotFoundError{ID: id}
	}

	query, args, err := buildSQL(r.getListSQL().Where(sq.Eq{"l.id": id}))
	if err != nil {
		return list.List{}, err
	}

	var model ListModel
	if err := r.client.GetContext(ctx, &model, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return list.List{}, list.NotFoundError{ID: id}
		}
		return list.List{}, fmt.Errorf("error getting list %q: %w", id, err)
	}
	return model.toList(), nil
}

// GetAll returns the lists of the user with their investor counts, most
// recently created first.
func (r *ListRepository) GetAll(ctx context.Context) ([]list.List, error) {
	query, args, err := buildSQL(r.getListSQL().OrderBy("l.created_at DESC", "l.id ASC"))
	if err != nil {
		return nil, err
	}

	var models []ListModel
	if err := r.client.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, fmt.Errorf("error getting lists: %w", err)
	}

	lists := make([]list.List, 0, len(models))
	for _, m := range models {
		lists = append(lists, m.toList())
	}
	return lists, nil
}

func (r *ListRepository) Update(ctx context.Context, l *list.List) error {
	if l == nil || !isValidUUID(l.ID) {
		return list.InvalidError{Reason: "list id is invalid"}
	}

	res, err := r.client.ExecContext(ctx, `
		UPDATE lists SET name = $2, description = $3, updated_at = now() WHERE id = $1`,
		l.ID, l.Name, nullString(l.Description))
	if err != nil {
		err = checkPostgresError(err)
		if errors.Is(err, errDuplicateKey) {
			return list.DuplicateNameError{Name: l.Name}
		}
		return fmt.Errorf("error updating list %q: %w", l.ID, err)
	}
	return requireAffected(res, list.NotFoundError{ID: l.ID})
}

func (r *ListRepository) Delete(ctx context.Context, id string) error {
	if !isValidUUID(id) {
		return list.NotFoundError{ID: id}
	}
	res, err := r.client.ExecContext(ctx, "DELETE FROM lists WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting list %q: %w", id, err)
	}
	return requireAffected(res, list.NotFoundError{ID: id})
}

// AddInvestors inserts the membership rows that do not exist yet and
// returns how many were added.
func (r *ListRepository) AddInvestors(ctx context.Context, listID string, investorIDs []int64) (int, error) {
	if !isValidUUID(listID) {
		return 0, list.NotFoundError{ID: listID}
	}

	builder := sq.Insert("list_investors").Columns("list_id", "investor_id")
	for _, id := range investorIDs {
		builder = builder.Values(listID, id)
	}
	query, args, err := buildSQL(builder.Suffix("ON CONFLICT (list_id, investor_id) DO NOTHING"))
	if err != nil {
		return 0, err
	}

	var added int64
	err = r.client.RunWithinTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.touch(ctx, tx, listID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			err = checkPostgresError(err)
			if errors.Is(err, errForeignKeyViolation) {
				return list.InvalidError{Reason: "unknown investor"}
			}
			return fmt.Errorf("error adding investors to list %q: %w", listID, err)
		}
		added, err = res.RowsAffected()
		return err
	})
	return int(added), err
}

func (r *ListRepository) RemoveInvestors(ctx context.Context, listID string, investorIDs []int64) (int, error) {
	if !isValidUUID(listID) {
		return 0, list.NotFoundError{ID: listID}
	}

	query, args, err := buildSQL(sq.Delete("list_investors").Where(sq.Eq{"list_id": listID, "investor_id": investorIDs}))
	if err != nil {
		return 0, err
	}

	var removed int64
	err = r.client.RunWithinTx(ctx, func(tx *sqlx.Tx) error {
		if err := r.touch(ctx, tx, listID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("error removing investors from list %q: %w", listID, err)
		}
		removed, err = res.RowsAffected()
		return err
	})
	return int(removed), err
}

// FindInvestors joins the list with the investors table so ordering and
// paging run over the whole list.
func (r *ListRepository) FindInvestors(ctx context.Context, listID string, q investor.Query) (investor.QueryResult, error) {
	rowsQuery, rowsArgs, countQuery, countArgs, err := buildPagedQueries(
		sq.Select(investorSummaryColumns).
			From("limited_partners").
			Join("list_investors li ON li.investor_id = limited_partners.id").
			Where(sq.Eq{"li.list_id": listID}),
		sq.Select("count(1)").
			From("limited_partners").
			Join("list_investors li ON li.investor_id = limited_partners.id").
			Where(sq.Eq{"li.list_id": listID}),
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
			return fmt.Errorf("error getting list investors: %w", err)
		}
		return tx.GetContext(ctx, &total, countQuery, countArgs...)
	}); err != nil {
		return investor.QueryResult{}, classifyQueryError(err)
	}

	return investor.QueryResult{Rows: models.toSummaries(), TotalCount: total}, nil
}

// Count returns the number of lists the user owns.
func (r *ListRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.client.GetContext(ctx, &total, "SELECT count(1) FROM lists"); err != nil {
		return 0, fmt.Errorf("error counting lists: %w", err)
	}
	return total, nil
}

// touch bumps updated_at and fails when the list is not visible.
func (r *ListRepository) touch(ctx context.Context, tx *sqlx.Tx, listID string) error {
	res, err := tx.ExecContext(ctx, "UPDATE lists SET updated_at = now() WHERE id = $1", listID)
	if err != nil {
		return fmt.Errorf("error updating list %q: %w", listID, err)
	}
	return requireAffected(res, list.NotFoundError{ID: listID})
}

func (r *ListRepository) getListSQL() sq.SelectBuilder {
	return sq.Select(`
		l.id, l.user_id, l.name, l.description, l.created_at, l.updated_at,
		(SELECT count(1) FROM list_investors li WHERE li.list_id = l.id) AS investor_count`).
		From("lists l")
}

func requireAffected(res sql.Result, notFound error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting affected rows: %w", err)
	}
	if affected == 0 {
		return notFound
	}
	return nil
}

// NewListRepository initializes list repository clients
func NewListRepository(c *Client) (*ListRepository, error) {
	if c == nil {
		return nil, errNilPostgresClient
	}
	return &ListRepository{
		client: c,
	}, nil
}
