package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/capitalninja/ninja/core/raise"
)

type RaiseModel struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	Type         string    `db:"type"`
	Category     string    `db:"category"`
	Name         string    `db:"name"`
	TargetAmount float64   `db:"target_amount"`
	PitchDeckURL string    `db:"pitch_deck_url"`
	Memo         string    `db:"memo"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (m RaiseModel) toRaise() raise.Raise {
	return raise.Raise{
		ID:           m.ID,
		UserID:       m.UserID,
		Type:         raise.Type(m.Type),
		Category:     raise.Category(m.Category),
		Name:         m.Name,
		TargetAmount: m.TargetAmount,
		PitchDeckURL: m.PitchDeckURL,
		Memo:         m.Memo,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// RaiseRepository is a type that manages fundraising projects. Rows are
// scoped to the user in the context by RLS.
type RaiseRepository struct {
	client *Client
}

func (r *RaiseRepository) Create(ctx context.Context, rs *raise.Raise) (string, error) {
	if rs == nil {
		return "", raise.InvalidError{Reason: "raise is nil"}
	}

	var id string
	err := r.client.GetContext(ctx, &id, `
		INSERT INTO raises (user_id, type, category, name, target_amount, pitch_deck_url, memo)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		rs.UserID, rs.Type, rs.Category, rs.Name, rs.TargetAmount, rs.PitchDeckURL, rs.Memo)
	if err != nil {
		err = checkPostgresError(err)
		if errors.Is(err, errCheckViolation) {
			return "", raise.InvalidError{Reason: err.Error()}
		}
		return "", fmt.Errorf("error creating raise: %w", err)
	}
	return id, nil
}

func (r *RaiseRepository) Update(ctx context.Context, rs *raise.Raise) error {
	if rs == nil || !isValidUUID(rs.ID) {
		return raise.NotFoundError{}
	}

	res, err := r.client.ExecContext(ctx, `
		UPDATE raises
		SET type = $2, category = $3, name = $4, target_amount = $5,
			pitch_deck_url = COALESCE(NULLIF($6, ''), pitch_deck_url), updated_at = now()
		WHERE id = $1`,
		rs.ID, rs.Type, rs.Category, rs.Name, rs.TargetAmount, rs.PitchDeckURL)
	if err != nil {
		return fmt.Errorf("error updating raise %q: %w", rs.ID, checkPostgresError(err))
	}
	return requireAffected(res, raise.NotFoundError{ID: rs.ID})
}

func (r *RaiseRepository) UpdateMemo(ctx context.Context, id string, memo string) error {
	if !isValidUUID(id) {
		return raise.NotFoundError{ID: id}
	}

	res, err := r.client.ExecContext(ctx, "UPDATE raises SET memo = $2, updated_at = now() WHERE id = $1", id, memo)
	if err != nil {
		return fmt.Errorf("error updating memo of raise %q: %w", id, checkPostgresError(err))
	}
	return requireAffected(res, raise.NotFoundError{ID: id})
}

func (r *RaiseRepository) GetByID(ctx context.Context, id string) (raise.Raise, error) {
	if !isValidUUID(id) {
		return raise.Raise{}, raise.NotFoundError{ID: id}
	}

	var model RaiseModel
	if err := r.client.GetContext(ctx, &model, "SELECT * FROM raises WHERE id = $1", id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return raise.Raise{}, raise.NotFoundError{ID: id}
		}
		return raise.Raise{}, fmt.Errorf("error getting raise %q: %w", id, err)
	}
	return model.toRaise(), nil
}

func (r *RaiseRepository) GetAll(ctx context.Context) ([]raise.Raise, error) {
	var models []RaiseModel
	if err := r.client.SelectContext(ctx, &models, "SELECT * FROM raises ORDER BY created_at DESC, id ASC"); err != nil {
		return nil, fmt.Errorf("error getting raises: %w", err)
	}

	raises := make([]raise.Raise, 0, len(models))
	for _, m := range models {
		raises = append(raises, m.toRaise())
	}
	return raises, nil
}

func (r *RaiseRepository) Delete(ctx context.Context, id string) error {
	if !isValidUUID(id) {
		return raise.NotFoundError{ID: id}
	}
	res, err := r.client.ExecContext(ctx, "DELETE FROM raises WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting raise %q: %w", id, err)
	}
	return requireAffected(res, raise.NotFoundError{ID: id})
}

// NewRaiseRepository initializes raise repository clients
func NewRaiseRepository(c *Client) (*RaiseRepository, error) {
	if c == nil {
		return nil, errNilPostgresClient
	}
	return &RaiseRepository{
		client: c,
	}, nil
}
