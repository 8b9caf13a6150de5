package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/capitalninja/ninja/core/team"
	"github.com/jmoiron/sqlx"
)

type MemberModel struct {
	ID        string         `db:"id"`
	UserID    string         `db:"user_id"`
	Email     sql.NullString `db:"email"`
	Role      string         `db:"role"`
	CreatedAt time.Time      `db:"created_at"`
}

func (m MemberModel) toMember() team.Member {
	return team.Member{
		ID:        m.ID,
		UserID:    m.UserID,
		Email:     m.Email.String,
		Role:      team.Role(m.Role),
		CreatedAt: m.CreatedAt,
	}
}

type InvitationModel struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	Role      string    `db:"role"`
	Token     string    `db:"token"`
	Status    string    `db:"status"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

func (m InvitationModel) toInvitation() team.Invitation {
	return team.Invitation{
		ID:        m.ID,
		Email:     m.Email,
		Role:      team.Role(m.Role),
		Token:     m.Token,
		Status:    team.InvitationStatus(m.Status),
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}
}

// TeamRepository is a type that manages team members and invitations
type TeamRepository struct {
	client *Client
}

func (r *TeamRepository) GetProfileIDByEmail(ctx context.Context, email string) (string, error) {
	var id string
	if err := r.client.GetContext(ctx, &id, "SELECT id FROM profiles WHERE lower(email) = lower($1)", email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", team.NotFoundError{Email: email}
		}
		return "", fmt.Errorf("error getting profile by email: %w", err)
	}
	return id, nil
}

func (r *TeamRepository) AddMember(ctx context.Context, m *team.Member) (string, error) {
	if m == nil {
		return "", team.InvalidError{Reason: "member is nil"}
	}
	var id string
	err := r.client.QueryFn(ctx, func(conn *sqlx.Conn) error {
		var err error
		id, err = insertMember(ctx, conn, m)
		return err
	})
	return id, err
}

func (r *TeamRepository) GetMembers(ctx context.Context) ([]team.Member, error) {
	var models []MemberModel
	if err := r.client.SelectContext(ctx, &models, `
		SELECT m.id, m.user_id, p.email, m.role, m.created_at
		FROM team_members m
		LEFT JOIN profiles p ON p.id = m.user_id
		ORDER BY m.created_at ASC, m.id ASC`); err != nil {
		return nil, fmt.Errorf("error getting team members: %w", err)
	}

	members := make([]team.Member, 0, len(models))
	for _, m := range models {
		members = append(members, m.toMember())
	}
	return members, nil
}

func (r *TeamRepository) GetPendingInvitation(ctx context.Context, email string) (team.Invitation, error) {
	var model InvitationModel
	if err := r.client.GetContext(ctx, &model,
		"SELECT * FROM team_invitations WHERE email = $1 AND status = $2", email, string(team.StatusPending)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return team.Invitation{}, team.NotFoundError{Email: email}
		}
		return team.Invitation{}, fmt.Errorf("error getting pending invitation: %w", err)
	}
	return model.toInvitation(), nil
}

func (r *TeamRepository) CreateInvitation(ctx context.Context, inv *team.Invitation) (string, error) {
	if inv == nil {
		return "", team.InvalidError{Reason: "invitation is nil"}
	}

	var id string
	err := r.client.GetContext(ctx, &id, `
		INSERT INTO team_invitations (email, role, token, status, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		inv.Email, string(inv.Role), inv.Token, string(inv.Status), inv.ExpiresAt, inv.CreatedAt)
	if err != nil {
		err = checkPostgresError(err)
		if errors.Is(err, errDuplicateKey) {
			return "", team.InvalidError{Reason: fmt.Sprintf("an invitation for %q is already pending", inv.Email)}
		}
		return "", fmt.Errorf("error creating invitation: %w", err)
	}
	return id, nil
}

func (r *TeamRepository) RefreshInvitation(ctx context.Context, id string, createdAt, expiresAt time.Time) error {
	if !isValidUUID(id) {
		return team.NotFoundError{Token: true}
	}
	res, err := r.client.ExecContext(ctx,
		"UPDATE team_invitations SET created_at = $2, expires_at = $3 WHERE id = $1 AND status = $4",
		id, createdAt, expiresAt, string(team.StatusPending))
	if err != nil {
		return fmt.Errorf("error refreshing invitation: %w", err)
	}
	return requireAffected(res, team.NotFoundError{Token: true})
}

func (r *TeamRepository) GetInvitationByToken(ctx context.Context, token string) (team.Invitation, error) {
	var model InvitationModel
	if err := r.client.GetContext(ctx, &model, "SELECT * FROM team_invitations WHERE token = $1", token); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return team.Invitation{}, team.NotFoundError{Token: true}
		}
		return team.Invitation{}, fmt.Errorf("error getting invitation: %w", err)
	}
	return model.toInvitation(), nil
}

func (r *TeamRepository) SetInvitationStatus(ctx context.Context, id string, status team.InvitationStatus) error {
	if !isValidUUID(id) {
		return team.NotFoundError{Token: true}
	}
	res, err := r.client.ExecContext(ctx, "UPDATE team_invitations SET status = $2 WHERE id = $1", id, string(status))
	if err != nil {
		return fmt.Errorf("error updating invitation status: %w", checkPostgresError(err))
	}
	return requireAffected(res, team.NotFoundError{Token: true})
}

// AcceptInvitation flips a pending invitation to accepted and inserts the
// member in one transaction. Only one of two concurrent accepts succeeds.
func (r *TeamRepository) AcceptInvitation(ctx context.Context, invitationID string, m *team.Member) (string, error) {
	if m == nil {
		return "", team.InvalidError{Reason: "member is nil"}
	}
	if !isValidUUID(invitationID) {
		return "", team.NotFoundError{Token: true}
	}

	var id string
	err := r.client.RunWithinTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE team_invitations SET status = $2 WHERE id = $1 AND status = $3",
			invitationID, string(team.StatusAccepted), string(team.StatusPending))
		if err != nil {
			return fmt.Errorf("error accepting invitation: %w", err)
		}
		if err := requireAffected(res, team.NotFoundError{Token: true}); err != nil {
			return err
		}

		id, err = insertMember(ctx, tx, m)
		return err
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

type queryRowxer interface {
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
}

func insertMember(ctx context.Context, q queryRowxer, m *team.Member) (string, error) {
	var id string
	err := q.QueryRowxContext(ctx,
		"INSERT INTO team_members (user_id, role) VALUES ($1, $2) RETURNING id",
		m.UserID, string(m.Role)).Scan(&id)
	if err != nil {
		err = checkPostgresError(err)
		switch {
		case errors.Is(err, errDuplicateKey):
			return "", team.AlreadyMemberError{Email: m.Email}
		case errors.Is(err, errForeignKeyViolation), errors.Is(err, errInvalidTextRepresentation):
			return "", team.InvalidError{Reason: fmt.Sprintf("unknown profile %q", m.UserID)}
		case errors.Is(err, errCheckViolation):
			return "", team.InvalidError{Reason: fmt.Sprintf("unknown role %q", m.Role)}
		}
		return "", fmt.Errorf("error adding team member: %w", err)
	}
	return id, nil
}

// NewTeamRepository initializes team repository clients
func NewTeamRepository(c *Client) (*TeamRepository, error) {
	if c == nil {
		return nil, errNilPostgresClient
	}
	return &TeamRepository{
		client: c,
	}, nil
}
