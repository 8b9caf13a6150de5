package team

import (
	"context"
	"net/url"
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleViewer Role = "viewer"
)

type InvitationStatus string

const (
	StatusPending  InvitationStatus = "pending"
	StatusAccepted InvitationStatus = "accepted"
	StatusExpired  InvitationStatus = "expired"
)

// InvitationTTL is how long an invitation stays valid after it is issued.
const InvitationTTL = 7 * 24 * time.Hour

// AcceptPath is where an invitee signs in to accept.
const AcceptPath = "/auth"

type Member struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type Invitation struct {
	ID        string           `json:"id"`
	Email     string           `json:"email"`
	Role      Role             `json:"role"`
	Token     string           `json:"-"`
	Status    InvitationStatus `json:"status"`
	ExpiresAt time.Time        `json:"expires_at"`
	CreatedAt time.Time        `json:"created_at"`
}

// Expired reports whether the invitation can no longer be accepted at now.
func (i Invitation) Expired(now time.Time) bool {
	return i.Status == StatusExpired || !now.Before(i.ExpiresAt)
}

// InviteResult tells the caller how an invitation was handled.
type InviteResult struct {
	// AddedMember is set when the e-mail already belonged to a profile and
	// the profile joined the team directly.
	AddedMember *Member     `json:"member,omitempty"`
	Invitation  *Invitation `json:"invitation,omitempty"`
	Token       string      `json:"token,omitempty"`
	AcceptURL   string      `json:"accept_url,omitempty"`
}

func acceptURL(token string) string {
	return AcceptPath + "?" + url.Values{"invitation": {token}}.Encode()
}

type Repository interface {
	GetProfileIDByEmail(ctx context.Context, email string) (string, error)
	AddMember(ctx context.Context, m *Member) (string, error)
	GetMembers(ctx context.Context) ([]Member, error)
	GetPendingInvitation(ctx context.Context, email string) (Invitation, error)
	CreateInvitation(ctx context.Context, inv *Invitation) (string, error)
	RefreshInvitation(ctx context.Context, id string, createdAt, expiresAt time.Time) error
	GetInvitationByToken(ctx context.Context, token string) (Invitation, error)
	SetInvitationStatus(ctx context.Context, id string, status InvitationStatus) error
	// AcceptInvitation marks the invitation accepted and adds the member
	// atomically.
	AcceptInvitation(ctx context.Context, invitationID string, m *Member) (string, error)
}
