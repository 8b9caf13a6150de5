package campaign

import (
	"context"
	"math"
	"time"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSending   Status = "sending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

const PageSize = 20

// Campaign records an e-mail campaign sent to the investors of a list.
type Campaign struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Subject         string    `json:"subject" validate:"required,max=300"`
	ListID          string    `json:"list_id" validate:"required,uuid"`
	ListName        string    `json:"list_name,omitempty"`
	RaiseID         *string   `json:"raise_id,omitempty" validate:"omitempty,uuid"`
	RaiseName       string    `json:"raise_name,omitempty"`
	Status          Status    `json:"status"`
	TotalRecipients int       `json:"total_recipients" validate:"gte=0"`
	SuccessfulSends int       `json:"successful_sends" validate:"gte=0"`
	CreatedAt       time.Time `json:"created_at"`
}

// SuccessRate is the share of successful sends as a rounded percentage.
// ok is false when the campaign had no recipients.
func (c Campaign) SuccessRate() (rate int, ok bool) {
	if c.TotalRecipients <= 0 {
		return 0, false
	}
	return int(math.Round(float64(c.SuccessfulSends) / float64(c.TotalRecipients) * 100)), true
}

type Filter struct {
	Page   int    `json:"page" validate:"gte=0,lte=1000000"`
	Status Status `json:"status" validate:"omitempty,oneof=draft sending completed failed"`
}

type Page struct {
	Campaigns  []Campaign `json:"data"`
	TotalCount int        `json:"total"`
}

type Repository interface {
	Create(ctx context.Context, c *Campaign) (string, error)
	GetByID(ctx context.Context, id string) (Campaign, error)
	GetAll(ctx context.Context, flt Filter) (Page, error)
	Delete(ctx context.Context, id string) error
}
