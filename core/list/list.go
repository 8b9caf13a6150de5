package list

import (
	"context"
	"strings"
	"time"

	"github.com/capitalninja/ninja/core/investor"
)

// List is a named, user-owned collection of investors.
type List struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	InvestorCount int       `json:"investor_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Validate validates a list is valid or not
func (l *List) Validate() error {
	if l == nil {
		return InvalidError{Reason: "list is nil"}
	}
	l.Name = strings.TrimSpace(l.Name)
	if l.Name == "" {
		return InvalidError{Reason: "name is required"}
	}
	if len(l.Name) > 200 {
		return InvalidError{Reason: "name is longer than 200 characters"}
	}
	return nil
}

type Repository interface {
	Create(ctx context.Context, l *List) (string, error)
	GetByID(ctx context.Context, id string) (List, error)
	GetAll(ctx context.Context) ([]List, error)
	Update(ctx context.Context, l *List) error
	Delete(ctx context.Context, id string) error
	AddInvestors(ctx context.Context, listID string, investorIDs []int64) (int, error)
	RemoveInvestors(ctx context.Context, listID string, investorIDs []int64) (int, error)
	// FindInvestors returns one page of the list's investors. The order
	// applies to the whole list, not only to the rows of the page.
	FindInvestors(ctx context.Context, listID string, q investor.Query) (investor.QueryResult, error)
	Count(ctx context.Context) (int, error)
}
