package investor

//go:generate mockery --name=Repository -r --case underscore --structname InvestorRepository --filename investor_repository.go --output=../../lib/mocks

import (
	"context"
	"math"
	"time"
)

// Summary is the projection of an investor shown in result tables.
type Summary struct {
	ID                  int64    `json:"id" diff:"-"`
	Name                string   `json:"limited_partner_name" diff:"limited_partner_name"`
	Type                string   `json:"limited_partner_type" diff:"limited_partner_type"`
	AUM                 *float64 `json:"aum" diff:"aum"`
	Location            string   `json:"hqlocation" diff:"hqlocation"`
	PreferredFundType   string   `json:"preferred_fund_type" diff:"preferred_fund_type"`
	PrimaryContact      string   `json:"primary_contact" diff:"primary_contact"`
	PrimaryContactTitle string   `json:"primary_contact_title" diff:"primary_contact_title"`
}

// Investor is a limited partner with its full profile.
type Investor struct {
	Summary
	YearFounded          *int      `json:"year_founded" diff:"year_founded"`
	Email                string    `json:"hqemail" diff:"hqemail"`
	Phone                string    `json:"hqphone" diff:"hqphone"`
	Website              string    `json:"website" diff:"website"`
	Description          string    `json:"description" diff:"description"`
	CommitmentSizeMin    *float64  `json:"preferred_commitment_size_min" diff:"preferred_commitment_size_min"`
	CommitmentSizeMax    *float64  `json:"preferred_commitment_size_max" diff:"preferred_commitment_size_max"`
	OpenToFirstTimeFunds string    `json:"open_to_first_time_funds" diff:"open_to_first_time_funds"`
	PrimaryContactEmail  string    `json:"primary_contact_email" diff:"primary_contact_email"`
	PrimaryContactPhone  string    `json:"primary_contact_phone" diff:"primary_contact_phone"`
	CreatedAt            time.Time `json:"created_at" diff:"-"`
	UpdatedAt            time.Time `json:"updated_at" diff:"-"`
}

// Validate checks the investor can be stored.
func (i *Investor) Validate() error {
	if i == nil {
		return InvalidError{Reason: "investor is nil"}
	}
	if i.Name == "" {
		return InvalidError{Reason: "limited_partner_name is required"}
	}
	if i.AUM != nil && *i.AUM < 0 {
		return InvalidError{Reason: "aum cannot be negative"}
	}
	if i.CommitmentSizeMin != nil && i.CommitmentSizeMax != nil && *i.CommitmentSizeMin > *i.CommitmentSizeMax {
		return InvalidError{Reason: "preferred commitment size min is greater than max"}
	}
	return nil
}

// Contact is a person working at a limited partner.
type Contact struct {
	ID          string `json:"id"`
	InvestorID  *int64 `json:"limited_partner_id"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"company_name"`
}

// QueryResult is one page of investors plus the number of investors that
// match the query across all pages.
type QueryResult struct {
	Rows       []Summary `json:"data"`
	TotalCount int       `json:"total"`
}

// TotalPages is the number of pages needed to show every matching investor.
func (r QueryResult) TotalPages() int {
	return int(math.Ceil(float64(r.TotalCount) / float64(PageSize)))
}

type ContactResult struct {
	Rows       []Contact `json:"data"`
	TotalCount int       `json:"total"`
}

type Repository interface {
	// Find returns the rows in q's range and the exact count of rows
	// matching q's predicates, both read from one snapshot.
	Find(ctx context.Context, q Query) (QueryResult, error)
	GetByID(ctx context.Context, id int64) (Investor, error)
	Upsert(ctx context.Context, inv *Investor) (int64, error)
	Delete(ctx context.Context, id int64) error
	GetTypes(ctx context.Context) (map[string]int, error)
	FindContacts(ctx context.Context, q Query) (ContactResult, error)
}
