package postgres

import (
	"database/sql"
	"time"

	"github.com/capitalninja/ninja/core/investor"
)

type InvestorSummaryModel struct {
	ID                  int64           `db:"id"`
	Name                string          `db:"limited_partner_name"`
	Type                sql.NullString  `db:"limited_partner_type"`
	AUM                 sql.NullFloat64 `db:"aum"`
	Location            sql.NullString  `db:"hqlocation"`
	PreferredFundType   sql.NullString  `db:"preferred_fund_type"`
	PrimaryContact      sql.NullString  `db:"primary_contact"`
	PrimaryContactTitle sql.NullString  `db:"primary_contact_title"`
}

func (m InvestorSummaryModel) toSummary() investor.Summary {
	s := investor.Summary{
		ID:                  m.ID,
		Name:                m.Name,
		Type:                m.Type.String,
		Location:            m.Location.String,
		PreferredFundType:   m.PreferredFundType.String,
		PrimaryContact:      m.PrimaryContact.String,
		PrimaryContactTitle: m.PrimaryContactTitle.String,
	}
	if m.AUM.Valid {
		aum := m.AUM.Float64
		s.AUM = &aum
	}
	return s
}

type InvestorSummaryModels []InvestorSummaryModel

func (ms InvestorSummaryModels) toSummaries() []investor.Summary {
	out := make([]investor.Summary, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.toSummary())
	}
	return out
}

type InvestorModel struct {
	InvestorSummaryModel
	YearFounded          sql.NullInt32   `db:"year_founded"`
	Email                sql.NullString  `db:"hqemail"`
	Phone                sql.NullString  `db:"hqphone"`
	Website              sql.NullString  `db:"website"`
	Description          sql.NullString  `db:"description"`
	CommitmentSizeMin    sql.NullFloat64 `db:"preferred_commitment_size_min"`
	CommitmentSizeMax    sql.NullFloat64 `db:"preferred_commitment_size_max"`
	OpenToFirstTimeFunds sql.NullString  `db:"open_to_first_time_funds"`
	PrimaryContactEmail  sql.NullString  `db:"primary_contact_email"`
	PrimaryContactPhone  sql.NullString  `db:"primary_contact_phone"`
	CreatedAt            time.Time       `db:"created_at"`
	UpdatedAt            time.Time       `db:"updated_at"`
}

func (m InvestorModel) toInvestor() investor.Investor {
	inv := investor.Investor{
		Summary:              m.toSummary(),
		Email:                m.Email.String,
		Phone:                m.Phone.String,
		Website:              m.Website.String,
		Description:          m.Description.String,
		OpenToFirstTimeFunds: m.OpenToFirstTimeFunds.String,
		PrimaryContactEmail:  m.PrimaryContactEmail.String,
		PrimaryContactPhone:  m.PrimaryContactPhone.String,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
	if m.YearFounded.Valid {
		y := int(m.YearFounded.Int32)
		inv.YearFounded = &y
	}
	if m.CommitmentSizeMin.Valid {
		v := m.CommitmentSizeMin.Float64
		inv.CommitmentSizeMin = &v
	}
	if m.CommitmentSizeMax.Valid {
		v := m.CommitmentSizeMax.Float64
		inv.CommitmentSizeMax = &v
	}
	return inv
}

// investorColumns maps the writable columns to their values.
func investorColumns(inv *investor.Investor) map[string]interface{} {
	return map[string]interface{}{
		"limited_partner_name":          inv.Name,
		"limited_partner_type":          nullString(inv.Type),
		"aum":                           inv.AUM,
		"hqlocation":                    nullString(inv.Location),
		"preferred_fund_type":           nullString(inv.PreferredFundType),
		"primary_contact":               nullString(inv.PrimaryContact),
		"primary_contact_title":         nullString(inv.PrimaryContactTitle),
		"primary_contact_email":         nullString(inv.PrimaryContactEmail),
		"primary_contact_phone":         nullString(inv.PrimaryContactPhone),
		"year_founded":                  inv.YearFounded,
		"hqemail":                       nullString(inv.Email),
		"hqphone":                       nullString(inv.Phone),
		"website":                       nullString(inv.Website),
		"description":                   nullString(inv.Description),
		"preferred_commitment_size_min": inv.CommitmentSizeMin,
		"preferred_commitment_size_max": inv.CommitmentSizeMax,
		"open_to_first_time_funds":      nullString(inv.OpenToFirstTimeFunds),
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

type ContactModel struct {
	ID          string         `db:"id"`
	InvestorID  sql.NullInt64  `db:"limited_partner_id"`
	Name        string         `db:"name"`
	Title       sql.NullString `db:"title"`
	Email       sql.NullString `db:"email"`
	Phone       sql.NullString `db:"phone"`
	CompanyName string         `db:"company_name"`
}

func (m ContactModel) toContact() investor.Contact {
	c := investor.Contact{
		ID:          m.ID,
		Name:        m.Name,
		Title:       m.Title.String,
		Email:       m.Email.String,
		Phone:       m.Phone.String,
		CompanyName: m.CompanyName,
	}
	if m.InvestorID.Valid {
		id := m.InvestorID.Int64
		c.InvestorID = &id
	}
	return c
}
