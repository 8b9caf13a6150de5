package investor

const (
	ColumnContactName       = "c.name"
	ColumnContactInvestorID = "c.limited_partner_id"
	ColumnContactID         = "c.id"

	ContactPageSize = 50
)

// ContactFilter narrows the contact directory.
type ContactFilter struct {
	SearchTerm string `json:"search_term,omitempty"`
	InvestorID int64  `json:"investor_id,omitempty" validate:"gte=0"`
	Page       int    `json:"page" validate:"gte=0,lte=1000000"`
}

// BuildContactQuery turns a contact filter into a query ordered by name.
func BuildContactQuery(flt ContactFilter) Query {
	var q Query
	if flt.SearchTerm != "" {
		q.Predicates = append(q.Predicates, where(ColumnContactName, OpILike, Contains(flt.SearchTerm)))
	}
	if flt.InvestorID > 0 {
		q.Predicates = append(q.Predicates, where(ColumnContactInvestorID, OpEq, flt.InvestorID))
	}
	q.OrderBy = []Order{{Column: ColumnContactName}, {Column: ColumnContactID}}
	q.Range = PageRange(flt.Page, ContactPageSize)
	return q
}
