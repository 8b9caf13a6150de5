package investor

import "strings"

const (
	ColumnID                = "id"
	ColumnName              = "limited_partner_name"
	ColumnType              = "limited_partner_type"
	ColumnAUM               = "aum"
	ColumnLocation          = "hqlocation"
	ColumnPreferredFundType = "preferred_fund_type"
	ColumnFirstTimeFunds    = "open_to_first_time_funds"
)

type Operator string

const (
	OpEq    Operator = "eq"
	OpILike Operator = "ilike"
	OpGte   Operator = "gte"
	OpLte   Operator = "lte"
)

// Condition compares one column against a value.
type Condition struct {
	Column string
	Op     Operator
	Value  interface{}
}

// Predicate is one conjunct of a query. It matches a row when any of its
// conditions does.
type Predicate struct {
	AnyOf []Condition
}

func where(column string, op Operator, value interface{}) Predicate {
	return Predicate{AnyOf: []Condition{{Column: column, Op: op, Value: value}}}
}

type Order struct {
	Column     string
	Descending bool
}

// Range is the inclusive window of row indices a page covers.
type Range struct {
	From int
	To   int
}

// Limit is the number of rows in the window.
func (r Range) Limit() int {
	return r.To - r.From + 1
}

// Query is a storage-agnostic description of an investor read. Predicates
// are combined with AND.
type Query struct {
	Predicates []Predicate
	OrderBy    []Order
	Range      Range
}

// BuildQuery turns a filter into a query. Filters are applied in a fixed
// order: search term, investor type, location, asset class, first time
// funds and AUM range.
func BuildQuery(flt Filter) Query {
	flt = flt.Normalize()

	var q Query
	if flt.SearchTerm != "" {
		q.Predicates = append(q.Predicates, where(ColumnName, OpILike, Contains(flt.SearchTerm)))
	}
	if isSet(flt.InvestorType) {
		q.Predicates = append(q.Predicates, where(ColumnType, OpEq, flt.InvestorType))
	}
	if isSet(flt.Location) {
		q.Predicates = append(q.Predicates, LocationPredicate(flt.Location))
	}
	if isSet(flt.AssetClass) {
		q.Predicates = append(q.Predicates, where(ColumnPreferredFundType, OpILike, Contains(flt.AssetClass)))
	}
	if isSet(flt.FirstTimeFunds) {
		q.Predicates = append(q.Predicates, where(ColumnFirstTimeFunds, OpEq, flt.FirstTimeFunds))
	}
	if flt.AUMRange != nil {
		q.Predicates = append(q.Predicates,
			where(ColumnAUM, OpGte, flt.AUMRange.Min*aumUnit),
			where(ColumnAUM, OpLte, flt.AUMRange.Max*aumUnit),
		)
	}

	q.OrderBy = orderBy(flt.Sort)
	q.Range = PageRange(flt.Page, PageSize)
	return q
}

// PageRange returns the rows covered by a 1-based page. Pages past
// MaxPage are clamped to it.
func PageRange(page, size int) Range {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	from := (page - 1) * size
	return Range{From: from, To: from + size - 1}
}

// orderBy always ends on the id so rows with equal sort keys keep a
// stable position across pages.
func orderBy(s Sort) []Order {
	orders := []Order{{Column: s.Column, Descending: s.Descending()}}
	if s.Column != ColumnID {
		orders = append(orders, Order{Column: ColumnID})
	}
	return orders
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains builds a case-insensitive substring pattern for s. LIKE
// wildcards inside s match literally.
func Contains(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
