package investor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/capitalninja/ninja/core/validator"
)

const (
	// NoFilter is the sentinel a categorical filter carries when the user
	// has not narrowed on it.
	NoFilter = "_all"

	// PageSize is the number of investors returned per page.
	PageSize = 200

	// MaxPage is the highest page a filter may ask for. Keep the page
	// validate tags in step with it.
	MaxPage = 1_000_000

	// aumUnit scales the AUM range, expressed in billions, to the stored unit.
	aumUnit = 1_000_000_000

	SortAscending  = "asc"
	SortDescending = "desc"
)

// DefaultSort orders investors alphabetically by name.
var DefaultSort = Sort{Column: ColumnName, Direction: SortAscending}

// AUMRange bounds the assets under management, in billions, inclusive on
// both ends.
type AUMRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type Sort struct {
	Column    string `json:"column" validate:"omitempty,oneof=limited_partner_name limited_partner_type aum hqlocation preferred_fund_type"`
	Direction string `json:"direction" validate:"omitempty,oneof=asc desc"`
}

// Descending reports whether the sort runs from highest to lowest.
func (s Sort) Descending() bool {
	return strings.EqualFold(s.Direction, SortDescending)
}

// Filter is the complete set of user selections that determine one
// investor query.
type Filter struct {
	SearchTerm     string    `json:"search_term,omitempty"`
	InvestorType   string    `json:"investor_type,omitempty"`
	Location       string    `json:"location,omitempty"`
	AssetClass     string    `json:"asset_class,omitempty"`
	FirstTimeFunds string    `json:"first_time_funds,omitempty"`
	AUMRange       *AUMRange `json:"aum_range,omitempty"`
	Page           int       `json:"page" validate:"gte=0,lte=1000000"`
	Sort           Sort      `json:"sort"`
}

// Validate checks the filter can be turned into a query.
func (f Filter) Validate() error {
	lowered := f
	lowered.Sort.Direction = strings.ToLower(f.Sort.Direction)
	if err := validator.ValidateStruct(lowered); err != nil {
		return ValidationError{Err: err}
	}
	if f.AUMRange != nil {
		if f.AUMRange.Min < 0 || f.AUMRange.Max < 0 {
			return ValidationError{Err: fmt.Errorf("aum_range cannot be negative")}
		}
		if f.AUMRange.Min > f.AUMRange.Max {
			return ValidationError{Err: fmt.Errorf("aum_range min %g is greater than max %g", f.AUMRange.Min, f.AUMRange.Max)}
		}
	}
	return nil
}

// Normalize fills in the defaults: page 0 becomes page 1 and an empty sort
// becomes DefaultSort.
func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Sort.Column == "" {
		f.Sort.Column = DefaultSort.Column
	}
	if f.Sort.Direction == "" {
		f.Sort.Direction = SortAscending
	}
	f.Sort.Direction = strings.ToLower(f.Sort.Direction)
	if f.AUMRange != nil {
		r := *f.AUMRange
		f.AUMRange = &r
	}
	return f
}

// Key returns the canonical form of the filter. Two filters that produce
// the same query have the same key.
func (f Filter) Key() string {
	f = f.Normalize()
	for _, v := range []*string{&f.InvestorType, &f.Location, &f.AssetClass, &f.FirstTimeFunds} {
		if !isSet(*v) {
			*v = ""
		}
	}
	b, err := json.Marshal(f)
	if err != nil {
		// plain strings and numbers only
		panic(err)
	}
	return string(b)
}

func isSet(v string) bool {
	return v != "" && v != NoFilter
}
