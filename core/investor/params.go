package investor

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	ParamSearchTerm     = "q"
	ParamInvestorType   = "type"
	ParamLocation       = "location"
	ParamAssetClass     = "asset_class"
	ParamFirstTimeFunds = "first_time_funds"
	ParamAUMMin         = "aum_min"
	ParamAUMMax         = "aum_max"
	ParamPage           = "page"
	ParamSort           = "sort"
	ParamDirection      = "direction"
)

// Values encodes the filter as URL query parameters.
func (f Filter) Values() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set(ParamSearchTerm, f.SearchTerm)
	set(ParamInvestorType, f.InvestorType)
	set(ParamLocation, f.Location)
	set(ParamAssetClass, f.AssetClass)
	set(ParamFirstTimeFunds, f.FirstTimeFunds)
	if f.AUMRange != nil {
		v.Set(ParamAUMMin, strconv.FormatFloat(f.AUMRange.Min, 'f', -1, 64))
		v.Set(ParamAUMMax, strconv.FormatFloat(f.AUMRange.Max, 'f', -1, 64))
	}
	if f.Page > 0 {
		v.Set(ParamPage, strconv.Itoa(f.Page))
	}
	set(ParamSort, f.Sort.Column)
	set(ParamDirection, f.Sort.Direction)
	return v
}

// ParseValues decodes a filter from URL query parameters. Setting only one
// bound of the AUM range is an error.
func ParseValues(v url.Values) (Filter, error) {
	flt := Filter{
		SearchTerm:     v.Get(ParamSearchTerm),
		InvestorType:   v.Get(ParamInvestorType),
		Location:       v.Get(ParamLocation),
		AssetClass:     v.Get(ParamAssetClass),
		FirstTimeFunds: v.Get(ParamFirstTimeFunds),
		Sort: Sort{
			Column:    v.Get(ParamSort),
			Direction: strings.ToLower(v.Get(ParamDirection)),
		},
	}

	if p := v.Get(ParamPage); p != "" {
		page, err := strconv.Atoi(p)
		if err != nil {
			return Filter{}, ValidationError{Err: fmt.Errorf("page %q is not a number", p)}
		}
		flt.Page = page
	}

	minStr, maxStr := v.Get(ParamAUMMin), v.Get(ParamAUMMax)
	switch {
	case minStr == "" && maxStr == "":
	case minStr == "" || maxStr == "":
		return Filter{}, ValidationError{Err: fmt.Errorf("%s and %s must be set together", ParamAUMMin, ParamAUMMax)}
	default:
		lo, err := strconv.ParseFloat(minStr, 64)
		if err != nil {
			return Filter{}, ValidationError{Err: fmt.Errorf("%s %q is not a number", ParamAUMMin, minStr)}
		}
		hi, err := strconv.ParseFloat(maxStr, 64)
		if err != nil {
			return Filter{}, ValidationError{Err: fmt.Errorf("%s %q is not a number", ParamAUMMax, maxStr)}
		}
		flt.AUMRange = &AUMRange{Min: lo, Max: hi}
	}

	return flt, flt.Validate()
}
