package investor

import (
	"context"
	"sync"
)

// Searcher executes investor queries.
type Searcher interface {
	BuildAndExecute(ctx context.Context, flt Filter) (QueryResult, error)
}

// View holds the filter state of one investor table. Changing any filter
// or the sort returns to the first page. Only the most recently issued
// Refresh may update the displayed result.
type View struct {
	searcher Searcher

	mu        sync.Mutex
	filter    Filter
	seq       uint64
	result    QueryResult
	hasResult bool
}

func NewView(searcher Searcher) *View {
	return &View{
		searcher: searcher,
		filter:   Filter{Page: 1, Sort: DefaultSort},
	}
}

func (v *View) Filter() Filter {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

// Result returns the last applied result and whether there is one.
func (v *View) Result() (QueryResult, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.result, v.hasResult
}

func (v *View) SetSearchTerm(term string) {
	v.update(func(f *Filter) { f.SearchTerm = term })
}

func (v *View) SetInvestorType(investorType string) {
	v.update(func(f *Filter) { f.InvestorType = investorType })
}

func (v *View) SetLocation(location string) {
	v.update(func(f *Filter) { f.Location = location })
}

func (v *View) SetAssetClass(assetClass string) {
	v.update(func(f *Filter) { f.AssetClass = assetClass })
}

func (v *View) SetFirstTimeFunds(firstTimeFunds string) {
	v.update(func(f *Filter) { f.FirstTimeFunds = firstTimeFunds })
}

// SetAUMRange narrows on assets under management. A nil range clears it.
func (v *View) SetAUMRange(r *AUMRange) {
	v.update(func(f *Filter) {
		if r == nil {
			f.AUMRange = nil
			return
		}
		cp := *r
		f.AUMRange = &cp
	})
}

func (v *View) ClearAUMRange() {
	v.SetAUMRange(nil)
}

func (v *View) SetSort(s Sort) {
	v.update(func(f *Filter) { f.Sort = s })
}

// ToggleSort sorts by column ascending, or flips the direction when the
// view is already sorted by column.
func (v *View) ToggleSort(column string) {
	v.update(func(f *Filter) {
		if f.Sort.Column == column && !f.Sort.Descending() {
			f.Sort = Sort{Column: column, Direction: SortDescending}
			return
		}
		f.Sort = Sort{Column: column, Direction: SortAscending}
	})
}

// SetPage moves to page without touching the other selections.
func (v *View) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter.Page = page
}

// ClampPage moves back to the last page when the current one lies past
// the end of the last applied result. It reports whether the page changed.
func (v *View) ClampPage() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.hasResult {
		return false
	}
	last := v.result.TotalPages()
	if last < 1 {
		last = 1
	}
	if v.filter.Page <= last {
		return false
	}
	v.filter.Page = last
	return true
}

// Refresh queries the current filter. applied is false when another
// Refresh was issued after this one; the outcome is then discarded and
// neither result nor error is reported.
func (v *View) Refresh(ctx context.Context) (res QueryResult, applied bool, err error) {
	v.mu.Lock()
	v.seq++
	ticket := v.seq
	flt := v.filter
	v.mu.Unlock()

	res, err = v.searcher.BuildAndExecute(ctx, flt)

	v.mu.Lock()
	defer v.mu.Unlock()
	if ticket != v.seq {
		return QueryResult{}, false, nil
	}
	if err != nil {
		return QueryResult{}, true, err
	}
	v.result = res
	v.hasResult = true
	return res, true, nil
}

func (v *View) update(fn func(f *Filter)) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fn(&v.filter)
	v.filter.Page = 1
}
