package handlers

import (
	"context"
	"net/http"
	"sort"

	"github.com/capitalninja/ninja/core/investor"
	"github.com/goto/salt/log"
	"golang.org/x/sync/errgroup"
)

type ListCounter interface {
	Count(ctx context.Context) (int, error)
}

type InvestorTypeCounter interface {
	GetTypes(ctx context.Context) (map[string]int, error)
}

type TypeCount struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type DashboardResponse struct {
	ListsCount     int         `json:"lists_count"`
	InvestorsCount int         `json:"investors_count"`
	InvestorTypes  []TypeCount `json:"investor_types"`
}

// DashboardHandler summarises the user's lists and the investor table
type DashboardHandler struct {
	logger    log.Logger
	lists     ListCounter
	investors InvestorTypeCounter
}

func NewDashboardHandler(logger log.Logger, lists ListCounter, investors InvestorTypeCounter) *DashboardHandler {
	return &DashboardHandler{
		logger:    logger,
		lists:     lists,
		investors: investors,
	}
}

func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	var (
		res   DashboardResponse
		types map[string]int
	)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		res.ListsCount, err = h.lists.Count(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		types, err = h.investors.GetTypes(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		if investor.IsRateLimited(err) {
			WriteJSONError(w, http.StatusTooManyRequests, investor.UserMessage(err))
			return
		}
		internalServerError(w, h.logger, err)
		return
	}

	res.InvestorTypes = make([]TypeCount, 0, len(types))
	for name, n := range types {
		res.InvestorTypes = append(res.InvestorTypes, TypeCount{Name: name, Value: n})
		res.InvestorsCount += n
	}
	sort.Slice(res.InvestorTypes, func(i, j int) bool {
		if res.InvestorTypes[i].Value != res.InvestorTypes[j].Value {
			return res.InvestorTypes[i].Value > res.InvestorTypes[j].Value
		}
		return res.InvestorTypes[i].Name < res.InvestorTypes[j].Name
	})

	writeJSON(w, http.StatusOK, res)
}
