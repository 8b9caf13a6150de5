package list

import (
	"context"
	"fmt"

	"github.com/capitalninja/ninja/core/investor"
	"github.com/capitalninja/ninja/core/user"
	"github.com/capitalninja/ninja/lib/set"
	"github.com/goto/salt/log"
)

type Service struct {
	repository Repository
	logger     log.Logger
}

func NewService(logger log.Logger, repository Repository) *Service {
	return &Service{
		repository: repository,
		logger:     logger,
	}
}

// Create stores a new list owned by the user in ctx.
func (s *Service) Create(ctx context.Context, l *List) (string, error) {
	if err := l.Validate(); err != nil {
		return "", err
	}
	usr := user.FromContext(ctx)
	if usr.ID == "" {
		return "", user.ErrNoUserInformation
	}
	l.UserID = usr.ID
	return s.repository.Create(ctx, l)
}

func (s *Service) GetByID(ctx context.Context, id string) (List, error) {
	return s.repository.GetByID(ctx, id)
}

func (s *Service) GetAll(ctx context.Context) ([]List, error) {
	return s.repository.GetAll(ctx)
}

func (s *Service) Update(ctx context.Context, l *List) error {
	if err := l.Validate(); err != nil {
		return err
	}
	return s.repository.Update(ctx, l)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repository.Delete(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repository.Count(ctx)
}

// AddInvestors adds investors to the list. Investors already on the list
// are skipped; the number of newly added investors is returned.
func (s *Service) AddInvestors(ctx context.Context, listID string, investorIDs []int64) (int, error) {
	ids, err := uniqueIDs(investorIDs)
	if err != nil {
		return 0, err
	}
	return s.repository.AddInvestors(ctx, listID, ids)
}

func (s *Service) RemoveInvestors(ctx context.Context, listID string, investorIDs []int64) (int, error) {
	ids, err := uniqueIDs(investorIDs)
	if err != nil {
		return 0, err
	}
	return s.repository.RemoveInvestors(ctx, listID, ids)
}

// GetInvestors returns one page of the list's investors in the requested
// order.
func (s *Service) GetInvestors(ctx context.Context, listID string, page int, sort investor.Sort) (investor.QueryResult, error) {
	flt := investor.Filter{Page: page, Sort: sort}
	if err := flt.Validate(); err != nil {
		return investor.QueryResult{}, err
	}

	if _, err := s.repository.GetByID(ctx, listID); err != nil {
		return investor.QueryResult{}, err
	}

	res, err := s.repository.FindInvestors(ctx, listID, investor.BuildQuery(flt))
	if err != nil {
		s.logger.Warn("list investors query failed", "list_id", listID, "err", err)
		return investor.QueryResult{}, investor.NewQueryError("find list investors", err)
	}
	if res.Rows == nil {
		res.Rows = []investor.Summary{}
	}
	return res, nil
}

func uniqueIDs(ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, InvalidError{Reason: "no investors given"}
	}
	seen := set.NewOrdered[int64]()
	for _, id := range ids {
		if id <= 0 {
			return nil, InvalidError{Reason: fmt.Sprintf("invalid investor id %d", id)}
		}
		seen.Add(id)
	}
	return seen.Values(), nil
}
