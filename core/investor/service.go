package investor

import (
	"context"
	"fmt"
	"time"

	"github.com/capitalninja/ninja/pkg/statsd"
	"github.com/goto/salt/log"
)

type Service struct {
	repository     Repository
	cache          *Cache
	logger         log.Logger
	statsdReporter *statsd.Reporter
}

type ServiceOption func(*Service)

// ServiceWithCache memoizes BuildAndExecute results in c. A nil cache
// disables memoization.
func ServiceWithCache(c *Cache) ServiceOption {
	return func(s *Service) {
		s.cache = c
	}
}

func ServiceWithStatsDReporter(statsdReporter *statsd.Reporter) ServiceOption {
	return func(s *Service) {
		s.statsdReporter = statsdReporter
	}
}

func NewService(logger log.Logger, repository Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repository: repository,
		cache:      NewCache(DefaultCacheSize),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// BuildAndExecute runs the query described by flt and returns one page of
// investors with the total match count.
func (s *Service) BuildAndExecute(ctx context.Context, flt Filter) (result QueryResult, err error) {
	start := time.Now()
	cached := false
	defer func() {
		s.instrument("investor_query", start, err).
			Tag("cached", fmt.Sprint(cached)).
			Tag("rate_limited", fmt.Sprint(IsRateLimited(err))).
			Publish()
	}()

	if err := flt.Validate(); err != nil {
		return QueryResult{}, err
	}
	flt = flt.Normalize()
	q := BuildQuery(flt)

	load := func(ctx context.Context) (QueryResult, error) {
		res, err := s.repository.Find(ctx, q)
		if err != nil {
			return QueryResult{}, err
		}
		if res.Rows == nil {
			res.Rows = []Summary{}
		}
		return res, nil
	}

	key := flt.Key()
	switch {
	case s.cache == nil:
		result, err = load(ctx)
	default:
		if res, ok := s.cache.Get(key); ok {
			cached = true
			return res, nil
		}
		result, err = s.cache.GetOrLoad(ctx, key, load)
	}
	if err != nil {
		s.logger.Warn("investor query failed", "filter", key, "err", err)
		return QueryResult{}, NewQueryError("find", err)
	}
	return result, nil
}

func (s *Service) GetInvestor(ctx context.Context, id int64) (Investor, error) {
	return s.repository.GetByID(ctx, id)
}

// UpsertInvestor creates the investor when it has no id and updates it
// otherwise. Cached query results are discarded on success.
func (s *Service) UpsertInvestor(ctx context.Context, inv *Investor) (int64, error) {
	if err := inv.Validate(); err != nil {
		return 0, err
	}
	id, err := s.repository.Upsert(ctx, inv)
	if err != nil {
		return 0, err
	}
	s.Invalidate()
	return id, nil
}

func (s *Service) DeleteInvestor(ctx context.Context, id int64) error {
	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}
	s.Invalidate()
	return nil
}

// GetTypes counts investors per investor type.
func (s *Service) GetTypes(ctx context.Context) (map[string]int, error) {
	types, err := s.repository.GetTypes(ctx)
	if err != nil {
		return nil, NewQueryError("get types", err)
	}
	return types, nil
}

func (s *Service) GetContacts(ctx context.Context, flt ContactFilter) (ContactResult, error) {
	if flt.Page < 0 || flt.InvestorID < 0 {
		return ContactResult{}, ValidationError{Err: fmt.Errorf("page and investor_id cannot be negative")}
	}
	if flt.Page > MaxPage {
		return ContactResult{}, ValidationError{Err: fmt.Errorf("page cannot exceed %d", MaxPage)}
	}
	res, err := s.repository.FindContacts(ctx, BuildContactQuery(flt))
	if err != nil {
		return ContactResult{}, NewQueryError("find contacts", err)
	}
	if res.Rows == nil {
		res.Rows = []Contact{}
	}
	return res, nil
}

// Invalidate discards cached query results.
func (s *Service) Invalidate() {
	if s.cache != nil {
		s.cache.Invalidate()
	}
}

func (s *Service) instrument(name string, start time.Time, err error) *statsd.Metric {
	if s.statsdReporter == nil {
		return nil
	}
	m := s.statsdReporter.Timing(name, time.Since(start))
	if err != nil {
		return m.Failure(err)
	}
	return m.Success()
}
