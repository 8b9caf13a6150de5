package investor_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/capitalninja/ninja/core/investor"
	"github.com/capitalninja/ninja/lib/mocks"
	"github.com/capitalninja/ninja/pkg/statsd"
	"github.com/goto/salt/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func aum(v float64) *float64 { return &v }

func TestServiceBuildAndExecute(t *testing.T) {
	logger := log.NewNoop()
	ctx := context.Background()

	blackrock := investor.Summary{ID: 1, Name: "BlackRock", Location: "New York, United States", AUM: aum(9e12)}
	flt := investor.Filter{SearchTerm: "black", Location: "US", AUMRange: &investor.AUMRange{Min: 1, Max: 10}, Page: 1}

	type testCase struct {
		Description string
		Filter      investor.Filter
		Setup       func(repo *mocks.InvestorRepository)
		Expected    investor.QueryResult
		ExpectErr   interface{}
	}

	testCases := []testCase{
		{
			Description: "should pass the repository result through",
			Filter:      flt,
			Setup: func(repo *mocks.InvestorRepository) {
				repo.On("Find", mock.Anything, investor.BuildQuery(flt)).
					Return(investor.QueryResult{Rows: []investor.Summary{blackrock}, TotalCount: 1}, nil).Once()
			},
			Expected: investor.QueryResult{Rows: []investor.Summary{blackrock}, TotalCount: 1},
		},
		{
			Description: "should return an empty page rather than nil rows",
			Filter:      investor.Filter{Page: 9},
			Setup: func(repo *mocks.InvestorRepository) {
				repo.On("Find", mock.Anything, mock.AnythingOfType("investor.Query")).
					Return(investor.QueryResult{TotalCount: 3}, nil).Once()
			},
			Expected: investor.QueryResult{Rows: []investor.Summary{}, TotalCount: 3},
		},
		{
			Description: "should wrap backend failures in QueryError",
			Filter:      flt,
			Setup: func(repo *mocks.InvestorRepository) {
				repo.On("Find", mock.Anything, mock.Anything).Return(investor.QueryResult{}, errors.New("connection reset")).Once()
			},
			ExpectErr: &investor.QueryError{},
		},
		{
			Description: "should classify rate limiting",
			Filter:      flt,
			Setup: func(repo *mocks.InvestorRepository) {
				repo.On("Find", mock.Anything, mock.Anything).Return(investor.QueryResult{}, investor.ErrRateLimited).Once()
			},
			ExpectErr: &investor.RateLimitError{},
		},
		{
			Description: "should reject a page past the last without querying",
			Filter:      investor.Filter{Page: 1 << 40},
			ExpectErr:   &investor.ValidationError{},
		},
		{
			Description: "should reject an invalid filter without querying",
			Filter:      investor.Filter{Sort: investor.Sort{Column: "secret"}},
			ExpectErr:   &investor.ValidationError{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			repo := new(mocks.InvestorRepository)
			if tc.Setup != nil {
				tc.Setup(repo)
			}
			defer repo.AssertExpectations(t)

			svc := investor.NewService(logger, repo)
			got, err := svc.BuildAndExecute(ctx, tc.Filter)
			if tc.ExpectErr != nil {
				assert.ErrorAs(t, err, tc.ExpectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, got)
		})
	}
}

func TestServiceCaching(t *testing.T) {
	logger := log.NewNoop()
	ctx := context.Background()
	res := investor.QueryResult{Rows: []investor.Summary{{ID: 1, Name: "A"}}, TotalCount: 1}

	t.Run("identical filters hit the repository once", func(t *testing.T) {
		repo := new(mocks.InvestorRepository)
		repo.On("Find", mock.Anything, mock.Anything).Return(res, nil).Once()
		defer repo.AssertExpectations(t)

		svc := investor.NewService(logger, repo)
		first, err := svc.BuildAndExecute(ctx, investor.Filter{Location: "US"})
		require.NoError(t, err)
		second, err := svc.BuildAndExecute(ctx, investor.Filter{Location: "US", Page: 1})
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("failures are not cached", func(t *testing.T) {
		repo := new(mocks.InvestorRepository)
		repo.On("Find", mock.Anything, mock.Anything).Return(investor.QueryResult{}, errors.New("down")).Once()
		repo.On("Find", mock.Anything, mock.Anything).Return(res, nil).Once()
		defer repo.AssertExpectations(t)

		svc := investor.NewService(logger, repo)
		_, err := svc.BuildAndExecute(ctx, investor.Filter{})
		assert.Error(t, err)
		got, err := svc.BuildAndExecute(ctx, investor.Filter{})
		require.NoError(t, err)
		assert.Equal(t, res, got)
	})

	t.Run("writes invalidate cached results", func(t *testing.T) {
		inv := &investor.Investor{Summary: investor.Summary{Name: "New LP"}}
		repo := new(mocks.InvestorRepository)
		repo.On("Find", mock.Anything, mock.Anything).Return(res, nil).Twice()
		repo.On("Upsert", ctx, inv).Return(int64(2), nil).Once()
		repo.On("Delete", ctx, int64(2)).Return(nil).Once()
		repo.On("Find", mock.Anything, mock.Anything).Return(investor.QueryResult{Rows: []investor.Summary{}}, nil).Once()
		defer repo.AssertExpectations(t)

		svc := investor.NewService(logger, repo)
		_, err := svc.BuildAndExecute(ctx, investor.Filter{})
		require.NoError(t, err)

		id, err := svc.UpsertInvestor(ctx, inv)
		require.NoError(t, err)
		assert.Equal(t, int64(2), id)
		_, err = svc.BuildAndExecute(ctx, investor.Filter{})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteInvestor(ctx, 2))
		_, err = svc.BuildAndExecute(ctx, investor.Filter{})
		require.NoError(t, err)
	})

	t.Run("cache can be disabled", func(t *testing.T) {
		repo := new(mocks.InvestorRepository)
		repo.On("Find", mock.Anything, mock.Anything).Return(res, nil).Twice()
		defer repo.AssertExpectations(t)

		svc := investor.NewService(logger, repo, investor.ServiceWithCache(nil))
		for i := 0; i < 2; i++ {
			_, err := svc.BuildAndExecute(ctx, investor.Filter{})
			require.NoError(t, err)
		}
	})

	t.Run("concurrent identical queries are idempotent", func(t *testing.T) {
		repo := new(mocks.InvestorRepository)
		repo.On("Find", mock.Anything, mock.Anything).Return(res, nil)

		svc := investor.NewService(logger, repo)
		var wg sync.WaitGroup
		results := make([]investor.QueryResult, 8)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				r, err := svc.BuildAndExecute(ctx, investor.Filter{SearchTerm: "a"})
				assert.NoError(t, err)
				results[i] = r
			}(i)
		}
		wg.Wait()
		for _, r := range results {
			assert.Equal(t, res, r)
		}
	})
}

type recordingClient struct {
	mu    sync.Mutex
	names []string
}

func (c *recordingClient) Incr(string, []string, float64) error { return nil }
func (c *recordingClient) Gauge(string, float64, []string, float64) error {
	return nil
}
func (c *recordingClient) Close() error { return nil }

func (c *recordingClient) Timing(name string, _ time.Duration, _ []string, _ float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = append(c.names, name)
	return nil
}

func TestServiceQueryMetrics(t *testing.T) {
	ctx := context.Background()
	res := investor.QueryResult{Rows: []investor.Summary{{ID: 1}}, TotalCount: 1}

	client := &recordingClient{}
	reporter := statsd.NewWithClient(log.NewNoop(), statsd.Config{WithInfluxTagFormat: true, SamplingRate: 1}, client)

	repo := new(mocks.InvestorRepository)
	repo.On("Find", mock.Anything, mock.Anything).Return(res, nil).Once()
	defer repo.AssertExpectations(t)

	svc := investor.NewService(log.NewNoop(), repo, investor.ServiceWithStatsDReporter(reporter))
	for i := 0; i < 2; i++ {
		_, err := svc.BuildAndExecute(ctx, investor.Filter{Location: "US"})
		require.NoError(t, err)
	}

	assert.Equal(t, []string{
		"investor_query,cached=false,rate_limited=false,success=true",
		"investor_query,cached=true,rate_limited=false,success=true",
	}, client.names)
}

func TestServiceSharedQueryOutlivesCaller(t *testing.T) {
	type userKey struct{}
	res := investor.QueryResult{Rows: []investor.Summary{{ID: 4}}, TotalCount: 1}

	started := make(chan struct{})
	release := make(chan struct{})
	var loadErr error
	var loadUser interface{}

	repo := new(mocks.InvestorRepository)
	repo.On("Find", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			close(started)
			<-release
			loadCtx := args.Get(0).(context.Context)
			loadErr = loadCtx.Err()
			loadUser = loadCtx.Value(userKey{})
		}).
		Return(res, nil).Once()
	defer repo.AssertExpectations(t)

	svc := investor.NewService(log.NewNoop(), repo)
	flt := investor.Filter{SearchTerm: "growth"}

	first, cancel := context.WithCancel(context.WithValue(context.Background(), userKey{}, "user-1"))
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.BuildAndExecute(first, flt)
		firstErr <- err
	}()
	<-started
	cancel()
	err := <-firstErr
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorAs(t, err, new(investor.QueryError))

	secondErr := make(chan error, 1)
	var got investor.QueryResult
	go func() {
		var err error
		got, err = svc.BuildAndExecute(context.Background(), flt)
		secondErr <- err
	}()
	close(release)
	require.NoError(t, <-secondErr)
	assert.Equal(t, res, got)
	assert.NoError(t, loadErr)
	assert.Equal(t, "user-1", loadUser)
}

func TestServiceUpsertInvestor(t *testing.T) {
	svc := investor.NewService(log.NewNoop(), new(mocks.InvestorRepository))

	_, err := svc.UpsertInvestor(context.Background(), &investor.Investor{})
	assert.ErrorAs(t, err, new(investor.InvalidError))
}

func TestServiceGetContacts(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.InvestorRepository)
	repo.On("FindContacts", ctx, investor.BuildContactQuery(investor.ContactFilter{SearchTerm: "ann"})).
		Return(investor.ContactResult{TotalCount: 0}, nil).Once()
	defer repo.AssertExpectations(t)

	svc := investor.NewService(log.NewNoop(), repo)
	got, err := svc.GetContacts(ctx, investor.ContactFilter{SearchTerm: "ann"})
	require.NoError(t, err)
	assert.Equal(t, []investor.Contact{}, got.Rows)

	_, err = svc.GetContacts(ctx, investor.ContactFilter{Page: -1})
	assert.ErrorAs(t, err, new(investor.ValidationError))

	_, err = svc.GetContacts(ctx, investor.ContactFilter{Page: investor.MaxPage + 1})
	assert.ErrorAs(t, err, new(investor.ValidationError))
}
