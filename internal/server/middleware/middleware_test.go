package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/capitalninja/ninja/core/user"
	"github.com/capitalninja/ninja/internal/server/middleware"
	"github.com/capitalninja/ninja/lib/mocks"
	"github.com/capitalninja/ninja/pkg/statsd"
	"github.com/goto/salt/log"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	headerID    = "Ninja-User-ID"
	headerEmail = "Ninja-User-Email"
	userID      = "8a7c4a3e-2d07-4c55-9d33-1d1f5c4a0f11"
)

func TestValidateUser(t *testing.T) {
	type testCase struct {
		Description  string
		Headers      map[string]string
		Setup        func(repo *mocks.UserRepository)
		ExpectStatus int
		ExpectUser   user.User
	}

	testCases := []testCase{
		{
			Description:  "should reject a request without identity",
			ExpectStatus: http.StatusBadRequest,
		},
		{
			Description: "should propagate a known user",
			Headers:     map[string]string{headerID: userID},
			Setup: func(repo *mocks.UserRepository) {
				repo.On("GetByID", mock.Anything, userID).Return(user.User{ID: userID, Email: "a@ninja.io"}, nil)
			},
			ExpectStatus: http.StatusOK,
			ExpectUser:   user.User{ID: userID, Email: "a@ninja.io"},
		},
		{
			Description: "should create the profile of a new user",
			Headers:     map[string]string{headerID: userID, headerEmail: "new@ninja.io"},
			Setup: func(repo *mocks.UserRepository) {
				repo.On("GetByID", mock.Anything, userID).Return(user.User{}, user.NotFoundError{ID: userID})
				repo.On("Upsert", mock.Anything, &user.User{ID: userID, Email: "new@ninja.io"}).Return(userID, nil)
			},
			ExpectStatus: http.StatusOK,
			ExpectUser:   user.User{ID: userID, Email: "new@ninja.io"},
		},
		{
			Description: "should reject a malformed id",
			Headers:     map[string]string{headerID: "not-a-uuid"},
			Setup: func(repo *mocks.UserRepository) {
				repo.On("GetByID", mock.Anything, "not-a-uuid").Return(user.User{}, user.InvalidError{ID: "not-a-uuid"})
			},
			ExpectStatus: http.StatusBadRequest,
		},
		{
			Description: "should fail when the store is unavailable",
			Headers:     map[string]string{headerID: userID},
			Setup: func(repo *mocks.UserRepository) {
				repo.On("GetByID", mock.Anything, userID).Return(user.User{}, errors.New("db down"))
			},
			ExpectStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			repo := new(mocks.UserRepository)
			if tc.Setup != nil {
				tc.Setup(repo)
			}
			defer repo.AssertExpectations(t)

			var got user.User
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = user.FromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})
			h := middleware.ValidateUser(headerID, headerEmail, user.NewService(log.NewNoop(), repo))(next)

			req := httptest.NewRequest(http.MethodGet, "/v1/lists", nil)
			for k, v := range tc.Headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tc.ExpectStatus, rr.Code)
			if tc.ExpectStatus != http.StatusOK {
				var body map[string]string
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
				assert.NotEmpty(t, body["reason"])
				return
			}
			assert.Equal(t, tc.ExpectUser, got)
		})
	}
}

type recordingClient struct {
	mu    sync.Mutex
	names []string
}

func (c *recordingClient) record(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names = append(c.names, name)
	return nil
}

func (c *recordingClient) Incr(name string, _ []string, _ float64) error { return c.record(name) }
func (c *recordingClient) Timing(name string, _ time.Duration, _ []string, _ float64) error {
	return c.record(name)
}
func (c *recordingClient) Gauge(name string, _ float64, _ []string, _ float64) error {
	return c.record(name)
}
func (c *recordingClient) Close() error { return nil }

func TestStatsD(t *testing.T) {
	client := &recordingClient{}
	reporter := statsd.NewWithClient(log.NewNoop(), statsd.Config{WithInfluxTagFormat: true, SamplingRate: 1}, client)

	r := mux.NewRouter()
	r.Use(middleware.StatsD(reporter))
	r.HandleFunc("/v1/lists/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/lists/42", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, []string{
		"responseTime,method=GET,url=/v1/lists/{id}",
		"responseStatusCode,method=GET,statusCode=404,url=/v1/lists/{id}",
	}, client.names)

	t.Run("should pass through without a reporter", func(t *testing.T) {
		h := middleware.StatsD(nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusTeapot, rr.Code)
	})
}

func TestDecodeURL(t *testing.T) {
	r := mux.NewRouter()
	r.Use(middleware.DecodeURL())
	var token string
	r.HandleFunc("/v1/invitations/{token}/accept", func(w http.ResponseWriter, r *http.Request) {
		token = mux.Vars(r)["token"]
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/invitations/a%2520b/accept", nil))
	assert.Equal(t, "a b", token)
}

func TestNewRelicWithoutApplication(t *testing.T) {
	called := false
	h := middleware.NewRelic(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.True(t, called)
}
