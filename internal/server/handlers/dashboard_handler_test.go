package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/capitalninja/ninja/core/investor"
	"github.com/capitalninja/ninja/internal/server/handlers"
	"github.com/goto/salt/log"
	"github.com/stretchr/testify/assert"
)

type countStub struct {
	count int
	types map[string]int
	err   error
}

func (s countStub) Count(context.Context) (int, error)               { return s.count, s.err }
func (s countStub) GetTypes(context.Context) (map[string]int, error) { return s.types, s.err }

func TestDashboardHandler(t *testing.T) {
	t.Run("should sum investor types", func(t *testing.T) {
		h := handlers.NewDashboardHandler(log.NewNoop(),
			countStub{count: 2},
			countStub{types: map[string]int{"Endowment": 3, "Unknown": 1, "Pension Fund": 3}})

		rw := httptest.NewRecorder()
		h.Get(rw, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		assert.Equal(t, http.StatusOK, rw.Code)
		assert.JSONEq(t, `{
			"lists_count": 2,
			"investors_count": 7,
			"investor_types": [
				{"name": "Endowment", "value": 3},
				{"name": "Pension Fund", "value": 3},
				{"name": "Unknown", "value": 1}
			]
		}`, rw.Body.String())
	})

	t.Run("should return 429 when rate limited", func(t *testing.T) {
		h := handlers.NewDashboardHandler(log.NewNoop(),
			countStub{},
			countStub{err: investor.NewQueryError("get types", investor.ErrRateLimited)})

		rw := httptest.NewRecorder()
		h.Get(rw, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
		assert.Equal(t, http.StatusTooManyRequests, rw.Code)
	})

	t.Run("should hide other failures", func(t *testing.T) {
		h := handlers.NewDashboardHandler(log.NewNoop(), countStub{err: errors.New("db down")}, countStub{})

		rw := httptest.NewRecorder()
		h.Get(rw, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
		assert.Equal(t, http.StatusInternalServerError, rw.Code)
		assert.NotContains(t, rw.Body.String(), "db down")
	})
}
