package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/capitalninja/ninja/core/investor"
	"github.com/capitalninja/ninja/core/list"
	"github.com/capitalninja/ninja/core/user"
	"github.com/capitalninja/ninja/internal/server/handlers"
	"github.com/capitalninja/ninja/lib/mocks"
	"github.com/gorilla/mux"
	"github.com/goto/salt/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const listID = "6f1c4d3e-3b7a-4a43-9d55-7c8a0e2f6b10"

func serveList(repo *mocks.ListRepository, req *http.Request) *httptest.ResponseRecorder {
	logger := log.NewNoop()
	h := handlers.NewListHandler(logger, list.NewService(logger, repo))

	router := mux.NewRouter()
	router.Path("/lists").Methods(http.MethodGet).HandlerFunc(h.GetAll)
	router.Path("/lists").Methods(http.MethodPost).HandlerFunc(h.Create)
	router.Path("/lists/{id}").Methods(http.MethodGet).HandlerFunc(h.GetByID)
	router.Path("/lists/{id}").Methods(http.MethodPatch).HandlerFunc(h.Update)
	router.Path("/lists/{id}").Methods(http.MethodDelete).HandlerFunc(h.Delete)
	router.Path("/lists/{id}/investors").Methods(http.MethodGet).HandlerFunc(h.GetInvestors)
	router.Path("/lists/{id}/investors").Methods(http.MethodPost).HandlerFunc(h.AddInvestors)
	router.Path("/lists/{id}/investors").Methods(http.MethodDelete).HandlerFunc(h.RemoveInvestors)

	req = req.WithContext(user.NewContext(req.Context(), user.User{ID: "user-1"}))
	rw := httptest.NewRecorder()
	router.ServeHTTP(rw, req)
	return rw
}

func TestListHandler(t *testing.T) {
	type testCase struct {
		Description  string
		Method       string
		Path         string
		Body         string
		Setup        func(repo *mocks.ListRepository)
		ExpectStatus int
		ExpectBody   string
	}

	testCases := []testCase{
		{
			Description: "create stamps the requesting user",
			Method:      http.MethodPost,
			Path:        "/lists",
			Body:        `{"name": "  Endowments  "}`,
			Setup: func(repo *mocks.ListRepository) {
				repo.On("Create", mock.Anything, &list.List{UserID: "user-1", Name: "Endowments"}).Return(listID, nil).Once()
			},
			ExpectStatus: http.StatusCreated,
			ExpectBody:   `{"id":"` + listID + `"}`,
		},
		{
			Description:  "create without a name is rejected",
			Method:       http.MethodPost,
			Path:         "/lists",
			Body:         `{"name": " "}`,
			ExpectStatus: http.StatusBadRequest,
		},
		{
			Description: "duplicate names conflict",
			Method:      http.MethodPost,
			Path:        "/lists",
			Body:        `{"name": "Endowments"}`,
			Setup: func(repo *mocks.ListRepository) {
				repo.On("Create", mock.Anything, mock.Anything).Return("", list.DuplicateNameError{Name: "Endowments"}).Once()
			},
			ExpectStatus: http.StatusConflict,
		},
		{
			Description: "unknown list is not found",
			Method:      http.MethodGet,
			Path:        "/lists/" + listID,
			Setup: func(repo *mocks.ListRepository) {
				repo.On("GetByID", mock.Anything, listID).Return(list.List{}, list.NotFoundError{ID: listID}).Once()
			},
			ExpectStatus: http.StatusNotFound,
		},
		{
			Description: "investors are paged with the requested sort",
			Method:      http.MethodGet,
			Path:        "/lists/" + listID + "/investors?page=2&sort=aum&direction=desc",
			Setup: func(repo *mocks.ListRepository) {
				sort := investor.Sort{Column: "aum", Direction: "desc"}
				repo.On("GetByID", mock.Anything, listID).Return(list.List{ID: listID}, nil).Once()
				repo.On("FindInvestors", mock.Anything, listID, investor.BuildQuery(investor.Filter{Page: 2, Sort: sort})).
					Return(investor.QueryResult{Rows: []investor.Summary{}, TotalCount: 250}, nil).Once()
			},
			ExpectStatus: http.StatusOK,
			ExpectBody:   `{"data":[],"total":250,"page":2,"total_pages":2}`,
		},
		{
			Description: "investor sort direction is case insensitive",
			Method:      http.MethodGet,
			Path:        "/lists/" + listID + "/investors?sort=aum&direction=DESC",
			Setup: func(repo *mocks.ListRepository) {
				sort := investor.Sort{Column: "aum", Direction: "desc"}
				repo.On("GetByID", mock.Anything, listID).Return(list.List{ID: listID}, nil).Once()
				repo.On("FindInvestors", mock.Anything, listID, investor.BuildQuery(investor.Filter{Page: 1, Sort: sort})).
					Return(investor.QueryResult{Rows: []investor.Summary{}}, nil).Once()
			},
			ExpectStatus: http.StatusOK,
		},
		{
			Description:  "investor pages past the last are rejected",
			Method:       http.MethodGet,
			Path:         "/lists/" + listID + "/investors?page=9223372036854775807",
			ExpectStatus: http.StatusBadRequest,
		},
		{
			Description:  "investor sort columns are validated",
			Method:       http.MethodGet,
			Path:         "/lists/" + listID + "/investors?sort=secret",
			ExpectStatus: http.StatusBadRequest,
		},
		{
			Description: "adding investors dedupes ids",
			Method:      http.MethodPost,
			Path:        "/lists/" + listID + "/investors",
			Body:        `{"investor_ids": [3, 3, 5]}`,
			Setup: func(repo *mocks.ListRepository) {
				repo.On("AddInvestors", mock.Anything, listID, []int64{3, 5}).Return(2, nil).Once()
			},
			ExpectStatus: http.StatusOK,
			ExpectBody:   `{"added":2}`,
		},
		{
			Description:  "adding nothing is rejected",
			Method:       http.MethodPost,
			Path:         "/lists/" + listID + "/investors",
			Body:         `{"investor_ids": []}`,
			ExpectStatus: http.StatusBadRequest,
		},
		{
			Description: "removing investors",
			Method:      http.MethodDelete,
			Path:        "/lists/" + listID + "/investors",
			Body:        `{"investor_ids": [5]}`,
			Setup: func(repo *mocks.ListRepository) {
				repo.On("RemoveInvestors", mock.Anything, listID, []int64{5}).Return(1, nil).Once()
			},
			ExpectStatus: http.StatusOK,
			ExpectBody:   `{"removed":1}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			repo := new(mocks.ListRepository)
			if tc.Setup != nil {
				tc.Setup(repo)
			}
			defer repo.AssertExpectations(t)

			rw := serveList(repo, httptest.NewRequest(tc.Method, tc.Path, strings.NewReader(tc.Body)))

			assert.Equal(t, tc.ExpectStatus, rw.Code)
			if tc.ExpectBody != "" {
				assert.JSONEq(t, tc.ExpectBody, rw.Body.String())
			}
		})
	}
}

func TestListHandlerRequiresUser(t *testing.T) {
	logger := log.NewNoop()
	h := handlers.NewListHandler(logger, list.NewService(logger, new(mocks.ListRepository)))

	rw := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/lists", strings.NewReader(`{"name": "x"}`)).WithContext(context.Background())
	h.Create(rw, req)
	assert.Equal(t, http.StatusBadRequest, rw.Code)
}
