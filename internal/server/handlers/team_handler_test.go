package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/capitalninja/ninja/core/team"
	"github.com/capitalninja/ninja/core/user"
	"github.com/capitalninja/ninja/internal/server/handlers"
	"github.com/capitalninja/ninja/lib/mocks"
	"github.com/gorilla/mux"
	"github.com/goto/salt/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func serveTeam(repo *mocks.TeamRepository, now time.Time, req *http.Request) *httptest.ResponseRecorder {
	logger := log.NewNoop()
	svc := team.NewService(logger, repo,
		team.ServiceWithClock(func() time.Time { return now }),
		team.ServiceWithTokenGenerator(func() string { return "tok" }))
	h := handlers.NewTeamHandler(logger, svc)

	router := mux.NewRouter()
	router.Path("/team/invitations").Methods(http.MethodPost).HandlerFunc(h.Invite)
	router.Path("/team/invitations/{token}/accept").Methods(http.MethodPost).HandlerFunc(h.Accept)
	router.Path("/team/members").Methods(http.MethodGet).HandlerFunc(h.Members)

	req = req.WithContext(user.NewContext(req.Context(), user.User{ID: "user-9"}))
	rw := httptest.NewRecorder()
	router.ServeHTTP(rw, req)
	return rw
}

func TestTeamHandler(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	type testCase struct {
		Description  string
		Method       string
		Path         string
		Body         string
		Setup        func(repo *mocks.TeamRepository)
		ExpectStatus int
		ExpectBody   string
	}

	testCases := []testCase{
		{
			Description: "invite records an invitation and returns the accept link",
			Method:      http.MethodPost,
			Path:        "/team/invitations",
			Body:        `{"email": "new@fund.com"}`,
			Setup: func(repo *mocks.TeamRepository) {
				repo.On("GetProfileIDByEmail", mock.Anything, "new@fund.com").Return("", team.NotFoundError{Email: "new@fund.com"}).Once()
				repo.On("GetPendingInvitation", mock.Anything, "new@fund.com").Return(team.Invitation{}, team.NotFoundError{Email: "new@fund.com"}).Once()
				repo.On("CreateInvitation", mock.Anything, mock.Anything).Return("inv-1", nil).Once()
			},
			ExpectStatus: http.StatusCreated,
		},
		{
			Description:  "invite with an invalid email",
			Method:       http.MethodPost,
			Path:         "/team/invitations",
			Body:         `{"email": "not-an-email"}`,
			ExpectStatus: http.StatusBadRequest,
		},
		{
			Description: "accepting an expired invitation",
			Method:      http.MethodPost,
			Path:        "/team/invitations/old/accept",
			Setup: func(repo *mocks.TeamRepository) {
				repo.On("GetInvitationByToken", mock.Anything, "old").Return(team.Invitation{
					ID: "inv-2", Email: "late@fund.com", Status: team.StatusPending, ExpiresAt: now.Add(-time.Minute),
				}, nil).Once()
				repo.On("SetInvitationStatus", mock.Anything, "inv-2", team.StatusExpired).Return(nil).Once()
			},
			ExpectStatus: http.StatusGone,
		},
		{
			Description: "accepting an unknown token",
			Method:      http.MethodPost,
			Path:        "/team/invitations/nope/accept",
			Setup: func(repo *mocks.TeamRepository) {
				repo.On("GetInvitationByToken", mock.Anything, "nope").Return(team.Invitation{}, team.NotFoundError{Token: true}).Once()
			},
			ExpectStatus: http.StatusNotFound,
		},
		{
			Description: "accepting a valid invitation adds the signed in user",
			Method:      http.MethodPost,
			Path:        "/team/invitations/tok/accept",
			Setup: func(repo *mocks.TeamRepository) {
				repo.On("GetInvitationByToken", mock.Anything, "tok").Return(team.Invitation{
					ID: "inv-3", Email: "ok@fund.com", Role: team.RoleViewer, Status: team.StatusPending, ExpiresAt: now.Add(time.Hour),
				}, nil).Once()
				repo.On("AcceptInvitation", mock.Anything, "inv-3", &team.Member{UserID: "user-9", Email: "ok@fund.com", Role: team.RoleViewer}).
					Return("member-3", nil).Once()
			},
			ExpectStatus: http.StatusOK,
			ExpectBody:   `{"id":"member-3","user_id":"user-9","email":"ok@fund.com","role":"viewer","created_at":"0001-01-01T00:00:00Z"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			repo := new(mocks.TeamRepository)
			if tc.Setup != nil {
				tc.Setup(repo)
			}
			defer repo.AssertExpectations(t)

			rw := serveTeam(repo, now, httptest.NewRequest(tc.Method, tc.Path, strings.NewReader(tc.Body)))

			assert.Equal(t, tc.ExpectStatus, rw.Code)
			if tc.ExpectBody != "" {
				assert.JSONEq(t, tc.ExpectBody, rw.Body.String())
			}
		})
	}
}
