package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/capitalninja/ninja/core/team"
	"github.com/capitalninja/ninja/core/user"
	"github.com/gorilla/mux"
	"github.com/goto/salt/log"
)

type TeamService interface {
	Invite(ctx context.Context, email string, role team.Role) (team.InviteResult, error)
	Accept(ctx context.Context, token, userID string) (team.Member, error)
	Members(ctx context.Context) ([]team.Member, error)
}

// TeamHandler exposes a REST interface to team members and invitations.
// Invitations are recorded only; delivering the accept link is left to
// the caller.
type TeamHandler struct {
	logger  log.Logger
	service TeamService
}

type invitePayload struct {
	Email string    `json:"email"`
	Role  team.Role `json:"role"`
}

func NewTeamHandler(logger log.Logger, service TeamService) *TeamHandler {
	return &TeamHandler{
		logger:  logger,
		service: service,
	}
}

func (h *TeamHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var payload invitePayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteJSONError(w, http.StatusBadRequest, bodyParserErrorMsg(err))
		return
	}

	res, err := h.service.Invite(r.Context(), payload.Email, payload.Role)
	if err != nil {
		h.writeError(w, err)
		return
	}

	status := http.StatusCreated
	if res.AddedMember != nil {
		status = http.StatusOK
	}
	writeJSON(w, status, res)
}

func (h *TeamHandler) Accept(w http.ResponseWriter, r *http.Request) {
	usr := user.FromContext(r.Context())
	if usr.ID == "" {
		WriteJSONError(w, http.StatusBadRequest, errMissingUserInfo.Error())
		return
	}

	m, err := h.service.Accept(r.Context(), mux.Vars(r)["token"], usr.ID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *TeamHandler) Members(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.Members(r.Context())
	if err != nil {
		internalServerError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": members})
}

func (h *TeamHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, team.ErrInvalidToken), errors.As(err, new(team.InvalidError)):
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, new(team.NotFoundError)):
		WriteJSONError(w, http.StatusNotFound, err.Error())
	case errors.As(err, new(team.AlreadyMemberError)):
		WriteJSONError(w, http.StatusConflict, err.Error())
	case errors.As(err, new(team.ExpiredError)):
		WriteJSONError(w, http.StatusGone, err.Error())
	default:
		internalServerError(w, h.logger, err)
	}
}
