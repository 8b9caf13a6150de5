package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/capitalninja/ninja/core/raise"
	"github.com/capitalninja/ninja/core/user"
	"github.com/gorilla/mux"
	"github.com/goto/salt/log"
)

type RaiseService interface {
	Create(ctx context.Context, r *raise.Raise) (string, error)
	Update(ctx context.Context, r *raise.Raise) error
	UpdateMemo(ctx context.Context, id string, memo string) error
	GetByID(ctx context.Context, id string) (raise.Raise, error)
	GetAll(ctx context.Context) ([]raise.Raise, error)
	Delete(ctx context.Context, id string) error
}

// RaiseHandler exposes a REST interface to fundraising projects
type RaiseHandler struct {
	logger  log.Logger
	service RaiseService
}

func NewRaiseHandler(logger log.Logger, service RaiseService) *RaiseHandler {
	return &RaiseHandler{
		logger:  logger,
		service: service,
	}
}

func (h *RaiseHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	raises, err := h.service.GetAll(r.Context())
	if err != nil {
		internalServerError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": raises})
}

func (h *RaiseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var rs raise.Raise
	if err := decodeJSON(r, &rs); err != nil {
		WriteJSONError(w, http.StatusBadRequest, bodyParserErrorMsg(err))
		return
	}

	id, err := h.service.Create(r.Context(), &rs)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *RaiseHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	rs, err := h.service.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rs)
}

func (h *RaiseHandler) Update(w http.ResponseWriter, r *http.Request) {
	var rs raise.Raise
	if err := decodeJSON(r, &rs); err != nil {
		WriteJSONError(w, http.StatusBadRequest, bodyParserErrorMsg(err))
		return
	}
	rs.ID = mux.Vars(r)["id"]

	if err := h.service.Update(r.Context(), &rs); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": rs.ID})
}

type MemoPayload struct {
	Memo string `json:"memo"`
}

func (h *RaiseHandler) UpdateMemo(w http.ResponseWriter, r *http.Request) {
	var payload MemoPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteJSONError(w, http.StatusBadRequest, bodyParserErrorMsg(err))
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.service.UpdateMemo(r.Context(), id, payload.Memo); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (h *RaiseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RaiseHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUserInformation):
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, new(raise.NotFoundError)):
		WriteJSONError(w, http.StatusNotFound, err.Error())
	case errors.As(err, new(raise.InvalidError)):
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	default:
		internalServerError(w, h.logger, err)
	}
}
