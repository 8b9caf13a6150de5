package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/capitalninja/ninja/core/investor"
	"github.com/capitalninja/ninja/core/list"
	"github.com/capitalninja/ninja/core/user"
	"github.com/gorilla/mux"
	"github.com/goto/salt/log"
)

type ListService interface {
	Create(ctx context.Context, l *list.List) (string, error)
	GetByID(ctx context.Context, id string) (list.List, error)
	GetAll(ctx context.Context) ([]list.List, error)
	Update(ctx context.Context, l *list.List) error
	Delete(ctx context.Context, id string) error
	AddInvestors(ctx context.Context, listID string, investorIDs []int64) (int, error)
	RemoveInvestors(ctx context.Context, listID string, investorIDs []int64) (int, error)
	GetInvestors(ctx context.Context, listID string, page int, sort investor.Sort) (investor.QueryResult, error)
}

// ListHandler exposes a REST interface to saved investor lists
type ListHandler struct {
	logger  log.Logger
	service ListService
}

type listPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type listInvestorsPayload struct {
	InvestorIDs []int64 `json:"investor_ids"`
}

func NewListHandler(logger log.Logger, service ListService) *ListHandler {
	return &ListHandler{
		logger:  logger,
		service: service,
	}
}

func (h *ListHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	lists, err := h.service.GetAll(r.Context())
	if err != nil {
		internalServerError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": lists})
}

func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload listPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteJSONError(w, http.StatusBadRequest, bodyParserErrorMsg(err))
		return
	}

	id, err := h.service.Create(r.Context(), &list.List{Name: payload.Name, Description: payload.Description})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *ListHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	l, err := h.service.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *ListHandler) Update(w http.ResponseWriter, r *http.Request) {
	var payload listPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteJSONError(w, http.StatusBadRequest, bodyParserErrorMsg(err))
		return
	}

	l := &list.List{ID: mux.Vars(r)["id"], Name: payload.Name, Description: payload.Description}
	if err := h.service.Update(r.Context(), l); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": l.ID})
}

func (h *ListHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetInvestors pages through the list's investors. Only page, sort and
// direction are read from the query string.
func (h *ListHandler) GetInvestors(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := 1
	if v := q.Get("page"); v != "" {
		var err error
		if page, err = strconv.Atoi(v); err != nil {
			WriteJSONError(w, http.StatusBadRequest, "page must be a number")
			return
		}
	}
	sort := investor.Sort{Column: q.Get("sort"), Direction: q.Get("direction")}

	res, err := h.service.GetInvestors(r.Context(), mux.Vars(r)["id"], page, sort)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{QueryResult: res, Page: page, TotalPages: res.TotalPages()})
}

func (h *ListHandler) AddInvestors(w http.ResponseWriter, r *http.Request) {
	h.changeInvestors(w, r, "added", h.service.AddInvestors)
}

func (h *ListHandler) RemoveInvestors(w http.ResponseWriter, r *http.Request) {
	h.changeInvestors(w, r, "removed", h.service.RemoveInvestors)
}

func (h *ListHandler) changeInvestors(w http.ResponseWriter, r *http.Request, key string,
	change func(ctx context.Context, listID string, investorIDs []int64) (int, error)) {
	var payload listInvestorsPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteJSONError(w, http.StatusBadRequest, bodyParserErrorMsg(err))
		return
	}

	n, err := change(r.Context(), mux.Vars(r)["id"], payload.InvestorIDs)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{key: n})
}

func (h *ListHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUserInformation):
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, new(list.NotFoundError)):
		WriteJSONError(w, http.StatusNotFound, err.Error())
	case errors.As(err, new(list.DuplicateNameError)):
		WriteJSONError(w, http.StatusConflict, err.Error())
	case errors.As(err, new(list.InvalidError)), errors.As(err, new(investor.ValidationError)):
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	case investor.IsRateLimited(err):
		WriteJSONError(w, http.StatusTooManyRequests, investor.UserMessage(err))
	case errors.As(err, new(investor.QueryError)):
		h.logger.Error("list investors query failed", "err", err)
		WriteJSONError(w, http.StatusInternalServerError, investor.UserMessage(err))
	default:
		internalServerError(w, h.logger, err)
	}
}
