package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/capitalninja/ninja/core/investor"
	"github.com/gorilla/mux"
	"github.com/goto/salt/log"
)

type InvestorService interface {
	BuildAndExecute(ctx context.Context, flt investor.Filter) (investor.QueryResult, error)
	GetInvestor(ctx context.Context, id int64) (investor.Investor, error)
	UpsertInvestor(ctx context.Context, inv *investor.Investor) (int64, error)
	DeleteInvestor(ctx context.Context, id int64) error
	GetTypes(ctx context.Context) (map[string]int, error)
	GetContacts(ctx context.Context, flt investor.ContactFilter) (investor.ContactResult, error)
}

// InvestorHandler exposes a REST interface to limited partners
type InvestorHandler struct {
	logger  log.Logger
	service InvestorService
}

type SearchResponse struct {
	investor.QueryResult
	Page       int `json:"page"`
	TotalPages int `json:"total_pages"`
}

func NewInvestorHandler(logger log.Logger, service InvestorService) *InvestorHandler {
	return &InvestorHandler{
		logger:  logger,
		service: service,
	}
}

// Search runs the investor query described by the query string.
func (h *InvestorHandler) Search(w http.ResponseWriter, r *http.Request) {
	flt, err := investor.ParseValues(r.URL.Query())
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.service.BuildAndExecute(r.Context(), flt)
	if err != nil {
		h.writeQueryError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		QueryResult: res,
		Page:        flt.Normalize().Page,
		TotalPages:  res.TotalPages(),
	})
}

func (h *InvestorHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.investorID(w, r)
	if !ok {
		return
	}

	inv, err := h.service.GetInvestor(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (h *InvestorHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var inv investor.Investor
	if err := decodeJSON(r, &inv); err != nil {
		WriteJSONError(w, http.StatusBadRequest, bodyParserErrorMsg(err))
		return
	}

	id, err := h.service.UpsertInvestor(r.Context(), &inv)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"id": id})
}

func (h *InvestorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.investorID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteInvestor(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *InvestorHandler) Contacts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	flt := investor.ContactFilter{SearchTerm: q.Get("q")}
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "page must be a number")
			return
		}
		flt.Page = page
	}
	if v := q.Get("investor_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "investor_id must be a number")
			return
		}
		flt.InvestorID = id
	}

	res, err := h.service.GetContacts(r.Context(), flt)
	if err != nil {
		h.writeQueryError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *InvestorHandler) investorID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		WriteJSONError(w, http.StatusBadRequest, "investor id must be a positive number")
		return 0, false
	}
	return id, true
}

// writeQueryError reports a failed read with the message meant for people
// and keeps the cause in the logs.
func (h *InvestorHandler) writeQueryError(w http.ResponseWriter, err error) {
	switch {
	case errors.As(err, new(investor.ValidationError)):
		WriteJSONError(w, http.StatusBadRequest, investor.UserMessage(err))
	case investor.IsRateLimited(err):
		h.logger.Warn("investor query rate limited", "err", err)
		WriteJSONError(w, http.StatusTooManyRequests, investor.UserMessage(err))
	default:
		h.logger.Error("investor query failed", "err", err)
		WriteJSONError(w, http.StatusInternalServerError, investor.UserMessage(err))
	}
}

func (h *InvestorHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.As(err, new(investor.NotFoundError)):
		WriteJSONError(w, http.StatusNotFound, err.Error())
	case errors.As(err, new(investor.InvalidError)):
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	default:
		h.writeQueryError(w, err)
	}
}
