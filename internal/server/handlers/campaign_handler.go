package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/capitalninja/ninja/core/campaign"
	"github.com/capitalninja/ninja/core/user"
	"github.com/gorilla/mux"
	"github.com/goto/salt/log"
)

type CampaignService interface {
	Create(ctx context.Context, c *campaign.Campaign) (string, error)
	GetByID(ctx context.Context, id string) (campaign.Campaign, error)
	GetAll(ctx context.Context, flt campaign.Filter) (campaign.Page, error)
	Delete(ctx context.Context, id string) error
}

// CampaignHandler exposes a REST interface to campaign records
type CampaignHandler struct {
	logger  log.Logger
	service CampaignService
}

type campaignPayload struct {
	Subject string  `json:"subject"`
	ListID  string  `json:"list_id"`
	RaiseID *string `json:"raise_id"`
}

func NewCampaignHandler(logger log.Logger, service CampaignService) *CampaignHandler {
	return &CampaignHandler{
		logger:  logger,
		service: service,
	}
}

func (h *CampaignHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	flt := campaign.Filter{Status: campaign.Status(q.Get("status"))}
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "page must be a number")
			return
		}
		flt.Page = page
	}

	page, err := h.service.GetAll(r.Context(), flt)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload campaignPayload
	if err := decodeJSON(r, &payload); err != nil {
		WriteJSONError(w, http.StatusBadRequest, bodyParserErrorMsg(err))
		return
	}

	id, err := h.service.Create(r.Context(), &campaign.Campaign{
		Subject: payload.Subject,
		ListID:  payload.ListID,
		RaiseID: payload.RaiseID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (h *CampaignHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CampaignHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CampaignHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, user.ErrNoUserInformation):
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, new(campaign.NotFoundError)):
		WriteJSONError(w, http.StatusNotFound, err.Error())
	case errors.As(err, new(campaign.InvalidError)):
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	default:
		internalServerError(w, h.logger, err)
	}
}
