package api

import (
	"net/http"
	"time"

	"github.com/openpcs/openpcs/pkg/pcs_server/webhook"
)

func (a *API) createWebhook(w http.ResponseWriter, r *http.Request) {
	var req webhook.CreateWebhookRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Requester = officeID(r)

	result, err := a.webhookCtrl.Create(r.Context(), time.Now().Unix(), req)
	writeResult(w, r, http.StatusCreated, result, err)
}

func (a *API) listWebhook(w http.ResponseWriter, r *http.Request) {
	req := webhook.ListWebhookRequest{
		Requester: officeID(r),
		Limit:     20,
	}
	if !parsePaging(w, r, &req.Offset, &req.Limit) {
		return
	}

	result, err := a.webhookCtrl.List(r.Context(), req)
	writeResult(w, r, http.StatusOK, result, err)
}
