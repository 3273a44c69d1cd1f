package api

import (
	"net/http"
	"strconv"

	"github.com/openpcs/openpcs/pkg/pcs_server/event"
)

func (a *API) listEvents(w http.ResponseWriter, r *http.Request) {
	req := event.ListEventsRequest{
		Requester: officeID(r),
		Limit:     50,
	}
	if afterStr := r.URL.Query().Get("after"); afterStr != "" {
		after, err := strconv.ParseInt(afterStr, 10, 64)
		if err != nil || after < 0 {
			http.Error(w, "after is invalid", http.StatusBadRequest)
			return
		}
		req.After = after
	}
	var unused int
	if !parsePaging(w, r, &unused, &req.Limit) {
		return
	}

	result, err := a.feed.List(r.Context(), req)
	writeResult(w, r, http.StatusOK, result, err)
}
