package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/openpcs/openpcs/pkg/pcs_server/container"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
)

func (a *API) getContainer(w http.ResponseWriter, r *http.Request) {
	req := container.GetContainerRequest{
		Requester: officeID(r),
		ID:        mux.Vars(r)["id"],
	}

	result, err := a.movementCtrl.Get(r.Context(), req)
	writeResult(w, r, http.StatusOK, result, err)
}

func (a *API) containerMovement(w http.ResponseWriter, r *http.Request) {
	var move func(context.Context, int64, container.ContainerMovementRequest) (model.Container, error)
	switch movement := mux.Vars(r)["movement"]; movement {
	case "release":
		move = a.movementCtrl.ContainerRelease
	case "return":
		move = a.movementCtrl.ContainerReturn
	case "transport":
		move = a.movementCtrl.ContainerTransport
	default:
		http.Error(w, fmt.Sprintf("unknown container movement %q", movement), http.StatusNotFound)
		return
	}

	var req container.ContainerMovementRequest
	if !decodeBody(w, r, &req.Movement) {
		return
	}
	req.Requester = officeID(r)
	req.ContainerID = mux.Vars(r)["id"]

	result, err := move(r.Context(), time.Now().Unix(), req)
	writeResult(w, r, http.StatusOK, result, err)
}

func (a *API) subcontractTransport(w http.ResponseWriter, r *http.Request) {
	var req container.SubcontractTransportRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Requester = officeID(r)

	result, err := a.movementCtrl.SubcontractTransport(r.Context(), time.Now().Unix(), req)
	writeResult(w, r, http.StatusOK, result, err)
}

func (a *API) movementDetails(w http.ResponseWriter, r *http.Request) {
	var req container.MovementDetailsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Requester = officeID(r)

	result, err := a.movementCtrl.NotifyMovementDetails(r.Context(), time.Now().Unix(), req)
	writeResult(w, r, http.StatusOK, result, err)
}

func (a *API) executeOrder(w http.ResponseWriter, r *http.Request) {
	var req container.ExecuteOrderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Requester = officeID(r)

	result, err := a.movementCtrl.ExecuteOrder(r.Context(), time.Now().Unix(), req)
	writeResult(w, r, http.StatusOK, result, err)
}
