package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/openpcs/openpcs/pkg/pcs_server/bill_of_lading"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/util"
	"github.com/sirupsen/logrus"
)

// BillOfLadingView is a bill of lading as seen by the requesting office.
type BillOfLadingView struct {
	BillOfLading model.BillOfLading      `json:"bill_of_lading"`
	Payment      *model.Payment          `json:"payment,omitempty"`
	AllowActions []bill_of_lading.Action `json:"allow_actions"`
}

func (a *API) createBillOfLading(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req bill_of_lading.DeclarationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Requester = officeID(r)
	logrus.Debugf("%s %s is invoked with office: %v, request: %v", r.Method, r.RequestURI, req.Requester, util.StructToJSON(req))

	result, err := a.blMgr.Create(ctx, time.Now().Unix(), req)
	writeResult(w, r, http.StatusCreated, result, err)
}

func (a *API) listBillOfLading(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := bill_of_lading.ListBillOfLadingRequest{
		Requester:  officeID(r),
		Limit:      20,
		PortCallID: r.URL.Query().Get("port_call_id"),
	}
	if !parsePaging(w, r, &req.Offset, &req.Limit) {
		return
	}
	for _, status := range r.URL.Query()["status"] {
		req.Statuses = append(req.Statuses, model.BillOfLadingStatus(status))
	}

	result, err := a.blMgr.List(ctx, req)
	writeResult(w, r, http.StatusOK, result, err)
}

func (a *API) getBillOfLading(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := bill_of_lading.BillOfLadingRequest{
		Requester: officeID(r),
		ID:        mux.Vars(r)["id"],
	}

	bl, err := a.blMgr.Get(ctx, req)
	if err != nil {
		writeResult(w, r, http.StatusOK, nil, err)
		return
	}

	view := BillOfLadingView{BillOfLading: bl}
	if bl.PaymentID != "" {
		payment, err := a.blMgr.GetPayment(ctx, req)
		if err != nil && !errors.Is(err, model.ErrNotFound) && !errors.Is(err, model.ErrUnauthorized) {
			writeResult(w, r, http.StatusOK, nil, err)
			return
		}
		if err == nil {
			view.Payment = &payment
		}
	}
	view.AllowActions = bill_of_lading.GetAllowActions(bl, view.Payment, req.Requester)
	writeResult(w, r, http.StatusOK, view, nil)
}

func (a *API) getPayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := bill_of_lading.BillOfLadingRequest{
		Requester: officeID(r),
		ID:        mux.Vars(r)["id"],
	}

	result, err := a.blMgr.GetPayment(ctx, req)
	writeResult(w, r, http.StatusOK, result, err)
}

// declaration decodes a declaration addressed to the bill of lading in the path.
func declaration(w http.ResponseWriter, r *http.Request) (bill_of_lading.DeclarationRequest, bool) {
	var req bill_of_lading.DeclarationRequest
	if !decodeBody(w, r, &req) {
		return req, false
	}
	req.Requester = officeID(r)

	id := mux.Vars(r)["id"]
	if declared := req.BillOfLading.ID(); declared != id {
		err := fmt.Errorf("declared bill of lading %s does not match %s%w", declared, id, model.ErrInvalidParameter)
		writeResult(w, r, http.StatusOK, nil, err)
		return req, false
	}
	return req, true
}

func (a *API) changeBillOfLading(w http.ResponseWriter, r *http.Request) {
	req, ok := declaration(w, r)
	if !ok {
		return
	}

	result, err := a.blMgr.Change(r.Context(), time.Now().Unix(), req)
	writeResult(w, r, http.StatusOK, result, err)
}

func (a *API) removeBillOfLading(w http.ResponseWriter, r *http.Request) {
	req := bill_of_lading.BillOfLadingRequest{
		Requester: officeID(r),
		ID:        mux.Vars(r)["id"],
	}

	result, err := a.blMgr.Remove(r.Context(), time.Now().Unix(), req)
	writeResult(w, r, http.StatusOK, result, err)
}

func (a *API) goodsItems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := declaration(w, r)
	if !ok {
		return
	}

	ts := time.Now().Unix()
	switch mux.Vars(r)["action"] {
	case "add":
		result, err := a.blMgr.AddGoodsItems(ctx, ts, req)
		status := http.StatusOK
		if result.New {
			status = http.StatusCreated
		}
		writeResult(w, r, status, result, err)
	case "change":
		result, err := a.blMgr.ChangeGoodsItems(ctx, ts, req)
		writeResult(w, r, http.StatusOK, result, err)
	case "remove":
		result, err := a.blMgr.RemoveGoodsItems(ctx, ts, req)
		writeResult(w, r, http.StatusOK, result, err)
	}
}

func (a *API) summaryDeclaration(w http.ResponseWriter, r *http.Request) {
	var req bill_of_lading.SummaryDeclarationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Requester = officeID(r)
	logrus.Debugf("%s %s is invoked with office: %v, action: %v, %d bills of lading", r.Method, r.RequestURI, req.Requester, req.Action, len(req.BillsOfLading))

	result, err := a.blMgr.SummaryDeclaration(r.Context(), time.Now().Unix(), req)
	writeResult(w, r, http.StatusOK, result, err)
}

func (a *API) arrivalNotification(w http.ResponseWriter, r *http.Request) {
	var req bill_of_lading.ArrivalNotificationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Requester = officeID(r)
	req.ID = mux.Vars(r)["id"]

	result, err := a.blMgr.ArrivalNotification(r.Context(), time.Now().Unix(), req)
	writeResult(w, r, http.StatusOK, result, err)
}

func (a *API) transfer(w http.ResponseWriter, r *http.Request) {
	var req bill_of_lading.TransferRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Requester = officeID(r)
	req.ID = mux.Vars(r)["id"]

	result, err := a.blMgr.Transfer(r.Context(), time.Now().Unix(), req)
	writeResult(w, r, http.StatusOK, result, err)
}

func (a *API) release(w http.ResponseWriter, r *http.Request) {
	var req bill_of_lading.ReleaseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Requester = officeID(r)
	req.ID = mux.Vars(r)["id"]

	result, err := a.blMgr.Release(r.Context(), time.Now().Unix(), req)
	writeResult(w, r, http.StatusOK, result, err)
}

func (a *API) notifyPayment(w http.ResponseWriter, r *http.Request) {
	var req bill_of_lading.NotifyPaymentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Requester = officeID(r)
	req.ID = mux.Vars(r)["id"]

	result, err := a.blMgr.NotifyPayment(r.Context(), time.Now().Unix(), req)
	writeResult(w, r, http.StatusOK, result, err)
}

func (a *API) requestDelivery(w http.ResponseWriter, r *http.Request) {
	var req bill_of_lading.RequestDeliveryRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.Requester = officeID(r)
	req.ID = mux.Vars(r)["id"]

	result, err := a.blMgr.RequestDelivery(r.Context(), time.Now().Unix(), req)
	writeResult(w, r, http.StatusOK, result, err)
}
