// Package api serves the cargo operations to the offices of the port community.
// Every request is signed with the API key of one office, which acts in the request.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/openpcs/openpcs/pkg/pcs_server/auth"
	"github.com/openpcs/openpcs/pkg/pcs_server/bill_of_lading"
	"github.com/openpcs/openpcs/pkg/pcs_server/container"
	"github.com/openpcs/openpcs/pkg/pcs_server/event"
	"github.com/openpcs/openpcs/pkg/pcs_server/middleware"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/party"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	"github.com/openpcs/openpcs/pkg/pcs_server/stream"
	"github.com/openpcs/openpcs/pkg/pcs_server/webhook"
	"github.com/sirupsen/logrus"
)

type APIConfig struct {
	LocalAddress string `yaml:"local_address"`
}

// Storage is everything the public API keeps. Both the postgres and the memory storage implement it.
type Storage interface {
	storage.CargoStorage
	storage.OfficeStorage
	storage.EventStorage
	storage.EventFeedStorage
	storage.WebhookStorage
	auth.APIKeyStorage
}

type API struct {
	apiKeyMgr    auth.APIKeyAuthenticator
	blMgr        bill_of_lading.BillOfLadingManager
	movementCtrl container.MovementController
	webhookCtrl  webhook.WebhookController
	feed         event.Feed
	feedServer   *stream.Server

	router     *mux.Router
	httpServer *http.Server
}

func NewAPIWithStorage(store Storage, cfg APIConfig) (*API, error) {
	resolver := party.NewResolver(store)
	publisher := event.NewPublisher(store)
	registry := container.NewRegistry(store, resolver, publisher)

	apiKeyMgr := auth.NewAPIKeyAuthenticator(store)
	blMgr := bill_of_lading.NewBillOfLadingManager(store, resolver, publisher, registry)
	movementCtrl := container.NewMovementController(store, resolver, publisher)
	webhookCtrl := webhook.NewWebhookController(store)
	feed := event.NewFeed(store)
	return NewAPIWithController(apiKeyMgr, blMgr, movementCtrl, webhookCtrl, feed, cfg.LocalAddress)
}

func NewAPIWithController(
	apiKeyMgr auth.APIKeyAuthenticator,
	blMgr bill_of_lading.BillOfLadingManager,
	movementCtrl container.MovementController,
	webhookCtrl webhook.WebhookController,
	feed event.Feed,
	localAddress string,
) (*API, error) {
	apiServer := &API{
		apiKeyMgr:    apiKeyMgr,
		blMgr:        blMgr,
		movementCtrl: movementCtrl,
		webhookCtrl:  webhookCtrl,
		feed:         feed,
		feedServer:   stream.NewServer(feed),
	}

	r := mux.NewRouter()
	r.Use(middleware.TimeTrace)
	r.HandleFunc("/health", apiServer.health).Methods(http.MethodGet)

	officeRouter := r.NewRoute().Subrouter()
	officeRouter.Use(middleware.NewAPIKeyAuth(apiServer.apiKeyMgr).Authenticate)
	officeRouter.HandleFunc("/bill_of_lading", apiServer.createBillOfLading).Methods(http.MethodPost)
	officeRouter.HandleFunc("/bill_of_lading", apiServer.listBillOfLading).Methods(http.MethodGet)
	officeRouter.HandleFunc("/bill_of_lading/{id}", apiServer.getBillOfLading).Methods(http.MethodGet)
	officeRouter.HandleFunc("/bill_of_lading/{id}", apiServer.removeBillOfLading).Methods(http.MethodDelete)
	officeRouter.HandleFunc("/bill_of_lading/{id}/change", apiServer.changeBillOfLading).Methods(http.MethodPost)
	officeRouter.HandleFunc("/bill_of_lading/{id}/goods_items/{action:add|change|remove}", apiServer.goodsItems).Methods(http.MethodPost)
	officeRouter.HandleFunc("/bill_of_lading/{id}/arrival_notice", apiServer.arrivalNotification).Methods(http.MethodPost)
	officeRouter.HandleFunc("/bill_of_lading/{id}/transfer", apiServer.transfer).Methods(http.MethodPost)
	officeRouter.HandleFunc("/bill_of_lading/{id}/release", apiServer.release).Methods(http.MethodPost)
	officeRouter.HandleFunc("/bill_of_lading/{id}/payment", apiServer.getPayment).Methods(http.MethodGet)
	officeRouter.HandleFunc("/bill_of_lading/{id}/payment", apiServer.notifyPayment).Methods(http.MethodPost)
	officeRouter.HandleFunc("/bill_of_lading/{id}/delivery_request", apiServer.requestDelivery).Methods(http.MethodPost)
	officeRouter.HandleFunc("/summary_declaration", apiServer.summaryDeclaration).Methods(http.MethodPost)
	officeRouter.HandleFunc("/container/{id}", apiServer.getContainer).Methods(http.MethodGet)
	officeRouter.HandleFunc("/container/{id}/{movement}", apiServer.containerMovement).Methods(http.MethodPost)
	officeRouter.HandleFunc("/movement/subcontract", apiServer.subcontractTransport).Methods(http.MethodPost)
	officeRouter.HandleFunc("/movement/details", apiServer.movementDetails).Methods(http.MethodPost)
	officeRouter.HandleFunc("/movement/execution", apiServer.executeOrder).Methods(http.MethodPost)
	officeRouter.HandleFunc("/webhook", apiServer.createWebhook).Methods(http.MethodPost)
	officeRouter.HandleFunc("/webhook", apiServer.listWebhook).Methods(http.MethodGet)
	officeRouter.HandleFunc("/event", apiServer.listEvents).Methods(http.MethodGet)
	officeRouter.Handle("/event/stream", apiServer.feedServer).Methods(http.MethodGet)

	apiServer.router = r
	apiServer.httpServer = &http.Server{
		Addr:    localAddress,
		Handler: r,
	}
	return apiServer, nil
}

func (a *API) Handler() http.Handler {
	return a.router
}

func (a *API) Run() error {
	err := a.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *API) Close(ctx context.Context) error {
	_ = a.feedServer.Close()
	a.httpServer.SetKeepAlivesEnabled(false)
	return a.httpServer.Shutdown(ctx)
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func officeID(r *http.Request) string {
	officeID, _ := r.Context().Value(middleware.OFFICE_ID).(string)
	return officeID
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		logrus.Debugf("%s %s returns status code %d with error: %v", r.Method, r.RequestURI, http.StatusBadRequest, err.Error())
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func parsePaging(w http.ResponseWriter, r *http.Request, offset *int, limit *int) bool {
	offsetStr := r.URL.Query().Get("offset")
	if offsetStr != "" {
		v, err := strconv.ParseInt(offsetStr, 10, 32)
		if err != nil || v < 0 {
			http.Error(w, "offset is invalid", http.StatusBadRequest)
			return false
		}
		*offset = int(v)
	}
	limitStr := r.URL.Query().Get("limit")
	if limitStr != "" {
		v, err := strconv.ParseInt(limitStr, 10, 32)
		if err != nil || v < 1 {
			http.Error(w, "limit is invalid", http.StatusBadRequest)
			return false
		}
		*limit = int(v)
	}
	return true
}

// writeResult writes the error with the status of its kind, or the result as JSON.
func writeResult(w http.ResponseWriter, r *http.Request, status int, result any, err error) {
	if err != nil {
		errCode := model.ErrorToHttpStatus(err)
		if errCode/100 == 5 {
			logrus.Errorf("%s %s returns status code %d with error: %v", r.Method, r.RequestURI, errCode, err.Error())
		} else {
			logrus.Debugf("%s %s returns status code %d with error: %v", r.Method, r.RequestURI, errCode, err.Error())
		}
		http.Error(w, err.Error(), errCode)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logrus.Warnf("%s %s failed to encode/write response: %v", r.Method, r.RequestURI, err)
	}
}
