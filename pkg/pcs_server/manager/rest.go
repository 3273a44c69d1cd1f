// Package manager serves the administration of the port community: the office directory
// and the API keys the offices call the public API with.
package manager

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/openpcs/openpcs/pkg/pcs_server/auth"
	"github.com/openpcs/openpcs/pkg/pcs_server/middleware"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/party"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type ManagerAPIConfig struct {
	LocalAddress   string `yaml:"local_address"`
	Admin          string `yaml:"admin"`
	AdminTokenHash string `yaml:"admin_token_hash"` // bcrypt hash of the bearer token of the administrator.
}

type Storage interface {
	storage.OfficeStorage
	auth.APIKeyStorage
}

type ManagerAPI struct {
	directory  party.Directory
	apiKeyMgr  auth.APIKeyAuthenticator
	router     *mux.Router
	httpServer *http.Server
}

func NewManagerAPI(store Storage, cfg ManagerAPIConfig) (*ManagerAPI, error) {
	return NewManagerAPIWithControllers(party.NewDirectory(store), auth.NewAPIKeyAuthenticator(store), cfg)
}

func NewManagerAPIWithControllers(directory party.Directory, apiKeyMgr auth.APIKeyAuthenticator, cfg ManagerAPIConfig) (*ManagerAPI, error) {
	apiServer := &ManagerAPI{
		directory: directory,
		apiKeyMgr: apiKeyMgr,
	}

	r := mux.NewRouter()
	r.Use(middleware.TimeTrace)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	mgrRouter := r.NewRoute().Subrouter()
	mgrRouter.Use(middleware.NewAdminTokenAuth(cfg.Admin, cfg.AdminTokenHash).Authenticate)
	mgrRouter.HandleFunc("/office", apiServer.registerOffice).Methods(http.MethodPost)
	mgrRouter.HandleFunc("/office", apiServer.listOffices).Methods(http.MethodGet)
	mgrRouter.HandleFunc("/office/{id}", apiServer.getOffice).Methods(http.MethodGet)
	mgrRouter.HandleFunc("/office/{id}", apiServer.updateOffice).Methods(http.MethodPost)
	mgrRouter.HandleFunc("/office/{id}/api_key", apiServer.createAPIKey).Methods(http.MethodPost)
	mgrRouter.HandleFunc("/office/{id}/api_key", apiServer.listAPIKey).Methods(http.MethodGet)
	mgrRouter.HandleFunc("/office/{id}/api_key/{key_id}", apiServer.revokeAPIKey).Methods(http.MethodDelete)

	apiServer.router = r
	apiServer.httpServer = &http.Server{
		Addr:         cfg.LocalAddress,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return apiServer, nil
}

func (s *ManagerAPI) Handler() http.Handler {
	return s.router
}

func (s *ManagerAPI) Run() error {
	err := s.httpServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *ManagerAPI) Close(ctx context.Context) error {
	s.httpServer.SetKeepAlivesEnabled(false)
	return s.httpServer.Shutdown(ctx)
}

func admin(r *http.Request) string {
	admin, _ := r.Context().Value(middleware.ADMIN).(string)
	return admin
}

func writeJSON(w http.ResponseWriter, status int, result any, name string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logrus.Warnf("%s failed to encode/write response: %v", name, err)
	}
}

func parsePaging(w http.ResponseWriter, r *http.Request, offset *int, limit *int) bool {
	offsetStr := r.URL.Query().Get("offset")
	limitStr := r.URL.Query().Get("limit")
	if offsetStr != "" {
		v, err := strconv.ParseInt(offsetStr, 10, 32)
		if err != nil || v < 0 {
			http.Error(w, "offset is invalid", http.StatusBadRequest)
			return false
		}
		*offset = int(v)
	}
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

func (s *ManagerAPI) registerOffice(w http.ResponseWriter, r *http.Request) {
	var req party.RegisterOfficeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.Requester = admin(r)

	office, err := s.directory.RegisterOffice(r.Context(), time.Now().Unix(), req)
	if err != nil {
		logrus.Warnf("failed to register office: %v", err)
		http.Error(w, err.Error(), model.ErrorToHttpStatus(err))
		return
	}
	writeJSON(w, http.StatusCreated, office, "registerOffice")
}

func (s *ManagerAPI) updateOffice(w http.ResponseWriter, r *http.Request) {
	var req party.UpdateOfficeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	req.Requester = admin(r)
	req.ID = mux.Vars(r)["id"]

	office, err := s.directory.UpdateOffice(r.Context(), time.Now().Unix(), req)
	if err != nil {
		logrus.Warnf("failed to update office %q: %v", req.ID, err)
		http.Error(w, err.Error(), model.ErrorToHttpStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, office, "updateOffice")
}

func (s *ManagerAPI) getOffice(w http.ResponseWriter, r *http.Request) {
	office, err := s.directory.GetOffice(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, err.Error(), model.ErrorToHttpStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, office, "getOffice")
}

func (s *ManagerAPI) listOffices(w http.ResponseWriter, r *http.Request) {
	req := party.ListOfficesRequest{
		Limit:            10,
		OrganizationCode: r.URL.Query().Get("organization_code"),
	}
	if !parsePaging(w, r, &req.Offset, &req.Limit) {
		return
	}

	result, err := s.directory.ListOffices(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), model.ErrorToHttpStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, result, "listOffices")
}

func (s *ManagerAPI) createAPIKey(w http.ResponseWriter, r *http.Request) {
	officeID := mux.Vars(r)["id"]
	if _, err := s.directory.GetOffice(r.Context(), officeID); err != nil {
		http.Error(w, err.Error(), model.ErrorToHttpStatus(err))
		return
	}

	request := auth.CreateAPIKeyRequest{
		RequestUser: auth.RequestUser{User: admin(r)},
		OfficeID:    officeID,
	}
	_, apiKeyString, err := s.apiKeyMgr.CreateAPIKey(r.Context(), time.Now().Unix(), request)
	if errors.Is(err, model.ErrInvalidParameter) {
		logrus.Warnf("failed to create API key: %v", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	} else if err != nil {
		logrus.Errorf("failed to create API key: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Add("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(apiKeyString))
}

func (s *ManagerAPI) listAPIKey(w http.ResponseWriter, r *http.Request) {
	listRequest := auth.ListAPIKeysRequest{
		Limit:     10,
		OfficeIDs: []string{mux.Vars(r)["id"]},
	}
	if !parsePaging(w, r, &listRequest.Offset, &listRequest.Limit) {
		return
	}

	result, err := s.apiKeyMgr.ListAPIKeys(r.Context(), listRequest)
	if err != nil {
		http.Error(w, err.Error(), model.ErrorToHttpStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, result, "listAPIKey")
}

func (s *ManagerAPI) revokeAPIKey(w http.ResponseWriter, r *http.Request) {
	apiKeyID := mux.Vars(r)["key_id"]
	request := auth.RevokeAPIKeyRequest{
		ID:          apiKeyID,
		OfficeID:    mux.Vars(r)["id"],
		RequestUser: auth.RequestUser{User: admin(r)},
	}

	err := s.apiKeyMgr.RevokeAPIKey(r.Context(), time.Now().Unix(), request)
	if err != nil {
		logrus.Warnf("failed to revoke API key %q: %v", apiKeyID, err)
		http.Error(w, err.Error(), model.ErrorToHttpStatus(err))
		return
	}

	w.WriteHeader(http.StatusOK)
}
