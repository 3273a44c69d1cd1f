package middleware_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/openpcs/openpcs/pkg/pcs_server/auth"
	"github.com/openpcs/openpcs/pkg/pcs_server/middleware"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	mock_auth "github.com/openpcs/openpcs/test/mock/pcs_server/auth"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type APIKeyAuthTestSuite struct {
	suite.Suite
	ctx           context.Context
	ctrl          *gomock.Controller
	authenticator *mock_auth.MockAPIKeyAuthenticator
	auth          *middleware.APIKeyAuth
}

func TestAPIKeyAuthTestSuite(t *testing.T) {
	suite.Run(t, new(APIKeyAuthTestSuite))
}

var OkHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
})

func (s *APIKeyAuthTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.authenticator = mock_auth.NewMockAPIKeyAuthenticator(s.ctrl)
	s.auth = middleware.NewAPIKeyAuth(s.authenticator)
}

func (s *APIKeyAuthTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *APIKeyAuthTestSuite) TestAuthenticate() {
	officeID := "office-agent"
	apiKeyString := auth.APIKeyString("fake-api-key")
	request := httptest.NewRequest("GET", "/test", nil).WithContext(s.ctx)
	request.Header.Add("Authorization", fmt.Sprintf("Bearer %s", apiKeyString))
	response := httptest.NewRecorder()

	s.authenticator.EXPECT().Authenticate(gomock.Any(), gomock.Eq(apiKeyString)).Return(auth.APIKey{OfficeID: officeID}, nil)

	var receivedOfficeID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		receivedOfficeID = r.Context().Value(middleware.OFFICE_ID).(string)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	s.auth.Authenticate(handler).ServeHTTP(response, request)
	s.Equal(http.StatusOK, response.Code)
	s.Equal(officeID, receivedOfficeID)
}

func (s *APIKeyAuthTestSuite) TestAuthenticateWithoutProvidingAPIKey() {
	request := httptest.NewRequest("GET", "/test", nil)
	response := httptest.NewRecorder()

	s.auth.Authenticate(OkHandler).ServeHTTP(response, request)
	s.Equal(http.StatusUnauthorized, response.Code)
	s.Equal("missing API key", response.Body.String())
}

func (s *APIKeyAuthTestSuite) TestAuthenticateWithoutPassingAPIKeyAuthentication() {
	apiKeyString := auth.APIKeyString("fake-api-key")
	request := httptest.NewRequest("GET", "/test", nil).WithContext(s.ctx)
	request.Header.Add("Authorization", fmt.Sprintf("Bearer %s", apiKeyString))
	response := httptest.NewRecorder()

	s.authenticator.EXPECT().Authenticate(gomock.Any(), gomock.Eq(apiKeyString)).Return(auth.APIKey{}, model.ErrRevokedAPIKey)

	s.auth.Authenticate(OkHandler).ServeHTTP(response, request)
	s.Equal(http.StatusUnauthorized, response.Code)
	s.Equal(model.ErrRevokedAPIKey.Error(), response.Body.String())
}

func (s *APIKeyAuthTestSuite) TestAuthenticateWithStorageError() {
	apiKeyString := auth.APIKeyString("fake-api-key")
	request := httptest.NewRequest("GET", "/test", nil).WithContext(s.ctx)
	request.Header.Add("Authorization", fmt.Sprintf("Bearer %s", apiKeyString))
	response := httptest.NewRecorder()

	s.authenticator.EXPECT().Authenticate(gomock.Any(), gomock.Eq(apiKeyString)).Return(auth.APIKey{}, errors.New("connection refused"))

	s.auth.Authenticate(OkHandler).ServeHTTP(response, request)
	s.Equal(http.StatusInternalServerError, response.Code)
	s.Equal("Internal server error: connection refused", response.Body.String())
}

func TestAdminTokenAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-token"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	adminAuth := middleware.NewAdminTokenAuth("root", string(hash))

	var admin string
	handler := adminAuth.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		admin, _ = r.Context().Value(middleware.ADMIN).(string)
		w.WriteHeader(http.StatusOK)
	}))

	for _, tc := range []struct {
		header string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"Bearer wrong-token", http.StatusUnauthorized},
		{"Bearer admin-token", http.StatusOK},
	} {
		request := httptest.NewRequest("GET", "/office", nil)
		if tc.header != "" {
			request.Header.Set("Authorization", tc.header)
		}
		response := httptest.NewRecorder()
		handler.ServeHTTP(response, request)
		if response.Code != tc.status {
			t.Fatalf("%q: expected %d, got %d", tc.header, tc.status, response.Code)
		}
	}
	if admin != "root" {
		t.Fatalf("expected admin root, got %q", admin)
	}
}
