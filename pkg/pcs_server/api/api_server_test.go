package api_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/openpcs/openpcs/pkg/pcs_server/api"
	"github.com/openpcs/openpcs/pkg/pcs_server/auth"
	"github.com/openpcs/openpcs/pkg/pcs_server/bill_of_lading"
	"github.com/openpcs/openpcs/pkg/pcs_server/container"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage/memory"
	"github.com/openpcs/openpcs/pkg/pcs_server/stream"
	"github.com/openpcs/openpcs/pkg/pcs_server/webhook"
	"github.com/stretchr/testify/suite"
)

type APITestSuite struct {
	suite.Suite

	ctx    context.Context
	server *httptest.Server
	keys   map[string]auth.APIKeyString
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}

func (s *APITestSuite) SetupTest() {
	s.ctx = context.Background()
	store := memory.NewStorage()

	tx, ctx, err := store.CreateTx(s.ctx, storage.TxOptionWithWrite(true))
	s.Require().NoError(err)
	for _, o := range []model.Office{
		{ID: "office-pcs", Organization: model.Organization{Code: "PCS"}, Types: []model.OfficeType{model.OfficeTypePCS}},
		{ID: "office-carrier", Organization: model.Organization{Code: "CARR"}, Types: []model.OfficeType{model.OfficeTypeCarrier}},
		{ID: "office-agent", Organization: model.Organization{Code: "AGENT"}, Types: []model.OfficeType{model.OfficeTypeShippingAgent}, AgentOf: []string{"CARR"}},
		{ID: "office-holder", Organization: model.Organization{Code: "HOLDER"}, Types: []model.OfficeType{model.OfficeTypeConsignee}},
		{ID: "office-other", Organization: model.Organization{Code: "OTHER"}, Types: []model.OfficeType{model.OfficeTypeHaulier}},
	} {
		s.Require().NoError(store.StoreOffice(ctx, tx, o))
	}
	s.Require().NoError(tx.Commit(ctx))

	apiKeyMgr := auth.NewAPIKeyAuthenticator(store)
	s.keys = make(map[string]auth.APIKeyString)
	for _, officeID := range []string{"office-pcs", "office-agent", "office-holder", "office-other"} {
		_, key, err := apiKeyMgr.CreateAPIKey(s.ctx, 1717977600, auth.CreateAPIKeyRequest{
			RequestUser: auth.RequestUser{User: "admin"},
			OfficeID:    officeID,
		})
		s.Require().NoError(err)
		s.keys[officeID] = key
	}

	apiServer, err := api.NewAPIWithStorage(store, api.APIConfig{LocalAddress: "localhost:0"})
	s.Require().NoError(err)
	s.server = httptest.NewServer(apiServer.Handler())
}

func (s *APITestSuite) TearDownTest() {
	s.server.Close()
}

func (s *APITestSuite) do(officeID, method, path string, body any) (int, []byte) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(s.ctx, method, s.server.URL+path, reader)
	s.Require().NoError(err)
	if officeID != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.keys[officeID]))
	}
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp.StatusCode, raw
}

func (s *APITestSuite) declaration(blNumber string) bill_of_lading.DeclarationRequest {
	return bill_of_lading.DeclarationRequest{
		PortCallID:    "ESVLC-2024-001",
		ShippingAgent: model.Party{Organization: model.Organization{Code: "AGENT"}},
		BillOfLading: bill_of_lading.Declaration{
			BLNumber:   blNumber,
			Carrier:    model.Party{Organization: model.Organization{Code: "CARR"}},
			GoodsItems: []model.GoodsItem{{GoodsItemNumber: "1"}},
			Containers: []container.Declaration{
				{ContainerNumber: "CN1", GoodsItems: []model.GoodsItem{{GoodsItemNumber: "1"}}},
			},
		},
	}
}

func (s *APITestSuite) TestHealth() {
	status, body := s.do("", http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, status)
	s.JSONEq(`{"status":"ok"}`, string(body))
}

func (s *APITestSuite) TestMissingAPIKey() {
	status, body := s.do("", http.MethodGet, "/bill_of_lading", nil)
	s.Equal(http.StatusUnauthorized, status)
	s.Equal("missing API key", string(body))
}

func (s *APITestSuite) TestBillOfLadingLifeCycle() {
	status, body := s.do("office-agent", http.MethodPost, "/bill_of_lading", s.declaration("BL1"))
	s.Require().Equal(http.StatusCreated, status, string(body))
	var bl model.BillOfLading
	s.Require().NoError(json.Unmarshal(body, &bl))
	s.Equal("BL1@CARR", bl.ID)

	status, _ = s.do("office-agent", http.MethodPost, "/bill_of_lading", s.declaration("BL1"))
	s.Equal(http.StatusConflict, status)

	status, _ = s.do("office-other", http.MethodGet, "/bill_of_lading/BL1@CARR", nil)
	s.Equal(http.StatusForbidden, status)

	status, _ = s.do("office-agent", http.MethodGet, "/bill_of_lading/BL9@CARR", nil)
	s.Equal(http.StatusNotFound, status)

	status, body = s.do("office-agent", http.MethodPost, "/bill_of_lading/BL1@CARR/arrival_notice", bill_of_lading.ArrivalNotificationRequest{
		Notice: bill_of_lading.ArrivalNotice{
			BLType:    model.BLTypeSeawaybill,
			Consignee: &model.Party{Organization: model.Organization{Code: "HOLDER"}},
		},
		Charges: &bill_of_lading.FreightCharges{PaymentMethod: model.PaymentMethodCredit},
	})
	s.Require().Equal(http.StatusOK, status, string(body))

	status, body = s.do("office-holder", http.MethodGet, "/bill_of_lading/BL1@CARR", nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	var view api.BillOfLadingView
	s.Require().NoError(json.Unmarshal(body, &view))
	s.Equal(model.BillOfLadingStatusReleased, view.BillOfLading.Status)
	s.Require().NotNil(view.Payment)
	s.Equal(model.PaymentMethodCredit, view.Payment.PaymentMethod)
	s.ElementsMatch([]bill_of_lading.Action{bill_of_lading.ActionTransfer, bill_of_lading.ActionRequestDelivery}, view.AllowActions)

	status, body = s.do("office-holder", http.MethodGet, "/bill_of_lading?status=RELEASED", nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	var list bill_of_lading.ListBillOfLadingResult
	s.Require().NoError(json.Unmarshal(body, &list))
	s.Equal(1, list.Total)

	status, body = s.do("office-pcs", http.MethodGet, "/container/CN1@BL1@CARR", nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	var cn model.Container
	s.Require().NoError(json.Unmarshal(body, &cn))
	s.Equal("CN1", cn.ContainerNumber)

	status, _ = s.do("office-agent", http.MethodDelete, "/bill_of_lading/BL1@CARR", nil)
	s.Equal(http.StatusConflict, status)
}

func (s *APITestSuite) TestDeclarationForAnotherBillOfLading() {
	status, _ := s.do("office-agent", http.MethodPost, "/bill_of_lading/BL2@CARR/change", s.declaration("BL1"))
	s.Equal(http.StatusBadRequest, status)

	status, _ = s.do("office-agent", http.MethodPost, "/bill_of_lading/BL1@CARR/goods_items/merge", s.declaration("BL1"))
	s.Equal(http.StatusNotFound, status)
}

func (s *APITestSuite) TestUnknownContainerMovement() {
	status, body := s.do("office-agent", http.MethodPost, "/bill_of_lading", s.declaration("BL1"))
	s.Require().Equal(http.StatusCreated, status, string(body))

	status, body = s.do("office-agent", http.MethodPost, "/container/CN1@BL1@CARR/teleport", container.MovementInput{})
	s.Equal(http.StatusNotFound, status)
	s.Contains(string(body), "teleport")

	status, body = s.do("office-pcs", http.MethodGet, "/container/CN1@BL1@CARR", nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	var cn model.Container
	s.Require().NoError(json.Unmarshal(body, &cn))
	s.Empty(cn.Movements)
}

func (s *APITestSuite) TestAddGoodsItemsCreatesBillOfLading() {
	status, body := s.do("office-agent", http.MethodPost, "/bill_of_lading/BL3@CARR/goods_items/add", s.declaration("BL3"))
	s.Require().Equal(http.StatusCreated, status, string(body))
	var result bill_of_lading.GoodsItemsResult
	s.Require().NoError(json.Unmarshal(body, &result))
	s.True(result.New)
}

func (s *APITestSuite) TestInvalidPaging() {
	status, body := s.do("office-agent", http.MethodGet, "/bill_of_lading?limit=0", nil)
	s.Equal(http.StatusBadRequest, status)
	s.Contains(string(body), "limit is invalid")
}

func (s *APITestSuite) TestWebhook() {
	status, body := s.do("office-holder", http.MethodPost, "/webhook", webhook.CreateWebhookRequest{
		Events: []model.EventType{model.EventBLReleased},
		Url:    "https://holder.example/notify",
		Secret: "secret_key",
	})
	s.Require().Equal(http.StatusCreated, status, string(body))
	var created model.Webhook
	s.Require().NoError(json.Unmarshal(body, &created))
	s.Equal("office-holder", created.OfficeID)
	s.Empty(created.Secret)

	status, body = s.do("office-agent", http.MethodGet, "/webhook", nil)
	s.Require().Equal(http.StatusOK, status)
	var listed storage.ListWebhookResult
	s.Require().NoError(json.Unmarshal(body, &listed))
	s.Equal(0, listed.Total)

	status, body = s.do("office-holder", http.MethodGet, "/webhook", nil)
	s.Require().Equal(http.StatusOK, status)
	s.Require().NoError(json.Unmarshal(body, &listed))
	s.Equal(1, listed.Total)
}

func (s *APITestSuite) TestEventFeed() {
	status, body := s.do("office-agent", http.MethodPost, "/bill_of_lading", s.declaration("BL1"))
	s.Require().Equal(http.StatusCreated, status, string(body))

	status, body = s.do("office-agent", http.MethodGet, "/event", nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	var feed storage.ListEventResult
	s.Require().NoError(json.Unmarshal(body, &feed))
	s.Require().Len(feed.Events, 2)
	s.Equal(model.EventContainerDeclarationCreated, feed.Events[0].Type)
	s.Equal("CN1@BL1@CARR", feed.Events[0].ContainerID)
	s.Equal(model.EventBLDeclarationCreated, feed.Events[1].Type)
	for i, event := range feed.Events {
		s.Contains(event.Offices, "office-agent")
		if i > 0 {
			s.Greater(event.Offset, feed.Events[i-1].Offset)
		}
	}
	s.Equal(feed.Events[len(feed.Events)-1].Offset, feed.MaxOffset)

	status, body = s.do("office-agent", http.MethodGet, fmt.Sprintf("/event?after=%d", feed.MaxOffset), nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	var next storage.ListEventResult
	s.Require().NoError(json.Unmarshal(body, &next))
	s.Empty(next.Events)
	s.Equal(feed.MaxOffset, next.MaxOffset)

	status, body = s.do("office-other", http.MethodGet, "/event", nil)
	s.Require().Equal(http.StatusOK, status, string(body))
	var other storage.ListEventResult
	s.Require().NoError(json.Unmarshal(body, &other))
	s.Empty(other.Events)

	status, body = s.do("office-agent", http.MethodGet, "/event?after=-1", nil)
	s.Equal(http.StatusBadRequest, status)
	s.Contains(string(body), "after is invalid")

	status, _ = s.do("office-agent", http.MethodGet, "/event?limit=101", nil)
	s.Equal(http.StatusBadRequest, status)
}

func (s *APITestSuite) TestEventStream() {
	status, body := s.do("office-agent", http.MethodPost, "/bill_of_lading", s.declaration("BL1"))
	s.Require().Equal(http.StatusCreated, status, string(body))

	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
	defer cancel()

	errStop := errors.New("stop")
	var received []model.Event
	client := stream.NewClient(
		stream.WithServerURL("ws"+strings.TrimPrefix(s.server.URL, "http")+"/event/stream"),
		stream.WithAPIKey(string(s.keys["office-agent"])),
	)
	err := client.Subscribe(ctx, 0, func(ctx context.Context, event model.Event) error {
		received = append(received, event)
		return errStop
	})
	s.Require().ErrorIs(err, errStop)
	s.Require().Len(received, 1)
	s.Equal(model.EventContainerDeclarationCreated, received[0].Type)
	s.Equal("BL1@CARR", received[0].BLID)
	s.Positive(received[0].Offset)
}

func (s *APITestSuite) TestEventStreamWithoutAPIKey() {
	client := stream.NewClient(stream.WithServerURL("ws" + strings.TrimPrefix(s.server.URL, "http") + "/event/stream"))
	err := client.Subscribe(s.ctx, 0, func(ctx context.Context, event model.Event) error { return nil })
	s.Require().Error(err)
	s.Contains(err.Error(), "401")
}
