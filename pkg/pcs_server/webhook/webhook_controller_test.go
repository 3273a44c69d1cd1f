package webhook_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	"github.com/openpcs/openpcs/pkg/pcs_server/webhook"
	mock_storage "github.com/openpcs/openpcs/test/mock/pcs_server/storage"
	"github.com/stretchr/testify/suite"
)

type WebhookControllerTestSuite struct {
	suite.Suite
	ctx         context.Context
	ctrl        *gomock.Controller
	storage     *mock_storage.MockWebhookStorage
	tx          *mock_storage.MockTx
	webhookCtrl webhook.WebhookController
}

func TestWebhookController(t *testing.T) {
	suite.Run(t, new(WebhookControllerTestSuite))
}

func (s *WebhookControllerTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.storage = mock_storage.NewMockWebhookStorage(s.ctrl)
	s.tx = mock_storage.NewMockTx(s.ctrl)
	s.webhookCtrl = webhook.NewWebhookController(s.storage)
}

func (s *WebhookControllerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *WebhookControllerTestSuite) TestCreateWebhook() {
	ts := time.Now().Unix()

	req := webhook.CreateWebhookRequest{
		Requester: "office-agent",
		Events:    []model.EventType{model.EventBLReleased, model.EventReleaseOrderExecuted},
		Url:       "https://example.com/notify",
		Secret:    "secret_key",
	}

	expectedWebhook := model.Webhook{
		Version:   1,
		OfficeID:  "office-agent",
		Events:    []model.EventType{model.EventBLReleased, model.EventReleaseOrderExecuted},
		Url:       "https://example.com/notify",
		Secret:    "secret_key",
		CreatedAt: ts,
		UpdatedAt: ts,
	}

	gomock.InOrder(
		s.storage.EXPECT().CreateTx(gomock.Any(), gomock.Len(2)).Return(s.tx, s.ctx, nil),
		s.storage.EXPECT().AddWebhook(gomock.Any(), s.tx, gomock.Any()).DoAndReturn(
			func(ctx context.Context, tx storage.Tx, webhook model.Webhook) error {
				s.Require().NotEmpty(webhook.ID)
				expectedWebhook.ID = webhook.ID
				s.Assert().Equal(expectedWebhook, webhook)
				return nil
			},
		),
		s.tx.EXPECT().Commit(gomock.Any()).Return(nil),
		s.tx.EXPECT().Rollback(gomock.Any()).Return(nil),
	)

	res, err := s.webhookCtrl.Create(s.ctx, ts, req)
	s.NoError(err)
	s.Require().Empty(res.Secret)
	res.Secret = expectedWebhook.Secret
	s.Assert().Equal(expectedWebhook, res)
}

func (s *WebhookControllerTestSuite) TestCreateWebhookWithInvalidRequest() {
	ts := time.Now().Unix()

	req := webhook.CreateWebhookRequest{
		Requester: "office-agent",
		Events:    []model.EventType{"bl.accomplished"},
		Url:       "https://example.com/notify",
		Secret:    "secret_key",
	}
	_, err := s.webhookCtrl.Create(s.ctx, ts, req)
	s.ErrorIs(err, model.ErrInvalidParameter)

	req.Events = []model.EventType{model.EventBLReleased}
	req.Url = "not a url"
	_, err = s.webhookCtrl.Create(s.ctx, ts, req)
	s.ErrorIs(err, model.ErrInvalidParameter)

	req.Url = "https://example.com/notify"
	req.Secret = ""
	_, err = s.webhookCtrl.Create(s.ctx, ts, req)
	s.ErrorIs(err, model.ErrInvalidParameter)
}

func (s *WebhookControllerTestSuite) TestListWebhook() {
	req := webhook.ListWebhookRequest{
		Requester: "office-agent",
		Offset:    0,
		Limit:     10,
	}

	stored := storage.ListWebhookResult{
		Total: 1,
		Records: []model.Webhook{
			{
				ID:       "webhook_1",
				Version:  1,
				OfficeID: "office-agent",
				Url:      "https://example.com/notify",
				Events:   []model.EventType{model.EventBLReleased},
				Secret:   "secret_key",
			},
		},
	}

	gomock.InOrder(
		s.storage.EXPECT().CreateTx(gomock.Any(), gomock.Len(1)).Return(s.tx, s.ctx, nil),
		s.storage.EXPECT().ListWebhook(gomock.Any(), s.tx, storage.ListWebhookRequest{
			Offset:    0,
			Limit:     10,
			OfficeIDs: []string{"office-agent"},
		}).Return(stored, nil),
		s.tx.EXPECT().Rollback(gomock.Any()).Return(nil),
	)

	res, err := s.webhookCtrl.List(s.ctx, req)
	s.NoError(err)
	s.Require().Len(res.Records, 1)
	s.Equal(1, res.Total)
	s.Equal("webhook_1", res.Records[0].ID)
	s.Empty(res.Records[0].Secret)
}

func (s *WebhookControllerTestSuite) TestListWebhookWithInvalidLimit() {
	_, err := s.webhookCtrl.List(s.ctx, webhook.ListWebhookRequest{Requester: "office-agent", Limit: 101})
	s.ErrorIs(err, model.ErrInvalidParameter)
}
