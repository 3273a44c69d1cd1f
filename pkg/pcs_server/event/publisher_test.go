package event_test

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/openpcs/openpcs/pkg/pcs_server/event"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	mock_storage "github.com/openpcs/openpcs/test/mock/pcs_server/storage"
	"github.com/stretchr/testify/suite"
)

type PublisherTestSuite struct {
	suite.Suite
	ctx       context.Context
	ctrl      *gomock.Controller
	storage   *mock_storage.MockEventStorage
	tx        *mock_storage.MockTx
	publisher event.Publisher
}

func TestPublisher(t *testing.T) {
	suite.Run(t, new(PublisherTestSuite))
}

func (s *PublisherTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.storage = mock_storage.NewMockEventStorage(s.ctrl)
	s.tx = mock_storage.NewMockTx(s.ctrl)
	s.publisher = event.NewPublisher(s.storage)
}

func (s *PublisherTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *PublisherTestSuite) TestPublish() {
	ts := int64(1717977600)
	webhooks := []model.Webhook{
		{ID: "webhook_1", OfficeID: "office-holder", Url: "https://holder.example/notify", Secret: "holder_secret"},
		{ID: "webhook_2", OfficeID: "office-agent", Url: "https://agent.example/notify", Secret: "agent_secret"},
	}

	var stored model.Event
	var queued []*model.WebhookEvent
	gomock.InOrder(
		s.storage.EXPECT().AddEvent(gomock.Any(), s.tx, gomock.Any()).DoAndReturn(
			func(ctx context.Context, tx storage.Tx, evt model.Event) error {
				stored = evt
				return nil
			},
		),
		s.storage.EXPECT().ListWebhook(gomock.Any(), s.tx, storage.ListWebhookRequest{
			Limit:     100,
			OfficeIDs: []string{"office-holder", "office-agent"},
			Events:    []string{string(model.EventBLReleased)},
		}).Return(storage.ListWebhookResult{Total: 2, Records: webhooks}, nil),
		s.storage.EXPECT().AddWebhookEvent(gomock.Any(), s.tx, ts, gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, tx storage.Tx, ts int64, key string, webhookEvent *model.WebhookEvent) error {
				signature, err := event.Sign(webhookEvent, "holder_secret")
				s.Require().NoError(err)
				s.Equal(signature, key)
				queued = append(queued, webhookEvent)
				return nil
			},
		),
		s.storage.EXPECT().AddWebhookEvent(gomock.Any(), s.tx, ts, gomock.Any(), gomock.Any()).DoAndReturn(
			func(ctx context.Context, tx storage.Tx, ts int64, key string, webhookEvent *model.WebhookEvent) error {
				signature, err := event.Sign(webhookEvent, "agent_secret")
				s.Require().NoError(err)
				s.Equal(signature, key)
				queued = append(queued, webhookEvent)
				return nil
			},
		),
	)

	published, err := s.publisher.Publish(s.ctx, s.tx, ts, model.Event{
		Type:      model.EventBLReleased,
		SubjectID: "BL1@CARR",
		BLID:      "BL1@CARR",
		Offices:   []string{"office-holder", "", "office-agent", "office-holder"},
	})
	s.Require().NoError(err)
	s.NotEmpty(published.ID)
	s.Equal([]string{"office-holder", "office-agent"}, published.Offices)
	s.Equal(ts, published.CreatedAt)
	s.Equal(published, stored)

	s.Require().Len(queued, 2)
	s.Equal("webhook_1", queued[0].WebhookID)
	s.Equal("https://holder.example/notify", queued[0].Url)
	s.Equal(published.ID, queued[0].ID)
	s.Equal("webhook_2", queued[1].WebhookID)
}

func (s *PublisherTestSuite) TestPublishWithoutOffices() {
	s.storage.EXPECT().AddEvent(gomock.Any(), s.tx, gomock.Any()).Return(nil)

	published, err := s.publisher.Publish(s.ctx, s.tx, 1717977600, model.Event{
		Type:      model.EventContainerDeclarationCreated,
		SubjectID: "CN1",
		Offices:   []string{""},
	})
	s.Require().NoError(err)
	s.Empty(published.Offices)
}

func (s *PublisherTestSuite) TestPublishPagesThroughWebhooks() {
	ts := int64(1717977600)
	firstPage := make([]model.Webhook, 100)
	for i := range firstPage {
		firstPage[i] = model.Webhook{ID: "webhook", OfficeID: "office-holder", Secret: "secret"}
	}

	s.storage.EXPECT().AddEvent(gomock.Any(), s.tx, gomock.Any()).Return(nil)
	gomock.InOrder(
		s.storage.EXPECT().ListWebhook(gomock.Any(), s.tx, gomock.Any()).Return(storage.ListWebhookResult{Total: 101, Records: firstPage}, nil),
		s.storage.EXPECT().ListWebhook(gomock.Any(), s.tx, gomock.Any()).DoAndReturn(
			func(ctx context.Context, tx storage.Tx, req storage.ListWebhookRequest) (storage.ListWebhookResult, error) {
				s.Equal(100, req.Offset)
				return storage.ListWebhookResult{Total: 101, Records: firstPage[:1]}, nil
			},
		),
	)
	s.storage.EXPECT().AddWebhookEvent(gomock.Any(), s.tx, ts, gomock.Any(), gomock.Any()).Return(nil).Times(101)

	_, err := s.publisher.Publish(s.ctx, s.tx, ts, model.Event{
		Type:    model.EventBLTransferred,
		Offices: []string{"office-holder"},
	})
	s.NoError(err)
}
