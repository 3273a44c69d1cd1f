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

type FeedTestSuite struct {
	suite.Suite
	ctx     context.Context
	ctrl    *gomock.Controller
	storage *mock_storage.MockEventFeedStorage
	tx      *mock_storage.MockTx
	feed    event.Feed
}

func TestFeed(t *testing.T) {
	suite.Run(t, new(FeedTestSuite))
}

func (s *FeedTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.storage = mock_storage.NewMockEventFeedStorage(s.ctrl)
	s.tx = mock_storage.NewMockTx(s.ctrl)
	s.feed = event.NewFeed(s.storage)
}

func (s *FeedTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *FeedTestSuite) TestList() {
	expected := storage.ListEventResult{
		Events: []model.Event{
			{ID: "evt1", Type: model.EventBLReleased, SubjectID: "BL1@CARR", Offices: []string{"office-agent"}, Offset: 8},
		},
		MaxOffset: 8,
	}

	gomock.InOrder(
		s.storage.EXPECT().CreateTx(gomock.Any(), gomock.Len(1)).Return(s.tx, s.ctx, nil),
		s.storage.EXPECT().ListEventFeed(gomock.Any(), s.tx, storage.ListEventRequest{
			After:    5,
			Limit:    10,
			OfficeID: "office-agent",
		}).Return(expected, nil),
		s.tx.EXPECT().Rollback(gomock.Any()).Return(nil),
	)

	result, err := s.feed.List(s.ctx, event.ListEventsRequest{Requester: "office-agent", After: 5, Limit: 10})
	s.Require().NoError(err)
	s.Equal(expected, result)
}

func (s *FeedTestSuite) TestListWithInvalidRequest() {
	for _, req := range []event.ListEventsRequest{
		{After: 0, Limit: 10},
		{Requester: "office-agent", After: -1, Limit: 10},
		{Requester: "office-agent", Limit: 0},
		{Requester: "office-agent", Limit: 101},
	} {
		_, err := s.feed.List(s.ctx, req)
		s.ErrorIs(err, model.ErrInvalidParameter)
	}
}
