package stream_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/openpcs/openpcs/pkg/pcs_server/event"
	"github.com/openpcs/openpcs/pkg/pcs_server/middleware"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	"github.com/openpcs/openpcs/pkg/pcs_server/stream"
	"github.com/stretchr/testify/suite"
)

var errStop = errors.New("stop")

type fakeFeed struct {
	mtx      sync.Mutex
	events   []model.Event
	requests []event.ListEventsRequest
}

func (f *fakeFeed) List(ctx context.Context, req event.ListEventsRequest) (storage.ListEventResult, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.requests = append(f.requests, req)

	result := storage.ListEventResult{MaxOffset: req.After}
	for _, e := range f.events {
		if e.Offset <= req.After {
			continue
		}
		if len(result.Events) == req.Limit {
			break
		}
		result.Events = append(result.Events, e)
		result.MaxOffset = e.Offset
	}
	return result, nil
}

type StreamTestSuite struct {
	suite.Suite

	ctx        context.Context
	cancel     context.CancelFunc
	feed       *fakeFeed
	feedServer *stream.Server
	httpServer *httptest.Server
}

func TestStreamTestSuite(t *testing.T) {
	suite.Run(t, new(StreamTestSuite))
}

func (s *StreamTestSuite) SetupTest() {
	s.ctx, s.cancel = context.WithTimeout(context.Background(), 5*time.Second)
	s.feed = &fakeFeed{
		events: []model.Event{
			{ID: "evt_1", Type: model.EventBLDeclarationCreated, SubjectID: "BL1@CARR", Offset: 1},
			{ID: "evt_2", Type: model.EventBLArrivalNotified, SubjectID: "BL1@CARR", Offset: 2},
			{ID: "evt_3", Type: model.EventBLReleased, SubjectID: "BL1@CARR", Offset: 3},
		},
	}
}

func (s *StreamTestSuite) TearDownTest() {
	s.cancel()
	if s.feedServer != nil {
		_ = s.feedServer.Close()
	}
	if s.httpServer != nil {
		s.httpServer.Close()
	}
}

func (s *StreamTestSuite) serve(opts ...stream.ServerOption) *stream.Client {
	s.feedServer = stream.NewServer(s.feed, opts...)
	s.httpServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), middleware.OFFICE_ID, "office-agent")
		s.feedServer.ServeHTTP(w, r.WithContext(ctx))
	}))
	return stream.NewClient(stream.WithServerURL(s.wsURL()))
}

func (s *StreamTestSuite) wsURL() string {
	return "ws" + strings.TrimPrefix(s.httpServer.URL, "http")
}

func collect(n int, received *[]model.Event) stream.EventSink {
	return func(ctx context.Context, e model.Event) error {
		*received = append(*received, e)
		if len(*received) == n {
			return errStop
		}
		return nil
	}
}

func (s *StreamTestSuite) TestSubscribeFromOffset() {
	client := s.serve(stream.WithPollInterval(10 * time.Millisecond))

	var received []model.Event
	err := client.Subscribe(s.ctx, 1, collect(2, &received))
	s.Require().ErrorIs(err, errStop)
	s.Require().Len(received, 2)
	s.Equal("evt_2", received[0].ID)
	s.Equal("evt_3", received[1].ID)

	s.feed.mtx.Lock()
	defer s.feed.mtx.Unlock()
	s.Require().NotEmpty(s.feed.requests)
	s.Equal("office-agent", s.feed.requests[0].Requester)
	s.Equal(int64(1), s.feed.requests[0].After)
}

func (s *StreamTestSuite) TestFullBatchesAreDrainedWithoutWaiting() {
	client := s.serve(stream.WithBatchSize(1), stream.WithPollInterval(time.Hour))

	var received []model.Event
	err := client.Subscribe(s.ctx, 0, collect(3, &received))
	s.Require().ErrorIs(err, errStop)
	s.Equal(int64(3), received[2].Offset)
}

func (s *StreamTestSuite) TestCloseEndsSubscription() {
	client := s.serve(stream.WithPollInterval(time.Hour))

	got := make(chan struct{}, 3)
	go func() {
		<-got
		_ = s.feedServer.Close()
	}()
	err := client.Subscribe(s.ctx, 2, func(ctx context.Context, e model.Event) error {
		got <- struct{}{}
		return nil
	})
	s.Require().Error(err)
	s.True(websocket.IsCloseError(err, websocket.CloseGoingAway), err.Error())
}

func (s *StreamTestSuite) TestFirstMessageMustSubscribe() {
	s.serve()

	conn, _, err := websocket.DefaultDialer.DialContext(s.ctx, s.wsURL(), nil)
	s.Require().NoError(err)
	defer conn.Close()

	s.Require().NoError(conn.WriteMessage(websocket.TextMessage, []byte(`{}`)))
	_, msg, err := conn.ReadMessage()
	s.Require().NoError(err)
	resp, err := stream.ParseResponse(msg)
	s.Require().NoError(err)
	notice, ok := resp.(*stream.Notice)
	s.Require().True(ok)
	s.Equal("a subscribe request is expected", notice.Message)
}
