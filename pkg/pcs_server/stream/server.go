package stream

import (
	"context"
	"net/http"
	"sync"
	"time"

	otlp_util "github.com/bluexlab/otlp-util-go"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/openpcs/openpcs/pkg/pcs_server/event"
	"github.com/openpcs/openpcs/pkg/pcs_server/middleware"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type ServerOption func(s *Server)

func WithPollInterval(d time.Duration) ServerOption {
	return func(s *Server) {
		s.pollInterval = d
	}
}

func WithBatchSize(n int) ServerOption {
	return func(s *Server) {
		s.batchSize = n
	}
}

// Server serves the event feed of the office authenticated on the request.
type Server struct {
	feed         event.Feed
	pollInterval time.Duration
	batchSize    int
	wsUpgrader   websocket.Upgrader

	closeOnce sync.Once
	closeChan chan any
	sentCount metric.Int64Counter
}

func NewServer(feed event.Feed, opts ...ServerOption) *Server {
	s := &Server{
		feed:         feed,
		pollInterval: time.Second,
		batchSize:    50,
		closeChan:    make(chan any),
		sentCount:    otlp_util.NewInt64Counter("pcs.stream.event.sent.count", metric.WithDescription("The total number of events pushed to the subscribers")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Close ends every open subscription. The server cannot be used after it.
func (s *Server) Close() error {
	s.closeOnce.Do(func() { close(s.closeChan) })
	return nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	officeID, _ := r.Context().Value(middleware.OFFICE_ID).(string)

	conn, err := s.wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Errorf("failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	_, message, err := conn.ReadMessage()
	if err != nil {
		logrus.Debugf("stream of office %q closed before subscribing: %v", officeID, err)
		return
	}
	request, err := ParseRequest(message)
	if err != nil {
		s.notice(conn, "malformed request: "+err.Error())
		return
	}
	subscribe, ok := request.(*SubscribeRequest)
	if !ok {
		s.notice(conn, "a subscribe request is expected")
		return
	}

	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	// Only the closing of the connection is expected from the client from now on.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel(err)
				return
			}
		}
	}()

	s.push(ctx, conn, officeID, *subscribe)
}

func (s *Server) push(ctx context.Context, conn *websocket.Conn, officeID string, subscribe SubscribeRequest) {
	offset := subscribe.Offset
	for {
		result, err := s.feed.List(ctx, event.ListEventsRequest{
			Requester: officeID,
			After:     offset,
			Limit:     s.batchSize,
		})
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			logrus.Warnf("failed to list the events of office %q after %d: %v", officeID, offset, err)
			s.notice(conn, err.Error())
			return
		}

		for i := range result.Events {
			resp := Response{SubscribeResponse: &SubscribeResponse{
				SubscribeID: subscribe.SubscribeID,
				Event:       &result.Events[i],
			}}
			if err := s.write(conn, resp); err != nil {
				logrus.Debugf("failed to push event to office %q: %v", officeID, err)
				return
			}
		}
		if len(result.Events) > 0 {
			s.sentCount.Add(ctx, int64(len(result.Events)), metric.WithAttributes(attribute.String("office_id", officeID)))
		}
		offset = result.MaxOffset

		if len(result.Events) == s.batchSize {
			continue
		}
		ShallowSleep(ctx, s.pollInterval, s.closeChan)
		select {
		case <-s.closeChan:
			_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutdown"), time.Now().Add(time.Second))
			return
		default:
		}
	}
}

func (s *Server) write(conn *websocket.Conn, resp Response) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, raw)
}

func (s *Server) notice(conn *websocket.Conn, message string) {
	if err := s.write(conn, Response{Notice: &Notice{Message: message}}); err != nil {
		logrus.Debugf("failed to send notice: %v", err)
	}
}

// ShallowSleep waits for d unless ctx is done or signalChan is closed first.
func ShallowSleep(ctx context.Context, d time.Duration, signalChan chan any) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-signalChan:
	case <-ctx.Done():
	case <-timer.C:
	}
}
