package stream

import (
	"context"
	"fmt"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type ClientOption func(c *Client)

func WithServerURL(serverURL string) ClientOption {
	return func(c *Client) {
		c.serverURL = serverURL
	}
}

func WithAPIKey(apiKey string) ClientOption {
	return func(c *Client) {
		c.header.Set("Authorization", "Bearer "+apiKey)
	}
}

// Client subscribes to the event feed of the office owning its API key.
type Client struct {
	serverURL string
	header    http.Header
	dialer    *websocket.Dialer
}

func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		header: http.Header{},
		dialer: websocket.DefaultDialer,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe hands every event after offset to sink, in feed order. It returns when ctx is
// done, when sink fails or when the connection is lost. The offset of the last event
// accepted by sink is where a later subscription resumes.
func (c *Client) Subscribe(ctx context.Context, offset int64, sink EventSink) error {
	conn, resp, err := c.dialer.DialContext(ctx, c.serverURL, c.header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("failed to connect to %q (%s): %w", c.serverURL, resp.Status, err)
		}
		return fmt.Errorf("failed to connect to %q: %w", c.serverURL, err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	subscribeID := uuid.NewString()
	request, _ := json.Marshal(Request{Subscribe: &SubscribeRequest{SubscribeID: subscribeID, Offset: offset}})
	if err := conn.WriteMessage(websocket.TextMessage, request); err != nil {
		return err
	}

	for {
		_, msg, err := conn.ReadMessage()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			return err
		}

		resp, err := ParseResponse(msg)
		if err != nil {
			logrus.Errorf("stream client: failed to parse message from %q: %v", c.serverURL, err)
			continue
		}

		switch resp := resp.(type) {
		case *SubscribeResponse:
			if resp.SubscribeID != subscribeID || resp.Event == nil {
				continue
			}
			if err := sink(ctx, *resp.Event); err != nil {
				return err
			}
		case *Notice:
			logrus.Warnf("stream client: received notice from %q: %v", c.serverURL, resp.Message)
		default:
			logrus.Errorf("stream client: unsupported message from %q: %s", c.serverURL, msg)
		}
	}
}
