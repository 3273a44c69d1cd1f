// Package stream pushes the event feed of an office over a websocket connection.
//
// The client opens the connection and sends one subscribe request with the offset it has
// already seen. The server then pushes every later event the office was notified of, and
// keeps pushing new ones as they are published, until either side closes the connection.
package stream

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
)

// EventSink consumes the events received by a Client.
type EventSink func(ctx context.Context, event model.Event) error

type Request struct {
	Subscribe *SubscribeRequest `json:"subscribe,omitempty"`
}

type SubscribeRequest struct {
	SubscribeID string `json:"subscribe_id"`
	Offset      int64  `json:"offset"` // Events up to this offset are not sent.
}

type Response struct {
	SubscribeResponse *SubscribeResponse `json:"subscribe_response,omitempty"`
	Notice            *Notice            `json:"notice,omitempty"`
}

type SubscribeResponse struct {
	SubscribeID string       `json:"subscribe_id"`
	Event       *model.Event `json:"event,omitempty"`
}

// Notice reports a problem of the server. The server closes the connection after it.
type Notice struct {
	Message string `json:"message"`
}

// ParseRequest parses a request from the client.
// The return value can be:
//
//	*SubscribeRequest
func ParseRequest(data []byte) (any, error) {
	request := &Request{}
	if err := json.Unmarshal(data, request); err != nil {
		return nil, err
	}

	if request.Subscribe != nil {
		return request.Subscribe, nil
	}

	return nil, nil
}

// ParseResponse parses a response from the server.
// The return value can be:
//
//	*SubscribeResponse
//	*Notice
func ParseResponse(data []byte) (any, error) {
	response := &Response{}
	if err := json.Unmarshal(data, response); err != nil {
		return nil, err
	}

	if response.SubscribeResponse != nil {
		return response.SubscribeResponse, nil
	}

	if response.Notice != nil {
		return response.Notice, nil
	}

	return nil, nil
}
