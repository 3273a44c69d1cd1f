// Package event records the events of the cargo operations and queues one webhook
// delivery per subscribed office, all inside the transaction of the operation.
package event

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	otlp_util "github.com/bluexlab/otlp-util-go"
	"github.com/goccy/go-json"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	"github.com/openpcs/openpcs/pkg/util"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const webhookPageSize = 100

type Publisher interface {
	// Publish de-duplicates the offices of the event, stores it and queues it for the webhooks
	// the offices registered for its type. The stored event is returned.
	Publish(ctx context.Context, tx storage.Tx, ts int64, event model.Event) (model.Event, error)
}

type _Publisher struct {
	storage   storage.EventStorage
	published metric.Int64Counter
}

func NewPublisher(storage storage.EventStorage) Publisher {
	return &_Publisher{
		storage:   storage,
		published: otlp_util.NewInt64Counter("pcs.event.published.count", metric.WithDescription("The total number of events published")),
	}
}

func (p *_Publisher) Publish(ctx context.Context, tx storage.Tx, ts int64, event model.Event) (model.Event, error) {
	ctx, span := otlp_util.Start(ctx, "pcs_server/event/Publish", trace.WithAttributes(attribute.String("type", string(event.Type))))
	defer span.End()

	event.Offices = lo.Uniq(lo.Compact(event.Offices))
	if event.ID == "" {
		event.ID = util.NewPrefixedID("evt")
	}
	event.CreatedAt = ts

	if err := p.storage.AddEvent(ctx, tx, event); err != nil {
		return model.Event{}, err
	}

	if len(event.Offices) > 0 {
		if err := p.queueWebhookEvents(ctx, tx, ts, event); err != nil {
			return model.Event{}, err
		}
	}

	p.published.Add(ctx, 1, metric.WithAttributes(attribute.String("type", string(event.Type))))
	return event, nil
}

func (p *_Publisher) queueWebhookEvents(ctx context.Context, tx storage.Tx, ts int64, event model.Event) error {
	req := storage.ListWebhookRequest{
		Limit:     webhookPageSize,
		OfficeIDs: event.Offices,
		Events:    []string{string(event.Type)},
	}
	for {
		result, err := p.storage.ListWebhook(ctx, tx, req)
		if err != nil {
			return err
		}
		for _, webhook := range result.Records {
			webhookEvent := &model.WebhookEvent{
				ID:        event.ID,
				WebhookID: webhook.ID,
				Url:       webhook.Url,
				Type:      event.Type,
				SubjectID: event.SubjectID,
				BLID:      event.BLID,
				CreatedAt: ts,
			}
			signature, err := Sign(webhookEvent, webhook.Secret)
			if err != nil {
				return err
			}
			if err := p.storage.AddWebhookEvent(ctx, tx, ts, signature, webhookEvent); err != nil {
				return err
			}
		}

		req.Offset += len(result.Records)
		if len(result.Records) == 0 || req.Offset >= result.Total {
			return nil
		}
	}
}

// Sign returns the hex encoded HMAC-SHA256 of the JSON body of the webhook event.
func Sign(webhookEvent *model.WebhookEvent, secret string) (string, error) {
	body, err := json.Marshal(webhookEvent)
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil)), nil
}
