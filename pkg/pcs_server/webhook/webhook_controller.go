// Package webhook keeps the webhook subscriptions of the offices and delivers the queued
// events to them.
package webhook

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
)

type WebhookController interface {
	Create(ctx context.Context, ts int64, req CreateWebhookRequest) (model.Webhook, error)
	List(ctx context.Context, req ListWebhookRequest) (storage.ListWebhookResult, error)
}

type CreateWebhookRequest struct {
	Requester string            `json:"requester"` // The office subscribing.
	Events    []model.EventType `json:"events"`
	Url       string            `json:"url"`
	Secret    string            `json:"secret"`
}

type ListWebhookRequest struct {
	Requester string `json:"requester"`
	Offset    int    `json:"offset"`
	Limit     int    `json:"limit"`
}

type _WebhookController struct {
	storage storage.WebhookStorage
}

func NewWebhookController(storage storage.WebhookStorage) WebhookController {
	return &_WebhookController{
		storage: storage,
	}
}

func (c *_WebhookController) Create(ctx context.Context, ts int64, req CreateWebhookRequest) (model.Webhook, error) {
	err := ValidateCreateWebhookRequest(req)
	if err != nil {
		return model.Webhook{}, err
	}

	webhook := model.Webhook{
		ID:        uuid.NewString(),
		Version:   1,
		OfficeID:  req.Requester,
		Url:       req.Url,
		Events:    req.Events,
		Secret:    req.Secret,
		CreatedAt: ts,
		UpdatedAt: ts,
		Deleted:   false,
	}

	tx, ctx, err := c.storage.CreateTx(ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelSerializable))
	if err != nil {
		return model.Webhook{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = c.storage.AddWebhook(ctx, tx, webhook)
	if err != nil {
		return model.Webhook{}, err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return model.Webhook{}, err
	}

	webhook.Secret = ""
	return webhook, nil
}

// List returns the webhooks of the requesting office without their secrets.
func (c *_WebhookController) List(ctx context.Context, req ListWebhookRequest) (storage.ListWebhookResult, error) {
	err := ValidateListWebhookRequest(req)
	if err != nil {
		return storage.ListWebhookResult{}, err
	}

	tx, ctx, err := c.storage.CreateTx(ctx, storage.TxOptionWithWrite(false))
	if err != nil {
		return storage.ListWebhookResult{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	result, err := c.storage.ListWebhook(ctx, tx, storage.ListWebhookRequest{
		Offset:    req.Offset,
		Limit:     req.Limit,
		OfficeIDs: []string{req.Requester},
	})
	if err != nil {
		return storage.ListWebhookResult{}, err
	}

	for i := range result.Records {
		result.Records[i].Secret = ""
	}
	return result, nil
}
