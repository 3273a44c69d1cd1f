package postgres_test

import (
	"database/sql"
	"testing"

	"github.com/goccy/go-json"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage/postgres"
	"github.com/stretchr/testify/suite"
)

type WebhookStorageTestSuite struct {
	BaseTestSuite
	storage storage.WebhookStorage
}

func TestWebhookStorage(t *testing.T) {
	suite.Run(t, new(WebhookStorageTestSuite))
}

func (s *WebhookStorageTestSuite) SetupTest() {
	s.BaseTestSuite.SetupTest()
	s.storage = postgres.NewStorageWithPool(s.pgPool)
	s.loadFixtures("testdata/webhook")
}

func (s *WebhookStorageTestSuite) TestAddWebhook() {
	webhook := model.Webhook{
		ID:        "test_webhook",
		Version:   1,
		OfficeID:  "office-agent",
		Url:       "https://example.com/webhook",
		Events:    []model.EventType{model.EventBLReleased},
		Secret:    "secret",
		CreatedAt: 12345,
		UpdatedAt: 12345,
	}

	tx, ctx, err := s.storage.CreateTx(s.ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelSerializable))
	s.Require().NoError(err)
	defer func() { _ = tx.Rollback(ctx) }()

	s.Require().NoError(s.storage.AddWebhook(ctx, tx, webhook))
	newWebhook := webhook
	newWebhook.Version = 2
	newWebhook.Url = "https://example2.com/webhook"
	newWebhook.Events = append(newWebhook.Events, model.EventBLTransferred)
	newWebhook.UpdatedAt = 12355
	s.Require().NoError(s.storage.AddWebhook(ctx, tx, newWebhook))
	s.Require().NoError(tx.Commit(ctx))

	var dbData []model.Webhook
	s.Require().NoError(s.pgPool.QueryRow(s.ctx, `SELECT JSONB_AGG(webhook ORDER BY rec_id ASC) FROM webhook WHERE id = $1`, webhook.ID).Scan(&dbData))
	s.Require().Len(dbData, 1)
	s.Equal(newWebhook, dbData[0])

	s.Require().NoError(s.pgPool.QueryRow(s.ctx, `SELECT JSONB_AGG(webhook ORDER BY rec_id ASC) FROM webhook_history WHERE id = $1`, webhook.ID).Scan(&dbData))
	s.Require().Len(dbData, 2)
	s.Equal(webhook, dbData[0])
	s.Equal(newWebhook, dbData[1])
}

func (s *WebhookStorageTestSuite) TestListWebhook() {
	tx, ctx, err := s.storage.CreateTx(s.ctx)
	s.Require().NoError(err)
	defer func() { _ = tx.Rollback(ctx) }()

	baseReq := storage.ListWebhookRequest{
		Limit:     10,
		OfficeIDs: []string{"office-agent"},
	}

	// Deleted webhooks are not listed.
	res, err := s.storage.ListWebhook(ctx, tx, baseReq)
	s.Require().NoError(err)
	s.Equal(2, res.Total)
	s.Require().Len(res.Records, 2)
	s.Equal("webhook_1", res.Records[0].ID)
	s.Equal("webhook_2", res.Records[1].ID)

	req := baseReq
	req.Limit = 1
	req.Offset = 1
	res, err = s.storage.ListWebhook(ctx, tx, req)
	s.Require().NoError(err)
	s.Equal(2, res.Total)
	s.Require().Len(res.Records, 1)
	s.Equal("webhook_2", res.Records[0].ID)

	req = baseReq
	req.IDs = []string{"webhook_1"}
	res, err = s.storage.ListWebhook(ctx, tx, req)
	s.Require().NoError(err)
	s.Equal(1, res.Total)

	req = storage.ListWebhookRequest{Limit: 10, Events: []string{string(model.EventBLReleased)}}
	res, err = s.storage.ListWebhook(ctx, tx, req)
	s.Require().NoError(err)
	s.Equal(2, res.Total)
	s.Require().Len(res.Records, 2)
	s.Equal("webhook_1", res.Records[0].ID)
	s.Equal("webhook_4", res.Records[1].ID)
}

func (s *WebhookStorageTestSuite) TestWebhookEvent() {
	tx, ctx, err := s.storage.CreateTx(s.ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelSerializable))
	s.Require().NoError(err)
	defer func() { _ = tx.Rollback(ctx) }()

	res, err := s.storage.GetWebhookEvent(ctx, tx, 10)
	s.Require().NoError(err)
	s.Require().Len(res, 2)
	s.Equal(int64(1), res[0].RecID)
	s.Equal("signature-1", res[0].Key)
	var event model.WebhookEvent
	s.Require().NoError(json.Unmarshal(res[0].Msg, &event))
	s.Equal("webhook_1", event.WebhookID)
	s.Equal(model.EventBLReleased, event.Type)

	newEvent := &model.WebhookEvent{
		ID:        "event-2",
		WebhookID: "webhook_2",
		Url:       "https://example2.com/webhook",
		Type:      model.EventReleaseOrderCreated,
		SubjectID: "CN1@BL1@CARR",
		CreatedAt: 1717984800,
	}
	s.Require().NoError(s.storage.AddWebhookEvent(ctx, tx, 1717984800, "signature-3", newEvent))
	s.Require().NoError(s.storage.AddWebhookEvent(ctx, tx, 1717984800, "ignored", nil))
	s.Require().NoError(s.storage.DeleteWebhookEvent(ctx, tx, 1, 2))

	res, err = s.storage.GetWebhookEvent(ctx, tx, 10)
	s.Require().NoError(err)
	s.Require().Len(res, 1)
	s.Equal("signature-3", res[0].Key)
	var stored model.WebhookEvent
	s.Require().NoError(json.Unmarshal(res[0].Msg, &stored))
	s.Equal(*newEvent, stored)

	s.Require().NoError(tx.Commit(ctx))
}
