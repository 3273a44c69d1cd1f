package memory

import (
	"context"
	"sort"

	"github.com/goccy/go-json"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	"github.com/samber/lo"
)

func (s *_Storage) AddEvent(ctx context.Context, tx storage.Tx, event model.Event) error {
	memTx, err := writableTx(tx)
	if err != nil {
		return err
	}
	return memTx.state.put(memTx.state.events, event.ID, event)
}

// ListEvents returns the recorded events in publishing order.
func (s *_Storage) ListEvents(ctx context.Context, tx storage.Tx) ([]model.Event, error) {
	memTx, err := unwrapTx(tx)
	if err != nil {
		return nil, err
	}
	return scan[model.Event](memTx.state.events, nil)
}

func (s *_Storage) ListEventFeed(ctx context.Context, tx storage.Tx, req storage.ListEventRequest) (storage.ListEventResult, error) {
	memTx, err := unwrapTx(tx)
	if err != nil {
		return storage.ListEventResult{}, err
	}

	recs := make([]record, 0, len(memTx.state.events))
	for _, rec := range memTx.state.events {
		if rec.seq > req.After {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })

	result := storage.ListEventResult{Events: make([]model.Event, 0), MaxOffset: req.After}
	for _, rec := range recs {
		if req.Limit > 0 && len(result.Events) >= req.Limit {
			break
		}
		var event model.Event
		if err := json.Unmarshal(rec.data, &event); err != nil {
			return storage.ListEventResult{}, err
		}
		if req.OfficeID != "" && !lo.Contains(event.Offices, req.OfficeID) {
			continue
		}
		event.Offset = rec.seq
		result.Events = append(result.Events, event)
		result.MaxOffset = rec.seq
	}
	return result, nil
}

func (s *_Storage) AddWebhook(ctx context.Context, tx storage.Tx, webhook model.Webhook) error {
	memTx, err := writableTx(tx)
	if err != nil {
		return err
	}
	return memTx.state.put(memTx.state.webhooks, webhook.ID, webhook)
}

func (s *_Storage) ListWebhook(ctx context.Context, tx storage.Tx, req storage.ListWebhookRequest) (storage.ListWebhookResult, error) {
	memTx, err := unwrapTx(tx)
	if err != nil {
		return storage.ListWebhookResult{}, err
	}
	records, err := scan(memTx.state.webhooks, func(webhook model.Webhook) bool {
		if webhook.Deleted {
			return false
		}
		if len(req.OfficeIDs) > 0 && !lo.Contains(req.OfficeIDs, webhook.OfficeID) {
			return false
		}
		if len(req.IDs) > 0 && !lo.Contains(req.IDs, webhook.ID) {
			return false
		}
		for _, event := range req.Events {
			if !lo.Contains(webhook.Events, model.EventType(event)) {
				return false
			}
		}
		return true
	})
	if err != nil {
		return storage.ListWebhookResult{}, err
	}
	return storage.ListWebhookResult{
		Total:   len(records),
		Records: paginate(records, req.Offset, req.Limit),
	}, nil
}

func (s *_Storage) AddWebhookEvent(ctx context.Context, tx storage.Tx, ts int64, key string, event *model.WebhookEvent) error {
	if event == nil {
		return nil
	}
	memTx, err := writableTx(tx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	memTx.state.seq++
	memTx.state.outbox = append(memTx.state.outbox, outboxRecord{recID: memTx.state.seq, key: key, msg: data})
	return nil
}

func (s *_Storage) GetWebhookEvent(ctx context.Context, tx storage.Tx, batchSize int) ([]storage.OutboxMsg, error) {
	memTx, err := unwrapTx(tx)
	if err != nil {
		return nil, err
	}
	records := make([]storage.OutboxMsg, 0, batchSize)
	for _, rec := range memTx.state.outbox {
		if len(records) >= batchSize {
			break
		}
		records = append(records, storage.OutboxMsg{RecID: rec.recID, Key: rec.key, Msg: rec.msg})
	}
	return records, nil
}

func (s *_Storage) DeleteWebhookEvent(ctx context.Context, tx storage.Tx, recIDs ...int64) error {
	if len(recIDs) == 0 {
		return nil
	}
	memTx, err := writableTx(tx)
	if err != nil {
		return err
	}
	memTx.state.outbox = lo.Reject(memTx.state.outbox, func(rec outboxRecord, _ int) bool {
		return lo.Contains(recIDs, rec.recID)
	})
	return nil
}
