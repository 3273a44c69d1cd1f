package event

import (
	"context"
	"fmt"

	otlp_util "github.com/bluexlab/otlp-util-go"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type ListEventsRequest struct {
	Requester string `json:"requester"`
	After     int64  `json:"after"`
	Limit     int    `json:"limit"`
}

// Feed replays the events an office was notified of, in publishing order.
type Feed interface {
	List(ctx context.Context, req ListEventsRequest) (storage.ListEventResult, error)
}

type _Feed struct {
	storage storage.EventFeedStorage
}

func NewFeed(storage storage.EventFeedStorage) Feed {
	return &_Feed{storage: storage}
}

func ValidateListEventsRequest(req ListEventsRequest) error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Requester, validation.Required),
		validation.Field(&req.After, validation.Min(int64(0))),
		validation.Field(&req.Limit, validation.Required, validation.Min(1), validation.Max(100)),
	)
	if err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidParameter)
	}
	return nil
}

func (f *_Feed) List(ctx context.Context, req ListEventsRequest) (storage.ListEventResult, error) {
	ctx, span := otlp_util.Start(ctx, "pcs_server/event/List",
		trace.WithAttributes(attribute.String("requester", req.Requester), attribute.Int64("after", req.After)))
	defer span.End()

	if err := ValidateListEventsRequest(req); err != nil {
		return storage.ListEventResult{}, err
	}

	tx, ctx, err := f.storage.CreateTx(ctx, storage.TxOptionWithWrite(false))
	if err != nil {
		return storage.ListEventResult{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	return f.storage.ListEventFeed(ctx, tx, storage.ListEventRequest{
		After:    req.After,
		Limit:    req.Limit,
		OfficeID: req.Requester,
	})
}
