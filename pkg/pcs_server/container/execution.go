package container

import (
	"context"
	"database/sql"
	"fmt"

	otlp_util "github.com/bluexlab/otlp-util-go"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ExecuteOrder records the execution of an order by the party executing it: the release party
// for release orders, the acceptance party for acceptance orders and the carrier for the
// shipment and the delivery of transport orders. Once recorded the order cannot change.
func (c *_MovementController) ExecuteOrder(ctx context.Context, ts int64, req ExecuteOrderRequest) (model.Container, error) {
	ctx, span := otlp_util.Start(ctx, "pcs_server/container/ExecuteOrder", trace.WithAttributes(
		attribute.String("order_id", req.OrderID),
		attribute.String("kind", string(req.Kind)),
	))
	defer span.End()

	if err := ValidateExecuteOrderRequest(req); err != nil {
		return model.Container{}, err
	}
	executedAt := model.NewDateTimeFromUnix(ts)
	if req.Time != nil {
		executedAt = *req.Time
	}

	tx, ctx, err := c.storage.CreateTx(ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelSerializable))
	if err != nil {
		return model.Container{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cn, err := c.findContainerByOrder(ctx, tx, req.Kind, req.OrderID)
	if err != nil {
		return model.Container{}, err
	}
	op, err := c.newOperation(ctx, tx, ts, req.Requester, cn)
	if err != nil {
		return model.Container{}, err
	}
	idx, err := findMovement(op.container.Movements, byOrderID(req.Kind, req.OrderID))
	if err != nil {
		return model.Container{}, err
	}
	if idx < 0 {
		return model.Container{}, fmt.Errorf("%s order %s: %w", req.Kind, req.OrderID, model.ErrMovementNotFound)
	}
	mv := &op.container.Movements[idx]

	switch req.Kind {
	case model.OrderKindRelease:
		err = c.executeRelease(ctx, op, mv.ReleaseOrder, req.OrderID, executedAt)
	case model.OrderKindAcceptance:
		err = c.executeAcceptance(ctx, op, mv.AcceptanceOrder, req.OrderID, executedAt)
	case model.OrderKindTransport:
		err = c.executeTransport(ctx, op, mv.TransportOrder, req.OrderID, req.Stage, executedAt)
	}
	if err != nil {
		return model.Container{}, err
	}

	if err := c.save(ctx, op); err != nil {
		return model.Container{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Container{}, err
	}
	return op.container, nil
}

func (c *_MovementController) executeRelease(ctx context.Context, op *_Operation, order *model.ReleaseOrder, orderID string, executedAt model.DateTime) error {
	if err := c.resolver.Authorize(ctx, op.tx, op.requester, "execute release order "+orderID, order.ReleaseParty.Office()); err != nil {
		return err
	}
	if order.Executed() {
		return fmt.Errorf("release order %s: %w", orderID, model.ErrOrderExecuted)
	}
	order.ReleaseTime = &executedAt
	op.emit(model.EventReleaseOrderExecuted, orderID,
		order.OrderingParty.Office(), order.ReleaseParty.Office(),
		op.bl.BLHolder.Office(), op.bl.DischargeShippingAgent.Office())
	return nil
}

func (c *_MovementController) executeAcceptance(ctx context.Context, op *_Operation, order *model.AcceptanceOrder, orderID string, executedAt model.DateTime) error {
	if err := c.resolver.Authorize(ctx, op.tx, op.requester, "execute acceptance order "+orderID, order.AcceptanceParty.Office()); err != nil {
		return err
	}
	if order.Executed() {
		return fmt.Errorf("acceptance order %s: %w", orderID, model.ErrOrderExecuted)
	}
	order.AcceptanceTime = &executedAt
	op.emit(model.EventAcceptanceOrderExecuted, orderID,
		order.OrderingParty.Office(), order.AcceptanceParty.Office(),
		op.bl.BLHolder.Office(), op.bl.DischargeShippingAgent.Office())
	return nil
}

func (c *_MovementController) executeTransport(ctx context.Context, op *_Operation, order *model.TransportOrder, orderID string, stage TransportStage, executedAt model.DateTime) error {
	if err := c.resolver.Authorize(ctx, op.tx, op.requester, "execute transport order "+orderID, order.CarrierParty.Office()); err != nil {
		return err
	}

	var eventType model.EventType
	switch stage {
	case TransportStageShipment:
		if order.ShipmentTime != nil {
			return fmt.Errorf("transport order %s is already shipped: %w", orderID, model.ErrOrderExecuted)
		}
		order.ShipmentTime = &executedAt
		eventType = model.EventTransportOrderShipped
	case TransportStageDelivery:
		if order.DeliveryTime != nil {
			return fmt.Errorf("transport order %s is already delivered: %w", orderID, model.ErrOrderExecuted)
		}
		order.DeliveryTime = &executedAt
		eventType = model.EventTransportOrderDelivered
	}
	op.emit(eventType, orderID,
		order.OrderingParty.Office(), order.SenderParty.Office(), order.CarrierParty.Office(), order.ReceiverParty.Office(),
		op.bl.BLHolder.Office(), op.bl.DischargeShippingAgent.Office())
	return nil
}
