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

// SubcontractTransport lets the carrier of a transport order hand it over to another carrier.
// The subcontracted movement is carrier haulage ordered by the carrier of the main order. Its
// release and acceptance orders are the ones of the main movement when it names the same order
// numbers, otherwise they are new orders of the subcontracted movement.
func (c *_MovementController) SubcontractTransport(ctx context.Context, ts int64, req SubcontractTransportRequest) (model.Container, error) {
	if err := ValidateSubcontractTransportRequest(req); err != nil {
		return model.Container{}, err
	}
	mainOrderID := model.OrderID(req.Movement.TransportOrder.OrderNumber, req.Movement.TransportOrder.OrderingParty)

	ctx, span := otlp_util.Start(ctx, "pcs_server/container/SubcontractTransport", trace.WithAttributes(attribute.String("order_id", mainOrderID)))
	defer span.End()

	tx, ctx, err := c.storage.CreateTx(ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelSerializable))
	if err != nil {
		return model.Container{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cn, err := c.findContainerByOrder(ctx, tx, model.OrderKindTransport, mainOrderID)
	if err != nil {
		return model.Container{}, err
	}
	op, err := c.newOperation(ctx, tx, ts, req.Requester, cn)
	if err != nil {
		return model.Container{}, err
	}

	mainIdx, err := findMovement(op.container.Movements, byOrderID(model.OrderKindTransport, mainOrderID))
	if err != nil {
		return model.Container{}, err
	}
	if mainIdx < 0 {
		return model.Container{}, fmt.Errorf("transport order %s: %w", mainOrderID, model.ErrMovementNotFound)
	}
	mainMovement := op.container.Movements[mainIdx]
	mainOrder := *mainMovement.TransportOrder

	if err := c.resolver.Authorize(ctx, tx, req.Requester, "subcontract transport order "+mainOrderID, mainOrder.CarrierParty.Office()); err != nil {
		return model.Container{}, err
	}
	if mainOrder.CarrierParty.OrganizationCode() == "" {
		return model.Container{}, fmt.Errorf("transport order %s has no carrier to subcontract%w", mainOrderID, model.ErrValidation)
	}

	sub := req.Subcontract
	subOrder := *sub.TransportOrder
	subOrder.OrderingParty = mainOrder.CarrierParty.Clone()
	subOrderID := model.OrderID(subOrder.OrderNumber, subOrder.OrderingParty)

	eventType, subIdx, err := c.locateSubcontract(ctx, op, subOrderID, mainOrderID)
	if err != nil {
		return model.Container{}, err
	}
	if subIdx < 0 {
		child := model.NewMovement(c.newID(), model.TransportTypeCarrier)
		child.ParentMovementID = mainMovement.ID
		op.container.Movements = append(op.container.Movements, child)
		subIdx = len(op.container.Movements) - 1
	}
	// The slice may have grown, take the pointers afterwards.
	mv := &op.container.Movements[subIdx]
	mv.TransportType = model.TransportTypeCarrier

	inheritTransportOrder(&subOrder, mainOrder)
	if err := c.applyTransportOrder(ctx, op, mv, &subOrder); err != nil {
		return model.Container{}, err
	}

	mainMovementPtr := &op.container.Movements[mainIdx]
	if sub.ReleaseOrder != nil {
		mainRelease := effectiveReleaseOrder(&op.container, mainMovementPtr)
		if mainRelease != nil && mainRelease.OrderNumber == sub.ReleaseOrder.OrderNumber {
			if err := shareReleaseOrder(op, mv); err != nil {
				return model.Container{}, err
			}
		} else if err := c.applyReleaseOrder(ctx, op, mv, c.releaseOrderWithDefaults(op, sub.ReleaseOrder)); err != nil {
			return model.Container{}, err
		}
	}
	if sub.AcceptanceOrder != nil {
		mainAcceptance := effectiveAcceptanceOrder(&op.container, mainMovementPtr)
		if mainAcceptance != nil && mainAcceptance.OrderNumber == sub.AcceptanceOrder.OrderNumber {
			if err := shareAcceptanceOrder(op, mv); err != nil {
				return model.Container{}, err
			}
		} else if err := c.applyAcceptanceOrder(ctx, op, mv, c.acceptanceOrderWithDefaults(op, sub.AcceptanceOrder)); err != nil {
			return model.Container{}, err
		}
	}

	op.emit(eventType, subOrderID,
		mainOrder.CarrierParty.Office(), mv.TransportOrder.CarrierParty.Office(),
		op.bl.BLHolder.Office(), op.bl.DischargeShippingAgent.Office())

	if err := c.save(ctx, op); err != nil {
		return model.Container{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Container{}, err
	}
	return op.container, nil
}

// locateSubcontract finds the movement of an already subcontracted order. It returns -1 when
// the order is new.
func (c *_MovementController) locateSubcontract(ctx context.Context, op *_Operation, subOrderID string, mainOrderID string) (model.EventType, int, error) {
	containers, err := c.storage.FindContainersByOrder(ctx, op.tx, model.OrderKindTransport, subOrderID)
	if err != nil {
		return "", -1, err
	}
	switch {
	case len(containers) == 0:
		return model.EventTransportSubcontractCreated, -1, nil
	case len(containers) > 1:
		return "", -1, fmt.Errorf("subcontracted transport order %s: %w", subOrderID, model.ErrOrderNotUnique)
	case containers[0].ID != op.container.ID:
		return "", -1, fmt.Errorf("subcontracted order %s is not for main transport order %s%w", subOrderID, mainOrderID, model.ErrSubcontractMismatch)
	}

	idx, err := findMovement(op.container.Movements, byOrderID(model.OrderKindTransport, subOrderID))
	if err != nil {
		return "", -1, err
	}
	if idx < 0 {
		return "", -1, fmt.Errorf("transport order %s: %w", subOrderID, model.ErrMovementNotFound)
	}
	return model.EventTransportSubcontractChanged, idx, nil
}

// inheritTransportOrder fills what the subcontracted order leaves unset from the main order.
func inheritTransportOrder(order *model.TransportOrder, main model.TransportOrder) {
	if order.ForwardingParty == nil {
		order.ForwardingParty = main.ForwardingParty.Clone()
	}
	if order.SenderParty == nil {
		order.SenderParty = main.SenderParty.Clone()
	}
	if order.ReceiverParty == nil {
		order.ReceiverParty = main.ReceiverParty.Clone()
	}
	if order.RequestedShipmentTime == nil {
		order.RequestedShipmentTime = main.RequestedShipmentTime
	}
	if order.RequestedDeliveryTime == nil {
		order.RequestedDeliveryTime = main.RequestedDeliveryTime
	}
}

// findContainerByOrder returns the only container whose index of the kind holds orderID.
func (c *_MovementController) findContainerByOrder(ctx context.Context, tx storage.Tx, kind model.OrderKind, orderID string) (model.Container, error) {
	containers, err := c.storage.FindContainersByOrder(ctx, tx, kind, orderID)
	if err != nil {
		return model.Container{}, err
	}
	switch len(containers) {
	case 0:
		return model.Container{}, fmt.Errorf("%s order %s: %w", kind, orderID, model.ErrOrderNotFound)
	case 1:
		return containers[0], nil
	default:
		return model.Container{}, fmt.Errorf("%s order %s: %w", kind, orderID, model.ErrOrderNotUnique)
	}
}
