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

// searchOrder is the order in which the order kinds are searched for an order id.
var searchOrder = []model.OrderKind{model.OrderKindTransport, model.OrderKindRelease, model.OrderKindAcceptance}

// NotifyMovementDetails records the transport details the carrier reports for a movement.
// Each order slot reports whether the details were applied to it. Slots without an order are
// skipped, slots whose order was already executed fail without failing the operation.
func (c *_MovementController) NotifyMovementDetails(ctx context.Context, ts int64, req MovementDetailsRequest) (MovementDetailsResult, error) {
	ctx, span := otlp_util.Start(ctx, "pcs_server/container/NotifyMovementDetails", trace.WithAttributes(attribute.String("order_id", req.OrderID)))
	defer span.End()

	if err := ValidateMovementDetailsRequest(req); err != nil {
		return MovementDetailsResult{}, err
	}

	tx, ctx, err := c.storage.CreateTx(ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelSerializable))
	if err != nil {
		return MovementDetailsResult{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	kind, cn, err := c.locateOrder(ctx, tx, req.OrderID)
	if err != nil {
		return MovementDetailsResult{}, err
	}
	op, err := c.newOperation(ctx, tx, ts, req.Requester, cn)
	if err != nil {
		return MovementDetailsResult{}, err
	}
	idx, err := findMovement(op.container.Movements, byOrderID(kind, req.OrderID))
	if err != nil {
		return MovementDetailsResult{}, err
	}
	if idx < 0 {
		return MovementDetailsResult{}, fmt.Errorf("%s order %s: %w", kind, req.OrderID, model.ErrMovementNotFound)
	}
	mv := &op.container.Movements[idx]

	var allowed []string
	if mv.TransportOrder != nil {
		allowed = append(allowed, mv.TransportOrder.CarrierParty.Office())
	}
	if err := c.resolver.Authorize(ctx, tx, req.Requester, "notify movement details of "+req.OrderID, allowed...); err != nil {
		return MovementDetailsResult{}, err
	}

	releaseDetails := req.ReleaseTransportDetails
	if releaseDetails == nil {
		releaseDetails = req.TransportDetails
	}
	acceptanceDetails := req.AcceptanceTransportDetails
	if acceptanceDetails == nil {
		acceptanceDetails = req.TransportDetails
	}

	slots := []model.SlotResult{
		c.releaseTransportDetails(op, mv, releaseDetails),
		c.acceptanceTransportDetails(op, mv, acceptanceDetails),
		c.transportDetails(op, mv, req.TransportDetails),
	}

	var charges *model.SlotResult
	if req.Charges != nil {
		slot, err := c.transportCharges(ctx, op, mv, req.Charges)
		if err != nil {
			return MovementDetailsResult{}, err
		}
		charges = &slot
	}

	if err := c.save(ctx, op); err != nil {
		return MovementDetailsResult{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return MovementDetailsResult{}, err
	}
	return MovementDetailsResult{Container: op.container, Slots: slots, Charges: charges}, nil
}

// locateOrder finds the container of the order, trying transport, release and acceptance orders.
func (c *_MovementController) locateOrder(ctx context.Context, tx storage.Tx, orderID string) (model.OrderKind, model.Container, error) {
	for _, kind := range searchOrder {
		containers, err := c.storage.FindContainersByOrder(ctx, tx, kind, orderID)
		if err != nil {
			return "", model.Container{}, err
		}
		switch len(containers) {
		case 0:
			continue
		case 1:
			return kind, containers[0], nil
		default:
			return "", model.Container{}, fmt.Errorf("%s order %s: %w", kind, orderID, model.ErrOrderNotUnique)
		}
	}
	return "", model.Container{}, fmt.Errorf("there is no order %s to assign movement details: %w", orderID, model.ErrOrderNotFound)
}

func skipped(kind model.OrderKind, reason string) model.SlotResult {
	return model.SlotResult{Kind: kind, Outcome: model.OutcomeSkipped, Reason: reason}
}

func failed(kind model.OrderKind, reason string) model.SlotResult {
	return model.SlotResult{Kind: kind, Outcome: model.OutcomeFailed, Reason: reason}
}

func applied(kind model.OrderKind) model.SlotResult {
	return model.SlotResult{Kind: kind, Outcome: model.OutcomeApplied}
}

func (c *_MovementController) releaseTransportDetails(op *_Operation, mv *model.Movement, details *model.TransportDetails) model.SlotResult {
	kind := model.OrderKindRelease
	switch {
	case details == nil:
		return skipped(kind, "no transport details")
	case mv.ReleaseOrderShared:
		return skipped(kind, "release order belongs to the main movement")
	case mv.ReleaseOrder == nil:
		return skipped(kind, "no release order")
	case mv.ReleaseOrder.Executed():
		return failed(kind, "release order already executed")
	}

	order := mv.ReleaseOrder
	eventType := model.EventReleaseTransportDetailsAssigned
	if order.TransportDetails != nil {
		eventType = model.EventReleaseTransportDetailsChanged
	}
	td := *details
	order.TransportDetails = &td
	op.emit(eventType, mv.OrderID(kind),
		order.OrderingParty.Office(), order.ReleaseParty.Office(),
		op.bl.BLHolder.Office(), op.bl.DischargeShippingAgent.Office())
	return applied(kind)
}

func (c *_MovementController) acceptanceTransportDetails(op *_Operation, mv *model.Movement, details *model.TransportDetails) model.SlotResult {
	kind := model.OrderKindAcceptance
	switch {
	case details == nil:
		return skipped(kind, "no transport details")
	case mv.AcceptanceOrderShared:
		return skipped(kind, "acceptance order belongs to the main movement")
	case mv.AcceptanceOrder == nil:
		return skipped(kind, "no acceptance order")
	case mv.AcceptanceOrder.Executed():
		return failed(kind, "acceptance order already executed")
	}

	order := mv.AcceptanceOrder
	eventType := model.EventAcceptanceTransportDetailsAssigned
	if order.TransportDetails != nil {
		eventType = model.EventAcceptanceTransportDetailsChanged
	}
	td := *details
	order.TransportDetails = &td
	op.emit(eventType, mv.OrderID(kind),
		order.OrderingParty.Office(), order.AcceptanceParty.Office(),
		op.bl.BLHolder.Office(), op.bl.DischargeShippingAgent.Office())
	return applied(kind)
}

func (c *_MovementController) transportDetails(op *_Operation, mv *model.Movement, details *model.TransportDetails) model.SlotResult {
	kind := model.OrderKindTransport
	switch {
	case details == nil:
		return skipped(kind, "no transport details")
	case mv.TransportOrder == nil:
		return skipped(kind, "no transport order")
	case mv.TransportOrder.Executed():
		return failed(kind, "transport order already executed")
	}

	order := mv.TransportOrder
	eventType := model.EventTransportDetailsAssigned
	if order.TransportDetails != nil {
		eventType = model.EventTransportDetailsChanged
	}
	td := *details
	order.TransportDetails = &td
	op.emit(eventType, mv.OrderID(kind),
		order.OrderingParty.Office(), order.CarrierParty.Office(),
		op.bl.BLHolder.Office(), op.bl.DischargeShippingAgent.Office())
	return applied(kind)
}

// transportCharges attaches the charges to the transport order. The total defaults to the sum
// of the charges. An executed transport order keeps its charges.
func (c *_MovementController) transportCharges(ctx context.Context, op *_Operation, mv *model.Movement, in *model.TransportCharges) (model.SlotResult, error) {
	kind := model.OrderKindTransport
	if mv.TransportOrder == nil {
		return model.SlotResult{}, fmt.Errorf("charges need a transport order in movement %s%w", mv.ID, model.ErrValidation)
	}
	order := mv.TransportOrder
	if order.Executed() {
		err := fmt.Errorf("transport order %s: %w", mv.OrderID(kind), model.ErrOrderExecuted)
		return failed(kind, err.Error()), nil
	}

	charges := *in
	charges.Charges = append([]model.Charge{}, in.Charges...)
	if err := c.resolveAll(ctx, op, &charges.Bank); err != nil {
		return model.SlotResult{}, err
	}
	if charges.Total == nil {
		total := model.SumDecimals(chargeAmounts(charges.Charges)...)
		charges.Total = &total
	}

	eventType := model.EventTransportChargesRegistered
	if order.Charges != nil {
		eventType = model.EventTransportChargesChanged
	}
	order.Charges = &charges
	op.emit(eventType, mv.OrderID(kind),
		order.OrderingParty.Office(), order.CarrierParty.Office(), charges.Bank.Office())
	return applied(kind), nil
}

func chargeAmounts(charges []model.Charge) []model.Decimal {
	amounts := make([]model.Decimal, 0, len(charges))
	for _, charge := range charges {
		amounts = append(amounts, charge.Amount)
	}
	return amounts
}
