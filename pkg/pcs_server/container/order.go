package container

import (
	"context"
	"fmt"

	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/party"
	"github.com/samber/lo"
)

func (c *_MovementController) releaseOrderWithDefaults(op *_Operation, in *model.ReleaseOrder) *model.ReleaseOrder {
	order := *in
	if order.OrderingParty == nil {
		order.OrderingParty = op.container.DischargeShippingAgent.Clone()
	}
	if order.ReleaseParty == nil {
		order.ReleaseParty = op.container.DischargeTerminalOperator.Clone()
	}
	return &order
}

func (c *_MovementController) acceptanceOrderWithDefaults(op *_Operation, in *model.AcceptanceOrder) *model.AcceptanceOrder {
	order := *in
	if order.OrderingParty == nil {
		order.OrderingParty = op.container.DischargeShippingAgent.Clone()
	}
	if order.AcceptanceParty == nil {
		order.AcceptanceParty = op.container.DischargeTerminalOperator.Clone()
	}
	return &order
}

// transportOrderWithDefaults fills the parties the transport order omits. Merchant haulage is
// ordered by the bill of lading holder, any other by the discharge shipping agent. The sender
// is the release party of the movement.
func (c *_MovementController) transportOrderWithDefaults(op *_Operation, mv *model.Movement, in MovementInput) *model.TransportOrder {
	order := *in.TransportOrder
	if order.OrderingParty == nil {
		if mv.TransportType == model.TransportTypeMerchant {
			order.OrderingParty = op.bl.BLHolder.Clone()
		} else {
			order.OrderingParty = op.container.DischargeShippingAgent.Clone()
		}
	}
	if order.ForwardingParty == nil {
		order.ForwardingParty = op.bl.BLHolder.Clone()
	}
	if order.SenderParty == nil {
		if in.ReleaseOrder != nil && in.ReleaseOrder.ReleaseParty != nil {
			order.SenderParty = in.ReleaseOrder.ReleaseParty.Clone()
		} else if release := effectiveReleaseOrder(&op.container, mv); release != nil {
			order.SenderParty = release.ReleaseParty.Clone()
		} else {
			order.SenderParty = op.container.DischargeTerminalOperator.Clone()
		}
	}
	if order.ReceiverParty == nil {
		order.ReceiverParty = op.bl.Consignee.Clone()
	}
	return &order
}

// resolveAll resolves the parties in place.
func (c *_MovementController) resolveAll(ctx context.Context, op *_Operation, parties ...**model.Party) error {
	for _, p := range parties {
		resolved, err := c.resolver.Resolve(ctx, op.tx, *p)
		if err != nil {
			return err
		}
		*p = resolved
	}
	return nil
}

// index records orderID in the order index of the container, replacing previousID when the
// order changed its number or ordering organization.
func index(list []string, previousID string, orderID string) []string {
	if previousID != "" && previousID != orderID {
		list = lo.Without(list, previousID)
	}
	if !lo.Contains(list, orderID) {
		list = append(list, orderID)
	}
	return list
}

// heldBy tells whether a movement of the container still has orderID as its own order.
func heldBy(movements []model.Movement, kind model.OrderKind, orderID string) bool {
	return lo.ContainsBy(movements, func(m model.Movement) bool { return m.OrderID(kind) == orderID })
}

// shareReleaseOrder makes mv use the release order of its main movement. An own order it had
// is dropped from the container unless it was executed.
func shareReleaseOrder(op *_Operation, mv *model.Movement) error {
	if existing := mv.ReleaseOrder; existing != nil {
		orderID := mv.OrderID(model.OrderKindRelease)
		if existing.Executed() {
			return fmt.Errorf("release order %s: %w", orderID, model.ErrOrderExecuted)
		}
		mv.ReleaseOrder = nil
		if !heldBy(op.container.Movements, model.OrderKindRelease, orderID) {
			op.container.ReleaseOrders = lo.Without(op.container.ReleaseOrders, orderID)
		}
		op.emit(model.EventReleaseOrderRemoved, orderID, existing.OrderingParty.Office(), existing.ReleaseParty.Office())
	}
	mv.ReleaseOrderShared = true
	return nil
}

func shareAcceptanceOrder(op *_Operation, mv *model.Movement) error {
	if existing := mv.AcceptanceOrder; existing != nil {
		orderID := mv.OrderID(model.OrderKindAcceptance)
		if existing.Executed() {
			return fmt.Errorf("acceptance order %s: %w", orderID, model.ErrOrderExecuted)
		}
		mv.AcceptanceOrder = nil
		if !heldBy(op.container.Movements, model.OrderKindAcceptance, orderID) {
			op.container.AcceptanceOrders = lo.Without(op.container.AcceptanceOrders, orderID)
		}
		op.emit(model.EventAcceptanceOrderRemoved, orderID, existing.OrderingParty.Office(), existing.AcceptanceParty.Office())
	}
	mv.AcceptanceOrderShared = true
	return nil
}

func checkOrderCreation(kind model.OrderKind, orderNumber string, orderingParty *model.Party) error {
	if orderNumber == "" || orderingParty.OrganizationCode() == "" {
		return fmt.Errorf("%s order: %w", kind, model.ErrOrderIncomplete)
	}
	return nil
}

func (c *_MovementController) applyReleaseOrder(ctx context.Context, op *_Operation, mv *model.Movement, in *model.ReleaseOrder) error {
	existing := mv.ReleaseOrder
	eventType := model.EventReleaseOrderCreated
	previousID := ""
	if existing != nil {
		if existing.Executed() {
			return fmt.Errorf("release order %s: %w", mv.OrderID(model.OrderKindRelease), model.ErrOrderExecuted)
		}
		eventType = model.EventReleaseOrderChanged
		previousID = mv.OrderID(model.OrderKindRelease)
	}
	if err := checkOrderCreation(model.OrderKindRelease, in.OrderNumber, in.OrderingParty); err != nil {
		return err
	}

	order := *in
	if err := c.resolveAll(ctx, op, &order.OrderingParty, &order.ReleaseParty); err != nil {
		return err
	}
	order.ReleaseTime = nil
	if existing != nil && order.TransportDetails == nil {
		order.TransportDetails = existing.TransportDetails
	}
	mv.ReleaseOrder = &order
	mv.ReleaseOrderShared = false

	orderID := model.OrderID(order.OrderNumber, order.OrderingParty)
	op.container.ReleaseOrders = index(op.container.ReleaseOrders, previousID, orderID)
	op.emit(eventType, orderID,
		order.OrderingParty.Office(), order.ReleaseParty.Office(),
		op.bl.BLHolder.Office(), op.bl.DischargeShippingAgent.Office())

	if existing != nil {
		removed := party.RemovedOffices(
			[]*model.Party{existing.OrderingParty, existing.ReleaseParty},
			[]*model.Party{order.OrderingParty, order.ReleaseParty},
		)
		op.emit(model.EventReleaseOrderRemoved, orderID, removed...)
	}
	return nil
}

func (c *_MovementController) applyAcceptanceOrder(ctx context.Context, op *_Operation, mv *model.Movement, in *model.AcceptanceOrder) error {
	existing := mv.AcceptanceOrder
	eventType := model.EventAcceptanceOrderCreated
	previousID := ""
	if existing != nil {
		if existing.Executed() {
			return fmt.Errorf("acceptance order %s: %w", mv.OrderID(model.OrderKindAcceptance), model.ErrOrderExecuted)
		}
		eventType = model.EventAcceptanceOrderChanged
		previousID = mv.OrderID(model.OrderKindAcceptance)
	}
	if err := checkOrderCreation(model.OrderKindAcceptance, in.OrderNumber, in.OrderingParty); err != nil {
		return err
	}

	order := *in
	if err := c.resolveAll(ctx, op, &order.OrderingParty, &order.AcceptanceParty); err != nil {
		return err
	}
	order.AcceptanceTime = nil
	if existing != nil && order.TransportDetails == nil {
		order.TransportDetails = existing.TransportDetails
	}
	mv.AcceptanceOrder = &order
	mv.AcceptanceOrderShared = false

	orderID := model.OrderID(order.OrderNumber, order.OrderingParty)
	op.container.AcceptanceOrders = index(op.container.AcceptanceOrders, previousID, orderID)
	op.emit(eventType, orderID,
		order.OrderingParty.Office(), order.AcceptanceParty.Office(),
		op.bl.BLHolder.Office(), op.bl.DischargeShippingAgent.Office())

	if existing != nil {
		removed := party.RemovedOffices(
			[]*model.Party{existing.OrderingParty, existing.AcceptanceParty},
			[]*model.Party{order.OrderingParty, order.AcceptanceParty},
		)
		op.emit(model.EventAcceptanceOrderRemoved, orderID, removed...)
	}
	return nil
}

func (c *_MovementController) applyTransportOrder(ctx context.Context, op *_Operation, mv *model.Movement, in *model.TransportOrder) error {
	existing := mv.TransportOrder
	eventType := model.EventTransportOrderCreated
	previousID := ""
	if existing != nil {
		if existing.Executed() {
			return fmt.Errorf("transport order %s: %w", mv.OrderID(model.OrderKindTransport), model.ErrOrderExecuted)
		}
		eventType = model.EventTransportOrderChanged
		previousID = mv.OrderID(model.OrderKindTransport)
	}
	if err := checkOrderCreation(model.OrderKindTransport, in.OrderNumber, in.OrderingParty); err != nil {
		return err
	}

	order := *in
	if err := c.resolveAll(ctx, op,
		&order.OrderingParty, &order.ForwardingParty, &order.SenderParty, &order.CarrierParty, &order.ReceiverParty,
	); err != nil {
		return err
	}
	order.ShipmentTime = nil
	order.DeliveryTime = nil
	if existing != nil {
		if order.TransportDetails == nil {
			order.TransportDetails = existing.TransportDetails
		}
		if order.Charges == nil {
			order.Charges = existing.Charges
		}
	}
	mv.TransportOrder = &order

	orderID := model.OrderID(order.OrderNumber, order.OrderingParty)
	op.container.TransportOrders = index(op.container.TransportOrders, previousID, orderID)
	op.emit(eventType, orderID,
		order.OrderingParty.Office(), order.ForwardingParty.Office(), order.SenderParty.Office(),
		order.CarrierParty.Office(), order.ReceiverParty.Office(),
		op.bl.BLHolder.Office(), op.bl.DischargeShippingAgent.Office())

	if existing != nil {
		removed := party.RemovedOffices(
			[]*model.Party{existing.OrderingParty, existing.ForwardingParty, existing.SenderParty, existing.CarrierParty, existing.ReceiverParty},
			[]*model.Party{order.OrderingParty, order.ForwardingParty, order.SenderParty, order.CarrierParty, order.ReceiverParty},
		)
		op.emit(model.EventTransportOrderRemoved, orderID, removed...)
	}
	return nil
}
