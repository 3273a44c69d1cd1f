package bill_of_lading

import (
	"context"
	"fmt"

	otlp_util "github.com/bluexlab/otlp-util-go"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/release"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type TransferRequest struct {
	Requester string      `json:"requester"`
	ID        string      `json:"id"`
	NewHolder model.Party `json:"new_holder"`
}

type ReleaseRequest struct {
	Requester     string              `json:"requester"`
	ID            string              `json:"id"`
	DeliveryOrder model.DeliveryOrder `json:"delivery_order"`
}

type NotifyPaymentRequest struct {
	Requester      string      `json:"requester"`
	ID             string      `json:"id"`
	PaymentDate    *model.Date `json:"payment_date"` // Defaults to the day of the notification.
	ProofOfPayment string      `json:"proof_of_payment"`
}

type RequestDeliveryRequest struct {
	Requester             string              `json:"requester"`
	ID                    string              `json:"id"`
	RequestedDeliveryTime *model.DateTime     `json:"requested_delivery_time"`
	TransportType         model.TransportType `json:"transport_type"`
}

func (m *_BillOfLadingManager) Transfer(ctx context.Context, ts int64, req TransferRequest) (model.BillOfLading, error) {
	ctx, span := otlp_util.Start(ctx, "pcs_server/bill_of_lading/Transfer",
		trace.WithAttributes(attribute.String("requester", req.Requester), attribute.String("bl_id", req.ID)))
	defer span.End()

	if err := ValidateTransferRequest(req); err != nil {
		return model.BillOfLading{}, err
	}

	var bl model.BillOfLading
	err := m.inTx(ctx, func(ctx context.Context, tx storage.Tx) (err error) {
		bl, err = m.load(ctx, tx, req.ID, ActionTransfer)
		if err != nil {
			return err
		}
		if err := m.authorize(ctx, tx, req.Requester, ActionTransfer, bl, nil); err != nil {
			return err
		}

		newHolder, err := m.resolver.Resolve(ctx, tx, &req.NewHolder)
		if err != nil {
			return err
		}
		oldHolder := bl.BLHolder
		bl.BLHolder = newHolder
		touch(&bl, ts, req.Requester)

		if err := m.save(ctx, tx, &bl, false); err != nil {
			return err
		}
		return m.publish(ctx, tx, ts, model.EventBLTransferred, bl, oldHolder.Office())
	})
	if err != nil {
		return model.BillOfLading{}, err
	}
	return bl, nil
}

// Release stores the delivery order issued by the discharge agent and releases the cargo
// when the release conditions hold.
func (m *_BillOfLadingManager) Release(ctx context.Context, ts int64, req ReleaseRequest) (model.BillOfLading, error) {
	ctx, span := otlp_util.Start(ctx, "pcs_server/bill_of_lading/Release",
		trace.WithAttributes(attribute.String("requester", req.Requester), attribute.String("bl_id", req.ID)))
	defer span.End()

	if err := ValidateReleaseRequest(req); err != nil {
		return model.BillOfLading{}, err
	}

	var bl model.BillOfLading
	err := m.inTx(ctx, func(ctx context.Context, tx storage.Tx) (err error) {
		bl, err = m.load(ctx, tx, req.ID, ActionRelease)
		if err != nil {
			return err
		}
		if err := m.authorize(ctx, tx, req.Requester, ActionRelease, bl, nil); err != nil {
			return err
		}

		bl.DeliveryOrder = mergeDeliveryOrder(bl.DeliveryOrder, req.DeliveryOrder)
		touch(&bl, ts, req.Requester)

		payment, err := m.getPayment(ctx, tx, bl)
		if err != nil {
			return err
		}
		if chargesPaid := bl.DeliveryOrder.BLChargesPaymentDate; chargesPaid != nil && payment != nil && payment.PaymentDate == nil {
			paymentDate := *chargesPaid
			payment.PaymentDate = &paymentDate
			payment.Version++
			payment.UpdatedAt = ts
			if err := m.storage.UpdatePayment(ctx, tx, *payment); err != nil {
				return err
			}
		}

		var released bool
		bl, released = release.Evaluate(bl, payment, model.NewDateFromUnix(ts))
		if err := m.save(ctx, tx, &bl, false); err != nil {
			return err
		}
		if released {
			return m.publish(ctx, tx, ts, model.EventBLReleased, bl)
		}
		return nil
	})
	if err != nil {
		return model.BillOfLading{}, err
	}
	return bl, nil
}

// NotifyPayment records the payment of the freight charges. The date notified by the bank
// of the payment confirms it, the one notified by the holder is informative.
func (m *_BillOfLadingManager) NotifyPayment(ctx context.Context, ts int64, req NotifyPaymentRequest) (model.BillOfLading, error) {
	ctx, span := otlp_util.Start(ctx, "pcs_server/bill_of_lading/NotifyPayment",
		trace.WithAttributes(attribute.String("requester", req.Requester), attribute.String("bl_id", req.ID)))
	defer span.End()

	if err := ValidateNotifyPaymentRequest(req); err != nil {
		return model.BillOfLading{}, err
	}

	var bl model.BillOfLading
	err := m.inTx(ctx, func(ctx context.Context, tx storage.Tx) (err error) {
		bl, err = m.load(ctx, tx, req.ID, ActionNotifyPayment)
		if err != nil {
			return err
		}
		payment, err := m.getPayment(ctx, tx, bl)
		if err != nil {
			return err
		}
		if payment == nil {
			return fmt.Errorf("bill of lading %s cannot be %s because it has no freight charges: %w", bl.ID, ActionNotifyPayment.Verb(), model.ErrPaymentNotFound)
		}
		if err := m.authorize(ctx, tx, req.Requester, ActionNotifyPayment, bl, payment); err != nil {
			return err
		}

		today := model.NewDateFromUnix(ts)
		paymentDate := pick(req.PaymentDate, &today)
		if bank := payment.Bank.Office(); bank != "" && bank == req.Requester {
			payment.PaymentDate = paymentDate
		} else {
			payment.NotifiedPaymentDate = paymentDate
		}
		payment.ProofOfPayment = pickString(req.ProofOfPayment, payment.ProofOfPayment)
		payment.Version++
		payment.UpdatedAt = ts
		if err := m.storage.UpdatePayment(ctx, tx, *payment); err != nil {
			return err
		}

		touch(&bl, ts, req.Requester)
		var released bool
		bl, released = release.Evaluate(bl, payment, today)
		if err := m.save(ctx, tx, &bl, false); err != nil {
			return err
		}
		if err := m.publish(ctx, tx, ts, model.EventBLPaymentNotified, bl, payment.Bank.Office()); err != nil {
			return err
		}
		if released {
			return m.publish(ctx, tx, ts, model.EventBLReleased, bl)
		}
		return nil
	})
	if err != nil {
		return model.BillOfLading{}, err
	}
	return bl, nil
}

// RequestDelivery records when the holder wants the cargo delivered. Only the discharge agent
// can take the haulage back from the carrier.
func (m *_BillOfLadingManager) RequestDelivery(ctx context.Context, ts int64, req RequestDeliveryRequest) (model.BillOfLading, error) {
	ctx, span := otlp_util.Start(ctx, "pcs_server/bill_of_lading/RequestDelivery",
		trace.WithAttributes(attribute.String("requester", req.Requester), attribute.String("bl_id", req.ID)))
	defer span.End()

	if err := ValidateRequestDeliveryRequest(req); err != nil {
		return model.BillOfLading{}, err
	}

	var bl model.BillOfLading
	err := m.inTx(ctx, func(ctx context.Context, tx storage.Tx) (err error) {
		bl, err = m.load(ctx, tx, req.ID, ActionRequestDelivery)
		if err != nil {
			return err
		}
		if err := m.authorize(ctx, tx, req.Requester, ActionRequestDelivery, bl, nil); err != nil {
			return err
		}

		deliveryOrder := bl.DeliveryOrder.Clone()
		if deliveryOrder == nil {
			deliveryOrder = model.NewDeliveryOrder()
		}
		deliveryOrder.RequestedDeliveryTime = pick(req.RequestedDeliveryTime, deliveryOrder.RequestedDeliveryTime)
		bl.DeliveryOrder = deliveryOrder

		if req.TransportType != "" {
			byAgent := req.Requester == bl.DischargeShippingAgent.Office()
			if !byAgent {
				if byAgent, err = m.resolver.IsOperator(ctx, tx, req.Requester); err != nil {
					return err
				}
			}
			if bl.TransportType != model.TransportTypeCarrier || byAgent {
				bl.TransportType = req.TransportType
			}
		}
		touch(&bl, ts, req.Requester)

		if err := m.save(ctx, tx, &bl, false); err != nil {
			return err
		}
		return m.publish(ctx, tx, ts, model.EventBLDeliveryRequested, bl)
	})
	if err != nil {
		return model.BillOfLading{}, err
	}
	return bl, nil
}
