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

// ArrivalNotice carries the data the discharge agent learns when the cargo arrives.
// Unset fields keep the stored values.
type ArrivalNotice struct {
	BLType             model.BLType `json:"bl_type"`
	HaulierArrangement string       `json:"haulier_arrangement"`
	ArrivalNoticeDate  *model.Date  `json:"arrival_notice_date"`
	Shipper            *model.Party `json:"shipper"`
	Consignee          *model.Party `json:"consignee"`
	BLHolder           *model.Party `json:"bl_holder"` // Defaults to the consignee.
	Bank               *model.Party `json:"bank"`
	FreeDemurrageDays  *int         `json:"free_demurrage_days"`
	FreeDetentionDays  *int         `json:"free_detention_days"`
}

// FreightCharges are the charges invoiced to the holder at arrival.
type FreightCharges struct {
	To            *model.Party        `json:"to"` // Defaults to the BL holder.
	IssueDate     *model.Date         `json:"issue_date"`
	DueDate       *model.Date         `json:"due_date"`
	InvoiceNumber string              `json:"invoice_number"`
	Subject       string              `json:"subject"`
	References    []string            `json:"references"`
	Exchange      string              `json:"exchange"`
	Charges       []model.Charge      `json:"charges"`
	Subtotal      *model.Decimal      `json:"subtotal"`
	Taxes         *model.Decimal      `json:"taxes"`
	Total         *model.Decimal      `json:"total"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	BankAccount   string              `json:"bank_account"`
	Bank          *model.Party        `json:"bank"` // Defaults to the bank of the bill of lading.
}

type ArrivalNotificationRequest struct {
	Requester string          `json:"requester"`
	ID        string          `json:"id"`
	Notice    ArrivalNotice   `json:"notice"`
	Charges   *FreightCharges `json:"charges"`
}

func (m *_BillOfLadingManager) ArrivalNotification(ctx context.Context, ts int64, req ArrivalNotificationRequest) (model.BillOfLading, error) {
	ctx, span := otlp_util.Start(ctx, "pcs_server/bill_of_lading/ArrivalNotification",
		trace.WithAttributes(attribute.String("requester", req.Requester), attribute.String("bl_id", req.ID)))
	defer span.End()

	if err := ValidateArrivalNotificationRequest(req); err != nil {
		return model.BillOfLading{}, err
	}

	var bl model.BillOfLading
	err := m.inTx(ctx, func(ctx context.Context, tx storage.Tx) (err error) {
		bl, err = m.arrivalNotification(ctx, tx, ts, req)
		return err
	})
	if err != nil {
		return model.BillOfLading{}, err
	}
	return bl, nil
}

func (m *_BillOfLadingManager) arrivalNotification(ctx context.Context, tx storage.Tx, ts int64, req ArrivalNotificationRequest) (model.BillOfLading, error) {
	bl, err := m.load(ctx, tx, req.ID, ActionArrivalNotification)
	if err != nil {
		return model.BillOfLading{}, err
	}
	if err := m.authorize(ctx, tx, req.Requester, ActionArrivalNotification, bl, nil); err != nil {
		return model.BillOfLading{}, err
	}

	notice := req.Notice
	for _, p := range []**model.Party{&notice.Shipper, &notice.Consignee, &notice.BLHolder, &notice.Bank} {
		if *p, err = m.resolver.Resolve(ctx, tx, *p); err != nil {
			return model.BillOfLading{}, err
		}
	}
	mergeArrivalNotice(&bl, notice)
	touch(&bl, ts, req.Requester)

	if req.Charges != nil {
		payment, err := m.createFreightPayment(ctx, tx, ts, bl, *req.Charges)
		if err != nil {
			return model.BillOfLading{}, err
		}
		bl.PaymentID = payment.ID
	}

	payment, err := m.getPayment(ctx, tx, bl)
	if err != nil {
		return model.BillOfLading{}, err
	}
	bl, released := release.Evaluate(bl, payment, model.NewDateFromUnix(ts))

	if err := m.save(ctx, tx, &bl, false); err != nil {
		return model.BillOfLading{}, err
	}
	if err := m.publish(ctx, tx, ts, model.EventBLArrivalNotified, bl); err != nil {
		return model.BillOfLading{}, err
	}
	if released {
		if err := m.publish(ctx, tx, ts, model.EventBLReleased, bl); err != nil {
			return model.BillOfLading{}, err
		}
	}
	return bl, nil
}

func (m *_BillOfLadingManager) createFreightPayment(ctx context.Context, tx storage.Tx, ts int64, bl model.BillOfLading, charges FreightCharges) (model.Payment, error) {
	exist, err := m.storage.PaymentExists(ctx, tx, bl.ID)
	if err != nil {
		return model.Payment{}, err
	}
	if exist {
		return model.Payment{}, fmt.Errorf("freight charges of bill of lading %s: %w", bl.ID, model.ErrPaymentAlreadyExists)
	}

	if charges.To, err = m.resolver.Resolve(ctx, tx, charges.To); err != nil {
		return model.Payment{}, err
	}
	if charges.Bank, err = m.resolver.Resolve(ctx, tx, charges.Bank); err != nil {
		return model.Payment{}, err
	}
	payment := newFreightPayment(ts, bl, charges)
	if err := m.storage.AddPayment(ctx, tx, payment); err != nil {
		return model.Payment{}, err
	}

	_, err = m.publisher.Publish(ctx, tx, ts, model.Event{
		Type:      model.EventFreightChargesCreated,
		SubjectID: payment.ID,
		Offices:   []string{payment.From.Office(), payment.To.Office(), payment.Bank.Office()},
		BLID:      bl.ID,
	})
	if err != nil {
		return model.Payment{}, err
	}
	return payment, nil
}
