package bill_of_lading

import (
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/samber/lo"
)

// pick returns the incoming value when it is set, otherwise the stored one.
func pick[T any](incoming, stored *T) *T {
	if incoming != nil {
		return incoming
	}
	return stored
}

func pickString(incoming, stored string) string {
	return lo.Ternary(incoming != "", incoming, stored)
}

// applyDeclaration replaces the descriptive fields of bl with the declared ones. The agents
// and the carrier are fixed when the bill of lading is created.
func applyDeclaration(bl *model.BillOfLading, req DeclarationRequest) {
	decl := req.BillOfLading
	if decl.DischargeTerminalOperator != nil {
		bl.DischargeTerminalOperator = decl.DischargeTerminalOperator
	}
	bl.PortCallID = req.PortCallID
	bl.SummaryDeclarationNumber = pickString(req.SummaryDeclarationNumber, bl.SummaryDeclarationNumber)
	bl.Vessel = decl.Vessel
	bl.Flag = decl.Flag
	bl.VoyageNumber = decl.VoyageNumber
	bl.PlaceOfOrigin = decl.PlaceOfOrigin
	bl.PortOfLoading = decl.PortOfLoading
	bl.PortOfTranshipment = decl.PortOfTranshipment
	bl.PortOfDischarge = decl.PortOfDischarge
	bl.PlaceOfDelivery = decl.PlaceOfDelivery
	bl.CountryOfEntry = decl.CountryOfEntry
	bl.DischargeBerth = decl.DischargeBerth
	bl.DischargePortReferences = decl.DischargePortReferences
	bl.SubsequentTransportMode = decl.SubsequentTransportMode
}

// mergeArrivalNotice applies the fields set in the notice over the stored ones.
func mergeArrivalNotice(bl *model.BillOfLading, notice ArrivalNotice) {
	if notice.BLType != "" {
		bl.BLType = notice.BLType
	}
	bl.HaulierArrangement = pickString(notice.HaulierArrangement, bl.HaulierArrangement)
	bl.ArrivalNoticeDate = pick(notice.ArrivalNoticeDate, bl.ArrivalNoticeDate)
	bl.Shipper = pick(notice.Shipper, bl.Shipper)
	bl.Consignee = pick(notice.Consignee, bl.Consignee)
	bl.BLHolder = pick(notice.BLHolder, bl.BLHolder)
	if bl.BLHolder == nil {
		bl.BLHolder = bl.Consignee.Clone()
	}
	bl.Bank = pick(notice.Bank, bl.Bank)
	bl.FreeDemurrageDays = pick(notice.FreeDemurrageDays, bl.FreeDemurrageDays)
	bl.FreeDetentionDays = pick(notice.FreeDetentionDays, bl.FreeDetentionDays)
}

// mergeDeliveryOrder applies the release fields set in incoming over the stored delivery order.
// The requested delivery time belongs to the delivery request and is kept.
func mergeDeliveryOrder(stored *model.DeliveryOrder, incoming model.DeliveryOrder) *model.DeliveryOrder {
	if stored == nil {
		return &incoming
	}
	merged := stored.Clone()
	merged.DeliveryOrderNumber = pickString(incoming.DeliveryOrderNumber, stored.DeliveryOrderNumber)
	merged.DeliveryOrderDate = pick(incoming.DeliveryOrderDate, stored.DeliveryOrderDate)
	merged.BLSurrenderDate = pick(incoming.BLSurrenderDate, stored.BLSurrenderDate)
	merged.BLChargesPaymentDate = pick(incoming.BLChargesPaymentDate, stored.BLChargesPaymentDate)
	merged.FreeDemurrageDate = pick(incoming.FreeDemurrageDate, stored.FreeDemurrageDate)
	merged.FreeDetentionDate = pick(incoming.FreeDetentionDate, stored.FreeDetentionDate)
	merged.RequestedDeliveryDate = pick(incoming.RequestedDeliveryDate, stored.RequestedDeliveryDate)
	return merged
}

// newFreightPayment builds the freight charges payment of bl. Subtotal defaults to the sum
// of the charges and total to subtotal plus taxes.
func newFreightPayment(ts int64, bl model.BillOfLading, charges FreightCharges) model.Payment {
	today := model.NewDateFromUnix(ts)
	payment := model.Payment{
		ID:            bl.ID,
		Version:       1,
		Status:        model.PaymentStatusRegistered,
		From:          bl.DischargeShippingAgent,
		To:            pick(charges.To, bl.BLHolder),
		IssueDate:     pick(charges.IssueDate, &today),
		DueDate:       charges.DueDate,
		InvoiceNumber: charges.InvoiceNumber,
		Subject:       charges.Subject,
		References:    charges.References,
		Exchange:      charges.Exchange,
		Charges:       charges.Charges,
		Subtotal:      charges.Subtotal,
		Taxes:         charges.Taxes,
		Total:         charges.Total,
		PaymentMethod: charges.PaymentMethod,
		BankAccount:   charges.BankAccount,
		Bank:          pick(charges.Bank, bl.Bank),
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}

	if payment.Subtotal == nil && len(payment.Charges) > 0 {
		subtotal := model.SumDecimals(lo.Map(payment.Charges, func(c model.Charge, _ int) model.Decimal { return c.Amount })...)
		payment.Subtotal = &subtotal
	}
	if payment.Total == nil && payment.Subtotal != nil {
		total := *payment.Subtotal
		if payment.Taxes != nil {
			total = total.Add(*payment.Taxes)
		}
		payment.Total = &total
	}
	return payment
}
