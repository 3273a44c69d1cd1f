// Package release decides when the cargo of a bill of lading can be released.
package release

import "github.com/openpcs/openpcs/pkg/pcs_server/model"

// Evaluate returns bl released and true when one of the release conditions holds:
//
//   - the delivery order has a delivery order date;
//   - the original bill of lading was surrendered and the payment is cleared;
//   - the bill of lading is a sea waybill and the payment is cleared.
//
// Only REGISTERED bills of lading are evaluated. Derived delivery order fields are only
// filled when they are unset, so evaluating a released bill of lading again changes nothing.
func Evaluate(bl model.BillOfLading, payment *model.Payment, today model.Date) (model.BillOfLading, bool) {
	if bl.Status != model.BillOfLadingStatusRegistered {
		return bl, false
	}
	if !releasable(bl, payment) {
		return bl, false
	}

	bl.Status = model.BillOfLadingStatusReleased
	deliveryOrder := bl.DeliveryOrder.Clone()
	if deliveryOrder == nil {
		deliveryOrder = model.NewDeliveryOrder()
	}
	if deliveryOrder.DeliveryOrderNumber == "" {
		deliveryOrder.DeliveryOrderNumber = bl.BLNumber
	}
	if deliveryOrder.DeliveryOrderDate == nil {
		deliveryOrder.DeliveryOrderDate = &today
	}
	if deliveryOrder.FreeDemurrageDate == nil && bl.FreeDemurrageDays != nil {
		date := today.AddDays(*bl.FreeDemurrageDays)
		deliveryOrder.FreeDemurrageDate = &date
	}
	if deliveryOrder.FreeDetentionDate == nil && bl.FreeDetentionDays != nil {
		date := today.AddDays(*bl.FreeDetentionDays)
		deliveryOrder.FreeDetentionDate = &date
	}
	bl.DeliveryOrder = deliveryOrder
	return bl, true
}

func releasable(bl model.BillOfLading, payment *model.Payment) bool {
	deliveryOrder := bl.DeliveryOrder
	switch {
	case deliveryOrder != nil && deliveryOrder.DeliveryOrderDate != nil:
		return true
	case deliveryOrder != nil && deliveryOrder.BLSurrenderDate != nil:
		return payment.Cleared()
	case bl.BLType == model.BLTypeSeawaybill:
		return payment.Cleared()
	default:
		return false
	}
}
