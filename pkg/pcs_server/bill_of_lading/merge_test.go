package bill_of_lading

import (
	"testing"

	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeDeliveryOrder(t *testing.T) {
	surrender := model.NewDateFromStringNoError("2024-06-01")
	requested := model.NewDateTimeFromUnix(1717977600)
	stored := &model.DeliveryOrder{
		DeliveryOrderNumber:   "DO-1",
		BLSurrenderDate:       &surrender,
		RequestedDeliveryTime: &requested,
	}

	doDate := model.NewDateFromStringNoError("2024-06-10")
	merged := mergeDeliveryOrder(stored, model.DeliveryOrder{DeliveryOrderDate: &doDate})
	assert.Equal(t, "DO-1", merged.DeliveryOrderNumber)
	assert.True(t, merged.BLSurrenderDate.Equal(surrender))
	assert.True(t, merged.DeliveryOrderDate.Equal(doDate))
	assert.Equal(t, requested.Unix(), merged.RequestedDeliveryTime.Unix())
	assert.Nil(t, stored.DeliveryOrderDate)

	first := mergeDeliveryOrder(nil, model.DeliveryOrder{DeliveryOrderNumber: "DO-2"})
	assert.Equal(t, &model.DeliveryOrder{DeliveryOrderNumber: "DO-2"}, first)
}

func TestMergeArrivalNotice(t *testing.T) {
	days := 7
	bl := model.BillOfLading{
		BLType:            model.BLTypeOriginal,
		FreeDemurrageDays: &days,
	}
	consignee := &model.Party{Organization: model.Organization{Code: "HOLDER"}, OfficeID: "office-holder"}

	mergeArrivalNotice(&bl, ArrivalNotice{Consignee: consignee})
	assert.Equal(t, model.BLTypeOriginal, bl.BLType)
	assert.Equal(t, 7, *bl.FreeDemurrageDays)
	require.NotNil(t, bl.BLHolder)
	assert.Equal(t, "office-holder", bl.BLHolder.Office())

	forwarder := &model.Party{Organization: model.Organization{Code: "FWD"}, OfficeID: "office-fwd"}
	mergeArrivalNotice(&bl, ArrivalNotice{BLType: model.BLTypeSeawaybill, BLHolder: forwarder})
	assert.Equal(t, model.BLTypeSeawaybill, bl.BLType)
	assert.Equal(t, "office-fwd", bl.BLHolder.Office())
	assert.Equal(t, "office-holder", bl.Consignee.Office())
}

func TestNewFreightPayment(t *testing.T) {
	holder := &model.Party{Organization: model.Organization{Code: "HOLDER"}, OfficeID: "office-holder"}
	bl := model.BillOfLading{
		ID:                     "BL1@CARR",
		DischargeShippingAgent: model.Party{Organization: model.Organization{Code: "AGENT"}, OfficeID: "office-agent"},
		BLHolder:               holder,
	}

	payment := newFreightPayment(1717977600, bl, FreightCharges{
		Charges: []model.Charge{{Code: "FRT", Amount: model.MustDecimal("10.25")}, {Code: "BAF", Amount: model.MustDecimal("4.75")}},
	})
	assert.Equal(t, "BL1@CARR", payment.ID)
	assert.Equal(t, model.PaymentStatusRegistered, payment.Status)
	assert.Equal(t, "office-holder", payment.To.Office())
	assert.Equal(t, "2024-06-10", payment.IssueDate.String())
	require.NotNil(t, payment.Total)
	assert.True(t, payment.Subtotal.Equal(model.MustDecimal("15")))
	assert.True(t, payment.Total.Equal(model.MustDecimal("15")))

	total := model.MustDecimal("99")
	payment = newFreightPayment(1717977600, bl, FreightCharges{Total: &total})
	assert.Nil(t, payment.Subtotal)
	assert.True(t, payment.Total.Equal(total))
}

func TestGetAllowActions(t *testing.T) {
	bl := model.BillOfLading{
		ID:                     "BL1@CARR",
		Status:                 model.BillOfLadingStatusReleased,
		ShippingAgent:          model.Party{OfficeID: "office-agent"},
		DischargeShippingAgent: model.Party{OfficeID: "office-agent"},
		BLHolder:               &model.Party{OfficeID: "office-holder"},
	}
	payment := &model.Payment{Bank: &model.Party{OfficeID: "office-bank"}}

	assert.ElementsMatch(t, []Action{ActionChange, ActionChangeGoodsItems, ActionArrivalNotification, ActionTransfer, ActionRequestDelivery},
		GetAllowActions(bl, payment, "office-agent"))
	assert.ElementsMatch(t, []Action{ActionTransfer, ActionRequestDelivery}, GetAllowActions(bl, payment, "office-holder"))
	assert.Empty(t, GetAllowActions(bl, payment, "office-bank"))

	bl.Status = model.BillOfLadingStatusRegistered
	assert.Equal(t, []Action{ActionNotifyPayment}, GetAllowActions(bl, payment, "office-bank"))
}
