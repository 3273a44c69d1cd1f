package bill_of_lading

import (
	"fmt"

	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/samber/lo"
)

type Action string

const (
	ActionRead                Action = "READ"
	ActionChange              Action = "CHANGE"
	ActionRemove              Action = "REMOVE"
	ActionChangeGoodsItems    Action = "CHANGE_GOODS_ITEMS"
	ActionArrivalNotification Action = "ARRIVAL_NOTIFICATION"
	ActionTransfer            Action = "TRANSFER"
	ActionRelease             Action = "RELEASE"
	ActionNotifyPayment       Action = "NOTIFY_PAYMENT"
	ActionRequestDelivery     Action = "REQUEST_DELIVERY"
)

var _ActionVerbs = map[Action]string{
	ActionRead:                "read",
	ActionChange:              "changed",
	ActionRemove:              "removed",
	ActionChangeGoodsItems:    "changed",
	ActionArrivalNotification: "notified of arrival",
	ActionTransfer:            "transferred",
	ActionRelease:             "released",
	ActionNotifyPayment:       "notified of payment",
	ActionRequestDelivery:     "requested for delivery",
}

func (a Action) Verb() string {
	return _ActionVerbs[a]
}

var (
	_RegisteredOnly = []model.BillOfLadingStatus{model.BillOfLadingStatusRegistered}
	_Active         = []model.BillOfLadingStatus{model.BillOfLadingStatusRegistered, model.BillOfLadingStatusReleased}
)

var _AllowedStatuses = map[Action][]model.BillOfLadingStatus{
	ActionRead:                {model.BillOfLadingStatusRegistered, model.BillOfLadingStatusReleased, model.BillOfLadingStatusCancelled},
	ActionChange:              _Active,
	ActionRemove:              _RegisteredOnly,
	ActionChangeGoodsItems:    _Active,
	ActionArrivalNotification: _Active,
	ActionTransfer:            _Active,
	ActionRelease:             _RegisteredOnly,
	ActionNotifyPayment:       _RegisteredOnly,
	ActionRequestDelivery:     _Active,
}

// CheckStatus fails with ErrInvalidState when bl is in a status that forbids the action.
func CheckStatus(action Action, bl model.BillOfLading) error {
	if !lo.Contains(_AllowedStatuses[action], bl.Status) {
		return fmt.Errorf("bill of lading %s cannot be %s because it is in %s status%w", bl.ID, action.Verb(), bl.Status, model.ErrInvalidState)
	}
	return nil
}

type RoleFunc func(bl model.BillOfLading, payment *model.Payment) []*model.Party

func shippingAgent(bl model.BillOfLading, _ *model.Payment) []*model.Party {
	return []*model.Party{&bl.ShippingAgent}
}

func dischargeAgent(bl model.BillOfLading, _ *model.Payment) []*model.Party {
	return []*model.Party{&bl.DischargeShippingAgent}
}

func agentOrHolder(bl model.BillOfLading, _ *model.Payment) []*model.Party {
	return []*model.Party{&bl.DischargeShippingAgent, bl.BLHolder}
}

func holderOrBank(bl model.BillOfLading, payment *model.Payment) []*model.Party {
	parties := []*model.Party{bl.BLHolder}
	if payment != nil {
		parties = append(parties, payment.Bank)
	}
	return parties
}

func involved(bl model.BillOfLading, payment *model.Payment) []*model.Party {
	parties := []*model.Party{
		&bl.Carrier,
		&bl.ShippingAgent,
		&bl.DischargeShippingAgent,
		bl.DischargeTerminalOperator,
		bl.Shipper,
		bl.Consignee,
		bl.BLHolder,
		bl.Bank,
	}
	if payment != nil {
		parties = append(parties, payment.To, payment.Bank)
	}
	return parties
}

var _ActionRoles = map[Action]RoleFunc{
	ActionRead:                involved,
	ActionChange:              shippingAgent,
	ActionRemove:              shippingAgent,
	ActionChangeGoodsItems:    shippingAgent,
	ActionArrivalNotification: dischargeAgent,
	ActionTransfer:            agentOrHolder,
	ActionRelease:             dischargeAgent,
	ActionNotifyPayment:       holderOrBank,
	ActionRequestDelivery:     agentOrHolder,
}

// RoleOffices returns the offices allowed to take the action on bl. The operator is always
// allowed on top of them.
func RoleOffices(action Action, bl model.BillOfLading, payment *model.Payment) []string {
	roles, ok := _ActionRoles[action]
	if !ok {
		return nil
	}
	offices := lo.Map(roles(bl, payment), func(p *model.Party, _ int) string { return p.Office() })
	return lo.Uniq(lo.Compact(offices))
}

// GetAllowActions lists the actions the office can take on bl in its current status.
func GetAllowActions(bl model.BillOfLading, payment *model.Payment, office string) []Action {
	actions := []Action{
		ActionChange,
		ActionRemove,
		ActionChangeGoodsItems,
		ActionArrivalNotification,
		ActionTransfer,
		ActionRelease,
		ActionNotifyPayment,
		ActionRequestDelivery,
	}
	return lo.Filter(actions, func(action Action, _ int) bool {
		return CheckStatus(action, bl) == nil && lo.Contains(RoleOffices(action, bl, payment), office)
	})
}
