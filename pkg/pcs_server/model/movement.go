package model

import "fmt"

// OrderKind identifies one of the three orders a movement may hold.
type OrderKind string

const (
	OrderKindRelease    OrderKind = "release"
	OrderKindAcceptance OrderKind = "acceptance"
	OrderKindTransport  OrderKind = "transport"
)

// OrderID is the external identifier of an order: orderNumber@orderingOrganizationCode.
func OrderID(orderNumber string, orderingParty *Party) string {
	return fmt.Sprintf("%s@%s", orderNumber, orderingParty.OrganizationCode())
}

type TransportDetails struct {
	TransportMeans       string `json:"transport_means,omitempty"` // e.g. TRUCK, RAIL, BARGE.
	VehicleNumber        string `json:"vehicle_number,omitempty"`
	TrailerNumber        string `json:"trailer_number,omitempty"`
	DriverName           string `json:"driver_name,omitempty"`
	DriverIdentification string `json:"driver_identification,omitempty"`
}

type ReleaseOrder struct {
	OrderNumber          string            `json:"order_number"`
	BarCode              string            `json:"bar_code,omitempty"`
	Status               string            `json:"status,omitempty"`
	OrderDate            *Date             `json:"order_date,omitempty"`
	ValidFrom            *Date             `json:"valid_from,omitempty"`
	ExpirationDate       *Date             `json:"expiration_date,omitempty"`
	PlannedExecutionTime *DateTime         `json:"planned_execution_time,omitempty"`
	OrderingParty        *Party            `json:"ordering_party,omitempty"`
	ReleaseParty         *Party            `json:"release_party,omitempty"`
	TransportDetails     *TransportDetails `json:"transport_details,omitempty"`
	ReleaseTime          *DateTime         `json:"release_time,omitempty"` // Set when the container left the release party.
}

func (o *ReleaseOrder) Executed() bool {
	return o != nil && o.ReleaseTime != nil
}

type AcceptanceOrder struct {
	OrderNumber          string            `json:"order_number"`
	BarCode              string            `json:"bar_code,omitempty"`
	Status               string            `json:"status,omitempty"`
	OrderDate            *Date             `json:"order_date,omitempty"`
	ValidFrom            *Date             `json:"valid_from,omitempty"`
	ExpirationDate       *Date             `json:"expiration_date,omitempty"`
	PlannedExecutionTime *DateTime         `json:"planned_execution_time,omitempty"`
	OrderingParty        *Party            `json:"ordering_party,omitempty"`
	AcceptanceParty      *Party            `json:"acceptance_party,omitempty"`
	TransportDetails     *TransportDetails `json:"transport_details,omitempty"`
	AcceptanceTime       *DateTime         `json:"acceptance_time,omitempty"` // Set when the container entered the acceptance party.
}

func (o *AcceptanceOrder) Executed() bool {
	return o != nil && o.AcceptanceTime != nil
}

type Charge struct {
	Code        string  `json:"code"`
	Description string  `json:"description,omitempty"`
	Amount      Decimal `json:"amount"`
	Currency    string  `json:"currency,omitempty"`
}

// TransportCharges are the charges of a transport order reported by its carrier.
type TransportCharges struct {
	InvoiceNumber string        `json:"invoice_number,omitempty"`
	Charges       []Charge      `json:"charges,omitempty"`
	Total         *Decimal      `json:"total,omitempty"`
	PaymentMethod PaymentMethod `json:"payment_method,omitempty"`
	BankAccount   string        `json:"bank_account,omitempty"`
	Bank          *Party        `json:"bank,omitempty"`
}

type TransportOrder struct {
	OrderNumber           string            `json:"order_number"`
	BarCode               string            `json:"bar_code,omitempty"`
	OrderDate             *Date             `json:"order_date,omitempty"`
	RequestedShipmentTime *DateTime         `json:"requested_shipment_time,omitempty"`
	RequestedDeliveryTime *DateTime         `json:"requested_delivery_time,omitempty"`
	OrderingParty         *Party            `json:"ordering_party,omitempty"`
	ForwardingParty       *Party            `json:"forwarding_party,omitempty"`
	SenderParty           *Party            `json:"sender_party,omitempty"`
	CarrierParty          *Party            `json:"carrier_party,omitempty"`
	ReceiverParty         *Party            `json:"receiver_party,omitempty"`
	TransportDetails      *TransportDetails `json:"transport_details,omitempty"`
	Charges               *TransportCharges `json:"charges,omitempty"`
	ShipmentTime          *DateTime         `json:"shipment_time,omitempty"` // Set when the transport started.
	DeliveryTime          *DateTime         `json:"delivery_time,omitempty"` // Set when the transport finished.
}

func (o *TransportOrder) Executed() bool {
	return o != nil && (o.ShipmentTime != nil || o.DeliveryTime != nil)
}

// Movement is one physical handling of a container.
type Movement struct {
	ID               string        `json:"id"`
	TransportType    TransportType `json:"transport_type,omitempty"`
	ParentMovementID string        `json:"parent_movement_id,omitempty"` // Set on movements created by subcontracting.

	ReleaseOrder    *ReleaseOrder    `json:"release_order,omitempty"`
	AcceptanceOrder *AcceptanceOrder `json:"acceptance_order,omitempty"`
	TransportOrder  *TransportOrder  `json:"transport_order,omitempty"`

	// The release or acceptance order of a subcontracted movement may be the one of its parent movement.
	ReleaseOrderShared    bool `json:"release_order_shared,omitempty"`
	AcceptanceOrderShared bool `json:"acceptance_order_shared,omitempty"`
}

func NewMovement(id string, transportType TransportType) Movement {
	return Movement{
		ID:            id,
		TransportType: transportType,
	}
}

// OrderNumber returns the number of the order of the given kind or "" when the movement has none.
func (m Movement) OrderNumber(kind OrderKind) string {
	switch kind {
	case OrderKindRelease:
		if m.ReleaseOrder != nil {
			return m.ReleaseOrder.OrderNumber
		}
	case OrderKindAcceptance:
		if m.AcceptanceOrder != nil {
			return m.AcceptanceOrder.OrderNumber
		}
	case OrderKindTransport:
		if m.TransportOrder != nil {
			return m.TransportOrder.OrderNumber
		}
	}
	return ""
}

// Shares tells whether the order of the given kind is held by the parent movement.
func (m Movement) Shares(kind OrderKind) bool {
	switch kind {
	case OrderKindRelease:
		return m.ReleaseOrderShared
	case OrderKindAcceptance:
		return m.AcceptanceOrderShared
	}
	return false
}

// HasOrder tells whether the slot of the given kind is taken, by an own or a shared order.
func (m Movement) HasOrder(kind OrderKind) bool {
	return m.OrderNumber(kind) != "" || m.Shares(kind)
}

// OrderingParty returns the ordering party of the order of the given kind.
func (m Movement) OrderingParty(kind OrderKind) *Party {
	switch kind {
	case OrderKindRelease:
		if m.ReleaseOrder != nil {
			return m.ReleaseOrder.OrderingParty
		}
	case OrderKindAcceptance:
		if m.AcceptanceOrder != nil {
			return m.AcceptanceOrder.OrderingParty
		}
	case OrderKindTransport:
		if m.TransportOrder != nil {
			return m.TransportOrder.OrderingParty
		}
	}
	return nil
}

// OrderID returns the external identifier of the order of the given kind or "" when the movement has none.
func (m Movement) OrderID(kind OrderKind) string {
	number := m.OrderNumber(kind)
	if number == "" {
		return ""
	}
	return OrderID(number, m.OrderingParty(kind))
}

// Executed tells whether the order of the given kind has an execution timestamp.
func (m Movement) Executed(kind OrderKind) bool {
	switch kind {
	case OrderKindRelease:
		return m.ReleaseOrder.Executed()
	case OrderKindAcceptance:
		return m.AcceptanceOrder.Executed()
	case OrderKindTransport:
		return m.TransportOrder.Executed()
	}
	return false
}

func (m Movement) Clone() Movement {
	cp := m
	if m.ReleaseOrder != nil {
		o := *m.ReleaseOrder
		cp.ReleaseOrder = &o
	}
	if m.AcceptanceOrder != nil {
		o := *m.AcceptanceOrder
		cp.AcceptanceOrder = &o
	}
	if m.TransportOrder != nil {
		o := *m.TransportOrder
		cp.TransportOrder = &o
	}
	return cp
}

// Outcome tags the result of an update that may legitimately not apply.
type Outcome string

const (
	OutcomeApplied Outcome = "APPLIED"
	OutcomeSkipped Outcome = "SKIPPED"
	OutcomeFailed  Outcome = "FAILED"
)

type SlotResult struct {
	Kind    OrderKind `json:"kind"`
	Outcome Outcome   `json:"outcome"`
	Reason  string    `json:"reason,omitempty"`
}
