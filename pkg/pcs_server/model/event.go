package model

type EventType string

const (
	EventBLDeclarationCreated   EventType = "bl.declaration.created"
	EventBLDeclarationChanged   EventType = "bl.declaration.changed"
	EventBLDeclarationCancelled EventType = "bl.declaration.cancelled"
	EventBLArrivalNotified      EventType = "bl.arrival_notified"
	EventBLReleased             EventType = "bl.released"
	EventBLTransferred          EventType = "bl.transferred"
	EventBLPaymentNotified      EventType = "bl.payment_notified"
	EventBLDeliveryRequested    EventType = "bl.delivery_requested"

	EventFreightChargesCreated EventType = "payment.freight_charges.created"

	EventContainerDeclarationCreated   EventType = "container.declaration.created"
	EventContainerDeclarationChanged   EventType = "container.declaration.changed"
	EventContainerDeclarationCancelled EventType = "container.declaration.cancelled"

	EventReleaseOrderCreated     EventType = "release_order.created"
	EventReleaseOrderChanged     EventType = "release_order.changed"
	EventReleaseOrderRemoved     EventType = "release_order.removed"
	EventReleaseOrderExecuted    EventType = "release_order.executed"
	EventAcceptanceOrderCreated  EventType = "acceptance_order.created"
	EventAcceptanceOrderChanged  EventType = "acceptance_order.changed"
	EventAcceptanceOrderRemoved  EventType = "acceptance_order.removed"
	EventAcceptanceOrderExecuted EventType = "acceptance_order.executed"
	EventTransportOrderCreated   EventType = "transport_order.created"
	EventTransportOrderChanged   EventType = "transport_order.changed"
	EventTransportOrderRemoved   EventType = "transport_order.removed"
	EventTransportOrderShipped   EventType = "transport_order.shipped"
	EventTransportOrderDelivered EventType = "transport_order.delivered"

	EventReleaseTransportDetailsAssigned    EventType = "release_transport_details.assigned"
	EventReleaseTransportDetailsChanged     EventType = "release_transport_details.changed"
	EventAcceptanceTransportDetailsAssigned EventType = "acceptance_transport_details.assigned"
	EventAcceptanceTransportDetailsChanged  EventType = "acceptance_transport_details.changed"
	EventTransportDetailsAssigned           EventType = "transport_details.assigned"
	EventTransportDetailsChanged            EventType = "transport_details.changed"

	EventTransportSubcontractCreated EventType = "transport_subcontract.created"
	EventTransportSubcontractChanged EventType = "transport_subcontract.changed"

	EventTransportChargesRegistered EventType = "transport_charges.registered"
	EventTransportChargesChanged    EventType = "transport_charges.changed"
)

// EventTypes lists every event an office can subscribe to.
var EventTypes = []EventType{
	EventBLDeclarationCreated,
	EventBLDeclarationChanged,
	EventBLDeclarationCancelled,
	EventBLArrivalNotified,
	EventBLReleased,
	EventBLTransferred,
	EventBLPaymentNotified,
	EventBLDeliveryRequested,
	EventFreightChargesCreated,
	EventContainerDeclarationCreated,
	EventContainerDeclarationChanged,
	EventContainerDeclarationCancelled,
	EventReleaseOrderCreated,
	EventReleaseOrderChanged,
	EventReleaseOrderRemoved,
	EventReleaseOrderExecuted,
	EventAcceptanceOrderCreated,
	EventAcceptanceOrderChanged,
	EventAcceptanceOrderRemoved,
	EventAcceptanceOrderExecuted,
	EventTransportOrderCreated,
	EventTransportOrderChanged,
	EventTransportOrderRemoved,
	EventTransportOrderShipped,
	EventTransportOrderDelivered,
	EventReleaseTransportDetailsAssigned,
	EventReleaseTransportDetailsChanged,
	EventAcceptanceTransportDetailsAssigned,
	EventAcceptanceTransportDetailsChanged,
	EventTransportDetailsAssigned,
	EventTransportDetailsChanged,
	EventTransportSubcontractCreated,
	EventTransportSubcontractChanged,
	EventTransportChargesRegistered,
	EventTransportChargesChanged,
}

// Event announces a change of a document to the offices interested in it.
type Event struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	SubjectID   string    `json:"subject_id"`             // The id of the document or order the event is about.
	Offices     []string  `json:"offices"`                // De-duplicated ids of the notified offices.
	BLID        string    `json:"bl_id,omitempty"`        // Related bill of lading.
	ContainerID string    `json:"container_id,omitempty"` // Related container.
	CreatedAt   int64     `json:"created_at"`
	Offset      int64     `json:"offset,omitempty"` // Position in the event feed. Set when read back from the storage.
}
