// Package container keeps the containers of the bills of lading and reassembles the release,
// acceptance and transport orders reported for them into movements.
package container

import (
	"context"
	"database/sql"

	otlp_util "github.com/bluexlab/otlp-util-go"
	"github.com/openpcs/openpcs/pkg/pcs_server/event"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/openpcs/openpcs/pkg/pcs_server/party"
	"github.com/openpcs/openpcs/pkg/pcs_server/storage"
	"github.com/openpcs/openpcs/pkg/util"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// MovementInput is a movement as reported by a party. Execution timestamps of the orders
// are ignored; they are only recorded by ExecuteOrder.
type MovementInput struct {
	TransportType   model.TransportType    `json:"transport_type"`
	ReleaseOrder    *model.ReleaseOrder    `json:"release_order"`
	AcceptanceOrder *model.AcceptanceOrder `json:"acceptance_order"`
	TransportOrder  *model.TransportOrder  `json:"transport_order"`
}

type ContainerMovementRequest struct {
	Requester   string        `json:"requester"`
	ContainerID string        `json:"container_id"`
	Movement    MovementInput `json:"movement"`
}

type SubcontractTransportRequest struct {
	Requester   string        `json:"requester"`
	Movement    MovementInput `json:"movement"`    // The movement holding the transport order to subcontract.
	Subcontract MovementInput `json:"subcontract"` // The subcontracted movement.
}

type MovementDetailsRequest struct {
	Requester string `json:"requester"`
	OrderID   string `json:"order_id"` // orderNumber@orderingOrganizationCode of a transport, release or acceptance order.

	TransportDetails           *model.TransportDetails `json:"transport_details"`
	ReleaseTransportDetails    *model.TransportDetails `json:"release_transport_details"`    // Defaults to TransportDetails.
	AcceptanceTransportDetails *model.TransportDetails `json:"acceptance_transport_details"` // Defaults to TransportDetails.
	Charges                    *model.TransportCharges `json:"charges"`
}

type MovementDetailsResult struct {
	Container model.Container    `json:"container"`
	Slots     []model.SlotResult `json:"slots"`
	Charges   *model.SlotResult  `json:"charges,omitempty"` // Set when the request carries charges.
}

// TransportStage is the step of a transport order being executed.
type TransportStage string

const (
	TransportStageShipment TransportStage = "SHIPMENT"
	TransportStageDelivery TransportStage = "DELIVERY"
)

type ExecuteOrderRequest struct {
	Requester string          `json:"requester"`
	OrderID   string          `json:"order_id"`
	Kind      model.OrderKind `json:"kind"`
	Stage     TransportStage  `json:"stage"` // Only for transport orders.
	Time      *model.DateTime `json:"time"`  // Defaults to the time of the request.
}

type GetContainerRequest struct {
	Requester string `json:"requester"`
	ID        string `json:"id"`
}

type MovementController interface {
	Get(ctx context.Context, req GetContainerRequest) (model.Container, error)
	ContainerRelease(ctx context.Context, ts int64, req ContainerMovementRequest) (model.Container, error)
	ContainerReturn(ctx context.Context, ts int64, req ContainerMovementRequest) (model.Container, error)
	ContainerTransport(ctx context.Context, ts int64, req ContainerMovementRequest) (model.Container, error)
	SubcontractTransport(ctx context.Context, ts int64, req SubcontractTransportRequest) (model.Container, error)
	NotifyMovementDetails(ctx context.Context, ts int64, req MovementDetailsRequest) (MovementDetailsResult, error)
	ExecuteOrder(ctx context.Context, ts int64, req ExecuteOrderRequest) (model.Container, error)
}

type _MovementController struct {
	storage   storage.CargoStorage
	resolver  party.Resolver
	publisher event.Publisher
	newID     func() string
}

func NewMovementController(storage storage.CargoStorage, resolver party.Resolver, publisher event.Publisher) MovementController {
	return &_MovementController{
		storage:   storage,
		resolver:  resolver,
		publisher: publisher,
		newID:     util.NewUUID,
	}
}

// _Operation is the state one movement operation works on before it is stored.
type _Operation struct {
	ts        int64
	requester string
	tx        storage.Tx
	container model.Container
	bl        model.BillOfLading
	events    []model.Event
}

func (op *_Operation) emit(eventType model.EventType, subjectID string, offices ...string) {
	op.events = append(op.events, model.Event{
		Type:        eventType,
		SubjectID:   subjectID,
		Offices:     offices,
		BLID:        op.bl.ID,
		ContainerID: op.container.ID,
	})
}

func (c *_MovementController) Get(ctx context.Context, req GetContainerRequest) (model.Container, error) {
	if err := ValidateGetContainerRequest(req); err != nil {
		return model.Container{}, err
	}

	tx, ctx, err := c.storage.CreateTx(ctx, storage.TxOptionWithWrite(false))
	if err != nil {
		return model.Container{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cn, err := c.storage.GetContainer(ctx, tx, req.ID)
	if err != nil {
		return model.Container{}, err
	}
	bl, err := c.storage.GetBillOfLading(ctx, tx, cn.BLID)
	if err != nil {
		return model.Container{}, err
	}
	offices := append(bl.InvolvedOffices(), cn.DischargeTerminalOperator.Office())
	if err := c.resolver.Authorize(ctx, tx, req.Requester, "read container "+cn.ID, offices...); err != nil {
		return model.Container{}, err
	}
	return cn, nil
}

func (c *_MovementController) ContainerRelease(ctx context.Context, ts int64, req ContainerMovementRequest) (model.Container, error) {
	ctx, span := otlp_util.Start(ctx, "pcs_server/container/ContainerRelease", trace.WithAttributes(attribute.String("container_id", req.ContainerID)))
	defer span.End()

	if err := ValidateContainerReleaseRequest(req); err != nil {
		return model.Container{}, err
	}
	in := req.Movement

	return c.withContainer(ctx, ts, req.Requester, req.ContainerID, func(ctx context.Context, op *_Operation) error {
		if err := c.resolver.Authorize(ctx, op.tx, op.requester, "release container "+op.container.ID, op.bl.DischargeShippingAgent.Office()); err != nil {
			return err
		}

		idx, err := findMovement(op.container.Movements, releaseMatchers(in)...)
		if err != nil {
			return err
		}
		mv := c.movementAt(op, idx, in.TransportType)

		if err := c.applyReleaseOrder(ctx, op, mv, c.releaseOrderWithDefaults(op, in.ReleaseOrder)); err != nil {
			return err
		}
		if mv.TransportType != model.TransportTypeMerchant && in.TransportOrder != nil {
			if err := c.applyTransportOrder(ctx, op, mv, c.transportOrderWithDefaults(op, mv, in)); err != nil {
				return err
			}
		}
		if in.AcceptanceOrder != nil {
			if err := c.applyAcceptanceOrder(ctx, op, mv, c.acceptanceOrderWithDefaults(op, in.AcceptanceOrder)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (c *_MovementController) ContainerReturn(ctx context.Context, ts int64, req ContainerMovementRequest) (model.Container, error) {
	ctx, span := otlp_util.Start(ctx, "pcs_server/container/ContainerReturn", trace.WithAttributes(attribute.String("container_id", req.ContainerID)))
	defer span.End()

	if err := ValidateContainerReturnRequest(req); err != nil {
		return model.Container{}, err
	}
	in := req.Movement

	return c.withContainer(ctx, ts, req.Requester, req.ContainerID, func(ctx context.Context, op *_Operation) error {
		if err := c.resolver.Authorize(ctx, op.tx, op.requester, "return container "+op.container.ID, op.bl.DischargeShippingAgent.Office()); err != nil {
			return err
		}

		idx, err := findMovement(op.container.Movements, returnMatchers(in)...)
		if err != nil {
			return err
		}
		mv := c.movementAt(op, idx, in.TransportType)
		return c.applyAcceptanceOrder(ctx, op, mv, c.acceptanceOrderWithDefaults(op, in.AcceptanceOrder))
	})
}

func (c *_MovementController) ContainerTransport(ctx context.Context, ts int64, req ContainerMovementRequest) (model.Container, error) {
	ctx, span := otlp_util.Start(ctx, "pcs_server/container/ContainerTransport", trace.WithAttributes(attribute.String("container_id", req.ContainerID)))
	defer span.End()

	if err := ValidateContainerTransportRequest(req); err != nil {
		return model.Container{}, err
	}
	in := req.Movement

	return c.withContainer(ctx, ts, req.Requester, req.ContainerID, func(ctx context.Context, op *_Operation) error {
		idx, err := findMovement(op.container.Movements, transportMatchers(in)...)
		if err != nil {
			return err
		}
		mv := c.movementAt(op, idx, in.TransportType)

		// The haulage type of a stored movement decides who may order its transport.
		if mv.TransportType == model.TransportTypeMerchant {
			err = c.resolver.Authorize(ctx, op.tx, op.requester, "order merchant haulage of container "+op.container.ID, op.bl.BLHolder.Office())
		} else {
			err = c.resolver.Authorize(ctx, op.tx, op.requester, "order carrier haulage of container "+op.container.ID, op.bl.DischargeShippingAgent.Office())
		}
		if err != nil {
			return err
		}

		return c.applyTransportOrder(ctx, op, mv, c.transportOrderWithDefaults(op, mv, in))
	})
}

// withContainer loads the container and its bill of lading in a write transaction, runs fn and
// stores the container with the events fn emitted. Nothing is stored when fn fails.
func (c *_MovementController) withContainer(ctx context.Context, ts int64, requester string, cnID string, fn func(ctx context.Context, op *_Operation) error) (model.Container, error) {
	tx, ctx, err := c.storage.CreateTx(ctx, storage.TxOptionWithWrite(true), storage.TxOptionWithIsolationLevel(sql.LevelSerializable))
	if err != nil {
		return model.Container{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cn, err := c.storage.GetContainer(ctx, tx, cnID)
	if err != nil {
		return model.Container{}, err
	}
	op, err := c.newOperation(ctx, tx, ts, requester, cn)
	if err != nil {
		return model.Container{}, err
	}
	if err := fn(ctx, op); err != nil {
		return model.Container{}, err
	}
	if err := c.save(ctx, op); err != nil {
		return model.Container{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return model.Container{}, err
	}
	return op.container, nil
}

func (c *_MovementController) newOperation(ctx context.Context, tx storage.Tx, ts int64, requester string, cn model.Container) (*_Operation, error) {
	if err := checkRegistered(cn, "moved"); err != nil {
		return nil, err
	}
	bl, err := c.storage.GetBillOfLading(ctx, tx, cn.BLID)
	if err != nil {
		return nil, err
	}
	return &_Operation{
		ts:        ts,
		requester: requester,
		tx:        tx,
		container: cn,
		bl:        bl,
	}, nil
}

func (c *_MovementController) save(ctx context.Context, op *_Operation) error {
	op.container.Version++
	op.container.UpdatedAt = op.ts
	op.container.UpdatedBy = op.requester
	if err := c.storage.UpdateContainer(ctx, op.tx, op.container); err != nil {
		return err
	}
	for _, evt := range op.events {
		if len(evt.Offices) == 0 {
			continue
		}
		if _, err := c.publisher.Publish(ctx, op.tx, op.ts, evt); err != nil {
			return err
		}
	}
	return nil
}

// movementAt returns the matched movement or appends a new one when idx is negative.
// A new movement takes the reported haulage type or the one of the bill of lading.
func (c *_MovementController) movementAt(op *_Operation, idx int, transportType model.TransportType) *model.Movement {
	if idx < 0 {
		if transportType == "" {
			transportType = op.bl.TransportType
		}
		op.container.Movements = append(op.container.Movements, model.NewMovement(c.newID(), transportType))
		idx = len(op.container.Movements) - 1
	}
	mv := &op.container.Movements[idx]
	if mv.TransportType == "" {
		mv.TransportType = transportType
		if mv.TransportType == "" {
			mv.TransportType = op.bl.TransportType
		}
	}
	return mv
}

// parentMovement returns the movement mv was subcontracted from.
func parentMovement(cn *model.Container, mv *model.Movement) *model.Movement {
	if mv.ParentMovementID == "" {
		return nil
	}
	for i := range cn.Movements {
		if cn.Movements[i].ID == mv.ParentMovementID {
			return &cn.Movements[i]
		}
	}
	return nil
}

// effectiveReleaseOrder follows shared release orders up the subcontract chain.
func effectiveReleaseOrder(cn *model.Container, mv *model.Movement) *model.ReleaseOrder {
	for depth := 0; mv != nil && depth <= len(cn.Movements); depth++ {
		if !mv.ReleaseOrderShared {
			return mv.ReleaseOrder
		}
		mv = parentMovement(cn, mv)
	}
	return nil
}

// effectiveAcceptanceOrder follows shared acceptance orders up the subcontract chain.
func effectiveAcceptanceOrder(cn *model.Container, mv *model.Movement) *model.AcceptanceOrder {
	for depth := 0; mv != nil && depth <= len(cn.Movements); depth++ {
		if !mv.AcceptanceOrderShared {
			return mv.AcceptanceOrder
		}
		mv = parentMovement(cn, mv)
	}
	return nil
}
