package container

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
)

var transportTypes = []any{
	model.TransportTypeMerchant,
	model.TransportTypeCarrier,
	model.TransportTypeAgent,
}

func invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidParameter)
}

func ValidateGetContainerRequest(req GetContainerRequest) error {
	return invalid(validation.ValidateStruct(&req,
		validation.Field(&req.Requester, validation.Required),
		validation.Field(&req.ID, validation.Required),
	))
}

// validateContainerMovementRequest checks the request and the order rule returns for its movement.
func validateContainerMovementRequest(req ContainerMovementRequest, rule func(movement *MovementInput) *validation.FieldRules) error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Requester, validation.Required),
		validation.Field(&req.ContainerID, validation.Required),
	)
	if err != nil {
		return invalid(err)
	}

	movement := &req.Movement
	err = validation.ValidateStruct(movement,
		validation.Field(&movement.TransportType, validation.In(transportTypes...)),
		rule(movement),
	)
	if err != nil {
		return invalid(fmt.Errorf("movement: %w", err))
	}
	return nil
}

func ValidateContainerReleaseRequest(req ContainerMovementRequest) error {
	return validateContainerMovementRequest(req, func(movement *MovementInput) *validation.FieldRules {
		return validation.Field(&movement.ReleaseOrder, validation.NotNil)
	})
}

func ValidateContainerReturnRequest(req ContainerMovementRequest) error {
	return validateContainerMovementRequest(req, func(movement *MovementInput) *validation.FieldRules {
		return validation.Field(&movement.AcceptanceOrder, validation.NotNil)
	})
}

func ValidateContainerTransportRequest(req ContainerMovementRequest) error {
	return validateContainerMovementRequest(req, func(movement *MovementInput) *validation.FieldRules {
		return validation.Field(&movement.TransportOrder, validation.NotNil)
	})
}

func ValidateSubcontractTransportRequest(req SubcontractTransportRequest) error {
	if err := validation.Validate(req.Requester, validation.Required); err != nil {
		return invalid(fmt.Errorf("requester: %w", err))
	}

	main := req.Movement.TransportOrder
	if main == nil || main.OrderNumber == "" || main.OrderingParty.OrganizationCode() == "" {
		return fmt.Errorf("to subcontract a movement the transport order needs the order number and the ordering organization code%w", model.ErrValidation)
	}
	sub := req.Subcontract.TransportOrder
	if sub == nil || sub.OrderNumber == "" {
		return fmt.Errorf("the subcontracted movement needs a transport order number%w", model.ErrValidation)
	}
	return nil
}

func ValidateMovementDetailsRequest(req MovementDetailsRequest) error {
	return invalid(validation.ValidateStruct(&req,
		validation.Field(&req.Requester, validation.Required),
		validation.Field(&req.OrderID, validation.Required),
	))
}

func ValidateExecuteOrderRequest(req ExecuteOrderRequest) error {
	return invalid(validation.ValidateStruct(&req,
		validation.Field(&req.Requester, validation.Required),
		validation.Field(&req.OrderID, validation.Required),
		validation.Field(&req.Kind, validation.Required, validation.In(model.OrderKindRelease, model.OrderKindAcceptance, model.OrderKindTransport)),
		validation.Field(&req.Stage,
			validation.When(req.Kind == model.OrderKindTransport, validation.Required, validation.In(TransportStageShipment, TransportStageDelivery)).
				Else(validation.Empty),
		),
	))
}
