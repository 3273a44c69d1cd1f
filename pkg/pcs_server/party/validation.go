package party

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
)

var officeTypes = []any{
	model.OfficeTypePCS,
	model.OfficeTypeCarrier,
	model.OfficeTypeShippingAgent,
	model.OfficeTypeTerminalOperator,
	model.OfficeTypeFreightForwarder,
	model.OfficeTypeHaulier,
	model.OfficeTypeBank,
	model.OfficeTypeConsignee,
}

func ValidateRegisterOfficeRequest(req RegisterOfficeRequest) error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Requester, validation.Required),
		validation.Field(&req.Organization, validation.By(func(interface{}) error {
			return validation.ValidateStruct(&req.Organization,
				validation.Field(&req.Organization.Code, validation.Required),
			)
		})),
		validation.Field(&req.Types, validation.Required, validation.Each(validation.In(officeTypes...))),
		validation.Field(&req.Email, is.EmailFormat),
	)
	if err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidParameter)
	}
	return nil
}

func ValidateUpdateOfficeRequest(req UpdateOfficeRequest) error {
	if err := validation.Validate(req.ID, validation.Required); err != nil {
		return fmt.Errorf("id: %s%w", err.Error(), model.ErrInvalidParameter)
	}
	return ValidateRegisterOfficeRequest(req.RegisterOfficeRequest)
}

func ValidateListOfficesRequest(req ListOfficesRequest) error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Limit, validation.Required, validation.Min(1)),
	)
	if err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidParameter)
	}
	return nil
}
