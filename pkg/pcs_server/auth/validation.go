package auth

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
)

func ValidateCreateAPIKeyRequest(req CreateAPIKeyRequest) error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.OfficeID, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidParameter)
	}
	return nil
}

func ValidateRevokeAPIKeyRequest(req RevokeAPIKeyRequest) error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.OfficeID, validation.Required),
		validation.Field(&req.ID, validation.Required),
	)
	if err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidParameter)
	}
	return nil
}

func ValidateListAPIKeysRequest(req ListAPIKeysRequest) error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Offset, validation.Min(0)),
		validation.Field(&req.Limit, validation.Required, validation.Min(1)),
	)
	if err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidParameter)
	}
	return nil
}
