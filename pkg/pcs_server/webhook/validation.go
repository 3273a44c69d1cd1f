package webhook

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/samber/lo"
)

var eventTypes = lo.Map(model.EventTypes, func(t model.EventType, _ int) interface{} { return t })

func ValidateCreateWebhookRequest(req CreateWebhookRequest) error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Requester, validation.Required),
		validation.Field(&req.Events, validation.Required, validation.Each(validation.In(eventTypes...))),
		validation.Field(&req.Secret, validation.Required),
		validation.Field(&req.Url, validation.Required, is.URL),
	)
	if err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidParameter)
	}

	return nil
}

func ValidateListWebhookRequest(req ListWebhookRequest) error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Requester, validation.Required),
		validation.Field(&req.Limit, validation.Required, validation.Max(100)),
	)
	if err != nil {
		return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidParameter)
	}

	return nil
}
