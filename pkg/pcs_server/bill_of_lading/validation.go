package bill_of_lading

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/openpcs/openpcs/pkg/pcs_server/container"
	"github.com/openpcs/openpcs/pkg/pcs_server/model"
	"github.com/samber/lo"
)

func invalid(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s%w", err.Error(), model.ErrInvalidParameter)
}

var organizationCodeRule = validation.By(func(value interface{}) error {
	p, _ := value.(model.Party)
	return validation.Validate(p.Organization.Code, validation.Required.Error("organization code is required"))
})

func validateDeclaration(decl Declaration) error {
	if err := validation.ValidateStruct(&decl,
		validation.Field(&decl.BLNumber, validation.Required),
		validation.Field(&decl.Carrier, organizationCodeRule),
	); err != nil {
		return invalid(err)
	}
	if duplicated := lo.FindDuplicates(goodsItemNumbers(decl.GoodsItems)); len(duplicated) > 0 {
		return fmt.Errorf("goods items %v are declared twice in bill of lading %s: %w", duplicated, decl.ID(), model.ErrGoodsItemAlreadyExists)
	}

	for _, cn := range decl.Containers {
		if err := validateContainerDeclaration(cn); err != nil {
			return fmt.Errorf("bill of lading %s: %w", decl.ID(), err)
		}
	}
	return nil
}

func validateContainerDeclaration(cn container.Declaration) error {
	if err := validation.Validate(cn.ContainerNumber, validation.Required); err != nil {
		return invalid(fmt.Errorf("container_number: %w", err))
	}
	if len(cn.GoodsItems) == 0 {
		return fmt.Errorf("container %s is declared without goods items%w", cn.ContainerNumber, model.ErrValidation)
	}
	if duplicated := lo.FindDuplicates(goodsItemNumbers(cn.GoodsItems)); len(duplicated) > 0 {
		return fmt.Errorf("goods items %v are declared twice in container %s: %w", duplicated, cn.ContainerNumber, model.ErrGoodsItemAlreadyExists)
	}
	return nil
}

func ValidateDeclarationRequest(req DeclarationRequest) error {
	if err := validation.ValidateStruct(&req,
		validation.Field(&req.Requester, validation.Required),
		validation.Field(&req.PortCallID, validation.Required),
		validation.Field(&req.ShippingAgent, organizationCodeRule),
	); err != nil {
		return invalid(err)
	}
	return validateDeclaration(req.BillOfLading)
}

func ValidateSummaryDeclarationRequest(req SummaryDeclarationRequest) error {
	if err := validation.ValidateStruct(&req,
		validation.Field(&req.Requester, validation.Required),
		validation.Field(&req.Action, validation.Required, validation.In(
			DeclarationAddBillsOfLading,
			DeclarationChangeBillsOfLading,
			DeclarationRemoveBillsOfLading,
			DeclarationAddGoodsItems,
			DeclarationChangeGoodsItems,
			DeclarationRemoveGoodsItems,
		)),
		validation.Field(&req.PortCallID, validation.Required),
		validation.Field(&req.ShippingAgent, organizationCodeRule),
		validation.Field(&req.BillsOfLading, validation.Required),
	); err != nil {
		return invalid(err)
	}
	for _, decl := range req.BillsOfLading {
		if err := validateDeclaration(decl); err != nil {
			return err
		}
	}
	return nil
}

func ValidateBillOfLadingRequest(req BillOfLadingRequest) error {
	return invalid(validation.ValidateStruct(&req,
		validation.Field(&req.Requester, validation.Required),
		validation.Field(&req.ID, validation.Required),
	))
}

func ValidateListBillOfLadingRequest(req ListBillOfLadingRequest) error {
	return invalid(validation.ValidateStruct(&req,
		validation.Field(&req.Requester, validation.Required),
		validation.Field(&req.Offset, validation.Min(0)),
		validation.Field(&req.Limit, validation.Min(0), validation.Max(100)),
		validation.Field(&req.Statuses, validation.Each(validation.In(
			model.BillOfLadingStatusRegistered,
			model.BillOfLadingStatusReleased,
			model.BillOfLadingStatusCancelled,
		))),
	))
}

func ValidateArrivalNotificationRequest(req ArrivalNotificationRequest) error {
	if err := ValidateBillOfLadingRequest(BillOfLadingRequest{Requester: req.Requester, ID: req.ID}); err != nil {
		return err
	}

	notice := &req.Notice
	if err := validation.ValidateStruct(notice,
		validation.Field(&notice.BLType, validation.In(model.BLTypeOriginal, model.BLTypeSeawaybill)),
		validation.Field(&notice.FreeDemurrageDays, validation.Min(0)),
		validation.Field(&notice.FreeDetentionDays, validation.Min(0)),
	); err != nil {
		return invalid(fmt.Errorf("notice: %w", err))
	}

	if req.Charges == nil {
		return nil
	}
	charges := req.Charges
	if err := validation.ValidateStruct(charges,
		validation.Field(&charges.PaymentMethod, validation.In(
			model.PaymentMethodCash,
			model.PaymentMethodTransfer,
			model.PaymentMethodCard,
			model.PaymentMethodCredit,
		)),
		validation.Field(&charges.Charges, validation.Each(validation.By(func(value interface{}) error {
			charge, _ := value.(model.Charge)
			if charge.Amount.IsNegative() {
				return fmt.Errorf("charge %s has a negative amount", charge.Code)
			}
			return nil
		}))),
	); err != nil {
		return invalid(fmt.Errorf("charges: %w", err))
	}
	return nil
}

func ValidateTransferRequest(req TransferRequest) error {
	return invalid(validation.ValidateStruct(&req,
		validation.Field(&req.Requester, validation.Required),
		validation.Field(&req.ID, validation.Required),
		validation.Field(&req.NewHolder, organizationCodeRule),
	))
}

func ValidateReleaseRequest(req ReleaseRequest) error {
	return ValidateBillOfLadingRequest(BillOfLadingRequest{Requester: req.Requester, ID: req.ID})
}

func ValidateNotifyPaymentRequest(req NotifyPaymentRequest) error {
	return ValidateBillOfLadingRequest(BillOfLadingRequest{Requester: req.Requester, ID: req.ID})
}

func ValidateRequestDeliveryRequest(req RequestDeliveryRequest) error {
	return invalid(validation.ValidateStruct(&req,
		validation.Field(&req.Requester, validation.Required),
		validation.Field(&req.ID, validation.Required),
		validation.Field(&req.TransportType, validation.In(
			model.TransportTypeMerchant,
			model.TransportTypeCarrier,
			model.TransportTypeAgent,
		)),
	))
}
