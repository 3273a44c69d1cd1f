package model

import (
	"errors"
	"fmt"
	"net/http"
)

var ErrInvalidParameter = errors.New("") // Base error for invalid parameter
var ErrNotFound = errors.New("")         // Base error for an absent target key
var ErrInvalidState = errors.New("")     // Base error for a status that forbids the transition
var ErrUnauthorized = errors.New("")     // Base error for a caller office without the required role
var ErrConflict = errors.New("")         // Base error for duplicates and executed orders
var ErrValidation = errors.New("")       // Base error for missing or ambiguous correlated fields
var ErrAPIKeyError = errors.New("")      // Base error for API key
var ErrWebhookError = errors.New("")     // Base error for Webhook

// API Key errors
var ErrInvalidAPIKeyString = fmt.Errorf("invalid API key string%w", ErrAPIKeyError)
var ErrMismatchAPIKey = fmt.Errorf("mismatch API key%w", ErrAPIKeyError)
var ErrRevokedAPIKey = fmt.Errorf("revoked API key%w", ErrAPIKeyError)
var ErrAPIKeyNotFound = fmt.Errorf("API key not found%w", ErrAPIKeyError)

// Directory errors
var ErrOfficeNotFound = fmt.Errorf("office not found%w", ErrNotFound)
var ErrOfficeAlreadyExists = fmt.Errorf("office already exists%w", ErrConflict)

// Bill of lading errors
var ErrBillOfLadingNotFound = fmt.Errorf("bill of lading not found%w", ErrNotFound)
var ErrBillOfLadingAlreadyExists = fmt.Errorf("bill of lading already exists%w", ErrConflict)
var ErrGoodsItemAlreadyExists = fmt.Errorf("goods item already exists%w", ErrConflict)
var ErrGoodsItemNotDeclared = fmt.Errorf("goods item is not declared, use the add goods items transaction%w", ErrValidation)

// Payment errors
var ErrPaymentNotFound = fmt.Errorf("payment not found%w", ErrNotFound)
var ErrPaymentAlreadyExists = fmt.Errorf("payment already exists, consider to use the change transaction%w", ErrConflict)

// Container and movement errors
var ErrContainerNotFound = fmt.Errorf("container not found%w", ErrNotFound)
var ErrOrderNotFound = fmt.Errorf("order not found%w", ErrNotFound)
var ErrMovementNotFound = fmt.Errorf("movement not found%w", ErrNotFound)
var ErrOrderExecuted = fmt.Errorf("order cannot be changed once executed%w", ErrConflict)
var ErrOrderIncomplete = fmt.Errorf("order number and ordering party are mandatory to create an order%w", ErrValidation)
var ErrOrderNotUnique = fmt.Errorf("order is not unique%w", ErrValidation)
var ErrAmbiguousMovement = fmt.Errorf("more than one movement matches the notification%w", ErrValidation)
var ErrSubcontractMismatch = fmt.Errorf("subcontracted order does not belong to the main transport order%w", ErrValidation)

// Webhook errors
var ErrWebhookNotFound = fmt.Errorf("webhook not found%w", ErrWebhookError)
var ErrWebhookUnreachable = fmt.Errorf("webhook unreachable%w", ErrWebhookError)

// ErrorToHttpStatus maps the error taxonomy to the status code returned by the API.
func ErrorToHttpStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidParameter), errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrAPIKeyError):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrWebhookNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict), errors.Is(err, ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
