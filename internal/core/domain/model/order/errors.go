package order

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes reported to callers in the result envelope.
const (
	CodeValidation            = "VALIDATION_ERROR"
	CodeInsufficientInventory = "INSUFFICIENT_INVENTORY"
	CodeOrderNotFound         = "ORDER_NOT_FOUND"
	CodeUpdateConflict        = "UPDATE_CONFLICT"
	CodeProcessing            = "PROCESSING_ERROR"
	CodeInventoryLookup       = "INVENTORY_LOOKUP_ERROR"
	CodePermissionDenied      = "PERMISSION_DENIED"
	CodeInternal              = "INTERNAL_ERROR"
)

var (
	ErrValidation            = errors.New("order request is invalid")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrOrderNotFound         = errors.New("order not found")
	ErrUpdateConflict        = errors.New("order update conflicts with current state")
	ErrProcessing            = errors.New("order processing failed")
	ErrInventoryLookup       = errors.New("inventory lookup failed")
	ErrPermissionDenied      = errors.New("permission denied")
)

// ValidationError carries every field-level problem found in a request.
type ValidationError struct {
	Errors []string
}

func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Errors: messages}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(e.Errors, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }
func (e *ValidationError) Code() string  { return CodeValidation }

// UnavailableItem describes a requested product that cannot be supplied.
type UnavailableItem struct {
	ProductID         string `json:"productId"`
	ProductName       string `json:"productName"`
	RequestedQuantity int    `json:"requestedQuantity"`
	AvailableQuantity int    `json:"availableQuantity"`
}

// InsufficientInventoryError lists the items that blocked an order.
type InsufficientInventoryError struct {
	Items []UnavailableItem
}

func NewInsufficientInventoryError(items []UnavailableItem) *InsufficientInventoryError {
	return &InsufficientInventoryError{Items: items}
}

func (e *InsufficientInventoryError) Error() string {
	ids := make([]string, 0, len(e.Items))
	for _, it := range e.Items {
		ids = append(ids, it.ProductID)
	}
	return fmt.Sprintf("%s: %s", ErrInsufficientInventory, strings.Join(ids, ", "))
}

func (e *InsufficientInventoryError) Unwrap() error { return ErrInsufficientInventory }
func (e *InsufficientInventoryError) Code() string  { return CodeInsufficientInventory }

// OrderNotFoundError reports an unknown order id.
type OrderNotFoundError struct {
	OrderID string
}

func NewOrderNotFoundError(orderID string) *OrderNotFoundError {
	return &OrderNotFoundError{OrderID: orderID}
}

func (e *OrderNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", ErrOrderNotFound, e.OrderID)
}

func (e *OrderNotFoundError) Unwrap() error { return ErrOrderNotFound }
func (e *OrderNotFoundError) Code() string  { return CodeOrderNotFound }

// UpdateConflictError lists why an update cannot be applied to the current state.
type UpdateConflictError struct {
	Reasons []string
}

func NewUpdateConflictError(reasons ...string) *UpdateConflictError {
	return &UpdateConflictError{Reasons: reasons}
}

func (e *UpdateConflictError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUpdateConflict, strings.Join(e.Reasons, "; "))
}

func (e *UpdateConflictError) Unwrap() error { return ErrUpdateConflict }
func (e *UpdateConflictError) Code() string  { return CodeUpdateConflict }

// ProcessingError reports the fulfillment step at which a run stopped.
type ProcessingError struct {
	Step     int
	StepName string
	Message  string
}

func NewProcessingError(step int, stepName, message string) *ProcessingError {
	return &ProcessingError{Step: step, StepName: stepName, Message: message}
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%s at step %d (%s): %s", ErrProcessing, e.Step, e.StepName, e.Message)
}

func (e *ProcessingError) Unwrap() error { return ErrProcessing }
func (e *ProcessingError) Code() string  { return CodeProcessing }

// InventoryLookupError wraps a catalog failure. errors.Is matches both
// ErrInventoryLookup and the underlying cause.
type InventoryLookupError struct {
	Cause error
}

func NewInventoryLookupError(cause error) *InventoryLookupError {
	return &InventoryLookupError{Cause: cause}
}

func (e *InventoryLookupError) Error() string {
	return fmt.Sprintf("%s: %v", ErrInventoryLookup, e.Cause)
}

func (e *InventoryLookupError) Unwrap() []error { return []error{ErrInventoryLookup, e.Cause} }
func (e *InventoryLookupError) Code() string    { return CodeInventoryLookup }

// PermissionDeniedError is returned by authorizers that refuse an action.
type PermissionDeniedError struct {
	Actor  string
	Action string
}

func NewPermissionDeniedError(actor, action string) *PermissionDeniedError {
	return &PermissionDeniedError{Actor: actor, Action: action}
}

func (e *PermissionDeniedError) Error() string {
	return fmt.Sprintf("%s: %s may not %s", ErrPermissionDenied, e.Actor, e.Action)
}

func (e *PermissionDeniedError) Unwrap() error { return ErrPermissionDenied }
func (e *PermissionDeniedError) Code() string  { return CodePermissionDenied }
