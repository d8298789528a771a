// Package envelope defines the uniform result returned by every public order
// operation and the mapping from errors to envelopes.
package envelope

import (
	"errors"
	"net/http"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
)

// Envelope is {success, statusCode, data?, error?}. StatusCode follows HTTP
// semantics so transports can pass it through unchanged.
type Envelope[T any] struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Data       *T     `json:"data,omitempty"`
	Error      *Error `json:"error,omitempty"`
}

// Error is the failure part of an envelope.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// OK wraps a successful read or update.
func OK[T any](data T) Envelope[T] {
	return Envelope[T]{Success: true, StatusCode: http.StatusOK, Data: &data}
}

// Created wraps a successful creation.
func Created[T any](data T) Envelope[T] {
	return Envelope[T]{Success: true, StatusCode: http.StatusCreated, Data: &data}
}

// Fail maps err to a failed envelope without data.
func Fail[T any](err error) Envelope[T] {
	status, e := FromError(err)
	return Envelope[T]{StatusCode: status, Error: &e}
}

// FailWithData maps err to a failed envelope that still carries a payload,
// e.g. the step log of an interrupted fulfillment run.
func FailWithData[T any](err error, data T) Envelope[T] {
	env := Fail[T](err)
	env.Data = &data
	return env
}

// FromError translates an error into a status code and envelope error.
// Unrecognized errors become INTERNAL_ERROR without leaking their text.
func FromError(err error) (int, Error) {
	var (
		validationErr *order.ValidationError
		inventoryErr  *order.InsufficientInventoryError
		notFoundErr   *order.OrderNotFoundError
		conflictErr   *order.UpdateConflictError
		processingErr *order.ProcessingError
		lookupErr     *order.InventoryLookupError
		permissionErr *order.PermissionDeniedError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, Error{
			Code:    order.CodeValidation,
			Message: "Order validation failed",
			Details: validationErr.Errors,
		}
	case errors.As(err, &inventoryErr):
		return http.StatusConflict, Error{
			Code:    order.CodeInsufficientInventory,
			Message: "Some items are not available",
			Details: inventoryErr.Items,
		}
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound, Error{
			Code:    order.CodeOrderNotFound,
			Message: "Order not found",
			Details: map[string]string{"orderId": notFoundErr.OrderID},
		}
	case errors.As(err, &conflictErr):
		return http.StatusConflict, Error{
			Code:    order.CodeUpdateConflict,
			Message: "Order update conflicts with its current state",
			Details: conflictErr.Reasons,
		}
	case errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict, Error{
			Code:    order.CodeUpdateConflict,
			Message: "Order update conflicts with its current state",
			Details: []string{"order was modified concurrently"},
		}
	case errors.As(err, &processingErr):
		return http.StatusInternalServerError, Error{
			Code:    order.CodeProcessing,
			Message: processingErr.Error(),
			Details: map[string]any{"step": processingErr.Step, "stepName": processingErr.StepName},
		}
	case errors.As(err, &lookupErr):
		return http.StatusInternalServerError, Error{
			Code:    order.CodeInventoryLookup,
			Message: "Inventory lookup failed",
		}
	case errors.As(err, &permissionErr):
		return http.StatusForbidden, Error{
			Code:    order.CodePermissionDenied,
			Message: permissionErr.Error(),
		}
	default:
		return http.StatusInternalServerError, Error{
			Code:    order.CodeInternal,
			Message: "An unexpected error occurred",
		}
	}
}
