package errs_test

import (
	"errors"
	"testing"

	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderId", "ord-1")

		assert.Equal(t, "orderId", err.ParamName)
		assert.Equal(t, "ord-1", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: ord-1", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := errs.NewObjectNotFoundErrorWithCause("productId", "p1", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: productId, ID is: p1 (cause: connection reset)",
			err.Error())
	})
}

func TestValueErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{
			name:     "required",
			err:      errs.NewValueIsRequiredError("buyerId"),
			sentinel: errs.ErrValueIsRequired,
			message:  "value is required: buyerId",
		},
		{
			name:     "required with cause",
			err:      errs.NewValueIsRequiredErrorWithCause("street", errors.New("blank")),
			sentinel: errs.ErrValueIsRequired,
			message:  "value is required: street (cause: blank)",
		},
		{
			name:     "invalid",
			err:      errs.NewValueIsInvalidError("paymentMethod"),
			sentinel: errs.ErrValueIsInvalid,
			message:  "value is invalid: paymentMethod",
		},
		{
			name:     "invalid with cause",
			err:      errs.NewValueIsInvalidErrorWithCause("status", errors.New("unknown")),
			sentinel: errs.ErrValueIsInvalid,
			message:  "value is invalid: status (cause: unknown)",
		},
		{
			name:     "out of range",
			err:      errs.NewValueIsOutOfRangeError("quantity", 0, 1, 10000),
			sentinel: errs.ErrValueIsOutOfRange,
			message:  "value is invalid: 0 is quantity, min value is 1, max value is 10000",
		},
		{
			name:     "version",
			err:      errs.NewVersionIsInvalidErrorWithCause("order", errors.New("expected 3")),
			sentinel: errs.ErrVersionIsInvalid,
			message:  "version is invalid: order (cause: expected 3)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.err, tt.sentinel)
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestValueIsOutOfRangeError_SanitizesNewlines(t *testing.T) {
	err := errs.NewValueIsOutOfRangeError("note", "first\nsecond", 0, 10)

	assert.Contains(t, err.Error(), "first second")
	assert.NotContains(t, err.Error(), "\n")
}
