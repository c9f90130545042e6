package domainerrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "veritask/pkg/domain-errors"
)

func TestHasCode(t *testing.T) {
	t.Run("direct", func(t *testing.T) {
		err := dErrors.New(dErrors.CodeNotFound, "missing")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
		assert.False(t, dErrors.HasCode(err, dErrors.CodeConflict))
	})

	t.Run("through fmt wrap", func(t *testing.T) {
		inner := dErrors.New(dErrors.CodeValidation, "bad amount")
		err := fmt.Errorf("creating request: %w", inner)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("through coded wrap", func(t *testing.T) {
		inner := dErrors.New(dErrors.CodeInvalidInput, "bad uuid")
		outer := dErrors.Wrap(inner, dErrors.CodeBadRequest, "parsing request")
		assert.True(t, dErrors.HasCode(outer, dErrors.CodeBadRequest))
		assert.True(t, dErrors.HasCode(outer, dErrors.CodeInvalidInput))
		assert.False(t, dErrors.HasCode(outer, dErrors.CodeInternal))
	})

	t.Run("plain error", func(t *testing.T) {
		assert.False(t, dErrors.HasCode(errors.New("boom"), dErrors.CodeInternal))
	})

	t.Run("nil", func(t *testing.T) {
		assert.False(t, dErrors.HasCode(nil, dErrors.CodeInternal))
	})
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, dErrors.CodeConflict, dErrors.CodeOf(dErrors.New(dErrors.CodeConflict, "taken")))

	inner := dErrors.New(dErrors.CodeNotFound, "missing")
	outer := dErrors.Wrap(inner, dErrors.CodeInternal, "loading")
	assert.Equal(t, dErrors.CodeInternal, dErrors.CodeOf(outer), "outermost code wins")

	assert.Equal(t, dErrors.CodeInternal, dErrors.CodeOf(errors.New("boom")))
}

func TestWrapNil(t *testing.T) {
	assert.NoError(t, dErrors.Wrap(nil, dErrors.CodeInternal, "ignored"))
}

func TestErrorMessage(t *testing.T) {
	err := dErrors.New(dErrors.CodeValidation, "title too short")
	assert.EqualError(t, err, "validation_error: title too short")

	wrapped := dErrors.Wrap(errors.New("boom"), dErrors.CodeInternal, "saving")
	assert.EqualError(t, wrapped, "internal_error: saving: boom")
	assert.EqualError(t, errors.Unwrap(wrapped), "boom")
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[dErrors.Code]int{
		dErrors.CodeValidation:         http.StatusBadRequest,
		dErrors.CodeInvalidInput:       http.StatusBadRequest,
		dErrors.CodeBadRequest:         http.StatusBadRequest,
		dErrors.CodeInvariantViolation: http.StatusConflict,
		dErrors.CodeConflict:           http.StatusConflict,
		dErrors.CodeNotFound:           http.StatusNotFound,
		dErrors.CodeUnauthorized:       http.StatusUnauthorized,
		dErrors.CodeForbidden:          http.StatusForbidden,
		dErrors.CodeTimeout:            http.StatusGatewayTimeout,
		dErrors.CodeInternal:           http.StatusInternalServerError,
		dErrors.Code("unknown"):        http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, dErrors.ToHTTPStatus(code), string(code))
	}
}
