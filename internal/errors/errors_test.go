package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yarninisrael/OpenInsight/internal/errors"
)

func TestFactoryNew(t *testing.T) {
	errFactory := errors.New()

	err := errFactory.New(errors.ErrInternal)
	require.Error(t, err)
	assert.Equal(t, errors.ErrInternal, err.Code())
	assert.Equal(t, "Internal error occurred", err.Error())
}

func TestFactoryWrap(t *testing.T) {
	errFactory := errors.New()
	cause := stderrors.New("connection reset")

	err := errFactory.Wrap(errors.ErrOperationFailed, cause)
	require.Error(t, err)
	assert.Equal(t, errors.ErrOperationFailed, err.Code())
	assert.Contains(t, err.Error(), "connection reset")
	assert.True(t, errors.Is(err, cause))
}

func TestWithMessageAndData(t *testing.T) {
	errFactory := errors.New()

	err := errFactory.WithMessage(errors.ErrInvalidConfig, "host is required")
	assert.Equal(t, "host is required", err.Error())

	err = errFactory.WithData(errors.ErrInvalidArgument, 42)
	assert.Equal(t, 42, err.GetData())
	assert.Contains(t, err.Error(), "42")
}

func TestHasCode(t *testing.T) {
	errFactory := errors.New()
	inner := errFactory.New(errors.ErrTimeout)
	outer := errFactory.Wrap(errors.ErrMainLoop, inner)

	tests := []struct {
		name string
		err  error
		code errors.ErrorCode
		want bool
	}{
		{"direct match", inner, errors.ErrTimeout, true},
		{"wrapped match", outer, errors.ErrTimeout, true},
		{"outer match", outer, errors.ErrMainLoop, true},
		{"no match", outer, errors.ErrInvalidConfig, false},
		{"plain error", stderrors.New("plain"), errors.ErrTimeout, false},
		{"nil error", nil, errors.ErrTimeout, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.HasCode(tt.err, tt.code))
		})
	}
}

func TestCodeOf(t *testing.T) {
	errFactory := errors.New()

	assert.Equal(t, errors.ErrTimeout, errors.CodeOf(errFactory.New(errors.ErrTimeout)))
	assert.Equal(t, errors.ErrorCode(""), errors.CodeOf(stderrors.New("plain")))
	assert.Equal(t, errors.ErrorCode(""), errors.CodeOf(nil))
}

func TestUnknownCodeMessage(t *testing.T) {
	assert.Equal(t, "some_unknown_code", errors.GetErrorMessage(errors.ErrorCode("some_unknown_code")))
}
