package xerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
)

func TestWithContextDoesNotMutateSentinel(t *testing.T) {
	e := ErrZeroSpot.WithContext("request_id", "r-1")

	assert.Equal(t, "r-1", e.Context["request_id"])
	assert.Empty(t, ErrZeroSpot.Context)
	assert.NotEmpty(t, e.Stack)
	assert.True(t, errors.Is(e, ErrZeroSpot))
	assert.False(t, errors.Is(e, ErrZeroStrike))
}

func TestWrapKeepsCode(t *testing.T) {
	inner := fmt.Errorf("parse spot: %w", ErrInvalidAmount)
	w := Wrap(inner, ErrInternal, "request rejected")

	assert.Equal(t, ErrInvalidAmount.Code, w.Code)
	assert.Equal(t, ErrInvalidArg, w.Type)
	assert.True(t, errors.Is(w, ErrInvalidAmount))
	assert.Equal(t, http.StatusBadRequest, w.HTTPStatus())

	plain := Wrap(errors.New("boom"), ErrInternal, "failed")
	assert.Equal(t, http.StatusInternalServerError, plain.HTTPStatus())
	assert.Nil(t, Wrap(nil, ErrInternal, "x"))
}

func TestStatusMapping(t *testing.T) {
	assert.Equal(t, codes.InvalidArgument, ErrZeroTime.GRPCCode())
	assert.Equal(t, codes.ResourceExhausted, ErrBatchTooLarge.GRPCCode())
	assert.Equal(t, http.StatusTooManyRequests, ErrBatchTooLarge.HTTPStatus())
	assert.Equal(t, http.StatusNotFound, ErrCacheMiss.HTTPStatus())
	assert.Equal(t, codes.Internal, ErrExpOverflow.ToGRPCStatus().Code())
}

func TestFromError(t *testing.T) {
	e, ok := FromError(fmt.Errorf("ctx: %w", ErrZeroVolatility))
	assert.True(t, ok)
	assert.Equal(t, 400104, e.Code)

	_, ok = FromError(errors.New("plain"))
	assert.False(t, ok)
}
