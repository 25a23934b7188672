package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidPayload_IsCanonical(t *testing.T) {
	err := InvalidPayload()

	assert.Equal(t, "Invalid JSON payload", err.Message)
	assert.Empty(t, err.Data)
	assert.True(t, errors.Is(err, ErrBadRequest))
	assert.False(t, errors.Is(err, ErrAccessDenied))
}

func TestNew_NormalizesEmptyData(t *testing.T) {
	for _, raw := range []string{"", "null", "[]", " {} ", `""`} {
		assert.Nil(t, BadRequest("x", []byte(raw)).Data, "data %q", raw)
	}
	assert.JSONEq(t, `[{"name":"price"}]`, string(BadRequest("x", []byte(`[{"name":"price"}]`)).Data))
}

func TestErrorsAs_ThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("import failed: %w", AccessDenied("Access denied", nil))

	var apiErr *Error
	require.True(t, errors.As(wrapped, &apiErr))
	assert.Equal(t, KindAccessDenied, apiErr.Kind)
	assert.Equal(t, KindAccessDenied, KindOf(wrapped))
	assert.True(t, errors.Is(wrapped, ErrAccessDenied))
}

func TestValidationFailed_ListsFields(t *testing.T) {
	err := ValidationFailed("payload is invalid", []Violation{
		{Field: "items[0].name", Message: "is required"},
		{Field: "items[0].price", Message: "must be numeric"},
	}, nil)

	assert.Contains(t, err.Error(), "items[0].name, items[0].price")
	assert.True(t, errors.Is(err, ErrValidationFailed))
}

func TestTransport_WrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := Transport(cause)

	assert.True(t, errors.Is(err, ErrBadRequest))
	assert.True(t, errors.Is(err, cause))
}

func TestIsRateLimited(t *testing.T) {
	e := BadRequest("Too Many Requests", nil)
	e.Status = http.StatusTooManyRequests

	assert.True(t, IsRateLimited(e))
	assert.False(t, IsRateLimited(BadRequest("x", nil)))
	assert.False(t, IsRateLimited(errors.New("plain")))
}

func TestRemoteError_KeptBehindCanonicalMessage(t *testing.T) {
	err := InvalidPayload()
	err.Err = &RemoteError{Code: "BAD_REQUEST", Message: "Product is archived"}

	assert.Equal(t, "ozon: bad request: Invalid JSON payload: server: BAD_REQUEST Product is archived", err.Error())
	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, "BAD_REQUEST", remote.Code)

	assert.Equal(t, "server: NOT_FOUND", (&RemoteError{Code: "NOT_FOUND"}).Error())
	assert.Equal(t, "server: broken", (&RemoteError{Message: "broken"}).Error())
}
