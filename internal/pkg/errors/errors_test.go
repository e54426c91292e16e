package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := BadRequest("page is required")
		assert.Equal(t, "BAD_REQUEST: page is required", err.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := Internal("query failed").WithError(cause)

		assert.Equal(t, "INTERNAL_ERROR: query failed (connection reset)", err.Error())
		assert.ErrorIs(t, err, cause)
	})
}

func TestGetStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"bad request", BadRequest("bad"), http.StatusBadRequest},
		{"internal", Internal("boom"), http.StatusInternalServerError},
		{"unavailable", Unavailable("postgres"), http.StatusServiceUnavailable},
		{"wrapped app error", fmt.Errorf("handler: %w", BadRequest("bad")), http.StatusBadRequest},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetStatusCode(tt.err))
		})
	}
}

func TestGetAppError(t *testing.T) {
	assert.Nil(t, GetAppError(errors.New("plain")))

	err := GetAppError(fmt.Errorf("ping: %w", Unavailable("redis")))
	require.NotNil(t, err)
	assert.Equal(t, CodeUnavailable, err.Code)
	assert.Equal(t, "redis unavailable", err.Message)
}
