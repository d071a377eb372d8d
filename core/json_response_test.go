package core_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifyhub/core"
)

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("data with meta", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		core.JSON(w, http.StatusOK, []string{"a", "b"}, map[string]any{"total_count": 2})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

		var body core.JSONResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, []any{"a", "b"}, body.Data)
		assert.Equal(t, float64(2), body.Meta["total_count"])
		assert.Nil(t, body.Error)
	})

	t.Run("no content", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		core.NoContent(w)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestJSONError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "http error uses its own status and key",
			err:        core.ErrUnauthorized,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "unauthorized",
		},
		{
			name:       "custom http error",
			err:        core.NewHTTPError(http.StatusForbidden, "unknown_recipient"),
			wantStatus: http.StatusForbidden,
			wantCode:   "unknown_recipient",
		},
		{
			name:       "wrapped http error is unwrapped",
			err:        fmt.Errorf("handler: %w", core.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "plain error maps to 500 without leaking detail",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_server_error",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			w := httptest.NewRecorder()
			core.JSONError(w, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)

			var body core.JSONResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.NotContains(t, body.Error.Message, "connection refused")
		})
	}
}
