package requestid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifyhub/pkg/requestid"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(requestid.FromContext(r.Context())))
	})

	t.Run("generates an id when absent", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		requestid.Middleware(echo).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Body.String()
		require.NotEmpty(t, id)
		assert.Equal(t, id, w.Header().Get(requestid.Header))
	})

	t.Run("reuses a valid client id", func(t *testing.T) {
		t.Parallel()

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(requestid.Header, "client-id-42")
		w := httptest.NewRecorder()
		requestid.Middleware(echo).ServeHTTP(w, r)

		assert.Equal(t, "client-id-42", w.Body.String())
		assert.Equal(t, "client-id-42", w.Header().Get(requestid.Header))
	})

	t.Run("replaces invalid client ids", func(t *testing.T) {
		t.Parallel()

		for _, bad := range []string{"has space", "semi;colon", strings.Repeat("x", 200)} {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header.Set(requestid.Header, bad)
			w := httptest.NewRecorder()
			requestid.Middleware(echo).ServeHTTP(w, r)

			assert.NotEqual(t, bad, w.Body.String())
			assert.NotEmpty(t, w.Body.String())
		}
	})
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := requestid.LoggerExtractor()

	attr, ok := extract(requestid.WithContext(context.Background(), "req-1"))
	require.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "req-1", attr.Value.String())

	_, ok = extract(context.Background())
	assert.False(t, ok)
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	assert.Empty(t, requestid.FromContext(context.Background()))
	assert.Empty(t, requestid.FromContext(nil)) //nolint:staticcheck // nil context is part of the contract
}
