package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifyhub/pkg/logger"
)

func logLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("json format with static attrs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(
			logger.WithOutput(&buf),
			logger.WithFormat(logger.FormatJSON),
			logger.WithAttr(slog.String("service", "notifyhub")),
		)
		log.Info("started")

		record := logLine(t, &buf)
		assert.Equal(t, "started", record["msg"])
		assert.Equal(t, "notifyhub", record["service"])
	})

	t.Run("level filtering", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(
			logger.WithOutput(&buf),
			logger.WithLevel(slog.LevelWarn),
		)
		log.Info("dropped")
		assert.Empty(t, buf.String())

		log.Warn("kept")
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("invalid format panics", func(t *testing.T) {
		t.Parallel()

		assert.Panics(t, func() {
			logger.New(logger.WithFormat(logger.Format("xml")))
		})
	})

	t.Run("context extractors inject per-record attrs", func(t *testing.T) {
		t.Parallel()

		type ctxKey struct{}
		extractor := func(ctx context.Context) (slog.Attr, bool) {
			if v, ok := ctx.Value(ctxKey{}).(string); ok {
				return slog.String("request_id", v), true
			}
			return slog.Attr{}, false
		}

		var buf bytes.Buffer
		log := logger.New(
			logger.WithOutput(&buf),
			logger.WithFormat(logger.FormatJSON),
			logger.WithContextExtractors(extractor),
		)

		log.InfoContext(context.WithValue(context.Background(), ctxKey{}, "req-1"), "handled")
		record := logLine(t, &buf)
		assert.Equal(t, "req-1", record["request_id"])

		buf.Reset()
		log.InfoContext(context.Background(), "handled")
		record = logLine(t, &buf)
		assert.NotContains(t, record, "request_id")
	})

	t.Run("development preset tags service", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		log := logger.New(logger.WithDevelopment("notifyhub"), logger.WithOutput(&buf))
		log.Debug("verbose")

		out := buf.String()
		assert.Contains(t, out, "service=notifyhub")
		assert.Contains(t, out, "env=development")
	})
}

func TestAttrHelpers(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.Attr{}, logger.Error(nil))

	attr := logger.Error(errors.New("boom"))
	assert.Equal(t, "error", attr.Key)

	assert.Equal(t, "recipient_id", logger.RecipientID("user-1").Key)
	assert.Equal(t, "notification_id", logger.NotificationID("n-1").Key)
	assert.Equal(t, "role", logger.Role("operator").Key)
	assert.Equal(t, "count", logger.Count(3).Key)
}
