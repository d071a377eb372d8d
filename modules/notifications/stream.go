package notifications

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/notifyhub/core"
	"github.com/dmitrymomot/notifyhub/notification"
	"github.com/dmitrymomot/notifyhub/pkg/broadcast"
	"github.com/dmitrymomot/notifyhub/pkg/jwt"
	"github.com/dmitrymomot/notifyhub/pkg/logger"
)

// StreamConfig tunes the SSE endpoint.
type StreamConfig struct {
	HeartbeatInterval time.Duration `env:"STREAM_HEARTBEAT_INTERVAL" envDefault:"30s"` // HeartbeatInterval is the keep-alive comment frame cadence.
	SinkBuffer        int           `env:"STREAM_SINK_BUFFER" envDefault:"16"`         // SinkBuffer is the per-connection event buffer size.
}

// errUnknownRecipient rejects callers whose credential is valid but carries
// no authorized recipient.
var errUnknownRecipient = core.NewHTTPError(http.StatusForbidden, "unknown_recipient")

// StreamHandler serves the one-directional notification event stream.
//
// The connection moves through three states: it starts unauthenticated, and
// only a valid credential for an authorized recipient registers a sink and
// opens the stream; every exit path - heartbeat write failure, client
// disconnect, sink closed by the registry - runs the same deferred cleanup.
// Rejected attempts allocate nothing.
//
// The credential arrives in the "token" query parameter because EventSource
// clients cannot set request headers; a Bearer header works as a fallback
// for non-browser callers.
func StreamHandler(jwtService *jwt.Service, registry *broadcast.Registry, cfg StreamConfig, log *slog.Logger) http.HandlerFunc {
	extractors := []jwt.TokenExtractorFunc{
		jwt.QueryTokenExtractor("token"),
		jwt.BearerTokenExtractor,
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var token string
		for _, extract := range extractors {
			if t, err := extract(r); err == nil {
				token = t
				break
			}
		}
		if token == "" {
			core.JSONError(w, core.ErrUnauthorized)
			return
		}

		var claims AccessClaims
		if err := jwtService.Parse(token, &claims); err != nil {
			core.JSONError(w, core.ErrUnauthorized)
			return
		}
		if claims.Subject == "" || !canStream(notification.Role(claims.Role)) {
			core.JSONError(w, errUnknownRecipient)
			return
		}
		recipientID := claims.Subject

		flusher, ok := w.(http.Flusher)
		if !ok {
			core.JSONError(w, core.ErrInternalServerError)
			return
		}

		// Anti-buffering directives so intermediaries flush each frame
		// instead of batching the stream.
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		sink := broadcast.NewSink(cfg.SinkBuffer)
		registry.Register(recipientID, sink)
		defer func() {
			registry.Unregister(recipientID, sink)
			_ = sink.Close()
			log.LogAttrs(r.Context(), slog.LevelDebug, "stream closed",
				logger.RecipientID(recipientID),
			)
		}()

		connected, err := json.Marshal(notification.ConnectedEvent())
		if err != nil {
			return
		}
		if err := writeDataFrame(w, flusher, connected); err != nil {
			return
		}

		log.LogAttrs(r.Context(), slog.LevelDebug, "stream opened",
			logger.RecipientID(recipientID),
		)

		heartbeat := time.NewTicker(cfg.HeartbeatInterval)
		defer heartbeat.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case <-heartbeat.C:
				if err := writeCommentFrame(w, flusher); err != nil {
					return
				}
			case data, ok := <-sink.Events():
				if !ok {
					// Registry reaped the sink (e.g. full buffer).
					return
				}
				if err := writeDataFrame(w, flusher, data); err != nil {
					return
				}
			}
		}
	}
}

// writeDataFrame writes one SSE data frame and flushes it to the wire.
func writeDataFrame(w http.ResponseWriter, flusher http.Flusher, data []byte) error {
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

// writeCommentFrame writes a comment-only keep-alive frame. Clients never see
// it as an event; it exists to defeat idle timeouts in proxies.
func writeCommentFrame(w http.ResponseWriter, flusher http.Flusher) error {
	if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
