package notifications

import (
	"log/slog"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/notifyhub/notification"
	"github.com/dmitrymomot/notifyhub/pkg/broadcast"
	"github.com/dmitrymomot/notifyhub/pkg/jwt"
)

// RouterConfig wires the notification module's dependencies.
type RouterConfig struct {
	JWT         *jwt.Service
	Registry    *broadcast.Registry
	Storage     notification.Storage
	Broadcaster *notification.Broadcaster
	Stream      StreamConfig
	Logger      *slog.Logger
}

// Router builds the notification module router, ready to be mounted:
//
//	r := chi.NewRouter()
//	r.Mount("/api/v1/notifications", notifications.Router(cfg))
//
// The stream route authenticates inside its handler so that the credential
// can arrive as a query parameter and rejected attempts allocate nothing;
// the remaining routes share the Bearer JWT middleware.
func Router(cfg RouterConfig) chi.Router {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()

	r.Get("/stream", StreamHandler(cfg.JWT, cfg.Registry, cfg.Stream, log))

	r.Group(func(api chi.Router) {
		api.Use(jwt.Middleware[AccessClaims](cfg.JWT))

		api.Get("/", ListHandler(cfg.Storage))
		api.Patch("/{id}/read", MarkReadHandler(cfg.Storage))
		api.Patch("/read-all", MarkAllReadHandler(cfg.Storage))
		api.Delete("/{id}", SoftDeleteHandler(cfg.Storage))

		api.Post("/internal/broadcast", BroadcastHandler(cfg.Broadcaster))
	})

	return r
}
