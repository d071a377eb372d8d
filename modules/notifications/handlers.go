package notifications

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/notifyhub/core"
	"github.com/dmitrymomot/notifyhub/notification"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListHandler returns one page of the caller's notifications, newest first,
// with total and unread counts in the meta block.
func ListHandler(storage notification.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID, _, ok := identity(r.Context())
		if !ok {
			core.JSONError(w, core.ErrUnauthorized)
			return
		}

		page := queryInt(r, "page", 1)
		pageSize := queryInt(r, "page_size", defaultPageSize)
		if pageSize > maxPageSize {
			pageSize = maxPageSize
		}

		result, err := storage.ListPage(r.Context(), recipientID, page, pageSize)
		if err != nil {
			if errors.Is(err, notification.ErrInvalidPagination) {
				core.JSONError(w, core.ErrBadRequest)
				return
			}
			core.JSONError(w, err)
			return
		}

		core.JSON(w, http.StatusOK, result.Items, map[string]any{
			"total_count":  result.TotalCount,
			"unread_count": result.UnreadCount,
			"page":         page,
			"page_size":    pageSize,
		})
	}
}

// MarkReadHandler marks one owned notification as read. Idempotent: the
// response is 204 whether or not a row changed.
func MarkReadHandler(storage notification.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID, _, ok := identity(r.Context())
		if !ok {
			core.JSONError(w, core.ErrUnauthorized)
			return
		}

		id := chi.URLParam(r, "id")
		if id == "" {
			core.JSONError(w, core.ErrBadRequest)
			return
		}

		if err := storage.MarkRead(r.Context(), id, recipientID); err != nil {
			core.JSONError(w, err)
			return
		}
		core.NoContent(w)
	}
}

// MarkAllReadHandler marks every unread notification of the caller as read.
func MarkAllReadHandler(storage notification.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID, _, ok := identity(r.Context())
		if !ok {
			core.JSONError(w, core.ErrUnauthorized)
			return
		}

		if err := storage.MarkAllRead(r.Context(), recipientID); err != nil {
			core.JSONError(w, err)
			return
		}
		core.NoContent(w)
	}
}

// SoftDeleteHandler soft-deletes one owned notification. Idempotent.
func SoftDeleteHandler(storage notification.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipientID, _, ok := identity(r.Context())
		if !ok {
			core.JSONError(w, core.ErrUnauthorized)
			return
		}

		id := chi.URLParam(r, "id")
		if id == "" {
			core.JSONError(w, core.ErrBadRequest)
			return
		}

		if err := storage.SoftDelete(r.Context(), id, recipientID); err != nil {
			core.JSONError(w, err)
			return
		}
		core.NoContent(w)
	}
}

// broadcastRequest is the trigger payload submitted by internal callers
// after their own transaction has committed.
type broadcastRequest struct {
	RoleFilter string `json:"role_filter"`
	Title      string `json:"title"`
	Body       string `json:"body"`
	Link       string `json:"link"`
}

// BroadcastHandler accepts a business-event trigger and dispatches the
// fan-out detached from this request. It responds 202 immediately; the
// trigger never observes broadcast failures.
func BroadcastHandler(broadcaster *notification.Broadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, role, ok := identity(r.Context())
		if !ok {
			core.JSONError(w, core.ErrUnauthorized)
			return
		}
		if role != notification.RoleService {
			core.JSONError(w, core.ErrForbidden)
			return
		}

		var req broadcastRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			core.JSONError(w, core.ErrBadRequest)
			return
		}
		if req.Title == "" || req.RoleFilter == "" {
			core.JSONError(w, core.ErrUnprocessableEntity)
			return
		}

		broadcaster.Dispatch(r.Context(), notification.Role(req.RoleFilter), notification.EventPayload{
			Title: req.Title,
			Body:  req.Body,
			Link:  req.Link,
		})

		core.JSON(w, http.StatusAccepted, map[string]string{"status": "accepted"}, nil)
	}
}

// queryInt parses a positive integer query parameter, falling back to def.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return def
	}
	return v
}
