package notification

import (
	"time"

	"github.com/google/uuid"
)

// Role classifies recipients and callers for eligibility filtering.
type Role string

const (
	// RoleOperator marks staff who must be alerted to new orders and
	// inbound messages.
	RoleOperator Role = "operator"
	// RoleAdmin has the operator surface plus administrative endpoints.
	RoleAdmin Role = "admin"
	// RoleService marks internal callers allowed to trigger broadcasts.
	RoleService Role = "service"
)

// Notification is the durable domain model. A row belongs to exactly one
// recipient; IsRead and IsDeleted only ever transition from false to true,
// and a deleted row is excluded from every listing and count.
type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Link        string    `json:"link"` // opaque routing hint for clients, not interpreted here
	IsRead      bool      `json:"is_read"`
	IsDeleted   bool      `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// EventPayload is the template a business event provides for each recipient's
// notification row.
type EventPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Link  string `json:"link"`
}

// EventType discriminates frames on the stream wire.
type EventType string

const (
	// EventConnected is sent exactly once when a stream opens so clients
	// can distinguish "open but idle" from "still connecting".
	EventConnected EventType = "connected"
	// EventNewNotification carries a full freshly created notification row.
	EventNewNotification EventType = "new_notification"
)

// StreamEvent is the tagged union written as a data frame on the stream.
type StreamEvent struct {
	Type         EventType     `json:"type"`
	Notification *Notification `json:"notification,omitempty"`
}

// ConnectedEvent builds the frame written once on stream open.
func ConnectedEvent() StreamEvent {
	return StreamEvent{Type: EventConnected}
}

// NewNotificationEvent builds the frame broadcast for a created row.
func NewNotificationEvent(n Notification) StreamEvent {
	return StreamEvent{Type: EventNewNotification, Notification: &n}
}

// Recipient is an identity row resolved from the external identity source.
type Recipient struct {
	ID     string `json:"id"`
	Role   Role   `json:"role"`
	Active bool   `json:"active"`
}

// materialize fills generated identity and timestamp for rows about to be
// persisted. The created rows are broadcast with this exact identity, so it
// must be assigned before any publish.
func materialize(rows []Notification) []Notification {
	now := time.Now().UTC()
	out := make([]Notification, len(rows))
	for i, row := range rows {
		if row.ID == "" {
			row.ID = uuid.New().String()
		}
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		row.IsRead = false
		row.IsDeleted = false
		out[i] = row
	}
	return out
}
