package notification

import "context"

// ListResult is one page of a recipient's notifications. UnreadCount always
// reflects the recipient's entire non-deleted unread set, independent of the
// requested window.
type ListResult struct {
	Items       []Notification `json:"items"`
	TotalCount  int            `json:"total_count"`
	UnreadCount int            `json:"unread_count"`
}

// Storage handles notification persistence. Mutating operations are scoped
// by (id, recipientID) so a recipient can never touch another's rows, and
// they are silent no-ops when the row is already in the target state, deleted,
// or not owned - existence is never leaked across recipients.
type Storage interface {
	// CreateMany inserts all rows in one operation and returns them with
	// generated identity and creation timestamp.
	CreateMany(ctx context.Context, rows []Notification) ([]Notification, error)

	// ListPage returns the page-th page (1-based) of non-deleted rows for
	// the recipient, newest first, along with total and unread counts.
	ListPage(ctx context.Context, recipientID string, page, pageSize int) (ListResult, error)

	// MarkRead marks a single owned row as read. Idempotent.
	MarkRead(ctx context.Context, id, recipientID string) error

	// MarkAllRead marks every unread non-deleted row for the recipient as
	// read. Idempotent.
	MarkAllRead(ctx context.Context, recipientID string) error

	// SoftDelete marks a single owned row as deleted, removing it from all
	// listings and counts while keeping it in storage. Idempotent.
	SoftDelete(ctx context.Context, id, recipientID string) error
}

// RecipientSource resolves the recipients eligible for a broadcast from the
// external identity store.
type RecipientSource interface {
	// ListActive returns all active recipients holding the given role.
	ListActive(ctx context.Context, role Role) ([]Recipient, error)
}
