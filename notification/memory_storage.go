package notification

import (
	"context"
	"sort"
	"sync"
)

// MemoryStorage is an in-memory implementation of Storage. Suitable for
// development and testing.
type MemoryStorage struct {
	rows map[string][]Notification // recipientID -> rows
	mu   sync.RWMutex
}

// NewMemoryStorage creates an empty in-memory notification storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		rows: make(map[string][]Notification),
	}
}

func (s *MemoryStorage) CreateMany(ctx context.Context, rows []Notification) ([]Notification, error) {
	created := materialize(rows)
	for _, row := range created {
		if row.RecipientID == "" {
			return nil, ErrMissingRecipientID
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, row := range created {
		s.rows[row.RecipientID] = append(s.rows[row.RecipientID], row)
	}
	return created, nil
}

func (s *MemoryStorage) ListPage(ctx context.Context, recipientID string, page, pageSize int) (ListResult, error) {
	if page < 1 || pageSize < 1 {
		return ListResult{}, ErrInvalidPagination
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var visible []Notification
	unread := 0
	for _, row := range s.rows[recipientID] {
		if row.IsDeleted {
			continue
		}
		visible = append(visible, row)
		if !row.IsRead {
			unread++
		}
	}

	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})

	result := ListResult{
		Items:       []Notification{},
		TotalCount:  len(visible),
		UnreadCount: unread,
	}

	start := (page - 1) * pageSize
	if start >= len(visible) {
		return result, nil
	}
	end := min(start+pageSize, len(visible))
	result.Items = append(result.Items, visible[start:end]...)
	return result, nil
}

func (s *MemoryStorage) MarkRead(ctx context.Context, id, recipientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.rows[recipientID]
	for i := range rows {
		if rows[i].ID == id && !rows[i].IsDeleted {
			rows[i].IsRead = true
		}
	}
	return nil
}

func (s *MemoryStorage) MarkAllRead(ctx context.Context, recipientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.rows[recipientID]
	for i := range rows {
		if !rows[i].IsDeleted {
			rows[i].IsRead = true
		}
	}
	return nil
}

func (s *MemoryStorage) SoftDelete(ctx context.Context, id, recipientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.rows[recipientID]
	for i := range rows {
		if rows[i].ID == id {
			rows[i].IsDeleted = true
		}
	}
	return nil
}

// StaticRecipientSource serves a fixed recipient set. Suitable for
// development and testing.
type StaticRecipientSource struct {
	recipients []Recipient
}

// NewStaticRecipientSource creates a source over the given recipients.
func NewStaticRecipientSource(recipients ...Recipient) *StaticRecipientSource {
	return &StaticRecipientSource{recipients: recipients}
}

func (s *StaticRecipientSource) ListActive(ctx context.Context, role Role) ([]Recipient, error) {
	var out []Recipient
	for _, r := range s.recipients {
		if r.Active && r.Role == role {
			out = append(out, r)
		}
	}
	return out, nil
}
