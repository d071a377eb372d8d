package notification_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifyhub/notification"
)

func seedRows(t *testing.T, s *notification.MemoryStorage, recipientID string, n int) []notification.Notification {
	t.Helper()

	rows := make([]notification.Notification, 0, n)
	base := time.Now().UTC().Add(-time.Duration(n) * time.Minute)
	for i := 0; i < n; i++ {
		rows = append(rows, notification.Notification{
			RecipientID: recipientID,
			Title:       "order update",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
	}
	created, err := s.CreateMany(context.Background(), rows)
	require.NoError(t, err)
	return created
}

func TestMemoryStorage_CreateMany(t *testing.T) {
	t.Parallel()

	t.Run("materializes id, timestamp, and flags", func(t *testing.T) {
		t.Parallel()

		s := notification.NewMemoryStorage()
		created, err := s.CreateMany(context.Background(), []notification.Notification{
			{RecipientID: "user-1", Title: "hello"},
			{RecipientID: "user-2", Title: "hello"},
		})
		require.NoError(t, err)
		require.Len(t, created, 2)

		for _, row := range created {
			assert.NotEmpty(t, row.ID)
			assert.False(t, row.CreatedAt.IsZero())
			assert.False(t, row.IsRead)
			assert.False(t, row.IsDeleted)
		}
		assert.NotEqual(t, created[0].ID, created[1].ID)
	})

	t.Run("rejects rows without recipient", func(t *testing.T) {
		t.Parallel()

		s := notification.NewMemoryStorage()
		_, err := s.CreateMany(context.Background(), []notification.Notification{
			{Title: "orphan"},
		})
		require.ErrorIs(t, err, notification.ErrMissingRecipientID)
	})
}

func TestMemoryStorage_ListPage(t *testing.T) {
	t.Parallel()

	t.Run("pages newest first with counts over the full set", func(t *testing.T) {
		t.Parallel()

		s := notification.NewMemoryStorage()
		created := seedRows(t, s, "user-1", 15)

		page1, err := s.ListPage(context.Background(), "user-1", 1, 10)
		require.NoError(t, err)
		assert.Len(t, page1.Items, 10)
		assert.Equal(t, 15, page1.TotalCount)
		assert.Equal(t, 15, page1.UnreadCount)
		// Newest row comes first regardless of page size.
		assert.Equal(t, created[len(created)-1].ID, page1.Items[0].ID)

		page2, err := s.ListPage(context.Background(), "user-1", 2, 10)
		require.NoError(t, err)
		assert.Len(t, page2.Items, 5)
		assert.Equal(t, 15, page2.TotalCount)
		assert.Equal(t, 15, page2.UnreadCount)
	})

	t.Run("unread count independent of the current page", func(t *testing.T) {
		t.Parallel()

		s := notification.NewMemoryStorage()
		created := seedRows(t, s, "user-1", 6)
		require.NoError(t, s.MarkRead(context.Background(), created[0].ID, "user-1"))
		require.NoError(t, s.MarkRead(context.Background(), created[1].ID, "user-1"))

		got, err := s.ListPage(context.Background(), "user-1", 1, 2)
		require.NoError(t, err)
		assert.Equal(t, 6, got.TotalCount)
		assert.Equal(t, 4, got.UnreadCount)
	})

	t.Run("page past the end is empty, not an error", func(t *testing.T) {
		t.Parallel()

		s := notification.NewMemoryStorage()
		seedRows(t, s, "user-1", 3)

		got, err := s.ListPage(context.Background(), "user-1", 5, 10)
		require.NoError(t, err)
		assert.Empty(t, got.Items)
		assert.Equal(t, 3, got.TotalCount)
	})

	t.Run("unknown recipient lists empty", func(t *testing.T) {
		t.Parallel()

		s := notification.NewMemoryStorage()
		got, err := s.ListPage(context.Background(), "nobody", 1, 10)
		require.NoError(t, err)
		assert.Empty(t, got.Items)
		assert.Zero(t, got.TotalCount)
		assert.Zero(t, got.UnreadCount)
	})

	t.Run("invalid pagination", func(t *testing.T) {
		t.Parallel()

		s := notification.NewMemoryStorage()
		_, err := s.ListPage(context.Background(), "user-1", 0, 10)
		require.ErrorIs(t, err, notification.ErrInvalidPagination)
		_, err = s.ListPage(context.Background(), "user-1", 1, 0)
		require.ErrorIs(t, err, notification.ErrInvalidPagination)
	})
}

func TestMemoryStorage_MarkRead(t *testing.T) {
	t.Parallel()

	t.Run("marks only the targeted row", func(t *testing.T) {
		t.Parallel()

		s := notification.NewMemoryStorage()
		created := seedRows(t, s, "user-1", 3)

		require.NoError(t, s.MarkRead(context.Background(), created[0].ID, "user-1"))

		got, err := s.ListPage(context.Background(), "user-1", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, 2, got.UnreadCount)
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()

		s := notification.NewMemoryStorage()
		created := seedRows(t, s, "user-1", 1)

		require.NoError(t, s.MarkRead(context.Background(), created[0].ID, "user-1"))
		require.NoError(t, s.MarkRead(context.Background(), created[0].ID, "user-1"))

		got, err := s.ListPage(context.Background(), "user-1", 1, 10)
		require.NoError(t, err)
		assert.Zero(t, got.UnreadCount)
	})

	t.Run("scoped to the recipient", func(t *testing.T) {
		t.Parallel()

		s := notification.NewMemoryStorage()
		created := seedRows(t, s, "user-1", 1)

		// Another recipient cannot flip someone else's row.
		require.NoError(t, s.MarkRead(context.Background(), created[0].ID, "user-2"))

		got, err := s.ListPage(context.Background(), "user-1", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, got.UnreadCount)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		t.Parallel()

		s := notification.NewMemoryStorage()
		require.NoError(t, s.MarkRead(context.Background(), "missing", "user-1"))
	})
}

func TestMemoryStorage_MarkAllRead(t *testing.T) {
	t.Parallel()

	s := notification.NewMemoryStorage()
	seedRows(t, s, "user-1", 4)
	seedRows(t, s, "user-2", 2)

	require.NoError(t, s.MarkAllRead(context.Background(), "user-1"))

	got, err := s.ListPage(context.Background(), "user-1", 1, 10)
	require.NoError(t, err)
	assert.Zero(t, got.UnreadCount)

	// Other recipients are untouched.
	other, err := s.ListPage(context.Background(), "user-2", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, other.UnreadCount)
}

func TestMemoryStorage_SoftDelete(t *testing.T) {
	t.Parallel()

	t.Run("removes row from listings and counts", func(t *testing.T) {
		t.Parallel()

		s := notification.NewMemoryStorage()
		created := seedRows(t, s, "user-1", 3)

		require.NoError(t, s.SoftDelete(context.Background(), created[1].ID, "user-1"))

		got, err := s.ListPage(context.Background(), "user-1", 1, 10)
		require.NoError(t, err)
		assert.Len(t, got.Items, 2)
		assert.Equal(t, 2, got.TotalCount)
		assert.Equal(t, 2, got.UnreadCount)
		for _, row := range got.Items {
			assert.NotEqual(t, created[1].ID, row.ID)
		}
	})

	t.Run("idempotent and scoped", func(t *testing.T) {
		t.Parallel()

		s := notification.NewMemoryStorage()
		created := seedRows(t, s, "user-1", 1)

		require.NoError(t, s.SoftDelete(context.Background(), created[0].ID, "user-1"))
		require.NoError(t, s.SoftDelete(context.Background(), created[0].ID, "user-1"))
		require.NoError(t, s.SoftDelete(context.Background(), created[0].ID, "user-2"))

		got, err := s.ListPage(context.Background(), "user-1", 1, 10)
		require.NoError(t, err)
		assert.Zero(t, got.TotalCount)
	})
}

func TestStaticRecipientSource(t *testing.T) {
	t.Parallel()

	src := notification.NewStaticRecipientSource(
		notification.Recipient{ID: "op-1", Role: notification.RoleOperator, Active: true},
		notification.Recipient{ID: "op-2", Role: notification.RoleOperator, Active: false},
		notification.Recipient{ID: "adm-1", Role: notification.RoleAdmin, Active: true},
	)

	operators, err := src.ListActive(context.Background(), notification.RoleOperator)
	require.NoError(t, err)
	require.Len(t, operators, 1)
	assert.Equal(t, "op-1", operators[0].ID)

	admins, err := src.ListActive(context.Background(), notification.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)

	services, err := src.ListActive(context.Background(), notification.RoleService)
	require.NoError(t, err)
	assert.Empty(t, services)
}
