package notification

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage implements Storage on a pgx connection pool. The schema
// lives in the migrations directory; soft-deleted rows stay in the table and
// every query filters them out.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage creates a Postgres-backed notification storage.
func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

func (s *PostgresStorage) CreateMany(ctx context.Context, rows []Notification) ([]Notification, error) {
	created := materialize(rows)
	for _, row := range created {
		if row.RecipientID == "" {
			return nil, ErrMissingRecipientID
		}
	}
	if len(created) == 0 {
		return []Notification{}, nil
	}

	// One batched round trip; identity and timestamps were materialized
	// above, so the returned slice is already the canonical row set.
	batch := &pgx.Batch{}
	for _, row := range created {
		batch.Queue(
			`INSERT INTO notifications (id, recipient_id, title, body, link, is_read, is_deleted, created_at)
			 VALUES ($1, $2, $3, $4, $5, FALSE, FALSE, $6)`,
			row.ID, row.RecipientID, row.Title, row.Body, row.Link, row.CreatedAt,
		)
	}

	results := s.pool.SendBatch(ctx, batch)
	var execErr error
	for range created {
		if _, err := results.Exec(); err != nil {
			execErr = err
			break
		}
	}
	if err := results.Close(); err != nil && execErr == nil {
		execErr = err
	}
	if execErr != nil {
		return nil, errors.Join(ErrCreateFailed, execErr)
	}

	return created, nil
}

func (s *PostgresStorage) ListPage(ctx context.Context, recipientID string, page, pageSize int) (ListResult, error) {
	if page < 1 || pageSize < 1 {
		return ListResult{}, ErrInvalidPagination
	}

	result := ListResult{Items: []Notification{}}

	err := s.pool.QueryRow(ctx,
		`SELECT count(*), count(*) FILTER (WHERE NOT is_read)
		 FROM notifications
		 WHERE recipient_id = $1 AND NOT is_deleted`,
		recipientID,
	).Scan(&result.TotalCount, &result.UnreadCount)
	if err != nil {
		return ListResult{}, errors.Join(ErrQueryFailed, err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, recipient_id, title, body, link, is_read, is_deleted, created_at
		 FROM notifications
		 WHERE recipient_id = $1 AND NOT is_deleted
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		recipientID, pageSize, (page-1)*pageSize,
	)
	if err != nil {
		return ListResult{}, errors.Join(ErrQueryFailed, err)
	}
	defer rows.Close()

	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Title, &n.Body, &n.Link, &n.IsRead, &n.IsDeleted, &n.CreatedAt); err != nil {
			return ListResult{}, errors.Join(ErrQueryFailed, err)
		}
		result.Items = append(result.Items, n)
	}
	if err := rows.Err(); err != nil {
		return ListResult{}, errors.Join(ErrQueryFailed, err)
	}

	return result, nil
}

func (s *PostgresStorage) MarkRead(ctx context.Context, id, recipientID string) error {
	// Matching zero rows (already read, deleted, or not owned) is a silent
	// no-op so existence never leaks across recipients.
	_, err := s.pool.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE
		 WHERE id = $1 AND recipient_id = $2 AND NOT is_read AND NOT is_deleted`,
		id, recipientID,
	)
	if err != nil {
		return errors.Join(ErrUpdateFailed, err)
	}
	return nil
}

func (s *PostgresStorage) MarkAllRead(ctx context.Context, recipientID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE
		 WHERE recipient_id = $1 AND NOT is_read AND NOT is_deleted`,
		recipientID,
	)
	if err != nil {
		return errors.Join(ErrUpdateFailed, err)
	}
	return nil
}

func (s *PostgresStorage) SoftDelete(ctx context.Context, id, recipientID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE notifications SET is_deleted = TRUE
		 WHERE id = $1 AND recipient_id = $2 AND NOT is_deleted`,
		id, recipientID,
	)
	if err != nil {
		return errors.Join(ErrUpdateFailed, err)
	}
	return nil
}

// PostgresRecipientSource resolves eligible recipients from the recipients
// table.
type PostgresRecipientSource struct {
	pool *pgxpool.Pool
}

// NewPostgresRecipientSource creates a Postgres-backed recipient source.
func NewPostgresRecipientSource(pool *pgxpool.Pool) *PostgresRecipientSource {
	return &PostgresRecipientSource{pool: pool}
}

func (s *PostgresRecipientSource) ListActive(ctx context.Context, role Role) ([]Recipient, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, role, active FROM recipients WHERE active AND role = $1`,
		string(role),
	)
	if err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	defer rows.Close()

	var out []Recipient
	for rows.Next() {
		var r Recipient
		if err := rows.Scan(&r.ID, &r.Role, &r.Active); err != nil {
			return nil, errors.Join(ErrQueryFailed, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrQueryFailed, err)
	}
	return out, nil
}
