package entries

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/internportal/internal/client/models"
	"github.com/dmitrijs2005/internportal/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Upsert(ctx context.Context, e *models.Entry) error {
	query := ` INSERT INTO entries (id, title, content, entry_date, has_attachment, created_at)
			values (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET title = excluded.title,
				content = excluded.content,
				entry_date = excluded.entry_date,
				has_attachment = excluded.has_attachment,
				created_at = excluded.created_at
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.Title, e.Content, formatTime(e.EntryDate), e.HasAttachment, formatTime(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Entry, error) {
	query := `select id, title, content, entry_date, has_attachment, created_at
		from entries order by entry_date desc, id desc`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select entries: %w", err)
	}
	defer rows.Close()

	result := make([]models.Entry, 0)
	for rows.Next() {
		var (
			item             models.Entry
			entryDate, added string
		)
		if err := rows.Scan(&item.ID, &item.Title, &item.Content, &entryDate, &item.HasAttachment, &added); err != nil {
			return nil, err
		}
		if item.EntryDate, err = parseTime(entryDate); err != nil {
			return nil, err
		}
		if item.CreatedAt, err = parseTime(added); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `delete from entries where id=?`, id); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `delete from entries`); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad cached timestamp %q: %w", s, err)
	}
	return t, nil
}
