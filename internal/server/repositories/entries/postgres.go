package entries

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/internportal/internal/common"
	"github.com/dmitrijs2005/internportal/internal/dbx"
	"github.com/dmitrijs2005/internportal/internal/server/models"
)

const entryColumns = `id, user_id, title, content, entry_date, attachment_key, created_at`

// PostgresRepository implements entry storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.DataEntry) (*models.DataEntry, error) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}

	query := `
		INSERT INTO data_entries (user_id, title, content, entry_date, attachment_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query,
		entry.UserID, entry.Title, entry.Content, entry.EntryDate, entry.AttachmentKey, entry.CreatedAt).Scan(&entry.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entry, nil
}

// ListByUser returns the user's entries, newest entry date first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]models.DataEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM data_entries
		WHERE user_id = $1
		ORDER BY entry_date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.DataEntry{}
	for rows.Next() {
		var e models.DataEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Content, &e.EntryDate, &e.AttachmentKey, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID, id int64) (*models.DataEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM data_entries
		WHERE id = $1 AND user_id = $2`

	e := &models.DataEntry{}
	err := r.db.QueryRowContext(ctx, query, id, userID).
		Scan(&e.ID, &e.UserID, &e.Title, &e.Content, &e.EntryDate, &e.AttachmentKey, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id int64) error {
	return r.execOne(ctx, `DELETE FROM data_entries WHERE id = $1 AND user_id = $2`, id, userID)
}

func (r *PostgresRepository) SetAttachmentKey(ctx context.Context, userID, id int64, key string) error {
	return r.execOne(ctx, `UPDATE data_entries SET attachment_key = $3 WHERE id = $1 AND user_id = $2`, id, userID, key)
}

// execOne runs a statement addressed to a single owned row and reports
// common.ErrorNotFound when nothing matched.
func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
