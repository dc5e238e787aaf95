package passwordresets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/internportal/internal/common"
	"github.com/dmitrijs2005/internportal/internal/dbx"
	"github.com/dmitrijs2005/internportal/internal/server/models"
	"github.com/dmitrijs2005/internportal/internal/server/repositories/pgerr"
)

// PostgresRepository stores reset tickets over dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, reset *models.PasswordReset) (*models.PasswordReset, error) {
	if reset.CreatedAt.IsZero() {
		reset.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}

	query := `
		INSERT INTO password_resets (user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, reset.UserID, reset.TokenHash, reset.ExpiresAt, reset.CreatedAt).Scan(&reset.ID)
	if err != nil {
		return nil, pgerr.Wrap(err)
	}
	return reset, nil
}

func (r *PostgresRepository) FindByTokenHash(ctx context.Context, tokenHash string) (*models.PasswordReset, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, created_at
		FROM password_resets
		WHERE token_hash = $1
	`
	p := &models.PasswordReset{}
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(&p.ID, &p.UserID, &p.TokenHash, &p.ExpiresAt, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) ConsumeByTokenHash(ctx context.Context, tokenHash string) (int64, error) {
	return r.exec(ctx, `DELETE FROM password_resets WHERE token_hash = $1`, tokenHash)
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	return r.exec(ctx, `DELETE FROM password_resets WHERE user_id = $1`, userID)
}

func (r *PostgresRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return r.exec(ctx, `DELETE FROM password_resets WHERE expires_at < $1`, before)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
