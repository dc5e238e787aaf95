// Package services holds the server's business logic: credential checks,
// the authentication flows and data entry management.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/internportal/internal/common"
	"github.com/dmitrijs2005/internportal/internal/logging"
	"github.com/dmitrijs2005/internportal/internal/server/auth"
	"github.com/dmitrijs2005/internportal/internal/server/models"
	"github.com/dmitrijs2005/internportal/internal/server/repositories/repomanager"
)

// CredentialVerifier checks an email/password pair against the user store.
//
// Unknown email and wrong password both produce common.ErrorUnauthorized.
// When the configured hasher does not recognise a stored value (a row
// written in plaintext mode), the value is compared verbatim and, on a
// match, re-hashed in place.
type CredentialVerifier struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	log         logging.Logger
}

func NewCredentialVerifier(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher, log logging.Logger) *CredentialVerifier {
	return &CredentialVerifier{db: db, repomanager: m, hasher: hasher, log: log.With("component", "verifier")}
}

func (v *CredentialVerifier) Verify(ctx context.Context, email, password string) (*models.User, error) {
	repo := v.repomanager.Users(v.db)

	user, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if v.hasher.NeedsUpgrade(user.PasswordHash) {
		ok, _ := auth.PlaintextHasher{}.Verify(password, user.PasswordHash)
		if !ok {
			return nil, common.ErrorUnauthorized
		}
		v.upgrade(ctx, user, password)
		return user, nil
	}

	ok, err := v.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		v.log.Warn(ctx, "unreadable password hash", "user_id", user.ID, "error", err)
		return nil, common.ErrorUnauthorized
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}

// upgrade re-hashes a legacy stored password. Failure only costs the
// upgrade; the login itself already succeeded.
func (v *CredentialVerifier) upgrade(ctx context.Context, user *models.User, password string) {
	hashed, err := v.hasher.Hash(password)
	if err != nil {
		v.log.Warn(ctx, "password rehash failed", "user_id", user.ID, "error", err)
		return
	}

	upgraded := *user
	upgraded.PasswordHash = hashed
	if err := v.repomanager.Users(v.db).Update(ctx, &upgraded); err != nil {
		v.log.Warn(ctx, "password rehash not stored", "user_id", user.ID, "error", err)
		return
	}

	user.PasswordHash = hashed
	v.log.Info(ctx, "password hash upgraded", "user_id", user.ID)
}
