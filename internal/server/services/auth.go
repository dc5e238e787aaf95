package services

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/internportal/internal/common"
	"github.com/dmitrijs2005/internportal/internal/dbx"
	"github.com/dmitrijs2005/internportal/internal/logging"
	"github.com/dmitrijs2005/internportal/internal/server/auth"
	"github.com/dmitrijs2005/internportal/internal/server/config"
	"github.com/dmitrijs2005/internportal/internal/server/models"
	"github.com/dmitrijs2005/internportal/internal/server/repositories/repomanager"
)

// resetTokenBytes is the entropy of a reset token before hex encoding.
const resetTokenBytes = 32

// Verifier is satisfied by CredentialVerifier.
type Verifier interface {
	Verify(ctx context.Context, email, password string) (*models.User, error)
}

// Issuer is satisfied by auth.TokenIssuer.
type Issuer interface {
	Issue(u *models.User) (string, error)
}

// RegisterRequest carries the registration form. Role is accepted for
// compatibility but ignored: new accounts always get the default role.
type RegisterRequest struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      string
}

// AuthService implements registration, login and both password reset flows.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	verifier    Verifier
	issuer      Issuer
	hasher      auth.PasswordHasher
	notifier    ResetNotifier
	log         logging.Logger

	defaultRole      string
	allowDirectReset bool
	resetTTL         time.Duration
	now              func() time.Time
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, verifier Verifier, issuer Issuer,
	hasher auth.PasswordHasher, notifier ResetNotifier, cfg *config.Config, log logging.Logger) *AuthService {
	return &AuthService{
		db:               db,
		repomanager:      m,
		verifier:         verifier,
		issuer:           issuer,
		hasher:           hasher,
		notifier:         notifier,
		log:              log.With("component", "auth"),
		defaultRole:      cfg.DefaultRole,
		allowDirectReset: cfg.AllowDirectReset,
		resetTTL:         cfg.ResetTokenValidityDuration,
		now:              time.Now,
	}
}

// Register creates an account and returns a token for it. An email that is
// already registered yields common.ErrorAlreadyExists.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (string, error) {
	if req.Email == "" || req.Password == "" {
		return "", fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return "", common.ErrorAlreadyExists
	case !errors.Is(err, common.ErrorNotFound):
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	hashed, err := s.hasher.Hash(req.Password)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	user, err := repo.Create(ctx, &models.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         s.defaultRole,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return s.issue(user)
}

// Login returns a token for valid credentials and common.ErrorUnauthorized
// otherwise, without saying which part was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.verifier.Verify(ctx, email, password)
	if err != nil {
		return "", err
	}
	return s.issue(user)
}

// ResetPassword replaces the password of the account registered under
// email without any proof of ownership. It is refused with
// common.ErrorForbidden unless direct resets are enabled.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	if !s.allowDirectReset {
		return common.ErrorForbidden
	}
	if email == "" || newPassword == "" {
		return fmt.Errorf("%w: email and new password are required", common.ErrorValidation)
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if err := s.setPassword(ctx, repo, user, newPassword); err != nil {
		return err
	}

	s.log.Info(ctx, "password reset", "user_id", user.ID, "flow", "direct")
	return nil
}

// RequestPasswordReset starts the token based flow. Unknown emails succeed
// silently so the endpoint cannot be used to enumerate accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("%w: email is required", common.ErrorValidation)
	}

	user, err := s.repomanager.Users(s.db).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.log.Debug(ctx, "password reset for unknown email")
			return nil
		}
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	token, err := common.MakeRandHexString(resetTokenBytes)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	expiresAt := s.now().Add(s.resetTTL).UTC()
	_, err = s.repomanager.PasswordResets(s.db).Create(ctx, &models.PasswordReset{
		UserID:    user.ID,
		TokenHash: hashResetToken(token),
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if err := s.notifier.NotifyPasswordReset(ctx, user, token, expiresAt); err != nil {
		return fmt.Errorf("%w: notify: %v", common.ErrorInternal, err)
	}
	return nil
}

// ConfirmPasswordReset sets a new password using a token from
// RequestPasswordReset. All of the user's outstanding tokens are consumed.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return fmt.Errorf("%w: token and new password are required", common.ErrorValidation)
	}

	ticket, err := s.repomanager.PasswordResets(s.db).FindByTokenHash(ctx, hashResetToken(token))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrInvalidToken
		}
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if ticket.Expired(s.now()) {
		return common.ErrResetTokenExpired
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		resets := s.repomanager.PasswordResets(tx)

		// The row delete is the claim: of two concurrent confirms only one
		// sees it go.
		n, err := resets.ConsumeByTokenHash(ctx, ticket.TokenHash)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrorInternal, err)
		}
		if n == 0 {
			return common.ErrInvalidToken
		}

		users := s.repomanager.Users(tx)
		user, err := users.FindByID(ctx, ticket.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidToken
			}
			return fmt.Errorf("%w: %v", common.ErrorInternal, err)
		}

		if err := s.setPassword(ctx, users, user, newPassword); err != nil {
			return err
		}

		if _, err := resets.DeleteByUser(ctx, user.ID); err != nil {
			return fmt.Errorf("%w: %v", common.ErrorInternal, err)
		}
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, common.ErrorNotFound):
		return common.ErrInvalidToken
	case errors.Is(err, common.ErrInvalidToken), errors.Is(err, common.ErrorInternal):
		return err
	default:
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	s.log.Info(ctx, "password reset", "user_id", ticket.UserID, "flow", "token")
	return nil
}

// PurgeExpiredResets drops reset tickets that can no longer be used.
func (s *AuthService) PurgeExpiredResets(ctx context.Context) (int64, error) {
	n, err := s.repomanager.PasswordResets(s.db).DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return n, nil
}

type userUpdater interface {
	Update(ctx context.Context, user *models.User) error
}

func (s *AuthService) setPassword(ctx context.Context, repo userUpdater, user *models.User, password string) error {
	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	user.PasswordHash = hashed
	if err := repo.Update(ctx, user); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return nil
}

func (s *AuthService) issue(user *models.User) (string, error) {
	token, err := s.issuer.Issue(user)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return token, nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
