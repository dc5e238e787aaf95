// Package services contains application services for the InternPortal CLI.
// This file defines the authentication service: register, login, password
// resets and the locally saved session.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/internportal/internal/client/client"
	"github.com/dmitrijs2005/internportal/internal/client/models"
	"github.com/dmitrijs2005/internportal/internal/common"
)

// SessionStore persists the current login between CLI runs.
type SessionStore interface {
	Load() (*models.Session, error)
	Save(s *models.Session) error
	Clear() error
}

// AuthService defines authentication operations for the CLI.
//
// Passwords are passed as byte slices and wiped once sent.
type AuthService interface {
	Register(ctx context.Context, firstName, lastName, email string, password []byte) error
	Login(ctx context.Context, email string, password []byte) error
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (string, error)
	Whoami(ctx context.Context) (*models.Profile, error)
	Test(ctx context.Context) (string, error)
	ResetPassword(ctx context.Context, email string, newPassword []byte) error
	ForgotPassword(ctx context.Context, email string) error
	ConfirmReset(ctx context.Context, token string, newPassword []byte) error
	Ping(ctx context.Context) error
}

type authService struct {
	client   client.Client
	sessions SessionStore
	now      func() time.Time
}

func NewAuthService(c client.Client, s SessionStore) AuthService {
	return &authService{client: c, sessions: s, now: time.Now}
}

// Register creates the account and keeps the returned token as the current
// session, so a fresh user is logged in straight away.
func (a *authService) Register(ctx context.Context, firstName, lastName, email string, password []byte) error {
	defer common.WipeByteArray(password)

	token, err := a.client.Register(ctx, client.RegisterRequest{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  string(password),
	})
	if err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return a.remember(email, token)
}

func (a *authService) Login(ctx context.Context, email string, password []byte) error {
	defer common.WipeByteArray(password)

	token, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return fmt.Errorf("login error: %w", err)
	}
	return a.remember(email, token)
}

func (a *authService) remember(email, token string) error {
	a.client.SetToken(token)
	if err := a.sessions.Save(&models.Session{Email: email, Token: token, SavedAt: a.now()}); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	return nil
}

// Logout forgets the token locally. The server keeps no session state.
func (a *authService) Logout(ctx context.Context) error {
	a.client.SetToken("")
	return a.sessions.Clear()
}

// Restore reuses a saved session and returns its email. A session the
// server rejects is cleared and reported as client.ErrNoSession. If the
// server cannot be reached the session is kept.
func (a *authService) Restore(ctx context.Context) (string, error) {
	s, err := a.sessions.Load()
	if err != nil {
		return "", err
	}
	a.client.SetToken(s.Token)

	_, err = a.client.Me(ctx)
	switch {
	case err == nil, errors.Is(err, client.ErrUnavailable):
		return s.Email, nil
	case errors.Is(err, client.ErrUnauthorized):
		_ = a.Logout(ctx)
		return "", client.ErrNoSession
	default:
		return "", err
	}
}

func (a *authService) Whoami(ctx context.Context) (*models.Profile, error) {
	return a.client.Me(ctx)
}

func (a *authService) Test(ctx context.Context) (string, error) {
	return a.client.Test(ctx)
}

func (a *authService) ResetPassword(ctx context.Context, email string, newPassword []byte) error {
	defer common.WipeByteArray(newPassword)
	return a.client.ResetPassword(ctx, email, string(newPassword))
}

func (a *authService) ForgotPassword(ctx context.Context, email string) error {
	return a.client.ForgotPassword(ctx, email)
}

func (a *authService) ConfirmReset(ctx context.Context, token string, newPassword []byte) error {
	defer common.WipeByteArray(newPassword)
	return a.client.ConfirmReset(ctx, token, string(newPassword))
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}
