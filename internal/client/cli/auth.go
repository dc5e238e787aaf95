package cli

import (
	"context"
	"fmt"
	"log"
	"time"
)

// Prompt indirections, swapped in tests.
var (
	getSimpleText  = GetSimpleText
	getEmail       = GetEmail
	getPassword    = GetPassword
	getNewPassword = GetNewPassword
)

// Register prompts for the profile and credentials, creates the account and
// leaves the user logged in.
func (a *App) Register(ctx context.Context) error {
	firstName, err := getSimpleText(a.reader, "First name", a.out)
	if err != nil {
		return err
	}
	lastName, err := getSimpleText(a.reader, "Last name", a.out)
	if err != nil {
		return err
	}
	email, err := getEmail(a.reader, a.out)
	if err != nil {
		return err
	}
	password, err := getNewPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.authService.Register(ctx, firstName, lastName, email, password); err != nil {
		return err
	}

	a.email = email
	fmt.Fprintln(a.out, "Success!")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getEmail(a.reader, a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out, "Password")
	if err != nil {
		return err
	}

	if err := a.authService.Login(ctx, email, password); err != nil {
		return err
	}

	a.email = email
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Logout drops the saved session and the cached entries.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		return err
	}
	if err := a.entryService.ClearCache(ctx); err != nil {
		log.Printf("cache not cleared: %v", err)
	}
	a.email = ""
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	p, err := a.authService.Whoami(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s <%s>\nrole: %s\nid: %s\n", p.Name, p.Email, p.Role, p.ID)
	if !p.ExpiresAt.IsZero() {
		fmt.Fprintf(a.out, "token expires: %s\n", p.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

// Test calls the protected test endpoint.
func (a *App) Test(ctx context.Context) error {
	msg, err := a.authService.Test(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

// Reset sets a new password for an email directly, without a reset token.
func (a *App) Reset(ctx context.Context) error {
	email, err := getEmail(a.reader, a.out)
	if err != nil {
		return err
	}
	password, err := getNewPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.authService.ResetPassword(ctx, email, password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password updated")
	return nil
}

func (a *App) Forgot(ctx context.Context) error {
	email, err := getEmail(a.reader, a.out)
	if err != nil {
		return err
	}
	if err := a.authService.ForgotPassword(ctx, email); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "If the account exists, a reset token has been sent. Use 'confirm' to set a new password.")
	return nil
}

// Confirm completes a token based reset.
func (a *App) Confirm(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Enter reset token", a.out)
	if err != nil {
		return err
	}
	password, err := getNewPassword(a.out)
	if err != nil {
		return err
	}

	if err := a.authService.ConfirmReset(ctx, token, password); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Password updated")
	return nil
}
