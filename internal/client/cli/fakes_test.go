package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/dmitrijs2005/internportal/internal/client/models"
	"github.com/dmitrijs2005/internportal/internal/client/services"
)

// stubInputs replaces the interactive prompts with canned answers, in order.
func stubInputs(t *testing.T, answers []string, password string) {
	t.Helper()
	origST, origEM, origGP, origNP, origML := getSimpleText, getEmail, getPassword, getNewPassword, getMultiline

	next := func() string {
		if len(answers) == 0 {
			return ""
		}
		a := answers[0]
		answers = answers[1:]
		return a
	}
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return next(), nil }
	getMultiline = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return next(), nil }
	getEmail = func(_ *bufio.Reader, _ io.Writer) (string, error) { return next(), nil }
	getPassword = func(_ io.Writer, _ string) ([]byte, error) { return []byte(password), nil }
	getNewPassword = func(_ io.Writer) ([]byte, error) { return []byte(password), nil }

	t.Cleanup(func() {
		getSimpleText, getEmail, getPassword, getNewPassword, getMultiline = origST, origEM, origGP, origNP, origML
	})
}

func newTestApp(as services.AuthService, es services.EntryService) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	return &App{authService: as, entryService: es, out: &out}, &out
}

type fakeAuth struct {
	regArgs []string
	regPass string
	regErr  error

	loginEmail string
	loginPass  string
	loginErr   error

	logoutCalled bool
	logoutErr    error

	restoreEmail string
	restoreErr   error

	profile *models.Profile
	testMsg string
	testErr error

	resetArgs   [2]string
	resetErr    error
	forgotEmail string
	confirmArgs [2]string
	confirmErr  error

	pingErr error
}

var _ services.AuthService = (*fakeAuth)(nil)

func (f *fakeAuth) Register(_ context.Context, firstName, lastName, email string, password []byte) error {
	f.regArgs = []string{firstName, lastName, email}
	f.regPass = string(password)
	return f.regErr
}
func (f *fakeAuth) Login(_ context.Context, email string, password []byte) error {
	f.loginEmail, f.loginPass = email, string(password)
	return f.loginErr
}
func (f *fakeAuth) Logout(context.Context) error {
	f.logoutCalled = true
	return f.logoutErr
}
func (f *fakeAuth) Restore(context.Context) (string, error) { return f.restoreEmail, f.restoreErr }
func (f *fakeAuth) Whoami(context.Context) (*models.Profile, error) {
	return f.profile, nil
}
func (f *fakeAuth) Test(context.Context) (string, error) { return f.testMsg, f.testErr }
func (f *fakeAuth) ResetPassword(_ context.Context, email string, pw []byte) error {
	f.resetArgs = [2]string{email, string(pw)}
	return f.resetErr
}
func (f *fakeAuth) ForgotPassword(_ context.Context, email string) error {
	f.forgotEmail = email
	return nil
}
func (f *fakeAuth) ConfirmReset(_ context.Context, token string, pw []byte) error {
	f.confirmArgs = [2]string{token, string(pw)}
	return f.confirmErr
}
func (f *fakeAuth) Ping(context.Context) error { return f.pingErr }

type fakeEntries struct {
	added   models.NewEntry
	addErr  error
	list    []models.Entry
	listErr error
	cached  []models.Entry
	cleared bool
	deleted int64
	attach  struct {
		id   int64
		path string
	}
	attachErr error
	url       string
}

var _ services.EntryService = (*fakeEntries)(nil)

func (f *fakeEntries) Add(_ context.Context, e models.NewEntry) (*models.Entry, error) {
	f.added = e
	if f.addErr != nil {
		return nil, f.addErr
	}
	return &models.Entry{ID: 9, Title: e.Title}, nil
}
func (f *fakeEntries) List(context.Context) ([]models.Entry, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.list, nil
}
func (f *fakeEntries) Cached(context.Context) ([]models.Entry, error) { return f.cached, nil }
func (f *fakeEntries) ClearCache(context.Context) error {
	f.cleared = true
	return nil
}
func (f *fakeEntries) Delete(_ context.Context, id int64) error {
	f.deleted = id
	return nil
}
func (f *fakeEntries) Attach(_ context.Context, id int64, path string) (*models.Attachment, error) {
	f.attach.id, f.attach.path = id, path
	if f.attachErr != nil {
		return nil, f.attachErr
	}
	return &models.Attachment{Key: "k"}, nil
}
func (f *fakeEntries) DownloadURL(context.Context, int64) (string, error) { return f.url, nil }
