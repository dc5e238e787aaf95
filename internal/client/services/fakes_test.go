package services

import (
	"context"

	"github.com/dmitrijs2005/internportal/internal/client/client"
	"github.com/dmitrijs2005/internportal/internal/client/models"
)

// fakeClient implements client.Client for service tests.
type fakeClient struct {
	token string

	RegisterErr error
	LastRegister client.RegisterRequest

	LoginToken    string
	LoginErr      error
	LastLoginPass string

	MeRet *models.Profile
	MeErr error

	ResetErr     error
	LastReset    [2]string
	ConfirmErr   error
	LastConfirm  [2]string
	ForgotEmails []string

	Entries   []models.Entry
	ListErr   error
	CreateErr error
	Deleted   []int64

	UploadRet   *models.Attachment
	UploadErr   error
	DownloadRet *models.Attachment
	DownloadErr error

	PingErr error
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) SetToken(token string)          { f.token = token }
func (f *fakeClient) Ping(ctx context.Context) error { return f.PingErr }

func (f *fakeClient) Register(ctx context.Context, req client.RegisterRequest) (string, error) {
	f.LastRegister = req
	if f.RegisterErr != nil {
		return "", f.RegisterErr
	}
	return "reg-token", nil
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (string, error) {
	f.LastLoginPass = password
	return f.LoginToken, f.LoginErr
}

func (f *fakeClient) ResetPassword(ctx context.Context, email, newPassword string) error {
	f.LastReset = [2]string{email, newPassword}
	return f.ResetErr
}

func (f *fakeClient) ForgotPassword(ctx context.Context, email string) error {
	f.ForgotEmails = append(f.ForgotEmails, email)
	return nil
}

func (f *fakeClient) ConfirmReset(ctx context.Context, token, newPassword string) error {
	f.LastConfirm = [2]string{token, newPassword}
	return f.ConfirmErr
}

func (f *fakeClient) Test(ctx context.Context) (string, error) {
	if f.token == "" {
		return "", &client.APIError{Status: 401, Message: "missing token"}
	}
	return "access granted with JWT", nil
}

func (f *fakeClient) Me(ctx context.Context) (*models.Profile, error) {
	return f.MeRet, f.MeErr
}

func (f *fakeClient) CreateEntry(ctx context.Context, e models.NewEntry) (*models.Entry, error) {
	if f.CreateErr != nil {
		return nil, f.CreateErr
	}
	created := models.Entry{ID: int64(len(f.Entries) + 1), Title: e.Title, Content: e.Content}
	f.Entries = append(f.Entries, created)
	return &created, nil
}

func (f *fakeClient) ListEntries(ctx context.Context) ([]models.Entry, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return f.Entries, nil
}

func (f *fakeClient) DeleteEntry(ctx context.Context, id int64) error {
	f.Deleted = append(f.Deleted, id)
	return nil
}

func (f *fakeClient) AttachmentUploadURL(ctx context.Context, id int64) (*models.Attachment, error) {
	return f.UploadRet, f.UploadErr
}

func (f *fakeClient) AttachmentDownloadURL(ctx context.Context, id int64) (*models.Attachment, error) {
	return f.DownloadRet, f.DownloadErr
}

// memSessions is an in-memory SessionStore.
type memSessions struct {
	s       *models.Session
	SaveErr error
}

func (m *memSessions) Load() (*models.Session, error) {
	if m.s == nil {
		return nil, client.ErrNoSession
	}
	return m.s, nil
}

func (m *memSessions) Save(s *models.Session) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.s = s
	return nil
}

func (m *memSessions) Clear() error {
	m.s = nil
	return nil
}
