package client

import (
	"context"

	"github.com/dmitrijs2005/internportal/internal/client/models"
)

// RegisterRequest is the registration form sent to the server.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role,omitempty"`
}

type Client interface {
	SetToken(token string)
	Ping(ctx context.Context) error

	Register(ctx context.Context, req RegisterRequest) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	ResetPassword(ctx context.Context, email, newPassword string) error
	ForgotPassword(ctx context.Context, email string) error
	ConfirmReset(ctx context.Context, token, newPassword string) error
	Test(ctx context.Context) (string, error)
	Me(ctx context.Context) (*models.Profile, error)

	CreateEntry(ctx context.Context, e models.NewEntry) (*models.Entry, error)
	ListEntries(ctx context.Context) ([]models.Entry, error)
	DeleteEntry(ctx context.Context, id int64) error
	AttachmentUploadURL(ctx context.Context, id int64) (*models.Attachment, error)
	AttachmentDownloadURL(ctx context.Context, id int64) (*models.Attachment, error)
}
