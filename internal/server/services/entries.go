package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/internportal/internal/common"
	"github.com/dmitrijs2005/internportal/internal/logging"
	"github.com/dmitrijs2005/internportal/internal/server/config"
	"github.com/dmitrijs2005/internportal/internal/server/models"
	"github.com/dmitrijs2005/internportal/internal/server/repositories/repomanager"
)

// presignExpiry bounds how long an attachment URL stays usable.
const presignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// NewEntry is the user supplied part of a data entry.
type NewEntry struct {
	Title     string
	Content   string
	EntryDate time.Time
}

// Attachment is a presigned object storage URL for an entry's attachment.
type Attachment struct {
	Key string
	URL string
}

// EntryService manages data entries and their attachments. Every call is
// scoped to the owning user; other users' entries look like missing ones.
type EntryService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *config.Config
	log         logging.Logger
	now         func() time.Time
}

func NewEntryService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *EntryService {
	return &EntryService{
		db:          db,
		repomanager: m,
		config:      cfg,
		log:         log.With("component", "entries"),
		now:         time.Now,
	}
}

func (s *EntryService) Create(ctx context.Context, userID int64, in NewEntry) (*models.DataEntry, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrorValidation)
	}

	entryDate := in.EntryDate
	if entryDate.IsZero() {
		entryDate = s.now()
	}

	e, err := s.repomanager.Entries(s.db).Create(ctx, &models.DataEntry{
		UserID:    userID,
		Title:     title,
		Content:   in.Content,
		EntryDate: entryDate.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return e, nil
}

func (s *EntryService) List(ctx context.Context, userID int64) ([]models.DataEntry, error) {
	list, err := s.repomanager.Entries(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return list, nil
}

func (s *EntryService) Get(ctx context.Context, userID, id int64) (*models.DataEntry, error) {
	e, err := s.repomanager.Entries(s.db).Get(ctx, userID, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	return e, nil
}

func (s *EntryService) Delete(ctx context.Context, userID, id int64) error {
	if err := s.repomanager.Entries(s.db).Delete(ctx, userID, id); err != nil {
		return mapRepoErr(err)
	}
	return nil
}

// AttachmentUploadURL assigns a fresh storage key to the entry and returns a
// presigned PUT URL for it. A previous attachment key is replaced.
func (s *EntryService) AttachmentUploadURL(ctx context.Context, userID, id int64) (*Attachment, error) {
	repo := s.repomanager.Entries(s.db)

	if _, err := repo.Get(ctx, userID, id); err != nil {
		return nil, mapRepoErr(err)
	}

	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: presign client: %v", common.ErrorInternal, err)
	}

	bucket := s.config.S3Bucket
	key := s.storageKey()

	req, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("%w: presign put: %v", common.ErrorInternal, err)
	}

	if err := repo.SetAttachmentKey(ctx, userID, id, key); err != nil {
		return nil, mapRepoErr(err)
	}

	s.log.Info(ctx, "attachment upload url issued", "user_id", userID, "entry_id", id, "key", key)
	return &Attachment{Key: key, URL: req.URL}, nil
}

// AttachmentDownloadURL returns a presigned GET URL for the entry's
// attachment, or common.ErrorNotFound when it has none.
func (s *EntryService) AttachmentDownloadURL(ctx context.Context, userID, id int64) (*Attachment, error) {
	e, err := s.repomanager.Entries(s.db).Get(ctx, userID, id)
	if err != nil {
		return nil, mapRepoErr(err)
	}
	if e.AttachmentKey == "" {
		return nil, common.ErrorNotFound
	}

	pc, err := s.getPresignClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: presign client: %v", common.ErrorInternal, err)
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &e.AttachmentKey,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return nil, fmt.Errorf("%w: presign get: %v", common.ErrorInternal, err)
	}

	return &Attachment{Key: e.AttachmentKey, URL: req.URL}, nil
}

func (s *EntryService) storageKey() string {
	d := s.now().UTC()
	return fmt.Sprintf("entries/%04d/%02d/%02d/%s", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *EntryService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

func mapRepoErr(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("%w: %v", common.ErrorInternal, err)
}
