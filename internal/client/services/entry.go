package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/internportal/internal/client/client"
	"github.com/dmitrijs2005/internportal/internal/client/models"
	"github.com/dmitrijs2005/internportal/internal/client/repositories/entries"
	"github.com/dmitrijs2005/internportal/internal/dbx"
	"github.com/dmitrijs2005/internportal/internal/netx"
)

// maxAttachmentSize caps files read into memory for upload.
const maxAttachmentSize = 32 << 20

// EntryService manages journal entries on the server and mirrors what it
// sees into the local cache.
type EntryService interface {
	Add(ctx context.Context, e models.NewEntry) (*models.Entry, error)
	List(ctx context.Context) ([]models.Entry, error)
	Cached(ctx context.Context) ([]models.Entry, error)
	Delete(ctx context.Context, id int64) error
	Attach(ctx context.Context, id int64, path string) (*models.Attachment, error)
	DownloadURL(ctx context.Context, id int64) (string, error)
	ClearCache(ctx context.Context) error
}

type entryService struct {
	client client.Client
	db     *sql.DB
	hc     *http.Client
}

// NewEntryService builds the service over the API client and the cache
// database. hc is used for object storage uploads and may be nil.
func NewEntryService(c client.Client, db *sql.DB, hc *http.Client) EntryService {
	return &entryService{client: c, db: db, hc: hc}
}

func (s *entryService) getEntryRepo(db dbx.DBTX) entries.Repository {
	return entries.NewSQLiteRepository(db)
}

func (s *entryService) Add(ctx context.Context, e models.NewEntry) (*models.Entry, error) {
	created, err := s.client.CreateEntry(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("saving error: %w", err)
	}
	if err := s.getEntryRepo(s.db).Upsert(ctx, created); err != nil {
		log.Printf("cache update failed: %v", err)
	}
	return created, nil
}

// List fetches the server's entries and replaces the cache with them. A
// failed cache write is logged, not returned.
func (s *entryService) List(ctx context.Context) ([]models.Entry, error) {
	list, err := s.client.ListEntries(ctx)
	if err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.getEntryRepo(tx)
		if err := repo.Clear(ctx); err != nil {
			return err
		}
		for i := range list {
			if err := repo.Upsert(ctx, &list[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("cache update failed: %v", err)
	}
	return list, nil
}

// Cached returns the entries from the last successful List.
func (s *entryService) Cached(ctx context.Context) ([]models.Entry, error) {
	return s.getEntryRepo(s.db).GetAll(ctx)
}

func (s *entryService) Delete(ctx context.Context, id int64) error {
	if err := s.client.DeleteEntry(ctx, id); err != nil {
		return err
	}
	return s.getEntryRepo(s.db).DeleteByID(ctx, id)
}

// Attach uploads the file at path as the entry's attachment, replacing any
// previous one.
func (s *entryService) Attach(ctx context.Context, id int64, path string) (*models.Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > maxAttachmentSize {
		return nil, fmt.Errorf("file too large: %d bytes", info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	att, err := s.client.AttachmentUploadURL(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("presign error: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if err := netx.UploadToPresignedURL(ctx, s.hc, att.URL, contentType, data); err != nil {
		return nil, err
	}
	return att, nil
}

func (s *entryService) DownloadURL(ctx context.Context, id int64) (string, error) {
	att, err := s.client.AttachmentDownloadURL(ctx, id)
	if err != nil {
		return "", err
	}
	return att.URL, nil
}

// ClearCache wipes the local cache, e.g. on logout.
func (s *entryService) ClearCache(ctx context.Context) error {
	return s.getEntryRepo(s.db).Clear(ctx)
}
