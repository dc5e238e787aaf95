package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/internportal/internal/common"
	"github.com/dmitrijs2005/internportal/internal/dbx"
	"github.com/dmitrijs2005/internportal/internal/server/models"
	entriesrepo "github.com/dmitrijs2005/internportal/internal/server/repositories/entries"
	resetsrepo "github.com/dmitrijs2005/internportal/internal/server/repositories/passwordresets"
	usersrepo "github.com/dmitrijs2005/internportal/internal/server/repositories/users"
)

type fakeUsersRepo struct {
	mu     sync.Mutex
	rows   []models.User
	nextID int64

	findErr   error
	createErr error
	updateErr error
	updates   int
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	u.ID = f.nextID
	f.rows = append(f.rows, *u)
	return u, nil
}

func (f *fakeUsersRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.rows {
		if u.Email == email {
			c := u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.rows {
		if u.ID == id {
			c := u
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) Update(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.rows {
		if f.rows[i].ID == u.ID {
			f.rows[i] = *u
			f.updates++
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeUsersRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeUsersRepo) List(context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.User(nil), f.rows...), nil
}

func (f *fakeUsersRepo) Count(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.rows)), nil
}

func (f *fakeUsersRepo) stored(email string) string {
	u, err := f.FindByEmail(context.Background(), email)
	if err != nil {
		return ""
	}
	return u.PasswordHash
}

type fakeResetsRepo struct {
	mu      sync.Mutex
	rows    []models.PasswordReset
	nextID  int64
	err     error
	purgeAt time.Time

	// dropAfterLookup removes the ticket right after FindByTokenHash returns
	// it, as a concurrent confirm would.
	dropAfterLookup bool
}

func (f *fakeResetsRepo) Create(_ context.Context, p *models.PasswordReset) (*models.PasswordReset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	p.ID = f.nextID
	f.rows = append(f.rows, *p)
	return p, nil
}

func (f *fakeResetsRepo) FindByTokenHash(_ context.Context, h string) (*models.PasswordReset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for i, p := range f.rows {
		if p.TokenHash == h {
			c := p
			if f.dropAfterLookup {
				f.dropAfterLookup = false
				f.rows = append(f.rows[:i], f.rows[i+1:]...)
			}
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeResetsRepo) ConsumeByTokenHash(_ context.Context, h string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	for i, p := range f.rows {
		if p.TokenHash == h {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeResetsRepo) DeleteByUser(_ context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.rows[:0]
	var n int64
	for _, p := range f.rows {
		if p.UserID == userID {
			n++
			continue
		}
		kept = append(kept, p)
	}
	f.rows = kept
	return n, nil
}

func (f *fakeResetsRepo) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.purgeAt = before
	kept := f.rows[:0]
	var n int64
	for _, p := range f.rows {
		if p.ExpiresAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, p)
	}
	f.rows = kept
	return n, nil
}

type fakeEntriesRepo struct {
	mu     sync.Mutex
	rows   []models.DataEntry
	nextID int64
	err    error
}

func (f *fakeEntriesRepo) Create(_ context.Context, e *models.DataEntry) (*models.DataEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	e.ID = f.nextID
	f.rows = append(f.rows, *e)
	return e, nil
}

func (f *fakeEntriesRepo) ListByUser(_ context.Context, userID int64) ([]models.DataEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []models.DataEntry{}
	for _, e := range f.rows {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryDate.After(out[j].EntryDate) })
	return out, nil
}

func (f *fakeEntriesRepo) find(userID, id int64) int {
	for i, e := range f.rows {
		if e.ID == id && e.UserID == userID {
			return i
		}
	}
	return -1
}

func (f *fakeEntriesRepo) Get(_ context.Context, userID, id int64) (*models.DataEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if i := f.find(userID, id); i >= 0 {
		c := f.rows[i]
		return &c, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeEntriesRepo) Delete(_ context.Context, userID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.find(userID, id); i >= 0 {
		f.rows = append(f.rows[:i], f.rows[i+1:]...)
		return nil
	}
	return common.ErrorNotFound
}

func (f *fakeEntriesRepo) SetAttachmentKey(_ context.Context, userID, id int64, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.find(userID, id); i >= 0 {
		f.rows[i].AttachmentKey = key
		return nil
	}
	return common.ErrorNotFound
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeResetsRepo
	e *fakeEntriesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: &fakeUsersRepo{}, r: &fakeResetsRepo{}, e: &fakeEntriesRepo{}}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error  { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository           { return m.u }
func (m *fakeRepoManager) PasswordResets(dbx.DBTX) resetsrepo.Repository { return m.r }
func (m *fakeRepoManager) Entries(dbx.DBTX) entriesrepo.Repository       { return m.e }

type capturedReset struct {
	user      *models.User
	token     string
	expiresAt time.Time
}

type fakeNotifier struct {
	sent []capturedReset
	err  error
}

func (n *fakeNotifier) NotifyPasswordReset(_ context.Context, u *models.User, token string, expiresAt time.Time) error {
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, capturedReset{user: u, token: token, expiresAt: expiresAt})
	return nil
}
