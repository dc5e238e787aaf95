package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/internportal/internal/common"
	"github.com/dmitrijs2005/internportal/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

var (
	userCols   = []string{"id", "first_name", "last_name", "email", "password_hash", "role", "created_at"}
	createdAt  = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	insertQ    = `(?s)^INSERT\s+INTO\s+users\s*\(first_name,\s*last_name,\s*email,\s*password_hash,\s*role,\s*created_at\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*RETURNING\s+id$`
	insertIDQ  = `(?s)^INSERT\s+INTO\s+users\s*\(id,\s*first_name,.*VALUES\s*\(\$1,.*\$7\)$`
	setvalQ    = `SELECT\s+setval\(pg_get_serial_sequence\('users',\s*'id'\)`
	byEmailQ   = `(?s)^SELECT\s+id,\s*first_name,\s*last_name,\s*email,\s*password_hash,\s*role,\s*created_at\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1\s+ORDER\s+BY\s+id\s+LIMIT\s+1$`
	byIDQ      = `(?s)^SELECT\s+id,.*FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`
	updateQ    = `(?s)^UPDATE\s+users\s+SET\s+first_name\s*=\s*\$2,\s*last_name\s*=\s*\$3,\s*email\s*=\s*\$4,\s*password_hash\s*=\s*\$5,\s*role\s*=\s*\$6\s+WHERE\s+id\s*=\s*\$1$`
	sampleUser = models.User{FirstName: "Ada", LastName: "L", Email: "a@x.com", PasswordHash: "pw1", Role: "User", CreatedAt: createdAt}
)

func TestCreate_AssignsID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQ).
		WithArgs("Ada", "L", "a@x.com", "pw1", "User", createdAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))

	u := sampleUser
	got, err := repo.Create(context.Background(), &u)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.ID)
	assert.Equal(t, "a@x.com", got.Email)
}

func TestCreate_SetsCreatedAt(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQ).
		WithArgs("", "", "b@x.com", "pw", "User", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))

	got, err := repo.Create(context.Background(), &models.User{Email: "b@x.com", PasswordHash: "pw", Role: "User"})
	require.NoError(t, err)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestCreate_ExplicitID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(insertIDQ).
		WithArgs(int64(7), "Ada", "L", "a@x.com", "pw1", "User", createdAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(setvalQ).WillReturnResult(sqlmock.NewResult(0, 1))

	u := sampleUser
	u.ID = 7
	got, err := repo.Create(context.Background(), &u)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
}

func TestCreate_ExplicitIDCollision(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(insertIDQ).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_pkey"})

	u := sampleUser
	u.ID = 7
	_, err := repo.Create(context.Background(), &u)
	require.ErrorIs(t, err, common.ErrorConflict)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQ).WillReturnError(errors.New("db down"))

	u := sampleUser
	_, err := repo.Create(context.Background(), &u)
	require.Error(t, err)
	assert.Regexp(t, regexp.MustCompile(`db error: .*db down`), err.Error())
}

func TestFindByEmail_Found(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(byEmailQ).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(1), "Ada", "L", "a@x.com", "pw1", "User", createdAt))

	got, err := repo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, &models.User{ID: 1, FirstName: "Ada", LastName: "L", Email: "a@x.com", PasswordHash: "pw1", Role: "User", CreatedAt: createdAt}, got)
}

func TestFindByEmail_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(byEmailQ).WithArgs("ghost@x.com").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "ghost@x.com")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestFindByEmail_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(byEmailQ).WithArgs("a@x.com").WillReturnError(errors.New("db err"))

	_, err := repo.FindByEmail(context.Background(), "a@x.com")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
	assert.Regexp(t, `db error: .*db err`, err.Error())
}

func TestFindByID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(byIDQ).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(int64(5), "B", "C", "b@x.com", "h", "User", createdAt))
	mock.ExpectQuery(byIDQ).WithArgs(int64(6)).WillReturnError(sql.ErrNoRows)

	got, err := repo.FindByID(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", got.Email)

	_, err = repo.FindByID(context.Background(), 6)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(updateQ).
		WithArgs(int64(1), "Ada", "L", "a@x.com", "new", "User").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(updateQ).
		WithArgs(int64(99), "Ada", "L", "a@x.com", "new", "User").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(updateQ).WillReturnError(errors.New("db err"))

	u := sampleUser
	u.ID, u.PasswordHash = 1, "new"
	require.NoError(t, repo.Update(context.Background(), &u))

	u.ID = 99
	require.ErrorIs(t, repo.Update(context.Background(), &u), common.ErrorNotFound)

	err := repo.Update(context.Background(), &u)
	require.Error(t, err)
	assert.Regexp(t, `db error: .*db err`, err.Error())
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`^DELETE\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 404), "deleting a missing id is a no-op")
}

func TestListAndCount(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+users\s+ORDER\s+BY\s+id$`).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(int64(1), "A", "A", "a@x.com", "h", "User", createdAt).
			AddRow(int64(2), "B", "B", "a@x.com", "h", "User", createdAt))
	mock.ExpectQuery(`^SELECT\s+COUNT\(\*\)\s+FROM\s+users$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].ID)
	assert.Equal(t, int64(2), list[1].ID)

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestList_ScanError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+users\s+ORDER\s+BY\s+id$`).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow("not-a-number", "A", "A", "a", "h", "User", createdAt))

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.Regexp(t, `^db error: `, err.Error())
}
