// Package entries is the CLI's local cache of journal entries.
//
// The cache holds the last listing fetched from the server so that the
// list command keeps working while the server is unreachable. It is never
// the source of truth: a successful listing replaces it wholesale, and it
// is cleared on logout.
//
// Typical Usage
//
//	repo := entries.NewSQLiteRepository(db)
//	_ = repo.Upsert(ctx, entry)
//	list, _ := repo.GetAll(ctx)
//	_ = repo.DeleteByID(ctx, id)
//
// Timestamps are stored as RFC 3339 text so the file stays readable with
// the sqlite3 shell.
package entries
