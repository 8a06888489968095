// Package testutil provides shared test helpers for data directories, audit
// databases and admin sessions.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/starford/folio/internal/audit"
	"github.com/starford/folio/internal/auth"
	"github.com/starford/folio/internal/portfolio"
	"github.com/starford/folio/internal/storage"
)

// Secret signs sessions issued by TestAuthority.
const Secret = "test-secret-key"

// TestDB creates a temporary SQLite audit database that is closed on cleanup.
func TestDB(t *testing.T) *audit.DB {
	t.Helper()
	db, err := audit.Open(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestData creates a temporary data directory with a storage.Provider.
func TestData(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	files, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, files
}

// TestCatalog creates a catalog over a temporary data directory.
func TestCatalog(t *testing.T, locales []string, opts ...portfolio.StoreOption) (string, *portfolio.Catalog) {
	t.Helper()
	dir, files := TestData(t)
	return dir, portfolio.NewCatalog(files, locales, opts...)
}

// TestAuthority returns an authority with the development credentials.
func TestAuthority(t *testing.T) *auth.Authority {
	t.Helper()
	a, err := auth.New(auth.Options{Secret: []byte(Secret), Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatal(err)
	}
	return a
}

// AdminContext returns a context carrying a fresh admin session from a.
func AdminContext(t *testing.T, a *auth.Authority) context.Context {
	t.Helper()
	token, _, err := a.Issue("admin", auth.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	sess, err := a.Verify(token)
	if err != nil {
		t.Fatal(err)
	}
	return auth.WithSession(context.Background(), sess)
}
