// testhelper_test.go provides shared test infrastructure for store
// integration tests. Tests are skipped when PostgreSQL is unavailable.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkwell/internal/database"
	"inkwell/internal/models"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testUser creates a throwaway user and registers cleanup.
func testUser(t *testing.T, db *sql.DB, role models.Role) *models.User {
	t.Helper()

	suffix := uuid.NewString()[:8]
	u, err := NewUserStore(db).Create("test-"+suffix, "test-"+suffix+"@store-test.local", "testpass123", role)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	t.Cleanup(func() { cleanUser(t, db, u.ID) })
	return u
}

// testCategory creates a throwaway category and registers cleanup.
func testCategory(t *testing.T, db *sql.DB) *models.Category {
	t.Helper()

	c, err := NewCategoryStore(db).Create("test-cat-"+uuid.NewString()[:8], "store test category")
	if err != nil {
		t.Fatalf("create test category: %v", err)
	}
	t.Cleanup(func() { cleanCategory(t, db, c.ID) })
	return c
}

// testPost creates a throwaway post and registers cleanup.
func testPost(t *testing.T, db *sql.DB, author *models.User, cat *models.Category, title string) *models.Post {
	t.Helper()

	p, err := NewPostStore(db).Create(&models.Post{
		Title:         title,
		Content:       "store test content",
		Slug:          "test-" + uuid.NewString()[:13],
		FeaturedImage: models.DefaultFeaturedImage,
		AuthorID:      author.ID,
		CategoryID:    cat.ID,
	})
	if err != nil {
		t.Fatalf("create test post: %v", err)
	}
	t.Cleanup(func() { cleanPost(t, db, p.ID) })
	return p
}

func cleanUser(t *testing.T, db *sql.DB, id uuid.UUID) {
	t.Helper()
	if _, err := db.Exec(`DELETE FROM users WHERE id = $1`, id); err != nil {
		t.Logf("cleanup user %s: %v", id, err)
	}
}

func cleanCategory(t *testing.T, db *sql.DB, id uuid.UUID) {
	t.Helper()
	if _, err := db.Exec(`DELETE FROM categories WHERE id = $1`, id); err != nil {
		t.Logf("cleanup category %s: %v", id, err)
	}
}

func cleanPost(t *testing.T, db *sql.DB, id uuid.UUID) {
	t.Helper()
	if _, err := db.Exec(`DELETE FROM posts WHERE id = $1`, id); err != nil {
		t.Logf("cleanup post %s: %v", id, err)
	}
}
