// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler
// integration tests. Tests are skipped when PostgreSQL is unavailable.
package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/storage"
	"inkwell/internal/store"
	"inkwell/internal/token"
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

// cleanTables removes all rows so each test starts from an empty state.
func cleanTables(t *testing.T, db *sql.DB) {
	t.Helper()
	for _, table := range []string{"comments", "posts", "categories", "users"} {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			t.Fatalf("clean %s: %v", table, err)
		}
	}
}

// testEnv holds all dependencies for handler integration tests, wired
// into a router matching the real API surface.
type testEnv struct {
	DB         *sql.DB
	Users      *store.UserStore
	Posts      *store.PostStore
	Categories *store.CategoryStore
	Files      *storage.Local
	Signer     *token.Signer
	Router     http.Handler
}

// newTestEnv creates a complete test environment with all handler
// dependencies and API routes.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	cleanTables(t, db)
	t.Cleanup(func() { cleanTables(t, db) })

	files, err := storage.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("storage.NewLocal: %v", err)
	}

	users := store.NewUserStore(db)
	posts := store.NewPostStore(db)
	categories := store.NewCategoryStore(db)
	signer := token.NewSigner("test-secret")

	authH := NewAuth(users, signer)
	postsH := NewPosts(posts, categories, files)
	categoriesH := NewCategories(categories)
	authenticate := middleware.Authenticate(signer, users)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authH.Register)
			r.Post("/login", authH.Login)
		})
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postsH.List)
			r.Get("/search", postsH.Search)
			r.Get("/{id}", postsH.Get)
			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/", postsH.Create)
				r.Put("/{id}", postsH.Update)
				r.Delete("/{id}", postsH.Delete)
				r.Post("/{id}/comments", postsH.AddComment)
			})
		})
		r.With(authenticate).Delete("/comments/{id}", postsH.DeleteComment)
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", categoriesH.List)
			r.Post("/", categoriesH.Create)
			r.With(authenticate).Post("/seed", categoriesH.Seed)
		})
	})

	return &testEnv{
		DB:         db,
		Users:      users,
		Posts:      posts,
		Categories: categories,
		Files:      files,
		Signer:     signer,
		Router:     r,
	}
}

// do executes a request against the test router and decodes the JSON
// response body into out when out is non-nil.
func (e *testEnv) do(t *testing.T, req *http.Request, out any) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	e.Router.ServeHTTP(rr, req)
	if out != nil && rr.Body.Len() > 0 {
		if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
			t.Fatalf("decode response: %v\nbody: %s", err, rr.Body.String())
		}
	}
	return rr
}

// newRequest builds a bodyless request.
func newRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// httpGet builds a GET request.
func httpGet(target string) *http.Request {
	return newRequest(http.MethodGet, target)
}

// jsonRequest builds a request with a JSON body.
func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// postForm builds a multipart request with the given fields and an
// optional file part named featuredImage.
func postForm(t *testing.T, method, target string, fields map[string]string, filename string, fileBody []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if filename != "" {
		part, err := mw.CreateFormFile("featuredImage", filename)
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := io.Copy(part, bytes.NewReader(fileBody)); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	mw.Close()

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// register creates an account through the API and returns its token and
// user record.
func (e *testEnv) register(t *testing.T, username, email, password string) (string, *models.User) {
	t.Helper()
	var resp authResponse
	rr := e.do(t, jsonRequest(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}), &resp)
	if rr.Code != http.StatusCreated {
		t.Fatalf("register %s: got status %d, body %s", username, rr.Code, rr.Body.String())
	}
	return resp.Token, resp.User
}

// registerAdmin creates an account and promotes it to admin directly in
// the store.
func (e *testEnv) registerAdmin(t *testing.T, username, email, password string) (string, *models.User) {
	t.Helper()
	tok, user := e.register(t, username, email, password)
	if _, err := e.DB.Exec("UPDATE users SET role = 'admin' WHERE id = $1", user.ID); err != nil {
		t.Fatalf("promote admin: %v", err)
	}
	return tok, user
}

// createCategory inserts a category directly through the store.
func (e *testEnv) createCategory(t *testing.T, name string) *models.Category {
	t.Helper()
	c, err := e.Categories.Create(name, "")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c
}

// createPost creates a post through the API as the given token's user.
func (e *testEnv) createPost(t *testing.T, tok, title, content string, categoryID string) *models.Post {
	t.Helper()
	req := postForm(t, http.MethodPost, "/api/posts/", map[string]string{
		"title":    title,
		"content":  content,
		"category": categoryID,
	}, "", nil)
	req.Header.Set("Authorization", "Bearer "+tok)

	var post models.Post
	rr := e.do(t, req, &post)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create post %q: got status %d, body %s", title, rr.Code, rr.Body.String())
	}
	return &post
}
