package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/msomdec/storefront/internal/handler"
	"github.com/msomdec/storefront/internal/repository/sqlite"
	"github.com/msomdec/storefront/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests"

// testPNG is enough for content sniffing to report image/png.
var testPNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type testEnv struct {
	srv    *httptest.Server
	db     *sqlite.DB
	tokens *service.TokenService
}

func newTestServices(t *testing.T, limiter service.Limiter) (handler.Services, *sqlite.DB) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	tokens := service.NewTokenService(testJWTSecret, 0)
	return handler.Services{
		Auth:    service.NewAuthService(db.Users(), tokens, service.PlainPasswords{}),
		Tokens:  tokens,
		Carts:   service.NewCartService(db.Users()),
		Catalog: service.NewCatalogService(db.Products(), db.FileStore(), "http://localhost:4000"),
		Images:  service.NewImageService(db.FileStore(), "http://localhost:4000"),
		Limiter: limiter,
	}, db
}

func newTestEnv(t *testing.T, limiter service.Limiter) *testEnv {
	t.Helper()
	svc, db := newTestServices(t, limiter)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, svc)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, db: db, tokens: svc.Tokens.(*service.TokenService)}
}

// post sends a JSON body (or none when body is nil) and returns the status and raw response body.
func (e *testEnv) post(t *testing.T, path, token string, body any) (int, []byte) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(http.MethodPost, e.srv.URL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("auth-token", token)
	}
	return e.do(t, req)
}

func (e *testEnv) get(t *testing.T, path string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, e.srv.URL+path, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	return e.do(t, req)
}

func (e *testEnv) do(t *testing.T, req *http.Request) (int, []byte) {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, b
}

func decode(t *testing.T, b []byte, dst any) {
	t.Helper()
	if err := json.Unmarshal(b, dst); err != nil {
		t.Fatalf("decode %s: %v", b, err)
	}
}

// signup registers a user and returns the issued token.
func (e *testEnv) signup(t *testing.T, email string) string {
	t.Helper()
	status, body := e.post(t, "/signup", "", map[string]string{
		"username": "Test User",
		"email":    email,
		"password": "password123",
	})
	if status != http.StatusOK {
		t.Fatalf("signup: expected 200, got %d: %s", status, body)
	}
	var resp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	decode(t, body, &resp)
	if !resp.Success || resp.Token == "" {
		t.Fatalf("signup: unexpected response %s", body)
	}
	return resp.Token
}

// upload posts data as the "product" multipart field and returns the image URL.
func (e *testEnv) upload(t *testing.T, filename string, data []byte) string {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("product", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	fw.Write(data)
	mw.Close()

	req, err := http.NewRequest(http.MethodPost, e.srv.URL+"/upload", &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	status, body := e.do(t, req)
	if status != http.StatusOK {
		t.Fatalf("upload: expected 200, got %d: %s", status, body)
	}

	var resp struct {
		Success  int    `json:"success"`
		ImageURL string `json:"image_url"`
	}
	decode(t, body, &resp)
	if resp.Success != 1 {
		t.Fatalf("expected success 1, got %d", resp.Success)
	}
	return resp.ImageURL
}
