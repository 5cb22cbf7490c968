package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"finest-store-backend/models"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// webhookSink records every webhook delivery by channel path.
type webhookSink struct {
	mu       sync.Mutex
	requests []sinkRequest
}

type sinkRequest struct {
	path        string
	contentType string
	body        []byte
}

func (s *webhookSink) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.requests = append(s.requests, sinkRequest{
		path:        r.URL.Path,
		contentType: r.Header.Get("Content-Type"),
		body:        body,
	})
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *webhookSink) byPath(path string) []sinkRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []sinkRequest
	for _, req := range s.requests {
		if req.path == path {
			out = append(out, req)
		}
	}
	return out
}

func (s *webhookSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

type testEnv struct {
	app   *fiber.App
	db    *gorm.DB
	sink  *webhookSink
	cache *FreeClaimCache
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	// shared in-memory DB with a unique name so parallel tests don't collide
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.Payment{}, &models.AccessGrant{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	sink := &webhookSink{}
	srv := httptest.NewServer(sink)
	t.Cleanup(srv.Close)

	notifier := &Notifier{
		PackURL:     srv.URL + "/pack",
		OtherURL:    srv.URL + "/other",
		AuditURL:    srv.URL + "/paid",
		FreeURL:     srv.URL + "/free",
		StaffRoleID: "1464249885669851360",
		Client:      srv.Client(),
	}

	cache := NewFreeClaimCache(time.Hour)

	orderService := NewOrderService(db, notifier, cache)
	accessService := NewAccessService(db, notifier)
	uploadService := NewUploadService(notifier)

	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024, // matches main; the handler's own size cap must be the one that fires
	})
	app.Post("/finalize", orderService.FinalizePayment)
	app.Get("/check-payment/:discordId", orderService.CheckPayment)
	app.Post("/freepack", orderService.FreePackClaim)
	app.Post("/free-register-v2", accessService.RegisterFree)
	app.Get("/check-user-v2/:discordId", accessService.CheckUser)
	app.Post("/mark-claimed-v2", accessService.MarkClaimed)
	app.Post("/upload-screenshot", uploadService.UploadScreenshot)

	return &testEnv{app: app, db: db, sink: sink, cache: cache}
}

func (e *testEnv) postJSON(t *testing.T, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return e.do(t, req)
}

func (e *testEnv) get(t *testing.T, path string) (*http.Response, map[string]any) {
	t.Helper()
	return e.do(t, httptest.NewRequest(http.MethodGet, path, nil))
}

func (e *testEnv) do(t *testing.T, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}
