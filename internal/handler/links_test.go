package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/shorty/internal/domain"
	"github.com/jonesrussell/shorty/internal/handler"
	"github.com/jonesrussell/shorty/internal/logger"
	"github.com/jonesrussell/shorty/internal/shortener"
)

// asUser injects the identity the auth middleware would have resolved.
func asUser(owner *domain.Owner, perms *domain.Permissions) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("owner", owner)
		c.Set("permissions", perms)
		c.Next()
	}
}

func newLinksRouter(svc *shortener.Service, owner *domain.Owner, perms *domain.Permissions) *gin.Engine {
	h := handler.NewLinksHandler(svc, logger.NewNop())

	r := gin.New()
	api := r.Group("/api", asUser(owner, perms))
	api.POST("/links", h.Create)
	api.GET("/links", h.List)
	api.PUT("/links/:id", h.Update)
	api.GET("/permissions", h.Permissions)
	return r
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestLinksCreate_Success(t *testing.T) {
	store := newMemoryStore()
	owner, perms, _ := store.GetOrCreate(context.Background(), "alice")
	r := newLinksRouter(newTestService(store), owner, perms)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPost, "/api/links", `{"url":"example.com/x"}`))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		URL       string `json:"url"`
		ShortCode string `json:"short_code"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.URL != "http://example.com/x" {
		t.Errorf("expected normalized URL, got %q", resp.URL)
	}
	if !strings.HasPrefix(resp.ShortCode, "+") {
		t.Errorf("expected marker-prefixed short code, got %q", resp.ShortCode)
	}
}

func TestLinksCreate_ValidationErrorList(t *testing.T) {
	store := newMemoryStore()
	owner, perms, _ := store.GetOrCreate(context.Background(), "alice")
	r := newLinksRouter(newTestService(store), owner, perms)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPost, "/api/links",
		`{"url":"not a url","keyword":"bad keyword!"}`))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Errors) != 2 {
		t.Errorf("expected both problems reported, got %v", resp.Errors)
	}
}

func TestLinksCreate_DuplicateKeyword(t *testing.T) {
	store := newMemoryStore()
	owner, perms, _ := store.GetOrCreate(context.Background(), "alice")
	r := newLinksRouter(newTestService(store), owner, perms)

	body := `{"url":"http://example.com/","keyword":"docs","namespace":"global"}`

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPost, "/api/links", body))
	if w.Code != http.StatusCreated {
		t.Fatalf("first create: expected 201, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPost, "/api/links", body))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("second create: expected 400 with error list, got %d", w.Code)
	}
}

func TestLinksCreate_KeywordWithoutPermission(t *testing.T) {
	store := newMemoryStore()
	owner, _, _ := store.GetOrCreate(context.Background(), "alice")
	perms := &domain.Permissions{OwnerID: owner.ID, Edit: true, Keyword: false}
	r := newLinksRouter(newTestService(store), owner, perms)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPost, "/api/links",
		`{"url":"http://example.com/","keyword":"docs"}`))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestLinksUpdate_ForeignLinkForbidden(t *testing.T) {
	store := newMemoryStore()
	alice, alicePerms, _ := store.GetOrCreate(context.Background(), "alice")
	bob, bobPerms, _ := store.GetOrCreate(context.Background(), "bob")

	svc := newTestService(store)
	created, err := svc.Create(context.Background(), alice, alicePerms, shortener.CreateParams{
		URL: "http://example.com/old",
	})
	if err != nil {
		t.Fatalf("seed link: %v", err)
	}

	r := newLinksRouter(svc, bob, bobPerms)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(http.MethodPut, "/api/links/1", `{"url":"http://evil.example/"}`))

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if store.links[created.Link.ID].URL != "http://example.com/old" {
		t.Error("link mutated despite permission failure")
	}
}

func TestLinksList(t *testing.T) {
	store := newMemoryStore()
	owner, perms, _ := store.GetOrCreate(context.Background(), "alice")
	svc := newTestService(store)

	if _, err := svc.Create(context.Background(), owner, perms, shortener.CreateParams{
		URL: "http://example.com/",
	}); err != nil {
		t.Fatalf("seed link: %v", err)
	}

	r := newLinksRouter(svc, owner, perms)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/links", http.NoBody))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Links []json.RawMessage `json:"links"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Links) != 1 {
		t.Errorf("expected 1 link, got %d", len(resp.Links))
	}
}
