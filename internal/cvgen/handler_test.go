package cvgen

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/shared/server/middleware"
	"portfolio-backend/internal/tempstore"
)

func newTestRouter(t *testing.T) (*gin.Engine, *tempstore.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := newTestStore()
	reg := NewRegistry(func() *Orchestrator { return newTestOrchestrator(store) }, 0, nil)
	h := NewHandler(reg, store)

	r := gin.New()
	api := r.Group("/api/v1")
	h.RegisterRoutes(api.Group("", middleware.Session()))
	h.RegisterFileRoutes(api)
	h.RegisterDevRoutes(api.Group("/dev"))
	return r, store
}

func doRequest(r *gin.Engine, method, path, session, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.Header.Set(middleware.SessionHeader, session)
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestGenerateRequiresSession(t *testing.T) {
	r, _ := newTestRouter(t)

	resp := doRequest(r, http.MethodPost, "/api/v1/cv", "", "")
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestGenerateAndFetchHandle(t *testing.T) {
	r, _ := newTestRouter(t)

	resp := doRequest(r, http.MethodPost, "/api/v1/cv", "s1", `{"language":"es","format":"modern"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var body StateResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Phase != PhaseReady || body.Result == nil {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.Result.Metadata.SkillsCount != 9 {
		t.Fatalf("expected 9 skills, got %d", body.Result.Metadata.SkillsCount)
	}
	if !strings.HasPrefix(body.DownloadURL, "/api/v1/files/") {
		t.Fatalf("unexpected download url %q", body.DownloadURL)
	}

	file := doRequest(r, http.MethodGet, body.DownloadURL, "", "")
	if file.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", file.Code)
	}
	if ct := file.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %s", ct)
	}
	if !bytes.HasPrefix(file.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("expected pdf body")
	}

	missing := doRequest(r, http.MethodGet, "/api/v1/files/unknown", "", "")
	if missing.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown handle, got %d", missing.Code)
	}
}

func TestGenerateRejectsInvalidOptions(t *testing.T) {
	r, _ := newTestRouter(t)

	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "format", body: `{"format":"fancy"}`, want: "format must be one of"},
		{name: "theme", body: `{"theme":"neon"}`, want: "theme must be one of"},
		{name: "malformed", body: `{"format":`, want: "invalid json body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doRequest(r, http.MethodPost, "/api/v1/cv", "s1", tc.body)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.Code)
			}
			if !strings.Contains(resp.Body.String(), tc.want) {
				t.Fatalf("expected %q in %s", tc.want, resp.Body.String())
			}
		})
	}
}

func TestDownloadRoute(t *testing.T) {
	r, _ := newTestRouter(t)

	early := doRequest(r, http.MethodPost, "/api/v1/cv/download", "s1", "")
	if early.Code != http.StatusConflict {
		t.Fatalf("expected 409 before generate, got %d", early.Code)
	}

	if resp := doRequest(r, http.MethodPost, "/api/v1/cv", "s1", `{"language":"en"}`); resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	resp := doRequest(r, http.MethodPost, "/api/v1/cv/download", "s1", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	want := `attachment; filename="portfolio-cv-modern-en-2026-03-05.pdf"`
	if cd := resp.Header().Get("Content-Disposition"); cd != want {
		t.Fatalf("unexpected content disposition %s", cd)
	}
	if !bytes.HasPrefix(resp.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("expected pdf body")
	}

	other := doRequest(r, http.MethodPost, "/api/v1/cv/download", "s2", "")
	if other.Code != http.StatusConflict {
		t.Fatalf("expected other session to have nothing ready, got %d", other.Code)
	}
}

func TestDownloadAfterStoreClearedReturnsNotFound(t *testing.T) {
	r, store := newTestRouter(t)

	if resp := doRequest(r, http.MethodPost, "/api/v1/cv", "s1", ""); resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	store.ClearAll()

	resp := doRequest(r, http.MethodPost, "/api/v1/cv/download", "s1", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "file_not_found") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
	if cd := resp.Header().Get("Content-Disposition"); cd != "" {
		t.Fatalf("expected no attachment, got %s", cd)
	}
}

func TestStateAndReset(t *testing.T) {
	r, _ := newTestRouter(t)

	idle := doRequest(r, http.MethodGet, "/api/v1/cv", "s1", "")
	if idle.Code != http.StatusOK || !strings.Contains(idle.Body.String(), `"phase":"idle"`) {
		t.Fatalf("unexpected idle state %d %s", idle.Code, idle.Body.String())
	}

	doRequest(r, http.MethodPost, "/api/v1/cv", "s1", "")
	ready := doRequest(r, http.MethodGet, "/api/v1/cv", "s1", "")
	if !strings.Contains(ready.Body.String(), `"phase":"ready"`) {
		t.Fatalf("expected ready state, got %s", ready.Body.String())
	}

	reset := doRequest(r, http.MethodDelete, "/api/v1/cv", "s1", "")
	if reset.Code != http.StatusOK || !strings.Contains(reset.Body.String(), `"phase":"idle"`) {
		t.Fatalf("unexpected reset response %d %s", reset.Code, reset.Body.String())
	}
}

func TestStoreStatsAndClear(t *testing.T) {
	r, _ := newTestRouter(t)

	doRequest(r, http.MethodPost, "/api/v1/cv", "s1", "")
	doRequest(r, http.MethodPost, "/api/v1/cv", "s2", "")

	stats := doRequest(r, http.MethodGet, "/api/v1/store/stats", "", "")
	var got tempstore.Stats
	if err := json.Unmarshal(stats.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if got.Total != 2 {
		t.Fatalf("expected 2 entries, got %+v", got)
	}

	cleared := doRequest(r, http.MethodDelete, "/api/v1/dev/store", "", "")
	if cleared.Code != http.StatusOK || !strings.Contains(cleared.Body.String(), `"removed":2`) {
		t.Fatalf("unexpected clear response %d %s", cleared.Code, cleared.Body.String())
	}
}
