package portfolio

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(repo Repo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(&Service{Repo: repo}).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestHandlerGetPortfolio(t *testing.T) {
	r := newTestRouter(NewMemoryRepo(testContent()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/portfolio?lang=en", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var payload struct {
		Language string `json:"language"`
		Bundle   Bundle `json:"bundle"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Language != "en" {
		t.Fatalf("expected en, got %q", payload.Language)
	}
	if len(payload.Bundle.Projects) != 1 || payload.Bundle.Projects[0].Title != "Reader" {
		t.Fatalf("unexpected projects %+v", payload.Bundle.Projects)
	}
}

func TestHandlerGetPortfolioNotFound(t *testing.T) {
	r := newTestRouter(NewMemoryRepo(Content{}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/portfolio", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestHandlerSkillsQuery(t *testing.T) {
	r := newTestRouter(NewMemoryRepo(insightsContent()))

	tests := []struct {
		query string
		code  int
		want  string
	}{
		{"", http.StatusOK, "awk,Go,TypeScript,Python,React,Redis"},
		{"?category=frontend&sortBy=name&order=asc", http.StatusOK, "React,TypeScript"},
		{"?minLevel=80&sortBy=experience", http.StatusOK, "awk,Go,TypeScript"},
		{"?sortBy=bogus", http.StatusBadRequest, ""},
		{"?order=up", http.StatusBadRequest, ""},
		{"?minLevel=abc", http.StatusBadRequest, ""},
		{"?minLevel=101", http.StatusBadRequest, ""},
	}
	for _, tc := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/portfolio/skills"+tc.query, nil))
		if w.Code != tc.code {
			t.Fatalf("%q: expected %d, got %d: %s", tc.query, tc.code, w.Code, w.Body.String())
		}
		if tc.code != http.StatusOK {
			continue
		}
		var payload struct {
			Skills []Skill `json:"skills"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got := skillNames(payload.Skills); got != tc.want {
			t.Fatalf("%q: got %q, want %q", tc.query, got, tc.want)
		}
	}
}

func TestHandlerTopSkillsLimit(t *testing.T) {
	r := newTestRouter(NewMemoryRepo(insightsContent()))

	tests := []struct {
		query string
		code  int
		count int
	}{
		{"", http.StatusOK, 4},
		{"?limit=1&lang=en", http.StatusOK, 1},
		{"?limit=0", http.StatusBadRequest, 0},
		{"?limit=51", http.StatusBadRequest, 0},
		{"?limit=many", http.StatusBadRequest, 0},
	}
	for _, tc := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/portfolio/skills/top"+tc.query, nil))
		if w.Code != tc.code {
			t.Fatalf("%q: expected %d, got %d", tc.query, tc.code, w.Code)
		}
		if tc.code != http.StatusOK {
			continue
		}
		var payload struct {
			Skills []RankedSkill `json:"skills"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(payload.Skills) != tc.count {
			t.Fatalf("%q: expected %d skills, got %d", tc.query, tc.count, len(payload.Skills))
		}
	}
}

func TestHandlerSummary(t *testing.T) {
	r := newTestRouter(NewMemoryRepo(insightsContent()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/portfolio/summary?lang=en", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var sum Summary
	if err := json.Unmarshal(w.Body.Bytes(), &sum); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sum.TotalProjects != 5 || sum.CompletedProjects != 2 || sum.SkillDistribution["other"] != 95 {
		t.Fatalf("unexpected summary %+v", sum)
	}
}

func TestHandlerFeaturedAndRelatedProjects(t *testing.T) {
	r := newTestRouter(NewMemoryRepo(insightsContent()))

	tests := []struct {
		path string
		code int
		want string
	}{
		{"/api/v1/portfolio/projects/featured", http.StatusOK, "Panel,Bot,Lector"},
		{"/api/v1/portfolio/projects/related?title=Lector", http.StatusOK, "Colas,CLI"},
		{"/api/v1/portfolio/projects/related?title=Nope", http.StatusNotFound, ""},
		{"/api/v1/portfolio/projects/related", http.StatusBadRequest, ""},
	}
	for _, tc := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if w.Code != tc.code {
			t.Fatalf("%s: expected %d, got %d", tc.path, tc.code, w.Code)
		}
		if tc.code != http.StatusOK {
			continue
		}
		var payload struct {
			Projects []Project `json:"projects"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got := projectTitles(payload.Projects); got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.path, got, tc.want)
		}
	}
}
