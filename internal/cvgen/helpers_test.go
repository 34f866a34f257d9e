package cvgen

import (
	"context"
	"fmt"
	"sync"
	"time"

	"portfolio-backend/internal/cvrender"
	"portfolio-backend/internal/portfolio"
	"portfolio-backend/internal/tempstore"
)

var fixedNow = time.Date(2026, time.March, 5, 9, 30, 0, 0, time.UTC)

func testContent() portfolio.Content {
	skills := make([]portfolio.Skill, 0, 9)
	for _, cat := range []string{"backend", "frontend", "database"} {
		for i := 0; i < 3; i++ {
			skills = append(skills, portfolio.Skill{
				Name:     fmt.Sprintf("%s-%d", cat, i),
				Level:    60 + 10*i,
				Category: cat,
			})
		}
	}
	projects := make([]portfolio.Project, 0, 4)
	for i := 0; i < 4; i++ {
		projects = append(projects, portfolio.Project{
			Title:        fmt.Sprintf("Proyecto %d", i+1),
			Description:  "Servicio que procesa documentos escaneados.",
			Technologies: []string{"Go", "PostgreSQL"},
			Status:       portfolio.StatusCompleted,
		})
	}
	return portfolio.Content{
		Personal: map[string]portfolio.Personal{
			"es": {Name: "Ada Lovelace", Title: "Ingeniera Backend", Email: "ada@example.com"},
			"en": {Name: "Ada Lovelace", Title: "Backend Engineer", Email: "ada@example.com"},
		},
		Skills:   skills,
		Projects: map[string][]portfolio.Project{"es": projects},
		Experience: map[string][]portfolio.Experience{
			"es": {
				{Company: "Motores Analíticos", Position: "Ingeniera Senior", Period: "2022 - Actual"},
				{Company: "Telares SA", Position: "Ingeniera", Period: "2019 - 2022"},
			},
		},
	}
}

func newTestService() *portfolio.Service {
	return &portfolio.Service{Repo: portfolio.NewMemoryRepo(testContent())}
}

func newTestStore() *tempstore.Store {
	return tempstore.New(tempstore.Options{
		HandleLifetime:   time.Hour,
		ForceRevokeDelay: time.Hour,
		Now:              func() time.Time { return fixedNow },
	})
}

func newTestOrchestrator(store Store) *Orchestrator {
	return New(Deps{
		Source:   newTestService(),
		Renderer: cvrender.NewEngine(),
		Store:    store,
		Now:      func() time.Time { return fixedNow },
	})
}

type sourceFunc func(ctx context.Context, req portfolio.BundleRequest) (portfolio.Bundle, error)

func (f sourceFunc) Bundle(ctx context.Context, req portfolio.BundleRequest) (portfolio.Bundle, error) {
	return f(ctx, req)
}

type rendererFunc func(ctx context.Context, b portfolio.Bundle, opts cvrender.Options) (cvrender.Document, error)

func (f rendererFunc) Render(ctx context.Context, b portfolio.Bundle, opts cvrender.Options) (cvrender.Document, error) {
	return f(ctx, b, opts)
}

// recordingStore counts calls into a real store and can refuse handles.
type recordingStore struct {
	*tempstore.Store

	mu           sync.Mutex
	puts         int
	handles      int
	forces       int
	refuseHandle bool
}

func newRecordingStore() *recordingStore {
	return &recordingStore{Store: newTestStore()}
}

func (s *recordingStore) Put(payload []byte, filename, contentType string) string {
	s.mu.Lock()
	s.puts++
	s.mu.Unlock()
	return s.Store.Put(payload, filename, contentType)
}

func (s *recordingStore) CreateDownloadHandle(id string) (tempstore.Handle, bool) {
	s.mu.Lock()
	s.handles++
	refuse := s.refuseHandle
	s.mu.Unlock()
	if refuse {
		return tempstore.Handle{}, false
	}
	return s.Store.CreateDownloadHandle(id)
}

func (s *recordingStore) ForceDownload(id string, saver tempstore.Saver) error {
	s.mu.Lock()
	s.forces++
	s.mu.Unlock()
	return s.Store.ForceDownload(id, saver)
}

func (s *recordingStore) calls() (puts, handles, forces int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts, s.handles, s.forces
}

type capturedSave struct {
	filename    string
	contentType string
	payload     []byte
}

type opener interface {
	Open(token string) (tempstore.Entry, bool)
}

// capturingSaver resolves each transient handle through files and records
// what it would have saved.
func capturingSaver(files opener, out *[]capturedSave) tempstore.Saver {
	return tempstore.SaverFunc(func(h tempstore.Handle) error {
		e, ok := files.Open(h.Token)
		if !ok {
			return tempstore.ErrNotFound
		}
		*out = append(*out, capturedSave{filename: e.Filename, contentType: e.ContentType, payload: e.Payload})
		return nil
	})
}
