package portfolio

import (
	"context"
	"sync"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	content Content
}

func NewMemoryRepo(content Content) *MemoryRepo {
	return &MemoryRepo{content: content}
}

// Replace swaps the served content.
func (r *MemoryRepo) Replace(content Content) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.content = content
}

func (r *MemoryRepo) GetPersonal(ctx context.Context, lang string) (Personal, error) {
	if err := ctx.Err(); err != nil {
		return Personal{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.content.Personal[lang]
	if !ok {
		return Personal{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) ListSkills(ctx context.Context) ([]Skill, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Skill(nil), r.content.Skills...), nil
}

func (r *MemoryRepo) ListProjects(ctx context.Context, lang string) ([]Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Project, 0, len(r.content.Projects[lang]))
	for _, p := range r.content.Projects[lang] {
		p.Technologies = append([]string(nil), p.Technologies...)
		out = append(out, p)
	}
	return out, nil
}

func (r *MemoryRepo) ListExperience(ctx context.Context, lang string) ([]Experience, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Experience, 0, len(r.content.Experience[lang]))
	for _, e := range r.content.Experience[lang] {
		e.Achievements = append([]string(nil), e.Achievements...)
		e.Technologies = append([]string(nil), e.Technologies...)
		out = append(out, e)
	}
	return out, nil
}
