package portfolio

import "context"

// Repo reads profile content. GetPersonal returns ErrNotFound when the
// language has no personal info; list methods return empty lists instead.
type Repo interface {
	GetPersonal(ctx context.Context, lang string) (Personal, error)
	ListSkills(ctx context.Context) ([]Skill, error)
	ListProjects(ctx context.Context, lang string) ([]Project, error)
	ListExperience(ctx context.Context, lang string) ([]Experience, error)
}
