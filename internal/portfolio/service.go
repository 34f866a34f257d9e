package portfolio

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Service assembles localized bundles from a Repo.
type Service struct {
	Repo Repo
}

// Bundle fetches the requested sections concurrently. The language is
// resolved with ResolveLanguage; content missing in a secondary language
// falls back to the primary one. Excluded sections are empty lists.
func (s *Service) Bundle(ctx context.Context, req BundleRequest) (Bundle, error) {
	lang := ResolveLanguage(req.Language)
	b := Bundle{
		Skills:     []Skill{},
		Projects:   []Project{},
		Experience: []Experience{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.personal(gctx, lang)
		if err != nil {
			return err
		}
		b.Personal = p
		return nil
	})
	if req.IncludeSkills {
		g.Go(func() error {
			skills, err := s.Repo.ListSkills(gctx)
			if err != nil {
				return fmt.Errorf("list skills: %w", err)
			}
			if skills != nil {
				b.Skills = skills
			}
			return nil
		})
	}
	if req.IncludeProjects {
		g.Go(func() error {
			projects, err := withFallback(gctx, lang, s.Repo.ListProjects)
			if err != nil {
				return fmt.Errorf("list projects: %w", err)
			}
			b.Projects = projects
			return nil
		})
	}
	if req.IncludeExperience {
		g.Go(func() error {
			entries, err := withFallback(gctx, lang, s.Repo.ListExperience)
			if err != nil {
				return fmt.Errorf("list experience: %w", err)
			}
			b.Experience = entries
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Bundle{}, err
	}
	return b, nil
}

func (s *Service) personal(ctx context.Context, lang string) (Personal, error) {
	p, err := s.Repo.GetPersonal(ctx, lang)
	if errors.Is(err, ErrNotFound) && lang != LangPrimary {
		p, err = s.Repo.GetPersonal(ctx, LangPrimary)
	}
	if err != nil {
		return Personal{}, fmt.Errorf("get personal info: %w", err)
	}
	return p, nil
}

func withFallback[T any](ctx context.Context, lang string, list func(context.Context, string) ([]T, error)) ([]T, error) {
	items, err := list(ctx, lang)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 && lang != LangPrimary {
		if items, err = list(ctx, LangPrimary); err != nil {
			return nil, err
		}
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
