package portfolio

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	TopSkillMinLevel     = 75
	DefaultTopSkills     = 5
	maxSuggestions       = 5
	maxRelatedProjects   = 3
	maxRecommendedFocus  = 2
	otherCategoryKey     = "other"
	allCategoriesKeyword = "all"
)

// CategoryKey folds case and surrounding space so "Backend " and "backend"
// name the same category.
func CategoryKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// LevelDescription names the band a skill level falls in.
func LevelDescription(level int, lang string) string {
	bands := []struct {
		min    int
		es, en string
	}{
		{90, "Experto", "Expert"},
		{75, "Avanzado", "Advanced"},
		{50, "Intermedio", "Intermediate"},
		{25, "Principiante", "Beginner"},
		{0, "Básico", "Basic"},
	}
	for _, b := range bands {
		if level >= b.min {
			if ResolveLanguage(lang) == LangSecondary {
				return b.en
			}
			return b.es
		}
	}
	return bands[len(bands)-1].es
}

// RankedSkill is a skill with its level band.
type RankedSkill struct {
	Skill
	LevelDescription string `json:"levelDescription"`
}

// Progress summarizes skill levels overall and per category.
type Progress struct {
	OverallProgress   float64            `json:"overallProgress"`
	SkillDistribution map[string]float64 `json:"skillDistribution"`
	RecommendedFocus  []string           `json:"recommendedFocus"`
}

// Summary is the portfolio overview.
type Summary struct {
	Language              string        `json:"language"`
	TotalProjects         int           `json:"totalProjects"`
	CompletedProjects     int           `json:"completedProjects"`
	FeaturedProjects      []Project     `json:"featuredProjects"`
	TopSkills             []RankedSkill `json:"topSkills"`
	TotalExperience       int           `json:"totalExperience"`
	AverageSkillLevel     float64       `json:"averageSkillLevel"`
	SuggestedTechnologies []string      `json:"suggestedTechnologies"`
	Progress
}

// SkillQuery filters and orders skills. Category "" or "all" keeps every
// category; SortBy is level, experience or name; Order is asc or desc.
type SkillQuery struct {
	Category string
	SortBy   string
	Order    string
	MinLevel *int
}

// Summary counts projects, ranks skills and suggests what to learn next.
func (s *Service) Summary(ctx context.Context, lang string) (Summary, error) {
	lang = ResolveLanguage(lang)
	var skills []Skill
	var projects []Project

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if skills, err = s.Repo.ListSkills(gctx); err != nil {
			return fmt.Errorf("list skills: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if projects, err = withFallback(gctx, lang, s.Repo.ListProjects); err != nil {
			return fmt.Errorf("list projects: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	sum := Summary{
		Language:              lang,
		TotalProjects:         len(projects),
		FeaturedProjects:      featuredProjects(projects),
		TopSkills:             topSkills(skills, DefaultTopSkills, lang),
		SuggestedTechnologies: suggestTechnologies(skills),
		Progress:              developerProgress(skills),
	}
	for _, p := range projects {
		if p.Status == StatusCompleted {
			sum.CompletedProjects++
		}
	}
	for _, sk := range skills {
		sum.TotalExperience += sk.YearsExperience
	}
	sum.AverageSkillLevel = sum.OverallProgress
	return sum, nil
}

// TopSkills returns up to limit skills at or above TopSkillMinLevel, highest
// first.
func (s *Service) TopSkills(ctx context.Context, limit int, lang string) ([]RankedSkill, error) {
	skills, err := s.Repo.ListSkills(ctx)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	return topSkills(skills, limit, lang), nil
}

// Skills filters by category and minimum level and sorts the result.
// Without a SortBy skills are ordered by level, highest first.
func (s *Service) Skills(ctx context.Context, q SkillQuery) ([]Skill, error) {
	sortBy := cmp.Or(strings.ToLower(strings.TrimSpace(q.SortBy)), "level")
	order := cmp.Or(strings.ToLower(strings.TrimSpace(q.Order)), "desc")
	if order != "asc" && order != "desc" {
		return nil, fmt.Errorf("%w: order must be one of [asc desc] (got %q)", ErrInvalidInput, q.Order)
	}
	compare, ok := skillOrderings(sortBy)
	if !ok {
		return nil, fmt.Errorf("%w: sortBy must be one of [level experience name] (got %q)", ErrInvalidInput, q.SortBy)
	}

	all, err := s.Repo.ListSkills(ctx)
	if err != nil {
		return nil, fmt.Errorf("list skills: %w", err)
	}
	category := CategoryKey(q.Category)
	out := make([]Skill, 0, len(all))
	for _, sk := range all {
		if category != "" && category != allCategoriesKeyword && CategoryKey(sk.Category) != category {
			continue
		}
		if q.MinLevel != nil && sk.Level < *q.MinLevel {
			continue
		}
		out = append(out, sk)
	}
	slices.SortStableFunc(out, func(a, b Skill) int {
		if order == "desc" {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return out, nil
}

func skillOrderings(sortBy string) (func(a, b Skill) int, bool) {
	switch sortBy {
	case "level":
		return func(a, b Skill) int { return cmp.Compare(a.Level, b.Level) }, true
	case "experience":
		return func(a, b Skill) int { return cmp.Compare(a.YearsExperience, b.YearsExperience) }, true
	case "name":
		coll := collate.New(language.Spanish, collate.IgnoreCase)
		return func(a, b Skill) int { return coll.CompareString(a.Name, b.Name) }, true
	}
	return nil, false
}

// FeaturedProjects returns the featured projects of lang, newest first.
func (s *Service) FeaturedProjects(ctx context.Context, lang string) ([]Project, error) {
	projects, err := withFallback(ctx, ResolveLanguage(lang), s.Repo.ListProjects)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return featuredProjects(projects), nil
}

// RelatedProjects returns up to three projects sharing technologies with the
// project titled title, most shared first. It returns ErrNotFound when no
// project has that title.
func (s *Service) RelatedProjects(ctx context.Context, lang, title string) ([]Project, error) {
	projects, err := withFallback(ctx, ResolveLanguage(lang), s.Repo.ListProjects)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	idx := slices.IndexFunc(projects, func(p Project) bool {
		return strings.EqualFold(strings.TrimSpace(p.Title), strings.TrimSpace(title))
	})
	if idx < 0 {
		return nil, fmt.Errorf("project %q: %w", title, ErrNotFound)
	}
	return relatedProjects(projects, idx), nil
}

func topSkills(skills []Skill, limit int, lang string) []RankedSkill {
	if limit <= 0 {
		limit = DefaultTopSkills
	}
	ranked := make([]RankedSkill, 0, len(skills))
	for _, sk := range skills {
		if sk.Level >= TopSkillMinLevel {
			ranked = append(ranked, RankedSkill{Skill: sk, LevelDescription: LevelDescription(sk.Level, lang)})
		}
	}
	slices.SortStableFunc(ranked, func(a, b RankedSkill) int { return cmp.Compare(b.Level, a.Level) })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// developerProgress averages levels overall and per category, and
// recommends the two weakest categories.
func developerProgress(skills []Skill) Progress {
	p := Progress{SkillDistribution: map[string]float64{}, RecommendedFocus: []string{}}
	if len(skills) == 0 {
		return p
	}
	total := 0
	sums := map[string]int{}
	counts := map[string]int{}
	for _, sk := range skills {
		total += sk.Level
		key := cmp.Or(CategoryKey(sk.Category), otherCategoryKey)
		sums[key] += sk.Level
		counts[key]++
	}
	p.OverallProgress = float64(total) / float64(len(skills))

	keys := make([]string, 0, len(sums))
	for key, sum := range sums {
		p.SkillDistribution[key] = float64(sum) / float64(counts[key])
		keys = append(keys, key)
	}
	slices.SortFunc(keys, func(a, b string) int {
		return cmp.Or(cmp.Compare(p.SkillDistribution[a], p.SkillDistribution[b]), cmp.Compare(a, b))
	})
	p.RecommendedFocus = keys[:min(maxRecommendedFocus, len(keys))]
	return p
}

// complements lists technologies that pair well with a known one.
var complements = map[string][]string{
	"C#":         {"Azure", "Docker", "Kubernetes", "Redis"},
	"Python":     {"Django", "Pandas", "NumPy", "TensorFlow"},
	"TypeScript": {"React", "Vue.js", "Svelte", "Deno"},
	"JavaScript": {"Node.js", "Express.js", "MongoDB", "GraphQL"},
	"Flutter":    {"Firebase", "Dart", "SQLite", "Provider"},
	"React":      {"Next.js", "Redux", "React Query", "Chakra UI"},
}

// suggestTechnologies walks known skills in order and collects complements
// not already known, up to five.
func suggestTechnologies(skills []Skill) []string {
	known := make(map[string]bool, len(skills))
	for _, sk := range skills {
		known[sk.Name] = true
	}
	out := []string{}
	seen := map[string]bool{}
	for _, sk := range skills {
		for _, tech := range complements[sk.Name] {
			if known[tech] || seen[tech] {
				continue
			}
			seen[tech] = true
			out = append(out, tech)
			if len(out) == maxSuggestions {
				return out
			}
		}
	}
	return out
}

func featuredProjects(projects []Project) []Project {
	out := []Project{}
	for _, p := range projects {
		if p.Featured {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b Project) int { return cmp.Compare(b.Year, a.Year) })
	return out
}

func relatedProjects(projects []Project, target int) []Project {
	techs := make(map[string]bool, len(projects[target].Technologies))
	for _, t := range projects[target].Technologies {
		techs[t] = true
	}
	type scored struct {
		project Project
		shared  int
	}
	var candidates []scored
	for i, p := range projects {
		if i == target {
			continue
		}
		shared := 0
		for _, t := range p.Technologies {
			if techs[t] {
				shared++
			}
		}
		if shared > 0 {
			candidates = append(candidates, scored{project: p, shared: shared})
		}
	}
	slices.SortStableFunc(candidates, func(a, b scored) int { return cmp.Compare(b.shared, a.shared) })
	out := []Project{}
	for _, c := range candidates[:min(maxRelatedProjects, len(candidates))] {
		out = append(out, c.project)
	}
	return out
}
