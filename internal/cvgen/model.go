package cvgen

import (
	"strings"
	"time"

	"portfolio-backend/internal/portfolio"
	"portfolio-backend/internal/tempstore"
)

// Phase is a step of the generation state machine.
type Phase string

const (
	PhaseIdle        Phase = "idle"
	PhasePreparing   Phase = "preparing"
	PhaseRendering   Phase = "rendering"
	PhaseStoring     Phase = "storing"
	PhaseReady       Phase = "ready"
	PhaseDownloading Phase = "downloading"
	PhaseError       Phase = "error"
)

const (
	DefaultFormat = "modern"
	DefaultTheme  = "light"
)

// Options select what goes into a generated CV.
type Options struct {
	Format            string `json:"format"`
	Language          string `json:"language"`
	Theme             string `json:"theme"`
	IncludeSkills     bool   `json:"includeSkills"`
	IncludeProjects   bool   `json:"includeProjects"`
	IncludeExperience bool   `json:"includeExperience"`
}

// DefaultOptions includes every section in the primary language.
func DefaultOptions() Options {
	return Options{
		Format:            DefaultFormat,
		Language:          portfolio.LangPrimary,
		Theme:             DefaultTheme,
		IncludeSkills:     true,
		IncludeProjects:   true,
		IncludeExperience: true,
	}
}

func (o Options) normalized() Options {
	o.Format = strings.ToLower(strings.TrimSpace(o.Format))
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	o.Theme = strings.ToLower(strings.TrimSpace(o.Theme))
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	o.Language = portfolio.ResolveLanguage(o.Language)
	return o
}

// Metadata describes a generated document.
type Metadata struct {
	GeneratedAt     time.Time `json:"generatedAt"`
	Format          string    `json:"format"`
	Language        string    `json:"language"`
	SkillsCount     int       `json:"skillsCount"`
	ProjectsCount   int       `json:"projectsCount"`
	ExperienceCount int       `json:"experienceCount"`
	SizeBytes       int       `json:"sizeBytes"`
	SizeLabel       string    `json:"size"`
	SHA256          string    `json:"sha256"`
}

// Result points at a generated document in the temporary store.
type Result struct {
	ID       string           `json:"id"`
	Handle   tempstore.Handle `json:"handle"`
	Filename string           `json:"filename"`
	Metadata Metadata         `json:"metadata"`
}

// State is a snapshot of an orchestrator.
type State struct {
	Phase    Phase   `json:"phase"`
	Progress int     `json:"progress"`
	Result   *Result `json:"result,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// IsGenerating reports whether a generation or download is in flight.
func (s State) IsGenerating() bool {
	switch s.Phase {
	case PhasePreparing, PhaseRendering, PhaseStoring, PhaseDownloading:
		return true
	}
	return false
}
