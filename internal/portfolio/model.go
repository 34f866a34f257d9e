package portfolio

// Language tags with content. Spanish is the primary language and the
// fallback for anything missing in the secondary one.
const (
	LangPrimary   = "es"
	LangSecondary = "en"
)

// Personal holds the header and contact details of the profile.
type Personal struct {
	Name     string `json:"name" yaml:"name"`
	Title    string `json:"title" yaml:"title"`
	Email    string `json:"email" yaml:"email"`
	Location string `json:"location" yaml:"location"`
	GitHub   string `json:"github" yaml:"github"`
	LinkedIn string `json:"linkedin" yaml:"linkedin"`
	Summary  string `json:"summary" yaml:"summary"`
	Tag      string `json:"tag" yaml:"tag"`
}

type Skill struct {
	Name            string `json:"name" yaml:"name"`
	Level           int    `json:"level" yaml:"level" validate:"gte=0,lte=100"`
	Category        string `json:"category" yaml:"category"`
	YearsExperience int    `json:"yearsExperience" yaml:"yearsExperience" validate:"gte=0"`
	IsExpert        bool   `json:"isExpert" yaml:"isExpert"`
	Icon            string `json:"icon,omitempty" yaml:"icon"`
}

type ProjectStatus string

const (
	StatusCompleted  ProjectStatus = "completed"
	StatusInProgress ProjectStatus = "in-progress"
	StatusPlanned    ProjectStatus = "planned"
	StatusArchived   ProjectStatus = "archived"
)

type Project struct {
	Title        string        `json:"title" yaml:"title"`
	Description  string        `json:"description" yaml:"description"`
	Technologies []string      `json:"technologies" yaml:"technologies"`
	Status       ProjectStatus `json:"status,omitempty" yaml:"status" validate:"omitempty,oneof=completed in-progress planned archived"`
	Category     string        `json:"category,omitempty" yaml:"category"`
	Featured     bool          `json:"featured,omitempty" yaml:"featured"`
	Year         int           `json:"year,omitempty" yaml:"year" validate:"gte=0"`
	RepoURL      string        `json:"repoUrl,omitempty" yaml:"repoUrl"`
	LiveURL      string        `json:"liveUrl,omitempty" yaml:"liveUrl"`
}

type Experience struct {
	Company      string   `json:"company" yaml:"company"`
	Position     string   `json:"position" yaml:"position"`
	Period       string   `json:"period" yaml:"period"`
	Description  string   `json:"description" yaml:"description"`
	Achievements []string `json:"achievements" yaml:"achievements"`
	Technologies []string `json:"technologies" yaml:"technologies"`
}

// Bundle is everything the CV layout needs for one language.
type Bundle struct {
	Personal   Personal     `json:"personal"`
	Skills     []Skill      `json:"skills" validate:"dive"`
	Projects   []Project    `json:"projects" validate:"dive"`
	Experience []Experience `json:"experience" validate:"dive"`
}

// BundleRequest selects the language and the optional sections of a Bundle.
type BundleRequest struct {
	Language          string
	IncludeSkills     bool
	IncludeProjects   bool
	IncludeExperience bool
}
