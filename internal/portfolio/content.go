package portfolio

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed content.schema.json
var contentSchemaJSON []byte

//go:embed content.default.yaml
var defaultContentYAML []byte

// Content is the full multi-language content document. Personal info,
// projects and experience are keyed by language tag; skills are shared.
type Content struct {
	Personal   map[string]Personal     `yaml:"personal" json:"personal"`
	Skills     []Skill                 `yaml:"skills" json:"skills"`
	Projects   map[string][]Project    `yaml:"projects" json:"projects"`
	Experience map[string][]Experience `yaml:"experience" json:"experience"`
}

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

func contentSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(contentSchemaJSON))
	})
	return schema, schemaErr
}

// ParseContent decodes a YAML content document and checks it against the
// content schema before accepting it.
func ParseContent(data []byte) (Content, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Content{}, fmt.Errorf("%w: decode content: %v", ErrInvalidInput, err)
	}
	if len(raw) == 0 {
		return Content{}, fmt.Errorf("%w: content document is empty", ErrInvalidInput)
	}

	s, err := contentSchema()
	if err != nil {
		return Content{}, fmt.Errorf("load content schema: %w", err)
	}
	result, err := s.Validate(gojsonschema.NewGoLoader(raw))
	if err != nil {
		return Content{}, fmt.Errorf("%w: validate content: %v", ErrInvalidInput, err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, re := range result.Errors() {
			problems = append(problems, re.String())
		}
		sort.Strings(problems)
		return Content{}, fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
	}

	var content Content
	if err := yaml.Unmarshal(data, &content); err != nil {
		return Content{}, fmt.Errorf("%w: decode content: %v", ErrInvalidInput, err)
	}
	return content, nil
}

// LoadContentFile reads and parses the content document at path.
func LoadContentFile(path string) (Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Content{}, fmt.Errorf("read content file: %w", err)
	}
	return ParseContent(data)
}

// DefaultContent returns the embedded content document.
func DefaultContent() (Content, error) {
	return ParseContent(defaultContentYAML)
}

// Languages returns the language tags that have personal info, sorted.
func (c Content) Languages() []string {
	langs := make([]string, 0, len(c.Personal))
	for lang := range c.Personal {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
