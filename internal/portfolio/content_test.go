package portfolio

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultContentParses(t *testing.T) {
	content, err := DefaultContent()
	if err != nil {
		t.Fatalf("DefaultContent: %v", err)
	}
	if got := content.Languages(); len(got) != 2 || got[0] != "en" || got[1] != "es" {
		t.Fatalf("unexpected languages %v", got)
	}
	if content.Personal[LangPrimary].Name == "" {
		t.Fatalf("expected primary personal name")
	}
	if len(content.Skills) == 0 {
		t.Fatalf("expected skills in default content")
	}
	if len(content.Projects[LangSecondary]) == 0 || len(content.Experience[LangSecondary]) == 0 {
		t.Fatalf("expected secondary language projects and experience")
	}
	for lang, projects := range content.Projects {
		for _, p := range projects {
			b := Bundle{Projects: []Project{p}}
			if err := b.Validate(); err != nil {
				t.Fatalf("default project %q (%s) invalid: %v", p.Title, lang, err)
			}
		}
	}
}

func TestParseContentRejectsSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "level above range",
			doc: `
personal:
  es: {name: Ana}
skills:
  - {name: Go, level: 150, category: backend}
`,
			want: "level",
		},
		{
			name: "unknown status",
			doc: `
personal:
  es: {name: Ana}
projects:
  es:
    - {title: X, status: abandoned}
`,
			want: "status",
		},
		{
			name: "missing personal",
			doc: `
skills: []
`,
			want: "personal",
		},
		{
			name: "unknown field",
			doc: `
personal:
  es: {name: Ana, age: 30}
`,
			want: "age",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseContent([]byte(tc.doc))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in error, got %v", tc.want, err)
			}
		})
	}
}

func TestParseContentRejectsEmptyDocument(t *testing.T) {
	if _, err := ParseContent([]byte("   \n")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := ParseContent([]byte("personal: [")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for malformed yaml, got %v", err)
	}
}

func TestLoadContentFileMissing(t *testing.T) {
	if _, err := LoadContentFile(t.TempDir() + "/missing.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
