package portfolio

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate reports the first structural problem found in b: an out of range
// level or years value, an unknown project status, or text that is not
// valid UTF-8. The returned error wraps ErrInvalidInput.
func (b Bundle) Validate() error {
	if err := validate.Struct(b); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fmt.Errorf("%w: %s", ErrInvalidInput, describe(fieldErrs[0]))
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if field, ok := firstInvalidText(b); !ok {
		return fmt.Errorf("%w: %s is not valid UTF-8 text", ErrInvalidInput, field)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "Bundle.")
	var rule string
	switch fe.Tag() {
	case "gte":
		rule = "must be at least " + fe.Param()
	case "lte":
		rule = "must be at most " + fe.Param()
	case "oneof":
		rule = "must be one of [" + fe.Param() + "]"
	default:
		rule = "failed " + fe.Tag()
	}
	return fmt.Sprintf("%s %s (got %v)", field, rule, fe.Value())
}

func firstInvalidText(b Bundle) (string, bool) {
	p := b.Personal
	if !allValid(p.Name, p.Title, p.Email, p.Location, p.GitHub, p.LinkedIn, p.Summary, p.Tag) {
		return "personal", false
	}
	for i, s := range b.Skills {
		if !allValid(s.Name, s.Category, s.Icon) {
			return fmt.Sprintf("skills[%d]", i), false
		}
	}
	for i, pr := range b.Projects {
		if !allValid(pr.Title, pr.Description, pr.Category, pr.RepoURL, pr.LiveURL) || !allValid(pr.Technologies...) {
			return fmt.Sprintf("projects[%d]", i), false
		}
	}
	for i, e := range b.Experience {
		if !allValid(e.Company, e.Position, e.Period, e.Description) || !allValid(e.Achievements...) || !allValid(e.Technologies...) {
			return fmt.Sprintf("experience[%d]", i), false
		}
	}
	return "", true
}

func allValid(values ...string) bool {
	for _, v := range values {
		if !utf8.ValidString(v) {
			return false
		}
	}
	return true
}
