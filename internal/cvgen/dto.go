package cvgen

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
)

var requestValidator = validator.New(validator.WithRequiredStructEnabled())

type generateRequest struct {
	Format            string `json:"format" validate:"omitempty,oneof=modern classic minimal"`
	Language          string `json:"language" validate:"omitempty,max=35"`
	Theme             string `json:"theme" validate:"omitempty,oneof=light dark"`
	IncludeSkills     *bool  `json:"includeSkills"`
	IncludeProjects   *bool  `json:"includeProjects"`
	IncludeExperience *bool  `json:"includeExperience"`
}

func (r generateRequest) validate() error {
	err := requestValidator.Struct(r)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]
	switch fe.Tag() {
	case "oneof":
		return fmt.Errorf("%s must be one of [%s]", field, fe.Param())
	case "max":
		return fmt.Errorf("%s is too long", field)
	default:
		return fmt.Errorf("%s is invalid", field)
	}
}

func (r generateRequest) options() Options {
	opts := DefaultOptions()
	opts.Format = r.Format
	opts.Language = r.Language
	opts.Theme = r.Theme
	if r.IncludeSkills != nil {
		opts.IncludeSkills = *r.IncludeSkills
	}
	if r.IncludeProjects != nil {
		opts.IncludeProjects = *r.IncludeProjects
	}
	if r.IncludeExperience != nil {
		opts.IncludeExperience = *r.IncludeExperience
	}
	return opts
}

// StateResponse is the outward-facing generation state.
type StateResponse struct {
	State
	DownloadURL string `json:"downloadUrl,omitempty"`
}

func decodeOptionalJSON(body io.ReadCloser, out any) error {
	if body == nil {
		return nil
	}
	errInvalidJSON := errors.New("invalid json body")
	decoder := json.NewDecoder(body)
	if err := decoder.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errInvalidJSON
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return errInvalidJSON
	}
	return nil
}
