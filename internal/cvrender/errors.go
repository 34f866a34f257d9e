package cvrender

import "fmt"

// RenderError reports a bundle the engine cannot lay out.
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause == nil {
		return "render error: " + e.Message
	}
	return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
