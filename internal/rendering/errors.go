// Package rendering renders resolved pages to HTML from embedded templates.
package rendering

import (
	"fmt"
	"strings"
)

// TemplateError reports a template set that failed to load or a template that failed
// to execute. Template is empty when the set as a whole is broken.
type TemplateError struct {
	Template string
	// Section is the id of the section being rendered, if any.
	Section string
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	var sb strings.Builder
	sb.WriteString("template")
	if e.Template != "" {
		fmt.Fprintf(&sb, " %q", e.Template)
	}
	if e.Section != "" {
		fmt.Fprintf(&sb, " (section %s)", e.Section)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&sb, ": %v", e.Cause)
	}
	return sb.String()
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError is returned for a page the renderer has no template for.
type RenderError struct {
	Path string
	Kind string
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("cannot render %s: unknown page kind %q", e.Path, e.Kind)
}
