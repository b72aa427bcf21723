// Package revalidate turns content-change notifications into ordered, retried
// invalidations of the render cache.
package revalidate

import (
	"errors"
	"fmt"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/jonathan/landing-site/internal/schemas"
	"github.com/jonathan/landing-site/internal/types"
)

// ErrInvalidPayload is matched by every payload that cannot be parsed or lacks
// required fields.
var ErrInvalidPayload = errors.New("invalid webhook payload")

// PayloadError describes why a payload was rejected.
type PayloadError struct {
	Message string
	Cause   error
}

func (e *PayloadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid webhook payload: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid webhook payload: %s", e.Message)
}

func (e *PayloadError) Unwrap() error {
	return e.Cause
}

// Is reports ErrInvalidPayload as a match.
func (e *PayloadError) Is(target error) bool {
	return target == ErrInvalidPayload
}

// Request is the part of a change notification that drives scoping.
type Request struct {
	ContentTypeID string
	EntryID       string
	Locale        string
	Slug          string
	Location      types.Location
	ThemeChanged  bool
	Raw           any
}

var (
	contentTypeExpr = jp.MustParseString("$.sys.contentType.sys.id")
	entryIDExpr     = jp.MustParseString("$.sys.id")
	localeExpr      = jp.MustParseString("$.sys.locale")
	fieldsExpr      = jp.MustParseString("$.fields")
)

// ParseRequest decodes a webhook body. Localized fields are read in the payload's
// sys.locale, falling back to defaultLocale and then to en-US.
func ParseRequest(body []byte, defaultLocale string) (*Request, error) {
	doc, err := oj.Parse(body)
	if err != nil {
		return nil, &PayloadError{Message: "malformed JSON", Cause: err}
	}
	if err := schemas.Validate(schemas.WebhookPayload, doc); err != nil {
		var validationErr *schemas.ValidationError
		if errors.As(err, &validationErr) {
			return nil, &PayloadError{Message: validationErr.Summary()}
		}
		return nil, &PayloadError{Message: "schema check failed", Cause: err}
	}

	contentType, _ := contentTypeExpr.First(doc).(string)
	if contentType == "" {
		return nil, &PayloadError{Message: "missing sys.contentType.sys.id"}
	}

	locale, _ := localeExpr.First(doc).(string)
	if locale == "" {
		locale = defaultLocale
	}
	if locale == "" {
		locale = types.DefaultLocale
	}

	fields, _ := fieldsExpr.First(doc).(map[string]any)
	req := &Request{
		ContentTypeID: contentType,
		Locale:        locale,
		Raw:           doc,
	}
	req.EntryID, _ = entryIDExpr.First(doc).(string)
	req.Slug, _ = localized(fields, "slug", locale).(string)
	location, _ := localized(fields, "location", locale).(string)
	req.Location = types.ParseLocation(location)
	req.ThemeChanged = localized(fields, "theme", locale) != nil || localized(fields, "customTheme", locale) != nil
	return req, nil
}

// localized reads a field that is either a locale map or a plain value.
func localized(fields map[string]any, name, locale string) any {
	raw, ok := fields[name]
	if !ok || raw == nil {
		return nil
	}
	byLocale, ok := raw.(map[string]any)
	if !ok {
		return raw
	}
	if _, isLink := byLocale["sys"]; isLink {
		return raw
	}
	if v, ok := byLocale[locale]; ok {
		return v
	}
	return byLocale[types.DefaultLocale]
}
