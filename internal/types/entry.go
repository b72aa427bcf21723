// Package types provides the content model shared by the CMS client, the path and page
// resolvers, and the HTTP layer.
package types

import (
	"strings"
	"time"
)

// Sys holds the system metadata the CMS attaches to every entry and asset.
type Sys struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	LinkType      string    `json:"linkType,omitempty"`
	ContentTypeID string    `json:"-"`
	Locale        string    `json:"locale,omitempty"`
	CreatedAt     time.Time `json:"createdAt,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt,omitempty"`
	Revision      int       `json:"revision,omitempty"`
}

// Entry is a raw CMS entry whose links have already been resolved into nested maps.
type Entry struct {
	Sys    Sys            `json:"sys"`
	Fields map[string]any `json:"fields"`
}

// EntryFromMap converts a resolved link (a map with "sys" and "fields") into an Entry.
// It returns false for unresolved links and non-entry values.
func EntryFromMap(v any) (*Entry, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	sysMap, ok := m["sys"].(map[string]any)
	if !ok {
		return nil, false
	}
	fields, ok := m["fields"].(map[string]any)
	if !ok {
		return nil, false
	}
	return &Entry{Sys: SysFromMap(sysMap), Fields: fields}, true
}

// SysFromMap decodes the sys block of a raw entry.
func SysFromMap(m map[string]any) Sys {
	sys := Sys{
		ID:       stringValue(m["id"]),
		Type:     stringValue(m["type"]),
		LinkType: stringValue(m["linkType"]),
		Locale:   stringValue(m["locale"]),
	}
	if ct, ok := m["contentType"].(map[string]any); ok {
		if inner, ok := ct["sys"].(map[string]any); ok {
			sys.ContentTypeID = stringValue(inner["id"])
		}
	}
	if rev, ok := m["revision"].(float64); ok {
		sys.Revision = int(rev)
	}
	sys.CreatedAt = parseTime(stringValue(m["createdAt"]))
	sys.UpdatedAt = parseTime(stringValue(m["updatedAt"]))
	return sys
}

// String returns a string field or "".
func (e *Entry) String(name string) string {
	if e == nil {
		return ""
	}
	return stringValue(e.Fields[name])
}

// Bool returns a boolean field or false.
func (e *Entry) Bool(name string) bool {
	if e == nil {
		return false
	}
	b, _ := e.Fields[name].(bool)
	return b
}

// Number returns a numeric field or 0.
func (e *Entry) Number(name string) float64 {
	if e == nil {
		return 0
	}
	f, _ := e.Fields[name].(float64)
	return f
}

// Has reports whether the field is present and not null.
func (e *Entry) Has(name string) bool {
	if e == nil {
		return false
	}
	v, ok := e.Fields[name]
	return ok && v != nil
}

// Strings returns a string list field.
func (e *Entry) Strings(name string) []string {
	if e == nil {
		return nil
	}
	raw, ok := e.Fields[name].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Link returns the resolved entry referenced by a link field.
func (e *Entry) Link(name string) *Entry {
	if e == nil {
		return nil
	}
	linked, ok := EntryFromMap(e.Fields[name])
	if !ok {
		return nil
	}
	return linked
}

// Links returns the resolved entries of a multi-reference field. Unresolved links are dropped.
func (e *Entry) Links(name string) []*Entry {
	if e == nil {
		return nil
	}
	raw, ok := e.Fields[name].([]any)
	if !ok {
		return nil
	}
	out := make([]*Entry, 0, len(raw))
	for _, item := range raw {
		if linked, ok := EntryFromMap(item); ok {
			out = append(out, linked)
		}
	}
	return out
}

// Asset returns the resolved asset referenced by a link field.
func (e *Entry) Asset(name string) *Asset {
	return AssetFromEntry(e.Link(name))
}

// Assets returns the resolved assets of a multi-reference field.
func (e *Entry) Assets(name string) []*Asset {
	links := e.Links(name)
	out := make([]*Asset, 0, len(links))
	for _, l := range links {
		if a := AssetFromEntry(l); a != nil {
			out = append(out, a)
		}
	}
	return out
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Asset is a media file hosted by the CMS.
type Asset struct {
	ID          string
	Title       string
	Description string
	FileURL     string
	FileName    string
	ContentType string
	Width       int
	Height      int
}

// AssetFromEntry decodes an asset from its resolved link.
func AssetFromEntry(e *Entry) *Asset {
	if e == nil {
		return nil
	}
	file, ok := e.Fields["file"].(map[string]any)
	if !ok {
		return nil
	}
	a := &Asset{
		ID:          e.Sys.ID,
		Title:       e.String("title"),
		Description: e.String("description"),
		FileURL:     stringValue(file["url"]),
		FileName:    stringValue(file["fileName"]),
		ContentType: stringValue(file["contentType"]),
	}
	if details, ok := file["details"].(map[string]any); ok {
		if img, ok := details["image"].(map[string]any); ok {
			if w, ok := img["width"].(float64); ok {
				a.Width = int(w)
			}
			if h, ok := img["height"].(float64); ok {
				a.Height = int(h)
			}
		}
	}
	return a
}

// URL returns the absolute URL of the asset file.
func (a *Asset) URL() string {
	if a == nil {
		return ""
	}
	return AbsoluteURL(a.FileURL)
}

// AbsoluteURL prefixes protocol-relative CMS URLs with https:.
func AbsoluteURL(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}
