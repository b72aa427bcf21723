package cms

import "time"

// NewEntry builds a raw entry in delivery API shape.
func NewEntry(id, contentType string, fields map[string]any) map[string]any {
	if fields == nil {
		fields = map[string]any{}
	}
	return map[string]any{
		"sys": map[string]any{
			"id":        id,
			"type":      "Entry",
			"updatedAt": time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
			"contentType": map[string]any{
				"sys": map[string]any{"id": contentType, "type": "Link", "linkType": "ContentType"},
			},
		},
		"fields": fields,
	}
}

// NewAsset builds a raw asset whose file lives at url.
func NewAsset(id, title, url string) map[string]any {
	return map[string]any{
		"sys": map[string]any{"id": id, "type": "Asset"},
		"fields": map[string]any{
			"title": title,
			"file":  map[string]any{"url": url, "fileName": title},
		},
	}
}

// Link builds an entry link.
func Link(id string) map[string]any {
	return map[string]any{"sys": map[string]any{"type": "Link", "linkType": "Entry", "id": id}}
}

// AssetLink builds an asset link.
func AssetLink(id string) map[string]any {
	return map[string]any{"sys": map[string]any{"type": "Link", "linkType": "Asset", "id": id}}
}

// Links builds a multi-reference field value.
func Links(ids ...string) []any {
	out := make([]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, Link(id))
	}
	return out
}
