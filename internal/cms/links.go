package cms

// linkIndex resolves link objects against the entries and assets of a response.
type linkIndex struct {
	entries map[string]map[string]any
	assets  map[string]map[string]any
}

func newLinkIndex() *linkIndex {
	return &linkIndex{
		entries: make(map[string]map[string]any),
		assets:  make(map[string]map[string]any),
	}
}

func (idx *linkIndex) add(raw map[string]any) {
	sys, _ := raw["sys"].(map[string]any)
	id, _ := sys["id"].(string)
	if id == "" {
		return
	}
	if typ, _ := sys["type"].(string); typ == "Asset" {
		idx.assets[id] = raw
		return
	}
	idx.entries[id] = raw
}

// target returns the raw entry or asset a link points to, and whether m is a link at all.
// Fixture files may use the short form {"link": "id"}.
func (idx *linkIndex) target(m map[string]any) (map[string]any, bool) {
	if id, ok := shortLink(m); ok {
		if raw, ok := idx.entries[id]; ok {
			return raw, true
		}
		return idx.assets[id], true
	}
	sys, ok := m["sys"].(map[string]any)
	if !ok {
		return nil, false
	}
	if typ, _ := sys["type"].(string); typ != "Link" {
		return nil, false
	}
	id, _ := sys["id"].(string)
	if linkType, _ := sys["linkType"].(string); linkType == "Asset" {
		return idx.assets[id], true
	}
	return idx.entries[id], true
}

func shortLink(m map[string]any) (string, bool) {
	id, ok := m["link"].(string)
	return id, ok && len(m) == 1
}

// resolve returns a copy of v with links replaced by their targets, at most depth levels
// deep. Links beyond the depth or without a target are kept as link objects.
func (idx *linkIndex) resolve(v any, depth int) any {
	switch t := v.(type) {
	case map[string]any:
		if target, ok := idx.target(t); ok {
			if target == nil || depth <= 0 {
				return t
			}
			return idx.resolveEntry(target, depth-1)
		}
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = idx.resolve(val, depth)
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, item := range t {
			out = append(out, idx.resolve(item, depth))
		}
		return out
	default:
		return v
	}
}

func (idx *linkIndex) resolveEntry(raw map[string]any, depth int) map[string]any {
	out := map[string]any{"sys": raw["sys"]}
	if fields, ok := raw["fields"].(map[string]any); ok {
		out["fields"] = idx.resolve(fields, depth)
	}
	return out
}
