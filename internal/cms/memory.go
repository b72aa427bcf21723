package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/landing-site/internal/schemas"
	"github.com/jonathan/landing-site/internal/types"
)

// Fixture is the on-disk form of a content snapshot. Entries and assets use the delivery
// API shape; sys.contentType may be given as a plain string.
type Fixture struct {
	Entries []map[string]any `json:"entries" yaml:"entries"`
	Assets  []map[string]any `json:"assets" yaml:"assets"`
}

// MemoryRepository serves content from an in-memory snapshot. It backs offline
// development and tests. Replace swaps the snapshot atomically.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []map[string]any
	idx     *linkIndex
	err     error
}

// NewMemoryRepository creates a repository over raw entries and assets.
func NewMemoryRepository(raw ...map[string]any) *MemoryRepository {
	r := &MemoryRepository{}
	r.Replace(raw...)
	return r
}

// LoadFixture reads a YAML or JSON fixture file into a new repository.
func LoadFixture(path string) (*MemoryRepository, error) {
	raw, err := ReadFixture(path)
	if err != nil {
		return nil, err
	}
	return NewMemoryRepository(raw...), nil
}

// ReadFixture parses a fixture file and returns its entries and assets in normalized form.
func ReadFixture(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}

	var doc map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &doc)
	default:
		err = json.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse fixture %s: %w", path, err)
	}
	if err := schemas.Validate(schemas.Fixture, doc); err != nil {
		return nil, fmt.Errorf("invalid fixture %s: %w", path, err)
	}

	var fixture Fixture
	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode fixture %s: %w", path, err)
	}
	if err := json.Unmarshal(normalized, &fixture); err != nil {
		return nil, fmt.Errorf("failed to decode fixture %s: %w", path, err)
	}

	out := make([]map[string]any, 0, len(fixture.Entries)+len(fixture.Assets))
	for _, e := range fixture.Entries {
		n, err := normalizeRaw(e, "Entry")
		if err != nil {
			return nil, fmt.Errorf("fixture %s: %w", path, err)
		}
		out = append(out, n)
	}
	for _, a := range fixture.Assets {
		n, err := normalizeRaw(a, "Asset")
		if err != nil {
			return nil, fmt.Errorf("fixture %s: %w", path, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// normalizeRaw round-trips a decoded value through JSON so numbers, dates and nested maps
// have the same Go types as a delivery API response.
func normalizeRaw(raw map[string]any, kind string) (map[string]any, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", strings.ToLower(kind), err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}

	sys, _ := out["sys"].(map[string]any)
	if sys == nil {
		sys = map[string]any{}
		out["sys"] = sys
	}
	if id, _ := sys["id"].(string); id == "" {
		return nil, fmt.Errorf("%s without sys.id", strings.ToLower(kind))
	}
	if _, ok := sys["type"]; !ok {
		sys["type"] = kind
	}
	if ct, ok := sys["contentType"].(string); ok {
		sys["contentType"] = map[string]any{
			"sys": map[string]any{"id": ct, "type": "Link", "linkType": "ContentType"},
		}
	}
	if _, ok := out["fields"].(map[string]any); !ok {
		out["fields"] = map[string]any{}
	}
	return out, nil
}

// Replace swaps the served snapshot. Items are normalized to delivery API types; items
// without an id are skipped.
func (r *MemoryRepository) Replace(raw ...map[string]any) {
	idx := newLinkIndex()
	entries := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		kind := "Entry"
		if sys, _ := item["sys"].(map[string]any); sys["type"] == "Asset" {
			kind = "Asset"
		}
		item, err := normalizeRaw(item, kind)
		if err != nil {
			log.Printf("[cms] skipping fixture item: %v", err)
			continue
		}
		idx.add(item)
		if sys, _ := item["sys"].(map[string]any); sys["type"] != "Asset" {
			entries = append(entries, item)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = entries
	r.idx = idx
}

// FailWith makes every query return err until it is called again with nil.
func (r *MemoryRepository) FailWith(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// GetEntries filters the snapshot like the delivery API does.
func (r *MemoryRepository) GetEntries(ctx context.Context, contentType string, q Query) (*EntryCollection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.err != nil {
		return nil, r.err
	}

	var matched []map[string]any
	for _, raw := range r.entries {
		if contentType != "" && contentTypeOf(raw) != contentType {
			continue
		}
		if matchesAll(raw, q.Filters) {
			matched = append(matched, raw)
		}
	}
	if q.Order != "" {
		sortRaw(matched, q.Order)
	}

	collection := &EntryCollection{Total: len(matched)}
	start := q.Skip
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.limit()
	if end > len(matched) {
		end = len(matched)
	}
	for _, raw := range matched[start:end] {
		if entry, ok := types.EntryFromMap(r.idx.resolveEntry(raw, q.Include)); ok {
			collection.Items = append(collection.Items, entry)
		}
	}
	return collection, nil
}

// GetEntryBySlug returns the first entry of contentType whose slug matches.
func (r *MemoryRepository) GetEntryBySlug(ctx context.Context, contentType, slug string, include int) (*types.Entry, error) {
	collection, err := r.GetEntries(ctx, contentType, Query{
		Filters: map[string]string{"fields.slug": slug},
		Limit:   1,
		Include: include,
	})
	if err != nil {
		return nil, err
	}
	return first(collection), nil
}

// GetEntry returns an entry by id.
func (r *MemoryRepository) GetEntry(ctx context.Context, id string, include int) (*types.Entry, error) {
	collection, err := r.GetEntries(ctx, "", Query{
		Filters: map[string]string{"sys.id": id},
		Limit:   1,
		Include: include,
	})
	if err != nil {
		return nil, err
	}
	return first(collection), nil
}

// Ping reports the injected failure, if any.
func (r *MemoryRepository) Ping(ctx context.Context) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

func contentTypeOf(raw map[string]any) string {
	v, _ := lookup(raw, "sys.contentType.sys.id")
	s, _ := v.(string)
	return s
}

// lookup walks a dotted path through nested maps.
func lookup(raw map[string]any, path string) (any, bool) {
	var cur any = raw
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

func matchesAll(raw map[string]any, filters map[string]string) bool {
	for key, want := range filters {
		if !matches(raw, key, want) {
			return false
		}
	}
	return true
}

// matches evaluates one search parameter. Supported operators are equality, [ne], [in],
// [nin] and [exists]. Array fields match when any element matches.
func matches(raw map[string]any, key, want string) bool {
	op := ""
	if i := strings.Index(key, "["); i > 0 && strings.HasSuffix(key, "]") {
		op = key[i+1 : len(key)-1]
		key = key[:i]
	}
	got, present := lookup(raw, key)

	switch op {
	case "":
		return present && valueMatches(got, want)
	case "ne":
		return !present || !valueMatches(got, want)
	case "in":
		for _, w := range strings.Split(want, ",") {
			if present && valueMatches(got, w) {
				return true
			}
		}
		return false
	case "nin":
		for _, w := range strings.Split(want, ",") {
			if present && valueMatches(got, w) {
				return false
			}
		}
		return true
	case "exists":
		return present == (want == "true")
	default:
		return false
	}
}

func valueMatches(got any, want string) bool {
	if list, ok := got.([]any); ok {
		for _, item := range list {
			if fmt.Sprint(item) == want {
				return true
			}
		}
		return false
	}
	return fmt.Sprint(got) == want
}

// sortRaw orders entries by one field. A leading "-" sorts descending.
func sortRaw(entries []map[string]any, order string) {
	field := strings.Split(order, ",")[0]
	desc := strings.HasPrefix(field, "-")
	field = strings.TrimPrefix(field, "-")

	sort.SliceStable(entries, func(i, j int) bool {
		a, _ := lookup(entries[i], field)
		b, _ := lookup(entries[j], field)
		as, bs := fmt.Sprint(a), fmt.Sprint(b)
		if a == nil {
			as = ""
		}
		if b == nil {
			bs = ""
		}
		if desc {
			return as > bs
		}
		return as < bs
	})
}
