package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jonathan/landing-site/internal/config"
	"github.com/jonathan/landing-site/internal/fetch"
	"github.com/jonathan/landing-site/internal/types"
)

// Client queries the Contentful Content Delivery API. It is read-only after
// construction and safe for concurrent use.
type Client struct {
	baseURL string
	opts    *fetch.Options
}

// NewClient creates a delivery API client. A nil config returns ErrNotConfigured.
func NewClient(cfg *config.CMSConfig) (*Client, error) {
	if cfg == nil || cfg.SpaceID == "" || cfg.AccessToken == "" {
		return nil, ErrNotConfigured
	}
	return &Client{
		baseURL: cfg.BaseURL(),
		opts: &fetch.Options{
			Timeout: cfg.Timeout,
			Headers: map[string]string{
				"Authorization": "Bearer " + cfg.AccessToken,
				"Accept":        "application/json",
			},
		},
	}, nil
}

// collectionResponse is the wire format of an entries query.
type collectionResponse struct {
	Total    int              `json:"total"`
	Skip     int              `json:"skip"`
	Limit    int              `json:"limit"`
	Items    []map[string]any `json:"items"`
	Includes struct {
		Entry []map[string]any `json:"Entry"`
		Asset []map[string]any `json:"Asset"`
	} `json:"includes"`
}

// GetEntries runs an entries query and resolves links up to q.Include levels.
func (c *Client) GetEntries(ctx context.Context, contentType string, q Query) (*EntryCollection, error) {
	params := url.Values{}
	if contentType != "" {
		params.Set("content_type", contentType)
	}
	for key, value := range q.Filters {
		params.Set(key, value)
	}
	if q.Order != "" {
		params.Set("order", q.Order)
	}
	params.Set("limit", strconv.Itoa(q.limit()))
	if q.Skip > 0 {
		params.Set("skip", strconv.Itoa(q.Skip))
	}
	params.Set("include", strconv.Itoa(q.Include))

	result, err := fetch.URL(ctx, c.baseURL+"/entries?"+params.Encode(), c.opts)
	if err != nil {
		return nil, classify(err)
	}

	var resp collectionResponse
	if err := json.Unmarshal(result.Body, &resp); err != nil {
		return nil, &UnavailableError{Message: "invalid response body", StatusCode: result.StatusCode, Cause: err}
	}

	idx := newLinkIndex()
	for _, raw := range resp.Items {
		idx.add(raw)
	}
	for _, raw := range resp.Includes.Entry {
		idx.add(raw)
	}
	for _, raw := range resp.Includes.Asset {
		idx.add(raw)
	}

	collection := &EntryCollection{Total: resp.Total}
	for _, raw := range resp.Items {
		if entry, ok := types.EntryFromMap(idx.resolveEntry(raw, q.Include)); ok {
			collection.Items = append(collection.Items, entry)
		}
	}
	return collection, nil
}

// GetEntryBySlug returns the first entry of contentType whose slug matches.
func (c *Client) GetEntryBySlug(ctx context.Context, contentType, slug string, include int) (*types.Entry, error) {
	collection, err := c.GetEntries(ctx, contentType, Query{
		Filters: map[string]string{"fields.slug": slug},
		Limit:   1,
		Include: include,
	})
	if err != nil {
		return nil, err
	}
	return first(collection), nil
}

// GetEntry returns an entry of any content type by id.
func (c *Client) GetEntry(ctx context.Context, id string, include int) (*types.Entry, error) {
	collection, err := c.GetEntries(ctx, "", Query{
		Filters: map[string]string{"sys.id": id},
		Limit:   1,
		Include: include,
	})
	if err != nil {
		return nil, err
	}
	return first(collection), nil
}

// Ping verifies the credentials and the space by listing one content type.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := fetch.URL(ctx, c.baseURL+"/content_types?limit=1", c.opts); err != nil {
		return classify(err)
	}
	return nil
}

// classify maps a fetch failure onto the CMS error taxonomy.
func classify(err error) error {
	var fetchErr *fetch.Error
	if !errors.As(err, &fetchErr) {
		return &UnavailableError{Message: "request failed", Cause: err}
	}

	switch {
	case fetchErr.Transport():
		log.Printf("[cms] delivery API unreachable: %v", err)
		return &UnavailableError{Message: "delivery API unreachable", Cause: err}
	case fetchErr.StatusCode == http.StatusUnauthorized || fetchErr.StatusCode == http.StatusForbidden:
		return &ConfigError{Message: "access token rejected", StatusCode: fetchErr.StatusCode}
	case fetchErr.StatusCode == http.StatusNotFound:
		return &ConfigError{Message: "space or environment not found", StatusCode: fetchErr.StatusCode}
	case fetchErr.StatusCode == http.StatusTooManyRequests || fetchErr.StatusCode >= 500:
		return &UnavailableError{
			Message:    fmt.Sprintf("delivery API returned %d", fetchErr.StatusCode),
			StatusCode: fetchErr.StatusCode,
			Cause:      err,
		}
	default:
		return &QueryError{Message: "query rejected", StatusCode: fetchErr.StatusCode, Cause: err}
	}
}
