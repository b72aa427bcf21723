package revalidate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/jonathan/landing-site/internal/fetch"
)

// Invalidator drops the cached rendering of one path. Invalidating the same path
// repeatedly must be safe.
type Invalidator interface {
	Invalidate(ctx context.Context, path string) error
}

// InvalidatorFunc adapts a function to Invalidator.
type InvalidatorFunc func(ctx context.Context, path string) error

// Invalidate calls f.
func (f InvalidatorFunc) Invalidate(ctx context.Context, path string) error {
	return f(ctx, path)
}

// HTTPInvalidator asks a remote site instance to revalidate a path by POSTing to
// {endpoint}?path={path}.
type HTTPInvalidator struct {
	endpoint string
	opts     *fetch.Options
}

// NewHTTPInvalidator creates a remote invalidator. token, when set, is sent as a bearer token.
func NewHTTPInvalidator(endpoint, token string, opts *fetch.Options) (*HTTPInvalidator, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid revalidation endpoint %q", endpoint)
	}
	if opts == nil {
		opts = fetch.DefaultOptions()
	}
	headers := map[string]string{}
	for k, v := range opts.Headers {
		headers[k] = v
	}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}
	o := *opts
	o.Headers = headers
	return &HTTPInvalidator{endpoint: endpoint, opts: &o}, nil
}

// Invalidate POSTs the path to the endpoint. Any non-2xx response is an error.
func (h *HTTPInvalidator) Invalidate(ctx context.Context, path string) error {
	sep := "?"
	if strings.Contains(h.endpoint, "?") {
		sep = "&"
	}
	target := h.endpoint + sep + "path=" + url.QueryEscape(path)
	if _, err := fetch.Do(ctx, http.MethodPost, target, []byte("{}"), h.opts); err != nil {
		return fmt.Errorf("remote revalidation of %s failed: %w", path, err)
	}
	return nil
}

// Multi invalidates through every invalidator and joins their errors.
type Multi []Invalidator

// Invalidate calls every invalidator even when one fails.
func (m Multi) Invalidate(ctx context.Context, path string) error {
	var errs []error
	for _, inv := range m {
		if err := inv.Invalidate(ctx, path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
