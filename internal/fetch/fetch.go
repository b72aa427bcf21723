// Package fetch provides outbound HTTP calls with bounded timeouts and HTML-to-text processing.
// It centralizes the HTTP logic used by the CMS client, coupon validation and remote revalidation.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; LandingSite/1.0)"

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 8 << 20

// Result holds the raw content of a response.
type Result struct {
	URL         string
	Body        []byte
	ContentType string
	StatusCode  int
}

// Error represents an error during an outbound request.
type Error struct {
	URL        string
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Transport reports whether the request never produced an HTTP response
// (DNS failure, refused connection, timeout).
func (e *Error) Transport() bool {
	return e.StatusCode == 0
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
	Client    *http.Client
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

func (o *Options) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// URL performs a GET request.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	return Do(ctx, http.MethodGet, urlStr, nil, opts)
}

// Do performs a request and returns the response body. Non-2xx responses return the
// result together with an *Error.
func Do(ctx context.Context, method, urlStr string, body []byte, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{
			URL:     urlStr,
			Message: "invalid URL",
			Cause:   err,
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, urlStr, reader)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "failed to create request",
			Cause:   err,
		}
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := opts.client().Do(req)
	if err != nil {
		return nil, &Error{
			URL:     urlStr,
			Message: "HTTP request failed",
			Cause:   err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{
			URL:        urlStr,
			Message:    "failed to read response body",
			StatusCode: resp.StatusCode,
			Cause:      err,
		}
	}

	result := &Result{
		URL:         urlStr,
		Body:        bodyBytes,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, &Error{
			URL:        urlStr,
			Message:    fmt.Sprintf("HTTP status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
		}
	}

	return result, nil
}

// JSON performs a GET request and decodes the JSON response into v.
func JSON(ctx context.Context, urlStr string, opts *Options, v any) error {
	result, err := URL(ctx, urlStr, opts)
	if err != nil {
		return err
	}
	return DecodeJSON(result, v)
}

// DecodeJSON decodes the result body into v.
func DecodeJSON(result *Result, v any) error {
	if err := json.Unmarshal(result.Body, v); err != nil {
		return &Error{
			URL:        result.URL,
			Message:    "invalid JSON response",
			StatusCode: result.StatusCode,
			Cause:      err,
		}
	}
	return nil
}

// ExtractText parses HTML and returns its visible text. Script and style elements are
// removed. When selectors are given, the first matching selection is used.
func ExtractText(html string, selectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	selection := doc.Selection
	for _, selector := range selectors {
		if found := doc.Find(selector); found.Length() > 0 {
			selection = found.First()
			break
		}
	}

	return cleanWhitespace(selection.Text()), nil
}

// Excerpt returns the first maxLen runes of the visible text of html, cut at a word boundary.
func Excerpt(html string, maxLen int) string {
	text, err := ExtractText(html)
	if err != nil {
		return ""
	}
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	cut := string(runes[:maxLen])
	if i := strings.LastIndex(cut, " "); i > maxLen/2 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}

// cleanWhitespace normalizes whitespace in text.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
