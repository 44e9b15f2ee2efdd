// Package directory renders the social-media directory: a JSON object mapping
// labels to URLs, appended to a table body one row per entry.
package directory

import (
	"context"
	"errors"
	"fmt"
	"html"
	"unicode"
	"unicode/utf8"

	"github.com/loykin/frontc/internal/common"
	"github.com/tidwall/gjson"
)

var (
	ErrInvalidJSON = errors.New("directory: response body is not valid JSON")
	ErrNotObject   = errors.New("directory: response body is not a JSON object")
)

// Entry is one label/URL pair of the directory.
type Entry struct {
	Key string
	URL string
}

// Fetcher returns the raw directory body.
type Fetcher interface {
	FetchDirectory(ctx context.Context, search string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, search string) ([]byte, error)

func (f FetcherFunc) FetchDirectory(ctx context.Context, search string) ([]byte, error) {
	return f(ctx, search)
}

// Container is the table body rows are appended to. Append must not clear
// what was appended before.
type Container interface {
	Append(markup string) error
}

// Renderer turns one entry into row markup.
type Renderer func(Entry) string

// Capitalize uppercases the first character of s and leaves the rest unchanged.
// An empty string is returned as is.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return s
	}
	up := unicode.ToUpper(r)
	if up == r {
		return s
	}
	return string(up) + s[size:]
}

// RenderRow is the default Renderer. The link opens in a new browsing context.
func RenderRow(e Entry) string {
	return fmt.Sprintf(`<tr><td><a target="_blank" href="%s"> %s</a></td></tr>`,
		html.EscapeString(e.URL), html.EscapeString(Capitalize(e.Key)))
}

// Decode parses a directory body, preserving the key order of the object.
func Decode(body []byte) ([]Entry, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrInvalidJSON
	}
	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return nil, ErrNotObject
	}
	entries := make([]Entry, 0)
	// a repeated key keeps its first position and takes the last value
	seen := make(map[string]int)
	parsed.ForEach(func(key, value gjson.Result) bool {
		url := value.String()
		if value.Type != gjson.String {
			url = value.Raw
		}
		k := key.String()
		if i, ok := seen[k]; ok {
			entries[i].URL = url
			return true
		}
		seen[k] = len(entries)
		entries = append(entries, Entry{Key: k, URL: url})
		return true
	})
	return entries, nil
}

type options struct {
	renderer Renderer
	logger   *common.Logger
	search   string
}

// Option configures Load.
type Option func(*options)

// WithRenderer replaces RenderRow.
func WithRenderer(r Renderer) Option {
	return func(o *options) {
		if r != nil {
			o.renderer = r
		}
	}
}

// WithLogger sets the diagnostic channel failures are reported to.
func WithLogger(l *common.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSearch restricts the request to a single key (server side ?search=).
func WithSearch(term string) Option {
	return func(o *options) { o.search = term }
}

// Load fetches the directory once and appends one row per entry to c, in
// the order the server returned them. It returns the number of rows appended.
//
// Failures are logged as "Error : " and returned; rows appended before a
// failing Append stay in the container.
func Load(ctx context.Context, f Fetcher, c Container, opts ...Option) (int, error) {
	o := options{renderer: RenderRow, logger: common.GetLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger.WithFlow("directory")

	n, err := load(ctx, f, c, o)
	if err != nil {
		logger.Error("Error : ", "error", err, "appended", n)
		return n, err
	}
	logger.Debug("directory rendered", "rows", n)
	return n, nil
}

func load(ctx context.Context, f Fetcher, c Container, o options) (int, error) {
	body, err := f.FetchDirectory(ctx, o.search)
	if err != nil {
		return 0, err
	}
	entries, err := Decode(body)
	if err != nil {
		return 0, err
	}
	for i, e := range entries {
		if err := c.Append(o.renderer(e)); err != nil {
			return i, fmt.Errorf("directory: append row %q: %w", e.Key, err)
		}
	}
	return len(entries), nil
}
