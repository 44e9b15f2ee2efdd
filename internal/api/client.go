// Package api talks to the directory and form endpoints over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/loykin/frontc/internal/auth"
	"github.com/loykin/frontc/internal/common"
	"github.com/loykin/frontc/internal/constants"
	"github.com/loykin/frontc/internal/httpc"
	"github.com/loykin/frontc/internal/util"
)

// ErrTransport wraps network level failures (no HTTP response received).
var ErrTransport = errors.New("api: request failed")

// Endpoints holds the paths of the two server routes.
type Endpoints struct {
	Directory string
	Form      string
}

func (e Endpoints) withDefaults() Endpoints {
	return Endpoints{
		Directory: util.TrimWithDefault(e.Directory, constants.DefaultDirectoryEndpoint),
		Form:      util.TrimWithDefault(e.Form, constants.DefaultFormEndpoint),
	}
}

// Client implements directory.Fetcher and form.Poster.
type Client struct {
	rc        *resty.Client
	endpoints Endpoints
	auth      *auth.Config
	logger    *common.Logger
}

// Options configures NewClient.
type Options struct {
	HTTP      *httpc.Httpc
	Endpoints Endpoints
	Auth      *auth.Config
	Logger    *common.Logger
}

// NewClient builds a Client. A nil HTTP uses the default base URL.
func NewClient(opts Options) *Client {
	h := opts.HTTP
	if h == nil {
		h = &httpc.Httpc{BaseURL: constants.DefaultBaseURL}
	}
	logger := opts.Logger
	if logger == nil {
		logger = common.GetLogger()
	}
	return &Client{
		rc:        h.New(),
		endpoints: opts.Endpoints.withDefaults(),
		auth:      opts.Auth,
		logger:    logger.WithComponent("api"),
	}
}

func (c *Client) request(ctx context.Context) (*resty.Request, error) {
	req := c.rc.R().SetContext(ctx)
	if c.auth.Enabled() {
		header, value, err := c.auth.Acquire(ctx)
		if err != nil {
			return nil, fmt.Errorf("api: acquire auth: %w", err)
		}
		req.SetHeader(header, value)
	}
	return req, nil
}

// FetchDirectory issues GET on the directory endpoint. The body is returned
// for any HTTP status; callers decide whether it parses.
func (c *Client) FetchDirectory(ctx context.Context, search string) ([]byte, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	req.SetHeader("Accept", constants.ContentTypeJSON)
	if s, ok := util.TrimEmptyCheck(search); ok {
		req.SetQueryParam(constants.SearchQueryParam, s)
	}
	return c.do(req, http.MethodGet, c.endpoints.Directory)
}

// PostForm issues POST on the form endpoint with a JSON body.
func (c *Client) PostForm(ctx context.Context, body []byte) ([]byte, error) {
	req, err := c.request(ctx)
	if err != nil {
		return nil, err
	}
	req.SetHeader("Content-Type", constants.ContentTypeJSON).SetBody(body)
	return c.do(req, http.MethodPost, c.endpoints.Form)
}

func (c *Client) do(req *resty.Request, method, path string) ([]byte, error) {
	logger := c.logger.WithRequest(method, path)
	resp, err := req.Execute(method, path)
	if err != nil {
		logger.Debug("request failed", "error", err)
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	logger.Debug("response received", "status", resp.StatusCode(), "bytes", len(resp.Body()))
	return resp.Body(), nil
}
