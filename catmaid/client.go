package catmaid

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// Client talks to one CATMAID project.
type Client struct {
	baseURL string
	token   string
	project int64
	stackID int64

	http *http.Client
}

// NewClient builds a client for the given server, API token, and project.
// The base URL may be empty; calls then fail with ErrNoServer, mirroring
// the "no global instance" guard of interactive workflows.
func NewClient(baseURL, token string, project int64, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		project: project,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Project returns the configured project ID.
func (c *Client) Project() int64 { return c.project }

// BaseURL returns the configured server base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// ready guards every call against an unconfigured client.
func (c *Client) ready() error {
	if c.baseURL == "" {
		return ErrNoServer
	}

	return nil
}

// getJSON performs an authenticated GET of path (with query values) and
// decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	if err := c.ready(); err != nil {
		return err
	}

	u := fmt.Sprintf("%s/%d/%s", c.baseURL, c.project, strings.TrimLeft(path, "/"))
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("catmaid: build request: %w", err)
	}
	c.authorize(req)

	slog.Debug("catmaid request", "method", req.Method, "url", u)

	return c.do(req, out)
}

// postForm performs an authenticated form POST and decodes the JSON body.
func (c *Client) postForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	if err := c.ready(); err != nil {
		return err
	}

	u := fmt.Sprintf("%s/%d/%s", c.baseURL, c.project, strings.TrimLeft(path, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("catmaid: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.authorize(req)

	slog.Debug("catmaid request", "method", req.Method, "url", u)

	return c.do(req, out)
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("X-Authorization", "Token "+c.token)
	}
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("catmaid: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

		return fmt.Errorf("%w: %s %s: %d %s", ErrStatus, req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if out == nil {
		return nil
	}
	if err = json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("catmaid: decode %s: %w", req.URL.Path, err)
	}

	return nil
}

// URLToCoordinates composes a browser URL centred on the given position
// (nm) at the given zoom level, in the tracing tool.
func (c *Client) URLToCoordinates(xyz [3]float64, zoom int) (string, error) {
	if err := c.ready(); err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("pid", fmt.Sprintf("%d", c.project))
	q.Set("xp", fmt.Sprintf("%.0f", xyz[0]))
	q.Set("yp", fmt.Sprintf("%.0f", xyz[1]))
	q.Set("zp", fmt.Sprintf("%.0f", xyz[2]))
	q.Set("tool", "tracingtool")
	q.Set("sid0", fmt.Sprintf("%d", c.stackID))
	q.Set("s0", fmt.Sprintf("%d", zoom))

	return c.baseURL + "/?" + q.Encode(), nil
}
