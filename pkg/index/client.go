package index

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

	"tableflip.dev/codecanvas/pkg/live"
	"tableflip.dev/codecanvas/pkg/manifest"
	"tableflip.dev/codecanvas/pkg/timeline"
)

// Client talks to a remote index over the HTTP API served by httpapi.
type Client struct {
	base *url.URL
	http *http.Client
}

var _ Service = (*Client)(nil)

// NewClient returns a client for the service rooted at baseURL.
func NewClient(baseURL string, hc *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("index: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("index: unsupported scheme %q", u.Scheme)
	}
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{base: u, http: hc}, nil
}

func (c *Client) endpoint(p string, q url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + p
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func asOfQuery(asOf *time.Time) url.Values {
	q := url.Values{}
	if v := FormatAsOf(asOf); v != "" {
		q.Set("as_of", v)
	}
	return q
}

func (c *Client) getJSON(ctx context.Context, target string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("index: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return nil
}

// Manifest implements Service.
func (c *Client) Manifest(ctx context.Context, asOf *time.Time) ([]manifest.Raw, error) {
	var rows []manifest.Raw
	if err := c.getJSON(ctx, c.endpoint("/v1/manifest", asOfQuery(asOf)), &rows); err != nil {
		return nil, fmt.Errorf("index: manifest: %w", err)
	}
	return rows, nil
}

// Content implements Service.
func (c *Client) Content(ctx context.Context, path string, asOf *time.Time) (Content, error) {
	q := asOfQuery(asOf)
	q.Set("path", path)
	var out Content
	if err := c.getJSON(ctx, c.endpoint("/v1/content", q), &out); err != nil {
		return Content{}, fmt.Errorf("index: content %s: %w", path, err)
	}
	return out, nil
}

// Activity implements Service.
func (c *Client) Activity(ctx context.Context) (timeline.Summary, error) {
	var out timeline.Summary
	if err := c.getJSON(ctx, c.endpoint("/v1/activity", nil), &out); err != nil {
		return timeline.Summary{}, fmt.Errorf("index: activity: %w", err)
	}
	return out, nil
}

// Save implements Service.
func (c *Client) Save(ctx context.Context, path string, content string) error {
	q := url.Values{}
	q.Set("path", path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.endpoint("/v1/content", q), bytes.NewBufferString(content))
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("index: save %s: %w", path, err)
	}
	defer resp.Body.Close()
	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("index: save %s: %w", path, err)
	}
	return nil
}

// Watch implements Service by reading the newline-delimited JSON change
// stream until ctx is done or the server closes it.
func (c *Client) Watch(ctx context.Context) (<-chan live.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/v1/changes", nil), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("index: watch: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("index: watch: %w", err)
	}

	events := make(chan live.Event, 64)
	go func() {
		defer close(events)
		defer resp.Body.Close()
		dec := json.NewDecoder(resp.Body)
		for {
			var ev live.Event
			// EOF or a broken stream ends the watch; callers reconnect.
			if err := dec.Decode(&ev); err != nil {
				return
			}
			if ev.Path == "" {
				continue
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()
	return events, nil
}
