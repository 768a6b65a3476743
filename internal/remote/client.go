// Package remote talks to the posting service over HTTP. Client satisfies the
// same collaborator interfaces as the local store.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/tgienger/ask/internal/models"
)

// StatusError is returned when the service answers with an unexpected status
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Client is an HTTP client for the posting service
type Client struct {
	base *url.URL
	http *http.Client
	log  zerolog.Logger
}

// New creates a client for the service at endpoint
func New(endpoint string, timeout time.Duration, l zerolog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(endpoint, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parse endpoint")
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.Errorf("endpoint %q must be http or https", endpoint)
	}
	return &Client{
		base: base,
		http: &http.Client{Timeout: timeout},
		log:  l.With().Str("component", "remote").Str("endpoint", base.String()).Logger(),
	}, nil
}

// FetchAll lists the theme catalog
func (c *Client) FetchAll(ctx context.Context) ([]models.Theme, error) {
	var themes []models.Theme
	if err := c.do(ctx, http.MethodGet, "/themes", nil, &themes); err != nil {
		return nil, err
	}
	return themes, nil
}

// Submit posts a payload. Any 2xx answer counts as accepted.
func (c *Client) Submit(ctx context.Context, payload models.Payload) error {
	return c.do(ctx, http.MethodPost, "/posts", payload, nil)
}

// RecentQuestions lists up to limit questions, newest first
func (c *Client) RecentQuestions(ctx context.Context, limit int) ([]models.Question, error) {
	path := "/questions"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var qs []models.Question
	if err := c.do(ctx, http.MethodGet, path, nil, &qs); err != nil {
		return nil, err
	}
	return qs, nil
}

// Profile fetches the signed in user's profile
func (c *Client) Profile(ctx context.Context) (models.Profile, error) {
	var p models.Profile
	err := c.do(ctx, http.MethodGet, "/profile", nil, &p)
	return p, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrapf(err, "encode %s %s", method, path)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.String()+path, body)
	if err != nil {
		return errors.Wrapf(err, "build %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request done")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s %s", method, path)
	}
	return nil
}
