package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/eventaura/internal/common"
	"github.com/dmitrijs2005/eventaura/internal/netx"
)

type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
}

func NewHTTPClient(serverURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(serverURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url: unsupported scheme %q", u.Scheme)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	return &HTTPClient{
		baseURL: u,
		http:    &http.Client{Jar: jar, Timeout: timeout},
	}, nil
}

func (c *HTTPClient) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var m struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &m) == nil {
			apiErr.Message = m.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil, nil)
}

func (c *HTTPClient) Register(ctx context.Context, in RegisterInput) (string, error) {
	var out struct {
		UserID string `json:"userId"`
	}
	if err := c.do(ctx, http.MethodPost, "/register", nil, in, &out); err != nil {
		return "", err
	}
	return out.UserID, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*Profile, error) {
	var out struct {
		User Profile `json:"user"`
	}
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/login", nil, in, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// Logout asks the server to revoke the session and forgets it locally even
// when the call fails.
func (c *HTTPClient) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/logout", nil, nil, nil)
	c.SetSessionToken("")
	return err
}

func (c *HTTPClient) Me(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CheckAuth(ctx context.Context) (*Claims, error) {
	var out struct {
		User Claims `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/check-auth", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *HTTPClient) ListEvents(ctx context.Context, search, filter string) ([]Event, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if filter != "" {
		q.Set("filter", filter)
	}
	var out []Event
	if err := c.do(ctx, http.MethodGet, "/events", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) MyEvents(ctx context.Context) ([]Event, error) {
	var out []Event
	if err := c.do(ctx, http.MethodGet, "/my-events", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) FeaturedEvents(ctx context.Context) ([]Event, error) {
	var out []Event
	if err := c.do(ctx, http.MethodGet, "/featured-upcoming-events", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) AddEvent(ctx context.Context, in EventInput) (string, error) {
	var out struct {
		EventID string `json:"eventId"`
	}
	if err := c.do(ctx, http.MethodPost, "/add-events", nil, in, &out); err != nil {
		return "", err
	}
	return out.EventID, nil
}

func (c *HTTPClient) JoinEvent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/events/join/"+url.PathEscape(id), nil, nil, nil)
}

func (c *HTTPClient) UpdateEvent(ctx context.Context, id string, in EventInput) error {
	return c.do(ctx, http.MethodPut, "/events/"+url.PathEscape(id), nil, in, nil)
}

func (c *HTTPClient) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/events/"+url.PathEscape(id), nil, nil, nil)
}

func (c *HTTPClient) PresignPhoto(ctx context.Context, contentType string) (*PhotoUpload, error) {
	var out PhotoUpload
	in := map[string]string{"contentType": contentType}
	if err := c.do(ctx, http.MethodPost, "/photos/presign", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadPhoto PUTs the image to object storage without the session cookie.
func (c *HTTPClient) UploadPhoto(ctx context.Context, uploadURL, contentType string, data []byte) error {
	plain := &http.Client{Timeout: c.http.Timeout}
	if err := netx.UploadToPresignedURL(ctx, plain, uploadURL, contentType, data); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("photo upload: %w", err)
	}
	return nil
}

func (c *HTTPClient) SessionToken() string {
	for _, ck := range c.http.Jar.Cookies(c.baseURL) {
		if ck.Name == common.SessionCookieName {
			return ck.Value
		}
	}
	return ""
}

// SetSessionToken installs token as the session cookie; "" drops it.
func (c *HTTPClient) SetSessionToken(token string) {
	ck := &http.Cookie{Name: common.SessionCookieName, Value: token, Path: "/"}
	if token == "" {
		ck.MaxAge = -1
	}
	c.http.Jar.SetCookies(c.baseURL, []*http.Cookie{ck})
}
