package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/internportal/internal/client/models"
	"github.com/dmitrijs2005/internportal/internal/common"
)

// HTTPClient talks to the InternPortal HTTP API. The bearer token set with
// SetToken is attached to every request.
type HTTPClient struct {
	baseURL string
	hc      *http.Client

	mu          sync.RWMutex
	accessToken string
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: timeout},
	}
}

// HTTP returns the underlying http.Client, e.g. for presigned uploads.
func (c *HTTPClient) HTTP() *http.Client {
	return c.hc
}

func (c *HTTPClient) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

func (c *HTTPClient) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// do sends in (if non-nil) as JSON and decodes a 2xx response into out (if
// non-nil). Transport failures become ErrUnavailable; other statuses
// become *APIError.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if t := c.token(); t != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerScheme+t)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return mapStatus(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func mapStatus(resp *http.Response) error {
	var e struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if json.Unmarshal(raw, &e) != nil || e.Error == "" {
		e.Error = strings.TrimSpace(string(raw))
	}
	return &APIError{Status: resp.StatusCode, Message: e.Error}
}

type tokenBody struct {
	Token string `json:"token"`
}

type messageBody struct {
	Message string `json:"message"`
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

func (c *HTTPClient) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var out tokenBody
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	var out tokenBody
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", in, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *HTTPClient) ResetPassword(ctx context.Context, email, newPassword string) error {
	in := map[string]string{"email": email, "newPassword": newPassword}
	return c.do(ctx, http.MethodPost, "/auth/reset-password", in, nil)
}

func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/auth/forgot-password", map[string]string{"email": email}, nil)
}

func (c *HTTPClient) ConfirmReset(ctx context.Context, token, newPassword string) error {
	in := map[string]string{"token": token, "newPassword": newPassword}
	return c.do(ctx, http.MethodPost, "/auth/reset-password/confirm", in, nil)
}

func (c *HTTPClient) Test(ctx context.Context) (string, error) {
	var out messageBody
	if err := c.do(ctx, http.MethodGet, "/auth/test", nil, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *HTTPClient) Me(ctx context.Context) (*models.Profile, error) {
	var out models.Profile
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateEntry(ctx context.Context, e models.NewEntry) (*models.Entry, error) {
	var out models.Entry
	if err := c.do(ctx, http.MethodPost, "/entries", e, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListEntries(ctx context.Context) ([]models.Entry, error) {
	var out []models.Entry
	if err := c.do(ctx, http.MethodGet, "/entries", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func entryPath(id int64, suffix string) string {
	return "/entries/" + strconv.FormatInt(id, 10) + suffix
}

func (c *HTTPClient) DeleteEntry(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, entryPath(id, ""), nil, nil)
}

func (c *HTTPClient) AttachmentUploadURL(ctx context.Context, id int64) (*models.Attachment, error) {
	var out models.Attachment
	if err := c.do(ctx, http.MethodPost, entryPath(id, "/attachment"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) AttachmentDownloadURL(ctx context.Context, id int64) (*models.Attachment, error) {
	var out models.Attachment
	if err := c.do(ctx, http.MethodGet, entryPath(id, "/attachment"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
