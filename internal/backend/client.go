// Package backend はクライアント認証API（/api/v1/clients/*）へのHTTPクライアントを提供します。
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/sufairath-nisar/assessment-aug5-2024/internal/form"
)

const (
	signInPath  = "/api/v1/clients/signin"
	detailsPath = "/api/v1/clients/details/"
	signUpPath  = "/api/v1/clients/signup"

	maxReplyBytes = 1 << 20
)

// Reply はAPIの応答ボディです。exists が真なら名前が既に使われています。
type Reply struct {
	Exists bool `json:"exists"`

	// Cookies は応答の Set-Cookie です。ブラウザへそのまま中継します。
	Cookies []*http.Cookie `json:"-"`
}

// StatusError は 2xx 以外の応答を表します。
type StatusError struct {
	Method string
	Path   string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Status)
}

// SignInRequest はサインインAPIのリクエストボディです。
type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Client はAPIへ1回だけリクエストを送ります（リトライ・タイムアウトなし）。
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient は Client を作成します。httpClient が nil なら http.DefaultClient を使います。
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

type cookiesKey struct{}

// WithCookies はAPIリクエストに付与するクッキー（ブラウザの資格情報）を ctx に載せます。
func WithCookies(ctx context.Context, cookies []*http.Cookie) context.Context {
	return context.WithValue(ctx, cookiesKey{}, cookies)
}

func cookiesFrom(ctx context.Context) []*http.Cookie {
	cookies, _ := ctx.Value(cookiesKey{}).([]*http.Cookie)
	return cookies
}

// SignIn は POST /api/v1/clients/signin を呼びます。
func (c *Client) SignIn(ctx context.Context, username, password string) (*Reply, error) {
	return c.do(ctx, http.MethodPost, signInPath, true, &SignInRequest{
		Username: username,
		Password: password,
	})
}

// ClientDetails は GET /api/v1/clients/details/{firstName} を呼びます。クッキーは送りません。
func (c *Client) ClientDetails(ctx context.Context, firstName string) (*Reply, error) {
	return c.do(ctx, http.MethodGet, detailsPath+url.PathEscape(firstName), false, nil)
}

// SignUp は POST /api/v1/clients/signup を呼びます。ボディはサインアップフォームの全項目です。
func (c *Client) SignUp(ctx context.Context, record *form.SignUp) (*Reply, error) {
	if record == nil {
		return nil, fmt.Errorf("record is nil")
	}
	return c.do(ctx, http.MethodPost, signUpPath, true, record)
}

// do はリクエストを1回送ります。withCredentials が真ならブラウザのクッキーを付与します。
func (c *Client) do(ctx context.Context, method, path string, withCredentials bool, body any) (*Reply, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if withCredentials {
		for _, cookie := range cookiesFrom(ctx) {
			req.AddCookie(cookie)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxReplyBytes))
		return nil, &StatusError{Method: method, Path: path, Status: resp.StatusCode}
	}

	var reply Reply
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxReplyBytes)).Decode(&reply); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	reply.Cookies = resp.Cookies()
	return &reply, nil
}
