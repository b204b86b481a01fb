// Package apiclient — типизированный HTTP-клиент REST-поверхности.
// Держит cookie jar, так что после Login/Register сессия едет сама.
// Реализует view.Fetcher.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"lume/internal/catalog"
	"lume/internal/models"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar},
	}, nil
}

// APIError — не-2xx ответ, развёрнутый из application/problem+json.
type APIError struct {
	Status int
	Title  string
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: %d %s: %s", e.Status, e.Title, e.Detail)
	}
	return fmt.Sprintf("api: %d %s", e.Status, e.Title)
}

func (e *APIError) IsNotFound() bool { return e.Status == http.StatusNotFound }

// do выполняет запрос и декодирует ответ; не-2xx приходит как *APIError.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Title: resp.Status}
		var p models.Problem
		if json.NewDecoder(resp.Body).Decode(&p) == nil && p.Title != "" {
			apiErr.Title = p.Title
			apiErr.Detail = p.Detail
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// ---------- auth ----------

func (c *Client) Register(ctx context.Context, email, password string) (*models.User, error) {
	var u models.User
	err := c.do(ctx, http.MethodPost, "/api/auth/register", nil,
		map[string]string{"email": email, "password": password}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	var u models.User
	err := c.do(ctx, http.MethodPost, "/api/auth/login", nil,
		map[string]string{"email": email, "password": password}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) GoogleLogin(ctx context.Context, token, email string) (*models.User, error) {
	var u models.User
	err := c.do(ctx, http.MethodPost, "/api/auth/google", nil,
		map[string]string{"token": token, "email": email}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ---------- каталог ----------

func (c *Client) Watches(ctx context.Context, f catalog.Filter) ([]models.Watch, error) {
	var rows []models.Watch
	if err := c.do(ctx, http.MethodGet, "/api/watches", f.Values(), nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) Watch(ctx context.Context, id uint) (*models.Watch, error) {
	var w models.Watch
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/watches/%d", id), nil, nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) CreateWatch(ctx context.Context, in models.WatchInput) (*models.Watch, error) {
	var w models.Watch
	if err := c.do(ctx, http.MethodPost, "/api/watches", nil, in, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) UpdateWatch(ctx context.Context, id uint, p models.WatchPatch) (*models.Watch, error) {
	var w models.Watch
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/watches/%d", id), nil, p, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) DeleteWatch(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/watches/%d", id), nil, nil, nil)
}

// ---------- закладки ----------

func (c *Client) Favorites(ctx context.Context) ([]models.Watch, error) {
	var rows []models.Watch
	if err := c.do(ctx, http.MethodGet, "/api/favorites", nil, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) AddFavorite(ctx context.Context, watchID uint) error {
	return c.do(ctx, http.MethodPost, "/api/favorites", nil,
		map[string]uint{"watchId": watchID}, nil)
}

func (c *Client) RemoveFavorite(ctx context.Context, watchID uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/favorites/%d", watchID), nil, nil, nil)
}

func (c *Client) IsFavorite(ctx context.Context, watchID uint) (bool, error) {
	var st struct {
		IsFavorite bool `json:"isFavorite"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/favorites/%d", watchID), nil, nil, &st); err != nil {
		return false, err
	}
	return st.IsFavorite, nil
}

// ---------- админка ----------

func (c *Client) AdminUsers(ctx context.Context) ([]models.User, error) {
	var rows []models.User
	if err := c.do(ctx, http.MethodGet, "/api/admin/users", nil, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) AdminSetRole(ctx context.Context, userID uint, role string) (*models.User, error) {
	var u models.User
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/admin/users/%d", userID), nil,
		map[string]string{"role": role}, &u)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) AdminAnalytics(ctx context.Context) (*models.Analytics, error) {
	var a models.Analytics
	if err := c.do(ctx, http.MethodGet, "/api/admin/analytics", nil, nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}
