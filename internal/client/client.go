package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/devtrack/taskboard/internal/models"
)

const DefaultTimeout = 10 * time.Second

// Cookie and header names used by the server's CSRF double-submit
// scheme.
const (
	xsrfCookie = "XSRF-TOKEN"
	xsrfHeader = "X-XSRF-TOKEN"
)

// APIError is a non-2xx response from the dashboard API, carrying
// whatever message the server put in the response envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error (status %d)", e.Status)
}

// Client talks to the dashboard API at a fixed base URL. The session
// rides on cookies held in the client's jar; when the server has issued
// an XSRF-TOKEN cookie, its value is echoed back as a request header on
// every call.
type Client struct {
	baseURL    string
	base       *url.URL
	httpClient *http.Client
	jar        *cookiejar.Jar
}

func New(baseURL string) (*Client, error) {
	baseURL = strings.TrimSuffix(baseURL, "/")

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	return &Client{
		baseURL: baseURL,
		base:    base,
		jar:     jar,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Jar:     jar,
		},
	}, nil
}

// SetTimeout overrides the per-request timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		c.httpClient.Timeout = timeout
	}
}

// Cookies returns the session cookies currently held for the base URL.
func (c *Client) Cookies() []*http.Cookie {
	return c.jar.Cookies(c.base)
}

// SetCookies seeds the jar with previously persisted session cookies.
func (c *Client) SetCookies(cookies []*http.Cookie) {
	c.jar.SetCookies(c.base, cookies)
}

func (c *Client) do(ctx context.Context, method, path string, reqBody, out any) error {
	var body io.Reader
	if reqBody != nil {
		raw, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, ck := range c.jar.Cookies(c.base) {
		if ck.Name == xsrfCookie {
			req.Header.Set(xsrfHeader, ck.Value)
			break
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{Status: resp.StatusCode}
		var env Envelope[json.RawMessage]
		if err := json.Unmarshal(raw, &env); err == nil {
			apiErr.Message = env.Error
			if apiErr.Message == "" {
				apiErr.Message = env.Message
			}
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
	}
	return nil
}

// Register creates an account and returns the created user.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	var env Envelope[userPayload]
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &env); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return env.Data.toUser(), nil
}

// Login establishes a server session; the session cookie lands in the
// jar.
func (c *Client) Login(ctx context.Context, creds Credentials) error {
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, nil); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return nil
}

// Profile fetches the authenticated user, with its role-specific
// details resolved.
func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var env Envelope[userPayload]
	if err := c.do(ctx, http.MethodGet, "/auth/profile", nil, &env); err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return env.Data.toUser(), nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/auth/logout", struct{}{}, nil); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Tasks fetches the full task list.
func (c *Client) Tasks(ctx context.Context) ([]models.Task, error) {
	var env Envelope[[]models.Task]
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &env); err != nil {
		return nil, fmt.Errorf("get tasks: %w", err)
	}
	return env.Data, nil
}

func (c *Client) AddTask(ctx context.Context, req TaskRequest) (*models.Task, error) {
	var env Envelope[models.Task]
	if err := c.do(ctx, http.MethodPost, "/tasks", req, &env); err != nil {
		return nil, fmt.Errorf("add task: %w", err)
	}
	return &env.Data, nil
}

func (c *Client) UpdateTask(ctx context.Context, id int64, patch TaskPatch) (*models.Task, error) {
	var env Envelope[models.Task]
	path := "/tasks/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodPut, path, patch, &env); err != nil {
		return nil, fmt.Errorf("update task %d: %w", id, err)
	}
	return &env.Data, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	path := "/tasks/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

// Developers fetches the developer roster.
func (c *Client) Developers(ctx context.Context) ([]models.Developer, error) {
	var env Envelope[[]models.Developer]
	if err := c.do(ctx, http.MethodGet, "/developers", nil, &env); err != nil {
		return nil, fmt.Errorf("get developers: %w", err)
	}
	return env.Data, nil
}

// AssignTask assigns a task to a developer.
func (c *Client) AssignTask(ctx context.Context, taskID int64, developerID string) error {
	path := "/manager/" + strconv.FormatInt(taskID, 10) + "/" + url.PathEscape(developerID)
	if err := c.do(ctx, http.MethodPost, path, nil, nil); err != nil {
		return fmt.Errorf("assign task %d to %s: %w", taskID, developerID, err)
	}
	return nil
}

// AddDeveloperToTeam adds a developer to a manager's team.
func (c *Client) AddDeveloperToTeam(ctx context.Context, managerID, developerID string) error {
	path := "/manager/team/" + url.PathEscape(managerID) + "/" + url.PathEscape(developerID)
	if err := c.do(ctx, http.MethodPost, path, nil, nil); err != nil {
		return fmt.Errorf("add developer %s to team %s: %w", developerID, managerID, err)
	}
	return nil
}
