// Package smartrequest submits medical-records requests to the SmartRequest
// (Datavant) API and tracks them afterwards.
package smartrequest

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultBaseURL = "https://sandbox-api.datavant.com/v1"

	// Tokens are refreshed this long before they expire.
	expirationDelta = 5 * time.Minute

	defaultExpiresIn = 3600
	defaultTimeout   = 30 * time.Second
	createTimeout    = 60 * time.Second
)

// API is the set of SmartRequest operations. Client and Fake implement it.
type API interface {
	Facilities(ctx context.Context, filters map[string]string) ([]FacilityInfo, error)
	RequestReasons(ctx context.Context, companyID int64) ([]RequestReason, error)
	RecordTypes(ctx context.Context) ([]RecordType, error)
	CreateRequest(ctx context.Context, p Payload) (*CreateResult, error)
	Status(ctx context.Context, requestID string) (*Status, error)
	DownloadURL(ctx context.Context, requestID, docType string) (string, error)
	Cancel(ctx context.Context, requestID, reason string) error
}

type ClientConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// Client is the live API client. It authenticates with client credentials
// and keeps the bearer token until shortly before it expires.
type Client struct {
	config      ClientConfig
	restyClient *resty.Client

	token *Token
	mu    sync.Mutex
}

func NewClient(config ClientConfig) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	return &Client{
		config:      config,
		restyClient: resty.New().SetBaseURL(strings.TrimRight(config.BaseURL, "/")),
	}
}

// UseFaker reports whether the fake API should stand in for the live one:
// local environments, missing credentials, or an explicit switch.
func UseFaker(env, clientID, clientSecret string, force bool) bool {
	return strings.EqualFold(strings.TrimSpace(env), "local") ||
		clientID == "" || clientSecret == "" || force
}

// APIError is a non-2xx answer from SmartRequest.
type APIError struct {
	Op         string
	StatusCode int
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("smartrequest %s: status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("smartrequest %s: status %d: %s", e.Op, e.StatusCode, e.Message)
}

func (c *Client) Facilities(ctx context.Context, filters map[string]string) ([]FacilityInfo, error) {
	var out struct {
		Facilities []FacilityInfo `json:"facilities"`
	}
	err := c.do(ctx, "facilities", c.config.Timeout, func(r *resty.Request) (*resty.Response, error) {
		return r.SetQueryParams(filters).SetResult(&out).Get("/facilities")
	})
	return out.Facilities, err
}

func (c *Client) RequestReasons(ctx context.Context, companyID int64) ([]RequestReason, error) {
	var out struct {
		Reasons []RequestReason `json:"reasons"`
	}
	err := c.do(ctx, "request-reasons", c.config.Timeout, func(r *resty.Request) (*resty.Response, error) {
		return r.SetQueryParam("companyId", strconv.FormatInt(companyID, 10)).SetResult(&out).Get("/request-reasons")
	})
	return out.Reasons, err
}

func (c *Client) RecordTypes(ctx context.Context) ([]RecordType, error) {
	var out struct {
		RecordTypes []RecordType `json:"recordTypes"`
	}
	err := c.do(ctx, "record-types", c.config.Timeout, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&out).Get("/record-types")
	})
	return out.RecordTypes, err
}

func (c *Client) CreateRequest(ctx context.Context, p Payload) (*CreateResult, error) {
	body := map[string]any{}
	err := c.do(ctx, "create request", createTimeout, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(p).SetResult(&body).Post("/request")
	})
	if err != nil {
		return nil, err
	}
	id := requestIDOf(body)
	if id == "" {
		return nil, fmt.Errorf("smartrequest create request: response has no requestId")
	}
	return &CreateResult{RequestID: id, Response: body}, nil
}

func (c *Client) Status(ctx context.Context, requestID string) (*Status, error) {
	out := &Status{}
	err := c.do(ctx, "status", c.config.Timeout, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(out).Get("/request/" + url.PathEscape(requestID) + "/status")
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DownloadURL(ctx context.Context, requestID, docType string) (string, error) {
	if !ValidDocumentType(docType) {
		return "", fmt.Errorf("smartrequest download-url: unknown document type %q", docType)
	}
	var out struct {
		URL string `json:"url"`
	}
	err := c.do(ctx, "download-url", c.config.Timeout, func(r *resty.Request) (*resty.Response, error) {
		return r.SetResult(&out).Get("/request/" + url.PathEscape(requestID) + "/download-url/" + docType)
	})
	return out.URL, err
}

func (c *Client) Cancel(ctx context.Context, requestID, reason string) error {
	return c.do(ctx, "cancel", c.config.Timeout, func(r *resty.Request) (*resty.Response, error) {
		return r.SetBody(map[string]string{"reason": reason}).Put("/request/" + url.PathEscape(requestID) + "/cancel")
	})
}

// do runs one authenticated call with its own timeout and maps non-2xx
// answers to *APIError.
func (c *Client) do(ctx context.Context, op string, timeout time.Duration, call func(*resty.Request) (*resty.Response, error)) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := c.getRequestWithFreshToken(ctx)
	if err != nil {
		return err
	}
	apiErr := &APIError{Op: op}
	resp, err := call(req.SetError(apiErr))
	if err != nil {
		return fmt.Errorf("smartrequest %s: %w", op, err)
	}
	if resp.IsError() {
		apiErr.StatusCode = resp.StatusCode()
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(resp.String())
		}
		return apiErr
	}
	return nil
}

func (c *Client) getRequest(ctx context.Context) *resty.Request {
	return c.restyClient.R().SetContext(ctx).SetHeader("Accept", "application/json")
}

func (c *Client) getRequestWithFreshToken(ctx context.Context) (*resty.Request, error) {
	if c.shouldRefreshToken() {
		if err := c.Authenticate(ctx); err != nil {
			return nil, err
		}
	}
	c.mu.Lock()
	token := c.token.AccessToken
	c.mu.Unlock()
	return c.getRequest(ctx).SetAuthToken(token), nil
}

func (c *Client) shouldRefreshToken() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token == nil || c.token.IsExpired(expirationDelta)
}

// Authenticate exchanges the client credentials for a bearer token.
func (c *Client) Authenticate(ctx context.Context) error {
	if c.config.ClientID == "" || c.config.ClientSecret == "" {
		return fmt.Errorf("smartrequest auth: client id and secret are required")
	}
	token := &Token{}
	authErr := &APIError{Op: "auth"}
	resp, err := c.getRequest(ctx).
		SetBasicAuth(c.config.ClientID, c.config.ClientSecret).
		SetResult(token).
		SetError(authErr).
		Post("/auth/token")
	if err != nil {
		return fmt.Errorf("error obtaining token: %w", err)
	}
	if resp.IsError() {
		authErr.StatusCode = resp.StatusCode()
		return fmt.Errorf("error obtaining token: %w", authErr)
	}
	if token.AccessToken == "" {
		return fmt.Errorf("error obtaining token: empty access token")
	}
	if token.ExpiresIn <= 0 {
		token.ExpiresIn = defaultExpiresIn
	}
	token.SetExpirationTime()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	return nil
}

type Token struct {
	AccessToken    string `json:"accessToken"`
	ExpiresIn      int    `json:"expiresIn"`
	ExpirationTime time.Time
}

func (t *Token) SetExpirationTime() {
	t.ExpirationTime = time.Now().Add(time.Duration(t.ExpiresIn) * time.Second)
}

func (t *Token) IsExpired(delta time.Duration) bool {
	return time.Now().After(t.ExpirationTime.Add(-delta))
}

// EncodeAuthorizationForm base64-encodes the file at path.
func EncodeAuthorizationForm(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("encode authorization form: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
