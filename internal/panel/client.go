// Package panel wraps the remote hosting control panel's command API. The
// surface is intentionally closed: only the operations the orchestrator
// needs are exposed, never a raw command escape hatch.
package panel

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hostdesk/hosting-service/internal/config"
	"github.com/hostdesk/hosting-service/internal/observability"
)

// Panel command endpoints.
const (
	cmdAccountUser    = "CMD_API_ACCOUNT_USER"
	cmdSelectUsers    = "CMD_API_SELECT_USERS"
	cmdDatabases      = "CMD_API_DATABASES"
	cmdUserBackup     = "CMD_API_USER_BACKUP"
	cmdDomain         = "CMD_API_DOMAIN"
	cmdPackages       = "CMD_API_PACKAGES"
	cmdShowUserUsage  = "CMD_API_SHOW_USER_USAGE"
	cmdShowUserConfig = "CMD_API_SHOW_USER_CONFIG"
)

// CreateUserParams carries everything the panel needs to provision an account.
type CreateUserParams struct {
	Username string
	Password string
	Email    string
	Package  string
	Domain   string
}

// PackageParams describes a reseller package to create on the panel.
type PackageParams struct {
	Name        string
	QuotaMB     int64
	BandwidthMB int64
	DomainLimit int
}

// Client is the closed control panel interface consumed by the orchestrator.
type Client interface {
	CreateUser(ctx context.Context, params CreateUserParams) (string, error)
	SuspendUser(ctx context.Context, username string) error
	UnsuspendUser(ctx context.Context, username string) error
	DeleteUser(ctx context.Context, username string) error
	CreateDatabase(ctx context.Context, dbName, dbUser, dbPass string) error
	CreateBackup(ctx context.Context, username string) error
	AddDomain(ctx context.Context, username, domain string) error
	CreatePackage(ctx context.Context, params PackageParams) error
	GetUserUsage(ctx context.Context, username string) (string, error)
	GetUserInfo(ctx context.Context, username string) (string, error)
}

// APIError carries the panel command, HTTP status and remote message of a
// failed call.
type APIError struct {
	Command    string
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("panel %s: status %d: %s", e.Command, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("panel %s: %v", e.Command, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

type httpClient struct {
	baseURL  string
	username string
	password string
	http     *http.Client
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewClient builds the panel client. TLS verification stays on unless the
// config explicitly opts out for test rigs, in which case a warning is logged.
func NewClient(cfg config.PanelConfig, logger *zap.Logger, metrics *observability.Metrics) Client {
	transport := http.DefaultTransport
	if cfg.InsecureSkipVerify {
		logger.Warn("panel TLS verification disabled; never use this outside test environments")
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return &httpClient{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		username: cfg.Username,
		password: cfg.Password,
		http: &http.Client{
			Timeout:   cfg.Timeout(),
			Transport: transport,
		},
		logger:  logger,
		metrics: metrics,
	}
}

func (c *httpClient) CreateUser(ctx context.Context, params CreateUserParams) (string, error) {
	form := url.Values{
		"action":   {"create"},
		"add":      {"Submit"},
		"username": {params.Username},
		"passwd":   {params.Password},
		"passwd2":  {params.Password},
		"email":    {params.Email},
		"domain":   {params.Domain},
		"package":  {params.Package},
		"ip":       {"shared"},
		"notify":   {"yes"},
	}
	return c.post(ctx, cmdAccountUser, form)
}

func (c *httpClient) SuspendUser(ctx context.Context, username string) error {
	_, err := c.post(ctx, cmdSelectUsers, url.Values{
		"action":  {"suspend"},
		"select0": {username},
	})
	return err
}

func (c *httpClient) UnsuspendUser(ctx context.Context, username string) error {
	_, err := c.post(ctx, cmdSelectUsers, url.Values{
		"action":  {"unsuspend"},
		"select0": {username},
	})
	return err
}

func (c *httpClient) DeleteUser(ctx context.Context, username string) error {
	_, err := c.post(ctx, cmdSelectUsers, url.Values{
		"confirmed": {"Confirm"},
		"delete":    {"yes"},
		"select0":   {username},
	})
	return err
}

func (c *httpClient) CreateDatabase(ctx context.Context, dbName, dbUser, dbPass string) error {
	_, err := c.post(ctx, cmdDatabases, url.Values{
		"action":  {"create"},
		"name":    {dbName},
		"user":    {dbUser},
		"passwd":  {dbPass},
		"passwd2": {dbPass},
	})
	return err
}

func (c *httpClient) CreateBackup(ctx context.Context, username string) error {
	_, err := c.post(ctx, cmdUserBackup, url.Values{
		"action": {"backup"},
		"user":   {username},
		"type":   {"full"},
	})
	return err
}

func (c *httpClient) AddDomain(ctx context.Context, username, domain string) error {
	_, err := c.post(ctx, cmdDomain, url.Values{
		"action":   {"create"},
		"domain":   {domain},
		"username": {username},
		"php":      {"ON"},
		"cgi":      {"ON"},
	})
	return err
}

func (c *httpClient) CreatePackage(ctx context.Context, params PackageParams) error {
	_, err := c.post(ctx, cmdPackages, url.Values{
		"action":      {"create"},
		"add":         {"Submit"},
		"name":        {params.Name},
		"quota":       {strconv.FormatInt(params.QuotaMB, 10)},
		"bandwidth":   {strconv.FormatInt(params.BandwidthMB, 10)},
		"domainlimit": {strconv.Itoa(params.DomainLimit)},
		"ips":         {"0"},
		"cgi":         {"ON"},
		"php":         {"ON"},
		"spam":        {"ON"},
		"ssl":         {"ON"},
		"ssh":         {"OFF"},
	})
	return err
}

func (c *httpClient) GetUserUsage(ctx context.Context, username string) (string, error) {
	return c.get(ctx, cmdShowUserUsage, url.Values{"user": {username}})
}

func (c *httpClient) GetUserInfo(ctx context.Context, username string) (string, error) {
	return c.get(ctx, cmdShowUserConfig, url.Values{"user": {username}})
}

func (c *httpClient) post(ctx context.Context, command string, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/"+command, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &APIError{Command: command, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, command)
}

func (c *httpClient) get(ctx context.Context, command string, query url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/"+command+"?"+query.Encode(), nil)
	if err != nil {
		return "", &APIError{Command: command, Err: err}
	}
	return c.do(req, command)
}

func (c *httpClient) do(req *http.Request, command string) (string, error) {
	req.SetBasicAuth(c.username, c.password)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.RecordPanelCall(command, false, time.Since(start))
		return "", &APIError{Command: command, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordPanelCall(command, false, time.Since(start))
		return "", &APIError{Command: command, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.metrics.RecordPanelCall(command, false, time.Since(start))
		return "", &APIError{
			Command:    command,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	// The panel reports command failures as error=1 inside a 200 body.
	if message, failed := commandError(string(body)); failed {
		c.metrics.RecordPanelCall(command, false, time.Since(start))
		return "", &APIError{
			Command:    command,
			StatusCode: resp.StatusCode,
			Message:    message,
		}
	}

	c.metrics.RecordPanelCall(command, true, time.Since(start))
	c.logger.Debug("panel call completed",
		zap.String("command", command),
		zap.Int("status", resp.StatusCode))
	return string(body), nil
}

func commandError(body string) (string, bool) {
	values, err := url.ParseQuery(body)
	if err != nil || values.Get("error") != "1" {
		return "", false
	}
	message := values.Get("text")
	if details := values.Get("details"); details != "" {
		message = message + ": " + details
	}
	if message == "" {
		message = "panel reported an error"
	}
	return message, true
}
