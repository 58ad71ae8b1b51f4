package panel

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hostdesk/hosting-service/internal/config"
	"github.com/hostdesk/hosting-service/internal/observability"
)

type recordedRequest struct {
	method string
	path   string
	form   url.Values
	query  url.Values
	user   string
	pass   string
}

func newTestClient(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (Client, *recordedRequest) {
	t.Helper()
	recorded := &recordedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorded.method = r.Method
		recorded.path = r.URL.Path
		recorded.query = r.URL.Query()
		require.NoError(t, r.ParseForm())
		recorded.form = r.PostForm
		recorded.user, recorded.pass, _ = r.BasicAuth()
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client := NewClient(config.PanelConfig{
		BaseURL:        server.URL,
		Username:       "admin",
		Password:       "hunter2",
		TimeoutSeconds: 5,
	}, zap.NewNop(), observability.NewMetrics())
	return client, recorded
}

func TestCreateUserSendsExpectedForm(t *testing.T) {
	client, recorded := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("error=0&text=User created"))
	})

	_, err := client.CreateUser(context.Background(), CreateUserParams{
		Username: "examplec",
		Password: "Secret123abc",
		Email:    "owner@example.com",
		Package:  "basic",
		Domain:   "example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, recorded.method)
	assert.Equal(t, "/CMD_API_ACCOUNT_USER", recorded.path)
	assert.Equal(t, "admin", recorded.user)
	assert.Equal(t, "hunter2", recorded.pass)
	assert.Equal(t, "create", recorded.form.Get("action"))
	assert.Equal(t, "examplec", recorded.form.Get("username"))
	assert.Equal(t, "Secret123abc", recorded.form.Get("passwd"))
	assert.Equal(t, recorded.form.Get("passwd"), recorded.form.Get("passwd2"))
	assert.Equal(t, "shared", recorded.form.Get("ip"))
	assert.Equal(t, "basic", recorded.form.Get("package"))
}

func TestSuspendAndDeleteUseSelectField(t *testing.T) {
	client, recorded := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("error=0"))
	})
	ctx := context.Background()

	require.NoError(t, client.SuspendUser(ctx, "examplec"))
	assert.Equal(t, "/CMD_API_SELECT_USERS", recorded.path)
	assert.Equal(t, "suspend", recorded.form.Get("action"))
	assert.Equal(t, "examplec", recorded.form.Get("select0"))

	require.NoError(t, client.DeleteUser(ctx, "examplec"))
	assert.Equal(t, "Confirm", recorded.form.Get("confirmed"))
	assert.Equal(t, "yes", recorded.form.Get("delete"))
	assert.Equal(t, "examplec", recorded.form.Get("select0"))
}

func TestGetUserUsageReturnsRawBody(t *testing.T) {
	client, recorded := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("bandwidth=120&quota=512&vdomains=1"))
	})

	body, err := client.GetUserUsage(context.Background(), "examplec")
	require.NoError(t, err)
	assert.Equal(t, "bandwidth=120&quota=512&vdomains=1", body)
	assert.Equal(t, http.MethodGet, recorded.method)
	assert.Equal(t, "/CMD_API_SHOW_USER_USAGE", recorded.path)
	assert.Equal(t, "examplec", recorded.query.Get("user"))
}

func TestNon2xxBecomesAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("bad credentials"))
	})

	err := client.SuspendUser(context.Background(), "examplec")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "CMD_API_SELECT_USERS", apiErr.Command)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "bad credentials", apiErr.Message)
}

func TestErrorFlagInBodyBecomesAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("error=1&text=Cannot create user&details=username already exists"))
	})

	_, err := client.CreateUser(context.Background(), CreateUserParams{
		Username: "examplec",
		Password: "Secret123abc",
		Email:    "owner@example.com",
		Package:  "basic",
		Domain:   "example.com",
	})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "CMD_API_ACCOUNT_USER", apiErr.Command)
	assert.Contains(t, apiErr.Message, "Cannot create user")
	assert.Contains(t, apiErr.Message, "username already exists")
}

func TestCreatePackageSendsLimits(t *testing.T) {
	client, recorded := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("error=0"))
	})

	err := client.CreatePackage(context.Background(), PackageParams{
		Name:        "basic",
		QuotaMB:     1024,
		BandwidthMB: 10240,
		DomainLimit: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, "/CMD_API_PACKAGES", recorded.path)
	assert.Equal(t, "1024", recorded.form.Get("quota"))
	assert.Equal(t, "10240", recorded.form.Get("bandwidth"))
	assert.Equal(t, "2", recorded.form.Get("domainlimit"))
}
