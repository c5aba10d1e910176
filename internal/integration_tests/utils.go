package integrationtests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"santa-backend/internal/api"
	"santa-backend/internal/generator"
	"santa-backend/internal/session"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupPostgresContainer(t *testing.T, ctx context.Context) string {
	dbName, dbUser, dbPassword := "test_db", "test_user", "test_password"

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")

	t.Cleanup(func() {
		err := postgresContainer.Terminate(context.Background())
		require.NoError(t, err, "Failed to terminate PostgreSQL container")
	})

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "Failed to get PostgreSQL connection string")

	return connStr
}

func createRouter(t *testing.T, sessions *session.Manager) http.Handler {
	renderer, err := api.NewRenderer()
	require.NoError(t, err)

	r := chi.NewRouter()
	api.NewFlowService(sessions, generator.Static{}, renderer, api.FlowOptions{}).AddRoutes(r)
	return r
}

// client keeps the session cookie between requests.
type client struct {
	t      *testing.T
	router http.Handler
	cookie *http.Cookie
}

func (c *client) send(req *http.Request, expectedCode int) *httptest.ResponseRecorder {
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	require.Equal(c.t, expectedCode, rec.Code, rec.Body.String())

	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == session.CookieName {
			c.cookie = cookie
		}
	}
	return rec
}

func (c *client) get(path string, expectedCode int) *httptest.ResponseRecorder {
	return c.send(httptest.NewRequest(http.MethodGet, path, nil), expectedCode)
}

func (c *client) post(path string, expectedCode int) *httptest.ResponseRecorder {
	return c.send(httptest.NewRequest(http.MethodPost, path, nil), expectedCode)
}

func (c *client) autosave(fields map[string]string, expectedCode int) {
	body, err := json.Marshal(fields)
	require.NoError(c.t, err)
	req := httptest.NewRequest(http.MethodPost, "/autosave", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	c.send(req, expectedCode)
}

func (c *client) submit(values url.Values, expectedCode int) {
	req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.send(req, expectedCode)
}
