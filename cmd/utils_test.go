package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"santa-backend/internal/config"
	"santa-backend/internal/generator"
	"santa-backend/internal/session"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSessionStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Database", func(t *testing.T) {
		cfg := &config.Config{
			SessionStore:   config.StoreDatabase,
			DatabaseDriver: "sqlite",
			DatabaseURL:    filepath.Join(t.TempDir(), "nested", "santa.db"),
		}
		store, closer, err := CreateSessionStore(ctx, cfg)
		require.NoError(t, err)
		defer closer() //nolint:errcheck

		assert.IsType(t, &session.GormStore{}, store)
		require.NoError(t, store.Save(ctx, uuid.New(), []byte(`{}`)))
	})

	t.Run("Memory", func(t *testing.T) {
		store, closer, err := CreateSessionStore(ctx, &config.Config{SessionStore: config.StoreMemory})
		require.NoError(t, err)
		assert.NoError(t, closer())
		assert.IsType(t, &session.MemoryStore{}, store)
	})

	t.Run("Unknown", func(t *testing.T) {
		_, _, err := CreateSessionStore(ctx, &config.Config{SessionStore: "files"})
		assert.Error(t, err)
	})
}

func TestCreateGenerator(t *testing.T) {
	gen, err := CreateGenerator(&config.Config{LLMProvider: generator.ProviderStatic})
	require.NoError(t, err)
	assert.IsType(t, generator.Static{}, gen)

	gen, err = CreateGenerator(&config.Config{LLMProvider: generator.ProviderOpenAI, OpenAIKey: "sk-test", OpenAIModel: "gpt-4o-mini"})
	require.NoError(t, err)
	assert.IsType(t, &generator.OpenAI{}, gen)

	gen, err = CreateGenerator(&config.Config{LLMProvider: generator.ProviderLangChain, OpenAIKey: "sk-test", OpenAIModel: "gpt-4o-mini"})
	require.NoError(t, err)
	assert.IsType(t, &generator.LangChain{}, gen)

	_, err = CreateGenerator(&config.Config{LLMProvider: "ollama"})
	assert.Error(t, err)
}

func TestStartPurgerStopsWithContext(t *testing.T) {
	store := session.NewMemoryStore()
	sessions := session.NewManager(store)
	ctx, cancel := context.WithCancel(context.Background())

	id := uuid.New()
	require.NoError(t, store.Save(ctx, id, []byte(`{}`)))

	StartPurger(ctx, sessions, time.Nanosecond, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		_, err := store.Load(context.Background(), id)
		return err == session.ErrNotFound
	}, time.Second, 10*time.Millisecond)
	cancel()
}

func TestCORSMiddleware(t *testing.T) {
	assert.Nil(t, CORSMiddleware(nil))

	handler := CORSMiddleware([]string{"https://gifts.example"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	request := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/questions", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	allowed := request("https://gifts.example")
	assert.Equal(t, "https://gifts.example", allowed.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", allowed.Header().Get("Access-Control-Allow-Credentials"))

	other := request("https://evil.example")
	assert.Empty(t, other.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, other.Header().Get("Access-Control-Allow-Credentials"))
}
