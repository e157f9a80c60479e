package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/odit-bit/chatreply/config"
	"github.com/odit-bit/chatreply/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counter records the request paths seen by a fake upstream.
type counter struct {
	mu    sync.Mutex
	paths []string
}

func (c *counter) add(p string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, p)
}

func (c *counter) count(suffix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, p := range c.paths {
		if strings.HasSuffix(p, suffix) {
			n++
		}
	}
	return n
}

func (c *counter) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.paths)
}

type upstreams struct {
	telegram *counter
	primary  *counter
	fallback *counter
	cfg      config.Config
}

func newUpstreams(t *testing.T, primaryStatus int) *upstreams {
	u := &upstreams{telegram: &counter{}, primary: &counter{}, fallback: &counter{}}

	tg := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.telegram.add(r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":7,"is_bot":true,"first_name":"Sustain","username":"sustain_bot"}}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":2,"date":0,"chat":{"id":42,"type":"group"},"text":"ответ"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"ok":false,"error_code":404,"description":"Not Found"}`))
		}
	}))
	t.Cleanup(tg.Close)

	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.primary.add(r.URL.Path)
		w.WriteHeader(primaryStatus)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ответ"}}]}`))
	}))
	t.Cleanup(primary.Close)

	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.fallback.add(r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("HTTP-Referer"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"запасной ответ"}}]}`))
	}))
	t.Cleanup(fallback.Close)

	u.cfg = config.Config{
		Server: config.ServerConfig{Address: "127.0.0.1:0", Path: "/hook"},
		Bot: config.BotConfig{
			Token:   "123:abc",
			ChatID:  "42",
			APIURL:  tg.URL,
			Timeout: 5 * time.Second,
		},
		Primary:  config.ProviderConfig{Name: "zenmux", APIKey: "pk", Model: "m1", BaseURL: primary.URL + "/api/v1"},
		Fallback: config.ProviderConfig{Name: "openrouter", APIKey: "fk", Model: "m2", BaseURL: fallback.URL + "/api/v1", Referer: "https://example.org"},
		Generate: config.GenerateConfig{Temperature: 0.7, MaxTokens: 500, Timeout: 5 * time.Second},
		Persona:  "putin",
	}
	return u
}

func (u *upstreams) serve(t *testing.T, method, body string) *httptest.ResponseRecorder {
	t.Helper()
	e, err := build(u.cfg, &observability.Telemetry{})
	require.NoError(t, err)

	req := httptest.NewRequest(method, "/hook", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestEndToEnd(t *testing.T) {
	t.Run("question in target chat", func(t *testing.T) {
		u := newUpstreams(t, http.StatusOK)
		rec := u.serve(t, http.MethodPost, `{"message":{"chat":{"id":42},"text":"?"}}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, u.telegram.count("/getMe"))
		assert.Equal(t, 1, u.primary.count("/api/v1/chat/completions"))
		assert.Equal(t, 0, u.fallback.total())
		assert.Equal(t, 1, u.telegram.count("/sendMessage"))
	})

	t.Run("primary failure uses fallback", func(t *testing.T) {
		u := newUpstreams(t, http.StatusBadGateway)
		rec := u.serve(t, http.MethodPost, `{"message":{"chat":{"id":42},"text":"?"}}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 1, u.primary.total())
		assert.Equal(t, 1, u.fallback.count("/api/v1/chat/completions"))
		assert.Equal(t, 1, u.telegram.count("/sendMessage"))
	})

	t.Run("other chat makes no outbound calls", func(t *testing.T) {
		u := newUpstreams(t, http.StatusOK)
		rec := u.serve(t, http.MethodPost, `{"message":{"chat":{"id":99},"text":"?"}}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Zero(t, u.telegram.total()+u.primary.total()+u.fallback.total())
	})

	t.Run("get makes no outbound calls", func(t *testing.T) {
		u := newUpstreams(t, http.StatusOK)
		rec := u.serve(t, http.MethodGet, "")

		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Zero(t, u.telegram.total()+u.primary.total()+u.fallback.total())
	})

	t.Run("unparseable body makes no outbound calls", func(t *testing.T) {
		u := newUpstreams(t, http.StatusOK)
		rec := u.serve(t, http.MethodPost, `not json`)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Zero(t, u.telegram.total()+u.primary.total()+u.fallback.total())
	})
}

func TestBuild_metricsRoute(t *testing.T) {
	u := newUpstreams(t, http.StatusOK)
	tel := &observability.Telemetry{MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("metrics"))
	})}

	e, err := build(u.cfg, tel)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "metrics", rec.Body.String())
}
