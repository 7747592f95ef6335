package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/sujalbistaa/ideas/internal/db"
	"github.com/sujalbistaa/ideas/internal/entity"
	"github.com/sujalbistaa/ideas/internal/logger"
	"github.com/sujalbistaa/ideas/internal/repo"
	"github.com/sujalbistaa/ideas/internal/service"
	"github.com/sujalbistaa/ideas/internal/testutil"
	"github.com/sujalbistaa/ideas/internal/ws"
)

type stack struct {
	router *gin.Engine
	pool   *db.Pool
	hub    *ws.Hub
}

func newStack(t *testing.T, maxOpen int, opts Options) stack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database := testutil.NewDBWithPool(t, maxOpen)
	pool := db.NewPool(database, 100*time.Millisecond)
	clock := testutil.Clock(time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC), time.Second)
	log := logger.Discard()

	likes := service.NewLikeService(repo.NewLikeRepository(database), log, service.WithClock(clock))
	ideas := service.NewIdeaService(repo.NewIdeaRepository(database), likes, log, service.WithClock(clock))

	hub := ws.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	router := gin.New()
	SetupRoutes(router, &Env{Ideas: ideas, Likes: likes, Pool: pool, Hub: hub, Logger: log}, opts)
	return stack{router: router, pool: pool, hub: hub}
}

// do bounds each request so a leaked connection fails the test instead of hanging it.
func (s stack) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req.WithContext(ctx))
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

// A pool of one connection is enough for every route, since each request does
// all of its queries on the connection it pinned.
func TestIdeaLifecycle(t *testing.T) {
	s := newStack(t, 1, Options{})

	w := s.do(t, http.MethodPost, "/ideas", `{"message":"plant more trees","image":"tree.png"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	idea := decode[entity.Idea](t, w)
	assert.Equal(t, "plant more trees", idea.Message)
	assert.Equal(t, "tree.png", idea.Image)
	assert.Empty(t, idea.Likes)

	w = s.do(t, http.MethodGet, "/ideas/"+idea.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[entity.Idea](t, w)
	assert.Equal(t, idea.ID, got.ID)
	assert.True(t, idea.CreatedAt.Equal(got.CreatedAt))

	var likeIDs []string
	for i := 0; i < 2; i++ {
		w = s.do(t, http.MethodPost, "/ideas/"+idea.ID+"/likes", "")
		require.Equal(t, http.StatusOK, w.Code)
		likeIDs = append(likeIDs, decode[entity.Like](t, w).ID)
	}

	w = s.do(t, http.MethodGet, "/ideas/"+idea.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	got = decode[entity.Idea](t, w)
	require.Len(t, got.Likes, 2)
	assert.Equal(t, likeIDs[1], got.Likes[0].ID)
	assert.Equal(t, likeIDs[0], got.Likes[1].ID)

	w = s.do(t, http.MethodGet, "/ideas", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[entity.Results[entity.Idea]](t, w)
	require.Len(t, list.Results, 1)
	assert.Len(t, list.Results[0].Likes, 2)

	// Unliking drops the newest like.
	w = s.do(t, http.MethodDelete, "/ideas/"+idea.ID+"/likes", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, "/ideas/"+idea.ID+"/likes", "")
	require.Equal(t, http.StatusOK, w.Code)
	likes := decode[entity.Results[entity.Like]](t, w)
	require.Len(t, likes.Results, 1)
	assert.Equal(t, likeIDs[0], likes.Results[0].ID)

	w = s.do(t, http.MethodDelete, "/ideas/"+idea.ID, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodGet, "/ideas/"+idea.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = s.do(t, http.MethodDelete, "/ideas/"+idea.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestListIdeas_NewestFirst(t *testing.T) {
	s := newStack(t, 2, Options{})

	for _, msg := range []string{"first", "second", "third"} {
		w := s.do(t, http.MethodPost, "/ideas", `{"message":"`+msg+`"}`)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := s.do(t, http.MethodGet, "/ideas", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[entity.Results[entity.Idea]](t, w)
	require.Len(t, list.Results, 3)
	assert.Equal(t, "third", list.Results[0].Message)
	assert.Equal(t, "second", list.Results[1].Message)
	assert.Equal(t, "first", list.Results[2].Message)
	for _, idea := range list.Results {
		assert.NotNil(t, idea.Likes)
	}
}

func TestMalformedIDs(t *testing.T) {
	s := newStack(t, 2, Options{})

	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodGet, "/ideas/not-a-uuid", "").Code)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/ideas/not-a-uuid", "").Code)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodPost, "/ideas/not-a-uuid/likes", "").Code)
	assert.Equal(t, http.StatusNoContent, s.do(t, http.MethodDelete, "/ideas/not-a-uuid/likes", "").Code)

	w := s.do(t, http.MethodGet, "/ideas/not-a-uuid/likes", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"results":[]}`, w.Body.String())
}

func TestPoolExhausted(t *testing.T) {
	s := newStack(t, 1, Options{})

	_, release, err := s.pool.Acquire(context.Background())
	require.NoError(t, err)
	defer release()

	w := s.do(t, http.MethodGet, "/ideas", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"database connection unavailable"}`, w.Body.String())
}

func TestCreateRateLimit(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 1)
	s := newStack(t, 2, Options{CreateLimiter: limiter})

	assert.Equal(t, http.StatusCreated, s.do(t, http.MethodPost, "/ideas", `{"message":"one"}`).Code)
	assert.Equal(t, http.StatusTooManyRequests, s.do(t, http.MethodPost, "/ideas", `{"message":"two"}`).Code)

	// Other routes are not throttled.
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/ideas", "").Code)
}

func TestIPRateLimiter_Prune(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 1)
	limiter.GetLimiter("192.0.2.1")
	limiter.GetLimiter("192.0.2.2")
	assert.Same(t, limiter.GetLimiter("192.0.2.1"), limiter.GetLimiter("192.0.2.1"))

	assert.Equal(t, 0, limiter.Prune(time.Hour))
	assert.Equal(t, 2, limiter.Len())

	assert.Equal(t, 2, limiter.Prune(-time.Second))
	assert.Equal(t, 0, limiter.Len())
}

func TestHealth(t *testing.T) {
	s := newStack(t, 1, Options{})

	w := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	require.NoError(t, s.pool.Close())
	w = s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORS(t *testing.T) {
	s := newStack(t, 1, Options{CORSOrigin: "https://ideas.example"})

	req := httptest.NewRequest(http.MethodOptions, "/ideas", nil)
	req.Header.Set("Origin", "https://ideas.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, "https://ideas.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestEventsStream(t *testing.T) {
	s := newStack(t, 2, Options{})
	server := httptest.NewServer(s.router)
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return s.hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	resp, err := http.Post(server.URL+"/ideas", "application/json", strings.NewReader(`{"message":"live"}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg struct {
		Type string      `json:"type"`
		Data entity.Idea `json:"data"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, ws.EventIdeaCreated, msg.Type)
	assert.Equal(t, "live", msg.Data.Message)
}
