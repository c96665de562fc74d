package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/codercomm/config"
	"github.com/cppla/codercomm/models"
	"github.com/cppla/codercomm/utils"
)

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
	Message string            `json:"message"`
}

type client struct {
	t *testing.T
	r *gin.Engine
}

func newClient(t *testing.T) *client {
	t.Helper()
	cfg := config.AppConfig{
		AppPort:            "0",
		JWTSecret:          "router-test-secret-0123456789abcdef",
		TokenTTLHours:      1,
		DBDriver:           "sqlite",
		DatabaseURI:        ":memory:",
		GinMode:            "test",
		LogLevel:           "silent",
		RateLimitPerMinute: 100000,
		AllowedOrigins:     []string{"*"},
	}
	config.Set(cfg)
	utils.SetRedis(nil)

	db, err := config.OpenDatabase(cfg)
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db, models.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return &client{t: t, r: SetupRouter(db)}
}

func (c *client) do(method, path, token string, body interface{}) (int, envelope) {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "" && bytes.HasPrefix(bytes.TrimSpace(w.Body.Bytes()), []byte("{")) {
		require.NoError(c.t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w.Code, env
}

func (c *client) data(env envelope, out interface{}) {
	c.t.Helper()
	require.NoError(c.t, json.Unmarshal(env.Data, out))
}

type session struct {
	ID    string
	Token string
}

func (c *client) register(name, email string) session {
	c.t.Helper()
	code, env := c.do(http.MethodPost, "/api/users", "", gin.H{"name": name, "email": email, "password": "secret1"})
	require.Equal(c.t, http.StatusOK, code, env.Errors)
	var out struct {
		User        models.User `json:"user"`
		AccessToken string      `json:"accessToken"`
	}
	c.data(env, &out)
	require.NotEmpty(c.t, out.AccessToken)
	return session{ID: out.User.ID, Token: out.AccessToken}
}

func (c *client) befriend(a, b session) {
	c.t.Helper()
	code, env := c.do(http.MethodPost, "/api/friends/requests", a.Token, gin.H{"to": b.ID})
	require.Equal(c.t, http.StatusOK, code, env.Errors)
	code, env = c.do(http.MethodPut, "/api/friends/requests/"+a.ID, b.Token, gin.H{"status": "accepted"})
	require.Equal(c.t, http.StatusOK, code, env.Errors)
}

func (c *client) createPost(s session, content string) models.Post {
	c.t.Helper()
	code, env := c.do(http.MethodPost, "/api/posts", s.Token, gin.H{"content": content})
	require.Equal(c.t, http.StatusOK, code, env.Errors)
	var p models.Post
	c.data(env, &p)
	return p
}

func TestHealthStatsAndMetrics(t *testing.T) {
	c := newClient(t)

	code, env := c.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	c.register("Ann", "ann@example.com")
	code, env = c.do(http.MethodGet, "/api/stats", "", nil)
	require.Equal(t, http.StatusOK, code)
	var stats struct {
		Users int64 `json:"users"`
	}
	c.data(env, &stats)
	assert.Equal(t, int64(1), stats.Users)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "codercomm_http_requests_total")

	code, env = c.do(http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Not Found", env.Message)
}

func TestRegisterLoginAndLogout(t *testing.T) {
	c := newClient(t)
	ann := c.register("Ann", "ann@example.com")

	code, env := c.do(http.MethodPost, "/api/users", "", gin.H{"name": "Ann", "email": "ANN@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, env.Success)

	code, env = c.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "ann@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Login Error", env.Message)

	code, env = c.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "ann@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, code)
	var login struct {
		AccessToken string `json:"accessToken"`
	}
	c.data(env, &login)

	code, env = c.do(http.MethodGet, "/api/users/me", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, code)
	var me models.User
	c.data(env, &me)
	assert.Equal(t, ann.ID, me.ID)

	code, _ = c.do(http.MethodPost, "/api/auth/logout", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, code)
	code, env = c.do(http.MethodGet, "/api/users/me", login.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Login Required", env.Message)

	code, _ = c.do(http.MethodGet, "/api/users/me", ann.Token, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	c := newClient(t)
	code, env := c.do(http.MethodGet, "/api/friends", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)
	assert.Equal(t, "authorization header missing", env.Errors["message"])
}

func TestMalformedIDIsRejected(t *testing.T) {
	c := newClient(t)
	ann := c.register("Ann", "ann@example.com")

	code, env := c.do(http.MethodGet, "/api/posts/not-an-id", ann.Token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "id must be a valid id", env.Errors["message"])

	code, _ = c.do(http.MethodPost, "/api/reactions", ann.Token, gin.H{"targetType": "Post", "targetId": "x", "emoji": "like"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestFriendLifecycle(t *testing.T) {
	c := newClient(t)
	ann := c.register("Ann", "ann@example.com")
	bob := c.register("Bob", "bob@example.com")

	code, _ := c.do(http.MethodPost, "/api/friends/requests", ann.Token, gin.H{"to": ann.ID})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = c.do(http.MethodPost, "/api/friends/requests", ann.Token, gin.H{"to": bob.ID})
	require.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodPost, "/api/friends/requests", bob.Token, gin.H{"to": ann.ID})
	assert.Equal(t, http.StatusConflict, code)

	code, env := c.do(http.MethodGet, "/api/friends/requests/incoming", bob.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var incoming struct {
		Items []models.Friend `json:"items"`
		Count int64           `json:"count"`
	}
	c.data(env, &incoming)
	assert.Equal(t, int64(1), incoming.Count)

	// only the recipient may answer
	code, _ = c.do(http.MethodPut, "/api/friends/requests/"+bob.ID, ann.Token, gin.H{"status": "accepted"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = c.do(http.MethodPut, "/api/friends/requests/"+ann.ID, bob.Token, gin.H{"status": "accepted"})
	require.Equal(t, http.StatusOK, code)

	code, env = c.do(http.MethodGet, "/api/users/me", ann.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var me models.User
	c.data(env, &me)
	assert.Equal(t, int64(1), me.FriendCount)

	code, env = c.do(http.MethodGet, "/api/friends", bob.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var friends struct {
		Items []models.User `json:"items"`
	}
	c.data(env, &friends)
	require.Len(t, friends.Items, 1)
	assert.Equal(t, ann.ID, friends.Items[0].ID)

	code, _ = c.do(http.MethodDelete, "/api/friends/"+ann.ID, bob.Token, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodDelete, "/api/friends/"+ann.ID, bob.Token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPostCommentAndReactionFlow(t *testing.T) {
	c := newClient(t)
	ann := c.register("Ann", "ann@example.com")
	bob := c.register("Bob", "bob@example.com")
	eve := c.register("Eve", "eve@example.com")
	c.befriend(ann, bob)

	post := c.createPost(ann, "hello <script>x</script>world")
	assert.Equal(t, "hello world", post.Content)

	code, env := c.do(http.MethodPost, "/api/comments", bob.Token, gin.H{"postId": post.ID, "content": "nice"})
	require.Equal(t, http.StatusOK, code, env.Errors)
	var comment models.Comment
	c.data(env, &comment)

	code, env = c.do(http.MethodGet, "/api/posts/"+post.ID, bob.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var got models.Post
	c.data(env, &got)
	assert.Equal(t, int64(1), got.CommentCount)
	require.Len(t, got.Comments, 1)

	code, env = c.do(http.MethodPost, "/api/reactions", bob.Token, gin.H{"targetType": "Post", "targetId": post.ID, "emoji": "like"})
	require.Equal(t, http.StatusOK, code, env.Errors)
	var tally models.ReactionTally
	c.data(env, &tally)
	assert.Equal(t, models.ReactionTally{Like: 1}, tally)

	code, env = c.do(http.MethodPost, "/api/reactions", bob.Token, gin.H{"targetType": "Post", "targetId": post.ID, "emoji": "like"})
	require.Equal(t, http.StatusOK, code)
	c.data(env, &tally)
	assert.Equal(t, models.ReactionTally{}, tally)

	// friends see the wall, strangers do not
	code, env = c.do(http.MethodGet, "/api/posts/user/"+ann.ID, bob.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var wall struct {
		Items []models.Post `json:"items"`
		Count int64         `json:"count"`
	}
	c.data(env, &wall)
	assert.Equal(t, int64(1), wall.Count)

	code, env = c.do(http.MethodGet, "/api/posts/user/"+ann.ID, eve.Token, nil)
	require.Equal(t, http.StatusOK, code)
	c.data(env, &wall)
	assert.Equal(t, int64(0), wall.Count)
	assert.Empty(t, wall.Items)

	code, env = c.do(http.MethodPut, "/api/posts/"+post.ID, bob.Token, gin.H{"content": "hijack"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Update Post Error", env.Message)

	code, _ = c.do(http.MethodDelete, "/api/comments/"+comment.ID, bob.Token, nil)
	require.Equal(t, http.StatusOK, code)
	code, env = c.do(http.MethodGet, "/api/posts/"+post.ID, ann.Token, nil)
	require.Equal(t, http.StatusOK, code)
	var after models.Post
	c.data(env, &after)
	assert.Equal(t, int64(0), after.CommentCount)
	assert.Empty(t, after.Comments)

	code, _ = c.do(http.MethodDelete, "/api/posts/"+post.ID, ann.Token, nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = c.do(http.MethodGet, "/api/posts/"+post.ID, ann.Token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}
