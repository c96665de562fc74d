package utils

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cppla/codercomm/config"
	"github.com/cppla/codercomm/models"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.Set(config.AppConfig{JWTSecret: "utils-test-secret-0123456789abcdef", TokenTTLHours: 1})
}

func decode(t *testing.T, w *httptest.ResponseRecorder) JSONResponse {
	t.Helper()
	var body JSONResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestFailRendersAppErrors(t *testing.T) {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	Fail(ctx, "Get Post Error", models.NewNotFoundError("Post"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	body := decode(t, w)
	assert.False(t, body.Success)
	assert.Nil(t, body.Data)
	assert.Equal(t, "Get Post Error", body.Message)
	assert.Equal(t, map[string]interface{}{"message": "Post not found"}, body.Errors)
}

func TestFailPrefersErrorLabel(t *testing.T) {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	Fail(ctx, "Generic", models.NewConflictError("Request already sent").WithLabel("Send Request Error"))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Send Request Error", decode(t, w).Message)
}

func TestFailHidesInternalCause(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	Fail(ctx, "Create Post Error", errors.New("dial tcp 10.0.0.1:3306: refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, map[string]interface{}{"message": "Internal server error"}, body.Errors)
	assert.NotContains(t, w.Body.String(), "10.0.0.1")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Create Post Error", logs.All()[0].Message)
}

func TestSuccessEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	Success(ctx, gin.H{"id": "1"}, "Done")

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.True(t, body.Success)
	assert.Nil(t, body.Errors)
	assert.Equal(t, "Done", body.Message)
}

func TestTokenRoundTrip(t *testing.T) {
	id := models.NewID()
	token, err := GenerateToken(id, "ann", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, claims.UserID)
	assert.Equal(t, "ann", claims.Name)
	assert.Equal(t, time.Hour, TokenTTL())
}

func TestParseTokenRejectsExpiredAndForged(t *testing.T) {
	expired, err := GenerateToken(models.NewID(), "ann", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(expired)
	assert.Error(t, err)

	_, err = ParseToken("not.a.token")
	assert.Error(t, err)

	token, err := GenerateToken(models.NewID(), "ann", time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(token[:len(token)-2] + "xx")
	assert.Error(t, err)
}

func TestBlacklistInMemory(t *testing.T) {
	SetRedis(nil)
	ctx := context.Background()

	require.NoError(t, BlacklistToken(ctx, "tok-a", time.Now().Add(time.Minute)))
	assert.True(t, IsTokenBlacklisted(ctx, "tok-a"))
	assert.False(t, IsTokenBlacklisted(ctx, "tok-b"))

	require.NoError(t, BlacklistToken(ctx, "tok-expired", time.Now().Add(-time.Minute)))
	assert.False(t, IsTokenBlacklisted(ctx, "tok-expired"))
}

func TestBlacklistRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	SetRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetRedis(nil) })
	ctx := context.Background()

	require.NoError(t, BlacklistToken(ctx, "tok-r", time.Now().Add(time.Minute)))
	assert.True(t, mr.Exists(blacklistPrefix+"tok-r"))
	assert.True(t, IsTokenBlacklisted(ctx, "tok-r"))

	mr.FastForward(2 * time.Minute)
	assert.False(t, IsTokenBlacklisted(ctx, "tok-r"))
}

func TestBlacklistFailsOpenWhenRedisIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	SetRedis(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}))
	t.Cleanup(func() { SetRedis(nil) })
	mr.Close()

	assert.False(t, IsTokenBlacklisted(context.Background(), "tok"))
	assert.Error(t, BlacklistToken(context.Background(), "tok", time.Now().Add(time.Minute)))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "<b>hi</b>", Sanitize("  <b>hi</b><script>alert(1)</script> "))
	assert.Equal(t, "hi", SanitizePlain("<i>hi</i>"))
	assert.Empty(t, SanitizePlain("   "))
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret!"))
	assert.False(t, CheckPassword(hash, "wrong"))
}

func TestBindingMessage(t *testing.T) {
	RegisterValidators()
	type payload struct {
		TargetID string `json:"targetId" binding:"required,objectid"`
		Emoji    string `json:"emoji" binding:"required,oneof=like dislike"`
	}

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"targetId":"nope","emoji":"love"}`))
	ctx.Request.Header.Set("Content-Type", "application/json")

	var p payload
	err := ctx.ShouldBindJSON(&p)
	require.Error(t, err)
	msg := BindingMessage(err)
	assert.Contains(t, msg, "targetID must be a valid id")
	assert.Contains(t, msg, "emoji must be one of [like dislike]")

	assert.Equal(t, "invalid request payload", BindingMessage(errors.New("EOF")))
}
