package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/colonia-io/colonia/config"
)

func testEnvConfig() *config.EnvConfig {
	cfg := &config.EnvConfig{}
	cfg.JWT.SecretKey = "test-secret"
	cfg.JWT.Expire = 3600
	return cfg
}

func TestGenerateAndParseToken(t *testing.T) {
	cfg := testEnvConfig()

	token, err := GenerateToken(42, "alice", false, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := ParseToken(token, cfg)
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "42", claims["user_id"])
	assert.Equal(t, "alice", claims["username"])
}

func TestGenerateTokenWithoutSecret(t *testing.T) {
	cfg := &config.EnvConfig{}
	_, err := GenerateToken(1, "alice", false, cfg)
	assert.Error(t, err)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(1, "alice", false, testEnvConfig())
	require.NoError(t, err)

	other := testEnvConfig()
	other.JWT.SecretKey = "different-secret"
	_, err = ParseToken(token, other)
	assert.Error(t, err)
}

func TestExtractToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newContext := func(req *http.Request) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = req
		return c
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc123")
	assert.Equal(t, "abc123", ExtractToken(newContext(req)))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: "cookie-token"})
	assert.Equal(t, "cookie-token", ExtractToken(newContext(req)))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, ExtractToken(newContext(req)))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc123")
	assert.Empty(t, ExtractToken(newContext(req)))
}

func TestInjectClaimsAndGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	err := InjectClaimsToContext(c, jwt.MapClaims{
		"user_id":  "7",
		"username": "bob",
		"is_admin": true,
	})
	require.NoError(t, err)

	userID, err := GetUserIDFromContext(c)
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)
	assert.Equal(t, "bob", c.GetString("username"))
	assert.True(t, c.GetBool("is_admin"))
}

func TestInjectClaimsRejectsBadUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Error(t, InjectClaimsToContext(c, jwt.MapClaims{"user_id": "not-a-number"}))
	assert.Error(t, InjectClaimsToContext(c, jwt.MapClaims{"user_id": 7.0}))
}
