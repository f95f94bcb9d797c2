package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/SscSPs/bank_webhook_ledger/internal/middleware"
	"github.com/SscSPs/bank_webhook_ledger/internal/utils"
)

type AuthMiddlewareTestSuite struct {
	suite.Suite
	router    *gin.Engine
	jwtSecret string
}

func (suite *AuthMiddlewareTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtSecret = "middleware-test-secret"
	suite.router = gin.New()
	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))
	suite.router.GET("/whoami", func(c *gin.Context) {
		name, ok := middleware.GetAccountNameFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"account": name})
	})
}

func (suite *AuthMiddlewareTestSuite) do(authHeader string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AuthMiddlewareTestSuite) errorOf(w *httptest.ResponseRecorder) string {
	var body map[string]string
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func (suite *AuthMiddlewareTestSuite) TestValidToken() {
	token, err := utils.GenerateJWT("alice", suite.jwtSecret, time.Hour, "test", time.Now())
	suite.Require().NoError(err)

	w := suite.do("Bearer " + token)
	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"account":"alice"}`, w.Body.String())
}

func (suite *AuthMiddlewareTestSuite) TestRejections() {
	expired, err := utils.GenerateJWT("alice", suite.jwtSecret, time.Minute, "test", time.Now().Add(-time.Hour))
	suite.Require().NoError(err)
	foreign, err := utils.GenerateJWT("alice", "another-secret", time.Hour, "test", time.Now())
	suite.Require().NoError(err)

	cases := []struct {
		name   string
		header string
		msg    string
	}{
		{"missing header", "", "Authorization header required"},
		{"wrong scheme", "Basic abc", "Authorization header format must be Bearer {token}"},
		{"expired", "Bearer " + expired, "Token has expired"},
		{"wrong secret", "Bearer " + foreign, "Invalid token"},
		{"garbage", "Bearer not.a.token", "Invalid token"},
	}
	for _, tc := range cases {
		suite.Run(tc.name, func() {
			w := suite.do(tc.header)
			suite.Equal(http.StatusUnauthorized, w.Code)
			suite.Equal(tc.msg, suite.errorOf(w))
		})
	}
}

func TestAuthMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareTestSuite))
}

func rateLimitedRouter(t *testing.T, rate string, key middleware.KeyFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	l, err := middleware.NewMemoryLimiter(rate)
	require.NoError(t, err)

	router := gin.New()
	router.Use(middleware.RateLimit(l, key))
	router.POST("/hook", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func postHook(router *gin.Engine, bank string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodPost, "/hook", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	if bank != "" {
		req.Header.Set("X-Bank-Identifier", bank)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimit(t *testing.T) {
	router := rateLimitedRouter(t, "2-M", nil)

	codes := make([]int, 0, 3)
	var last *httptest.ResponseRecorder
	for range 3 {
		last = postHook(router, "")
		codes = append(codes, last.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "2", last.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_HeaderAndIPKey(t *testing.T) {
	router := rateLimitedRouter(t, "1-M", middleware.HeaderAndIPKey("X-Bank-Identifier"))

	assert.Equal(t, http.StatusOK, postHook(router, "acme").Code)
	assert.Equal(t, http.StatusTooManyRequests, postHook(router, "ACME").Code)
	// same IP, different bank
	assert.Equal(t, http.StatusOK, postHook(router, "foodics").Code)
}

func TestNewMemoryLimiter_InvalidRate(t *testing.T) {
	_, err := middleware.NewMemoryLimiter("lots")
	assert.Error(t, err)
}

func TestStructuredLoggingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.StructuredLoggingMiddleware(slogDiscard()))
	var sawLogger bool
	router.GET("/", func(c *gin.Context) {
		sawLogger = middleware.GetLoggerFromCtx(c.Request.Context()) != nil
		c.Status(http.StatusNoContent)
	})

	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.True(t, sawLogger)
}
