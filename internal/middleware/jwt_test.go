package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/uni-adp-api/internal/models"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, expiry time.Duration) string {
	t.Helper()
	claims := models.JWTClaims{
		UserID: "user-1",
		Email:  "admin@example.edu",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func jwtTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", JWT(testSecret), func(c *gin.Context) {
		claims, _ := c.Get(ContextUserKey)
		c.JSON(http.StatusOK, gin.H{"user": claims.(*models.JWTClaims).UserID})
	})
	return router
}

func TestJWTAcceptsValidToken(t *testing.T) {
	router := jwtTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, time.Hour))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "user-1")
}

func TestJWTRejectsMissingOrMalformedHeader(t *testing.T) {
	router := jwtTestRouter()

	for _, header := range []string{"", "Token abc", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestJWTRejectsExpiredAndForeignTokens(t *testing.T) {
	router := jwtTestRouter()

	expired := signToken(t, testSecret, -time.Hour)
	foreign := signToken(t, "other-secret", time.Hour)
	for _, token := range []string{expired, foreign} {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}
