package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func runMiddleware(authHeader string) (*httptest.ResponseRecorder, int64, bool) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/orders", nil)
	if authHeader != "" {
		c.Request.Header.Set("Authorization", authHeader)
	}

	Middleware(testSecret)(c)
	id, ok := UserID(c)
	return w, id, ok
}

func TestMiddleware_ValidToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": 42,
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	w, id, ok := runMiddleware("Bearer " + token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestMiddleware_MissingHeader(t *testing.T) {
	w, _, ok := runMiddleware("")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, ok)
}

func TestMiddleware_WrongSecret(t *testing.T) {
	token := signToken(t, "other-secret", jwt.MapClaims{"sub": 42})

	w, _, ok := runMiddleware("Bearer " + token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, ok)
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": 42,
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	w, _, ok := runMiddleware("Bearer " + token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, ok)
}

func TestMiddleware_NonNumericSubject(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{"sub": "alice"})

	w, _, ok := runMiddleware("Bearer " + token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, ok)
}
