package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextWithCookie(token string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: token})
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestGetIDRoundTrip(t *testing.T) {
	secret := []byte("secret")
	token, err := NewToken(42, secret)
	require.NoError(t, err)

	id, err := GetID(contextWithCookie(token), secret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestGetIDMissingCookie(t *testing.T) {
	_, err := GetID(contextWithCookie(""), []byte("secret"))
	require.Error(t, err)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestGetIDWrongSecret(t *testing.T) {
	token, err := NewToken(42, []byte("secret"))
	require.NoError(t, err)

	_, err = GetID(contextWithCookie(token), []byte("other"))
	require.Error(t, err)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestGetIDGarbageToken(t *testing.T) {
	_, err := GetID(contextWithCookie("not.a.jwt"), []byte("secret"))
	require.Error(t, err)

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusUnauthorized, he.Code)
}
