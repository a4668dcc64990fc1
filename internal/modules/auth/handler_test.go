package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/inkverse/core/internal/pkg/idp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group(""))
	return r
}

func TestGoogleAuthAcceptsAccessTokenField(t *testing.T) {
	_, svc := setupService(t, stubVerifier{ident: &idp.Identity{
		Subject: "sub-1", Email: "bob@example.com", EmailVerified: true, Name: "Bob",
	}})
	r := newAuthRouter(svc)

	// Older clients post the credential as accessToken instead of idToken.
	body := `{"accessToken":"google-credential"}`
	req := httptest.NewRequest(http.MethodPost, "/google-auth", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bob@example.com")
	assert.Contains(t, w.Body.String(), "token")
}

func TestGoogleAuthAcceptsIDTokenField(t *testing.T) {
	_, svc := setupService(t, stubVerifier{ident: &idp.Identity{
		Subject: "sub-2", Email: "carol@example.com", EmailVerified: true, Name: "Carol",
	}})
	r := newAuthRouter(svc)

	body := `{"idToken":"google-credential"}`
	req := httptest.NewRequest(http.MethodPost, "/google-auth", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "carol@example.com")
}
