package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-intro-backend/internal/shared/auth"
)

func identityRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Identity())
	router.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"userId": UserIDFromContext(c),
			"email":  UserEmailFromContext(c),
		})
	})
	return router
}

func TestIdentityValidTokenSetsUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	router := identityRouter(t)

	token, err := auth.SignJWT(auth.Claims{Sub: "user-1", Email: "user@example.com"})
	if err != nil {
		t.Fatalf("SignJWT: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	if !strings.Contains(body, `"userId":"user-1"`) {
		t.Fatalf("user id not resolved: %s", body)
	}
	if !strings.Contains(body, `"email":"user@example.com"`) {
		t.Fatalf("email not resolved: %s", body)
	}
}

func TestIdentityInvalidTokenProceedsAnonymous(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	router := identityRouter(t)

	for _, header := range []string{
		"",
		"Bearer ",
		"Bearer not.a.token",
		"Basic dXNlcjpwYXNz",
	} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusOK {
			t.Fatalf("header %q: identity middleware must never reject, got %d", header, resp.Code)
		}
		if !strings.Contains(resp.Body.String(), `"userId":""`) {
			t.Fatalf("header %q: expected anonymous user, got %s", header, resp.Body.String())
		}
	}
}
