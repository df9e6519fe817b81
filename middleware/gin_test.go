package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	authGate "github.com/wheelmarket/authGate"
)

func newGinRouter(t *testing.T, gate *authGate.Gate) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me", GinGuard(gate), func(c *gin.Context) {
		id := GinIdentity(c)
		if id == nil {
			t.Error("identity missing from gin context")
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"userId": id.UserID})
	})
	router.GET("/admin", GinGuard(gate), GinRequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestGinGuardNoToken(t *testing.T) {
	gate := newTestGate(t)
	router := newGinRouter(t, gate)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["code"] != "NO_TOKEN" {
		t.Fatalf("expected NO_TOKEN, got %v", body["code"])
	}
}

func TestGinGuardAuthenticates(t *testing.T) {
	gate := newTestGate(t)
	router := newGinRouter(t, gate)

	pair, err := gate.IssuePair(authGate.Principal{UserID: "user-1", Role: authGate.RoleUser})
	if err != nil {
		t.Fatalf("issue pair: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: pair.AccessToken})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["userId"] != "user-1" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestGinRequireAdmin(t *testing.T) {
	gate := newTestGate(t)
	router := newGinRouter(t, gate)

	userPair, err := gate.IssuePair(authGate.Principal{UserID: "user-1", Role: authGate.RoleUser})
	if err != nil {
		t.Fatalf("issue user pair: %v", err)
	}
	adminPair, err := gate.IssuePair(authGate.Principal{UserID: "admin-1", Role: authGate.RoleAdmin})
	if err != nil {
		t.Fatalf("issue admin pair: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: userPair.AccessToken})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for plain user, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: adminPair.AccessToken})
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", rec.Code)
	}
}
