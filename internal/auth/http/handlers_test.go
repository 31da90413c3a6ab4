package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/uni-mart/unimart-backend/internal/auth"
	"github.com/uni-mart/unimart-backend/internal/auth/middleware"
	"github.com/uni-mart/unimart-backend/internal/session"
)

type fakeVerifier struct {
	identity *auth.Identity
	err      error
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (*auth.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

type fakeRevoker struct {
	revokedUID string
	err        error
}

func (f *fakeRevoker) RevokeRefreshTokens(_ context.Context, uid string) error {
	f.revokedUID = uid
	return f.err
}

func newAuthRouter(v auth.Verifier, sessions *session.Provider, revoker TokenRevoker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(v, sessions, revoker)
	public := r.Group("/api/v1/auth")
	protected := r.Group("/api/v1/auth")
	protected.Use(middleware.RequireIdentity(v))
	Register(public, protected, h)
	return r
}

func TestEstablish_ResolvesSession(t *testing.T) {
	sessions := session.NewProvider()
	v := &fakeVerifier{identity: &auth.Identity{UID: "u1", Email: "u1@campus.edu"}}
	r := newAuthRouter(v, sessions, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/session", strings.NewReader(`{"idToken":"tok"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}

	identity, resolving := sessions.Current()
	if resolving {
		t.Error("session still resolving after establish")
	}
	if identity == nil || identity.UID != "u1" {
		t.Errorf("session identity = %v, want u1", identity)
	}
}

func TestEstablish_BadTokenIs401(t *testing.T) {
	sessions := session.NewProvider()
	r := newAuthRouter(&fakeVerifier{err: errors.New("expired")}, sessions, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/session", strings.NewReader(`{"idToken":"tok"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestEstablish_EmptyBodyIs400(t *testing.T) {
	r := newAuthRouter(&fakeVerifier{}, session.NewProvider(), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/session", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestTeardown_RevokesAndClears(t *testing.T) {
	sessions := session.NewProvider()
	sessions.Resolve(&auth.Identity{UID: "u1"})
	revoker := &fakeRevoker{}
	v := &fakeVerifier{identity: &auth.Identity{UID: "u1"}}
	r := newAuthRouter(v, sessions, revoker)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/auth/session", nil)
	req.Header.Set("Authorization", "Bearer tok")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body.String())
	}
	if revoker.revokedUID != "u1" {
		t.Errorf("revoked uid = %q, want u1", revoker.revokedUID)
	}

	identity, _ := sessions.Current()
	if identity != nil {
		t.Errorf("session identity = %v, want nil after teardown", identity)
	}
}

func TestMe_ReturnsIdentity(t *testing.T) {
	v := &fakeVerifier{identity: &auth.Identity{UID: "u1", Email: "u1@campus.edu"}}
	r := newAuthRouter(v, session.NewProvider(), nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer tok")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"uid":"u1"`) {
		t.Errorf("body %s does not carry the identity", w.Body.String())
	}
}
