package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/starford/folio/internal/apperr"
)

var testSecret = []byte("test-secret-key")

func testAuthority(t *testing.T) *Authority {
	t.Helper()
	a, err := New(Options{Secret: testSecret, Username: "admin", Password: "admin123"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return a
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestNew_EmptySecret(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := testAuthority(t).WithClock(fixedClock(now))

	for _, subject := range []string{"admin", "someone else", "ユーザー"} {
		token, issued, err := a.Issue(subject, RoleAdmin)
		if err != nil {
			t.Fatalf("Issue(%q): %v", subject, err)
		}
		got, err := a.Verify(token)
		if err != nil {
			t.Fatalf("Verify(%q): %v", subject, err)
		}
		if got.Subject != subject || got.Role != RoleAdmin {
			t.Errorf("payload = %+v", got)
		}
		if !got.ExpiresAt.Equal(now.Add(24 * time.Hour)) {
			t.Errorf("expiresAt = %v, want %v", got.ExpiresAt, now.Add(24*time.Hour))
		}
		if !issued.ExpiresAt.Equal(got.ExpiresAt) {
			t.Errorf("issued %v != verified %v", issued.ExpiresAt, got.ExpiresAt)
		}
	}
}

func TestVerify_TamperedSignature(t *testing.T) {
	a := testAuthority(t)
	token, _, err := a.Issue("admin", RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}

	// Flip a character in the signature segment.
	i := strings.LastIndex(token, ".") + 2
	b := []byte(token)
	if b[i] == 'A' {
		b[i] = 'B'
	} else {
		b[i] = 'A'
	}
	tampered := string(b)

	if _, err := a.Verify(tampered); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("err = %v, want ErrInvalidSignature", err)
	}
	if _, ok := a.Valid(tampered); ok {
		t.Error("tampered token reported valid")
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	a := testAuthority(t)
	token, _, _ := a.Issue("admin", RoleAdmin)
	other, _, _ := a.Issue("mallory", RoleAdmin)

	parts := strings.Split(token, ".")
	otherParts := strings.Split(other, ".")
	spliced := parts[0] + "." + otherParts[1] + "." + parts[2]

	if _, err := a.Verify(spliced); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestVerify_WrongKey(t *testing.T) {
	a := testAuthority(t)
	b, _ := New(Options{Secret: []byte("another-key")})
	token, _, _ := b.Issue("admin", RoleAdmin)
	if _, err := a.Verify(token); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	a := testAuthority(t)
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := a.Verify(tok); !errors.Is(err, ErrMalformed) {
			t.Errorf("Verify(%q) err = %v, want ErrMalformed", tok, err)
		}
	}
}

func TestVerify_UnsupportedAlgorithm(t *testing.T) {
	a := testAuthority(t)
	exp := time.Now().Add(time.Hour)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims{
		UserID:           "admin",
		Role:             RoleAdmin,
		ExpiresAt:        exp,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)},
	})
	signed, err := tok.SignedString(testSecret)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Verify(signed); !errors.Is(err, ErrMalformed) {
		t.Errorf("err = %v, want ErrMalformed", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, claims{UserID: "admin", Role: RoleAdmin, ExpiresAt: exp})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := a.Valid(unsigned); ok {
		t.Error("alg=none token reported valid")
	}
}

func TestVerify_LibraryExpiry(t *testing.T) {
	issuedAt := time.Now().Add(-25 * time.Hour)
	a := testAuthority(t)
	token, _, err := a.WithClock(fixedClock(issuedAt)).Issue("admin", RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Verify(token); !errors.Is(err, ErrExpired) {
		t.Errorf("err = %v, want ErrExpired", err)
	}
	if _, ok := a.Valid(token); ok {
		t.Error("expired token reported valid")
	}
}

func TestValid_PayloadExpiryCheckedIndependently(t *testing.T) {
	a := testAuthority(t)
	// Registered exp is in the future, payload expiresAt in the past.
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID:    "admin",
		Role:      RoleAdmin,
		ExpiresAt: time.Now().Add(-time.Minute),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := tok.SignedString(testSecret)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Verify(signed); err != nil {
		t.Fatalf("Verify should pass signature checks: %v", err)
	}
	if _, ok := a.Valid(signed); ok {
		t.Error("token with past expiresAt reported valid")
	}
}

func TestValidateCredentials(t *testing.T) {
	a := testAuthority(t)
	cases := []struct {
		user, pass string
		want       bool
	}{
		{"admin", "admin123", true},
		{"Admin", "admin123", false},
		{"ADMIN", "admin123", false},
		{"admin", "Admin123", false},
		{"admin", "", false},
		{"", "admin123", false},
		{"admin ", "admin123", false},
		{"root", "admin123", false},
	}
	for _, c := range cases {
		if got := a.ValidateCredentials(c.user, c.pass); got != c.want {
			t.Errorf("ValidateCredentials(%q, %q) = %v, want %v", c.user, c.pass, got, c.want)
		}
	}
}

func TestCreateSessionCookie(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a, _ := New(Options{Secret: testSecret, Secure: true})
	a = a.WithClock(fixedClock(now))

	w := httptest.NewRecorder()
	if _, err := a.CreateSession(w, "admin", RoleAdmin); err != nil {
		t.Fatal(err)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("cookies = %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != CookieName || c.Path != "/" || !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteLaxMode {
		t.Errorf("cookie attributes = %+v", c)
	}
	if !c.Expires.Equal(now.Add(24 * time.Hour)) {
		t.Errorf("expires = %v", c.Expires)
	}
	if s, err := a.Verify(c.Value); err != nil || s.Subject != "admin" {
		t.Errorf("cookie value does not verify: %v", err)
	}
}

func TestCreateSessionCookie_InsecureInDevelopment(t *testing.T) {
	a := testAuthority(t)
	w := httptest.NewRecorder()
	_, _ = a.CreateSession(w, "admin", RoleAdmin)
	if w.Result().Cookies()[0].Secure {
		t.Error("cookie marked Secure outside production")
	}
}

func TestDestroySession(t *testing.T) {
	a := testAuthority(t)
	w := httptest.NewRecorder()
	a.DestroySession(w)
	c := w.Result().Cookies()[0]
	if c.Name != CookieName || c.MaxAge >= 0 || c.Value != "" {
		t.Errorf("cookie = %+v, want deletion", c)
	}
}

func TestIsAuthenticated(t *testing.T) {
	a := testAuthority(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if a.IsAuthenticated(req) {
		t.Error("no cookie reported authenticated")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "junk"})
	if a.IsAuthenticated(req) {
		t.Error("junk cookie reported authenticated")
	}

	token, _, _ := a.Issue("admin", RoleAdmin)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	if !a.IsAuthenticated(req) {
		t.Error("valid cookie reported unauthenticated")
	}
}

func gateHandler(a *Authority) http.Handler {
	return a.Gate(DefaultGateConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s, ok := FromContext(r.Context()); ok {
			w.Header().Set("X-Subject", s.Subject)
		}
		w.WriteHeader(http.StatusOK)
	}))
}

func TestGate(t *testing.T) {
	a := testAuthority(t)
	token, _, _ := a.Issue("admin", RoleAdmin)
	h := gateHandler(a)

	cases := []struct {
		name     string
		path     string
		authed   bool
		status   int
		location string
	}{
		{"dashboard anonymous", "/dashboard", false, http.StatusSeeOther, "/login"},
		{"dashboard subpath anonymous", "/dashboard/skills", false, http.StatusSeeOther, "/login"},
		{"dashboard authed", "/dashboard", true, http.StatusOK, ""},
		{"login anonymous", "/login", false, http.StatusOK, ""},
		{"login authed", "/login", true, http.StatusSeeOther, "/dashboard"},
		{"home anonymous", "/", false, http.StatusOK, ""},
		{"api anonymous", "/api/skills", false, http.StatusOK, ""},
		{"lookalike prefix", "/dashboards", false, http.StatusOK, ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, c.path, nil)
			if c.authed {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Code != c.status {
				t.Fatalf("status = %d, want %d", w.Code, c.status)
			}
			if c.location != "" && w.Header().Get("Location") != c.location {
				t.Errorf("Location = %q, want %q", w.Header().Get("Location"), c.location)
			}
			if c.authed && c.status == http.StatusOK && w.Header().Get("X-Subject") != "admin" {
				t.Error("session not injected into context")
			}
		})
	}
}

func TestGate_ExpiredSessionRedirects(t *testing.T) {
	a := testAuthority(t)
	token, _, _ := a.WithClock(fixedClock(time.Now().Add(-48 * time.Hour))).Issue("admin", RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	w := httptest.NewRecorder()
	gateHandler(a).ServeHTTP(w, req)
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/login" {
		t.Errorf("expired session: status = %d, location = %q", w.Code, w.Header().Get("Location"))
	}
}

func TestRequireAdmin(t *testing.T) {
	now := time.Now()
	clock := fixedClock(now)

	if _, err := RequireAdmin(context.Background(), clock); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("empty ctx err = %v", err)
	}

	ctx := WithSession(context.Background(), &Session{Subject: "admin", Role: "viewer", ExpiresAt: now.Add(time.Hour)})
	if _, err := RequireAdmin(ctx, clock); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("wrong role err = %v", err)
	}

	ctx = WithSession(context.Background(), &Session{Subject: "admin", Role: RoleAdmin, ExpiresAt: now.Add(-time.Second)})
	if _, err := RequireAdmin(ctx, clock); !errors.Is(err, apperr.ErrUnauthorized) {
		t.Errorf("expired err = %v", err)
	}

	ctx = WithSession(context.Background(), &Session{Subject: "admin", Role: RoleAdmin, ExpiresAt: now.Add(time.Hour)})
	s, err := RequireAdmin(ctx, clock)
	if err != nil || s.Subject != "admin" {
		t.Errorf("RequireAdmin = %+v, %v", s, err)
	}
}
