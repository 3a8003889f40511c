package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWhoamiHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://example.com/whoami?probe=1", http.NoBody)
	req.RemoteAddr = "203.0.113.9:4321"
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/90.0.4430.212 Safari/537.36")
	w := httptest.NewRecorder()

	whoamiHandler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp whoamiResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.IP != "203.0.113.9" {
		t.Errorf("ip = %q, want 203.0.113.9", resp.IP)
	}
	if resp.URL != "http://example.com/whoami?probe=1" {
		t.Errorf("url = %q", resp.URL)
	}
	if resp.Browser != "Chrome" || resp.Version != "90.0.4430.212" {
		t.Errorf("browser = %s/%s, want Chrome/90.0.4430.212", resp.Browser, resp.Version)
	}
}

func TestSetCookieHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/cookie/set?name=probe&value=hello&max-age=60&httponly=true", http.NoBody)
	w := httptest.NewRecorder()

	setCookieHandler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != "probe" || c.Value != "hello" {
		t.Errorf("cookie = %s=%s", c.Name, c.Value)
	}
	if c.MaxAge != 60 {
		t.Errorf("max-age = %d, want 60", c.MaxAge)
	}
	if !c.HttpOnly {
		t.Error("cookie should be http-only")
	}
	if c.Path != "/" {
		t.Errorf("path = %q, want /", c.Path)
	}
}

func TestSetCookieHandler_Validation(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "missing name", target: "/cookie/set?value=hello"},
		{name: "blank name", target: "/cookie/set?name=%20&value=hello"},
		{name: "bad max-age", target: "/cookie/set?name=probe&max-age=soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, http.NoBody)
			w := httptest.NewRecorder()

			setCookieHandler(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
		})
	}
}

func TestGetCookieHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/cookie/get?name=probe", http.NoBody)
	req.AddCookie(&http.Cookie{Name: "probe", Value: "hello"})
	w := httptest.NewRecorder()

	getCookieHandler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != "hello" {
		t.Errorf("body = %q, want hello", got)
	}
}

func TestGetCookieHandler_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/cookie/get?name=probe", http.NoBody)
	w := httptest.NewRecorder()

	getCookieHandler(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestClearCookieHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/cookie/clear?name=probe", http.NoBody)
	w := httptest.NewRecorder()

	clearCookieHandler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	raw := w.Header().Get("Set-Cookie")
	if !strings.Contains(raw, "Max-Age=0") {
		t.Errorf("Set-Cookie %q missing Max-Age=0", raw)
	}
	if !strings.Contains(raw, "HttpOnly") {
		t.Errorf("Set-Cookie %q missing HttpOnly", raw)
	}
}

func TestRedirectHandler(t *testing.T) {
	tests := []struct {
		name         string
		target       string
		wantStatus   int
		wantLocation string
	}{
		{
			name:         "temporary redirect",
			target:       "/go?to=/x",
			wantStatus:   http.StatusFound,
			wantLocation: "/x",
		},
		{
			name:         "permanent redirect",
			target:       "/go?to=/x&permanent=true",
			wantStatus:   http.StatusMovedPermanently,
			wantLocation: "/x",
		},
		{
			name:       "absolute URL rejected",
			target:     "/go?to=http://evil.example",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "protocol-relative URL rejected",
			target:     "/go?to=//evil.example",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "path traversal rejected",
			target:     "/go?to=/a/../b",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty target rejected",
			target:     "/go",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, http.NoBody)
			w := httptest.NewRecorder()

			redirectHandler(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantLocation != "" {
				if got := w.Header().Get("Location"); got != tt.wantLocation {
					t.Errorf("Location = %q, want %q", got, tt.wantLocation)
				}
			}
		})
	}
}

func TestHealthzHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	w := httptest.NewRecorder()

	healthzHandler(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if got := w.Body.String(); got != "ok\n" {
		t.Errorf("body = %q, want ok", got)
	}
}
