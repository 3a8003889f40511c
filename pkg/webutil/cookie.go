package webutil

import (
	"net/http"

	"github.com/webfold/webkit/pkg/logger"
)

// CookieOptions carries the optional attributes for SetCookie. The zero
// value means: path "/", no domain, session-lived, script-accessible.
type CookieOptions struct {
	Domain   string
	Path     string // blank is normalized to "/"
	MaxAge   int    // seconds; negative tells the client to drop the cookie
	HTTPOnly bool
}

// FindCookie returns the first request cookie whose name matches exactly,
// or nil when the request is nil or carries no such cookie.
func FindCookie(r *http.Request, name string) *http.Cookie {
	if r == nil {
		return nil
	}
	for _, c := range r.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// FindCookieValue returns the value of the first cookie with the given
// name. The second return value is false when no such cookie exists.
func FindCookieValue(r *http.Request, name string) (string, bool) {
	c := FindCookie(r, name)
	if c == nil {
		return "", false
	}
	return c.Value, true
}

// SetCookie attaches a cookie to the response. The Secure attribute mirrors
// whether the request arrived over TLS, a blank path is normalized to "/",
// and the domain is attached only when non-blank. A nil request or response
// is a silent no-op.
func SetCookie(w http.ResponseWriter, r *http.Request, name, value string, opts CookieOptions) {
	if w == nil || r == nil {
		return
	}

	path := opts.Path
	if blank(path) {
		path = "/"
	}

	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		MaxAge:   opts.MaxAge,
		Secure:   r.TLS != nil,
		HttpOnly: opts.HTTPOnly,
	}
	if !blank(opts.Domain) {
		c.Domain = opts.Domain
	}

	http.SetCookie(w, c)
	logger.Debug("cookie written", logger.Fields{
		"name":     c.Name,
		"value":    c.Value,
		"max_age":  c.MaxAge,
		"httponly": c.HttpOnly,
		"path":     c.Path,
		"domain":   c.Domain,
	})
}

// ClearCookie tells the client to drop a cookie. The value is emptied and,
// regardless of what opts carries, MaxAge is forced negative (net/http
// writes Max-Age=0 for it) and HTTPOnly is forced on. Path and domain
// resolution follow SetCookie, so the cleared cookie matches the one that
// was set.
func ClearCookie(w http.ResponseWriter, r *http.Request, name string, opts CookieOptions) {
	if w == nil || r == nil {
		return
	}
	opts.MaxAge = -1
	opts.HTTPOnly = true
	SetCookie(w, r, name, "", opts)
}
