package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/webfold/webkit/pkg/logger"
	"github.com/webfold/webkit/pkg/webutil"
)

var (
	errMissingLEDomains = errors.New("Let's Encrypt requires -le-domains to be specified")
	errInvalidTarget    = errors.New("redirect target must be a local path")
)

// whoamiResponse is what the server reports back about a request.
type whoamiResponse struct {
	IP      string `json:"ip"`
	URL     string `json:"url"`
	Browser string `json:"browser,omitempty"`
	Version string `json:"version,omitempty"`
}

func whoamiHandler(w http.ResponseWriter, r *http.Request) {
	resp := whoamiResponse{
		IP:  webutil.ClientIPAddr(r),
		URL: webutil.FullRequestURL(r),
	}
	if ua, ok := webutil.RequestUserAgent(r); ok {
		resp.Browser = ua.Name
		resp.Version = ua.Version
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error("encode whoami response", err, nil)
	}
}

func setCookieHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("name")
	if strings.TrimSpace(name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	maxAge := 0
	if s := q.Get("max-age"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "max-age must be an integer", http.StatusBadRequest)
			return
		}
		maxAge = n
	}

	webutil.SetCookie(w, r, name, q.Get("value"), webutil.CookieOptions{
		Domain:   *cookieDomain,
		MaxAge:   maxAge,
		HTTPOnly: q.Get("httponly") == "true",
	})

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("cookie set\n")); err != nil {
		logger.Error("write response", err, nil)
	}
}

func getCookieHandler(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	value, ok := webutil.FindCookieValue(r, name)
	if !ok {
		http.Error(w, "no such cookie", http.StatusNotFound)
		return
	}
	if _, err := w.Write([]byte(value)); err != nil {
		logger.Error("write response", err, nil)
	}
}

func clearCookieHandler(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	webutil.ClearCookie(w, r, name, webutil.CookieOptions{Domain: *cookieDomain})

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("cookie cleared\n")); err != nil {
		logger.Error("write response", err, nil)
	}
}

func redirectHandler(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("to")
	if err := validateRedirectTarget(target); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	permanent := r.URL.Query().Get("permanent") == "true"
	webutil.Redirect(w, r, target, permanent)
}

// validateRedirectTarget rejects absolute and protocol-relative targets so
// the endpoint cannot be abused as an open redirect.
func validateRedirectTarget(target string) error {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return errInvalidTarget
	}
	if strings.Contains(target, "..") || strings.Contains(target, "\\") {
		return errInvalidTarget
	}
	return nil
}

func healthzHandler(w http.ResponseWriter, _ *http.Request) {
	if _, err := w.Write([]byte("ok\n")); err != nil {
		logger.Error("write response", err, nil)
	}
}
