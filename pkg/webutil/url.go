package webutil

import "net/http"

// BaseRequestURL reconstructs scheme://host/path for a request, without the
// query string. The scheme follows the transport the request arrived on.
func BaseRequestURL(r *http.Request) string {
	if r == nil {
		return ""
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + r.Host + r.URL.EscapedPath()
}

// FullRequestURL reconstructs the URL the client requested, appending the
// query string only when one is present and non-blank.
func FullRequestURL(r *http.Request) string {
	if r == nil {
		return ""
	}
	u := BaseRequestURL(r)
	if q := r.URL.RawQuery; !blank(q) {
		u += "?" + q
	}
	return u
}

// Redirect sends the client to url. A temporary redirect goes through the
// stock http.Redirect (302, with an HTML body for GET). A permanent one
// writes a bare 301 with only the Location header set, leaving the body and
// any further handling to the caller.
func Redirect(w http.ResponseWriter, r *http.Request, url string, permanent bool) {
	if !permanent {
		http.Redirect(w, r, url, http.StatusFound)
		return
	}
	w.Header().Set("Location", url)
	w.WriteHeader(http.StatusMovedPermanently)
}
