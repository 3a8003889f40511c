package webutil

import (
	"net/http"
	"regexp"
)

// UserAgent identifies a browser family and its version.
type UserAgent struct {
	Name    string
	Version string
}

// Browser families recognized by ParseUserAgent.
const (
	AgentMSIE    = "MSIE"
	AgentFirefox = "Firefox"
	AgentChrome  = "Chrome"
	AgentOpera   = "Opera"
	AgentSafari  = "Safari"
)

// agentOrder is the probe order, and it matters: Chrome user agents also
// carry a Version/ token, so Chrome must be probed before Safari.
var agentOrder = []string{AgentMSIE, AgentFirefox, AgentChrome, AgentOpera, AgentSafari}

var agentPatterns = map[string]*regexp.Regexp{
	AgentMSIE:    regexp.MustCompile(`MSIE ([\d.]+)`),
	AgentFirefox: regexp.MustCompile(`Firefox/(\d.+)`),
	AgentChrome:  regexp.MustCompile(`Chrome/([\d.]+)`),
	AgentOpera:   regexp.MustCompile(`Opera[/\s]([\d.]+)`),
	AgentSafari:  regexp.MustCompile(`Version/([\d.]+)`),
}

// ParseUserAgent extracts the browser family and version from a raw
// User-Agent string. The second return value is false when the string is
// blank or matches no known family.
func ParseUserAgent(ua string) (UserAgent, bool) {
	if blank(ua) {
		return UserAgent{}, false
	}
	for _, name := range agentOrder {
		if m := agentPatterns[name].FindStringSubmatch(ua); m != nil {
			return UserAgent{Name: name, Version: m[1]}, true
		}
	}
	return UserAgent{}, false
}

// RequestUserAgent parses the User-Agent header of r. It returns false for
// a nil request or a missing header.
func RequestUserAgent(r *http.Request) (UserAgent, bool) {
	if r == nil {
		return UserAgent{}, false
	}
	return ParseUserAgent(r.Header.Get("User-Agent"))
}
