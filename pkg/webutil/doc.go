/*
Package webutil provides small stateless helpers for HTTP request and
response handling:

  - resolving the client address of a request that crossed one or more
    proxies (ClientIPAddr)
  - reading, writing and clearing cookies with path/domain/security
    attributes (FindCookie, SetCookie, ClearCookie)
  - rebuilding the URL a client asked for (FullRequestURL)
  - issuing temporary and permanent redirects (Redirect)
  - classifying a User-Agent header into a browser family and version
    (ParseUserAgent, RequestUserAgent)

Every helper tolerates a nil request or response: lookups return an absent
value and mutations are silent no-ops. The package holds no state beyond two
read-only lookup tables built at init, so all functions are safe for
concurrent use.
*/
package webutil
