// Package main implements webkit-probe, a command-line client that
// exercises a webkit server: it accepts the cookie the server hands out,
// proves it round-trips, then asks /whoami what the server sees.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"golang.org/x/net/publicsuffix"
)

type whoami struct {
	IP      string `json:"ip"`
	URL     string `json:"url"`
	Browser string `json:"browser"`
	Version string `json:"version"`
}

func run() error {
	var (
		server   = flag.String("server", "http://localhost:8080", "server base URL")
		name     = flag.String("cookie-name", "probe", "cookie name to set")
		value    = flag.String("cookie-value", "hello", "cookie value to set")
		attempts = flag.Uint("attempts", 5, "connection attempts before giving up")
		timeout  = flag.Duration("timeout", 10*time.Second, "per-request timeout")
		backoff  = flag.Duration("max-backoff", 10*time.Second, "maximum delay between attempts")
	)
	flag.Parse()

	// Cookie jar with public suffix rules, so a rogue Domain attribute from
	// a misconfigured server is rejected the way browsers reject it.
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return fmt.Errorf("cookie jar: %w", err)
	}
	client := &http.Client{Jar: jar, Timeout: *timeout}

	ctx := context.Background()

	return retry.Do(func() error {
		return probe(ctx, client, *server, *name, *value)
	},
		retry.Context(ctx),
		retry.Attempts(*attempts),
		retry.DelayType(retry.FullJitterBackoffDelay),
		retry.MaxDelay(*backoff),
		retry.OnRetry(func(n uint, err error) {
			fmt.Fprintf(os.Stderr, "attempt %d failed: %v\n", n+1, err)
		}),
	)
}

// probe sets a cookie, verifies it round-trips through the jar, and prints
// the server's view of this client.
func probe(ctx context.Context, client *http.Client, base, name, value string) error {
	q := url.Values{"name": {name}, "value": {value}}
	if _, err := get(ctx, client, base+"/cookie/set?"+q.Encode()); err != nil {
		return fmt.Errorf("set cookie: %w", err)
	}

	body, err := get(ctx, client, base+"/cookie/get?"+url.Values{"name": {name}}.Encode())
	if err != nil {
		return fmt.Errorf("get cookie: %w", err)
	}
	if string(body) != value {
		return fmt.Errorf("cookie did not round-trip: got %q, want %q", body, value)
	}

	body, err = get(ctx, client, base+"/whoami")
	if err != nil {
		return fmt.Errorf("whoami: %w", err)
	}

	var who whoami
	if err := json.Unmarshal(body, &who); err != nil {
		return fmt.Errorf("decode whoami: %w", err)
	}

	fmt.Printf("server sees: ip=%s url=%s", who.IP, who.URL)
	if who.Browser != "" {
		fmt.Printf(" browser=%s/%s", who.Browser, who.Version)
	}
	fmt.Println()
	fmt.Printf("cookie %q round-tripped with value %q\n", name, value)
	return nil
}

func get(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", rawURL, resp.StatusCode)
	}
	return body, nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
