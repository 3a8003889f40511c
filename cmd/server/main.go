// Package main implements webkit-server, a small demonstration server for
// the webutil helpers: it reports the resolved client address and browser,
// and exposes cookie and redirect endpoints.
package main

import (
	"context"
	"crypto/tls"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/acme/autocert"

	"github.com/webfold/webkit/pkg/logger"
	"github.com/webfold/webkit/pkg/metrics"
	"github.com/webfold/webkit/pkg/security"
)

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 10 * time.Second
	idleTimeout  = 120 * time.Second
)

var (
	addr         = flag.String("addr", ":8080", "HTTP service address")
	cookieDomain = flag.String("cookie-domain", os.Getenv("WEBKIT_COOKIE_DOMAIN"), "Domain attribute for cookies written by /cookie/set")
	rateLimit    = flag.Int("rate-limit", 100, "Maximum requests per minute per IP")
	verbose      = flag.Bool("verbose", false, "Enable debug logging")
	letsencrypt  = flag.Bool("letsencrypt", false, "Use Let's Encrypt for automatic TLS certificates")
	leDomains    = flag.String("le-domains", "", "Comma-separated list of domains for Let's Encrypt certificates")
	leCacheDir   = flag.String("le-cache-dir", "./.letsencrypt", "Cache directory for Let's Encrypt certificates")
	leEmail      = flag.String("le-email", "", "Contact email for Let's Encrypt notifications")
)

func main() {
	// Best-effort: a .env file is optional outside development.
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", logger.Fields{"error": err.Error()})
	}

	flag.Parse()

	if *verbose {
		logger.SetLevel(slog.LevelDebug)
	}

	rl := security.NewRateLimiter(*rateLimit, time.Minute)
	defer rl.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/whoami", whoamiHandler)
	mux.HandleFunc("/cookie/set", setCookieHandler)
	mux.HandleFunc("/cookie/get", getCookieHandler)
	mux.HandleFunc("/cookie/clear", clearCookieHandler)
	mux.HandleFunc("/go", redirectHandler)
	mux.HandleFunc("/healthz", healthzHandler)
	mux.Handle("/metrics", metrics.Handler())

	handler := security.Middleware(rl)(mux)

	server := &http.Server{
		Addr:           *addr,
		Handler:        handler,
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		IdleTimeout:    idleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt)
		<-sigint

		logger.Info("shutting down server", nil)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown", err, nil)
		}
		close(done)
	}()

	var err error

	if *letsencrypt {
		// Let's Encrypt automatic TLS
		if *leDomains == "" {
			logger.Error("config", errMissingLEDomains, nil)
			os.Exit(1)
		}

		domains := strings.Split(*leDomains, ",")
		for i := range domains {
			domains[i] = strings.TrimSpace(domains[i])
		}

		if err := os.MkdirAll(*leCacheDir, 0o700); err != nil {
			logger.Error("create Let's Encrypt cache directory", err, logger.Fields{"dir": *leCacheDir})
			os.Exit(1)
		}

		certManager := &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(domains...),
			Cache:      autocert.DirCache(*leCacheDir),
			Email:      *leEmail,
		}

		server.Addr = ":443"
		server.TLSConfig = &tls.Config{
			GetCertificate: certManager.GetCertificate,
			MinVersion:     tls.VersionTLS12,
		}

		// HTTP server for ACME challenges; port 80 must be reachable from
		// the internet for issuance and renewal.
		go func() {
			h := certManager.HTTPHandler(nil)
			logger.Info("starting HTTP server on :80 for Let's Encrypt ACME challenges", nil)
			if err := http.ListenAndServe(":80", h); err != nil {
				logger.Error("HTTP ACME server", err, nil)
			}
		}()

		logger.Info("starting HTTPS server with Let's Encrypt", logger.Fields{"addr": server.Addr, "domains": *leDomains})
		err = server.ListenAndServeTLS("", "")
	} else {
		logger.Warn("TLS not enabled; use -letsencrypt for production", nil)
		logger.Info("starting HTTP server", logger.Fields{"addr": *addr})
		err = server.ListenAndServe()
	}

	if err != http.ErrServerClosed {
		logger.Error("server", err, nil)
		os.Exit(1)
	}

	<-done
	logger.Info("server stopped", nil)
}
