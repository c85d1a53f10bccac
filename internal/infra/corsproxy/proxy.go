// Package corsproxy runs a small forwarding proxy for local client
// development. The browser client calls http://localhost:<port>/<target-url>
// and the proxy replays the request against the target with permissive CORS
// headers on the way back, so a locally served client can talk to a SCIM
// server on another origin.
package corsproxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

const DefaultPort = 8099

// forwardedHeaders is the allow-list of request headers replayed upstream.
var forwardedHeaders = []string{
	"Authorization",
	"Accept",
	"Content-Type",
	"User-Agent",
	"If-Match",
	"If-None-Match",
}

type Server struct {
	port    int
	client  *http.Client
	log     *slog.Logger
	maxBody int64

	httpSrv *http.Server
}

type Option func(*Server)

func WithPort(port int) Option {
	return func(s *Server) { s.port = port }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) { s.maxBody = n }
}

func New(client *http.Client, opts ...Option) *Server {
	s := &Server{
		port:    DefaultPort,
		client:  client,
		log:     slog.Default(),
		maxBody: 4 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListenAndServe blocks until ctx is canceled, then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		err := s.httpSrv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return <-errCh
	case err := <-errCh:
		return err
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort("localhost", fmt.Sprintf("%d", s.port))
}

func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			s.preflight(w)
			return
		}
		s.forward(w, r)
	})
}

func (s *Server) preflight(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, PUT, PATCH, DELETE")
	h.Set("Access-Control-Allow-Headers", "*")
	w.WriteHeader(http.StatusOK)
}

func (s *Server) forward(w http.ResponseWriter, r *http.Request) {
	target := strings.TrimPrefix(r.RequestURI, "/")
	start := time.Now()

	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		s.fail(w, http.StatusBadRequest, fmt.Sprintf("target must be an absolute URL, got %q", target))
		return
	}

	var body io.Reader
	if r.Body != nil {
		body = io.LimitReader(r.Body, s.maxBody)
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, body)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err.Error())
		return
	}

	for _, h := range forwardedHeaders {
		if v := r.Header.Get(h); v != "" {
			req.Header.Set(h, v)
		}
	}

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Warn("corsproxy.upstream_error",
			"method", r.Method, "target", target,
			"elapsed_ms", time.Since(start).Milliseconds(), "err", err.Error())
		s.fail(w, http.StatusBadGateway, err.Error())
		return
	}
	defer resp.Body.Close()

	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	for k, vals := range resp.Header {
		// The body is re-sent decoded; a stale encoding header would
		// corrupt it.
		if strings.EqualFold(k, "Content-Encoding") {
			continue
		}
		for _, v := range vals {
			h.Add(k, v)
		}
	}

	w.WriteHeader(resp.StatusCode)
	n, _ := io.Copy(w, resp.Body)

	s.log.Info("corsproxy.forwarded",
		"method", r.Method, "target", target, "status", resp.StatusCode,
		"bytes", n, "elapsed_ms", time.Since(start).Milliseconds())
}

func (s *Server) fail(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, msg)
}
