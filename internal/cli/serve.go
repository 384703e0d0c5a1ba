package cli

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/objectgrid/pkg/buildinfo"
	"github.com/matzehuels/objectgrid/pkg/cache"
	"github.com/matzehuels/objectgrid/pkg/collection"
	"github.com/matzehuels/objectgrid/pkg/errors"
	"github.com/matzehuels/objectgrid/pkg/observability"
	"github.com/matzehuels/objectgrid/pkg/pipeline"
	"github.com/matzehuels/objectgrid/pkg/scene"
)

// serveKeyPrefix keeps server entries apart from CLI entries in a shared cache.
const serveKeyPrefix = "serve:"

// serveCommand creates the serve command for the HTTP layout API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layouts over HTTP",
		Long: `Serve layouts over HTTP.

Endpoints:
  POST /v1/layout   scene in the body (TOML, or JSON with Content-Type:
                    application/json); returns the layout JSON
  GET  /healthz     liveness check

Collection settings can be overridden with query parameters named like the
scene's [collection] keys, e.g. /v1/layout?surface=sphere&rows=4. The seed,
passes, refresh and name parameters are also accepted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.Settings.Serve.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", DefaultSettings().Serve.Addr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

// runServe serves until ctx is cancelled, then shuts down gracefully.
func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	srv, err := c.newServer(ctx, noCache)
	if err != nil {
		return err
	}
	defer srv.runner.Close()
	observability.SetHTTPHooks(requestLogger{c.Logger})

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	httpSrv := &http.Server{
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- httpSrv.Serve(ln) }()
	c.Logger.Info("serving layouts", "addr", ln.Addr().String(), "version", buildinfo.ResolvedVersion())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c.Logger.Info("shutting down")
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// =============================================================================
// Server
// =============================================================================

type server struct {
	runner  *pipeline.Runner
	base    collection.Config
	seed    uint64
	passes  int
	maxBody int64
	timeout time.Duration
	logger  *log.Logger
}

func (c *CLI) newServer(ctx context.Context, noCache bool) (*server, error) {
	base, err := c.Settings.Collection.Config()
	if err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}
	runner, err := c.newRunner(ctx, noCache, cache.NewScopedKeyer(nil, serveKeyPrefix))
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	return &server{
		runner:  runner,
		base:    base,
		seed:    c.Settings.Seed,
		passes:  c.Settings.Passes,
		maxBody: c.Settings.Serve.MaxBodyBytes,
		timeout: c.Settings.Serve.Timeout,
		logger:  c.Logger,
	}, nil
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(observe)
	r.Use(middleware.Recoverer)
	if s.timeout > 0 {
		r.Use(middleware.Timeout(s.timeout))
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
	})
	return r
}

// observe reports every request to the HTTP hooks, labelled with its route
// pattern once routing is done.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, path, status, time.Since(start))
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.ResolvedVersion(),
	})
}

func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.options(r)
	if err != nil {
		writeError(w, err)
		return
	}

	body := r.Body
	if s.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, s.maxBody)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{
				Error: fmt.Sprintf("scene exceeds %d bytes", tooLarge.Limit),
				Code:  errors.ErrCodeInvalidScene,
			})
			return
		}
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	opts.Scene = data

	res, err := s.runner.Layout(r.Context(), opts)
	if err != nil {
		s.logger.Debug("layout request failed", "request_id", middleware.GetReqID(r.Context()), "err", err)
		writeError(w, err)
		return
	}

	status := "miss"
	if res.CacheHit {
		status = "hit"
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Objectgrid-Cache", status)
	w.Header().Set("X-Objectgrid-Scene-Hash", res.SceneHash)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Data)
}

// options builds pipeline options from the request's content type and
// query parameters.
func (s *server) options(r *http.Request) (pipeline.Options, error) {
	q := r.URL.Query()
	opts := pipeline.Options{
		Format: scene.FormatTOML,
		Name:   q.Get("name"),
		Base:   s.base,
		Seed:   s.seed,
		Passes: s.passes,
		Logger: s.logger,
	}
	if f := q.Get("format"); f != "" {
		opts.Format = scene.Format(f)
	} else if ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); ct == "application/json" {
		opts.Format = scene.FormatJSON
	}
	if opts.Format != scene.FormatTOML && opts.Format != scene.FormatJSON {
		return opts, errors.New(errors.ErrCodeInvalidInput, "format must be toml or json, got %q", opts.Format)
	}

	o := &opts.Overrides
	o.Surface = q.Get("surface")
	o.Sort = q.Get("sort")
	o.Orient = q.Get("orient")
	o.Layout = q.Get("layout")

	var err error
	if o.Rows, err = queryInt(q.Get("rows"), "rows"); err != nil {
		return opts, err
	}
	if o.CellWidth, err = queryFloat(q.Get("cell_width"), "cell_width"); err != nil {
		return opts, err
	}
	if o.CellHeight, err = queryFloat(q.Get("cell_height"), "cell_height"); err != nil {
		return opts, err
	}
	if o.Radius, err = queryFloat(q.Get("radius"), "radius"); err != nil {
		return opts, err
	}
	if v := q.Get("ignore_inactive"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "ignore_inactive must be a boolean, got %q", v)
		}
		o.IgnoreInactive = &b
	}

	if v := q.Get("seed"); v != "" {
		if opts.Seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "seed must be an unsigned integer, got %q", v)
		}
	}
	if passes, err := queryInt(q.Get("passes"), "passes"); err != nil {
		return opts, err
	} else if passes != nil {
		opts.Passes = *passes
	}
	if v := q.Get("refresh"); v != "" {
		if opts.Refresh, err = strconv.ParseBool(v); err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "refresh must be a boolean, got %q", v)
		}
	}
	return opts, nil
}

func queryInt(v, name string) (*int, error) {
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", name, v)
	}
	return &n, nil
}

func queryFloat(v, name string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s must be a number, got %q", name, v)
	}
	return &f, nil
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

// writeError maps coded errors to client errors and anything else to 500.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch {
	case errors.IsConfig(err), code == errors.ErrCodeInvalidInput, code == errors.ErrCodeInvalidScene:
		status = http.StatusBadRequest
	case code == errors.ErrCodeNotFound, code == errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case stderrors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	writeJSON(w, status, errorBody{Error: err.Error(), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// =============================================================================
// Request Logging
// =============================================================================

// requestLogger reports HTTP traffic through the CLI logger.
type requestLogger struct {
	logger *log.Logger
}

func (requestLogger) OnRequest(context.Context, string, string) {}

func (l requestLogger) OnResponse(ctx context.Context, method, path string, status int, d time.Duration) {
	l.logger.Info("request",
		"method", method,
		"path", path,
		"status", status,
		"duration", d.Round(time.Microsecond),
		"request_id", middleware.GetReqID(ctx))
}

var _ observability.HTTPHooks = requestLogger{}
