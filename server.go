package main

import (
    "context"
    "crypto/tls"
    "encoding/json"
    "errors"
    "fmt"
    "net"
    "net/http"
    "strconv"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "golang.org/x/sync/errgroup"
)

// Response bodies for /on and /off.  Clients match on these exact strings.
const (
    msgSuccess   = "Success!"
    msgInvalidID = "Invalid id!"
    msgError     = "Error!"
)

// Server exposes the controller over HTTP.
type Server struct {
    cfg        *Config
    controller *Controller
    logger     *Logger
    metrics    *Metrics
}

// NewServer wires the HTTP layer to controller.  metrics may be nil, in
// which case no metrics listener is started.
func NewServer(cfg *Config, controller *Controller, logger *Logger, metrics *Metrics) *Server {
    return &Server{
        cfg:        cfg,
        controller: controller,
        logger:     logger.With("component", "http"),
        metrics:    metrics,
    }
}

// Handler builds the router.  Anything not listed here, including a known
// path with the wrong method, is a 404 with an empty body.
func (s *Server) Handler() http.Handler {
    r := chi.NewRouter()

    r.Use(middleware.RequestID)
    r.Use(s.loggingMiddleware)
    r.Use(s.recoveryMiddleware)

    r.Get("/", s.handleRoot)
    r.Get("/status", s.handleStatus)
    r.Get("/on", s.handleCommand(true))
    r.Get("/off", s.handleCommand(false))

    r.NotFound(notFound)
    r.MethodNotAllowed(notFound)
    return r
}

// Run serves until ctx is cancelled, then shuts the listeners down within
// http.shutdown_timeout.  It returns the first listener error, if any.
func (s *Server) Run(ctx context.Context) error {
    ln, err := net.Listen("tcp", s.cfg.HTTP.Listen)
    if err != nil {
        return err
    }
    var mln net.Listener
    if s.metrics != nil && s.cfg.Metrics.Listen != "" {
        if mln, err = net.Listen("tcp", s.cfg.Metrics.Listen); err != nil {
            _ = ln.Close()
            return err
        }
    }

    srv := &http.Server{
        Handler:      s.Handler(),
        ReadTimeout:  s.cfg.HTTP.ReadTimeout,
        WriteTimeout: s.cfg.HTTP.WriteTimeout,
    }
    servers := []*http.Server{srv}

    g, gctx := errgroup.WithContext(ctx)
    g.Go(func() error {
        if s.cfg.TLSEnabled() {
            srv.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
            s.logger.Info("listening", "addr", "https://"+ln.Addr().String())
            return ignoreClosed(srv.ServeTLS(ln, s.cfg.HTTP.CertFile, s.cfg.HTTP.KeyFile))
        }
        s.logger.Info("listening", "addr", "http://"+ln.Addr().String())
        return ignoreClosed(srv.Serve(ln))
    })

    if mln != nil {
        mux := http.NewServeMux()
        mux.Handle("/metrics", s.metrics.Handler())
        msrv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
        servers = append(servers, msrv)
        g.Go(func() error {
            s.logger.Info("metrics listening", "addr", "http://"+mln.Addr().String()+"/metrics")
            return ignoreClosed(msrv.Serve(mln))
        })
    }

    g.Go(func() error {
        <-gctx.Done()
        shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.HTTP.ShutdownTimeout)
        defer cancel()
        var errs []error
        for _, hs := range servers {
            errs = append(errs, hs.Shutdown(shutdownCtx))
        }
        s.logger.Info("http server stopped")
        return errors.Join(errs...)
    })
    return g.Wait()
}

func ignoreClosed(err error) error {
    if errors.Is(err, http.ErrServerClosed) {
        return nil
    }
    return err
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
    w.Header().Set("Location", "/status")
    w.WriteHeader(http.StatusFound)
}

// handleStatus returns every outlet with its cached state.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
    w.Header().Set("Content-Type", "application/json")
    if err := json.NewEncoder(w).Encode(OutletList{Outlets: s.controller.Outlets()}); err != nil {
        s.logger.Warn("write status response", "error", err)
    }
}

// handleCommand returns the handler for /on (desired=true) and /off.  Every
// invalid id maps to the same response; hardware failures are logged with
// their cause and reported as a bare "Error!".
func (s *Server) handleCommand(desired bool) http.HandlerFunc {
    action := actionName(desired)
    return func(w http.ResponseWriter, r *http.Request) {
        reqID := middleware.GetReqID(r.Context())
        id, err := parseOutletID(r)
        if err == nil {
            err = s.controller.Command(id, desired)
        }
        switch {
        case err == nil:
            s.logger.Info("outlet command", "action", action, "outlet", id, "request_id", reqID)
            writeText(w, msgSuccess)
        case isInvalidID(err):
            s.logger.Warn("rejected outlet command", "action", action, "error", err, "request_id", reqID)
            writeText(w, msgInvalidID)
        default:
            s.logger.Error("outlet command failed", "action", action, "outlet", id, "error", err, "request_id", reqID)
            writeText(w, msgError)
        }
    }
}

// parseOutletID extracts the id query parameter shared by /on and /off.
func parseOutletID(r *http.Request) (uint, error) {
    q := r.URL.Query()
    if !q.Has("id") {
        return 0, ErrMissingParameter
    }
    raw := q.Get("id")
    id, err := strconv.ParseUint(raw, 10, strconv.IntSize)
    if err != nil {
        return 0, fmt.Errorf("%w %q: %w", ErrMalformedParameter, raw, err)
    }
    return uint(id), nil
}

func writeText(w http.ResponseWriter, msg string) {
    w.Header().Set("Content-Type", "text/plain; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write([]byte(msg))
}

func notFound(w http.ResponseWriter, _ *http.Request) {
    w.WriteHeader(http.StatusNotFound)
}

// loggingMiddleware logs each request with method, path, status and
// duration.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()
        ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
        next.ServeHTTP(ww, r)
        s.logger.Debug("http request",
            "method", r.Method,
            "path", r.URL.Path,
            "status", ww.Status(),
            "duration_ms", time.Since(start).Milliseconds(),
            "request_id", middleware.GetReqID(r.Context()),
        )
    })
}

// recoveryMiddleware turns a handler panic into an empty 500.
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        defer func() {
            if rec := recover(); rec != nil {
                if rec == http.ErrAbortHandler {
                    panic(rec)
                }
                s.logger.Error("panic recovered in HTTP handler",
                    "panic", rec,
                    "method", r.Method,
                    "path", r.URL.Path,
                    "request_id", middleware.GetReqID(r.Context()),
                )
                w.WriteHeader(http.StatusInternalServerError)
            }
        }()
        next.ServeHTTP(w, r)
    })
}
