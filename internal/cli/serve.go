package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/chartoverlay/pkg/buildinfo"
	"github.com/matzehuels/chartoverlay/pkg/cache"
	"github.com/matzehuels/chartoverlay/pkg/errors"
	"github.com/matzehuels/chartoverlay/pkg/observability"
	"github.com/matzehuels/chartoverlay/pkg/scene"
)

const (
	defaultAddr       = "127.0.0.1:8080"
	shutdownTimeout   = 5 * time.Second
	requestIDHeader   = "X-Request-Id"
	readHeaderTimeout = 5 * time.Second
)

type serveOpts struct {
	addr    string
	noCache bool
}

func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: defaultAddr}

	cmd := &cobra.Command{
		Use:   "serve [scene.toml]",
		Short: "Serve scene frames over HTTP",
		Long: `Serve renders frames of the scene on request:

  GET /frame.svg?item=N   SVG frame with row N hovered (omit item for none)
  GET /frame.png?item=N   PNG frame
  GET /scene              scene summary as JSON
  GET /healthz            liveness probe

Frames are cached; set CHARTOVERLAY_REDIS_URL to share the cache between
instances.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the frame cache")

	return cmd
}

func runServe(ctx context.Context, input string, opts serveOpts) error {
	logger := loggerFromContext(ctx)

	c, err := newCache(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer c.Close()

	fs, err := loadFrames(input, c)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           newRouter(logger, fs),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logger.Infof("Serving %s on http://%s", input, opts.addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newRouter wires the frame endpoints. Every request carries a request id
// and a logger tagged with it.
func newRouter(logger *log.Logger, fs *frames) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/scene", sceneHandler(fs))
	r.Get("/frame.svg", frameHandler(fs, formatSVG))
	r.Get("/frame.png", frameHandler(fs, formatPNG))
	return r
}

func requestLogger(base *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, id)
			w.Header().Set("Server", buildinfo.UserAgent())

			l := base.With("request_id", id)
			ctx := withLogger(r.Context(), l)
			hooks := observability.Server()
			hooks.OnRequest(ctx, id, r.Method, r.URL.Path)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			hooks.OnResponse(ctx, id, status, time.Since(start))
			l.Debug("Request", "method", r.Method, "path", r.URL.RequestURI(), "status", status, "bytes", ww.BytesWritten(), "took", time.Since(start).Round(time.Microsecond))
		})
	}
}

var contentTypes = map[string]string{
	formatSVG: "image/svg+xml",
	formatPNG: "image/png",
}

func frameHandler(fs *frames, format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := parseItem(r.URL.Query().Get("item"), fs.items())
		if err != nil {
			writeError(w, r, err)
			return
		}
		data, hit, err := fs.render(r.Context(), format, item)
		if err != nil {
			writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", contentTypes[format])
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("ETag", strconv.Quote(cache.Hash(data)[:16]))
		if hit {
			w.Header().Set("X-Cache", "hit")
		} else {
			w.Header().Set("X-Cache", "miss")
		}
		_, _ = w.Write(data)
	}
}

// sceneSummary is the /scene response.
type sceneSummary struct {
	Title    string   `json:"title,omitempty"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	Ratio    float64  `json:"ratio"`
	Items    int      `json:"items"`
	Columns  []string `json:"columns"`
	Digest   string   `json:"digest"`
	Overlays []string `json:"overlays"`
}

func sceneHandler(fs *frames) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		sum := sceneSummary{
			Title:   fs.cfg.Title,
			Width:   fs.cfg.Width,
			Height:  fs.cfg.Height,
			Ratio:   fs.ratio(),
			Items:   fs.items(),
			Columns: fs.cfg.Data.Columns,
			Digest:  fs.digest,
		}
		for _, o := range fs.scene.Ordered() {
			sum.Overlays = append(sum.Overlays, scene.Kind(o))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sum)
	}
}

// parseItem reads the item query parameter. Empty means nothing hovered.
func parseItem(s string, n int) (int, error) {
	if s == "" {
		return -1, nil
	}
	item, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "item %q is not an integer", s)
	}
	if item < -1 || item >= n {
		return 0, errors.New(errors.ErrCodeInvalidInput, "item %d out of range (%d rows)", item, n)
	}
	return item, nil
}

// statusFor maps error codes onto HTTP statuses.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeMissingInput, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		loggerFromContext(r.Context()).Error("Frame failed", "err", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"code":  string(errors.GetCode(err)),
		"error": errors.UserMessage(err),
	})
}
