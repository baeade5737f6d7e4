// Package httpapi is the token server's HTTP surface: signup, login and
// token check under /api, Prometheus metrics and the static front-end.
package httpapi

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophgallery/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes caps signup and login bodies.
const maxBodyBytes = 64 << 10

type Options struct {
	// StaticDir is served for every non-API path, with index.html as the
	// fallback. Empty disables static serving.
	StaticDir string

	// Registry receives the HTTP metrics and is exposed on /metrics. Nil
	// disables both.
	Registry *prometheus.Registry
}

func NewRouter(auth Authenticator, log logging.Logger, opts Options) http.Handler {
	h := &handlers{auth: auth, log: log}

	var reg prometheus.Registerer
	if opts.Registry != nil {
		reg = opts.Registry
	}
	metrics := NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))
	r.Use(metrics.Middleware)
	r.Use(allowCORS)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequestSize(maxBodyBytes))
		r.Post("/signup", h.signUp)
		r.Post("/login", h.login)
		r.Get("/check", h.check)
	})

	if opts.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	}

	r.NotFound(staticHandler(opts.StaticDir))
	r.MethodNotAllowed(methodNotAllowed)

	return r
}

func isAPIPath(p string) bool {
	return p == "/api" || strings.HasPrefix(p, "/api/")
}

// methodNotAllowed answers a known path hit with the wrong method. API
// clients see the same JSON 404 as for an unknown route.
func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if isAPIPath(r.URL.Path) {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}

// staticHandler answers unmatched routes. Unknown /api paths get a JSON 404;
// everything else is a file from dir or, failing that, dir/index.html.
func staticHandler(dir string) http.HandlerFunc {
	files := http.FileServer(http.Dir(dir))

	return func(w http.ResponseWriter, r *http.Request) {
		if isAPIPath(r.URL.Path) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		if dir == "" || (r.Method != http.MethodGet && r.Method != http.MethodHead) {
			http.NotFound(w, r)
			return
		}

		p := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			files.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	}
}
