package httpapi

import (
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"rescue/internal/http/handlers"
	"rescue/internal/middleware"
)

// Options carries the router settings that come from configuration.
type Options struct {
	Logger          zerolog.Logger
	DefaultLocale   string
	CountryLookup   middleware.CountryLookup
	AllowedOrigins  []string
	RateLimitPerMin int
	// StaticDir is served under /static when set.
	StaticDir string
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
		middleware.RateLimit(opts.RateLimitPerMin, time.Minute),
		middleware.I18N(opts.DefaultLocale, opts.CountryLookup),
	)

	requireAuth := middleware.AuthJWT(app.Identity)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)
		r.Get("/openapi.json", app.OpenAPIJSON)
		r.Get("/docs", app.OpenAPIDocs)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", app.AuthRegister)
			r.Post("/login", app.AuthLogin)
			r.With(requireAuth).Post("/logout", app.AuthLogout)
		})
		r.With(requireAuth).Get("/me", app.Me)

		r.Route("/cases", func(r chi.Router) {
			r.Get("/", app.CasesList)
			r.With(requireAuth).Post("/", app.CasesCreate)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", app.CasesGet)
				r.Get("/donations", app.DonationsList)
				r.With(requireAuth).Post("/donations", app.DonationsCreate)
			})
		})
		r.Get("/stats", app.StatsSummary)
	})

	if opts.StaticDir != "" {
		static := http.StripPrefix("/static/", http.FileServer(filesOnly{http.Dir(opts.StaticDir)}))
		r.Get("/static/*", static.ServeHTTP)
	}

	return r
}

// filesOnly serves regular files and reports directories as missing, so
// /static never lists the stored image keys.
type filesOnly struct {
	root http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.root.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}
