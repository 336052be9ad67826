package http

import (
	"log/slog"
	"net/http"
	"time"

	httpmw "github.com/cwrk-planet/course-relay/internal/transport/http/middleware"
	"github.com/cwrk-planet/course-relay/pkg/httputil"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterOptions struct {
	Log         *slog.Logger
	Metrics     httpmw.Observer
	MetricsPage http.Handler
	CORSOrigins []string
}

func NewRouter(h *Handler, ws http.HandlerFunc, opts RouterOptions) http.Handler {
	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(httputil.MiddlewareRequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(httputil.MiddlewareLogging(opts.Log))
	r.Use(middlewareChi.Recoverer)
	if opts.Metrics != nil {
		r.Use(httpmw.MetricsMiddleware(opts.Metrics))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", httputil.HeaderRequestID},
		ExposedHeaders: []string{HeaderNextCursor, httputil.HeaderRequestID},
		MaxAge:         300,
	}))

	// WS endpoint; "/" тоже апгрейдится
	r.Get("/ws", ws)
	r.Get("/", ws)

	r.Route("/api", func(api chi.Router) {
		api.Use(middlewareChi.Timeout(30 * time.Second))

		api.Post("/register", h.Register)
		api.Get("/users/{id}", h.GetUser)
		api.Post("/course", h.CreateCourse)
		api.Get("/courses", h.ListCourses)
		api.Get("/rooms", h.ListRooms)
	})

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.MetricsPage != nil {
		r.Handle("/metrics", opts.MetricsPage)
	}

	return r
}
