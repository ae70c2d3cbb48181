package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"medtrack/internal/auth"
	"medtrack/internal/config"
	"medtrack/internal/http/handler"
	mw "medtrack/internal/http/middleware"
	"medtrack/internal/medicine"
	"medtrack/internal/weight"
)

// Options carries the collaborators the router wires into handlers.
// Now is nil outside tests.
type Options struct {
	Config config.Config
	DB     *gorm.DB
	JWT    *auth.JWT
	Log    *zap.Logger
	Now    func() time.Time
}

func NewRouter(o Options) http.Handler {
	log := o.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLog(log))
	r.Use(mw.Recover(log))

	if len(o.Config.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(o.Config.CORSAllowedOrigins, o.Config.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if o.Config.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	medStore := &medicine.Store{DB: o.DB}
	weightStore := &weight.Store{DB: o.DB}

	users := &auth.Users{DB: o.DB}
	ah := &handler.AuthHandler{Users: users, JWT: o.JWT, Log: log}
	me := &handler.MeHandler{Users: users, Log: log}
	medH := &handler.MedicineHandler{Store: medStore, Log: log, Now: o.Now}
	logH := &handler.MedicineLogHandler{Store: medStore, Log: log, Now: o.Now}
	weightH := &handler.WeightHandler{Store: weightStore, Log: log, Now: o.Now}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", ah.Register)
			r.Post("/login", ah.Login)
			r.With(auth.RequireAuth(o.JWT)).Get("/me", me.Me)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(o.JWT))

			r.Route("/medicines", func(r chi.Router) {
				r.Get("/", medH.List)
				r.Post("/", medH.Create)
				r.Get("/next-doses", medH.NextDoses)

				r.Get("/{id}", medH.Get)
				r.Put("/{id}", medH.Update)
				r.Delete("/{id}", medH.Delete)
				r.Get("/{id}/next-dose", medH.NextDose)
				r.Get("/{id}/logs", medH.Logs)
			})

			r.Route("/medicine-logs", func(r chi.Router) {
				r.Get("/", logH.List)
				r.Post("/", logH.Create)
				r.Get("/today", logH.Today)
				r.Get("/adherence", logH.Adherence)

				r.Get("/{id}", logH.Get)
				r.Put("/{id}", logH.Update)
				r.Delete("/{id}", logH.Delete)
			})

			r.Route("/weights", func(r chi.Router) {
				r.Get("/", weightH.List)
				r.Post("/", weightH.Create)
				r.Get("/latest", weightH.Latest)
				r.Get("/trends", weightH.Trends)

				r.Get("/{id}", weightH.Get)
				r.Put("/{id}", weightH.Update)
				r.Delete("/{id}", weightH.Delete)
			})
		})
	})

	return r
}
