package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/calebmori/gatherly/internal/infrastructure/auth"
	"github.com/calebmori/gatherly/internal/infrastructure/configs"
	"github.com/calebmori/gatherly/internal/infrastructure/metrics"
	"github.com/calebmori/gatherly/internal/infrastructure/ratelimiter"
	eventsHandler "github.com/calebmori/gatherly/internal/presentation/handler/events"
	healthHandler "github.com/calebmori/gatherly/internal/presentation/handler/health"
	realtimeHandler "github.com/calebmori/gatherly/internal/presentation/handler/realtime"
	usersHandler "github.com/calebmori/gatherly/internal/presentation/handler/users"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

type Application struct {
	config          configs.Config
	eventsHandler   *eventsHandler.Handler
	usersHandler    *usersHandler.Handler
	healthHandler   *healthHandler.Handler
	realtimeHandler *realtimeHandler.Handler
	tokenManager    *auth.TokenManager
	logger          *zap.SugaredLogger
	ratelimiter     ratelimiter.Limiter
	metrics         *metrics.Metrics
}

func NewApplication(
	config configs.Config,
	eventsHandler *eventsHandler.Handler,
	usersHandler *usersHandler.Handler,
	healthHandler *healthHandler.Handler,
	realtimeHandler *realtimeHandler.Handler,
	tokenManager *auth.TokenManager,
	logger *zap.SugaredLogger,
	ratelimiter ratelimiter.Limiter,
	metrics *metrics.Metrics,
) *Application {
	return &Application{
		config:          config,
		eventsHandler:   eventsHandler,
		usersHandler:    usersHandler,
		healthHandler:   healthHandler,
		realtimeHandler: realtimeHandler,
		tokenManager:    tokenManager,
		logger:          logger,
		ratelimiter:     ratelimiter,
		metrics:         metrics,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(app.rateLimiterMiddleware)
	r.Use(app.enableCors)
	r.Use(app.metricsMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Route("/events", func(r chi.Router) {
			r.Get("/", app.eventsHandler.ListEventsHandler)
			r.Get("/{eventId}", app.eventsHandler.GetEventHandler)

			r.Group(func(r chi.Router) {
				r.Use(app.requireAuth)

				r.Post("/", app.eventsHandler.CreateEventHandler)
				r.Put("/{eventId}", app.eventsHandler.UpdateEventHandler)
				r.Delete("/{eventId}", app.eventsHandler.DeleteEventHandler)
				r.Post("/{eventId}/join", app.eventsHandler.JoinEventHandler)
				r.Post("/{eventId}/leave", app.eventsHandler.LeaveEventHandler)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/signup", app.usersHandler.SignupHandler)
			r.Post("/login", app.usersHandler.LoginHandler)
		})

		r.Get("/ws", app.realtimeHandler.ServeWS)

		r.Get("/health", app.healthHandler.GetHealth)
		r.Get("/healthz", app.healthHandler.GetHealth)
		r.Get("/ready", app.healthHandler.GetHealth)
		r.Get("/live", app.healthHandler.GetHealth)
	})

	r.Handle("/metrics", app.metrics.Handler())

	return r
}

func (app *Application) Run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", app.config.HTTP.Host, app.config.HTTP.Port),
		Handler:      otelhttp.NewHandler(mux, "gatherly-api"),
		WriteTimeout: app.config.HTTP.WriteTimeout,
		ReadTimeout:  app.config.HTTP.ReadTimeout,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", srv.Addr)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", srv.Addr)

	return nil
}
