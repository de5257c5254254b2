package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Beka01247/kwaaka-menu/internal/queue"
	"github.com/Beka01247/kwaaka-menu/internal/ratelimiter"
	"github.com/Beka01247/kwaaka-menu/internal/service"
	"github.com/Beka01247/kwaaka-menu/internal/store/mongo"
	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// backgroundWorker is a queue consumer started with the server.
type backgroundWorker interface {
	Start() error
	Stop()
}

type application struct {
	config            config
	logger            *zap.SugaredLogger
	rateLimiter       ratelimiter.Limiter
	storage           *mongo.Storage
	broker            queue.Broker
	catalogService    *service.CatalogService
	publishingService *service.PublishingService
	importService     *service.ImportService
	workers           []backgroundWorker
}

type config struct {
	addr        string
	env         string
	rateLimiter ratelimiter.Config
	mongo       mongoConfig
	rabbitMQ    rabbitMQConfig
	googleCreds string
}

type mongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type rabbitMQConfig struct {
	URL           string
	MaxRetries    int
	RetryDelay    time.Duration
	PrefetchCount int
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.rateLimiterMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)

		r.Route("/tenants/{tenant_id}", func(r chi.Router) {
			r.Post("/imports", app.createParseTaskHandler)
			r.Get("/imports/{task_id}", app.getParseTaskHandler)

			r.Post("/menus", app.createMenuHandler)
			r.Get("/menus", app.listMenusHandler)

			r.Route("/menus/{menu_id}", func(r chi.Router) {
				r.Get("/", app.getMenuHandler)
				r.Patch("/", app.updateMenuHandler)
				r.Post("/archive", app.archiveMenuHandler)
				r.Post("/restore", app.restoreMenuHandler)
				r.Get("/events", app.getMenuEventsHandler)

				r.Post("/publish", app.publishMenuHandler)
				r.Get("/versions/{version}", app.getMenuVersionHandler)

				r.Post("/categories", app.addCategoryHandler)
				r.Put("/categories/order", app.reorderCategoriesHandler)

				r.Route("/categories/{category_id}", func(r chi.Router) {
					r.Put("/", app.updateCategoryHandler)
					r.Delete("/", app.removeCategoryHandler)
					r.Post("/archive", app.archiveCategoryHandler)
					r.Post("/restore", app.restoreCategoryHandler)

					r.Post("/items", app.addItemHandler)
					r.Put("/items/order", app.reorderItemsHandler)

					r.Route("/items/{item_id}", func(r chi.Router) {
						r.Delete("/", app.removeItemHandler)
						r.Put("/details", app.updateItemDetailsHandler)
						r.Put("/pricing", app.updateItemPricingHandler)
						r.Put("/tags", app.updateItemTagsHandler)
						r.Put("/availability", app.updateItemAvailabilityHandler)
						r.Put("/inventory", app.updateItemInventoryHandler)
						r.Post("/inventory/adjust", app.adjustInventoryHandler)
					})
				})
			})
		})

		r.Route("/public/tenants/{tenant_id}", func(r chi.Router) {
			r.Get("/menu", app.getPublishedMenuHandler)
			r.Get("/menus/{menu_id}", app.getPublishedMenuHandler)
			r.Get("/menus/{menu_id}/versions/{version}", app.getMenuVersionHandler)
		})
	})

	return r
}

func (app *application) rateLimiterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !app.config.rateLimiter.Enabled || app.rateLimiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		client := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			client = host
		}

		if allow, retryAfter := app.rateLimiter.Allow(client); !allow {
			app.rateLimitExceededResponse(w, r, retryAfter)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (app *application) startWorkers() error {
	var g errgroup.Group
	for _, w := range app.workers {
		g.Go(w.Start)
	}
	return g.Wait()
}

func (app *application) stopWorkers() {
	for _, w := range app.workers {
		w.Stop()
	}
}

func (app *application) run(mux http.Handler) error {
	if err := app.startWorkers(); err != nil {
		app.stopWorkers()
		return fmt.Errorf("failed to start workers: %w", err)
	}

	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		app.stopWorkers()

		if app.storage != nil {
			if err := app.storage.Close(ctx); err != nil {
				app.logger.Errorw("error closing MongoDB", "error", err)
			} else {
				app.logger.Info("MongoDB connection closed gracefully")
			}
		}

		if app.broker != nil {
			if err := app.broker.Close(); err != nil {
				app.logger.Errorw("error closing RabbitMQ", "error", err)
			} else {
				app.logger.Info("RabbitMQ connection closed gracefully")
			}
		}

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server have started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
