package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/kitcomfeedback-cell/kitchen-store/cache"
	"github.com/kitcomfeedback-cell/kitchen-store/catalog"
	"github.com/kitcomfeedback-cell/kitchen-store/config"
	"github.com/kitcomfeedback-cell/kitchen-store/engine"
	"github.com/kitcomfeedback-cell/kitchen-store/metrics"
	"github.com/kitcomfeedback-cell/kitchen-store/middleware"
	"github.com/kitcomfeedback-cell/kitchen-store/models"
	"github.com/kitcomfeedback-cell/kitchen-store/routes/ecommerce_routes"
	"github.com/kitcomfeedback-cell/kitchen-store/search"
	"github.com/kitcomfeedback-cell/kitchen-store/session"
	"github.com/kitcomfeedback-cell/kitchen-store/storefront"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the storefront HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx, settings, logger)
	},
}

// backend is everything the API depends on, built from settings.
type backend struct {
	catalog *cache.CatalogCache
	service *storefront.Service
	redis   *redis.Client
	db      *config.Database
	stamper catalog.Stamper
}

func (b *backend) close(log *zap.Logger) {
	if b.redis != nil {
		_ = b.redis.Close()
	}
	b.db.Close(log)
}

func newBackend(ctx context.Context, s config.Settings, log *zap.Logger, m *metrics.Metrics) (*backend, error) {
	b := &backend{}

	var source catalog.Source
	switch s.CatalogSource {
	case config.CatalogFromDB:
		connectCtx, cancel := config.WithTimeout()
		defer cancel()
		db, err := config.ConnectDB(connectCtx, s, log)
		if err != nil {
			return nil, err
		}
		b.db = db
		source = catalog.DBSource{DB: db.Gorm}
		b.stamper = catalog.PgxStamp{DB: db.Pool}
	default:
		source = catalog.FileSource{Path: s.CatalogPath}
	}
	b.catalog = cache.NewCatalogCache(source, s.CatalogTTL, log)

	var store session.Store
	if s.RedisURL != "" {
		client, err := config.ConnectRedis(ctx, s.RedisURL, log)
		if err != nil {
			b.close(log)
			return nil, err
		}
		b.redis = client
		store = session.NewRedisStore(client, s.SessionTTL)
	} else {
		log.Warn("REDIS_URL not set, keeping tab sessions in memory")
		store = session.NewMemoryStore(s.MaxTabs, s.SessionTTL)
	}

	eng := engine.New(search.NewIndex(log, m), engine.Options{
		PriceRanges: s.PriceRanges,
		Metrics:     m,
		Log:         log,
	})
	b.service = storefront.NewService(b.catalog, eng, store, storefront.Options{
		SearchDelay:     s.SearchDelay,
		RestoreAttempts: s.RestoreAttempts,
		RestoreInterval: s.RestoreInterval,
		Log:             log,
		Metrics:         m,
	})
	return b, nil
}

func newRouter(s config.Settings, b *backend, reg *prometheus.Registry, log *zap.Logger) *gin.Engine {
	if s.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.ActivityLogging(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     s.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.TabHeader},
		ExposeHeaders:    []string{middleware.TabHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	router.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := config.WithCustomTimeout(2 * time.Second)
		defer cancel()
		if b.redis != nil {
			if err := b.redis.Ping(ctx).Err(); err != nil {
				c.JSON(http.StatusServiceUnavailable, models.ErrorResponse(c, "redis unavailable"))
				return
			}
		}
		if _, err := b.catalog.Get(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, models.ErrorResponse(c, "catalog unavailable"))
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(c, "ok", nil))
	})

	api := router.Group("/api/v1")
	deps := ecommerce_routes.StorefrontDeps{
		Service:    b.service,
		Log:        log,
		RateLimit:  s.RateLimit,
		RateWindow: s.RateWindow,
	}
	if b.redis != nil {
		deps.Redis = b.redis
	}
	ecommerce_routes.SetupStorefrontRoutes(api, deps)
	return router
}

func serve(ctx context.Context, s config.Settings, log *zap.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	b, err := newBackend(ctx, s, log, m)
	if err != nil {
		return err
	}
	defer b.close(log)

	// warm the catalog so a broken source fails startup
	if _, err := b.catalog.Get(ctx); err != nil {
		return err
	}
	if b.stamper != nil && s.CatalogPoll > 0 {
		go b.catalog.Watch(ctx, b.stamper, s.CatalogPoll)
	}

	srv := &http.Server{
		Addr:              ":" + s.Port,
		Handler:           newRouter(s, b, reg, log),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("server is running", zap.String("addr", "http://localhost:"+s.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down")
	shutdownCtx, cancel := config.WithCustomTimeout(10 * time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
