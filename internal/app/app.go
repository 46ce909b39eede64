package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cartevent "github.com/meryemgkrt/food-ordering/internal/cart/event"
	carthttp "github.com/meryemgkrt/food-ordering/internal/cart/handler/http"
	cartredis "github.com/meryemgkrt/food-ordering/internal/cart/repository/redis"
	cartservice "github.com/meryemgkrt/food-ordering/internal/cart/service"
	catalogevent "github.com/meryemgkrt/food-ordering/internal/catalog/event"
	cataloghttp "github.com/meryemgkrt/food-ordering/internal/catalog/handler/http"
	catalogpg "github.com/meryemgkrt/food-ordering/internal/catalog/repository/postgres"
	catalogservice "github.com/meryemgkrt/food-ordering/internal/catalog/service"
	"github.com/meryemgkrt/food-ordering/internal/config"
	contenthttp "github.com/meryemgkrt/food-ordering/internal/content/handler/http"
	contentpg "github.com/meryemgkrt/food-ordering/internal/content/repository/postgres"
	contentservice "github.com/meryemgkrt/food-ordering/internal/content/service"
	mediaevent "github.com/meryemgkrt/food-ordering/internal/media/event"
	mediahttp "github.com/meryemgkrt/food-ordering/internal/media/handler/http"
	mediapg "github.com/meryemgkrt/food-ordering/internal/media/repository/postgres"
	mediaservice "github.com/meryemgkrt/food-ordering/internal/media/service"
	"github.com/meryemgkrt/food-ordering/internal/media/storage/cdn"
	orderevent "github.com/meryemgkrt/food-ordering/internal/order/event"
	orderhttp "github.com/meryemgkrt/food-ordering/internal/order/handler/http"
	orderpg "github.com/meryemgkrt/food-ordering/internal/order/repository/postgres"
	orderservice "github.com/meryemgkrt/food-ordering/internal/order/service"
	"github.com/meryemgkrt/food-ordering/internal/user/auth"
	userevent "github.com/meryemgkrt/food-ordering/internal/user/event"
	userhttp "github.com/meryemgkrt/food-ordering/internal/user/handler/http"
	userpg "github.com/meryemgkrt/food-ordering/internal/user/repository/postgres"
	userservice "github.com/meryemgkrt/food-ordering/internal/user/service"
	"github.com/meryemgkrt/food-ordering/migrations"
	"github.com/meryemgkrt/food-ordering/pkg/database"
	"github.com/meryemgkrt/food-ordering/pkg/health"
	"github.com/meryemgkrt/food-ordering/pkg/httpclient"
	pkgkafka "github.com/meryemgkrt/food-ordering/pkg/kafka"
	"github.com/meryemgkrt/food-ordering/pkg/middleware"
	"github.com/meryemgkrt/food-ordering/pkg/tracing"
)

const serviceName = "food-ordering"

// App wires together all dependencies and runs the server.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	redisClient    *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		SampleRate:     cfg.TraceSample,
		Enabled:        cfg.TracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// PostgreSQL connection pool.
	pgCfg := database.DefaultPostgresConfig()
	pgCfg.Host = cfg.PostgresHost
	pgCfg.Port = cfg.PostgresPort
	pgCfg.User = cfg.PostgresUser
	pgCfg.Password = cfg.PostgresPass
	pgCfg.DBName = cfg.PostgresDB
	pgCfg.SSLMode = cfg.PostgresSSL

	pool, err := database.NewPostgresPoolWithLogger(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	// Database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Redis client for the cart store.
	redisClient, err := database.NewRedisClient(ctx, database.RedisConfig{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("host", cfg.RedisHost),
		slog.Int("port", cfg.RedisPort),
	)

	// Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Cart module.
	cartRepo := cartredis.NewCartRepository(redisClient, cfg.CartTTLDuration())
	cartProducer := cartevent.NewProducer(producer, logger)
	cartSvc := cartservice.NewCartService(cartRepo, cartProducer, logger, cfg.CartTTLDuration())

	// Order module.
	orderRepo := orderpg.NewOrderRepository(pool)
	orderProducer := orderevent.NewProducer(producer, logger)
	orderSvc := orderservice.NewOrderService(orderRepo, cartSvc, orderProducer, logger)

	// Catalog module.
	productRepo := catalogpg.NewProductRepository(pool)
	categoryRepo := catalogpg.NewCategoryRepository(pool)
	catalogProducer := catalogevent.NewProducer(producer, logger)
	productSvc := catalogservice.NewProductService(productRepo, categoryRepo, catalogProducer, logger)
	categorySvc := catalogservice.NewCategoryService(categoryRepo, productRepo, catalogProducer, logger)

	// User module.
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userRepo := userpg.NewUserRepository(pool)
	refreshTokenRepo := userpg.NewRefreshTokenRepository(pool)
	userProducer := userevent.NewProducer(producer, logger)
	userSvc := userservice.NewUserService(userRepo, refreshTokenRepo, jwtManager, userProducer, logger)

	// Content module.
	footerRepo := contentpg.NewFooterRepository(pool)
	footerSvc := contentservice.NewFooterService(footerRepo, logger)

	// Media module. Uploads go to the external CDN through a circuit breaker.
	cdnHTTP := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpclient.DefaultConfig()),
		httpclient.DefaultCircuitBreakerConfig("image-cdn"),
		logger,
	)
	cdnClient := cdn.New(cdnHTTP, cdn.Config{
		UploadURL: cfg.CDNUploadURL,
		APIKey:    cfg.CDNAPIKey,
	})
	mediaRepo := mediapg.NewMediaRepository(pool)
	mediaProducer := mediaevent.NewProducer(producer, logger)
	mediaSvc := mediaservice.NewMediaService(mediaRepo, cdnClient, mediaProducer, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return redisClient.Ping(ctx).Err()
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	// Bearer-token validation for the auth middleware.
	validateToken := func(token string) (*middleware.Claims, error) {
		claims, err := userSvc.ValidateAccessToken(token)
		if err != nil {
			return nil, err
		}
		return &middleware.Claims{
			UserID: claims.UserID,
			Email:  claims.Email,
			Role:   claims.Role,
		}, nil
	}

	router := newRouter(routerDeps{
		cfg:           cfg,
		logger:        logger,
		health:        healthHandler,
		validateToken: validateToken,
		cart:          carthttp.NewCartHandler(cartSvc, logger),
		orders:        orderhttp.NewOrderHandler(orderSvc, logger),
		products:      cataloghttp.NewProductHandler(productSvc, logger),
		categories:    cataloghttp.NewCategoryHandler(categorySvc, logger),
		auth:          userhttp.NewAuthHandler(userSvc, logger),
		users:         userhttp.NewUserHandler(userSvc, logger),
		footer:        contenthttp.NewFooterHandler(footerSvc, logger),
		media:         mediahttp.NewMediaHandler(mediaSvc, logger),
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		redisClient:    redisClient,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// routerDeps bundles everything the HTTP router needs.
type routerDeps struct {
	cfg           *config.Config
	logger        *slog.Logger
	health        *health.Handler
	validateToken middleware.TokenValidator
	cart          *carthttp.CartHandler
	orders        *orderhttp.OrderHandler
	products      *cataloghttp.ProductHandler
	categories    *cataloghttp.CategoryHandler
	auth          *userhttp.AuthHandler
	users         *userhttp.UserHandler
	footer        *contenthttp.FooterHandler
	media         *mediahttp.MediaHandler
}

// newRouter builds the chi router with the full middleware chain and mounts
// every module's subrouter.
func newRouter(deps routerDeps) http.Handler {
	r := chi.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = deps.cfg.CORSAllowedOrigins

	r.Use(middleware.Recovery(deps.logger))
	r.Use(chimiddleware.Compress(5))
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(deps.logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(deps.logger))
	r.Use(middleware.CORS(corsCfg))

	r.Get("/health/live", deps.health.LivenessHandler())
	r.Get("/health/ready", deps.health.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", deps.auth.Routes)

		// Routes that always require an authenticated user.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(deps.validateToken))
			r.Route("/users", deps.users.Routes)
			r.Route("/cart", deps.cart.Routes)
			r.Route("/orders", deps.orders.Routes)
		})

		// Public reads with admin-guarded writes.
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(deps.validateToken))
			r.Route("/products", deps.products.Routes)
			r.Route("/categories", deps.categories.Routes)
			r.Route("/footer", deps.footer.Routes)
			r.Route("/media", deps.media.Routes)
		})
	})

	return r
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components: drain HTTP, flush spans, close
// kafka, redis and the postgres pool.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.redisClient.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
