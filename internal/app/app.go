package app

import (
	"strconv"
	"time"

	"auth-gateway/internal/common/logging"
	"auth-gateway/internal/config"
	"auth-gateway/internal/gateway"
	"auth-gateway/internal/hmacsig"
	"auth-gateway/internal/jwtauth"
	"auth-gateway/internal/ratelimit"
	"auth-gateway/internal/redis"
)

// App holds all the application dependencies
type App struct {
	Config      *config.Config
	Gateway     *gateway.Gateway
	RedisClient *redis.Client
	RateLimiter *ratelimit.Limiter
	Logger      logging.Logger
}

// New creates a new application instance with all dependencies.
// Secrets are read from configuration once, here, and injected into the
// validators; nothing reads them again at request time.
func New(cfg *config.Config) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logging.GetGlobalLogger().WithFields(logging.Field{Key: "component", Value: "app"}),
	}

	if err := app.initializeRedis(); err != nil {
		// Redis is optional, just log the error
		app.Logger.Warn("Redis initialization failed, continuing without Redis",
			logging.Field{Key: "error", Value: err.Error()})
	}

	app.initializeRateLimiter()
	app.initializeGateway()

	return app, nil
}

// initializeRedis connects to Redis when an address is configured.
func (app *App) initializeRedis() error {
	if app.Config.RedisAddress == "" {
		return nil
	}

	db, _ := strconv.Atoi(app.Config.RedisDB)
	poolSize, _ := strconv.Atoi(app.Config.RedisPoolSize)

	client, err := redis.NewClient(&redis.Config{
		Address:  app.Config.RedisAddress,
		Password: app.Config.RedisPassword,
		DB:       db,
		PoolSize: poolSize,
	})
	if err != nil {
		return err
	}

	app.RedisClient = client
	app.Logger.Info("Redis connected", logging.Field{Key: "address", Value: app.Config.RedisAddress})
	return nil
}

// initializeRateLimiter builds the limiter; without Redis it is a no-op.
func (app *App) initializeRateLimiter() {
	limit, _ := strconv.Atoi(app.Config.RateLimitDefault)
	window, err := time.ParseDuration(app.Config.RateLimitWindow)
	if err != nil {
		window = time.Minute
	}

	app.RateLimiter = ratelimit.NewLimiter(app.RedisClient, &ratelimit.Config{
		DefaultLimit:  limit,
		DefaultWindow: window,
		Enabled:       app.Config.RateLimitEnabled,
	})
}

// initializeGateway wires both validators with their immutable secrets.
func (app *App) initializeGateway() {
	app.Gateway = gateway.New(
		hmacsig.NewValidator(app.Config.HMACSharedSecret, app.Config.FreshnessWindow),
		jwtauth.NewValidator(app.Config.JWTSecret),
		app.Config.MaxBodyBytes,
	)
}

// Cleanup releases all resources
func (app *App) Cleanup() {
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
