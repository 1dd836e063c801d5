package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/finch-social/finch/internal/api"
	"github.com/finch-social/finch/internal/cache"
	"github.com/finch-social/finch/internal/config"
	"github.com/finch-social/finch/internal/logging"
	"github.com/finch-social/finch/internal/metrics"
	"github.com/finch-social/finch/internal/observability"
	"github.com/finch-social/finch/internal/ratelimit"
	"github.com/finch-social/finch/internal/repo"
	"github.com/finch-social/finch/internal/service"
	"github.com/finch-social/finch/internal/store"
)

// app is the wired object graph the API layer mounts on.
type app struct {
	store      store.Store
	cacheStore cache.Cache
	redis      *cache.RedisCache

	Users    *service.UserService
	Tweets   *service.TweetService
	Follows  *service.FollowService
	Likes    *service.LikeService
	Retweets *service.RetweetService
}

func serveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the finch daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if configPath != "" {
				loaded, err := config.LoadFromFile(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			config.LoadFromEnv(cfg)

			logging.Init(cfg.Daemon.LogFormat, cfg.Daemon.LogLevel)
			metrics.Init("finch")

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := observability.Init(ctx, observability.Config{
				Enabled:     cfg.Telemetry.Enabled,
				Endpoint:    cfg.Telemetry.Endpoint,
				ServiceName: "finch",
				SampleRate:  cfg.Telemetry.SampleRate,
			}); err != nil {
				return err
			}
			defer observability.Shutdown(context.Background())

			a, cleanup, err := buildApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			h := &api.Handler{
				Users:    a.Users,
				Tweets:   a.Tweets,
				Follows:  a.Follows,
				Likes:    a.Likes,
				Retweets: a.Retweets,
				Store:    a.store,
				Cache:    a.cacheStore,
			}

			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			h.RegisterRoutes(mux)

			var handler http.Handler = mux
			if cfg.RateLimit.Enabled {
				limiter := ratelimit.New(a.redis.Client(), ratelimit.Config{
					RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
					Burst:             cfg.RateLimit.Burst,
				})
				skip := []string{"/metrics", "/health", "/health/live", "/health/ready"}
				handler = ratelimit.Middleware(limiter, skip)(handler)
			}
			handler = observability.HTTPMiddleware(handler)

			httpServer := &http.Server{
				Addr:    cfg.Daemon.HTTPAddr,
				Handler: handler,
			}

			errCh := make(chan error, 1)
			go func() {
				logging.Op().Info("finchd started", "addr", cfg.Daemon.HTTPAddr, "redis", cfg.Redis.Addr)
				if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- err
				}
			}()

			select {
			case <-ctx.Done():
				logging.Op().Info("shutdown signal received")
				sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := httpServer.Shutdown(sctx); err != nil {
					return fmt.Errorf("shutdown finchd: %w", err)
				}
				return nil
			case err := <-errCh:
				return fmt.Errorf("finchd server error: %w", err)
			}
		},
	}

	cmd.Flags().StringVar(&configPath, "config", os.Getenv("FINCH_CONFIG"), "Path to config file (JSON or YAML)")

	return cmd
}

// buildApp connects the store and cache and assembles the cached
// decorators and services.
func buildApp(ctx context.Context, cfg *config.Config) (*app, func(), error) {
	pg, err := store.NewPostgresStore(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, nil, err
	}

	ttl := repo.TTLConfig{
		Entity:    cfg.Cache.EntityTTL,
		List:      cfg.Cache.ListTTL,
		Aggregate: cfg.Cache.AggregateTTL,
	}

	var (
		c       cache.Cache
		pub     repo.Publisher
		invStop func()
	)
	redisCache := cache.NewRedisCache(cache.RedisCacheConfig{
		Addr:      cfg.Redis.Addr,
		Password:  cfg.Redis.Password,
		DB:        cfg.Redis.DB,
		KeyPrefix: cfg.Redis.KeyPrefix,
	})
	if err := redisCache.Ping(ctx); err != nil {
		// Reads will hit the store until Redis comes back; the daemon
		// still starts.
		logging.Op().Warn("redis unreachable at startup", "addr", cfg.Redis.Addr, "error", err)
	}
	c = redisCache

	if cfg.Cache.Tiered {
		local := cache.NewInMemoryCache()
		c = cache.NewTieredCache(local, redisCache, cfg.Cache.LocalTTL)

		inv := cache.NewInvalidator(local, redisCache.Client())
		invCtx, cancel := context.WithCancel(context.Background())
		go inv.Start(invCtx)
		pub = inv
		invStop = func() {
			cancel()
			inv.Close()
		}
	}

	users := repo.NewCachedUserStore(pg, c, pub, ttl)
	tweets := repo.NewCachedTweetStore(pg, c, pub, ttl)
	follows := repo.NewCachedFollowStore(pg, c, pub, ttl)
	likes := repo.NewCachedLikeStore(pg, c, pub, ttl)
	retweets := repo.NewCachedRetweetStore(pg, c, pub, ttl)
	aggregates := repo.NewCachedAggregateStore(pg, c, ttl)

	a := &app{
		store:      pg,
		cacheStore: c,
		redis:      redisCache,
		Users:      service.NewUserService(users, pg),
		Tweets:     service.NewTweetService(tweets, users, aggregates),
		Follows:    service.NewFollowService(follows, users, aggregates),
		Likes:      service.NewLikeService(likes, tweets),
		Retweets:   service.NewRetweetService(retweets, tweets),
	}

	cleanup := func() {
		if invStop != nil {
			invStop()
		}
		if err := c.Close(); err != nil {
			logging.Op().Warn("cache close failed", "error", err)
		}
		if err := pg.Close(); err != nil {
			logging.Op().Warn("store close failed", "error", err)
		}
	}
	return a, cleanup, nil
}
