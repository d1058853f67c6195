package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"hangulnum.local/gee"
	"hangulnum.local/gee/middleware"
	"hangulnum.local/internal/app/hangulnum"
	hncache "hangulnum.local/internal/app/hangulnum/cache"
	"hangulnum.local/internal/app/hangulnum/httpapi"
	"hangulnum.local/internal/app/hangulnum/repo"
	"hangulnum.local/internal/app/hangulnum/stats"
	"hangulnum.local/internal/platform/auth"
	platformcache "hangulnum.local/internal/platform/cache"
	"hangulnum.local/internal/platform/config"
	"hangulnum.local/internal/platform/db"
	"hangulnum.local/internal/platform/httpmiddleware"
	"hangulnum.local/internal/platform/httpserver"
	"hangulnum.local/internal/platform/logging"
	"hangulnum.local/internal/platform/metrics"
	"hangulnum.local/internal/platform/migrate"
	"hangulnum.local/internal/platform/ratelimit"
	"hangulnum.local/internal/platform/trace"
)

var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	cfg := config.Load()
	logging.Setup(os.Stdout, cfg.LogLevel, cfg.LogFormat, cfg.ServiceName)

	if err := run(cfg); err != nil {
		slog.Error("exit", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	metrics.Init()

	if cfg.TracingEnabled {
		if shutdown := trace.InitTrace(cfg.OtlpGrpcEndpoint, cfg.OtlpServiceName); shutdown == nil {
			slog.Error("Trace init failed")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					slog.Error("trace shutdown failed", "err", err)
				}
			}()
		}
	} else {
		slog.Warn("Tracing disabled by config", "TRACING_ENABLED", false)
	}

	codec := hangulnum.Default()

	// Redis：限流和二级缓存共用，连不上就降级运行
	var redisClient *redis.Client
	if cfg.RateLimitEnabled || cfg.CacheEnabled {
		client, err := platformcache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			slog.Warn("redis unavailable, running without rate limit and L2 cache", "addr", cfg.RedisAddr, "err", err)
		} else {
			redisClient = client
			defer redisClient.Close()
		}
	}

	var limiter httpmiddleware.Allower
	if cfg.RateLimitEnabled && redisClient != nil {
		limiter = ratelimit.NewLimiter(redisClient)
	} else {
		slog.Warn("RateLimit disabled", "RATELIMIT_ENABLED", cfg.RateLimitEnabled)
	}

	var variantsCache *hncache.VariantsCache
	if cfg.CacheEnabled {
		local, err := hncache.NewLocalCache(cfg.LocalCacheItems, cfg.LocalCacheBytes, cfg.CacheTTL)
		if err != nil {
			return err
		}
		variantsCache = hncache.NewVariantsCache(redisClient, local, cfg.CacheTTL)
		defer variantsCache.Close()
	}

	// 转换事件统计
	var (
		dbPool          *pgxpool.Pool
		conversions     *repo.ConversionsRepo
		collector       stats.Collector = stats.NopCollector{}
		channelConsumer *stats.Consumer
		kafkaConsumer   *stats.KafkaConsumer
	)
	if cfg.StatsEnabled {
		pool, err := openDB(cfg.DBDSN)
		if err != nil {
			return err
		}
		dbPool = pool
		defer dbPool.Close()
		conversions = repo.NewConversionsRepo(dbPool)

		if cfg.KafkaEnabled {
			slog.Info("使用 Kafka 收集转换事件", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
			collector = stats.NewKafkaCollector(cfg.KafkaBrokers, cfg.KafkaTopic)
			kafkaConsumer = stats.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, conversions)
		} else {
			slog.Info("使用 Channel 收集转换事件")
			cc := stats.NewChannelCollector(10000)
			collector = cc
			channelConsumer = stats.NewConsumer(conversions, cc)
		}
	}

	ts, err := auth.NewHS256(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	if err != nil {
		return err
	}
	if cfg.JWTSecret == "change-me" {
		slog.Warn("JWT_SECRET is the default value, admin endpoints are not safe")
	}

	// 对外业务
	r := gee.New()
	r.Use(gee.Recovery(), middleware.ReqID(), middleware.AccessLog(), httpmiddleware.Metrics())

	deps := httpapi.Deps{
		Codec:     codec,
		Cache:     variantsCache,
		Collector: collector,
		Limiter:   limiter,
		Verifier:  ts,
	}
	if conversions != nil {
		deps.Stats = conversions
	}
	httpapi.RegisterAPIRoutes(r.Group("/api/v1"), deps)

	r.GET("/healthz", func(ctx *gee.Context) {
		ctx.String(http.StatusOK, "ok")
	})

	publicHandler := http.Handler(r)
	if cfg.TracingEnabled {
		publicHandler = trace.HTTPHandler(r)
	}
	publicSrv := httpserver.New(cfg, publicHandler)

	adminCfg := cfg
	adminCfg.Addr = cfg.AdminAddr // 推荐：127.0.0.1:6060，仅本机/内网
	adminSrv := httpserver.New(adminCfg, adminMux(cfg, dbPool))

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(stopCtx)
	g.Go(func() error {
		return httpserver.RunWithGracefulShutdownContext(publicSrv, cfg.ShutdownTimeout, gctx)
	})
	g.Go(func() error {
		return httpserver.RunWithGracefulShutdownContext(adminSrv, cfg.ShutdownTimeout, gctx)
	})
	if channelConsumer != nil {
		g.Go(func() error {
			channelConsumer.Run(gctx)
			return nil
		})
	}
	if kafkaConsumer != nil {
		defer kafkaConsumer.Close()
		g.Go(func() error {
			kafkaConsumer.Run(gctx)
			return nil
		})
	}
	slog.Info("listening", "addr", cfg.Addr, "admin_addr", cfg.AdminAddr, "version", version)

	err = g.Wait()
	// 服务都停了再关 collector，channel consumer 会把剩下的写完
	collector.Close()
	return err
}

func openDB(dsn string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	slog.Info("数据库连接成功")

	res, err := migrate.Up(ctx, pool, repo.Migrations())
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	slog.Info("migrations", "applied", res.AppliedFiles, "skipped", len(res.SkippedFiles))
	return pool, nil
}

func adminMux(cfg config.Config, dbPool *pgxpool.Pool) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	// 开启统计时检查数据库
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if dbPool == nil {
			w.Write([]byte("ready"))
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := dbPool.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("DB Ping Err"))
			return
		}
		w.Write([]byte("DB ready"))
	})

	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"service_name": cfg.ServiceName,
			"version":      version,
			"commit":       commit,
			"build_time":   buildTime,
			"go_version":   runtime.Version(),
		})
	})

	if cfg.PprofEnabled {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	return mux
}
