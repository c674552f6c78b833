package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/annotext/emoji-annotation-platform/internal/annotation"
	"github.com/annotext/emoji-annotation-platform/internal/annotation/cache"
	"github.com/annotext/emoji-annotation-platform/internal/annotation/handler"
	"github.com/annotext/emoji-annotation-platform/internal/annotation/registry"
	"github.com/annotext/emoji-annotation-platform/internal/annotation/store"
	"github.com/annotext/emoji-annotation-platform/internal/annotation/validator"
	"github.com/annotext/emoji-annotation-platform/internal/annotator"
	"github.com/annotext/emoji-annotation-platform/pkg/config"
	"github.com/annotext/emoji-annotation-platform/pkg/health"
	"github.com/annotext/emoji-annotation-platform/pkg/logger"
	"github.com/annotext/emoji-annotation-platform/pkg/metrics"
	"github.com/annotext/emoji-annotation-platform/pkg/middleware"
	"github.com/annotext/emoji-annotation-platform/pkg/postgres"
	pkgredis "github.com/annotext/emoji-annotation-platform/pkg/redis"
	"github.com/annotext/emoji-annotation-platform/pkg/resilience"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting annotation service", "port", cfg.Server.Port, "pattern_id", cfg.Annotator.PatternID)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	if cfg.Metrics.Enabled {
		shutdown := metrics.StartServer(cfg.Metrics.Port)
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				slog.Error("metrics server shutdown error", "error", err)
			}
		}()
	}

	var annotationStore *store.Store
	var pgClient *postgres.Client
	pgClient, err = postgres.New(cfg.Postgres)
	if err != nil {
		slog.Warn("postgres unavailable, lookup store and run audit disabled", "error", err)
	} else {
		defer pgClient.Close()
		annotationStore = store.New(pgClient)
		slog.Info("lookup store enabled", "host", cfg.Postgres.Host, "database", cfg.Postgres.Database)
	}

	lookup := cfg.Annotator.Lookup
	if annotationStore != nil {
		var stored map[string]string
		err := resilience.Retry(ctx, "load-lookup", resilience.RetryConfig{}, func() error {
			var loadErr error
			stored, loadErr = annotationStore.LoadLookup(ctx, cfg.Annotator.PatternID)
			return loadErr
		})
		if err != nil {
			slog.Error("loading lookup entries failed", "error", err)
			os.Exit(1)
		}
		// Stored overrides win over the static config lookup.
		merged := make(map[string]string, len(lookup)+len(stored))
		for k, v := range lookup {
			merged[k] = v
		}
		for k, v := range stored {
			merged[k] = v
		}
		lookup = merged
	}

	a, err := annotator.New(annotator.Options{
		PatternID:      cfg.Annotator.PatternID,
		MergeSpans:     cfg.Annotator.MergeSpans,
		Lookup:         lookup,
		AttributeNames: cfg.Annotator.AttributeNames,
	})
	if err != nil {
		slog.Error("failed to build annotator", "error", err)
		os.Exit(1)
	}
	reg := registry.New()
	if err := reg.Register(a); err != nil {
		slog.Error("failed to register annotator", "error", err)
		os.Exit(1)
	}
	m.LookupEntriesLoaded.WithLabelValues(a.PatternID()).Set(float64(len(lookup)))
	slog.Info("annotator registered",
		"pattern_id", a.PatternID(),
		"merge_spans", a.MergeSpans(),
		"catalog_size", a.Catalog().Size(),
		"lookup_entries", len(lookup),
	)

	var resultCache *cache.ResultCache
	var redisClient *pkgredis.Client
	redisClient, err = pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, result caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		resultCache = cache.New(redisClient, cfg.Redis)
		slog.Info("result cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}

	checker := health.NewChecker()
	checker.Register("annotator", func(ctx context.Context) health.ComponentHealth {
		if reg.Len() > 0 {
			return health.ComponentHealth{Status: health.StatusUp, Message: fmt.Sprintf("%d pattern sets", reg.Len())}
		}
		return health.ComponentHealth{Status: health.StatusDown, Message: "no annotators registered"}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
		if pgClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := pgClient.DB.PingContext(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	svc := annotation.NewService(reg, annotationStore, m)
	h := handler.New(svc, resultCache, annotationStore, m, validator.Limits{
		MaxTextBytes: cfg.Annotator.MaxTextBytes,
		MaxTokens:    cfg.Annotator.MaxTokens,
	})

	mux := http.NewServeMux()
	h.Routes(mux)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.RequestTimeout)(chain)
	chain = middleware.Metrics(m)(chain)
	chain = middleware.RequestID()(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("annotation service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("annotation service stopped")
}
