package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/annotext/emoji-annotation-platform/internal/annotation"
	"github.com/annotext/emoji-annotation-platform/internal/annotation/consumer"
	"github.com/annotext/emoji-annotation-platform/internal/annotation/registry"
	"github.com/annotext/emoji-annotation-platform/internal/annotation/store"
	"github.com/annotext/emoji-annotation-platform/internal/annotator"
	"github.com/annotext/emoji-annotation-platform/pkg/config"
	"github.com/annotext/emoji-annotation-platform/pkg/kafka"
	"github.com/annotext/emoji-annotation-platform/pkg/logger"
	"github.com/annotext/emoji-annotation-platform/pkg/metrics"
	"github.com/annotext/emoji-annotation-platform/pkg/postgres"
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
	slog.Info("starting annotation worker", "pattern_id", cfg.Annotator.PatternID)

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
	lookup := cfg.Annotator.Lookup
	pgClient, err := postgres.New(cfg.Postgres)
	if err != nil {
		slog.Warn("postgres unavailable, run audit disabled", "error", err)
	} else {
		defer pgClient.Close()
		annotationStore = store.New(pgClient)
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

	svc := annotation.NewService(reg, annotationStore, m)

	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.AnnotationComplete)
	defer producer.Close()

	handler := consumer.HandleMessage(svc, producer)
	kafkaConsumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.DocumentAnnotate, handler)
	annotateConsumer := consumer.New(kafkaConsumer)

	slog.Info("annotation worker ready, consuming from kafka",
		"topic", cfg.Kafka.Topics.DocumentAnnotate,
		"group", cfg.Kafka.ConsumerGroup,
	)

	if err := annotateConsumer.Start(ctx); err != nil {
		slog.Error("consumer error", "error", err)
	}

	slog.Info("annotation worker stopped")
}
