// Package app wires the storefront pipeline together and runs it.
package app

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mebelmarket/config"
	httpctrl "mebelmarket/internal/controller/http"
	"mebelmarket/internal/controller/http/handlers"
	"mebelmarket/internal/domain/customer"
	"mebelmarket/internal/domain/order"
	"mebelmarket/internal/external/kafka"
	"mebelmarket/internal/external/opensearch"
	"mebelmarket/internal/external/telegram"
	"mebelmarket/internal/notification"
	customer_repo "mebelmarket/internal/repo/customer"
	order_repo "mebelmarket/internal/repo/order"
	"mebelmarket/internal/stream"
	"mebelmarket/pkg/health"
	"mebelmarket/pkg/logger"
	"mebelmarket/pkg/metrics"
	"mebelmarket/pkg/postgres"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

//go:embed migrations/*.sql
var MigrationFS embed.FS

func Run(cfg config.Config) {
	l := logger.New(cfg.LogLevel, cfg.LogFormat == "console")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	pg, err := postgres.New(cfg.PgURL, postgres.MaxPoolSize(cfg.PgPoolMax))
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - postgres.New: %w", err))
	}
	defer pg.Close()

	if err := ApplyMigrations(cfg.PgURL, MigrationFS); err != nil {
		l.Fatal(fmt.Errorf("app - Run - ApplyMigrations: %w", err))
	}

	orderRepo := order_repo.NewPgOrderRepo(pg)
	customerRepo := customer_repo.NewPgCustomerRepo(pg)

	customerService := customer.NewCustomerService(customerRepo, l)

	hub := stream.NewHub(l, cfg.StreamBufferSize, cfg.StreamHeartbeatInterval)
	sinks := []order.EventSink{hub}

	healthCheckers := []health.Checker{health.NewPostgresChecker(pg.Pool)}

	if cfg.KafkaEnabled() {
		l.Info("Kafka event mirror enabled: brokers=%v topic=%s", cfg.KafkaBrokers, cfg.KafkaOrderEventTopic)
		publisher := kafka.NewPublisher(l, cfg.KafkaBrokers, cfg.KafkaOrderEventTopic)
		defer publisher.Close()
		sinks = append(sinks, kafka.NewEventMirror(publisher))
		healthCheckers = append(healthCheckers, health.NewKafkaChecker(cfg.KafkaBrokers))
	}
	if cfg.OpensearchEnabled() {
		l.Info("OpenSearch event sink enabled: index=%s", cfg.OpensearchIndexOrders)
		osSink, err := opensearch.NewEventSink(ctx, cfg.OpensearchUrls, cfg.OpensearchIndexOrders)
		if err != nil {
			l.Fatal(fmt.Errorf("app - Run - opensearch.NewEventSink: %w", err))
		}
		sinks = append(sinks, osSink)
	}

	var tg *telegram.Client
	if cfg.TelegramBotToken != "" {
		tg = telegram.New(cfg.TelegramBaseURL, cfg.TelegramBotToken, &http.Client{Timeout: cfg.TelegramTimeout})
	}
	dispatcher := notification.NewDispatcher(tg, cfg.TelegramChatID, l)

	orderService := order.NewOrderService(orderRepo, customerService, dispatcher, l, sinks...)

	engine := NewGinEngine(l)

	router := httpctrl.NewRouter(
		handlers.NewOrderHandler(orderService),
		handlers.NewCustomerHandler(customerService),
		handlers.NewStreamHandler(hub),
	)
	router.SetUp(engine)

	healthRegistry := health.NewRegistry(healthCheckers...)
	engine.GET("/health/liveness", health.LivenessHandler())
	engine.GET("/health/readiness", health.ReadinessHandler(healthRegistry, 5*time.Second))
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return hub.Run(gctx)
	})

	g.Go(func() error {
		l.Info("HTTP server listening: port=%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		l.Info("Shutting down gracefully...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		l.Fatal(fmt.Errorf("app - Run: %w", err))
	}
	l.Info("Shutdown complete")
}
