package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	alerthandler "vaxtrack/internal/alert/handler"
	alertmetrics "vaxtrack/internal/alert/metrics"
	alertservice "vaxtrack/internal/alert/service"
	audithandler "vaxtrack/internal/audit/handler"
	childhandler "vaxtrack/internal/child/handler"
	childmetrics "vaxtrack/internal/child/metrics"
	childservice "vaxtrack/internal/child/service"
	cchandler "vaxtrack/internal/coldchain/handler"
	"vaxtrack/internal/coldchain/ingest"
	ccmetrics "vaxtrack/internal/coldchain/metrics"
	ccmodels "vaxtrack/internal/coldchain/models"
	ccservice "vaxtrack/internal/coldchain/service"
	facilityhandler "vaxtrack/internal/facility/handler"
	facilitymetrics "vaxtrack/internal/facility/metrics"
	facilityservice "vaxtrack/internal/facility/service"
	httpapi "vaxtrack/internal/http"
	jwttoken "vaxtrack/internal/jwt_token"
	"vaxtrack/internal/platform/config"
	"vaxtrack/internal/platform/httpserver"
	"vaxtrack/internal/platform/logger"
	"vaxtrack/internal/platform/metrics"
	"vaxtrack/internal/recompute"
	"vaxtrack/internal/report/cache"
	reporthandler "vaxtrack/internal/report/handler"
	reportmetrics "vaxtrack/internal/report/metrics"
	reportservice "vaxtrack/internal/report/service"
	"vaxtrack/internal/schedule"
	schedulehandler "vaxtrack/internal/schedule/handler"
	stockhandler "vaxtrack/internal/stock/handler"
	stockmetrics "vaxtrack/internal/stock/metrics"
	stockservice "vaxtrack/internal/stock/service"
	"vaxtrack/pkg/platform/audit/publisher"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
}

// run wires dependencies, serves until ctx is cancelled and then drains the
// background workers.
func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	deps, err := openInfra(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer deps.close()
	log.Info("infrastructure ready", "backends", deps.String())

	auditPublisher := publisher.NewPublisher(deps.auditSink,
		publisher.WithAsyncBuffer(cfg.Report.AuditBuffer),
		publisher.WithLogger(log),
	)
	defer auditPublisher.Close()

	engine := schedule.NewIA2030Engine()

	facilities := facilityservice.New(deps.facilities,
		facilityservice.WithLogger(log),
		facilityservice.WithAuditPublisher(auditPublisher),
		facilityservice.WithMetrics(facilitymetrics.New()),
	)
	alerts := alertservice.New(deps.alerts,
		alertservice.WithLogger(log),
		alertservice.WithAuditPublisher(auditPublisher),
		alertservice.WithMetrics(alertmetrics.New()),
	)
	stock := stockservice.New(deps.stock, engine,
		stockservice.WithLogger(log),
		stockservice.WithAuditPublisher(auditPublisher),
		stockservice.WithMetrics(stockmetrics.New()),
		stockservice.WithAlertRaiser(alerts),
		stockservice.WithDefaultReorderLevel(cfg.Stock.DefaultReorderLevel),
	)
	coldchainMetrics := ccmetrics.New()
	coldchain := ccservice.New(deps.readings,
		ccservice.WithLogger(log),
		ccservice.WithAuditPublisher(auditPublisher),
		ccservice.WithMetrics(coldchainMetrics),
		ccservice.WithAlertRaiser(alerts),
		ccservice.WithBand(ccmodels.Band{MinC: cfg.ColdChain.MinTempC, MaxC: cfg.ColdChain.MaxTempC}),
	)
	children := childservice.New(deps.children, engine,
		childservice.WithLogger(log),
		childservice.WithAuditPublisher(auditPublisher),
		childservice.WithMetrics(childmetrics.New()),
		childservice.WithFacilityGate(facilities),
		childservice.WithStockConsumer(stock),
	)

	reportOpts := []reportservice.Option{
		reportservice.WithLogger(log),
		reportservice.WithAuditPublisher(auditPublisher),
		reportservice.WithMetrics(reportmetrics.New()),
		reportservice.WithTracer(otel.Tracer("vaxtrack/report")),
	}
	if deps.redis != nil {
		reportOpts = append(reportOpts, reportservice.WithCache(cache.NewRedis(deps.redis.Client), cfg.Report.DashboardCacheTTL))
	}
	reports := reportservice.New(deps.children, engine, stock, coldchain, alerts, reportOpts...)

	loc, err := cfg.Recompute.Location()
	if err != nil {
		return fmt.Errorf("configure clock: %w", err)
	}
	router := httpapi.NewRouter(httpapi.Config{
		Logger:     log,
		Metrics:    metrics.New(),
		AdminToken: cfg.Server.AdminToken,
		Tokens:     jwttoken.NewJWTServiceAdapter(jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)),
		Roles:      cfg.Auth.Roles,
		Location:   loc,
		Admin: []httpapi.Registrar{
			facilityhandler.New(facilities, log),
			audithandler.New(deps.auditReader, log),
		},
		Session: []httpapi.Registrar{
			childhandler.New(children, log),
			schedulehandler.New(engine),
			stockhandler.New(stock, log),
			cchandler.New(coldchain, log),
			alerthandler.New(alerts, log),
			reporthandler.New(reports, log),
		},
		Checks: deps.checks,
	})

	ingestor := ingest.New(deps.feed, coldchain,
		ingest.WithLogger(log),
		ingest.WithMetrics(coldchainMetrics),
		ingest.WithBackoff(cfg.ColdChain.FeedBackoff),
	)

	var job *recompute.Job
	if cfg.Recompute.Enabled {
		job, err = recompute.New(children, cfg.Recompute,
			recompute.WithLogger(log),
			recompute.WithMetrics(recompute.NewMetrics()),
		)
		if err != nil {
			return fmt.Errorf("configure recompute job: %w", err)
		}
		if err := job.Start(ctx); err != nil {
			return fmt.Errorf("start recompute job: %w", err)
		}
	}

	srv := httpserver.New(cfg.Server.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting vaxtrack", "addr", cfg.Server.Addr, "environment", cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := ingestor.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("cold chain ingestor: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), cfg.Server.ShutdownTimeout)
		defer cancel()
		if job != nil {
			job.Stop(shutdownCtx)
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}
