package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	alertservice "vaxtrack/internal/alert/service"
	alertstore "vaxtrack/internal/alert/store"
	childservice "vaxtrack/internal/child/service"
	childstore "vaxtrack/internal/child/store"
	"vaxtrack/internal/coldchain/feed"
	ccservice "vaxtrack/internal/coldchain/service"
	ccstore "vaxtrack/internal/coldchain/store"
	facilityservice "vaxtrack/internal/facility/service"
	facilitystore "vaxtrack/internal/facility/store"
	httpapi "vaxtrack/internal/http"
	"vaxtrack/internal/platform/config"
	"vaxtrack/internal/platform/kafka"
	"vaxtrack/internal/platform/postgres"
	platformredis "vaxtrack/internal/platform/redis"
	stockservice "vaxtrack/internal/stock/service"
	stockstore "vaxtrack/internal/stock/store"
	"vaxtrack/pkg/platform/audit"
	auditkafka "vaxtrack/pkg/platform/audit/store/kafka"
	auditmemory "vaxtrack/pkg/platform/audit/store/memory"
	auditpostgres "vaxtrack/pkg/platform/audit/store/postgres"
)

const memoryFeedBuffer = 64

// infra holds the stores and connections chosen from configuration.
// Without DATABASE_URL every store is in memory; without REDIS_URL the cold
// chain feed is in-process and the dashboard is not cached.
type infra struct {
	db    *sql.DB
	redis *platformredis.Client
	kafka *kgo.Client

	facilities facilityservice.Store
	children   childservice.Store
	stock      stockservice.Store
	readings   ccservice.Store
	alerts     alertservice.Store

	auditSink   audit.Store
	auditReader audit.Reader
	feed        feed.Feed
	checks      map[string]httpapi.HealthCheck
}

func openInfra(ctx context.Context, cfg config.Config, log *slog.Logger) (*infra, error) {
	in := &infra{checks: map[string]httpapi.HealthCheck{}}

	if cfg.Database.URL != "" {
		db, err := postgres.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		in.db = db
		if err := postgres.Migrate(ctx, db); err != nil {
			in.close()
			return nil, err
		}
		in.facilities = facilitystore.NewPostgres(db)
		in.children = childstore.NewPostgres(db)
		in.stock = stockstore.NewPostgres(db)
		in.readings = ccstore.NewPostgres(db)
		in.alerts = alertstore.NewPostgres(db)
		events := auditpostgres.New(db)
		in.auditSink, in.auditReader = events, events
		in.checks["postgres"] = db.PingContext
		log.Info("using postgres stores")
	} else {
		in.facilities = facilitystore.NewInMemory()
		in.children = childstore.NewInMemory()
		in.stock = stockstore.NewInMemory()
		in.readings = ccstore.NewInMemory()
		in.alerts = alertstore.NewInMemory()
		events := auditmemory.NewInMemoryStore()
		in.auditSink, in.auditReader = events, events
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	rdb, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		in.close()
		return nil, err
	}
	if rdb != nil {
		in.redis = rdb
		in.feed = feed.NewRedis(rdb.Client, cfg.ColdChain.FeedChannel, log)
		in.checks["redis"] = rdb.Health
	} else {
		in.feed = feed.NewMemory(memoryFeedBuffer)
		log.Warn("REDIS_URL not set, cold chain feed is in-process and the dashboard is uncached")
	}

	kc, err := kafka.New(ctx, cfg.Kafka)
	if err != nil {
		in.close()
		return nil, err
	}
	if kc != nil {
		in.kafka = kc
		if err := kafka.EnsureTopic(ctx, kc, cfg.Kafka.AuditTopic, cfg.Kafka.Partitions, cfg.Kafka.Replicas); err != nil {
			in.close()
			return nil, err
		}
		in.auditSink = audit.Fanout{in.auditSink, auditkafka.New(kc, cfg.Kafka.AuditTopic)}
		in.checks["kafka"] = kc.Ping
		log.Info("audit events mirrored to kafka", "topic", cfg.Kafka.AuditTopic)
	}

	return in, nil
}

func (in *infra) close() {
	if in.kafka != nil {
		in.kafka.Close()
	}
	if in.redis != nil {
		_ = in.redis.Close()
	}
	if in.db != nil {
		_ = in.db.Close()
	}
}

// String is used in startup logs.
func (in *infra) String() string {
	return fmt.Sprintf("postgres=%t redis=%t kafka=%t", in.db != nil, in.redis != nil, in.kafka != nil)
}
