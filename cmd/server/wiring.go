package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	awardadapters "spotter/internal/award/adapters"
	awardhandler "spotter/internal/award/handler"
	awardmetrics "spotter/internal/award/metrics"
	awardservice "spotter/internal/award/service"
	awardstore "spotter/internal/award/store"
	checkinhandler "spotter/internal/checkin/handler"
	checkinmetrics "spotter/internal/checkin/metrics"
	checkinservice "spotter/internal/checkin/service"
	checkinstore "spotter/internal/checkin/store"
	jwttoken "spotter/internal/jwt_token"
	"spotter/internal/platform/config"
	"spotter/internal/platform/kafka"
	"spotter/internal/platform/postgres"
	platformredis "spotter/internal/platform/redis"
	ratelimitmetrics "spotter/internal/ratelimit/metrics"
	ratelimitservice "spotter/internal/ratelimit/service"
	"spotter/internal/ratelimit/store/bucket"
	httptransport "spotter/internal/transport/http"
	venuemetrics "spotter/internal/venue/metrics"
	venuestore "spotter/internal/venue/store"
	"spotter/migrations"
	"spotter/pkg/platform/audit"
	"spotter/pkg/platform/audit/publisher"
	auditmemory "spotter/pkg/platform/audit/store/memory"
	auditpostgres "spotter/pkg/platform/audit/store/postgres"
	"spotter/pkg/platform/audit/worker"
	authmw "spotter/pkg/platform/middleware/auth"
	"spotter/pkg/platform/tx"
)

type checkinStore interface {
	checkinservice.Store
	awardservice.VisitCounter
}

type outboxStore interface {
	audit.Store
	audit.Outbox
}

// infra holds connections to optional backing services. Nil fields mean the
// service is not configured and in-memory stand-ins are used.
type infra struct {
	db     *sql.DB
	redis  *platformredis.Client
	kafka  *kgo.Client
	outbox outboxStore
}

func openInfra(ctx context.Context, cfg *config.Config, log *slog.Logger) (*infra, error) {
	in := &infra{}

	db, err := postgres.Open(ctx, cfg.Database)
	if err != nil {
		return nil, failure(log, "failed to connect to postgres", err)
	}
	if db != nil {
		if err := migrations.Apply(ctx, db); err != nil {
			_ = db.Close()
			return nil, failure(log, "failed to apply migrations", err)
		}
		in.db = db
		in.outbox = auditpostgres.New(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		in.outbox = auditmemory.NewInMemoryStore()
	}

	rc, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		in.Close()
		return nil, failure(log, "failed to connect to redis", err)
	}
	in.redis = rc

	if len(cfg.Kafka.Brokers) > 0 {
		kc, err := kafka.New(ctx, cfg.Kafka)
		if err != nil {
			in.Close()
			return nil, failure(log, "failed to connect to kafka", err)
		}
		if err := worker.EnsureTopic(ctx, kafka.Admin(kc), cfg.Kafka.Topic, cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor); err != nil {
			kc.Close()
			in.Close()
			return nil, failure(log, "failed to ensure audit topic", err)
		}
		in.kafka = kc
	}
	return in, nil
}

func (in *infra) Close() {
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

func (in *infra) healthChecks() map[string]httptransport.HealthCheck {
	checks := map[string]httptransport.HealthCheck{}
	if in.db != nil {
		checks["postgres"] = in.db.PingContext
	}
	if in.redis != nil {
		checks["redis"] = in.redis.Health
	}
	if in.kafka != nil {
		checks["kafka"] = in.kafka.Ping
	}
	return checks
}

type app struct {
	validator authmw.JWTValidator
	modules   []httptransport.Registrar
}

func buildApp(cfg *config.Config, in *infra, log *slog.Logger) (*app, error) {
	var (
		venues   checkinservice.VenueDirectory
		checkins checkinStore
		badges   awardservice.BadgeStore
		runner   tx.Runner = tx.MemoryRunner{}
	)
	if in.db != nil {
		venues = venuestore.NewPostgres(in.db)
		checkins = checkinstore.NewPostgres(in.db)
		badges = awardstore.NewPostgres(in.db)
		runner = tx.NewPostgresRunner(in.db)
	} else {
		venues = venuestore.NewInMemory()
		checkins = checkinstore.NewInMemory()
		badges = awardstore.NewInMemory()
	}
	if in.redis != nil {
		venues = venuestore.NewRedisCache(in.redis.Client, venues, cfg.Checkin.VenueCacheTTL,
			venuestore.WithCacheLogger(log),
			venuestore.WithCacheMetrics(venuemetrics.New()),
		)
	}

	events := publisher.NewPublisher(in.outbox, publisher.WithLogger(log))

	awards, err := awardservice.New(badges, checkins, awardadapters.NewVenueRarityAdapter(venues),
		awardservice.WithLogger(log),
		awardservice.WithMetrics(awardmetrics.New()),
		awardservice.WithAuditPublisher(events),
	)
	if err != nil {
		return nil, err
	}

	checkinCfg := checkinservice.Config{
		Verification:      cfg.Checkin.Verification,
		BlockMediumRisk:   cfg.Checkin.BlockMediumRisk,
		RepeatVisitWindow: cfg.Checkin.RepeatVisitWindow,
		IPHashKey:         []byte(cfg.Checkin.IPHashKey),
	}
	checkinSvc, err := checkinservice.New(venues, checkins, awards,
		checkinservice.WithLogger(log),
		checkinservice.WithMetrics(checkinmetrics.New()),
		checkinservice.WithAuditPublisher(events),
		checkinservice.WithTxRunner(runner),
		checkinservice.WithConfig(checkinCfg),
	)
	if err != nil {
		return nil, err
	}

	var primary ratelimitservice.Store = bucket.NewInMemory()
	if in.redis != nil {
		primary = bucket.NewRedis(in.redis.Client)
	}
	limiter, err := ratelimitservice.New(primary, cfg.Checkin.AttemptsPerMinute,
		ratelimitservice.WithLogger(log),
		ratelimitservice.WithMetrics(ratelimitmetrics.New()),
	)
	if err != nil {
		return nil, err
	}

	jwt := jwttoken.NewJWTService(cfg.Server.JWTSigningKey, cfg.Server.JWTIssuer, cfg.Server.JWTAudience)
	return &app{
		validator: jwttoken.NewJWTServiceAdapter(jwt),
		modules: []httptransport.Registrar{
			checkinhandler.New(checkinSvc, limiter, log),
			awardhandler.New(awards, log),
		},
	}, nil
}

type workers struct {
	cancel context.CancelFunc
	relay  chan struct{}
	pruner *worker.Pruner
}

// startWorkers runs the outbox relay when Kafka is configured and the pruner
// always.
func startWorkers(ctx context.Context, cfg *config.Config, in *infra, log *slog.Logger) (*workers, error) {
	ctx, cancel := context.WithCancel(ctx)
	w := &workers{cancel: cancel}

	if in.kafka != nil {
		relay, err := worker.NewRelay(in.outbox, in.kafka, cfg.Kafka.Topic,
			worker.WithBatchSize(cfg.Kafka.OutboxBatchSize),
			worker.WithInterval(cfg.Kafka.OutboxPollInterval),
			worker.WithLogger(log),
			worker.WithMetrics(worker.NewMetrics()),
		)
		if err != nil {
			cancel()
			return nil, err
		}
		w.relay = make(chan struct{})
		go func() {
			defer close(w.relay)
			if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("outbox relay stopped", "error", err)
			}
		}()
	} else {
		log.Warn("KAFKA_BROKERS not set, audit events stay in the outbox")
	}

	pruner, err := worker.NewPruner(in.outbox, cfg.Kafka.OutboxRetention, cfg.Kafka.PruneSchedule, log)
	if err != nil {
		cancel()
		return nil, err
	}
	pruner.Start()
	w.pruner = pruner
	return w, nil
}

func (w *workers) Stop(log *slog.Logger) {
	w.cancel()
	if w.relay != nil {
		<-w.relay
	}
	<-w.pruner.Stop().Done()
	log.Info("background workers stopped")
}
