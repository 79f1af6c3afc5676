package container

import (
	"context"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bath-journal/config"
	"github.com/oksasatya/bath-journal/internal/application"
	"github.com/oksasatya/bath-journal/internal/domain/repository"
	"github.com/oksasatya/bath-journal/internal/infrastructure/cache"
	"github.com/oksasatya/bath-journal/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/bath-journal/internal/infrastructure/postgres"
	"github.com/oksasatya/bath-journal/internal/infrastructure/search"
	"github.com/oksasatya/bath-journal/pkg/helpers"
)

// Store is the bath persistence as seen by the router: the repository plus
// a liveness probe.
type Store interface {
	repository.BathRepository
	Ping(ctx context.Context) error
}

// Container holds the components built at startup. It is created once in
// main and handed to the router; nothing in it is global.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	PGPool    *pgxpool.Pool
	Redis     *redis.Client
	RabbitPub *helpers.RabbitPublisher
	ES        *elasticsearch.Client

	Store   Store
	Service *application.Service
}

// New connects the configured backends and builds the bath service.
// Postgres failures are fatal. Redis, RabbitMQ and Elasticsearch are
// optional: when one is disabled or unreachable the service runs without it.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}

	if cfg.UseMemoryStore() {
		c.Store = memory.NewBathRepository()
		logger.Warn("using in-memory bath store; data is lost on restart")
	} else {
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		c.PGPool = pool
		c.Store = pginfra.NewBathRepository(pool)
	}

	// interface values stay untyped nil unless a backend is up
	var listCache application.ListCache
	if cfg.RedisEnabled {
		rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			helpers.LogError(logger, "redis unavailable; list cache and rate limiting disabled", err, logrus.Fields{"addr": cfg.RedisAddr})
		} else {
			c.Redis = rdb
			listCache = cache.NewBathListCache(rdb, cfg.ListCacheTTL)
		}
	}

	var publisher application.EventPublisher
	if cfg.EventsEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQBathEventQueue)
		if err != nil {
			helpers.LogError(logger, "rabbitmq unavailable; bath events disabled", err, nil)
		} else {
			c.RabbitPub = pub
			publisher = pub
		}
	}

	var searcher application.BathSearcher
	if cfg.SearchEnabled {
		es, err := search.NewClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			helpers.LogError(logger, "elasticsearch unavailable; search disabled", err, nil)
		} else {
			c.ES = es
			searcher = search.NewBathIndex(es, cfg.ESBathsIndex)
		}
	}

	c.Service = application.NewService(c.Store, listCache, publisher, searcher, logger)
	return c, nil
}

// Close releases every connection the container opened.
func (c *Container) Close() {
	if c.RabbitPub != nil {
		c.RabbitPub.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.PGPool != nil {
		c.PGPool.Close()
	}
}
