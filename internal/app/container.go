package app

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"gig-market/internal/config"
	"gig-market/internal/database"
	dbpostgres "gig-market/internal/database/postgres"
	"gig-market/internal/infrastructure/cache"
	"gig-market/internal/infrastructure/events"
	"gig-market/internal/infrastructure/inference"
	"gig-market/internal/infrastructure/storage"
	"gig-market/internal/repository"
	"gig-market/internal/usecase"
	"gig-market/internal/ws"
)

// Container owns the process-wide dependencies. NewContainer only opens the
// database; InitServices brings up everything the HTTP server needs.
type Container struct {
	Config config.Config
	Logger *log.Logger
	DB     database.DB
	Store  repository.Store

	Cache       *cache.Redis
	Events      usecase.EventPublisher
	Hub         *ws.Hub
	Storage     usecase.ObjectStorage
	Sentiment   usecase.TextClassifier
	Toxicity    usecase.TextClassifier
	Recommender usecase.Recommender

	closers []func() error
}

func NewContainer(cfg config.Config) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	return &Container{
		Config: cfg,
		Logger: log.Default(),
		DB:     db,
		Store:  repository.NewPostgresStore(db),
	}, nil
}

func (c *Container) InitServices() error {
	cfg := c.Config

	if strings.TrimSpace(cfg.Redis.Addr) != "" {
		c.Cache = cache.NewRedis(cfg.Redis, c.Logger)
	} else {
		c.Cache = cache.NewRedisWithClient(nil, c.Logger)
	}
	c.closers = append(c.closers, c.Cache.Close)

	pub, closePub, err := events.NewPublisher(cfg.NATS, c.Logger)
	if err != nil {
		return err
	}
	c.Events = pub
	c.closers = append(c.closers, closePub)

	if strings.TrimSpace(cfg.S3.Bucket) != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		presigner, err := storage.NewS3Presigner(ctx, cfg.S3)
		if err != nil {
			return err
		}
		c.Storage = presigner
	} else {
		c.Logger.Printf("Storage | S3 bucket not configured, uploads disabled")
	}

	c.Sentiment = inference.NewClassifier("sentiment", cfg.Inference.SentimentURL, cfg.Inference.Timeout, c.Logger)
	c.Toxicity = inference.NewClassifier("toxicity", cfg.Inference.ToxicityURL, cfg.Inference.Timeout, c.Logger)
	c.Recommender = inference.NewRecommender(cfg.Inference.RecommendationURL, cfg.Inference.Timeout, c.Logger)

	c.Hub = ws.NewHub(c.Logger)
	go c.Hub.Run()
	c.closers = append(c.closers, func() error {
		c.Hub.Stop()
		return nil
	})

	return nil
}

// Close releases services in reverse start order, then the database.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
