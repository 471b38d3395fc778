package cmd

import (
	"context"
	"fmt"
	"log"

	"lodgr/internal/data/repository"
	"lodgr/internal/gateway"
	"lodgr/internal/notification"
	"lodgr/pkg/database"
	"lodgr/pkg/utils"

	"go.uber.org/zap"
)

// runtime bundles what every subcommand needs. close releases the
// database pool, the redis client and flushes the logger.
type runtime struct {
	config *utils.Config
	logger *zap.Logger
	db     database.PgxIface
	repo   *repository.Repository
	queue  notification.Queue
	closer []func()
}

func (rt *runtime) close() {
	for i := len(rt.closer) - 1; i >= 0; i-- {
		rt.closer[i]()
	}
}

func bootstrap(ctx context.Context) (*runtime, error) {
	// Load config
	config, err := utils.LoadConfigFile(envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}

	rt := &runtime{config: config, logger: logger}
	rt.closer = append(rt.closer, func() { logger.Sync() })

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		rt.close()
		return nil, fmt.Errorf("connect database: %w", err)
	}
	rt.db = db
	rt.closer = append(rt.closer, db.Close)
	logger.Info("Database connected successfully")

	rt.repo = repository.NewRepository(db, logger)

	queue, err := newQueue(ctx, config, logger)
	if err != nil {
		rt.close()
		return nil, err
	}
	rt.queue = queue
	if rq, ok := queue.(*notification.RedisQueue); ok {
		rt.closer = append(rt.closer, func() { rq.Close() })
	}

	return rt, nil
}

func newQueue(ctx context.Context, config *utils.Config, logger *zap.Logger) (notification.Queue, error) {
	switch config.Queue.Driver {
	case "memory":
		logger.Info("Using in-memory notification queue", zap.Int("buffer", config.Queue.BufferSize))
		return notification.NewMemoryQueue(config.Queue.BufferSize), nil
	case "redis", "":
		client, err := notification.NewRedisClient(ctx, config.Redis.Addr, config.Redis.Password, config.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		logger.Info("Redis connected successfully",
			zap.String("addr", config.Redis.Addr),
			zap.String("key", config.Queue.Key),
		)
		return notification.NewRedisQueue(client, config.Queue.Key), nil
	default:
		return nil, fmt.Errorf("unknown queue driver %q", config.Queue.Driver)
	}
}

func newGateway(config *utils.Config) *gateway.Client {
	return gateway.NewClient(config.Chapa.SecretKey,
		gateway.WithBaseURL(config.Chapa.BaseURL),
		gateway.WithCurrency(config.Chapa.Currency),
		gateway.WithCallbackURL(config.Chapa.CallbackURL),
		gateway.WithReturnURL(config.Chapa.ReturnURL),
		gateway.WithTimeout(config.Chapa.Timeout),
		gateway.WithTitle(config.App.Name),
		gateway.WithTxRefGenerator(utils.GenerateTxRef),
	)
}

func newMailer(config *utils.Config, logger *zap.Logger) notification.Mailer {
	if config.Email.Host == "" {
		logger.Warn("SMTP_HOST not set, confirmations will only be logged")
		return notification.NewLogMailer(logger)
	}
	return notification.NewSMTPMailer(
		config.Email.Host,
		config.Email.Port,
		config.Email.User,
		config.Email.Password,
		config.Email.From,
	)
}

func newWorker(rt *runtime) *notification.Worker {
	return notification.NewWorker(
		rt.queue,
		notification.Lookups{
			Bookings:   rt.repo.Booking,
			Users:      rt.repo.User,
			Properties: rt.repo.Property,
		},
		newMailer(rt.config, rt.logger),
		rt.config.Queue.MaxAttempts,
		rt.logger,
	)
}
