package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"chemebot/internal/config"
	"chemebot/internal/logger"
	"chemebot/internal/model"
	mysqlClient "chemebot/internal/platform/mysql"
	rabbitmqClient "chemebot/internal/platform/rabbitmq"
	redisClient "chemebot/internal/platform/redis"
	"chemebot/internal/repository"
	"chemebot/internal/worker"
)

// App wires process-wide resources. Redis exists only when the answer
// cache is enabled; mysql and rabbitmq only when the interaction log
// is enabled. The question pipeline itself needs neither.
type App struct {
	Config            *config.Config
	Logger            *zap.Logger
	MySQL             *gorm.DB
	Redis             *redis.Client
	MQConn            *amqp.Connection
	InteractionRepo   *repository.InteractionRepository
	InteractionWorker *worker.InteractionWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	app := &App{
		Config:    cfg,
		Logger:    logger.New(cfg.App.Env, cfg.App.LogLevel),
		StartedAt: time.Now(),
	}

	if cfg.Cache.Enabled {
		redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		app.Redis = redisCli
	}

	if cfg.MySQL.Enabled {
		mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, err
		}
		if err := mysqlDB.AutoMigrate(&model.Interaction{}); err != nil {
			return nil, fmt.Errorf("auto migrate tables failed: %w", err)
		}
		app.MySQL = mysqlDB
		app.InteractionRepo = repository.NewInteractionRepository(mysqlDB)

		mqConn, err := rabbitmqClient.New(cfg.RabbitMQ.URL)
		if err != nil {
			return nil, err
		}
		app.MQConn = mqConn

		app.InteractionWorker = worker.NewInteractionWorker(
			mqConn,
			app.InteractionRepo,
			cfg.RabbitMQ.InteractionQueue,
			app.Logger,
		)
		if err := app.InteractionWorker.Start(ctx); err != nil {
			return nil, fmt.Errorf("start interaction worker failed: %w", err)
		}
	}

	return app, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.InteractionWorker != nil {
		a.InteractionWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return closeErr
}
