package main

import (
	"context"
	"database/sql"

	config "github.com/davicafu/taskvault/internal/config"
	infraEvents "github.com/davicafu/taskvault/internal/infra/events"
	taskApp "github.com/davicafu/taskvault/internal/task/application"
	taskDomain "github.com/davicafu/taskvault/internal/task/domain"
	taskConsumer "github.com/davicafu/taskvault/internal/task/infra/inbound/events"
	taskHttp "github.com/davicafu/taskvault/internal/task/infra/inbound/http"
	chRepo "github.com/davicafu/taskvault/internal/task/infra/outbound/analytics/clickhouse"
	taskEvents "github.com/davicafu/taskvault/internal/task/infra/outbound/events"
	mongoStore "github.com/davicafu/taskvault/internal/task/infra/outbound/store/mongodb"
	pgStore "github.com/davicafu/taskvault/internal/task/infra/outbound/store/postgres"
	redisStore "github.com/davicafu/taskvault/internal/task/infra/outbound/store/rediskv"
	sqliteStore "github.com/davicafu/taskvault/internal/task/infra/outbound/store/sqlite"

	"github.com/davicafu/taskvault/pkg/logger"
	sharedBus "github.com/davicafu/taskvault/shared/platform/bus"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// ---------------- Main ----------------
func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.LogLevel)
	log := logger.Logger()
	defer log.Sync()

	ctx := context.Background()

	// ---------------- Store ----------------
	// El cliente del store se crea UNA vez por proceso y se comparte
	// entre todas las operaciones en vuelo.
	var store taskDomain.TaskStore

	switch cfg.StoreBackend {
	case config.BackendMongoDB:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatal("failed to connect to MongoDB", zap.Error(err))
		}
		defer client.Disconnect(ctx)

		store, err = mongoStore.NewTaskStoreMongoDB(ctx, client, cfg.MongoDB)
		if err != nil {
			log.Fatal("failed to initialize MongoDB store", zap.Error(err))
		}

	case config.BackendPostgres:
		db, err := sql.Open("pgx", cfg.PostgresDSN)
		if err != nil {
			log.Fatal("failed to open Postgres", zap.Error(err))
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			log.Fatal("failed to ping Postgres", zap.Error(err))
		}
		if err := pgStore.InitPostgresTaskSchema(db); err != nil {
			log.Fatal("failed to initialize Postgres schema", zap.Error(err))
		}
		store = pgStore.NewTaskStorePostgres(db)

	case config.BackendRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("failed to ping Redis", zap.Error(err))
		}
		defer rdb.Close()

		store = redisStore.NewTaskStoreRedis(rdb)

	case config.BackendSQLite:
		db, err := sql.Open("sqlite", cfg.SQLitePath)
		if err != nil {
			log.Fatal("failed to open SQLite", zap.Error(err))
		}
		defer db.Close()

		if err := sqliteStore.InitSQLiteTaskSchema(db); err != nil {
			log.Fatal("failed to initialize SQLite schema", zap.Error(err))
		}
		store = sqliteStore.NewTaskStoreSQLite(db)

	default:
		log.Fatal("unknown store backend", zap.String("backend", cfg.StoreBackend))
	}

	log.Info("✅ Task store ready", zap.String("backend", cfg.StoreBackend))

	// ---------------- Events ---------------
	var publisher sharedBus.EventPublisher
	var localBus *infraEvents.InMemoryEventBus

	if cfg.UseKafka {
		log.Info("🚀 Usando Kafka como bus de eventos")

		writer := kafka.NewWriter(kafka.WriterConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   taskDomain.TaskTopic,
		})
		defer writer.Close()

		publisher = taskEvents.NewKafkaPublisher(writer, log)
	} else {
		log.Info("⚡️Usando bus de eventos en memoria (canales de Go)")

		localBus = infraEvents.NewInMemoryEventBus(taskDomain.TaskTopic)
		publisher = localBus
	}

	// --------------- Analítica -------------
	if cfg.AnalyticsEnabled {
		analyticsRepo, err := chRepo.NewTaskEventsRepo(cfg.ClickHouseAddr, cfg.ClickHouseDB)
		if err != nil {
			log.Fatal("failed to initialize ClickHouse analytics", zap.Error(err))
		}

		consumer := taskConsumer.NewTaskAnalyticsConsumer(analyticsRepo, cfg.AnalyticsBatchSize, log)
		consumer.StartPeriodicFlush(ctx, cfg.AnalyticsFlushPeriod)

		if cfg.UseKafka {
			reader := kafka.NewReader(kafka.ReaderConfig{
				Brokers:  cfg.KafkaBrokers,
				Topic:    taskDomain.TaskTopic,
				GroupID:  "taskvault-analytics",
				MinBytes: 10e3, // 10KB
				MaxBytes: 10e6, // 10MB
			})
			defer reader.Close()

			infraEvents.NewConsumerAdapter(reader, consumer, log).Start(ctx)
		} else {
			log.Info("🎧 Iniciando listener en memoria para eventos de tarea")
			taskConsumer.BackgroundConsumerChan(ctx, localBus.Subscribe(64), consumer)
		}
	}

	// --------------- Servicio --------------
	taskService := taskApp.NewTaskService(store, publisher, log)

	// ---------------- HTTP ----------------
	taskHandler := taskHttp.NewTaskHandler(taskService)
	router := gin.Default()
	taskHttp.RegisterTaskRoutes(router, taskHandler)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	log.Info("🚀 Server running",
		zap.String("url", "http://localhost:"+cfg.HTTPPort),
	)
	if err := router.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
