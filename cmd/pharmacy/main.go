package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/medtrack/pharmacy-pos/internal/medicine"
	medHTTP "github.com/medtrack/pharmacy-pos/internal/medicine/delivery/http"
	meddomain "github.com/medtrack/pharmacy-pos/internal/medicine/domain"
	"github.com/medtrack/pharmacy-pos/internal/sale"
	saleHTTP "github.com/medtrack/pharmacy-pos/internal/sale/delivery/http"
	saledomain "github.com/medtrack/pharmacy-pos/internal/sale/domain"
	"github.com/medtrack/pharmacy-pos/kafka"
	"github.com/medtrack/pharmacy-pos/pkg/cache"
	"github.com/medtrack/pharmacy-pos/pkg/database"
	"github.com/medtrack/pharmacy-pos/pkg/logger"
	"github.com/medtrack/pharmacy-pos/pkg/tracing"
)

func main() {
	// Load .env if present; real deployments set env vars directly
	_ = godotenv.Load()

	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "pharmacy-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting pharmacy service")

	// Initialize tracer
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	// Load database configuration
	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "pharmacydb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Connect to database
	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// Separate raw connection pool for health checks
	healthDB, err := database.NewPostgresConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to open health check connection")
	}
	defer healthDB.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&meddomain.Medicine{},
		&saledomain.Sale{},
		&saledomain.SaleItem{},
	); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}

	logger.Logger.Info().Msg("Database initialized successfully")

	// Redis cache for the POS medicine list; degrades to no caching
	// when Redis is unreachable
	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("redis_addr", redisAddr).
			Msg("Failed to connect to Redis - response caching disabled")
		redisClient = nil
	} else {
		logger.Logger.Info().
			Str("redis_addr", redisAddr).
			Msg("Connected to Redis for response caching")
	}

	inventoryCache := cache.New(redisClient, "pharmacy:medicines", 5*time.Minute)

	// Kafka publisher and audit consumer for sale events, optional
	var publisher saleHTTP.EventPublisher
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		brokerList := strings.Split(brokers, ",")

		kafkaPublisher, err := kafka.NewPublisher(brokerList)
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Failed to initialize Kafka publisher - sale events disabled")
		} else {
			defer kafkaPublisher.Close()
			publisher = kafkaPublisher
		}

		consumer, err := kafka.NewConsumer(brokerList, "pharmacy-audit", []string{kafka.TopicSaleCompleted})
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Failed to initialize Kafka consumer - sale audit log disabled")
		} else {
			defer consumer.Close()
			consumer.RegisterHandler(kafka.EventTypeSaleCompleted, auditSaleCompleted)

			consumerCtx, cancelConsumer := context.WithCancel(context.Background())
			defer cancelConsumer()
			if err := consumer.Start(consumerCtx); err != nil {
				logger.Logger.Warn().Err(err).Msg("Failed to start Kafka consumer")
			}
		}
	}

	// Initialize handlers with Wire DI
	medicineHandler, err := medicine.InitializeHTTPHandler(db, inventoryCache)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize medicine handler")
	}

	saleHandler, err := sale.InitializeHTTPHandler(db, publisher, inventoryCache)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize sale handler")
	}

	logger.Logger.Info().Msg("Handlers initialized")

	// Start HTTP server
	httpPort := getEnv("HTTP_PORT", "8080")
	startHTTPServer(medicineHandler, saleHandler, healthDB, httpPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
}

func startHTTPServer(medicineHandler *medHTTP.MedicineHandler, saleHandler *saleHTTP.SaleHandler, db *sql.DB, port string) {
	// Setup router
	router := mux.NewRouter()

	router.Use(saleHTTP.LoggingMiddleware)
	router.Use(func(next http.Handler) http.Handler {
		return saleHTTP.TracingMiddleware("http-request", next)
	})

	// Register routes
	medicineHandler.RegisterRoutes(router)
	saleHandler.RegisterRoutes(router)

	// Health check endpoint
	medicineHandler.RegisterHealthCheck(router, db)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	logger.Logger.Info().
		Str("port", port).
		Str("metrics_endpoint", "/metrics").
		Msg("HTTP server started")

	go func() {
		if err := http.ListenAndServe(":"+port, c.Handler(router)); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()
}

// auditSaleCompleted writes one audit line per committed sale
func auditSaleCompleted(ctx context.Context, event kafka.SaleCompletedEvent) error {
	logger.Info(ctx).
		Str("event_id", event.EventID).
		Uint("sale_id", event.SaleID).
		Str("receipt", event.ReceiptNumber).
		Str("total", event.TotalAmount).
		Int("lines", len(event.Lines)).
		Msg("Sale audit record")
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
