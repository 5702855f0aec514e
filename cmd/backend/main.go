package main

import (
	"sondage-backend/internal"
	"sondage-backend/internal/auth/casbin"
	"sondage-backend/internal/cache"
	"sondage-backend/internal/config"
	"sondage-backend/internal/cors"
	"sondage-backend/internal/jwt"
	"sondage-backend/internal/person"
	"sondage-backend/internal/sondage"
	"sondage-backend/internal/sondage/proposal"
	"sondage-backend/internal/sondage/question"
	"sondage-backend/internal/sondage/response"
	"sondage-backend/internal/sondage/submit"
	"sondage-backend/internal/trace"

	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/middleware"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.6.1"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var AppName = "no-app-name"

var Version = "no-version"

var BuildTime = "no-build-time"

var CommitHash = "no-commit-hash"

var Environment = "no-env"

func main() {
	AppName = os.Getenv("APP_NAME")
	if AppName == "" {
		AppName = "sondage-backend"
	}

	if BuildTime == "no-build-time" {
		now := time.Now()
		BuildTime = "not provided (now: " + now.Format(time.RFC3339) + ")"
	}

	Environment = os.Getenv("ENV")
	if Environment == "" {
		Environment = "no-env"
	}

	appMetadata := []zap.Field{
		zap.String("app_name", AppName),
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit_hash", CommitHash),
		zap.String("environment", Environment),
	}

	cfg, cfgLog := config.Load()
	err := cfg.Validate()
	if err != nil {
		if errors.Is(err, config.ErrDatabaseURLRequired) {
			title := "Database URL is required"
			message := "Please set the DATABASE_URL environment variable or provide a config file with the database_url key."
			message = EarlyApplicationFailed(title, message)
			log.Fatal(message)
		} else {
			log.Fatalf("Failed to validate config: %v, exiting...", err)
		}
	}

	logger, err := initLogger(&cfg, appMetadata)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v, exiting...", err)
	}

	cfgLog.FlushToZap(logger)

	if cfg.Dev {
		logger.Warn("Running in development mode, make sure to disable it in production")
	}

	if cfg.Secret == config.DefaultSecret && !cfg.Debug {
		logger.Warn("Default secret detected in production environment, replace it with a secure random string")
		cfg.Secret = uuid.New().String()
	}

	logger.Info("Starting application...")

	logger.Info("Starting database migration...")

	err = databaseutil.MigrationUp(cfg.MigrationSource, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("Failed to run database migration", zap.Error(err))
	}

	dbPool, err := initDatabasePool(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to initialize database pool", zap.Error(err))
	}
	defer dbPool.Close()

	shutdown, err := initOpenTelemetry(AppName, Version, BuildTime, CommitHash, Environment, cfg.OtelCollectorUrl)
	if err != nil {
		logger.Fatal("Failed to initialize OpenTelemetry", zap.Error(err))
	}

	validator := internal.NewValidator()
	problemWriter := internal.NewProblemWriter()

	viewCache, err := cache.New(logger, cfg.RedisURL, cfg.CacheTTL)
	if err != nil {
		logger.Fatal("Failed to initialize view cache", zap.Error(err))
	}
	defer func() {
		if err := viewCache.Close(); err != nil {
			logger.Error("Failed to close view cache", zap.Error(err))
		}
	}()
	if !viewCache.Enabled() {
		logger.Info("No redis URL configured, aggregate views are rebuilt on every request")
	}

	// ============================================
	// Service
	// ============================================

	jwtService := jwt.NewService(logger, cfg.Secret)
	personService := person.NewService(logger, dbPool)
	proposalService := proposal.NewService(logger, dbPool, question.New(dbPool), viewCache)
	questionService := question.NewService(logger, dbPool, sondage.New(dbPool), proposalService, viewCache)
	responseService := response.NewService(logger, dbPool)
	sondageService := sondage.NewService(logger, dbPool, questionService, proposalService, responseService, personService, viewCache)
	submitService := submit.NewService(logger, sondageService, personService, questionService, responseService, viewCache)

	// ============================================
	// Handler
	// ============================================

	sondageHandler := sondage.NewHandler(logger, validator, problemWriter, sondageService)
	questionHandler := question.NewHandler(logger, validator, problemWriter, questionService)
	proposalHandler := proposal.NewHandler(logger, validator, problemWriter, proposalService)
	personHandler := person.NewHandler(logger, problemWriter, personService)
	responseHandler := response.NewHandler(logger, problemWriter, responseService)
	submitHandler := submit.NewHandler(logger, problemWriter, submitService)

	// ============================================
	// Middleware
	// ============================================

	traceMiddleware := trace.NewMiddleware(logger, cfg.Debug)
	corsMiddleware := cors.NewMiddleware(logger, cfg.AllowOrigins)
	jwtMiddleware := jwt.NewMiddleware(logger, problemWriter, jwtService)

	enforcer, err := casbin.NewEnforcer(cfg.CasbinModelPath, cfg.CasbinPolicyPath)
	if err != nil {
		logger.Fatal("Failed to initialize casbin enforcer", zap.Error(err))
	}
	casbinMiddleware := casbin.NewMiddleware(logger, problemWriter, enforcer)

	// Basic Middleware (Tracing and Recovery)
	basicMiddleware := middleware.NewSet(traceMiddleware.RecoverMiddleware)
	basicMiddleware = basicMiddleware.Append(traceMiddleware.TraceMiddleware)

	// Auth Middleware (JWT identity plus Casbin authorization; callers
	// without a token pass through as anonymous and the policy decides)
	authMiddleware := basicMiddleware.Append(jwtMiddleware.HandlerFunc)
	authMiddleware = authMiddleware.Append(casbinMiddleware.HandlerFunc)

	// HTTP Server
	mux := http.NewServeMux()

	// Health check route
	mux.Handle("GET /healthz", basicMiddleware.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			logger.Error("Failed to write response", zap.Error(err))
		}
	}))

	// ============================================
	// Sondage routes
	// ============================================

	// Sondage Management
	// ----------------------
	mux.Handle("GET /api/sondage", authMiddleware.HandlerFunc(sondageHandler.ListHandler))
	mux.Handle("POST /api/sondage", authMiddleware.HandlerFunc(sondageHandler.CreateHandler))
	mux.Handle("GET /api/sondage/{id}", authMiddleware.HandlerFunc(sondageHandler.GetHandler))
	mux.Handle("PUT /api/sondage/{id}", authMiddleware.HandlerFunc(sondageHandler.UpdateHandler))
	mux.Handle("DELETE /api/sondage/{id}", authMiddleware.HandlerFunc(sondageHandler.DeleteHandler))

	// -- Aggregate views
	mux.Handle("GET /api/sondage/{id}/result", authMiddleware.HandlerFunc(sondageHandler.ResultHandler))
	mux.Handle("GET /api/sondage/{id}/details", authMiddleware.HandlerFunc(sondageHandler.DetailsHandler))
	mux.Handle("GET /api/sondage/{id}/export", authMiddleware.HandlerFunc(sondageHandler.ExportHandler))

	// Question Management
	// ----------------------
	mux.Handle("GET /api/question", authMiddleware.HandlerFunc(questionHandler.ListHandler))
	mux.Handle("POST /api/question", authMiddleware.HandlerFunc(questionHandler.CreateHandler))
	mux.Handle("GET /api/question/{id}", authMiddleware.HandlerFunc(questionHandler.GetHandler))
	mux.Handle("PUT /api/question/{id}", authMiddleware.HandlerFunc(questionHandler.UpdateHandler))
	mux.Handle("DELETE /api/question/{id}", authMiddleware.HandlerFunc(questionHandler.DeleteHandler))

	// Proposal Management
	// ----------------------
	mux.Handle("GET /api/proposal", authMiddleware.HandlerFunc(proposalHandler.ListHandler))
	mux.Handle("POST /api/proposal", authMiddleware.HandlerFunc(proposalHandler.CreateHandler))
	mux.Handle("GET /api/proposal/{id}", authMiddleware.HandlerFunc(proposalHandler.GetHandler))
	mux.Handle("PUT /api/proposal/{id}", authMiddleware.HandlerFunc(proposalHandler.UpdateHandler))
	mux.Handle("DELETE /api/proposal/{id}", authMiddleware.HandlerFunc(proposalHandler.DeleteHandler))

	// ============================================
	// Respondent routes
	// ============================================

	// Person Management
	// ----------------------
	mux.Handle("GET /api/person", authMiddleware.HandlerFunc(personHandler.ListHandler))
	mux.Handle("GET /api/person/{id}", authMiddleware.HandlerFunc(personHandler.GetHandler))

	// Response Management
	// ----------------------
	mux.Handle("GET /api/response", authMiddleware.HandlerFunc(responseHandler.ListHandler))
	mux.Handle("GET /api/response/{id}", authMiddleware.HandlerFunc(responseHandler.GetHandler))
	mux.Handle("DELETE /api/response/{id}", authMiddleware.HandlerFunc(responseHandler.DeleteHandler))
	mux.Handle("GET /api/question_response", authMiddleware.HandlerFunc(responseHandler.ListAnswersHandler))

	// -- Submission
	mux.Handle("POST /api/response/submit", authMiddleware.HandlerFunc(submitHandler.SubmitHandler))

	// End of API routes
	// ============================================
	// handle interrupt signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// CORS and Entry Point
	entrypoint := corsMiddleware.HandlerFunc(mux.ServeHTTP)

	srv := &http.Server{
		Addr:    cfg.Host + ":" + cfg.Port,
		Handler: entrypoint,
	}

	go func() {
		logger.Info("Starting listening request", zap.String("host", cfg.Host), zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Fail to start server with error", zap.Error(err))
		}
	}()

	// wait for context close
	<-ctx.Done()
	logger.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	otelCtx, otelCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer otelCancel()
	if err := shutdown(otelCtx); err != nil {
		logger.Error("Forced to shutdown OpenTelemetry", zap.Error(err))
	}

	logger.Info("Successfully shutdown")
}

func initLogger(cfg *config.Config, appMetadata []zap.Field) (*zap.Logger, error) {
	var err error
	var logger *zap.Logger
	if cfg.Debug {
		logger, err = logutil.ZapDevelopmentConfig().Build()
		if err != nil {
			return nil, err
		}
		logger.Info("Running in debug mode", appMetadata...)
	} else {
		logger, err = logutil.ZapProductionConfig().Build()
		if err != nil {
			return nil, err
		}

		logger = logger.With(appMetadata...)
	}
	defer func() {
		err := logger.Sync()
		if err != nil {
			zap.S().Errorw("Failed to sync logger", zap.Error(err))
		}
	}()

	return logger, nil
}

func initDatabasePool(databaseURL string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	dbPool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, err
	}
	return dbPool, nil
}

func initOpenTelemetry(appName, version, buildTime, commitHash, environment, otelCollectorUrl string) (func(context.Context) error, error) {
	ctx := context.Background()

	serviceName := semconv.ServiceNameKey.String(appName)
	serviceVersion := semconv.ServiceVersionKey.String(version)
	serviceNamespace := semconv.ServiceNamespaceKey.String("sondage")
	serviceCommitHash := attribute.String("service.commit_hash", commitHash)
	serviceEnvironment := semconv.DeploymentEnvironmentKey.String(environment)

	res, err := resource.New(ctx,
		resource.WithAttributes(
			serviceName,
			serviceVersion,
			serviceNamespace,
			serviceCommitHash,
			serviceEnvironment,
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	options := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}

	if otelCollectorUrl != "" {
		conn, err := initGrpcConn(otelCollectorUrl)
		if err != nil {
			return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
		}

		traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}

		bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
		options = append(options, sdktrace.WithSpanProcessor(bsp))
	}

	tracerProvider := sdktrace.NewTracerProvider(options...)

	otel.SetTracerProvider(tracerProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tracerProvider.Shutdown, nil
}

func initGrpcConn(target string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	return conn, nil
}

func EarlyApplicationFailed(title, action string) string {
	result := `
-----------------------------------------
Application Failed to Start
-----------------------------------------

# What's wrong?
%s

# How to fix it?
%s

`

	result = fmt.Sprintf(result, title, action)
	return result
}
