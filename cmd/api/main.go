package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	pkgvalidator "github.com/sentimeter-team/sentimeter/pkg/validator"

	"github.com/sentimeter-team/sentimeter/internal/adapter/handler"
	"github.com/sentimeter-team/sentimeter/internal/infrastructure/cache"
	"github.com/sentimeter-team/sentimeter/internal/infrastructure/external/classifier"
	"github.com/sentimeter-team/sentimeter/internal/infrastructure/external/extractor"
	"github.com/sentimeter-team/sentimeter/internal/infrastructure/external/speech"
	"github.com/sentimeter-team/sentimeter/internal/infrastructure/media"
	"github.com/sentimeter-team/sentimeter/internal/infrastructure/storage"
	"github.com/sentimeter-team/sentimeter/internal/usecase/audio"
	"github.com/sentimeter-team/sentimeter/internal/usecase/document"
	"github.com/sentimeter-team/sentimeter/internal/usecase/sentiment"
	"github.com/sentimeter-team/sentimeter/pkg/config"
)

// @title           Sentimeter API
// @version         1.0
// @description     Sentiment analysis API for print media documents and audio recordings

// @contact.name   API Support

// @host      localhost:8080
// @BasePath  /v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())

	// CORS middleware
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Initialize dependencies
	log.Println("🔧 Initializing dependencies...")

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize sentiment classifier
	log.Println("🤖 Initializing sentiment classifier...")
	var sentimentClassifier sentiment.Classifier = classifier.NewHuggingFaceClassifier(&cfg.Capabilities.Classifier, logger)

	if cfg.Redis.CacheEnabled {
		log.Println("📦 Connecting to Redis for the classify cache...")
		store, err := cache.NewRedisStore(cfg)
		if err != nil {
			log.Printf("⚠️  Redis unavailable, falling back to in-memory cache: %v", err)
			sentimentClassifier = classifier.NewCachedClassifier(sentimentClassifier, cache.NewMemoryStore(), cfg.Redis.CacheTTL, logger)
		} else {
			sentimentClassifier = classifier.NewCachedClassifier(sentimentClassifier, store, cfg.Redis.CacheTTL, logger)
		}
	}

	// Warm the model up before accepting traffic
	log.Println("🔥 Warming up the sentiment model...")
	warmupCtx, warmupCancel := context.WithTimeout(context.Background(), 3*time.Minute)
	if err := sentimentClassifier.Initialize(warmupCtx); err != nil {
		warmupCancel()
		log.Fatalf("Failed to initialize classifier: %v", err)
	}
	warmupCancel()
	defer sentimentClassifier.Shutdown(context.Background())

	// Initialize upload archival
	var archiver *storage.MinIOArchiver
	if cfg.Storage.Enabled {
		log.Println("🗄️  Connecting to object storage...")
		archiver, err = storage.NewMinIOArchiver(&cfg.Storage)
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %v", err)
		}
	} else {
		log.Println("🗄️  Upload archival disabled")
	}

	// Initialize external capabilities
	log.Println("📄 Initializing text extractor...")
	textExtractor := extractor.NewPDFToolsExtractor(&cfg.Capabilities.Extractor, logger)

	log.Println("🎙️  Initializing audio decoder and transcriber...")
	decoder := media.NewFFmpegDecoder("")
	transcriber := speech.NewAssemblyAITranscriber(&cfg.Capabilities.Speech, decoder, logger)

	// Initialize analysis services
	log.Println("⚙️  Initializing analysis services...")
	analyzer := sentiment.NewAnalyzer(sentimentClassifier, cfg.Analysis.ClassifyWorkers, logger)

	documentService := document.NewService(textExtractor, analyzer, archiverOrNil(archiver), cfg.Analysis.MaxHighlights, logger)
	audioService := audio.NewService(decoder, transcriber, analyzer, archiverOrNil(archiver), audio.Config{
		WindowSeconds: cfg.Analysis.WindowSeconds,
		WindowTimeout: cfg.Analysis.WindowTimeout,
		Workers:       cfg.Analysis.ClassifyWorkers,
	}, logger)

	// Initialize handlers
	log.Println("🚀 Initializing handlers...")
	documentHandler := handler.NewDocument(documentService, cfg, logger)
	audioHandler := handler.NewAudio(audioService, cfg, logger)

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, documentHandler, audioHandler)
	router.Setup(e)

	// Start server
	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

// archiverOrNil keeps a disabled archiver as a nil interface instead of a
// typed nil pointer, which the services treat as "archival off".
func archiverOrNil(a *storage.MinIOArchiver) document.Archiver {
	if a == nil {
		return nil
	}
	return a
}
