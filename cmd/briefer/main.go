package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"stock-news-briefer/internal/briefer/config"
	delivery "stock-news-briefer/internal/briefer/delivery/http"
	"stock-news-briefer/internal/briefer/repository"
	"stock-news-briefer/internal/briefer/scraper"
	"stock-news-briefer/internal/briefer/service"
	"stock-news-briefer/pkg/logger"
	"stock-news-briefer/pkg/telegram"

	"google.golang.org/genai"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var configPath string

var summarizeCmd = &cobra.Command{
	Use:   "summarize [symbol or company name]",
	Short: "Explains the recent price movement of a stock from fresh news",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSummarize,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the brief HTTP API",
	Run:   runServe,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Generates briefs on a schedule and delivers them via Telegram",
	Run:   runWatch,
}

// bootstrap loads config, validates credentials, and wires the pipeline.
func bootstrap() (*config.Config, *logger.Logger, service.BrieferService, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	var searchRepo repository.NewsSearchRepository
	switch cfg.Search.Provider {
	case config.ProviderGoogleRSS:
		searchRepo = repository.NewGoogleRSSRepository(cfg, appLogger)
	default:
		searchRepo = repository.NewSerpAPIRepository(cfg, appLogger)
	}

	var aiRepo repository.AIRepository
	switch cfg.AI.Provider {
	case config.ProviderGemini:
		genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to initialize Gemini AI client: %w", err)
		}
		aiRepo, err = repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to initialize Gemini AI repository: %w", err)
		}
	default:
		aiRepo = repository.NewOpenAIRepository(cfg, appLogger)
	}

	extractor := scraper.NewReadabilityExtractor(cfg, appLogger)
	brieferSvc := service.NewBrieferService(cfg, appLogger, searchRepo, extractor, aiRepo)

	return cfg, appLogger, brieferSvc, nil
}

func runSummarize(cmd *cobra.Command, args []string) error {
	_, appLogger, brieferSvc, err := bootstrap()
	if err != nil {
		return err
	}
	defer func() { _ = appLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	query := strings.Join(args, " ")

	brief, err := brieferSvc.GenerateBrief(ctx, query)
	if err != nil {
		return err
	}

	fmt.Println(brief.Summary)
	return nil
}

func runServe(cmd *cobra.Command, args []string) {
	cfg, appLogger, brieferSvc, err := bootstrap()
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLogger.Info("Starting brief API", logger.Field("name", cfg.App.Name))

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	briefHandler := delivery.NewBriefHandler(brieferSvc, appLogger)
	apiV1 := e.Group("/api/v1")
	briefsGroup := apiV1.Group("/briefs")
	briefHandler.RegisterRoutes(briefsGroup)

	go func() {
		addr := cfg.API.Addr()
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func runWatch(cmd *cobra.Command, args []string) {
	cfg, appLogger, brieferSvc, err := bootstrap()
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	if err := cfg.ValidateWatch(); err != nil {
		appLogger.Fatal("Invalid watch configuration", logger.ErrorField(err))
	}

	telegramNotifier, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
	if err != nil {
		appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	watchSvc := service.NewWatchService(cfg, appLogger, brieferSvc, telegramNotifier)

	c := cron.New()
	if _, err := c.AddFunc(cfg.Watch.Cron, func() { watchSvc.Run(ctx) }); err != nil {
		appLogger.Fatal("Invalid cron expression", logger.ErrorField(err), logger.StringField("cron", cfg.Watch.Cron))
	}
	c.Start()

	appLogger.Info("Watch mode started",
		logger.StringField("cron", cfg.Watch.Cron),
		logger.IntField("symbols", len(cfg.Watch.Symbols)),
	)

	<-ctx.Done()

	appLogger.Info("Shutting down watch mode...")
	<-c.Stop().Done()
	appLogger.Info("Watch mode stopped")
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "briefer",
		Short:         "A stock news briefer: search, extract, and summarize why a stock moved",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
