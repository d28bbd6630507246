package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fulfillment/cmd"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/domain/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	loadEnv()
	configs := getConfigs()
	logger := newLogger(configs.LogLevel)

	gormDB, err := gorm.Open(gormpostgres.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err = postgres.Migrate(gormDB); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	app := cmd.NewCompositionRoot(configs, gormDB, startBots(configs, logger), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}

	var wg sync.WaitGroup
	for _, listener := range app.CreateListeners() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			listener.Run(ctx)
		}()
	}

	startWebServer(ctx, app, configs.HTTPPort, logger)

	jobManager.StopAll()
	wg.Wait()
	if err = app.Close(); err != nil {
		logger.Error("closing event publisher", "error", err)
	}
	logger.Info("stopped")
}

// loadEnv reads .env.<APP_ENV> and then .env. Values already in the process
// environment win; missing files are fine.
func loadEnv() {
	files := []string{".env"}
	if env := os.Getenv("APP_ENV"); env != "" {
		files = append([]string{".env." + env}, files...)
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warnf("Error loading %s: %v", file, err)
		}
	}
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:              envOr("HTTP_PORT", "8080"),
		DBHost:                envOr("DB_HOST", "localhost"),
		DBPort:                envOr("DB_PORT", "5432"),
		DBUser:                os.Getenv("DB_USER"),
		DBPassword:            os.Getenv("DB_PASSWORD"),
		DBName:                os.Getenv("DB_NAME"),
		DBSslMode:             envOr("DB_SSLMODE", "disable"),
		ClientBotToken:        os.Getenv("CLIENT_BOT_TOKEN"),
		AdminBotToken:         os.Getenv("ADMIN_BOT_TOKEN"),
		ReceiverBotToken:      os.Getenv("RECEIVER_BOT_TOKEN"),
		PickerBotToken:        os.Getenv("PICKER_BOT_TOKEN"),
		CourierBotToken:       os.Getenv("COURIER_BOT_TOKEN"),
		WebAppURL:             os.Getenv("WEB_APP_URL"),
		YandexGeocoderAPIKey:  os.Getenv("YANDEX_GEOCODER_API_KEY"),
		NominatimURL:          os.Getenv("NOMINATIM_URL"),
		KafkaBrokers:          os.Getenv("KAFKA_BROKERS"),
		KafkaOrderStatusTopic: os.Getenv("KAFKA_ORDER_STATUS_TOPIC"),
		AdminReportCron:       os.Getenv("ADMIN_REPORT_CRON"),
		LogLevel:              envOr("LOG_LEVEL", "info"),
	}

	if raw := os.Getenv("GEOCODER_TIMEOUT"); raw != "" {
		timeout, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("Invalid GEOCODER_TIMEOUT %q: %v", raw, err)
		}
		config.GeocoderTimeout = timeout
	}
	return config
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
}

// startBots connects every channel that has a token. A channel whose bot
// cannot start is left disabled.
func startBots(configs cmd.Config, logger *slog.Logger) map[services.Channel]*tgbotapi.BotAPI {
	bots := make(map[services.Channel]*tgbotapi.BotAPI)
	for channel, token := range configs.BotTokens() {
		if token == "" {
			logger.Warn("bot token not configured, channel disabled", "channel", channel.String())
			continue
		}
		bot, err := tgbotapi.NewBotAPI(token)
		if err != nil {
			logger.Error("bot not started, channel disabled", "channel", channel.String(), "error", err)
			continue
		}
		logger.Info("bot started", "channel", channel.String(), "username", bot.Self.UserName)
		bots[channel] = bot
	}
	return bots
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, port string, logger *slog.Logger) {
	e, err := app.CreateHTTPServer()
	if err != nil {
		log.Fatalf("Error creating HTTP server: %v", err)
	}

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()
	logger.Info("http server started", "port", port)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", "error", err)
	}
}
