package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/redis/go-redis/v9"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/petsos-dev/availability/internal/audio"
	"github.com/petsos-dev/availability/internal/bot"
	"github.com/petsos-dev/availability/internal/extract"
	"github.com/petsos-dev/availability/internal/outbox"
	"github.com/petsos-dev/availability/internal/reconcile"
	"github.com/petsos-dev/availability/internal/session"
	"github.com/petsos-dev/availability/internal/storage"
	"github.com/petsos-dev/availability/internal/transcribe"
	"github.com/petsos-dev/availability/libs/config"
	"github.com/petsos-dev/availability/libs/db"
	"github.com/petsos-dev/availability/libs/httpx"
	"github.com/petsos-dev/availability/libs/kafkax"
	otelx "github.com/petsos-dev/availability/libs/otel"
	"github.com/petsos-dev/availability/libs/runtime"
)

const serviceName = "availability-bot"

func main() {
	logger := runtime.NewLogger(serviceName)

	if err := run(logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("service exited", "error", err)
		os.Exit(1)
	}
	logger.Info("service stopped")
}

func run(logger *slog.Logger) error {
	ctx, stop := runtime.SignalContext()
	defer stop()

	botToken, err := config.RequiredString("BOT_TOKEN")
	if err != nil {
		return err
	}
	openaiKey, err := config.RequiredString("OPENAI_API_KEY")
	if err != nil {
		return err
	}
	databaseURL, err := config.RequiredString("DATABASE_URL")
	if err != nil {
		return err
	}
	opsPort, err := config.Port("OPS_PORT", "8080")
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(config.String("TZ", "Europe/Kyiv"))
	if err != nil {
		return err
	}

	shutdownTracing, err := otelx.Setup(ctx, otelx.ConfigFromEnv(serviceName))
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	pool, err := db.Open(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	readyChecks := []runtime.ReadyCheck{
		{Name: "postgres", Check: db.ReadyCheck(pool)},
	}

	// Redis is optional: without it sessions live in process memory and
	// extraction runs unthrottled. Fine for a single instance.
	var sessionStore session.Store
	var throttle *extract.Throttle
	if redisAddr := config.String("REDIS_ADDR", ""); redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		sessionStore = session.NewRedisStore(rdb)
		throttle = extract.NewThrottle(rdb,
			config.Int("EXTRACT_RATE_LIMIT", 10),
			config.Duration("EXTRACT_RATE_WINDOW", time.Minute),
		)
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "redis", Check: session.ReadyCheck(rdb)})
	} else {
		logger.Warn("REDIS_ADDR not set, using in-memory sessions")
		sessionStore = session.NewMemoryStore()
	}

	kafkaBrokers := config.String("KAFKA_BROKERS", "")
	if kafkaBrokers != "" {
		readyChecks = append(readyChecks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(kafkaBrokers)})
	}

	openaiCfg := openai.DefaultConfig(openaiKey)
	if baseURL := config.String("OPENAI_BASE_URL", ""); baseURL != "" {
		openaiCfg.BaseURL = baseURL
	}
	openaiClient := openai.NewClientWithConfig(openaiCfg)

	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return err
	}

	outboxRepo := outbox.NewRepository(pool)
	slotRepo := storage.NewSlotRepository(pool, outboxRepo)
	vetRepo := storage.NewVetRepository(pool)

	b := bot.New(bot.Deps{
		API:         api,
		Logger:      logger,
		Sessions:    session.NewManager(sessionStore),
		Extractor:   extract.New(openaiClient, config.String("OPENAI_MODEL", ""), loc, logger),
		Transcriber: transcribe.NewWhisper(openaiClient, config.String("TRANSCRIBE_LANGUAGE", "uk")),
		Converter:   audio.NewConverter(config.String("FFMPEG_PATH", "")),
		Vets:        vetRepo,
		Slots:       slotRepo,
		Engine:      reconcile.NewEngine(slotRepo, logger),
		Throttle:    throttle,
		Location:    loc,
	})

	publisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
		Brokers:   kafkaBrokers,
		PollEvery: config.Duration("OUTBOX_POLL_EVERY", 2*time.Second),
		BatchSize: config.Int("OUTBOX_BATCH_SIZE", 50),
	})
	go publisher.Run(ctx)

	mux := runtime.NewBaseMuxWithReady(readyChecks...)
	opsServer := &http.Server{
		Addr: ":" + opsPort,
		Handler: httpx.Chain(
			otelhttp.NewHandler(mux, serviceName+".ops"),
			httpx.WithRequestID,
			httpx.WithAccessLog(logger),
			httpx.WithTimeout(5*time.Second),
		),
	}
	go func() {
		logger.Info("ops server listening", "port", opsPort)
		if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ops server failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = opsServer.Shutdown(shutdownCtx)
	}()

	return b.Run(ctx)
}
