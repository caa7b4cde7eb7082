// File: jobbot/main.go
package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"jobbot/config"
	"jobbot/cron"
	"jobbot/database"
	eventRepo "jobbot/database/repository/event"
	ledgerRepo "jobbot/database/repository/ledger"
	"jobbot/handlers"
	"jobbot/middleware"
	"jobbot/routes"
	"jobbot/services/availability"
	"jobbot/services/booking"
	"jobbot/services/calendar"
	"jobbot/services/crm"
	"jobbot/services/dialogue"
	ai "jobbot/services/intelligence"
	"jobbot/services/session"
	"jobbot/services/telegram"
	"jobbot/utils"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// Mongo is optional: without it the ledger lives in memory and the
	// self-hosted calendar is unavailable.
	var db *mongo.Database
	if cfg.DatabaseURL != "" {
		if err := database.InitDB(cfg.DatabaseURL); err != nil {
			logger.Warn("main: MongoDB unavailable, continuing without it", zap.Error(err))
		} else {
			db = database.MongoClient.Database(cfg.DatabaseName)
		}
	}

	store := buildSessionStore(cfg, logger)
	cal := buildCalendar(rootCtx, cfg, db, logger)
	slots := availability.NewEngine(cal, cfg.Location(), logger)
	if slots.MockMode() {
		logger.Info("main: calendar running in mock mode")
	}

	var ledger ledgerRepo.BookingLedger = ledgerRepo.NewMemoryLedger()
	if db != nil {
		ledger = ledgerRepo.NewMongoLedger(db)
	}

	// Follow-ups go through asynq; the worker runs in-process when enabled.
	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}
	finalizer := &booking.DefaultFinalizer{Reserver: slots, Ledger: ledger, Logger: logger}
	var worker *asynq.Server
	var queue *asynq.Client
	if cfg.WorkerEnabled {
		queue = asynq.NewClient(redisOpt)
		finalizer.Queue = queue
		mux := cron.NewMux(crm.NewMockCRM(logger), cron.LogReminderSender{Logger: logger}, logger)
		worker = cron.StartWorker(redisOpt, mux, logger)
	}

	extractor, closeExtractor := buildExtractor(rootCtx, cfg, logger)
	defer closeExtractor.Close()

	chat := dialogue.NewEngine(store, slots, extractor, finalizer, logger, dialogue.WithTimeout(cfg.Timeout()))

	var transcriber ai.Transcriber
	if cfg.GoogleSpeechCredentials != "" {
		gt, err := ai.NewGoogleTranscriber(rootCtx, cfg.GoogleSpeechCredentials)
		if err != nil {
			logger.Warn("main: speech-to-text disabled", zap.Error(err))
		} else {
			transcriber = gt
			defer gt.Close()
		}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin, logger))

	chatHandler := handlers.NewChatHandler(chat, logger)
	liveHandler := handlers.NewLiveChatHandler(chat, logger)
	voiceHandler := handlers.NewVoiceHandler(transcriber, chat, logger)
	calendarHandler := handlers.NewCalendarHandler(slots, logger)
	bookingHandler := handlers.NewBookingHandler(finalizer, ledger, slots, logger)

	handlerBundle := &handlers.HandlerBundle{
		// Chat endpoints.
		ChatMessageHandler: chatHandler.MessageHandler,
		ChatResetHandler:   chatHandler.ResetHandler,
		ChatSessionHandler: chatHandler.SessionHandler,
		ChatSocketHandler:  liveHandler.WebSocketHandler,
		ChatVoiceHandler:   voiceHandler.VoiceMessageHandler,

		// Calendar endpoints.
		AvailableSlotsHandler:  calendarHandler.AvailableSlotsHandler,
		CalendarBookHandler:    calendarHandler.BookHandler,
		CalendarHealthHandler:  calendarHandler.HealthHandler,
		UpcomingBookingHandler: calendarHandler.UpcomingHandler,

		// Booking endpoints.
		ConfirmBookingHandler: bookingHandler.ConfirmBookingHandler,
		BookingSummaryHandler: bookingHandler.BookingSummaryHandler,
		FormatSummaryHandler:  bookingHandler.FormatSummaryHandler,
		BookTestHandler:       bookingHandler.BookTestHandler,

		HealthHandler: handlers.HealthHandler(slots.MockMode()),
	}
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(rootCtx, utils.SessionCacheClient, database.MongoClient)

	var bot *telegram.Bot
	if cfg.TelegramToken != "" {
		var err error
		bot, err = telegram.NewBot(cfg.TelegramToken, time.Duration(cfg.TelegramPollTimeout)*time.Second, chat, logger)
		if err != nil {
			logger.Warn("main: telegram bot disabled", zap.Error(err))
		} else {
			go bot.Start()
		}
	}

	port := cfg.AppPort
	if port == "" {
		port = "8000"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if bot != nil {
		bot.Stop()
	}
	if worker != nil {
		worker.Shutdown()
	}
	if queue != nil {
		queue.Close()
	}
	utils.CloseCaches()
	if err := database.Close(ctx); err != nil {
		logger.Warn("main: failed to disconnect MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// buildSessionStore falls back to memory when Redis cannot be reached.
func buildSessionStore(cfg config.Config, logger *zap.Logger) session.Store {
	if cfg.SessionBackend != "redis" {
		return session.NewMemoryStore()
	}
	if err := utils.InitSessionCache(); err != nil {
		logger.Warn("main: Redis sessions unavailable, keeping sessions in memory", zap.Error(err))
		return session.NewMemoryStore()
	}
	return session.NewRedisStore(utils.SessionCacheClient, cfg.SessionExpiry())
}

// buildCalendar returns nil for mock mode.
func buildCalendar(ctx context.Context, cfg config.Config, db *mongo.Database, logger *zap.Logger) calendar.Calendar {
	switch cfg.CalendarBackend {
	case "google":
		gc, err := calendar.NewGoogleCalendar(ctx, cfg.GoogleCalendarCredentials, cfg.GoogleCalendarID, cfg.CalendarTimeZone, logger)
		if err != nil {
			logger.Warn("main: Google Calendar unavailable", zap.Error(err))
			return nil
		}
		return gc
	case "mongo":
		if db == nil {
			logger.Warn("main: CALENDAR_BACKEND=mongo needs DATABASE_URL")
			return nil
		}
		repo := eventRepo.NewMongoEventRepo(db)
		if err := repo.EnsureIndexes(); err != nil {
			logger.Warn("main: failed to create calendar indexes", zap.Error(err))
		}
		return calendar.NewMongoCalendar(repo, cfg.CalendarLinkBase, logger)
	}
	return nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// buildExtractor picks the language model; without one the keyword
// extractor keeps the conversation moving.
func buildExtractor(ctx context.Context, cfg config.Config, logger *zap.Logger) (ai.Extractor, io.Closer) {
	switch cfg.AIProvider {
	case "openai":
		if cfg.OpenAIAPIKey != "" {
			return ai.NewOpenAIExtractor(cfg.OpenAIAPIKey, cfg.OpenAIModel, logger), nopCloser{}
		}
		logger.Warn("main: OPENAI_API_KEY not set, using keyword extraction")
	case "gemini":
		if cfg.GeminiAPIKey != "" {
			ge, err := ai.NewGeminiExtractor(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, logger)
			if err == nil {
				return ge, ge
			}
			logger.Warn("main: Gemini unavailable, using keyword extraction", zap.Error(err))
		} else {
			logger.Warn("main: GEMINI_API_KEY not set, using keyword extraction")
		}
	}
	return ai.NewLocalExtractor(), nopCloser{}
}
