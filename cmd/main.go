package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/crewdesk/crewdesk-backend/internal/data/repos"
	"github.com/crewdesk/crewdesk-backend/internal/db"
	httphandlers "github.com/crewdesk/crewdesk-backend/internal/http/handlers"
	"github.com/crewdesk/crewdesk-backend/internal/http/middleware"
	"github.com/crewdesk/crewdesk-backend/internal/jobs"
	jobhandlers "github.com/crewdesk/crewdesk-backend/internal/jobs/handlers"
	"github.com/crewdesk/crewdesk-backend/internal/observability"
	"github.com/crewdesk/crewdesk-backend/internal/pkg/logger"
	"github.com/crewdesk/crewdesk-backend/internal/realtime"
	"github.com/crewdesk/crewdesk-backend/internal/realtime/bus"
	"github.com/crewdesk/crewdesk-backend/internal/server"
	"github.com/crewdesk/crewdesk-backend/internal/services"
	"github.com/crewdesk/crewdesk-backend/internal/temporalx"
	"github.com/crewdesk/crewdesk-backend/internal/temporalx/temporalworker"
	"github.com/crewdesk/crewdesk-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "crewdesk",
		Environment: logMode,
		Version:     os.Getenv("APP_VERSION"),
	})
	if shutdownOTel != nil {
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			_ = shutdownOTel(shutdownCtx)
		}()
	}

	// Env
	log.Info("Loading environment variables from main...")
	contextWindowHours := utils.GetEnvAsInt("CHAT_CONTEXT_WINDOW_HOURS", 48, log)
	contextTurns := utils.GetEnvAsInt("CHAT_CONTEXT_TURNS", 3, log)
	welcomeDelaySeconds := utils.GetEnvAsInt("WELCOME_DELAY_SECONDS", 10, log)
	scheduleTimezone := utils.GetEnv("SCHEDULE_TIMEZONE", "Asia/Tokyo", log)
	loc, err := time.LoadLocation(scheduleTimezone)
	if err != nil {
		log.Warn("Invalid SCHEDULE_TIMEZONE, falling back to UTC", "timezone", scheduleTimezone, "error", err)
		loc = time.UTC
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	actorRepo := repos.NewActorRepo(thePG, log)
	botRepo := repos.NewBotRepo(thePG, log)
	roomRepo := repos.NewChatRoomRepo(thePG, log)
	memberRepo := repos.NewChatRoomMemberRepo(thePG, log)
	messageRepo := repos.NewChatMessageRepo(thePG, log)
	userRepo := repos.NewUserRepo(thePG, log)
	settingRepo := repos.NewOrganizationSettingRepo(thePG, log)
	workspaceRepo := repos.NewWorkspaceRepo(thePG, log)
	itemRepo := repos.NewWorkspaceItemRepo(thePG, log)
	taskRepo := repos.NewWorkspaceTaskRepo(thePG, log)
	commentRepo := repos.NewTaskCommentRepo(thePG, log)

	// Realtime
	log.Info("Setting up realtime hub now...")
	hub := realtime.NewHub(log)
	var realtimeBus bus.Bus
	if os.Getenv("REDIS_ADDR") != "" {
		realtimeBus, err = bus.NewRedisBus(log)
		if err != nil {
			log.Error("Could not init redis realtime bus", "error", err)
			os.Exit(1)
		}
		defer realtimeBus.Close()
		if err := realtimeBus.StartForwarder(ctx, func(m realtime.Message) {
			hub.Broadcast(m)
		}); err != nil {
			log.Error("Could not start realtime forwarder", "error", err)
			os.Exit(1)
		}
	} else {
		log.Warn("REDIS_ADDR not set; realtime events stay on this instance only")
	}

	// Temporal
	log.Info("Setting up Temporal client from main...")
	temporalClient, err := temporalx.NewClient(log)
	if err != nil {
		log.Error("Could not init Temporal client", "error", err)
		os.Exit(1)
	}
	if temporalClient == nil {
		log.Error("TEMPORAL_ADDRESS not set; job scheduling requires Temporal")
		os.Exit(1)
	}
	defer temporalClient.Close()
	if err := temporalx.EnsureNamespace(ctx, temporalx.LoadConfig(), log); err != nil {
		log.Warn("Temporal namespace check failed", "error", err)
	}
	scheduler, err := temporalx.NewScheduler(log, temporalClient)
	if err != nil {
		log.Error("Could not init job scheduler", "error", err)
		os.Exit(1)
	}

	// Services
	log.Info("Setting up Services from main...")
	publisher := services.NewPublisher(log, hub, realtimeBus)
	aiClients := services.NewAIClients(log, settingRepo)
	botService := services.NewBotService(log, botRepo, aiClients)
	membership := services.NewMembershipService(log, memberRepo)
	resolver := services.NewRoomResolver(log, roomRepo, actorRepo, memberRepo)
	contextBuilder := services.NewContextBuilder(log, messageRepo, time.Duration(contextWindowHours)*time.Hour, contextTurns)
	dispatcher := services.NewDispatcher(log, messageRepo, roomRepo, publisher)
	chatReply := services.NewChatReplyService(log, roomRepo, messageRepo, botService, membership, contextBuilder, aiClients, dispatcher)
	itemNotifier := services.NewItemNotifier(log, itemRepo, userRepo, roomRepo, botService, membership, dispatcher)
	taskNotifier := services.NewTaskNotifier(log, taskRepo, itemRepo, userRepo, roomRepo, botService, membership, dispatcher)
	helpWanted := services.NewHelpWantedNotifier(log, commentRepo, taskRepo, userRepo, roomRepo, botService, membership, aiClients, dispatcher)
	needReply := services.NewNeedReplyNotifier(log, commentRepo, taskRepo, itemRepo, workspaceRepo, userRepo, botService, resolver, dispatcher)
	loginNotifier := services.NewLoginNotifier(log, userRepo, botService, resolver, dispatcher, time.Duration(welcomeDelaySeconds)*time.Second)
	suggestion := services.NewSuggestionService(log, taskRepo, workspaceRepo, userRepo, botService, resolver, aiClients, dispatcher)
	reminders := services.NewReminderService(log, commentRepo, taskRepo, itemRepo, workspaceRepo, botService, resolver, aiClients, scheduler, dispatcher, loc)

	// Jobs
	log.Info("Registering job handlers from main...")
	registry := jobs.NewRegistry()
	if err := jobhandlers.RegisterAll(registry, jobhandlers.Services{
		ChatReply:  chatReply,
		Items:      itemNotifier,
		Tasks:      taskNotifier,
		HelpWanted: helpWanted,
		NeedReply:  needReply,
		Login:      loginNotifier,
		Suggest:    suggestion,
		Reminders:  reminders,
	}); err != nil {
		log.Error("Could not register job handlers", "error", err)
		os.Exit(1)
	}

	// Worker
	log.Info("Starting Temporal worker from main...")
	runner, err := temporalworker.NewRunner(log, temporalClient, registry)
	if err != nil {
		log.Error("Could not init Temporal worker", "error", err)
		os.Exit(1)
	}

	// Handlers
	log.Info("Setting up handlers from main...")
	eventHandler := httphandlers.NewEventHandler(log, scheduler)
	realtimeHandler := httphandlers.NewRealtimeHandler(log, hub)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware:  authMiddleware,
		EventHandler:    eventHandler,
		RealtimeHandler: realtimeHandler,
	})

	// Worker and HTTP server run under one errgroup; either failure tears
	// both down.
	port := utils.GetEnv("PORT", "8080", log)
	srv := &http.Server{Addr: ":" + port, Handler: router}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := runner.Start(gctx); err != nil {
			return fmt.Errorf("temporal worker: %w", err)
		}
		<-gctx.Done()
		return nil
	})
	g.Go(func() error {
		fmt.Printf("Server listening on :%s\n", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped", "error", err)
	}
}
