package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	"github.com/hitsquad/panela/internal/config"
	"github.com/hitsquad/panela/internal/database"
	"github.com/hitsquad/panela/internal/discord"
	"github.com/hitsquad/panela/internal/jobs"
	"github.com/hitsquad/panela/internal/repository"
	"github.com/hitsquad/panela/internal/service"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load environment overrides from .env when present
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using system environment")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize storage
	var repo service.GuildConfigRepositoryInterface
	switch cfg.Database.Driver {
	case "surreal":
		db := database.NewSurrealDB(database.Config{
			Host:      cfg.Database.Host,
			Port:      cfg.Database.Port,
			User:      cfg.Database.User,
			Password:  cfg.Database.Password,
			Namespace: cfg.Database.Namespace,
			Database:  cfg.Database.Database,
		})
		if err := db.Connect(context.Background()); err != nil {
			slog.Error("failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()

		slog.Info("connected to database",
			slog.String("host", cfg.Database.Host),
			slog.String("database", cfg.Database.Database),
		)
		repo = repository.NewGuildConfigRepository(db)
	default:
		slog.Info("using in-memory config store")
		repo = repository.NewMemoryGuildConfigRepository()
	}

	// Create the Discord session
	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		slog.Error("failed to create Discord session", slog.String("error", err.Error()))
		os.Exit(1)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent |
		discordgo.IntentsGuildMembers

	if err := session.Open(); err != nil {
		slog.Error("failed to open Discord session", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = session.Close() }()

	botID := session.State.User.ID
	slog.Info("connected to Discord", slog.String("user", session.State.User.Username))

	// Initialize services
	gate := service.GatePolicy{OwnerID: cfg.Policy.OwnerID}
	roleManager := discord.NewGuildRoleManager(session, botID)
	configService := service.NewGuildConfigService(repo, gate)
	assignmentService := service.NewAssignmentService(repo, roleManager, gate, cfg.Policy.PerInviterLimits)

	// Register event handlers
	handler := discord.NewHandler(discord.HandlerConfig{
		Session:        session,
		Logger:         logger,
		Prefix:         cfg.Discord.Prefix,
		ReplyTTL:       cfg.Discord.ReplyTTL,
		MentionTimeout: cfg.Discord.MentionTimeout,
		Gate:           gate,
		Assignments:    assignmentService,
		Configs:        configService,
		Roles:          roleManager,
		ProtectedSlots: cfg.ProtectedSlots(),
	})
	session.AddHandler(handler.HandleMessageCreate)
	session.AddHandler(handler.HandleInteractionCreate)

	// Start the protected role guard
	guard := jobs.NewRoleGuard(repo, roleManager, cfg.Policy.GuardInterval, cfg.ProtectedSlots())
	guard.Start()
	defer guard.Stop()

	slog.Info("bot is ready",
		slog.String("prefix", cfg.Discord.Prefix),
		slog.String("driver", cfg.Database.Driver),
	)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
}
