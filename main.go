package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
	"github.com/joho/godotenv"

	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot"
	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/commands"
	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/config"
	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/database"
	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/database/repositories"
	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/game"
	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/handlers"
	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/logger"
	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/migration"
	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/services"
	"github.com/aurumtokenaur/aurum-mining-bot/aurumbot/transport"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	_ = godotenv.Load()

	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	legacyPath := flag.String("import-legacy", "", "Path to an aurum_data.json file to import before starting")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := aurumbot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	if token := os.Getenv("BOT_TOKEN"); token != "" {
		cfg.Bot.Token = token
	}

	customHandler := logger.NewHandler(cfg.Log.Level)
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting Aurum Mining Bot",
		slog.String("version", version),
		slog.String("commit", commit))

	gameCfg, err := cfg.Game.ToGame()
	if err != nil {
		slog.Error("Invalid game configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	slog.Info("Initializing database connection...")
	dbStartTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema",
			slog.String("error", err.Error()))
		os.Exit(-1)
	}
	slog.Info("Database ready",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	b := aurumbot.New(*cfg, version, commit)
	b.DB = db
	b.Snapshots = repositories.NewSnapshotRepository(db.BunDB())

	snap, err := loadState(ctx, b.Snapshots, *legacyPath)
	if err != nil {
		slog.Error("Failed to load game state", slog.Any("error", err))
		os.Exit(-1)
	}

	notifier := transport.NewNotifier(nil, cfg.Bot.ChannelID)
	engine, err := game.New(gameCfg, game.SystemClock(), notifier, b.Snapshots)
	if err != nil {
		slog.Error("Failed to build game engine", slog.Any("error", err))
		os.Exit(-1)
	}
	engine.Restore(snap)
	b.Engine = engine

	b.Exporter = services.NewExportService(gameCfg.Location)
	b.RankingImages = services.NewRankingImageService()

	if cfg.Spaces.Key != "" {
		spaces, err := services.NewSpacesService(
			cfg.Spaces.Key,
			cfg.Spaces.Secret,
			cfg.Spaces.Region,
			cfg.Spaces.Bucket,
			cfg.Spaces.ExportRoot,
		)
		if err != nil {
			slog.Error("Failed to initialize Spaces service", slog.Any("error", err))
			os.Exit(-1)
		}
		b.Spaces = spaces
	} else {
		slog.Warn("Spaces credentials missing, exports will only attach to Discord")
	}

	h := handler.New()
	h.Command("/start", handlers.WrapWithLogging("start", commands.StartHandler(b)))
	h.Command("/points", handlers.WrapWithLogging("points", commands.PointsHandler(b)))
	h.Command("/ranking", handlers.WrapWithLogging("ranking", commands.RankingHandler(b)))
	h.Command("/info", handlers.WrapWithLogging("info", commands.InfoHandler(b)))
	h.Command("/dashboard", handlers.WrapWithLogging("dashboard", commands.DashboardHandler(b)))
	h.Command("/export", handlers.WrapWithLogging("export", commands.ExportHandler(b)))
	h.Component(transport.MineButtonID, handlers.WrapComponentWithLogging("mine", commands.MineButtonHandler(b)))

	if err = b.SetupBot(h,
		bot.NewListenerFunc(b.OnReady),
		handlers.MessageHandler(engine, cfg.Bot.ChannelID),
	); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)),
			slog.String("component", "bot_setup"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}
	notifier.SetClient(b.Client)

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds),
		)
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("component", "command_sync"),
				slog.String("status", "failed"),
			)
		}
	}

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = b.Client.OpenGateway(ctx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("component", "gateway"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	snapshotCtx, snapshotCancel := context.WithCancel(context.Background())
	defer snapshotCancel()
	go snapshotLoop(snapshotCtx, engine)

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s

	slog.Info("Shutting down bot...")
	snapshotCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := engine.Persist(shutdownCtx); err != nil {
		slog.Error("Final snapshot failed", slog.Any("error", err))
	}
}

// loadState restores the last snapshot, or imports a legacy data file when
// one was supplied on the command line.
func loadState(ctx context.Context, repo repositories.SnapshotRepository, legacyPath string) (game.Snapshot, error) {
	if legacyPath != "" {
		slog.Info("Importing legacy data file", slog.String("file", legacyPath))
		return migration.ImportLegacyJSON(ctx, legacyPath, repo)
	}
	return repo.Load(ctx)
}

// snapshotLoop persists the engine state on a fixed cadence so a crash
// loses at most one interval of history.
func snapshotLoop(ctx context.Context, engine *game.Engine) {
	ticker := time.NewTicker(config.SnapshotInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			saveCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := engine.Persist(saveCtx); err != nil {
				slog.Error("Periodic snapshot failed",
					slog.String("type", "db"),
					slog.Any("error", err))
			}
			cancel()
		case <-ctx.Done():
			return
		}
	}
}
