// Package app assembles the bot: database, repositories, services, command
// registry, gateway and the maintenance schedule.
package app

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/haruware/mars-bot/internal/bot"
	"github.com/haruware/mars-bot/internal/commands"
	"github.com/haruware/mars-bot/internal/config"
	"github.com/haruware/mars-bot/internal/cooldown"
	"github.com/haruware/mars-bot/internal/db/postgres"
	"github.com/haruware/mars-bot/internal/features/brew"
	"github.com/haruware/mars-bot/internal/features/daily"
	"github.com/haruware/mars-bot/internal/features/economy"
	"github.com/haruware/mars-bot/internal/features/forage"
	"github.com/haruware/mars-bot/internal/features/guilds"
	"github.com/haruware/mars-bot/internal/features/items"
	"github.com/haruware/mars-bot/internal/features/moderation"
	"github.com/haruware/mars-bot/internal/features/roleplay"
	"github.com/haruware/mars-bot/internal/features/shop"
	"github.com/haruware/mars-bot/internal/jobs"
	"github.com/haruware/mars-bot/internal/persona"
	"github.com/haruware/mars-bot/internal/random"
)

// App holds everything that needs starting and stopping.
type App struct {
	log       *logrus.Logger
	pool      *pgxpool.Pool
	throttle  *cooldown.Store
	bot       *bot.Bot
	scheduler *jobs.Scheduler
}

// New connects the database, runs migrations and wires every feature into
// the shared command registry. Nothing touches the network until Start.
func New(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*App, error) {
	pool, err := postgres.NewPool(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := postgres.Migrate(ctx, pool, log); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("create session: %w", err)
	}
	botID := func() string {
		if session.State.User == nil {
			return ""
		}
		return session.State.User.ID
	}

	// Repositories.
	economyRepo := economy.NewRepository(pool)
	itemsRepo := items.NewRepository(pool)
	shopRepo := shop.NewRepository(pool)
	forageRepo := forage.NewRepository(pool)
	brewRepo := brew.NewRepository(pool)
	guildsRepo := guilds.NewRepository(pool)

	if err := shopRepo.EnsureListings(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("seed shop: %w", err)
	}

	// Services.
	roller := random.NewRoller()
	economySvc := economy.NewService(economyRepo, roller, log)
	itemsSvc := items.NewService(itemsRepo, log)
	shopSvc := shop.NewService(shopRepo, economyRepo, log)
	forageSvc := forage.NewService(economyRepo, forageRepo, roller, log)
	dailySvc := daily.NewService(economyRepo, itemsRepo, roller, log)
	brewSvc := brew.NewService(brewRepo, log)
	guildsSvc := guilds.NewService(guildsRepo, cfg.DefaultPrefix, log)
	moderationSvc := moderation.NewService(bot.NewModerationChannel(session), log)
	gifClient := roleplay.NewClient(roleplay.DefaultBaseURL)

	// Registry.
	registry := commands.NewRegistry()
	for _, h := range []interface {
		Commands() []*commands.Command
	}{
		economy.NewHandler(economySvc),
		items.NewHandler(itemsSvc),
		shop.NewHandler(shopSvc),
		forage.NewHandler(forageSvc),
		daily.NewHandler(dailySvc),
		brew.NewHandler(brewSvc),
		guilds.NewHandler(guildsSvc),
		moderation.NewHandler(moderationSvc),
		roleplay.NewHandler(gifClient, botID, log),
	} {
		for _, cmd := range h.Commands() {
			registry.Register(cmd)
		}
	}

	throttle := cooldown.NewStore()
	executor := bot.NewExecutor(throttle, log)

	var responder *persona.Responder
	if cfg.PersonaEnabled() {
		gemini := persona.NewGeminiClient(
			persona.DefaultGeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout)
		responder = persona.NewResponder(gemini, registry, executor, log)
		log.WithField("model", cfg.GeminiModel).Info("persona layer enabled")
	} else {
		log.Info("persona layer disabled, no API key")
	}

	return &App{
		log:       log,
		pool:      pool,
		throttle:  throttle,
		bot:       bot.New(session, registry, executor, guildsSvc, responder, log),
		scheduler: jobs.NewScheduler(economyRepo, shopSvc, cfg.TransactionRetention, log),
	}, nil
}

// Start opens the gateway and begins background maintenance.
func (a *App) Start(ctx context.Context) error {
	if err := a.bot.Start(ctx); err != nil {
		return err
	}
	if err := a.scheduler.Start(); err != nil {
		a.bot.Stop()
		return err
	}
	return nil
}

// Shutdown stops everything in reverse order.
func (a *App) Shutdown() {
	a.scheduler.Stop()
	if err := a.bot.Stop(); err != nil {
		a.log.WithError(err).Warn("gateway close failed")
	}
	a.throttle.Close()
	a.pool.Close()
	a.log.Info("shutdown complete")
}
