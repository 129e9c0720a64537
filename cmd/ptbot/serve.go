package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/ptmcplay/ptbot/internal/bot"
	"github.com/ptmcplay/ptbot/internal/config"
	"github.com/ptmcplay/ptbot/internal/extract"
	"github.com/ptmcplay/ptbot/internal/logger"
	"github.com/ptmcplay/ptbot/internal/registry"
	"github.com/ptmcplay/ptbot/internal/transcode"
	"github.com/ptmcplay/ptbot/internal/workspace"
)

// Workspaces older than this are considered leaked by a previous run.
const sweepAge = 2 * time.Hour

func runServe(cfgPath string) {
	fx.New(
		fx.Provide(
			provideConfig(cfgPath),
			provideLogger,
			provideRegistry,
			provideTelegram,
			provideChat,
			provideWorkspaces,
			provideExtractor,
			providePolicy,
			bot.NewService,
		),
		fx.Invoke(
			startSweeper,
			startBot,
		),
		fx.WithLogger(func(logger *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: logger.With(slog.String("component", "fx"))}
		}),
	).Run()
}

func provideConfig(cfgPath string) func() (config.Config, error) {
	return func() (config.Config, error) {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideRegistry(lc fx.Lifecycle, cfg config.Config) (*registry.Store, error) {
	store, err := registry.Open(cfg.Registry.Path)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return store.Close() }})
	return store, nil
}

func provideTelegram(cfg config.Config, log *slog.Logger) (*bot.Telegram, error) {
	return bot.NewTelegram(cfg.Telegram.Token, log)
}

func provideChat(tg *bot.Telegram) bot.Chat { return tg }

func provideWorkspaces(cfg config.Config, log *slog.Logger) *workspace.Manager {
	return workspace.NewManager(cfg.Download.Dir, log)
}

func provideExtractor(cfg config.Config, log *slog.Logger) bot.Extractor {
	return extract.NewRunner(cfg.Download.YtDlpPath, log)
}

func providePolicy(cfg config.Config, log *slog.Logger) *transcode.Policy {
	ffmpeg := transcode.NewFFmpeg(cfg.Download.FFmpegPath, log)
	return transcode.NewPolicy(cfg.Download.MaxVideoBytes(), cfg.Download.MaxAudioBytes(), ffmpeg, log)
}

func startSweeper(lc fx.Lifecycle, cfg config.Config, workspaces *workspace.Manager, log *slog.Logger) error {
	c := cron.New()
	if _, err := c.AddFunc(cfg.Download.SweepSpec, func() { workspaces.Sweep(sweepAge) }); err != nil {
		return fmt.Errorf("sweep schedule %q: %w", cfg.Download.SweepSpec, err)
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			// Reclaim anything a crashed run left behind before serving.
			if removed := workspaces.Sweep(sweepAge); removed > 0 {
				log.Info("reclaimed orphaned workspaces", slog.Int("count", removed))
			}
			c.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			select {
			case <-c.Stop().Done():
			case <-ctx.Done():
			}
			return nil
		},
	})
	return nil
}

func startBot(lc fx.Lifecycle, svc *bot.Service, tg *bot.Telegram, log *slog.Logger, shutdowner fx.Shutdowner) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				if err := svc.Run(ctx, tg.Inbound(ctx)); err != nil {
					log.Error("bot stopped", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			tg.Stop()
			cancel()
			return nil
		},
	})
}
