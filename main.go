package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-pager-bot/analytics"
	"go-pager-bot/bot"
	"go-pager-bot/config"
	"go-pager-bot/lang"
	"go-pager-bot/listener"
	"go-pager-bot/logging"
	"go-pager-bot/plugins"
	"go-pager-bot/report"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pager",
		Short: "Telegram command bot with plugin commands",
		Long: `pager logs in as a Telegram bot or user account and answers plugin
commands typed as /cmd (bot account) or -cmd (user account).

Configuration is read from the environment and from a .env file in the
working directory.`,
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newCommandsCmd())
	return root
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connect to Telegram and serve commands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runBot(ctx)
		},
	}
}

func newCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "Print the help of built-in commands without connecting",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadLocalConfig()
			if err != nil {
				return err
			}
			return printCommands(cmd.OutOrStdout(), cfg)
		},
	}
}

func runBot(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Bot configuration loaded",
		zap.Int("api_id", cfg.APIID),
		zap.String("api_hash", maskString(cfg.APIHash)),
		zap.String("bot_token", maskString(cfg.Token)),
		zap.String("phone", maskString(cfg.Phone)),
		zap.String("log_level", cfg.LogLevel),
		zap.String("language", cfg.Language))

	catalog, err := lang.Load(cfg.Language)
	if err != nil {
		return err
	}

	tgBot, err := bot.NewTelegramBot(cfg, logger)
	if err != nil {
		return err
	}
	if err := tgBot.Start(); err != nil {
		return err
	}
	defer func() { _ = tgBot.Stop() }()

	settings := cfg.Listener.Settings()
	if cfg.IsBot() && settings.UserBot == "" {
		settings.UserBot = tgBot.Self().Username
	}

	var (
		tracker listener.Tracker = analytics.Nop{}
		usage   plugins.UsageCounter
	)
	if cfg.AnalyticsDB != "" {
		store, err := analytics.Open(cfg.AnalyticsDB)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		tracker, usage = store, store
	}

	deliveries := report.Fanout{bot.NewSavedMessages(tgBot.API())}
	if cfg.ReportDir != "" {
		dir, err := report.NewDirDelivery(cfg.ReportDir)
		if err != nil {
			return err
		}
		deliveries = append(deliveries, dir)
	}

	l, err := listener.New(listener.Deps{
		Source:   tgBot.Router(),
		Settings: settings,
		Lang:     catalog,
		Admin:    bot.NewAdminChecker(tgBot.API()),
		Reports:  report.NewThrottled(deliveries, cfg.Listener.ReportBurst, cfg.Listener.ReportEvery, logger.Named("report")),
		Tracker:  tracker,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	bindings, err := plugins.Register(l, plugins.Env{Lang: catalog, Usage: usage})
	if err != nil {
		return err
	}
	logger.Info("Plugins loaded",
		zap.Int("bindings", len(bindings)),
		zap.Strings("commands", l.Help().Aliases()),
		zap.Strings("handlers", l.Handlers().Keys()),
		zap.Bool("slash_mode", settings.SlashMode()))

	go func() {
		<-ctx.Done()
		logger.Info("Shutdown signal received")
		_ = tgBot.Stop()
	}()
	return tgBot.Wait()
}

// printCommands registers the built-in plugins on a detached router and
// prints their help.
func printCommands(w io.Writer, cfg *config.BotConfig) error {
	catalog, err := lang.Load(cfg.Language)
	if err != nil {
		return err
	}

	l, err := listener.New(listener.Deps{
		Source:   bot.NewEventRouter(nil),
		Settings: cfg.Listener.Settings(),
		Lang:     catalog,
	})
	if err != nil {
		return err
	}
	if _, err := plugins.Register(l, plugins.Env{Lang: catalog}); err != nil {
		return err
	}

	for _, alias := range l.Help().Aliases() {
		text, _ := l.Help().Get(alias)
		if _, err := fmt.Fprintf(w, "%s\n\n", text); err != nil {
			return err
		}
	}
	return nil
}

// maskString masks sensitive information for logging
func maskString(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "***" + s[len(s)-4:]
}
