package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lmoroni/cactusbot/internal/app"
	"github.com/lmoroni/cactusbot/internal/config"
	"github.com/lmoroni/cactusbot/internal/constants"
	"github.com/lmoroni/cactusbot/internal/logger"
)

var (
	serveConfigPath string
	serveLogLevel   string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Cactusbot assistant (main command)",
	Long: `Start Cactusbot with the specified configuration.
This initializes all components (logger, message bus, scheduler, sweeper,
channels) and handles graceful shutdown on SIGINT/SIGTERM.`,
	Run: serveHandler,
}

func serveHandler(cmd *cobra.Command, args []string) {
	if err := config.LoadEnvOptional(constants.DefaultEnvPath); err != nil {
		fmt.Printf("❌ Failed to load .env file: %v\n", err)
		os.Exit(1)
	}

	configPath := serveConfigPath
	if configPath == "" {
		configPath = constants.DefaultConfigPath
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf(constants.MsgConfigLoadError, err)
		os.Exit(1)
	}

	if serveLogLevel != "" {
		cfg.Logging.Level = serveLogLevel
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		fmt.Print(constants.MsgConfigValidationError)
		for _, e := range errs {
			fmt.Printf(constants.MsgConfigValidatePrefix, e)
		}
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		fmt.Printf("❌ Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	log.Info("🌵 Starting Cactusbot",
		logger.Field{Key: "version", Value: Version},
		logger.Field{Key: "git_commit", Value: GitCommit},
		logger.Field{Key: "config", Value: configPath},
		logger.Field{Key: "workspace", Value: cfg.Workspace.Path},
		logger.Field{Key: "llm_model", Value: cfg.LLM.Gemini.Model},
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg, log)
	if err := application.Run(ctx); err != nil {
		log.Error("Cactusbot terminated with error", err)
		os.Exit(1)
	}

	log.Info("👋 Cactusbot stopped gracefully")
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to configuration file (default: ./config.toml)")
	serveCmd.Flags().StringVarP(&serveLogLevel, "log-level", "l", "", "Override log level (debug, info, warn, error)")
}
