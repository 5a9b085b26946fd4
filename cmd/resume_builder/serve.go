package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/parsing"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/server"
	"github.com/jonathan/resume-builder/internal/session"
	"github.com/jonathan/resume-builder/internal/store"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Start the resume builder HTTP API server",
	Long: `Starts the REST API for uploading, editing, tailoring, and rendering resumes.

Configuration can be loaded from a JSON file using --config; environment
variables and command-line flags override config file values.`,
	RunE: runServe,
}

var (
	serveConfigPath  string
	servePort        int
	serveDatabaseURL string
	serveAPIKey      string
	serveChromePath  string
)

func init() {
	serveCommand.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCommand.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP listen port (defaults to PORT env var or 8080)")
	serveCommand.Flags().StringVar(&serveDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	serveCommand.Flags().StringVar(&serveAPIKey, "api-key", "", "Gemini API Key (defaults to GEMINI_API_KEY env var)")
	serveCommand.Flags().StringVar(&serveChromePath, "chrome-path", "", "Chrome binary for PDF rendering (defaults to CHROME_PATH env var)")

	rootCmd.AddCommand(serveCommand)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	client, err := llm.NewGeminiClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	text := llm.NewService(client)
	parser := parsing.New(cfg.MaxFileSize)
	renderer := rendering.NewRenderer(cfg.ChromePath)

	controller, err := session.New(ctx, db, parser, text)
	if err != nil {
		return fmt.Errorf("failed to initialize session: %w", err)
	}

	srv := server.New(server.Config{
		Port:         cfg.Port,
		MaxFileSize:  cfg.MaxFileSize,
		HistoryLimit: cfg.HistoryLimit,
	}, db, controller, parser, text, renderer)

	return srv.Start()
}

// loadConfig merges, lowest priority first: defaults, config file, env,
// explicitly set flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()

	if serveConfigPath != "" {
		fileCfg, err := config.LoadFile(serveConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg.Merge(cfg)
		fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", serveConfigPath)
	}

	envCfg, err := config.FromEnv()
	if err != nil {
		return cfg, err
	}
	cfg = envCfg.Merge(cfg)

	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = serveDatabaseURL
	}
	if cmd.Flags().Changed("api-key") {
		cfg.GeminiAPIKey = serveAPIKey
	}
	if cmd.Flags().Changed("chrome-path") {
		cfg.ChromePath = serveChromePath
	}

	return cfg, nil
}
