package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kambuka/storagebot/internal/bot"
	"github.com/kambuka/storagebot/internal/config"
	"github.com/kambuka/storagebot/internal/engine"
	"github.com/kambuka/storagebot/internal/health"
	"github.com/kambuka/storagebot/internal/inventory"
	"github.com/kambuka/storagebot/internal/logger"
	"github.com/kambuka/storagebot/internal/session"
	"github.com/kambuka/storagebot/internal/suggest"
)

var (
	cfgFile     string
	showVersion bool

	version = "dev"
)

func main() {
	// Local .env files are a convenience; absence is not an error.
	godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "storagebot",
	Short: "Warehouse lookup bot",
	Long: `storagebot answers warehouse queries over Telegram against a Google
spreadsheet and walks users through registering items that are not
found. A liveness endpoint runs alongside the polling loop.`,
	RunE: runBot,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "show version")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(configCmd)
}

func runBot(cmd *cobra.Command, args []string) error {
	if showVersion {
		fmt.Println("storagebot", version)
		return nil
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.Init(logger.Config{
		Level:  logger.Level(cfg.Logging.Level),
		Format: logger.Format(cfg.Logging.Format),
	}, nil)

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng, err := buildEngine(ctx, cfg)
	if err != nil {
		return err
	}

	b, err := bot.New(cfg.Telegram.Token, cfg.Telegram.Debug, eng)
	if err != nil {
		return fmt.Errorf("creating bot: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return b.Run(ctx) })
	g.Go(func() error { return health.Serve(ctx, cfg.Health.Port) })

	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// buildEngine assembles the store, suggester, and session store into an engine.
func buildEngine(ctx context.Context, cfg *config.Config) (*engine.Engine, error) {
	if err := cfg.MaterializeCredentials(); err != nil {
		return nil, err
	}

	store, err := inventory.NewSheetsStore(ctx, inventory.SheetsConfig{
		SpreadsheetID:   cfg.Sheet.SpreadsheetID,
		ReadRange:       cfg.Sheet.ReadRange,
		CredentialsFile: cfg.Sheet.CredentialsFile,
	})
	if err != nil {
		return nil, fmt.Errorf("creating inventory store: %w", err)
	}

	suggester, err := suggest.New(suggest.Config{
		Type:    cfg.Suggest.Type,
		BaseURL: cfg.Suggest.BaseURL,
		APIKey:  cfg.Suggest.APIKey,
		Model:   cfg.Suggest.Model,
	})
	if err != nil {
		// The flourish is cosmetic; a misconfigured suggester must not stop the bot.
		logger.Warn("suggester disabled", "error", err)
		suggester = suggest.Disabled{}
	}

	sessions := session.NewMemStore(time.Duration(cfg.Session.TTLMinutes) * time.Minute)

	return engine.New(store, sessions, suggester), nil
}

// searchCmd runs one lookup from the terminal.
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the inventory once and print matches",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if cfg.Sheet.SpreadsheetID == "" {
			return fmt.Errorf("spreadsheet ID is required (set SHEET_ID or SHEET_URL)")
		}

		ctx := context.Background()
		eng, err := buildEngine(ctx, cfg)
		if err != nil {
			return err
		}

		query := strings.Join(args, " ")
		matches, err := eng.Search(ctx, query)
		if err != nil {
			return fmt.Errorf("searching: %w", err)
		}

		if len(matches) == 0 {
			fmt.Println("Ничего не найдено.")
			return nil
		}
		for _, rec := range matches {
			fmt.Printf("%s\t%s\t%s\n", rec.Location, rec.Name, rec.Description)
		}
		return nil
	},
}

// listCmd prints the first records in store order.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the first 20 inventory records",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		if cfg.Sheet.SpreadsheetID == "" {
			return fmt.Errorf("spreadsheet ID is required (set SHEET_ID or SHEET_URL)")
		}

		ctx := context.Background()
		eng, err := buildEngine(ctx, cfg)
		if err != nil {
			return err
		}

		fmt.Println(eng.ListAll(ctx).Text)
		return nil
	},
}

// configCmd inspects the effective configuration.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		fmt.Printf("Spreadsheet: %s\n", cfg.Sheet.SpreadsheetID)
		fmt.Printf("Read range: %s\n", cfg.Sheet.ReadRange)
		fmt.Printf("Credentials: %s\n", cfg.Sheet.CredentialsFile)
		fmt.Printf("Suggester: %s\n", cfg.Suggest.Type)
		fmt.Printf("Health port: %d\n", cfg.Health.Port)
		fmt.Printf("Session TTL: %d min\n", cfg.Session.TTLMinutes)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
}
