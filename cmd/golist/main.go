// Command golist serves and edits a persisted list.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"golist/internal/config"
	"golist/internal/kv"
	"golist/internal/list"
	"golist/internal/logger"
	"golist/internal/theme"
)

var (
	// Global flags
	backendFlag string
	sqlitePath  string
	verbose     bool

	cfg  *config.Config
	log  *zap.Logger
	deps *app
)

// app holds the storage shared by every command.
type app struct {
	backend kv.Store
	gateway *list.Gateway
	prefs   *theme.Preferences
	log     *zap.Logger
}

// newStore loads the list from storage.
func (a *app) newStore(ctx context.Context, opts ...list.Option) *list.Store {
	opts = append([]list.Option{list.WithLogger(a.log)}, opts...)
	return list.NewStore(ctx, a.gateway, opts...)
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:           "golist",
	Short:         "golist - a persisted list with write-through storage",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `golist keeps an ordered list of items in durable storage.

Every change re-reads storage, applies the edit and writes the whole
collection back, so several processes can share one database.

Storage is chosen with STORAGE_BACKEND (sqlite, redis or memory) or --backend.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		if cmd.Flags().Changed("backend") {
			cfg.StorageBackend = backendFlag
		}
		if cmd.Flags().Changed("db") {
			cfg.SQLitePath = sqlitePath
		}
		if verbose {
			cfg.LogLevel = "debug"
		}

		if log, err = logger.New(cfg.LogLevel); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		deps, err = openApp(cmd.Context(), cfg, log)
		return err
	},
}

// closeApp releases the storage and flushes the logger. It runs after every
// command, including failed ones.
func closeApp() {
	if deps != nil {
		if err := deps.backend.Close(); err != nil {
			log.Warn("closing storage", zap.Error(err))
		}
		deps = nil
	}
	if log != nil {
		_ = log.Sync()
	}
}

// openBackend connects to the storage backend named in cfg.
func openBackend(ctx context.Context, cfg *config.Config) (kv.Store, error) {
	switch cfg.StorageBackend {
	case config.BackendSQLite:
		return kv.OpenSQLite(cfg.SQLitePath)
	case config.BackendRedis:
		return kv.DialRedis(ctx, cfg.RedisAddr, cfg.RedisKeyPrefix)
	case config.BackendMemory:
		return kv.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func openApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.StorageBackend, err)
	}
	log.Debug("storage opened", zap.String("backend", cfg.StorageBackend))

	gw := list.NewGateway(backend,
		list.WithKey(cfg.ListStorageKey),
		list.WithQuota(cfg.StorageQuotaBytes),
		list.WithGatewayLogger(log),
	)
	return &app{
		backend: backend,
		gateway: gw,
		prefs:   theme.NewPreferences(backend, cfg.ThemeStorageKey, log),
		log:     log,
	}, nil
}

func init() {
	cobra.OnFinalize(closeApp)

	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Storage backend: sqlite, redis or memory (default from STORAGE_BACKEND)")
	rootCmd.PersistentFlags().StringVar(&sqlitePath, "db", "", "SQLite database file (default from SQLITE_PATH)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(themeCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
