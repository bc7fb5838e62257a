package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Sternrassler/art-explorer/internal/config"
	"github.com/Sternrassler/art-explorer/pkg/catalog"
	"github.com/Sternrassler/art-explorer/pkg/logging"
	"github.com/Sternrassler/art-explorer/pkg/render"
	"github.com/Sternrassler/art-explorer/pkg/session"
)

const (
	// configKeyAnnotation maps a flag to the config key it overrides.
	configKeyAnnotation = "art-explorer/config-key"

	// logLevelAnnotation is a command's log level when none is configured.
	logLevelAnnotation = "art-explorer/log-level"
)

// app carries the loaded configuration into subcommands.
type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     config.Config
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "art-explorer",
		Short: "Search and browse the Metropolitan Museum of Art collection",
		Long: `art-explorer searches the Metropolitan Museum of Art collection by keyword
and pages through the results, twelve artworks at a time in three columns.

Use it one-shot (search), interactively (browse), as an HTTP JSON API (serve)
or as MCP tools for agents (mcp).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			return a.load(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./art-explorer.yaml or ~/.config/art-explorer/art-explorer.yaml)")
	cmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error, disabled")
	cmd.PersistentFlags().Duration("timeout", catalog.DefaultTimeout, "timeout for each catalog request")
	cmd.PersistentFlags().Int("concurrency", 1, "artworks loaded in parallel per page (1 = sequential)")
	bindFlag(cmd.PersistentFlags(), "log-level", "log.level")
	bindFlag(cmd.PersistentFlags(), "timeout", "catalog.timeout")
	bindFlag(cmd.PersistentFlags(), "concurrency", "render.concurrency")

	cmd.AddCommand(
		newSearchCmd(a),
		newBrowseCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
		newConfigCmd(a),
	)

	return cmd
}

// bindFlag marks flag name as an override for config key.
func bindFlag(flags *pflag.FlagSet, name, key string) {
	if err := flags.SetAnnotation(name, configKeyAnnotation, []string{key}); err != nil {
		panic(err)
	}
}

// load reads configuration and sets up logging for cmd.
func (a *app) load(cmd *cobra.Command) error {
	v, err := config.NewViper(a.cfgFile)
	if err != nil {
		return err
	}

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		keys, ok := f.Annotations[configKeyAnnotation]
		if !ok || len(keys) == 0 || bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(keys[0], f)
	})
	if bindErr != nil {
		return fmt.Errorf("bind flags: %w", bindErr)
	}

	if !logLevelExplicit(cmd, v) {
		if level, ok := cmd.Annotations[logLevelAnnotation]; ok {
			v.Set("log.level", level)
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logging.Setup(cfg.LoggingConfig(cmd.ErrOrStderr()))

	a.v = v
	a.cfg = cfg
	return nil
}

// logLevelExplicit reports whether the user chose a log level by flag,
// environment or config file.
func logLevelExplicit(cmd *cobra.Command, v *viper.Viper) bool {
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		return true
	}
	if _, ok := os.LookupEnv(config.EnvPrefix + "_LOG_LEVEL"); ok {
		return true
	}
	return v.InConfig("log.level")
}

// newCatalog creates the catalog client.
func (a *app) newCatalog() (*catalog.Client, error) {
	return catalog.New(a.cfg.CatalogClientConfig())
}

// newRenderer creates a renderer over client.
func (a *app) newRenderer(client *catalog.Client) *render.Renderer {
	return render.New(client, client, a.cfg.RendererConfig())
}

// openStore returns the configured session store and a close function.
func (a *app) openStore(ctx context.Context) (session.Store, func() error, error) {
	switch a.cfg.Session.Store {
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     a.cfg.Redis.Addr,
			Password: a.cfg.Redis.Password,
			DB:       a.cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", a.cfg.Redis.Addr, err)
		}
		return session.NewRedisStore(client, a.cfg.Session.TTL), client.Close, nil
	default:
		return session.NewMemoryStore(a.cfg.Session.TTL), func() error { return nil }, nil
	}
}
