// Package cmd is the pos-cli command tree. Every command seeds the Data Store from the local
// mirror, runs one store operation against the restaurant API and prints the result as JSON.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"restaurant-pos/pos-cli/internal/apiclient"
	"restaurant-pos/pos-cli/internal/persist"
	"restaurant-pos/pos-cli/internal/store"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	ModeProduction = "production"
	ModeLocal      = "local"
)

// NewRootCmd builds the command tree. Configuration comes, from highest precedence down, from
// flags, POS_* environment variables, the config file and the defaults below.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "pos-cli",
		Short: "Operator console for the restaurant POS",
		Long: `pos-cli manages dishes, ingredients and orders through the restaurant API and reads sales
analytics. Collections are cached in a local mirror between runs.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile, cmd.ErrOrStderr())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pos-cli.yaml)")
	flags.String("mode", ModeLocal, "API to use: production or local")
	flags.String("api-url", "", "API base URL, overriding the one selected by --mode")
	flags.String("store-backend", "file", "local mirror backend: file or redis")
	flags.String("store-path", "", "directory of the file mirror (default is the user config dir)")
	flags.String("store-redis-addr", "localhost:6379", "Redis address of the redis mirror")

	_ = v.BindPFlag("mode", flags.Lookup("mode"))
	_ = v.BindPFlag("api.url", flags.Lookup("api-url"))
	_ = v.BindPFlag("store.backend", flags.Lookup("store-backend"))
	_ = v.BindPFlag("store.path", flags.Lookup("store-path"))
	_ = v.BindPFlag("store.redis_addr", flags.Lookup("store-redis-addr"))

	v.SetDefault("api.production_url", "http://api-gateway:8080")
	v.SetDefault("api.local_url", "http://localhost:8080")

	rootCmd.AddCommand(
		newSyncCmd(v),
		newStatusCmd(v),
		newDishesCmd(v),
		newIngredientsCmd(v),
		newOrdersCmd(v),
		newSalesCmd(v),
		newSeedCmd(v),
	)
	return rootCmd
}

func initConfig(v *viper.Viper, cfgFile string, stderr io.Writer) error {
	v.SetEnvPrefix("POS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", cfgFile, err)
		}
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName(".pos-cli")
		if err := v.ReadInConfig(); err != nil {
			return nil
		}
	}

	fmt.Fprintln(stderr, "Using config file:", v.ConfigFileUsed())
	return nil
}

// BaseURL resolves the API base URL: an explicit api.url wins, otherwise mode picks between
// api.production_url and api.local_url.
func BaseURL(v *viper.Viper) (string, error) {
	if url := v.GetString("api.url"); url != "" {
		return url, nil
	}
	switch mode := v.GetString("mode"); mode {
	case ModeProduction:
		return v.GetString("api.production_url"), nil
	case ModeLocal:
		return v.GetString("api.local_url"), nil
	default:
		return "", fmt.Errorf("unknown mode %q, expected %s or %s", mode, ModeProduction, ModeLocal)
	}
}

func newPersister(v *viper.Viper) (store.Persister, func(), error) {
	switch backend := v.GetString("store.backend"); backend {
	case "file":
		dir := v.GetString("store.path")
		if dir == "" {
			configDir, err := os.UserConfigDir()
			if err != nil {
				configDir = "."
			}
			dir = filepath.Join(configDir, "pos-cli")
		}
		return persist.NewFilePersister(dir), func() {}, nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: v.GetString("store.redis_addr")})
		return persist.NewRedisPersister(client), func() { _ = client.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q, expected file or redis", backend)
	}
}

// openStore seeds a Data Store from the configured mirror. The returned func releases the mirror.
func openStore(ctx context.Context, v *viper.Viper) (*store.Store, func(), error) {
	baseURL, err := BaseURL(v)
	if err != nil {
		return nil, nil, err
	}
	persister, closeFn, err := newPersister(v)
	if err != nil {
		return nil, nil, err
	}
	return store.New(ctx, apiclient.New(baseURL, nil), persister), closeFn, nil
}

// runStore opens the store, hands it to run and releases it afterwards.
func runStore(cmd *cobra.Command, v *viper.Viper, run func(ctx context.Context, s *store.Store) error) error {
	s, closeFn, err := openStore(cmd.Context(), v)
	if err != nil {
		return err
	}
	defer closeFn()
	return run(cmd.Context(), s)
}

func printJSON(w io.Writer, value interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func Execute(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
