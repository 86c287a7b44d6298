// Package cmd wires the CLI surface: configuration loading, logger
// bootstrap, component construction, and the subcommands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/socialine-cli/internal/config"
	"github.com/xkilldash9x/socialine-cli/internal/observability"
)

// Version is stamped at build time.
var Version = "dev"

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "socialine-cli",
	Short:   "Socialine drives automated social platform actions through a headless browser.",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v := viper.New()
		config.SetDefaults(v)

		if cfgFile != "" {
			v.SetConfigFile(cfgFile)
		} else {
			v.SetConfigName("socialine")
			v.SetConfigType("yaml")
			v.AddConfigPath(".")
			if home, err := os.UserHomeDir(); err == nil {
				v.AddConfigPath(home + "/.config/socialine")
			}
		}
		v.SetEnvPrefix("SOCIALINE")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if cfgFile != "" || !errors.As(err, &notFound) {
				return fmt.Errorf("failed to read config: %w", err)
			}
			// No config file is fine; defaults and env carry the run.
		}

		cfg, err := config.Load(v)
		if err != nil {
			observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "socialine-cli"})
			return fmt.Errorf("invalid configuration: %w", err)
		}

		observability.InitializeLogger(cfg.Logger)
		observability.GetLogger().Debug("Configuration loaded",
			zap.String("config_file", v.ConfigFileUsed()),
			zap.String("version", Version))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./socialine.yaml)")
}

// Execute adds all child commands to the root command and runs it with the
// context passed from main for graceful shutdown.
func Execute(ctx context.Context) error {
	rootCmd.AddCommand(newActCmd())
	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newSweepCmd())
	rootCmd.AddCommand(newAccountsCmd())
	rootCmd.AddCommand(newKeygenCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if ctx.Err() == nil {
			observability.GetLogger().Error("Command execution failed", zap.Error(err))
		}
		return err
	}
	return nil
}
