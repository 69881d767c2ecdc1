package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/storycache/config"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	configFile string
	envFile    string
	secretsDir string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "storycache",
		Short: "storycache - context-keyed cache for generated story content",
		Long: `storycache memoizes generated story segments and choice lists per story
context (user, genre, tone, character, setting).

It serves health, metrics, and cache maintenance endpoints and can generate
one-off segments through the same cache for inspection.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Path to a YAML config file")
	flags.StringVar(&opts.envFile, "env-file", ".env", "Dotenv file loaded before reading the environment")
	flags.StringVar(&opts.secretsDir, "secrets-dir", "/run/secrets", "Base directory for secretref:file references")

	root.AddCommand(
		newServeCmd(opts),
		newGenerateCmd(opts),
		newTokenCmd(opts),
	)
	return root
}

func (o *rootOptions) load(ctx context.Context) (*config.Config, error) {
	return config.Load(ctx, config.LoadOptions{
		ConfigFile: o.configFile,
		EnvFile:    o.envFile,
		SecretsDir: o.secretsDir,
	})
}

// Execute runs the root command
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
