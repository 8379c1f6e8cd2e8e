// Package cli provides the command-line interface for probnum.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mahdi-shafiei/probnum/internal/cli/commands"
	"github.com/mahdi-shafiei/probnum/internal/config"
)

// Version information (set at build time).
var Version = "0.1.0-dev"

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "probnum",
		Short: "probnum - random variable arithmetic",
		Long: `probnum propagates Gaussian and degenerate random variables through
affine arithmetic in closed form.

Problems are YAML documents describing a random variable and the steps
applied to it. See "probnum eval --help".`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			cfg.ApplyParallel()

			logger := cfg.NewLogger(cmd.ErrOrStderr())
			if cfg.FileUsed != "" {
				logger.Debug("using config file", "path", cfg.FileUsed)
			}

			ctx := config.WithConfig(cmd.Context(), cfg)
			ctx = config.WithLogger(ctx, logger)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	// Global persistent flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./"+config.DefaultFile+")")
	flags.StringP("output", "o", config.DefaultOutput, "Output format (table|yaml|json)")
	flags.String("log-level", config.DefaultLogLevel, "Log level (debug|info|warn|error)")
	flags.Int("precision", config.DefaultPrecision, "Significant digits in table output")
	flags.Int("workers", 0, "Worker goroutines for large kernels (0 = GOMAXPROCS)")
	flags.Int("min-chunk", 0, "Minimum elements per worker (0 = default)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.OutputTable, config.OutputYAML, config.OutputJSON}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewEvalCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
