package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fec-sim/fec-sim/sim/args"
	"github.com/fec-sim/fec-sim/sim/launcher"
)

// rootOptions holds the flags shared by every family subcommand.
type rootOptions struct {
	logLevel   string // Log verbosity level
	precision  int    // Bit width selecting the B/R/Q types
	configPath string // YAML file with argument values
}

// rootCmd is the base command for the CLI
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "fec-sim",
		Short:         "Monte-Carlo bit/frame error rate simulator for forward error correction codes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := logrus.ParseLevel(opts.logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q", opts.logLevel)
			}
			logrus.SetLevel(level)
			if _, ok := precisions[opts.precision]; !ok {
				return fmt.Errorf("--prec must be one of 8, 16, 32 or 64, got %d", opts.precision)
			}
			if opts.configPath != "" {
				if err := configFileType().Check(opts.configPath); err != nil {
					return fmt.Errorf("--config: %w", err)
				}
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	root.PersistentFlags().IntVar(&opts.precision, "prec", 32, "Precision in bits of the simulated types (8, 16, 32 or 64)")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "YAML file of argument values, overridden by flags")

	for _, name := range launcher.FamilyNames() {
		root.AddCommand(newFamilyCmd(name, opts))
	}
	return root
}

// configFileType accepts existing YAML files.
func configFileType() *args.File {
	return args.NewFile(args.Read).Clone(args.Extension(".yaml", ".yml"))
}

// Execute runs the CLI root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var readErr *args.ReadError
		if !errors.As(err, &readErr) {
			logrus.Error(err)
		}
		stop()
		os.Exit(1)
	}
}
