// Command formkit validates form values against a declarative schema.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose bool
	lang    string

	logger = zap.NewNop()
)

// errInvalid signals a clean run whose input failed validation.
var errInvalid = errors.New("validation failed")

var rootCmd = &cobra.Command{
	Use:           "formkit",
	Short:         "Validate form values against a schema file",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.OutputPaths = []string{"stderr"}
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&lang, "lang", "en", "language of default messages (en, ja)")
	rootCmd.AddCommand(newValidateCmd(), newCheckFieldCmd(), newJSONSchemaCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, "formkit:", err)
		}
		os.Exit(1)
	}
}
