package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"triage/internal/config"
	"triage/internal/service"
)

// NewRootCommand builds the triage command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "triage",
		Short: "Intent triage CLI",
		Long: `triage classifies short customer messages as question, comment or complaint,
flags low-confidence results for human review and evaluates accuracy on labeled datasets.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("no-model", false, "Skip the pretrained model and use rules only")
	rootCmd.PersistentFlags().Int("threshold", -1, "Override the escalation confidence threshold (0-100)")

	rootCmd.AddCommand(NewClassifyCommand())
	rootCmd.AddCommand(NewEvaluateCommand())
	rootCmd.AddCommand(NewDemoCommand())
	rootCmd.AddCommand(NewDatasetCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads configuration and applies the global flags
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	debug, _ := cmd.Flags().GetBool("debug")
	level := "warn"
	if debug {
		level = "debug"
	}
	config.SetupLogging(config.LoggingConfig{Level: level, Format: "console"})

	if noModel, _ := cmd.Flags().GetBool("no-model"); noModel {
		cfg.Classifier.UseModel = false
	}
	if threshold, _ := cmd.Flags().GetInt("threshold"); threshold >= 0 {
		if threshold > 100 {
			return nil, fmt.Errorf("threshold must be between 0 and 100, got %d", threshold)
		}
		cfg.Classifier.ConfidenceThreshold = threshold
	}

	return cfg, nil
}

// buildClassifier loads configuration and wires the intent classifier
func buildClassifier(cmd *cobra.Command) (*service.IntentClassifier, *service.PretrainedClassifier, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	classifier, pretrained := service.BuildIntentClassifier(ctx, cfg)
	return classifier, pretrained, nil
}
