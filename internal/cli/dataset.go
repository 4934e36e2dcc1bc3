package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"triage/internal/dataset"
)

func NewDatasetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Inspect and split labeled datasets",
	}

	cmd.AddCommand(newDatasetStatsCommand())
	cmd.AddCommand(newDatasetSplitCommand())

	return cmd
}

func newDatasetStatsCommand() *cobra.Command {
	var in string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show label distribution and validate a dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			examples, err := dataset.Load(in)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Examples: %d\n", len(examples))
			printDistribution(out, dataset.Distribution(examples))

			if err := dataset.Validate(examples); err != nil {
				return err
			}
			fmt.Fprintln(out, "\nDataset valid: true")
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "Dataset JSON file")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}

func newDatasetSplitCommand() *cobra.Command {
	var in, trainPath, testPath string
	var testSize float64
	var seed int64

	cmd := &cobra.Command{
		Use:   "split",
		Short: "Shuffle a dataset and write train and test files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if testSize < 0 || testSize > 1 {
				return fmt.Errorf("test-size must be between 0 and 1, got %g", testSize)
			}

			examples, err := dataset.Load(in)
			if err != nil {
				return err
			}

			train, test := dataset.Split(examples, testSize, seed)
			if err := dataset.Save(trainPath, train); err != nil {
				return err
			}
			if err := dataset.Save(testPath, test); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Split dataset: %d train (%s), %d test (%s)\n", len(train), trainPath, len(test), testPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "Dataset JSON file")
	cmd.Flags().StringVar(&trainPath, "train", "data/processed/train.json", "Output path for the training split")
	cmd.Flags().StringVar(&testPath, "test", "data/processed/test.json", "Output path for the test split")
	cmd.Flags().Float64Var(&testSize, "test-size", 0.2, "Fraction of examples in the test split")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Shuffle seed")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}
