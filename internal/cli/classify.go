package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"triage/internal/model"
)

func NewClassifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <text>",
		Short: "Classify a single message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			classifier, _, err := buildClassifier(cmd)
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			result := classifier.ClassifyWithEscalation(cmd.Context(), text)
			printClassification(cmd.OutOrStdout(), text, result)
			return nil
		},
	}

	return cmd
}

// printClassification renders a result with a 50-column confidence bar
func printClassification(w io.Writer, text string, result model.ClassificationResult) {
	fmt.Fprintf(w, "\nInput: %q\n", text)
	fmt.Fprintln(w, strings.Repeat("-", 80))
	fmt.Fprintf(w, "Classification: %s\n", strings.ToUpper(string(result.Label)))
	fmt.Fprintf(w, "Confidence: %.1f%%\n", result.Confidence)

	filled := max(0, min(int(result.Confidence/2), 50))
	fmt.Fprintf(w, "    [%s%s]\n", strings.Repeat("=", filled), strings.Repeat("-", 50-filled))

	fmt.Fprintf(w, "Reason: %s\n", result.Reason)
	if result.Escalate {
		fmt.Fprintln(w, "ESCALATE: Yes - Low confidence, needs human review")
	} else {
		fmt.Fprintln(w, "ESCALATE: No - High confidence")
	}
	fmt.Fprintf(w, "Method: %s\n", strings.ToUpper(string(result.Method)))
	fmt.Fprintln(w, strings.Repeat("-", 80))
}
