package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// demoExamples are shown in order by the demo command
var demoExamples = []struct {
	Category string
	Texts    []string
}{
	{"Clear Questions", []string{
		"How do I reset my password?",
		"What time does the store close?",
		"Can you help me with this error?",
	}},
	{"Positive Comments", []string{
		"I really love the new features!",
		"Great job on the update.",
		"This has been very helpful, thank you!",
	}},
	{"Obvious Complaints", []string{
		"This is terrible and never works!",
		"Very disappointed with the service.",
		"The app keeps crashing constantly.",
	}},
	{"Ambiguous Cases", []string{
		"Why is this so bad?",
		"Can someone please fix this bug?",
		"I'm not sure if this is working correctly.",
	}},
}

func NewDemoCommand() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Classify a set of showcase messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			classifier, pretrained, err := buildClassifier(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rule := strings.Repeat("=", 80)

			fmt.Fprintln(out, rule)
			fmt.Fprintln(out, "INTENT TRIAGE DEMO")
			fmt.Fprintln(out, rule)
			if classifier.ModelAvailable() {
				fmt.Fprintf(out, "Model: ENABLED (%s)\n", pretrained.Provider())
			} else {
				fmt.Fprintln(out, "Model: DISABLED (using rule-based fallback)")
			}
			fmt.Fprintf(out, "Confidence Threshold: %d%%\n", classifier.Threshold())

			for _, group := range demoExamples {
				fmt.Fprintf(out, "\n%s\n  %s\n%s\n", rule, strings.ToUpper(group.Category), rule)
				for _, text := range group.Texts {
					printClassification(out, text, classifier.ClassifyWithEscalation(cmd.Context(), text))
				}
			}

			if !interactive {
				return nil
			}

			fmt.Fprintln(out, "\nNow try your own examples! (Type 'quit' to exit)")
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(out, "\nEnter text to classify: ")
				if !scanner.Scan() {
					break
				}
				text := strings.TrimSpace(scanner.Text())
				if text == "" {
					continue
				}
				switch strings.ToLower(text) {
				case "quit", "exit", "q":
					fmt.Fprintln(out, "\nThanks for trying the demo!")
					return nil
				}
				printClassification(out, text, classifier.ClassifyWithEscalation(cmd.Context(), text))
			}
			return scanner.Err()
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Read further messages from stdin")

	return cmd
}
