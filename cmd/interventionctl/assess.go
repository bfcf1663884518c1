package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-intervention-api/internal/core/intervention"
	"github.com/noah-isme/sma-intervention-api/internal/models"
)

func newAssessCmd() *cobra.Command {
	var (
		in         models.IncidentAssessment
		jsonOutput bool
	)
	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Evaluate an incident with the escalation decision tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := intervention.DetermineLevel(in)
			if err != nil {
				return err
			}
			result.Summary = intervention.EscalationSummary(result)
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			printAssessment(cmd.OutOrStdout(), in, result)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&in.StudentID, "student", "", "Student ID")
	flags.StringVar(&in.DomainID, "domain", "", "Behavioral domain ID")
	flags.BoolVar(&in.SafetyOrMajorHarm, "major-harm", false, "Incident involved safety or major harm")
	flags.BoolVar(&in.DemeritAssigned, "demerit", false, "A demerit was assigned")
	flags.IntVar(&in.IgnoredPromptsCount, "ignored-prompts", 0, "Prompts the student ignored")
	flags.IntVar(&in.OccurrencesInLast10Days, "occurrences", 0, "Occurrences in the last 10 school days, including this one")
	flags.BoolVar(&in.PeerImpact, "peer-impact", false, "Peers were affected")
	flags.BoolVar(&in.SpaceDisruption, "space-disruption", false, "The learning space was disrupted")
	flags.BoolVar(&in.SafetyRisk, "safety-risk", false, "The behavior posed a safety risk")
	flags.IntVar(&in.PriorLevelBAttemptsForPattern, "prior-level-b", 0, "Earlier Tier-B attempts for this pattern")
	flags.BoolVar(&jsonOutput, "json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("student")
	_ = cmd.MarkFlagRequired("domain")
	return cmd
}

func printAssessment(out io.Writer, in models.IncidentAssessment, result models.AssessmentResult) {
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(out, "%s %s / %s\n", bold("Incident"), in.StudentID, in.DomainID)
	fmt.Fprintf(out, "Recommended level: %s\n", levelColor(result.RecommendedLevel).Sprintf("Tier %s", result.RecommendedLevel))
	if result.IsOverride {
		fmt.Fprintln(out, color.YellowString("Override: repeated Tier-B attempts for this pattern"))
	}
	if result.AdminConsequence {
		fmt.Fprintln(out, color.RedString("Administrative consequence required"))
	}
	if len(result.MatchedReasons) > 0 {
		reasons := make([]string, 0, len(result.MatchedReasons))
		for _, r := range result.MatchedReasons {
			reasons = append(reasons, string(r))
		}
		fmt.Fprintf(out, "Reasons: %s\n", strings.Join(reasons, ", "))
	}
	fmt.Fprintln(out, dim(result.Summary))
}

func levelColor(level models.InterventionLevel) *color.Color {
	switch level {
	case models.LevelC:
		return color.New(color.FgRed, color.Bold)
	case models.LevelB:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgGreen, color.Bold)
	}
}
