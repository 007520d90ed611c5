package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/charforge/internal/entities"
	"github.com/KirkDiggler/charforge/internal/rules/dnd5e"
	"github.com/KirkDiggler/charforge/internal/services/character"
)

var (
	rulesetID      string
	rulesetVersion string
	mode           string
	showStep       string
	payloadFile    string
	dryRun         bool
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Create a character step by step",
}

var draftStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new draft",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, err := forge.wizard.StartDraft(cmd.Context(), &character.StartDraftInput{
			RulesetID:      rulesetID,
			RulesetVersion: rulesetVersion,
			Mode:           entities.Mode(mode),
		})
		if err != nil {
			return fmt.Errorf("failed to start draft: %w", err)
		}
		return printJSON(out)
	},
}

var draftShowCmd = &cobra.Command{
	Use:   "show <draft-id>",
	Short: "Show a draft, optionally as of a committed step",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := forge.wizard.GetDraft(cmd.Context(), &character.GetDraftInput{
			DraftID: args[0],
			Step:    entities.Step(showStep),
		})
		if err != nil {
			return fmt.Errorf("failed to get draft: %w", err)
		}
		return printJSON(out.Draft)
	},
}

var draftSubmitCmd = &cobra.Command{
	Use:   "submit <draft-id> <step> [payload-json]",
	Short: "Validate and commit the payload for a step",
	Long: `Submit a JSON payload for the draft's current step. The payload is read
from the third argument, from --file, or from stdin when neither is given.
With --dry-run the payload is only validated.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := readPayload(args[2:])
		if err != nil {
			return err
		}

		if dryRun {
			out, err := forge.wizard.ValidateStep(cmd.Context(), &character.ValidateStepInput{
				DraftID: args[0],
				Step:    entities.Step(args[1]),
				Payload: payload,
			})
			if err != nil {
				return fmt.Errorf("failed to validate step: %w", err)
			}
			return printJSON(out)
		}

		out, err := forge.wizard.SubmitStep(cmd.Context(), &character.SubmitStepInput{
			DraftID: args[0],
			Step:    entities.Step(args[1]),
			Payload: payload,
		})
		if err != nil {
			return fmt.Errorf("failed to submit step: %w", err)
		}
		return printJSON(out)
	},
}

var draftBackCmd = &cobra.Command{
	Use:   "back <draft-id>",
	Short: "Return to the previous completed step",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := forge.wizard.GoBack(cmd.Context(), &character.GoBackInput{DraftID: args[0]})
		if err != nil {
			return fmt.Errorf("failed to go back: %w", err)
		}
		return printJSON(out.Draft)
	},
}

var draftRollCmd = &cobra.Command{
	Use:   "roll <draft-id>",
	Short: "Roll six 4d6 drop lowest ability scores",
	Long:  "Roll ability scores for the rolled abilities method. Rolling again replaces the previous rolls.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := forge.wizard.RollAbilityScores(cmd.Context(), &character.RollAbilityScoresInput{DraftID: args[0]})
		if err != nil {
			return fmt.Errorf("failed to roll ability scores: %w", err)
		}
		return printJSON(out.Session)
	},
}

var draftFinalizeCmd = &cobra.Command{
	Use:   "finalize <draft-id>",
	Short: "Turn a reviewed draft into a level 1 character",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := forge.wizard.Finalize(cmd.Context(), &character.FinalizeInput{DraftID: args[0]})
		if err != nil {
			return fmt.Errorf("failed to finalize draft: %w", err)
		}
		return printJSON(out)
	},
}

func init() {
	draftStartCmd.Flags().StringVar(&rulesetID, "ruleset", dnd5e.RulesetID, "Ruleset ID")
	draftStartCmd.Flags().StringVar(&rulesetVersion, "version", dnd5e.RulesetVersion, "Ruleset version")
	draftStartCmd.Flags().StringVar(&mode, "mode", string(entities.ModeBalanced), "Validation mode (balanced or free_for_all)")

	draftShowCmd.Flags().StringVar(&showStep, "step", "", "Show the draft as of this committed step")

	draftSubmitCmd.Flags().StringVarP(&payloadFile, "file", "f", "", "Read the payload from a file")
	draftSubmitCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate without committing")

	draftCmd.AddCommand(draftStartCmd)
	draftCmd.AddCommand(draftShowCmd)
	draftCmd.AddCommand(draftSubmitCmd)
	draftCmd.AddCommand(draftBackCmd)
	draftCmd.AddCommand(draftRollCmd)
	draftCmd.AddCommand(draftFinalizeCmd)
}

func readPayload(args []string) (json.RawMessage, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case len(args) > 0:
		data = []byte(args[0])
	case payloadFile != "":
		data, err = os.ReadFile(payloadFile)
	default:
		data, err = readStdin()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("payload is not valid JSON")
	}
	return json.RawMessage(data), nil
}

func readStdin() ([]byte, error) {
	info, err := os.Stdin.Stat()
	if err != nil {
		return nil, err
	}
	if info.Mode()&os.ModeCharDevice != 0 {
		return nil, fmt.Errorf("no payload given")
	}
	var raw json.RawMessage
	if err := json.NewDecoder(os.Stdin).Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}
