package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KirkDiggler/charforge/internal/entities"
	draftrepo "github.com/KirkDiggler/charforge/internal/repositories/character_draft"
	"github.com/KirkDiggler/charforge/internal/services/assistant"
	"github.com/KirkDiggler/charforge/internal/services/character"
	"github.com/KirkDiggler/charforge/internal/services/levelup"
)

var (
	levelClass   string
	levelChoices []string
)

var characterCmd = &cobra.Command{
	Use:   "character",
	Short: "Inspect and advance finalized characters",
}

var characterShowCmd = &cobra.Command{
	Use:   "show <character-id>",
	Short: "Show a character",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := forge.wizard.GetCharacter(cmd.Context(), &character.GetCharacterInput{CharacterID: args[0]})
		if err != nil {
			return fmt.Errorf("failed to get character: %w", err)
		}
		return printJSON(out.Character)
	},
}

var characterXPCmd = &cobra.Command{
	Use:   "xp <character-id> <amount>",
	Short: "Add experience",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("amount must be a number: %w", err)
		}
		out, err := forge.levelUp.AddExperience(cmd.Context(), &levelup.AddExperienceInput{
			CharacterID: args[0],
			Amount:      amount,
		})
		if err != nil {
			return fmt.Errorf("failed to add experience: %w", err)
		}
		fmt.Printf("%s has %d experience at level %d\n", out.Character.ID, out.Character.Experience, out.Character.CurrentLevel)
		if out.Eligible {
			fmt.Println("Ready to level up")
		}
		return nil
	},
}

var characterMilestoneCmd = &cobra.Command{
	Use:   "milestone <character-id>",
	Short: "Award the next level by milestone",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := forge.levelUp.AwardMilestone(cmd.Context(), &levelup.AwardMilestoneInput{CharacterID: args[0]})
		if err != nil {
			return fmt.Errorf("failed to award milestone: %w", err)
		}
		fmt.Printf("%s may advance to level %d\n", out.Character.ID, out.Character.MilestoneLevel)
		return nil
	},
}

var characterLevelUpCmd = &cobra.Command{
	Use:   "levelup <character-id>",
	Short: "Level a character up",
	Long: `Plan and commit the next level. Each --choice is facet=json, for example
--choice hit_points='{"method":"roll"}'. Without choices the plan is printed
and nothing changes. A rejected choice aborts the level up.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		id := args[0]

		choices, err := parseChoices(levelChoices)
		if err != nil {
			return err
		}

		begin, err := forge.levelUp.BeginLevelUp(ctx, &levelup.BeginLevelUpInput{CharacterID: id, ClassID: levelClass})
		if err != nil {
			return fmt.Errorf("failed to begin level up: %w", err)
		}
		if len(choices) == 0 {
			if _, err := forge.levelUp.CancelLevelUp(ctx, &levelup.CancelLevelUpInput{CharacterID: id}); err != nil {
				return fmt.Errorf("failed to cancel level up: %w", err)
			}
			return printJSON(begin.Plan)
		}

		for _, c := range choices {
			out, err := forge.levelUp.SubmitLevelChoice(ctx, &levelup.SubmitLevelChoiceInput{
				CharacterID: id,
				Facet:       c.facet,
				Payload:     c.payload,
			})
			if err != nil {
				return fmt.Errorf("failed to submit %s: %w", c.facet, err)
			}
			if !out.Accepted {
				if err := printJSON(out); err != nil {
					return err
				}
				return fmt.Errorf("%s was rejected", c.facet)
			}
		}

		commit, err := forge.levelUp.CommitLevelUp(ctx, &levelup.CommitLevelUpInput{CharacterID: id})
		if err != nil {
			return fmt.Errorf("failed to commit level up: %w", err)
		}
		return printJSON(commit)
	},
}

var characterHistoryCmd = &cobra.Command{
	Use:   "history <character-id>",
	Short: "List the snapshot of every level reached",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := forge.repo.ListSnapshots(cmd.Context(), &draftrepo.ListSnapshotsInput{CharacterID: args[0]})
		if err != nil {
			return fmt.Errorf("failed to list snapshots: %w", err)
		}
		return printJSON(out.Snapshots)
	},
}

var rulesetsCmd = &cobra.Command{
	Use:   "rulesets",
	Short: "List the loaded rulesets",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		for _, d := range forge.registry.List() {
			fmt.Printf("%s\t%s\t%s\t%s\n", d.ID, d.Version, d.Name, d.Source)
		}
		return nil
	},
}

var contextCmd = &cobra.Command{
	Use:   "context <id>",
	Short: "Print the assistant context for a draft or character",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := forge.assistant.Context(cmd.Context(), &assistant.ContextInput{ID: args[0]})
		if err != nil {
			return fmt.Errorf("failed to build context: %w", err)
		}
		fmt.Print(out.Summary)
		return nil
	},
}

func init() {
	characterLevelUpCmd.Flags().StringVar(&levelClass, "class", "", "Class to advance (defaults to the primary class)")
	characterLevelUpCmd.Flags().StringArrayVar(&levelChoices, "choice", nil, "facet=json choice, repeatable")

	characterCmd.AddCommand(characterShowCmd)
	characterCmd.AddCommand(characterXPCmd)
	characterCmd.AddCommand(characterMilestoneCmd)
	characterCmd.AddCommand(characterLevelUpCmd)
	characterCmd.AddCommand(characterHistoryCmd)
}

type levelChoice struct {
	facet   entities.Facet
	payload json.RawMessage
}

func parseChoices(raw []string) ([]levelChoice, error) {
	out := make([]levelChoice, 0, len(raw))
	for _, r := range raw {
		facet, payload, ok := strings.Cut(r, "=")
		if !ok || facet == "" {
			return nil, fmt.Errorf("choice %q must be facet=json", r)
		}
		if !json.Valid([]byte(payload)) {
			return nil, fmt.Errorf("choice %s is not valid JSON", facet)
		}
		out = append(out, levelChoice{facet: entities.Facet(facet), payload: json.RawMessage(payload)})
	}
	return out, nil
}
