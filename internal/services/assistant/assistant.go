// Package assistant gathers the read-only context an AI helper needs to
// advise on a draft or a character. It never writes.
package assistant

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/KirkDiggler/charforge/internal/entities"
	"github.com/KirkDiggler/charforge/internal/errors"
	"github.com/KirkDiggler/charforge/internal/services/character"
	"github.com/KirkDiggler/charforge/internal/services/levelup"
)

// maxLegalChoices caps how many legal choices the summary lists
const maxLegalChoices = 12

// Source reads drafts, characters and validation results
type Source interface {
	GetDraft(ctx context.Context, input *character.GetDraftInput) (*character.GetDraftOutput, error)
	GetCharacter(ctx context.Context, input *character.GetCharacterInput) (*character.GetCharacterOutput, error)
	LastValidation(ctx context.Context, input *character.LastValidationInput) (*character.LastValidationOutput, error)
}

// Sessions reads pending level ups
type Sessions interface {
	GetSession(ctx context.Context, input *levelup.GetSessionInput) (*levelup.GetSessionOutput, error)
}

// Config holds the provider dependencies. Sessions is optional.
type Config struct {
	Source   Source
	Sessions Sessions
}

// Validate checks the config
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Source == nil {
		vb.RequiredField("Source")
	}
	return vb.Build()
}

// Provider builds assistant context
type Provider struct {
	source   Source
	sessions Sessions
}

// New creates a Provider
func New(cfg *Config) (*Provider, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &Provider{source: cfg.Source, sessions: cfg.Sessions}, nil
}

// ContextInput names a draft or character
type ContextInput struct {
	ID string
}

// ContextOutput is everything known about the ID. Draft and Character are
// both set for a finalized draft.
type ContextOutput struct {
	Draft      *entities.CharacterDraft
	Character  *entities.Character
	Validation *entities.ValidationResult
	Session    *levelup.Session
	Summary    string
}

// Context returns the state for input.ID and a plain-text summary of it
func (p *Provider) Context(ctx context.Context, input *ContextInput) (*ContextOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.ID == "" {
		return nil, errors.InvalidArgument("ID is required")
	}

	out := &ContextOutput{}

	draft, err := p.source.GetDraft(ctx, &character.GetDraftInput{DraftID: input.ID})
	switch {
	case err == nil:
		out.Draft = draft.Draft
		last, err := p.source.LastValidation(ctx, &character.LastValidationInput{DraftID: input.ID})
		if err != nil {
			return nil, errors.Wrap(err, "failed to load validation result")
		}
		out.Validation = last.Result
	case !errors.IsNotFound(err):
		return nil, errors.Wrap(err, "failed to load draft")
	}

	if out.Draft == nil || out.Draft.IsFinalized() {
		char, err := p.source.GetCharacter(ctx, &character.GetCharacterInput{CharacterID: input.ID})
		switch {
		case err == nil:
			out.Character = char.Character
		case !errors.IsNotFound(err):
			return nil, errors.Wrap(err, "failed to load character")
		}
	}

	if out.Draft == nil && out.Character == nil {
		return nil, errors.NotFoundf("no draft or character %s", input.ID)
	}

	if out.Character != nil && p.sessions != nil {
		session, err := p.sessions.GetSession(ctx, &levelup.GetSessionInput{CharacterID: input.ID})
		if err != nil {
			return nil, errors.Wrap(err, "failed to load level up session")
		}
		if session.Session.State != levelup.StateIdle {
			out.Session = session.Session
		}
	}

	out.Summary = Summarize(out)
	return out, nil
}

// Summarize renders out as prompt-ready text
func Summarize(out *ContextOutput) string {
	var b strings.Builder

	if c := out.Character; c != nil {
		fmt.Fprintf(&b, "Character %s (%s %s, %s)\n", c.ID, c.RulesetID, c.RulesetVersion, c.Mode)
		fmt.Fprintf(&b, "Level %d, %d experience", c.CurrentLevel, c.Experience)
		if c.MilestoneLevel > c.CurrentLevel {
			fmt.Fprintf(&b, ", milestone to level %d", c.MilestoneLevel)
		}
		b.WriteString("\n")
		writeFacets(&b, c.Facets)
	} else if d := out.Draft; d != nil {
		fmt.Fprintf(&b, "Draft %s (%s %s, %s)\n", d.ID, d.RulesetID, d.RulesetVersion, d.Mode)
		fmt.Fprintf(&b, "Current step: %s\n", d.CurrentStep)
		if len(d.CompletedSteps) > 0 {
			steps := make([]string, len(d.CompletedSteps))
			for i, s := range d.CompletedSteps {
				steps[i] = string(s)
			}
			fmt.Fprintf(&b, "Completed: %s\n", strings.Join(steps, ", "))
		}
		writeFacets(&b, d.Facets)
		writeViolations(&b, "Flagged for review", d.Flags)
		writeViolations(&b, "Advisories", d.Advisories)
	}

	if s := out.Session; s != nil {
		fmt.Fprintf(&b, "Level up %s", s.State)
		if s.Plan != nil {
			fmt.Fprintf(&b, " to level %d in %s", s.Plan.TargetLevel, s.Plan.ClassID)
		}
		b.WriteString("\n")
		if len(s.Missing) > 0 {
			missing := make([]string, len(s.Missing))
			for i, f := range s.Missing {
				missing[i] = string(f)
			}
			fmt.Fprintf(&b, "Still needed: %s\n", strings.Join(missing, ", "))
		}
		writeViolations(&b, "Level up advisories", s.Advisories)
	}

	if r := out.Validation; r != nil {
		fmt.Fprintf(&b, "Last validation: %d violation(s)\n", len(r.Violations))
		for _, v := range r.Violations {
			fmt.Fprintf(&b, "  - [%s] %s: %s\n", v.Severity, v.Code, v.Message)
		}
		if n := len(r.LegalChoices); n > 0 {
			choices := r.LegalChoices
			if n > maxLegalChoices {
				choices = choices[:maxLegalChoices]
			}
			fmt.Fprintf(&b, "Legal choices: %s", strings.Join(choices, ", "))
			if n > maxLegalChoices {
				fmt.Fprintf(&b, " (+%d more)", n-maxLegalChoices)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

func writeFacets(b *strings.Builder, facets entities.Facets) {
	if len(facets) == 0 {
		return
	}
	b.WriteString("Facets:\n")
	for _, f := range slices.Sorted(maps.Keys(facets)) {
		fmt.Fprintf(b, "  %s: %s\n", f, facets[f])
	}
}

func writeViolations(b *strings.Builder, title string, byFacet map[entities.Facet][]entities.Violation) {
	if len(byFacet) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for _, f := range slices.Sorted(maps.Keys(byFacet)) {
		for _, v := range byFacet[f] {
			fmt.Fprintf(b, "  %s: %s %s\n", f, v.Code, v.Message)
		}
	}
}
