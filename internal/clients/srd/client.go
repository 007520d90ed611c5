// Package srd loads a fifth edition ruleset from the public dnd5e API. Races,
// classes and per-level class features fetched from the API are laid over the
// built-in data so the ruleset keeps the progression tables the API does not
// expose.
package srd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	apientities "github.com/fadedpez/dnd5e-api/entities"
	"golang.org/x/sync/errgroup"

	"github.com/KirkDiggler/charforge/internal/errors"
	rules5e "github.com/KirkDiggler/charforge/internal/rules/dnd5e"
)

//go:generate mockgen -destination=mock/mock_api.go -package=srdmock github.com/KirkDiggler/charforge/internal/clients/srd API

// Identity of the ruleset the loader builds
const (
	RulesetID      = "dnd5e-srd"
	RulesetVersion = "2014"
)

const (
	defaultFetchLimit = 8
	maxClassLevel     = 20
	// ASI levels are their own facet, not granted features
	improvementFeaturePrefix = "ability-score-improvement"
)

// API is the part of the dnd5e-api client the loader reads
type API interface {
	ListRaces() ([]*apientities.ReferenceItem, error)
	GetRace(key string) (*apientities.Race, error)
	ListClasses() ([]*apientities.ReferenceItem, error)
	GetClass(key string) (*apientities.Class, error)
	GetClassLevel(key string, level int) (*apientities.Level, error)
}

// abilityKeys maps API ability score keys to ruleset abilities
var abilityKeys = map[string]rules5e.Ability{
	"str": rules5e.Strength,
	"dex": rules5e.Dexterity,
	"con": rules5e.Constitution,
	"int": rules5e.Intelligence,
	"wis": rules5e.Wisdom,
	"cha": rules5e.Charisma,
}

// Config contains configuration options for the loader
type Config struct {
	// API overrides the HTTP client, mostly for tests
	API API
	// BaseURL for the D&D 5e API (optional, defaults to https://www.dnd5eapi.co/api/2014/)
	BaseURL string
	// HTTPTimeout for API requests (optional, defaults to 30 seconds)
	HTTPTimeout time.Duration
	// CacheTTL for the cached client (optional, defaults to 24 hours)
	CacheTTL time.Duration
	// FetchLimit caps concurrent detail requests (optional, defaults to 8)
	FetchLimit int
}

// Validate sets defaults for unset fields
func (cfg *Config) Validate() error {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.dnd5eapi.co/api/2014/"
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	if cfg.FetchLimit <= 0 {
		cfg.FetchLimit = defaultFetchLimit
	}
	return nil
}

// Loader builds rulesets from the API
type Loader struct {
	api        API
	source     string
	fetchLimit int
}

// New creates a Loader. Without an API override it talks to BaseURL through
// the cached dnd5e-api client.
func New(cfg *Config) (*Loader, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	api := cfg.API
	if api == nil {
		base, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
			Client:  &http.Client{Timeout: cfg.HTTPTimeout},
			BaseURL: cfg.BaseURL,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create D&D 5e API client")
		}
		api = dnd5e.NewCachedClient(base, cfg.CacheTTL)
	}

	return &Loader{api: api, source: cfg.BaseURL, fetchLimit: cfg.FetchLimit}, nil
}

// Load fetches every race and class and returns the SRD ruleset
func (l *Loader) Load(ctx context.Context) (*rules5e.Ruleset, error) {
	data := rules5e.DefaultData()

	raceRefs, err := l.api.ListRaces()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to list races")
	}
	classRefs, err := l.api.ListClasses()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to list classes")
	}
	slog.Info("Loading SRD data", "races", len(raceRefs), "classes", len(classRefs))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.fetchLimit)

	for _, ref := range raceRefs {
		if ref == nil {
			continue
		}
		key := ref.Key
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			race, err := l.api.GetRace(key)
			if err != nil {
				return errors.WrapWithCode(err, errors.CodeUnavailable, fmt.Sprintf("failed to get race %s", key))
			}
			mu.Lock()
			defer mu.Unlock()
			mergeRace(data, race)
			return nil
		})
	}

	for _, ref := range classRefs {
		if ref == nil {
			continue
		}
		key := ref.Key
		if _, ok := data.Classes[key]; ok {
			for level := 1; level <= maxClassLevel; level++ {
				g.Go(func() error {
					if err := gctx.Err(); err != nil {
						return err
					}
					apiLevel, err := l.api.GetClassLevel(key, level)
					if err != nil {
						return errors.WrapWithCode(err, errors.CodeUnavailable,
							fmt.Sprintf("failed to get class %s level %d", key, level))
					}
					mu.Lock()
					defer mu.Unlock()
					mergeClassLevel(data, key, level, apiLevel)
					return nil
				})
			}
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			class, err := l.api.GetClass(key)
			if err != nil {
				return errors.WrapWithCode(err, errors.CodeUnavailable, fmt.Sprintf("failed to get class %s", key))
			}
			mu.Lock()
			defer mu.Unlock()
			mergeClass(data, class)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.WrapWithCode(ctxErr, errors.CodeCanceled, "SRD load canceled")
		}
		return nil, err
	}

	return rules5e.NewWithData(&rules5e.Config{
		ID:      RulesetID,
		Version: RulesetVersion,
		Name:    "Fifth Edition SRD",
		Source:  l.source,
		Data:    data,
	})
}

// mergeRace replaces the ability bonuses of a known race, or adds a new one
func mergeRace(data *rules5e.Data, apiRace *apientities.Race) {
	if apiRace == nil || apiRace.Key == "" {
		return
	}

	bonuses := make(map[rules5e.Ability]int)
	for _, bonus := range apiRace.AbilityBonuses {
		if bonus == nil || bonus.AbilityScore == nil {
			continue
		}
		if ability, ok := abilityKeys[bonus.AbilityScore.Key]; ok {
			bonuses[ability] = bonus.Bonus
		}
	}

	race, ok := data.Races[apiRace.Key]
	if !ok {
		race = &rules5e.Race{ID: apiRace.Key, Subraces: map[string]*rules5e.Subrace{}}
		data.Races[apiRace.Key] = race
	}
	race.Name = apiRace.Name
	// half-elf style free picks are not in the API payload
	if race.BonusChoices == 0 {
		race.Bonuses = bonuses
	}

	for _, sub := range apiRace.SubRaces {
		if sub == nil {
			continue
		}
		if race.Subraces == nil {
			race.Subraces = map[string]*rules5e.Subrace{}
		}
		if _, ok := race.Subraces[sub.Key]; !ok {
			race.Subraces[sub.Key] = &rules5e.Subrace{ID: sub.Key, Name: sub.Name, Bonuses: map[rules5e.Ability]int{}}
		}
	}
}

// mergeClass refreshes name, hit die and saving throws of a known class.
// Classes without built-in progression tables are skipped.
func mergeClass(data *rules5e.Data, apiClass *apientities.Class) {
	if apiClass == nil {
		return
	}
	class, ok := data.Classes[apiClass.Key]
	if !ok {
		slog.Warn("Skipping SRD class without progression data", "class", apiClass.Key)
		return
	}

	class.Name = apiClass.Name
	if apiClass.HitDie > 0 {
		class.HitDie = apiClass.HitDie
	}

	saves := make([]rules5e.Ability, 0, len(apiClass.SavingThrows))
	for _, st := range apiClass.SavingThrows {
		if st == nil {
			continue
		}
		if ability, ok := abilityKeys[st.Key]; ok {
			saves = append(saves, ability)
		}
	}
	if len(saves) > 0 {
		class.SavingThrows = saves
	}
}

// mergeClassLevel replaces the features a known class gains at level. At
// level 1 it also takes the cantrip and spells known counts.
func mergeClassLevel(data *rules5e.Data, key string, level int, apiLevel *apientities.Level) {
	class, ok := data.Classes[key]
	if !ok || apiLevel == nil {
		return
	}

	features := make([]rules5e.Feature, 0, len(apiLevel.Features))
	for _, feat := range apiLevel.Features {
		if feat == nil || strings.HasPrefix(feat.Key, improvementFeaturePrefix) {
			continue
		}
		features = append(features, rules5e.Feature{ID: feat.Key, Name: feat.Name})
	}
	if len(features) > 0 {
		if class.Features == nil {
			class.Features = make(map[int][]rules5e.Feature)
		}
		class.Features[level] = features
	}

	sc := class.Spellcasting
	if level != 1 || apiLevel.SpellCasting == nil || sc == nil || sc.StartLevel != 1 {
		return
	}
	if len(sc.Cantrips) > 0 && apiLevel.SpellCasting.CantripsKnown > 0 {
		sc.Cantrips[0] = apiLevel.SpellCasting.CantripsKnown
	}
	if sc.Style == rules5e.StyleKnown && len(sc.Known) > 0 && apiLevel.SpellCasting.SpellsKnown > 0 {
		sc.Known[0] = apiLevel.SpellCasting.SpellsKnown
	}
}
