package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/charforge/internal/clients/srd"
	"github.com/KirkDiggler/charforge/internal/config"
	charorch "github.com/KirkDiggler/charforge/internal/orchestrators/character"
	leveluporch "github.com/KirkDiggler/charforge/internal/orchestrators/levelup"
	"github.com/KirkDiggler/charforge/internal/pkg/clock"
	"github.com/KirkDiggler/charforge/internal/pkg/idgen"
	"github.com/KirkDiggler/charforge/internal/pkg/keylock"
	"github.com/KirkDiggler/charforge/internal/redis"
	draftrepo "github.com/KirkDiggler/charforge/internal/repositories/character_draft"
	"github.com/KirkDiggler/charforge/internal/rules"
	"github.com/KirkDiggler/charforge/internal/rules/dnd5e"
	"github.com/KirkDiggler/charforge/internal/services/assistant"
	"github.com/KirkDiggler/charforge/internal/services/export"
	"github.com/KirkDiggler/charforge/internal/services/notify"
)

// app holds the wired services for one command invocation
type app struct {
	cfg       *config.Config
	repo      draftrepo.Repository
	registry  *rules.Registry
	wizard    *charorch.Orchestrator
	levelUp   *leveluporch.Orchestrator
	assistant *assistant.Provider
	exporter  *export.Exporter
	closers   []func() error
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	a := &app{cfg: cfg}

	repo, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	a.repo = repo

	registry, err := rules.NewRegistry(dnd5e.New())
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to create ruleset registry: %w", err)
	}
	if cfg.SRD.Enabled {
		if err := registerSRD(ctx, registry, &cfg.SRD); err != nil {
			// the built-in ruleset still serves
			slog.Warn("SRD ruleset unavailable", "error", err)
		}
	}
	a.registry = registry

	bus := events.NewBus()
	notifier, err := notify.New(&notify.Config{Bus: bus})
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to create notifier: %w", err)
	}

	if cfg.Export.Dir != "" {
		exporter, err := export.New(&export.Config{Bus: bus, Dir: cfg.Export.Dir})
		if err != nil {
			a.close()
			return nil, fmt.Errorf("failed to create exporter: %w", err)
		}
		if err := exporter.Start(); err != nil {
			a.close()
			return nil, fmt.Errorf("failed to start exporter: %w", err)
		}
		a.exporter = exporter
	}

	locks := keylock.New()
	clk := clock.New()

	a.wizard, err = charorch.New(&charorch.Config{
		DraftRepo:   repo,
		Rules:       registry,
		Notifier:    notifier,
		IDGenerator: idgen.NewUUID("char"),
		Clock:       clk,
		Locks:       locks,
		DiceRoller:  dice.DefaultRoller,
	})
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to create creation wizard: %w", err)
	}

	a.levelUp, err = leveluporch.New(&leveluporch.Config{
		DraftRepo:  repo,
		Rules:      registry,
		Notifier:   notifier,
		DiceRoller: dice.DefaultRoller,
		Clock:      clk,
		Locks:      locks,
	})
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to create level-up controller: %w", err)
	}

	a.assistant, err = assistant.New(&assistant.Config{Source: a.wizard, Sessions: a.levelUp})
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to create assistant context provider: %w", err)
	}

	return a, nil
}

func (a *app) openStore(ctx context.Context) (draftrepo.Repository, error) {
	switch a.cfg.Store {
	case config.StoreSQLite:
		repo, err := draftrepo.OpenSQLite(a.cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		a.closers = append(a.closers, repo.Close)
		slog.Debug("Using sqlite store", "path", a.cfg.SQLite.Path)
		return repo, nil
	case config.StoreRedis:
		client, err := redis.Connect(ctx, a.cfg.Redis.Addr, &redis.Options{
			DB:          a.cfg.Redis.DB,
			Password:    a.cfg.Redis.Password,
			DialTimeout: 5 * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, client.Close)
		slog.Debug("Using redis store", "addr", a.cfg.Redis.Addr)
		return draftrepo.NewRedisRepository(client), nil
	default:
		slog.Warn("Using in-memory store, nothing outlives this process")
		return draftrepo.NewInMemory(), nil
	}
}

func registerSRD(ctx context.Context, registry *rules.Registry, cfg *config.SRDConfig) error {
	loader, err := srd.New(&srd.Config{
		BaseURL:     cfg.BaseURL,
		HTTPTimeout: cfg.Timeout,
		CacheTTL:    cfg.CacheTTL,
	})
	if err != nil {
		return err
	}
	ruleset, err := loader.Load(ctx)
	if err != nil {
		return err
	}
	return registry.Register(ruleset)
}

func (a *app) close() {
	if a.exporter != nil {
		a.exporter.Stop()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Warn("Failed to close resource", "error", err)
		}
	}
	a.closers = nil
}

// printJSON writes v to stdout
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
