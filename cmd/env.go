package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/codetrain/internal/analyzer"
	"github.com/abhisek/codetrain/internal/config"
	"github.com/abhisek/codetrain/internal/hints"
	"github.com/abhisek/codetrain/internal/llm"
	"github.com/abhisek/codetrain/internal/lock"
	"github.com/abhisek/codetrain/internal/mastery"
	"github.com/abhisek/codetrain/internal/printer"
	"github.com/abhisek/codetrain/internal/session"
	"github.com/abhisek/codetrain/internal/store"
	"github.com/abhisek/codetrain/internal/taskgen"
)

// appEnv holds what every command needs: settings and an open store.
type appEnv struct {
	cfg   config.Config
	store *store.Store

	closers []func()
}

// openEnv reads configuration and opens the database.
func openEnv(cmd *cobra.Command) (*appEnv, error) {
	cfg, err := config.FromEnv()
	if err != nil {
		return nil, printer.Error("Invalid configuration", err.Error(), []string{
			"Fix the CODETRAIN_* variables in your environment or .env file",
		})
	}

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	e := &appEnv{cfg: cfg, store: st}
	e.closers = append(e.closers, func() { st.Close() })
	return e, nil
}

// Close releases everything opened through the env, newest first.
func (e *appEnv) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// provider builds the LLM provider from the environment. LLM calls are
// recorded in the store's event log.
func (e *appEnv) provider(ctx context.Context) (llm.Provider, error) {
	p, err := llm.NewProviderFromEnv(ctx, e.store.EventRepo())
	if err != nil {
		return nil, printer.Error("LLM provider not configured", err.Error(), []string{
			"Set ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY or OPENROUTER_API_KEY",
			"Select a provider explicitly with CODETRAIN_LLM_PROVIDER",
		})
	}
	return p, nil
}

// optionalProvider is provider for commands that work without an LLM.
func (e *appEnv) optionalProvider(ctx context.Context) llm.Provider {
	p, err := llm.NewProviderFromEnv(ctx, e.store.EventRepo())
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning: LLM provider not configured:", err)
		return nil
	}
	return p
}

// locker returns the Redis lock when CODETRAIN_REDIS_URL is set, otherwise
// an in-process one.
func (e *appEnv) locker(ctx context.Context) (lock.Locker, error) {
	if e.cfg.RedisURL == "" {
		return lock.NewLocal(), nil
	}
	r, err := lock.DialRedis(ctx, e.cfg.RedisURL)
	if err != nil {
		return nil, printer.Error("Cannot reach Redis", err.Error(), []string{
			"Check that the server at CODETRAIN_REDIS_URL is running",
			"Unset CODETRAIN_REDIS_URL to use the in-process lock",
		})
	}
	e.closers = append(e.closers, func() { r.Close() })
	return r, nil
}

func (e *appEnv) masteryService() *mastery.Service {
	return mastery.NewService(e.cfg.Params(), e.store.Mastery())
}

// catalog joins the shared task pool with the LLM task generator.
func (e *appEnv) catalog(provider llm.Provider) *taskgen.Catalog {
	return taskgen.NewCatalog(e.store.Tasks(), taskgen.New(provider, taskgen.DefaultConfig()))
}

// sessionService wires the practice loop to the store and the LLM.
func (e *appEnv) sessionService(ctx context.Context, provider llm.Provider) (*session.Service, error) {
	locker, err := e.locker(ctx)
	if err != nil {
		return nil, err
	}

	catalog := e.catalog(provider)
	backend := session.NewStoreBackend(e.store.Mastery(), e.store.Attempts())
	return session.NewService(e.cfg.Session, session.Deps{
		Finder:    catalog,
		Generator: catalog,
		Analyzer:  analyzer.New(provider, nil, analyzer.DefaultConfig()),
		Hinter:    hints.NewService(provider, hints.DefaultConfig()),
		Mastery:   backend,
		Recorder:  backend,
		Locker:    locker,
	})
}
