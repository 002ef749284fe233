// Package app wires configuration, storage, and services together for the
// server and CLI entry points.
package app

import (
	"context"
	"fmt"

	"github.com/ascendprep/ascend/internal/assessment"
	"github.com/ascendprep/ascend/internal/cache"
	"github.com/ascendprep/ascend/internal/config"
	"github.com/ascendprep/ascend/internal/logging"
	"github.com/ascendprep/ascend/internal/question"
	"github.com/ascendprep/ascend/internal/store"
)

// App holds the shared dependencies of one running process.
type App struct {
	Cfg      *config.Config
	Log      *logging.Logger
	Store    *store.SQLite
	Learners *store.LearnerRepo
	Bank     *store.BankRepo
	Assess   *assessment.Service

	// BankCache memoizes the full question bank; handlers must strip
	// answer keys before returning any of it to a learner.
	BankCache *cache.Cache[[]question.Question]
}

// New opens the store and builds the service graph.
func New(cfg *config.Config, log *logging.Logger) (*App, error) {
	dbPath := cfg.DatabasePath
	if dbPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		dbPath = p
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store at %s: %w", dbPath, err)
	}

	learners := store.NewLearnerRepo(st)
	bank := store.NewBankRepo(st)

	a := &App{
		Cfg:      cfg,
		Log:      log,
		Store:    st,
		Learners: learners,
		Bank:     bank,
		Assess:   assessment.NewService(learners, log),
	}
	a.BankCache = cache.New(cfg.ConfigCacheTTL, func() ([]question.Question, error) {
		return bank.LoadBank(context.Background())
	})

	log.Info("application wired", "db_path", dbPath)
	return a, nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}
