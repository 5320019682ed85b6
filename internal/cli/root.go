// Package cli provides the command-line interface for the journal application.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tradejournal/internal/analytics"
	"tradejournal/internal/config"
	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/logging"
	"tradejournal/internal/models"
	"tradejournal/internal/performance"
	"tradejournal/internal/store"
)

// Version information
const (
	Version = "0.1.0"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Store  store.DataStore
	Pool   *performance.WorkerPool
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
		Pool:   performance.NewWorkerPool(0),
	}
	app.Pool.Start()

	dataStore, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, most commands will be unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Str("path", cfg.Database.Path).Msg("SQLite store initialized")
		purgeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if n, err := dataStore.PurgeExpired(purgeCtx, cfg.Journal.UndoWindow); err != nil {
			logger.Warn().Err(err).Msg("Failed to purge expired deletions")
		} else if n > 0 {
			logger.Debug().Int("purged", n).Msg("Expired deletions purged")
		}
		cancel()
	}

	rootCmd := &cobra.Command{
		Use:   "tradejournal",
		Short: "Personal trading journal and analytics",
		Long: `tradejournal records trades, strategies, daily plans, and weekly
reviews, and derives performance analytics: win rate, profit factor,
drawdown, discipline scores, and time-bucketed statistics.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Pool.Stop()
			if app.Store != nil {
				app.Store.Close()
			}
		},
	}

	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cobra.OnInitialize(func() {
		if debug, _ := rootCmd.PersistentFlags().GetBool("debug"); debug {
			logging.SetDebugLevel()
		}
	})

	addAccountCommands(rootCmd, app)
	addStrategyCommands(rootCmd, app)
	addTradeCommands(rootCmd, app)
	addPlanCommands(rootCmd, app)
	addReportCommands(rootCmd, app)
	addExportCommands(rootCmd, app)
	addSettingsCommands(rootCmd, app)

	return rootCmd
}

// requireStore returns an error when the store failed to initialize.
func (app *App) requireStore() error {
	if app.Store == nil {
		return apperrors.ErrDatabaseError
	}
	return nil
}

// activeAccount resolves the active account from settings. Errors when
// no account has been selected.
func (app *App) activeAccount(ctx context.Context) (*models.Account, *models.Settings, error) {
	settings, err := app.Store.GetSettings(ctx)
	if err != nil {
		return nil, nil, err
	}
	if settings.ActiveAccountID == 0 {
		return nil, nil, apperrors.ErrNoActiveAccount
	}
	account, err := app.Store.GetAccount(ctx, settings.ActiveAccountID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving active account: %w", err)
	}
	return account, settings, nil
}

// strategyResolver returns a name lookup for free-text search over
// strategy names. Names are loaded once per invocation.
func (app *App) strategyResolver(ctx context.Context, accountID int64) func(int64) string {
	strategies, err := app.Store.GetStrategies(ctx, accountID)
	if err != nil {
		app.Logger.Debug().Err(err).Msg("strategy name lookup unavailable")
		return nil
	}
	names := make(map[int64]string, len(strategies))
	for _, s := range strategies {
		names[s.ID] = s.Name
	}
	return func(id int64) string { return names[id] }
}

// analyticsContext builds the analytics context from settings and config.
func (app *App) analyticsContext(account *models.Account, settings *models.Settings) analytics.Context {
	actx := analytics.NewContext(account.ID, settings.TradingWindow)
	actx.ConditionTypes = settings.ConditionTypes
	actx.LargeLossThreshold = app.Config.Analytics.LargeLossThreshold
	actx.OvertradingLimit = app.Config.Analytics.OvertradingLimit
	actx.RapidSequenceMins = app.Config.Analytics.RapidSequenceMins
	actx.Logger = app.Logger
	return actx
}
