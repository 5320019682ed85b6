// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"tradejournal/internal/models"
)

// DataStore defines the interface for record persistence. All collections
// are scoped by account where applicable; implementations must be safe
// for concurrent readers.
type DataStore interface {
	// Accounts
	SaveAccount(ctx context.Context, account *models.Account) error
	GetAccounts(ctx context.Context) ([]models.Account, error)
	GetAccount(ctx context.Context, id int64) (*models.Account, error)
	DeleteAccount(ctx context.Context, id int64) error

	// Strategies
	SaveStrategy(ctx context.Context, strategy *models.Strategy) error
	GetStrategies(ctx context.Context, accountID int64) ([]models.Strategy, error)
	GetStrategy(ctx context.Context, id int64) (*models.Strategy, error)
	DeleteStrategy(ctx context.Context, id int64) error

	// Trades
	LogTrade(ctx context.Context, trade *models.Trade) error
	UpdateTrade(ctx context.Context, trade *models.Trade) error
	GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error)
	GetTrade(ctx context.Context, id int64) (*models.Trade, error)
	SoftDeleteTrade(ctx context.Context, id int64) error
	UndoDelete(ctx context.Context, id int64, window time.Duration) (*models.Trade, error)
	PurgeExpired(ctx context.Context, window time.Duration) (int, error)

	// Reflections
	SaveReflection(ctx context.Context, reflection *models.Reflection) error
	GetReflection(ctx context.Context, tradeID, accountID int64) (*models.Reflection, error)
	GetReflections(ctx context.Context, accountID int64) (map[int64]models.Reflection, error)

	// Settings
	GetSettings(ctx context.Context) (*models.Settings, error)
	SaveSettings(ctx context.Context, settings *models.Settings) error

	// Plans & Reviews
	SaveDailyPlan(ctx context.Context, plan *models.DailyPlan) error
	GetDailyPlans(ctx context.Context, accountID int64, limit int) ([]models.DailyPlan, error)
	SaveWeeklyReview(ctx context.Context, review *models.WeeklyReview) error
	GetWeeklyReviews(ctx context.Context, accountID int64, limit int) ([]models.WeeklyReview, error)

	// Lifecycle
	Close() error
}

// TradeFilter represents coarse row filters for querying trades from the
// store. Fine-grained predicate filtering, search, and sorting live in
// the analytics layer.
type TradeFilter struct {
	AccountID  int64
	Pair       string
	Outcome    string
	StrategyID *int64
	StartDate  string // YYYY-MM-DD inclusive
	EndDate    string // YYYY-MM-DD inclusive
	Limit      int
}
