// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/models"
)

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}

	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Trading accounts
	CREATE TABLE IF NOT EXISTS accounts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		initial_balance REAL NOT NULL,
		max_drawdown REAL DEFAULT 0,
		daily_drawdown REAL DEFAULT 0,
		max_loss_per_day REAL DEFAULT 0,
		max_trades_per_day INTEGER DEFAULT 0,
		profit_split REAL DEFAULT 0,
		is_prop_firm INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Strategies, unique per account by name
	CREATE TABLE IF NOT EXISTS strategies (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		account_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		market_type TEXT,
		timeframes TEXT,
		entry_conditions TEXT,
		exit_conditions TEXT,
		risk_settings TEXT,
		tags TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(account_id, name)
	);

	-- Trades
	CREATE TABLE IF NOT EXISTS trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		account_id INTEGER NOT NULL,
		date TEXT NOT NULL,
		trade_time TEXT,
		pair TEXT NOT NULL,
		strategy_id INTEGER,
		position TEXT,
		planned_risk REAL DEFAULT 0,
		actual_risk REAL DEFAULT 0,
		planned_rr REAL DEFAULT 0,
		actual_rr REAL DEFAULT 0,
		lot_size REAL,
		stop_loss REAL,
		entry_price REAL,
		sl_price REAL,
		exit_price REAL,
		hold_time INTEGER,
		outcome TEXT NOT NULL,
		profit_loss REAL NOT NULL,
		mistakes TEXT,
		emotions TEXT,
		custom_tags TEXT,
		screenshots TEXT,
		setup_score INTEGER DEFAULT 1,
		adherence INTEGER DEFAULT 1,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Soft-deleted trades awaiting undo or purge. The full trade is kept
	-- as a JSON payload so a restore reproduces it exactly, id included.
	CREATE TABLE IF NOT EXISTS deleted_trades (
		id INTEGER PRIMARY KEY,
		payload TEXT NOT NULL,
		deleted_at DATETIME NOT NULL
	);

	-- Reflections, one per trade within an account
	CREATE TABLE IF NOT EXISTS reflections (
		trade_id INTEGER NOT NULL,
		account_id INTEGER NOT NULL,
		notes TEXT,
		checklist TEXT,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (trade_id, account_id)
	);

	-- Singleton settings row
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		active_account_id INTEGER DEFAULT 0,
		window_start TEXT DEFAULT '',
		window_end TEXT DEFAULT '',
		condition_types TEXT,
		backup_frequency TEXT DEFAULT 'off'
	);

	-- Daily plans and weekly reviews
	CREATE TABLE IF NOT EXISTS daily_plans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		account_id INTEGER NOT NULL,
		date TEXT NOT NULL,
		bias TEXT,
		key_levels TEXT,
		notes TEXT,
		max_trades INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(account_id, date)
	);

	CREATE TABLE IF NOT EXISTS weekly_reviews (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		account_id INTEGER NOT NULL,
		week_start TEXT NOT NULL,
		went_well TEXT,
		to_improve TEXT,
		lessons TEXT,
		grade TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(account_id, week_start)
	);

	-- Create indexes for performance
	CREATE INDEX IF NOT EXISTS idx_trades_account ON trades(account_id);
	CREATE INDEX IF NOT EXISTS idx_trades_date ON trades(date);
	CREATE INDEX IF NOT EXISTS idx_trades_pair ON trades(pair);
	CREATE INDEX IF NOT EXISTS idx_trades_strategy ON trades(strategy_id);
	CREATE INDEX IF NOT EXISTS idx_strategies_account ON strategies(account_id);
	CREATE INDEX IF NOT EXISTS idx_plans_account_date ON daily_plans(account_id, date);
	CREATE INDEX IF NOT EXISTS idx_reviews_account ON weekly_reviews(account_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Accounts Methods
// ============================================================================

// SaveAccount inserts or updates an account. A zero ID inserts and
// assigns the new ID on the model.
func (s *SQLiteStore) SaveAccount(ctx context.Context, account *models.Account) error {
	isProp := 0
	if account.IsPropFirm {
		isProp = 1
	}

	if account.ID == 0 {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO accounts (name, initial_balance, max_drawdown, daily_drawdown, max_loss_per_day, max_trades_per_day, profit_split, is_prop_firm)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, account.Name, account.InitialBalance, account.MaxDrawdown, account.DailyDrawdown, account.MaxLossPerDay, account.MaxTradesPerDay, account.ProfitSplit, isProp)
		if err != nil {
			if isUniqueViolation(err) {
				return apperrors.ErrDuplicateName
			}
			return apperrors.NewStoreError("accounts", "insert", err)
		}
		account.ID, _ = res.LastInsertId()
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE accounts SET name = ?, initial_balance = ?, max_drawdown = ?, daily_drawdown = ?, max_loss_per_day = ?, max_trades_per_day = ?, profit_split = ?, is_prop_firm = ?
		WHERE id = ?
	`, account.Name, account.InitialBalance, account.MaxDrawdown, account.DailyDrawdown, account.MaxLossPerDay, account.MaxTradesPerDay, account.ProfitSplit, isProp, account.ID)
	if err != nil {
		return apperrors.NewStoreError("accounts", "update", err)
	}
	return nil
}

// GetAccounts retrieves all accounts.
func (s *SQLiteStore) GetAccounts(ctx context.Context) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, initial_balance, max_drawdown, daily_drawdown, max_loss_per_day, max_trades_per_day, profit_split, is_prop_firm, created_at
		FROM accounts ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, apperrors.NewStoreError("accounts", "query", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		var isProp int
		if err := rows.Scan(&a.ID, &a.Name, &a.InitialBalance, &a.MaxDrawdown, &a.DailyDrawdown, &a.MaxLossPerDay, &a.MaxTradesPerDay, &a.ProfitSplit, &isProp, &a.CreatedAt); err != nil {
			return nil, apperrors.NewStoreError("accounts", "scan", err)
		}
		a.IsPropFirm = isProp == 1
		accounts = append(accounts, a)
	}

	return accounts, rows.Err()
}

// GetAccount retrieves a single account by ID.
func (s *SQLiteStore) GetAccount(ctx context.Context, id int64) (*models.Account, error) {
	var a models.Account
	var isProp int
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, initial_balance, max_drawdown, daily_drawdown, max_loss_per_day, max_trades_per_day, profit_split, is_prop_firm, created_at
		FROM accounts WHERE id = ?
	`, id).Scan(&a.ID, &a.Name, &a.InitialBalance, &a.MaxDrawdown, &a.DailyDrawdown, &a.MaxLossPerDay, &a.MaxTradesPerDay, &a.ProfitSplit, &isProp, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreError("accounts", "get", err)
	}
	a.IsPropFirm = isProp == 1
	return &a, nil
}

// DeleteAccount removes an account and cascades its trades, reflections,
// strategies, plans, and reviews.
func (s *SQLiteStore) DeleteAccount(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStoreError("accounts", "begin", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return apperrors.NewStoreError("accounts", "delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrAccountNotFound
	}

	for _, stmt := range []string{
		`DELETE FROM trades WHERE account_id = ?`,
		`DELETE FROM reflections WHERE account_id = ?`,
		`DELETE FROM strategies WHERE account_id = ?`,
		`DELETE FROM daily_plans WHERE account_id = ?`,
		`DELETE FROM weekly_reviews WHERE account_id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, stmt, id); err != nil {
			return apperrors.NewStoreError("accounts", "cascade", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStoreError("accounts", "commit", err)
	}
	return nil
}

// ============================================================================
// Strategies Methods
// ============================================================================

// SaveStrategy inserts or updates a strategy.
func (s *SQLiteStore) SaveStrategy(ctx context.Context, strategy *models.Strategy) error {
	timeframes, _ := json.Marshal(strategy.Timeframes)
	entry, _ := json.Marshal(strategy.EntryConditions)
	exit, _ := json.Marshal(strategy.ExitConditions)
	risk, _ := json.Marshal(strategy.RiskSettings)
	tags, _ := json.Marshal(strategy.Tags)

	if strategy.ID == 0 {
		res, err := s.db.ExecContext(ctx, `
			INSERT INTO strategies (account_id, name, market_type, timeframes, entry_conditions, exit_conditions, risk_settings, tags)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, strategy.AccountID, strategy.Name, strategy.MarketType, string(timeframes), string(entry), string(exit), string(risk), string(tags))
		if err != nil {
			if isUniqueViolation(err) {
				return apperrors.ErrDuplicateName
			}
			return apperrors.NewStoreError("strategies", "insert", err)
		}
		strategy.ID, _ = res.LastInsertId()
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE strategies SET name = ?, market_type = ?, timeframes = ?, entry_conditions = ?, exit_conditions = ?, risk_settings = ?, tags = ?
		WHERE id = ?
	`, strategy.Name, strategy.MarketType, string(timeframes), string(entry), string(exit), string(risk), string(tags), strategy.ID)
	if err != nil {
		return apperrors.NewStoreError("strategies", "update", err)
	}
	return nil
}

// GetStrategies retrieves all strategies for an account.
func (s *SQLiteStore) GetStrategies(ctx context.Context, accountID int64) ([]models.Strategy, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, name, market_type, timeframes, entry_conditions, exit_conditions, risk_settings, tags, created_at
		FROM strategies WHERE account_id = ? ORDER BY name ASC
	`, accountID)
	if err != nil {
		return nil, apperrors.NewStoreError("strategies", "query", err)
	}
	defer rows.Close()

	var strategies []models.Strategy
	for rows.Next() {
		st, err := scanStrategy(rows)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, *st)
	}

	return strategies, rows.Err()
}

// GetStrategy retrieves a single strategy by ID.
func (s *SQLiteStore) GetStrategy(ctx context.Context, id int64) (*models.Strategy, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, account_id, name, market_type, timeframes, entry_conditions, exit_conditions, risk_settings, tags, created_at
		FROM strategies WHERE id = ?
	`, id)
	st, err := scanStrategy(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrStrategyNotFound
	}
	return st, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanStrategy(row rowScanner) (*models.Strategy, error) {
	var st models.Strategy
	var timeframes, entry, exit, risk, tags sql.NullString
	if err := row.Scan(&st.ID, &st.AccountID, &st.Name, &st.MarketType, &timeframes, &entry, &exit, &risk, &tags, &st.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, apperrors.NewStoreError("strategies", "scan", err)
	}
	json.Unmarshal([]byte(timeframes.String), &st.Timeframes)
	json.Unmarshal([]byte(entry.String), &st.EntryConditions)
	json.Unmarshal([]byte(exit.String), &st.ExitConditions)
	json.Unmarshal([]byte(risk.String), &st.RiskSettings)
	json.Unmarshal([]byte(tags.String), &st.Tags)
	return &st, nil
}

// DeleteStrategy removes a strategy. Deletion is blocked while any trade
// references the strategy.
func (s *SQLiteStore) DeleteStrategy(ctx context.Context, id int64) error {
	var refs int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trades WHERE strategy_id = ?`, id).Scan(&refs); err != nil {
		return apperrors.NewStoreError("strategies", "refcount", err)
	}
	if refs > 0 {
		return apperrors.ErrStrategyInUse
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM strategies WHERE id = ?`, id)
	if err != nil {
		return apperrors.NewStoreError("strategies", "delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrStrategyNotFound
	}
	return nil
}

// ============================================================================
// Settings Methods
// ============================================================================

// GetSettings retrieves the singleton settings record, returning defaults
// when none has been saved yet.
func (s *SQLiteStore) GetSettings(ctx context.Context) (*models.Settings, error) {
	var st models.Settings
	var condTypes sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT active_account_id, window_start, window_end, condition_types, backup_frequency
		FROM settings WHERE id = 1
	`).Scan(&st.ActiveAccountID, &st.TradingWindow.Start, &st.TradingWindow.End, &condTypes, &st.BackupFrequency)
	if err == sql.ErrNoRows {
		return &models.Settings{BackupFrequency: "off"}, nil
	}
	if err != nil {
		return nil, apperrors.NewStoreError("settings", "get", err)
	}
	json.Unmarshal([]byte(condTypes.String), &st.ConditionTypes)
	return &st, nil
}

// SaveSettings saves the singleton settings record.
func (s *SQLiteStore) SaveSettings(ctx context.Context, settings *models.Settings) error {
	condTypes, _ := json.Marshal(settings.ConditionTypes)
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO settings (id, active_account_id, window_start, window_end, condition_types, backup_frequency)
		VALUES (1, ?, ?, ?, ?, ?)
	`, settings.ActiveAccountID, settings.TradingWindow.Start, settings.TradingWindow.End, string(condTypes), settings.BackupFrequency)
	if err != nil {
		return apperrors.NewStoreError("settings", "save", err)
	}
	return nil
}

// ============================================================================
// Plans & Reviews Methods
// ============================================================================

// SaveDailyPlan inserts or replaces the plan for an account and date.
func (s *SQLiteStore) SaveDailyPlan(ctx context.Context, plan *models.DailyPlan) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO daily_plans (account_id, date, bias, key_levels, notes, max_trades)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(account_id, date) DO UPDATE SET bias = excluded.bias, key_levels = excluded.key_levels, notes = excluded.notes, max_trades = excluded.max_trades
	`, plan.AccountID, plan.Date, plan.Bias, plan.KeyLevels, plan.Notes, plan.MaxTrades)
	if err != nil {
		return apperrors.NewStoreError("daily_plans", "save", err)
	}
	if plan.ID == 0 {
		plan.ID, _ = res.LastInsertId()
	}
	return nil
}

// GetDailyPlans retrieves recent daily plans for an account, newest first.
func (s *SQLiteStore) GetDailyPlans(ctx context.Context, accountID int64, limit int) ([]models.DailyPlan, error) {
	query := `
		SELECT id, account_id, date, bias, key_levels, notes, max_trades, created_at
		FROM daily_plans WHERE account_id = ? ORDER BY date DESC`
	args := []interface{}{accountID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("daily_plans", "query", err)
	}
	defer rows.Close()

	var plans []models.DailyPlan
	for rows.Next() {
		var p models.DailyPlan
		if err := rows.Scan(&p.ID, &p.AccountID, &p.Date, &p.Bias, &p.KeyLevels, &p.Notes, &p.MaxTrades, &p.CreatedAt); err != nil {
			return nil, apperrors.NewStoreError("daily_plans", "scan", err)
		}
		plans = append(plans, p)
	}

	return plans, rows.Err()
}

// SaveWeeklyReview inserts or replaces the review for an account and week.
func (s *SQLiteStore) SaveWeeklyReview(ctx context.Context, review *models.WeeklyReview) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO weekly_reviews (account_id, week_start, went_well, to_improve, lessons, grade)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(account_id, week_start) DO UPDATE SET went_well = excluded.went_well, to_improve = excluded.to_improve, lessons = excluded.lessons, grade = excluded.grade
	`, review.AccountID, review.WeekStart, review.WentWell, review.ToImprove, review.Lessons, review.Grade)
	if err != nil {
		return apperrors.NewStoreError("weekly_reviews", "save", err)
	}
	if review.ID == 0 {
		review.ID, _ = res.LastInsertId()
	}
	return nil
}

// GetWeeklyReviews retrieves recent weekly reviews for an account, newest first.
func (s *SQLiteStore) GetWeeklyReviews(ctx context.Context, accountID int64, limit int) ([]models.WeeklyReview, error) {
	query := `
		SELECT id, account_id, week_start, went_well, to_improve, lessons, grade, created_at
		FROM weekly_reviews WHERE account_id = ? ORDER BY week_start DESC`
	args := []interface{}{accountID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("weekly_reviews", "query", err)
	}
	defer rows.Close()

	var reviews []models.WeeklyReview
	for rows.Next() {
		var r models.WeeklyReview
		if err := rows.Scan(&r.ID, &r.AccountID, &r.WeekStart, &r.WentWell, &r.ToImprove, &r.Lessons, &r.Grade, &r.CreatedAt); err != nil {
			return nil, apperrors.NewStoreError("weekly_reviews", "scan", err)
		}
		reviews = append(reviews, r)
	}

	return reviews, rows.Err()
}
