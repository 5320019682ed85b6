package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	apperrors "tradejournal/internal/errors"
	"tradejournal/internal/models"
)

const tradeColumns = `id, account_id, date, trade_time, pair, strategy_id, position,
	planned_risk, actual_risk, planned_rr, actual_rr, lot_size, stop_loss,
	entry_price, sl_price, exit_price, hold_time, outcome, profit_loss,
	mistakes, emotions, custom_tags, screenshots, setup_score, adherence, created_at`

// LogTrade normalizes and inserts a trade, assigning its ID.
func (s *SQLiteStore) LogTrade(ctx context.Context, trade *models.Trade) error {
	models.NormalizeTrade(trade)

	mistakes, _ := json.Marshal(trade.Mistakes)
	emotions, _ := json.Marshal(trade.Emotions)
	tags, _ := json.Marshal(trade.CustomTags)
	shots, _ := json.Marshal(trade.Screenshots)

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO trades (account_id, date, trade_time, pair, strategy_id, position,
			planned_risk, actual_risk, planned_rr, actual_rr, lot_size, stop_loss,
			entry_price, sl_price, exit_price, hold_time, outcome, profit_loss,
			mistakes, emotions, custom_tags, screenshots, setup_score, adherence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, trade.AccountID, trade.Date, trade.TradeTime, trade.Pair, trade.StrategyID, trade.Position,
		trade.PlannedRisk, trade.ActualRisk, trade.PlannedRR, trade.ActualRR, trade.LotSize, trade.StopLoss,
		trade.EntryPrice, trade.SLPrice, trade.ExitPrice, trade.HoldTime, trade.Outcome, trade.ProfitLoss,
		string(mistakes), string(emotions), string(tags), string(shots), trade.SetupScore, trade.Adherence, trade.CreatedAt)
	if err != nil {
		return apperrors.NewStoreError("trades", "insert", err)
	}

	trade.ID, _ = res.LastInsertId()
	return nil
}

// UpdateTrade re-normalizes and persists the mutable fields of a trade.
func (s *SQLiteStore) UpdateTrade(ctx context.Context, trade *models.Trade) error {
	models.NormalizeTrade(trade)

	mistakes, _ := json.Marshal(trade.Mistakes)
	emotions, _ := json.Marshal(trade.Emotions)
	tags, _ := json.Marshal(trade.CustomTags)
	shots, _ := json.Marshal(trade.Screenshots)

	res, err := s.db.ExecContext(ctx, `
		UPDATE trades SET date = ?, trade_time = ?, pair = ?, strategy_id = ?, position = ?,
			planned_risk = ?, actual_risk = ?, planned_rr = ?, actual_rr = ?, lot_size = ?, stop_loss = ?,
			entry_price = ?, sl_price = ?, exit_price = ?, hold_time = ?, outcome = ?, profit_loss = ?,
			mistakes = ?, emotions = ?, custom_tags = ?, screenshots = ?, setup_score = ?, adherence = ?
		WHERE id = ?
	`, trade.Date, trade.TradeTime, trade.Pair, trade.StrategyID, trade.Position,
		trade.PlannedRisk, trade.ActualRisk, trade.PlannedRR, trade.ActualRR, trade.LotSize, trade.StopLoss,
		trade.EntryPrice, trade.SLPrice, trade.ExitPrice, trade.HoldTime, trade.Outcome, trade.ProfitLoss,
		string(mistakes), string(emotions), string(tags), string(shots), trade.SetupScore, trade.Adherence, trade.ID)
	if err != nil {
		return apperrors.NewStoreError("trades", "update", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrTradeNotFound
	}
	return nil
}

// GetTrades retrieves trades matching the filter, ordered by date then
// time-of-day ascending.
func (s *SQLiteStore) GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error) {
	query := "SELECT " + tradeColumns + " FROM trades WHERE 1=1"
	args := []interface{}{}

	if filter.AccountID != 0 {
		query += " AND account_id = ?"
		args = append(args, filter.AccountID)
	}
	if filter.Pair != "" {
		query += " AND pair = ?"
		args = append(args, filter.Pair)
	}
	if filter.Outcome != "" {
		query += " AND outcome = ?"
		args = append(args, filter.Outcome)
	}
	if filter.StrategyID != nil {
		query += " AND strategy_id = ?"
		args = append(args, *filter.StrategyID)
	}
	if filter.StartDate != "" {
		query += " AND date >= ?"
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		query += " AND date <= ?"
		args = append(args, filter.EndDate)
	}

	query += " ORDER BY date ASC, trade_time ASC, id ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("trades", "query", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, *t)
	}

	return trades, rows.Err()
}

// GetTrade retrieves a single trade by ID.
func (s *SQLiteStore) GetTrade(ctx context.Context, id int64) (*models.Trade, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+tradeColumns+" FROM trades WHERE id = ?", id)
	t, err := scanTrade(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrTradeNotFound
	}
	return t, err
}

func scanTrade(row rowScanner) (*models.Trade, error) {
	var t models.Trade
	var tradeTime, position sql.NullString
	var mistakes, emotions, tags, shots sql.NullString
	if err := row.Scan(&t.ID, &t.AccountID, &t.Date, &tradeTime, &t.Pair, &t.StrategyID, &position,
		&t.PlannedRisk, &t.ActualRisk, &t.PlannedRR, &t.ActualRR, &t.LotSize, &t.StopLoss,
		&t.EntryPrice, &t.SLPrice, &t.ExitPrice, &t.HoldTime, &t.Outcome, &t.ProfitLoss,
		&mistakes, &emotions, &tags, &shots, &t.SetupScore, &t.Adherence, &t.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, apperrors.NewStoreError("trades", "scan", err)
	}
	t.TradeTime = tradeTime.String
	t.Position = position.String
	json.Unmarshal([]byte(mistakes.String), &t.Mistakes)
	json.Unmarshal([]byte(emotions.String), &t.Emotions)
	json.Unmarshal([]byte(tags.String), &t.CustomTags)
	json.Unmarshal([]byte(shots.String), &t.Screenshots)
	return &t, nil
}

// ============================================================================
// Soft Delete & Undo
// ============================================================================

// SoftDeleteTrade moves a trade into the tombstone table. The trade stays
// restorable until the undo window expires or the tombstone is purged.
func (s *SQLiteStore) SoftDeleteTrade(ctx context.Context, id int64) error {
	trade, err := s.GetTrade(ctx, id)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(trade)
	if err != nil {
		return apperrors.NewStoreError("deleted_trades", "encode", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStoreError("deleted_trades", "begin", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO deleted_trades (id, payload, deleted_at) VALUES (?, ?, ?)
	`, id, string(payload), time.Now()); err != nil {
		return apperrors.NewStoreError("deleted_trades", "insert", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM trades WHERE id = ?`, id); err != nil {
		return apperrors.NewStoreError("trades", "delete", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStoreError("deleted_trades", "commit", err)
	}
	return nil
}

// UndoDelete restores a soft-deleted trade if the undo window has not
// expired. The trade keeps its original ID.
func (s *SQLiteStore) UndoDelete(ctx context.Context, id int64, window time.Duration) (*models.Trade, error) {
	var payload string
	var deletedAt time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT payload, deleted_at FROM deleted_trades WHERE id = ?
	`, id).Scan(&payload, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNothingToUndo
	}
	if err != nil {
		return nil, apperrors.NewStoreError("deleted_trades", "get", err)
	}

	if window > 0 && time.Since(deletedAt) > window {
		return nil, apperrors.ErrUndoExpired
	}

	var trade models.Trade
	if err := json.Unmarshal([]byte(payload), &trade); err != nil {
		return nil, apperrors.NewStoreError("deleted_trades", "decode", err)
	}

	mistakes, _ := json.Marshal(trade.Mistakes)
	emotions, _ := json.Marshal(trade.Emotions)
	tags, _ := json.Marshal(trade.CustomTags)
	shots, _ := json.Marshal(trade.Screenshots)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.NewStoreError("deleted_trades", "begin", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO trades (id, account_id, date, trade_time, pair, strategy_id, position,
			planned_risk, actual_risk, planned_rr, actual_rr, lot_size, stop_loss,
			entry_price, sl_price, exit_price, hold_time, outcome, profit_loss,
			mistakes, emotions, custom_tags, screenshots, setup_score, adherence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, trade.ID, trade.AccountID, trade.Date, trade.TradeTime, trade.Pair, trade.StrategyID, trade.Position,
		trade.PlannedRisk, trade.ActualRisk, trade.PlannedRR, trade.ActualRR, trade.LotSize, trade.StopLoss,
		trade.EntryPrice, trade.SLPrice, trade.ExitPrice, trade.HoldTime, trade.Outcome, trade.ProfitLoss,
		string(mistakes), string(emotions), string(tags), string(shots), trade.SetupScore, trade.Adherence, trade.CreatedAt); err != nil {
		return nil, apperrors.NewStoreError("trades", "restore", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM deleted_trades WHERE id = ?`, id); err != nil {
		return nil, apperrors.NewStoreError("deleted_trades", "delete", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.NewStoreError("deleted_trades", "commit", err)
	}
	return &trade, nil
}

// PurgeExpired hard-deletes tombstones older than the undo window and
// returns the number removed.
func (s *SQLiteStore) PurgeExpired(ctx context.Context, window time.Duration) (int, error) {
	cutoff := time.Now().Add(-window)
	res, err := s.db.ExecContext(ctx, `DELETE FROM deleted_trades WHERE deleted_at < ?`, cutoff)
	if err != nil {
		return 0, apperrors.NewStoreError("deleted_trades", "purge", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// ============================================================================
// Reflections Methods
// ============================================================================

// SaveReflection inserts or replaces a trade's reflection.
func (s *SQLiteStore) SaveReflection(ctx context.Context, reflection *models.Reflection) error {
	checklist, _ := json.Marshal(reflection.Checklist)
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO reflections (trade_id, account_id, notes, checklist, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, reflection.TradeID, reflection.AccountID, reflection.Notes, string(checklist), time.Now())
	if err != nil {
		return apperrors.NewStoreError("reflections", "save", err)
	}
	return nil
}

// GetReflection retrieves a trade's reflection, or nil when none exists.
func (s *SQLiteStore) GetReflection(ctx context.Context, tradeID, accountID int64) (*models.Reflection, error) {
	var r models.Reflection
	var checklist sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT trade_id, account_id, notes, checklist, updated_at
		FROM reflections WHERE trade_id = ? AND account_id = ?
	`, tradeID, accountID).Scan(&r.TradeID, &r.AccountID, &r.Notes, &checklist, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewStoreError("reflections", "get", err)
	}
	json.Unmarshal([]byte(checklist.String), &r.Checklist)
	return &r, nil
}

// GetReflections retrieves all reflections for an account keyed by trade ID.
func (s *SQLiteStore) GetReflections(ctx context.Context, accountID int64) (map[int64]models.Reflection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT trade_id, account_id, notes, checklist, updated_at
		FROM reflections WHERE account_id = ?
	`, accountID)
	if err != nil {
		return nil, apperrors.NewStoreError("reflections", "query", err)
	}
	defer rows.Close()

	reflections := make(map[int64]models.Reflection)
	for rows.Next() {
		var r models.Reflection
		var checklist sql.NullString
		if err := rows.Scan(&r.TradeID, &r.AccountID, &r.Notes, &checklist, &r.UpdatedAt); err != nil {
			return nil, apperrors.NewStoreError("reflections", "scan", err)
		}
		json.Unmarshal([]byte(checklist.String), &r.Checklist)
		reflections[r.TradeID] = r
	}

	return reflections, rows.Err()
}
