package model

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrTradeNotFound is returned for both a missing row and a row owned
// by another user. Callers must not distinguish the two.
var ErrTradeNotFound = errors.New("trade not found")

// Trade is the persisted trade row. Screenshots carry only the stable
// storage key; display URLs are resolved at the service boundary.
type Trade struct {
	ID          int64
	UserID      int64
	Symbol      string
	Side        string
	TradeDate   string // YYYY-MM-DD
	ProfitLoss  decimal.Decimal
	Note        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Screenshots []Screenshot
}

// Screenshot is an attached image owned by its parent trade. It has no
// lifecycle of its own: deleting the trade cascades to its screenshots.
type Screenshot struct {
	ID       int64
	TradeID  int64
	Key      string
	Position int
}

// TradeUpdate carries the owner-supplied fields of a partial update.
// Nil pointers leave the column unchanged.
type TradeUpdate struct {
	Symbol     *string
	Side       *string
	TradeDate  *string
	ProfitLoss *decimal.Decimal
	Note       *string
}

// Create inserts the trade and its screenshots in one transaction and
// fills in the assigned IDs.
func (t *Trade) Create(db *sql.DB) error {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO trades (user_id, symbol, side, trade_date, profit_loss, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Symbol, t.Side, t.TradeDate, t.ProfitLoss.String(), t.Note, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting trade: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}

	for i := range t.Screenshots {
		s := &t.Screenshots[i]
		s.TradeID = t.ID
		s.Position = i
		res, err := tx.Exec(
			"INSERT INTO trade_screenshots (trade_id, key, position) VALUES (?, ?, ?)",
			s.TradeID, s.Key, s.Position)
		if err != nil {
			return fmt.Errorf("inserting screenshot: %w", err)
		}
		s.ID, err = res.LastInsertId()
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetTradeByID fetches one trade scoped to its owner.
func GetTradeByID(db *sql.DB, id, userID int64) (*Trade, error) {
	row := db.QueryRow(`
		SELECT id, user_id, symbol, side, trade_date, profit_loss, note, created_at, updated_at
		FROM trades
		WHERE id = ? AND user_id = ?`, id, userID)

	t, err := scanTrade(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTradeNotFound
		}
		return nil, err
	}
	if err := attachScreenshots(db, []*Trade{t}); err != nil {
		return nil, err
	}
	return t, nil
}

// GetTradesForMonth returns the owner's trades with trade_date in
// [first of month, first of next month). Order within the month is not
// guaranteed beyond belonging to it.
func GetTradesForMonth(db *sql.DB, userID int64, year, month int) ([]Trade, error) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	rows, err := db.Query(`
		SELECT id, user_id, symbol, side, trade_date, profit_loss, note, created_at, updated_at
		FROM trades
		WHERE user_id = ? AND trade_date >= ? AND trade_date < ?`,
		userID, first.Format("2006-01-02"), next.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTrades(db, rows)
}

// GetTradesForUser returns all trades for the owner, newest trade date
// first.
func GetTradesForUser(db *sql.DB, userID int64) ([]Trade, error) {
	rows, err := db.Query(`
		SELECT id, user_id, symbol, side, trade_date, profit_loss, note, created_at, updated_at
		FROM trades
		WHERE user_id = ?
		ORDER BY trade_date DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectTrades(db, rows)
}

// CountTradesBefore reports how many of the owner's trades fall
// strictly before the given date (YYYY-MM-DD).
func CountTradesBefore(db *sql.DB, userID int64, date string) (int, error) {
	var n int
	err := db.QueryRow(
		"SELECT COUNT(*) FROM trades WHERE user_id = ? AND trade_date < ?",
		userID, date).Scan(&n)
	return n, err
}

// UpdateTrade applies a partial update. Ownership is enforced by the
// statement itself, so a row changed or deleted since it was last read
// yields ErrTradeNotFound rather than touching another user's data.
func UpdateTrade(db *sql.DB, id, userID int64, upd TradeUpdate) (*Trade, error) {
	var sets []string
	var args []interface{}

	if upd.Symbol != nil {
		sets = append(sets, "symbol = ?")
		args = append(args, *upd.Symbol)
	}
	if upd.Side != nil {
		sets = append(sets, "side = ?")
		args = append(args, *upd.Side)
	}
	if upd.TradeDate != nil {
		sets = append(sets, "trade_date = ?")
		args = append(args, *upd.TradeDate)
	}
	if upd.ProfitLoss != nil {
		sets = append(sets, "profit_loss = ?")
		args = append(args, upd.ProfitLoss.String())
	}
	if upd.Note != nil {
		sets = append(sets, "note = ?")
		args = append(args, *upd.Note)
	}
	if len(sets) == 0 {
		return GetTradeByID(db, id, userID)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC())
	args = append(args, id, userID)

	query := "UPDATE trades SET " + strings.Join(sets, ", ") + " WHERE id = ? AND user_id = ?"
	res, err := db.Exec(query, args...)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrTradeNotFound
	}

	return GetTradeByID(db, id, userID)
}

// DeleteTrade removes the owner's trade. Screenshot rows cascade via
// the foreign key; the stored object keys are returned so the caller
// can remove the underlying files.
func DeleteTrade(db *sql.DB, id, userID int64) ([]string, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rows, err := tx.Query(`
		SELECT s.key FROM trade_screenshots s
		JOIN trades t ON t.id = s.trade_id
		WHERE s.trade_id = ? AND t.user_id = ?`, id, userID)
	if err != nil {
		return nil, err
	}
	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			rows.Close()
			return nil, err
		}
		keys = append(keys, k)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	res, err := tx.Exec("DELETE FROM trades WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrTradeNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return keys, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTrade(row rowScanner) (*Trade, error) {
	var t Trade
	var pl string
	if err := row.Scan(&t.ID, &t.UserID, &t.Symbol, &t.Side, &t.TradeDate, &pl, &t.Note, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(pl)
	if err != nil {
		return nil, fmt.Errorf("invalid profit_loss %q for trade %d: %w", pl, t.ID, err)
	}
	t.ProfitLoss = d
	return &t, nil
}

func collectTrades(db *sql.DB, rows *sql.Rows) ([]Trade, error) {
	var trades []Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	ptrs := make([]*Trade, len(trades))
	for i := range trades {
		ptrs[i] = &trades[i]
	}
	if err := attachScreenshots(db, ptrs); err != nil {
		return nil, err
	}
	return trades, nil
}

func attachScreenshots(db *sql.DB, trades []*Trade) error {
	if len(trades) == 0 {
		return nil
	}

	byID := make(map[int64]*Trade, len(trades))
	placeholders := make([]string, 0, len(trades))
	args := make([]interface{}, 0, len(trades))
	for _, t := range trades {
		byID[t.ID] = t
		placeholders = append(placeholders, "?")
		args = append(args, t.ID)
	}

	query := "SELECT id, trade_id, key, position FROM trade_screenshots WHERE trade_id IN (" +
		strings.Join(placeholders, ",") + ") ORDER BY trade_id, position"
	rows, err := db.Query(query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var s Screenshot
		if err := rows.Scan(&s.ID, &s.TradeID, &s.Key, &s.Position); err != nil {
			return err
		}
		if t, ok := byID[s.TradeID]; ok {
			t.Screenshots = append(t.Screenshots, s)
		}
	}
	return rows.Err()
}
