package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade sides. These match the CHECK constraint on the trades table.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// Screenshot is the boundary representation of an attached image: the
// display URL is resolved from the stored object key on every fetch and
// is never persisted.
type Screenshot struct {
	ID  int64  `json:"id"`
	URL string `json:"url"`
}

// Trade is the API-facing trade record, with screenshots already
// resolved to time-limited display URLs.
type Trade struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"userId"`
	Symbol      string          `json:"symbol"`
	Side        string          `json:"side"`
	TradeDate   string          `json:"tradeDate"` // YYYY-MM-DD
	ProfitLoss  decimal.Decimal `json:"profitLoss"`
	Note        string          `json:"note,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Screenshots []Screenshot    `json:"screenshots"`
}

// MonthData is one calendar month of trades for a user, plus a flag
// telling whether any earlier trades exist (drives "load earlier"
// navigation).
type MonthData struct {
	Trades  []Trade `json:"trades"`
	Year    int     `json:"year"`
	Month   int     `json:"month"`
	HasMore bool    `json:"hasMore"`
}

// DayStats summarizes one calendar day of trading. Breakeven trades
// count toward TotalTrades but neither win nor loss bucket.
type DayStats struct {
	TotalProfit      decimal.Decimal `json:"totalProfit"`
	ProfitableTrades int             `json:"profitableTrades"`
	LossTrades       int             `json:"lossTrades"`
	TotalTrades      int             `json:"totalTrades"`
}

// WeekTotal is the aggregate for one 7-cell row of the calendar grid.
type WeekTotal struct {
	WeekNumber  int             `json:"weekNumber"`
	Total       decimal.Decimal `json:"total"`
	TradingDays int             `json:"tradingDays"`
}

// MonthSummary is the header aggregate for a displayed month.
type MonthSummary struct {
	TotalProfit decimal.Decimal `json:"totalProfit"`
	WinRate     float64         `json:"winRate"` // percent, 0 when no trades
	TradingDays int             `json:"tradingDays"`
	TotalTrades int             `json:"totalTrades"`
}
