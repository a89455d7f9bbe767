// Package calendar computes day and week trading statistics for the
// monthly calendar view. Everything here is a pure function over a
// trade slice; absence of trades is a zero-valued result, never an
// error.
package calendar

import (
	"fmt"
	"iter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/tradejournal/backend/src/models"
)

// DateKey normalizes a trade date to its calendar day (YYYY-MM-DD),
// discarding any time-of-day or timezone component.
func DateKey(s string) string {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Format("2006-01-02")
	}
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}

// DayKey formats a year/month/day triple as YYYY-MM-DD.
func DayKey(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// TradesOnDate yields the trades whose date equals the given calendar
// day (YYYY-MM-DD). Input order is preserved and the sequence can be
// ranged over any number of times.
func TradesOnDate(trades []models.Trade, date string) iter.Seq[models.Trade] {
	want := DateKey(date)
	return func(yield func(models.Trade) bool) {
		for _, t := range trades {
			if DateKey(t.TradeDate) != want {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

// DayProfit sums profit/loss over the trades on the given day. Zero
// when no trades match.
func DayProfit(trades []models.Trade, date string) decimal.Decimal {
	sum := decimal.Zero
	for t := range TradesOnDate(trades, date) {
		sum = sum.Add(t.ProfitLoss)
	}
	return sum
}

// ComputeDayStats summarizes one calendar day. Breakeven trades count
// toward TotalTrades only.
func ComputeDayStats(trades []models.Trade, date string) models.DayStats {
	stats := models.DayStats{TotalProfit: decimal.Zero}
	for t := range TradesOnDate(trades, date) {
		stats.TotalProfit = stats.TotalProfit.Add(t.ProfitLoss)
		stats.TotalTrades++
		switch {
		case t.ProfitLoss.IsPositive():
			stats.ProfitableTrades++
		case t.ProfitLoss.IsNegative():
			stats.LossTrades++
		}
	}
	return stats
}

// DaysInMonth returns the number of days in the month.
func DaysInMonth(year, month int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekday returns the weekday of the 1st of the month, Sunday=0.
func FirstWeekday(year, month int) int {
	return int(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Weekday())
}

// MonthGrid lays the month out as calendar cells: leading zeroes for
// the blank cells before day 1, then the day numbers, then trailing
// zeroes padding the final week to a multiple of 7.
func MonthGrid(year, month int) []int {
	lead := FirstWeekday(year, month)
	days := DaysInMonth(year, month)

	cells := make([]int, 0, lead+days+6)
	for i := 0; i < lead; i++ {
		cells = append(cells, 0)
	}
	for day := 1; day <= days; day++ {
		cells = append(cells, day)
	}
	for len(cells)%7 != 0 {
		cells = append(cells, 0)
	}
	return cells
}

// WeekTotals partitions the month's grid into consecutive groups of 7
// cells and aggregates each group: the profit/loss sum over its
// in-month days and the count of days with at least one trade. Weeks
// are numbered from 1 in emission order. Blank cells contribute
// nothing, so an all-blank group still yields a zero entry.
func WeekTotals(trades []models.Trade, year, month int) []models.WeekTotal {
	cells := MonthGrid(year, month)

	totals := make([]models.WeekTotal, 0, len(cells)/7)
	for start := 0; start < len(cells); start += 7 {
		wt := models.WeekTotal{
			WeekNumber: len(totals) + 1,
			Total:      decimal.Zero,
		}
		for _, day := range cells[start : start+7] {
			if day == 0 {
				continue
			}
			date := DayKey(year, month, day)
			wt.Total = wt.Total.Add(DayProfit(trades, date))
			if hasTrades(trades, date) {
				wt.TradingDays++
			}
		}
		totals = append(totals, wt)
	}
	return totals
}

// Summary aggregates the month header stats: total profit, win rate in
// percent, distinct trading days and trade count. Only trades dated
// inside the month are counted.
func Summary(trades []models.Trade, year, month int) models.MonthSummary {
	prefix := fmt.Sprintf("%04d-%02d-", year, month)

	sum := models.MonthSummary{TotalProfit: decimal.Zero}
	days := make(map[string]struct{})
	wins := 0
	for _, t := range trades {
		key := DateKey(t.TradeDate)
		if len(key) < len(prefix) || key[:len(prefix)] != prefix {
			continue
		}
		sum.TotalProfit = sum.TotalProfit.Add(t.ProfitLoss)
		sum.TotalTrades++
		days[key] = struct{}{}
		if t.ProfitLoss.IsPositive() {
			wins++
		}
	}
	sum.TradingDays = len(days)
	if sum.TotalTrades > 0 {
		sum.WinRate = float64(wins) / float64(sum.TotalTrades) * 100
	}
	return sum
}

func hasTrades(trades []models.Trade, date string) bool {
	for range TradesOnDate(trades, date) {
		return true
	}
	return false
}
