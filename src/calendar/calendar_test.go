package calendar

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/username/tradejournal/backend/src/models"
)

func trade(date string, pl int64) models.Trade {
	return models.Trade{
		Symbol:     "AAPL",
		Side:       models.SideBuy,
		TradeDate:  date,
		ProfitLoss: decimal.NewFromInt(pl),
	}
}

func marchTrades() []models.Trade {
	return []models.Trade{
		trade("2024-03-05", 100),
		trade("2024-03-05", -40),
		trade("2024-03-12", 0),
	}
}

func TestTradesOnDate(t *testing.T) {
	trades := marchTrades()

	var got []models.Trade
	for tr := range TradesOnDate(trades, "2024-03-05") {
		got = append(got, tr)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 trades on 2024-03-05, got %d", len(got))
	}
	if !got[0].ProfitLoss.Equal(decimal.NewFromInt(100)) || !got[1].ProfitLoss.Equal(decimal.NewFromInt(-40)) {
		t.Errorf("input order not preserved: %v, %v", got[0].ProfitLoss, got[1].ProfitLoss)
	}

	// The sequence must be restartable.
	count := 0
	seq := TradesOnDate(trades, "2024-03-05")
	for range seq {
		count++
	}
	for range seq {
		count++
	}
	if count != 4 {
		t.Errorf("sequence not restartable: counted %d over two passes", count)
	}
}

func TestTradesOnDateNormalizesTimestamps(t *testing.T) {
	trades := []models.Trade{trade("2024-03-05T14:30:00Z", 50)}

	n := 0
	for range TradesOnDate(trades, "2024-03-05") {
		n++
	}
	if n != 1 {
		t.Errorf("timestamped trade date should match its calendar day, matched %d", n)
	}
}

func TestDayProfit(t *testing.T) {
	trades := marchTrades()

	tests := []struct {
		date string
		want int64
	}{
		{"2024-03-05", 60},
		{"2024-03-12", 0},
		{"2024-03-20", 0}, // no trades
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			got := DayProfit(trades, tt.date)
			if !got.Equal(decimal.NewFromInt(tt.want)) {
				t.Errorf("DayProfit(%s) = %s, want %d", tt.date, got, tt.want)
			}
		})
	}
}

func TestComputeDayStats(t *testing.T) {
	trades := marchTrades()

	tests := []struct {
		date                          string
		totalProfit                   int64
		profitable, losses, breakeven int
	}{
		{"2024-03-05", 60, 1, 1, 0},
		{"2024-03-12", 0, 0, 0, 1},
		{"2024-03-20", 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			got := ComputeDayStats(trades, tt.date)
			if !got.TotalProfit.Equal(decimal.NewFromInt(tt.totalProfit)) {
				t.Errorf("TotalProfit = %s, want %d", got.TotalProfit, tt.totalProfit)
			}
			if got.ProfitableTrades != tt.profitable {
				t.Errorf("ProfitableTrades = %d, want %d", got.ProfitableTrades, tt.profitable)
			}
			if got.LossTrades != tt.losses {
				t.Errorf("LossTrades = %d, want %d", got.LossTrades, tt.losses)
			}
			wantTotal := tt.profitable + tt.losses + tt.breakeven
			if got.TotalTrades != wantTotal {
				t.Errorf("TotalTrades = %d, want %d", got.TotalTrades, wantTotal)
			}
		})
	}
}

func TestComputeDayStatsIsPure(t *testing.T) {
	trades := marchTrades()
	first := ComputeDayStats(trades, "2024-03-05")
	second := ComputeDayStats(trades, "2024-03-05")

	if !first.TotalProfit.Equal(second.TotalProfit) ||
		first.ProfitableTrades != second.ProfitableTrades ||
		first.LossTrades != second.LossTrades ||
		first.TotalTrades != second.TotalTrades {
		t.Errorf("repeated calls differ: %+v vs %+v", first, second)
	}
}

func TestMonthGridMarch2024(t *testing.T) {
	// March 2024 starts on a Friday and has 31 days: 5 leading blanks,
	// 36 occupied cells, padded to 6 full week rows.
	cells := MonthGrid(2024, 3)

	if len(cells) != 42 {
		t.Fatalf("expected 42 cells, got %d", len(cells))
	}
	for i := 0; i < 5; i++ {
		if cells[i] != 0 {
			t.Errorf("cell %d should be blank, got %d", i, cells[i])
		}
	}
	if cells[5] != 1 {
		t.Errorf("first day cell should be 1, got %d", cells[5])
	}
	if cells[35] != 31 {
		t.Errorf("cell 35 should be day 31, got %d", cells[35])
	}
	for i := 36; i < 42; i++ {
		if cells[i] != 0 {
			t.Errorf("trailing cell %d should be blank, got %d", i, cells[i])
		}
	}
}

func TestMonthGridAlwaysWholeWeeks(t *testing.T) {
	tests := []struct {
		year, month int
	}{
		{2024, 2},  // leap February
		{2023, 2},  // non-leap February starting Wednesday
		{2026, 2},  // February starting Sunday, exactly 4 rows
		{2024, 12}, // year boundary
		{2024, 9},  // starts Sunday
	}
	for _, tt := range tests {
		cells := MonthGrid(tt.year, tt.month)
		if len(cells)%7 != 0 {
			t.Errorf("%d-%02d: grid length %d is not a multiple of 7", tt.year, tt.month, len(cells))
		}
		days := 0
		for _, c := range cells {
			if c != 0 {
				days++
			}
		}
		if days != DaysInMonth(tt.year, tt.month) {
			t.Errorf("%d-%02d: grid holds %d days, want %d", tt.year, tt.month, days, DaysInMonth(tt.year, tt.month))
		}
	}
}

func TestWeekTotalsMarch2024(t *testing.T) {
	trades := marchTrades()
	weeks := WeekTotals(trades, 2024, 3)

	if len(weeks) != 6 {
		t.Fatalf("expected 6 weeks for March 2024, got %d", len(weeks))
	}
	for i, w := range weeks {
		if w.WeekNumber != i+1 {
			t.Errorf("week %d has WeekNumber %d", i, w.WeekNumber)
		}
	}

	// 2024-03-05 falls in week 2 (Mar 3-9), 2024-03-12 in week 3.
	if !weeks[1].Total.Equal(decimal.NewFromInt(60)) {
		t.Errorf("week 2 total = %s, want 60", weeks[1].Total)
	}
	if weeks[1].TradingDays != 1 {
		t.Errorf("week 2 trading days = %d, want 1", weeks[1].TradingDays)
	}
	if !weeks[2].Total.Equal(decimal.Zero) {
		t.Errorf("week 3 total = %s, want 0", weeks[2].Total)
	}
	if weeks[2].TradingDays != 1 {
		t.Errorf("week 3 trading days = %d, want 1", weeks[2].TradingDays)
	}

	// Untraded weeks must still be emitted, zero-valued.
	if !weeks[0].Total.Equal(decimal.Zero) || weeks[0].TradingDays != 0 {
		t.Errorf("week 1 should be zero-valued, got %+v", weeks[0])
	}
}

func TestWeekTotalsIdentities(t *testing.T) {
	trades := []models.Trade{
		trade("2024-03-01", 10),
		trade("2024-03-01", -5),
		trade("2024-03-09", 20),
		trade("2024-03-15", 0),
		trade("2024-03-31", 7),
		trade("2024-04-02", 999), // outside the month, must not pollute
	}
	weeks := WeekTotals(trades, 2024, 3)

	sum := decimal.Zero
	tradingDays := 0
	for _, w := range weeks {
		sum = sum.Add(w.Total)
		tradingDays += w.TradingDays
	}

	// Sum over weeks equals sum over in-month trades.
	want := decimal.NewFromInt(10 - 5 + 20 + 0 + 7)
	if !sum.Equal(want) {
		t.Errorf("sum of week totals = %s, want %s", sum, want)
	}

	// Trading day count equals distinct in-month traded dates.
	if tradingDays != 4 {
		t.Errorf("sum of trading days = %d, want 4", tradingDays)
	}
}

func TestSummary(t *testing.T) {
	trades := []models.Trade{
		trade("2024-03-05", 100),
		trade("2024-03-05", -40),
		trade("2024-03-12", 0),
		trade("2024-02-28", 500), // previous month, excluded
	}
	got := Summary(trades, 2024, 3)

	if !got.TotalProfit.Equal(decimal.NewFromInt(60)) {
		t.Errorf("TotalProfit = %s, want 60", got.TotalProfit)
	}
	if got.TotalTrades != 3 {
		t.Errorf("TotalTrades = %d, want 3", got.TotalTrades)
	}
	if got.TradingDays != 2 {
		t.Errorf("TradingDays = %d, want 2", got.TradingDays)
	}
	wantRate := 100.0 / 3.0
	if diff := got.WinRate - wantRate; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("WinRate = %f, want %f", got.WinRate, wantRate)
	}
}

func TestSummaryEmpty(t *testing.T) {
	got := Summary(nil, 2024, 3)
	if !got.TotalProfit.Equal(decimal.Zero) || got.WinRate != 0 || got.TotalTrades != 0 || got.TradingDays != 0 {
		t.Errorf("empty summary should be zero-valued, got %+v", got)
	}
}
