package client

import (
	"context"

	"github.com/username/tradejournal/backend/src/calendar"
	"github.com/username/tradejournal/backend/src/models"
)

// DayCell is one calendar grid cell. Day 0 marks a blank cell padding
// the month into whole weeks.
type DayCell struct {
	Day       int             `json:"day"`
	HasTrades bool            `json:"hasTrades"`
	Stats     models.DayStats `json:"stats"`
}

// MonthView is everything presentation needs to render one month.
type MonthView struct {
	Year     int                 `json:"year"`
	Month    int                 `json:"month"`
	Cells    []DayCell           `json:"cells"`
	Weeks    []models.WeekTotal  `json:"weeks"`
	Summary  models.MonthSummary `json:"summary"`
	HasMore  bool                `json:"hasMore"`
	Fetching bool                `json:"fetching"`
}

// CalendarViewModel composes the month cache with the aggregation
// functions: it tracks the displayed MonthKey, loads its trades through
// the cache and derives the per-day and per-week view data.
type CalendarViewModel struct {
	cache *MonthCache
	key   models.MonthKey
}

// NewCalendarViewModel starts at initial. When seed is non-nil it is
// installed as fresh cache data, so first render needs no fetch.
func NewCalendarViewModel(cache *MonthCache, initial models.MonthKey, seed *models.MonthData) *CalendarViewModel {
	if seed != nil {
		cache.Seed(initial, seed)
	}
	return &CalendarViewModel{cache: cache, key: initial}
}

// Key returns the currently displayed month.
func (vm *CalendarViewModel) Key() models.MonthKey {
	return vm.key
}

// Current loads the displayed month and builds its view.
func (vm *CalendarViewModel) Current(ctx context.Context) (*MonthView, error) {
	data, err := vm.cache.Load(ctx, vm.key)
	if err != nil {
		return nil, err
	}
	return vm.build(data), nil
}

// Prev navigates one month back, rolling the year at January.
func (vm *CalendarViewModel) Prev(ctx context.Context) (*MonthView, error) {
	vm.key = vm.key.Prev()
	return vm.Current(ctx)
}

// Next navigates one month forward, rolling the year at December.
func (vm *CalendarViewModel) Next(ctx context.Context) (*MonthView, error) {
	vm.key = vm.key.Next()
	return vm.Current(ctx)
}

func (vm *CalendarViewModel) build(data *models.MonthData) *MonthView {
	view := &MonthView{
		Year:     data.Year,
		Month:    data.Month,
		Weeks:    calendar.WeekTotals(data.Trades, data.Year, data.Month),
		Summary:  calendar.Summary(data.Trades, data.Year, data.Month),
		HasMore:  data.HasMore,
		Fetching: vm.cache.Fetching(),
	}

	for _, day := range calendar.MonthGrid(data.Year, data.Month) {
		cell := DayCell{Day: day}
		if day != 0 {
			cell.Stats = calendar.ComputeDayStats(data.Trades, calendar.DayKey(data.Year, data.Month, day))
			cell.HasTrades = cell.Stats.TotalTrades > 0
		}
		view.Cells = append(view.Cells, cell)
	}
	return view
}
