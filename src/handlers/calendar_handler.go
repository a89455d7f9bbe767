package handlers

import (
	"net/http"
	"strconv"

	"github.com/username/tradejournal/backend/src/calendar"
	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/services"
	"github.com/username/tradejournal/backend/src/utils"
)

type CalendarHandler struct {
	tradeService services.TradeService
}

func NewCalendarHandler(tradeService services.TradeService) *CalendarHandler {
	return &CalendarHandler{
		tradeService: tradeService,
	}
}

type calendarDayCell struct {
	Day       int             `json:"day"` // 0 = blank padding cell
	HasTrades bool            `json:"hasTrades"`
	Stats     models.DayStats `json:"stats"`
}

type calendarResponse struct {
	Year    int                 `json:"year"`
	Month   int                 `json:"month"`
	Cells   []calendarDayCell   `json:"cells"`
	Weeks   []models.WeekTotal  `json:"weeks"`
	Summary models.MonthSummary `json:"summary"`
	HasMore bool                `json:"hasMore"`
}

// HandleGetCalendar serves GET /api/calendar?year&month: the month's
// grid cells with per-day stats, the week totals and the month summary.
func (h *CalendarHandler) HandleGetCalendar(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	year, errY := strconv.Atoi(r.URL.Query().Get("year"))
	month, errM := strconv.Atoi(r.URL.Query().Get("month"))
	if errY != nil || errM != nil || month < 1 || month > 12 || year < 1 {
		utils.SendJSONError(w, "year and month query parameters must form a valid calendar month", http.StatusBadRequest)
		return
	}

	data, err := h.tradeService.GetMonthData(userID, year, month)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to get month data for calendar", "year", year, "month", month, "error", err)
		utils.SendJSONError(w, "Failed to compute calendar", http.StatusInternalServerError)
		return
	}

	resp := calendarResponse{
		Year:    year,
		Month:   month,
		Weeks:   calendar.WeekTotals(data.Trades, year, month),
		Summary: calendar.Summary(data.Trades, year, month),
		HasMore: data.HasMore,
	}
	for _, day := range calendar.MonthGrid(year, month) {
		cell := calendarDayCell{Day: day}
		if day != 0 {
			cell.Stats = calendar.ComputeDayStats(data.Trades, calendar.DayKey(year, month, day))
			cell.HasTrades = cell.Stats.TotalTrades > 0
		}
		resp.Cells = append(resp.Cells, cell)
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}
