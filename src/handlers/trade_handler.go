package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/username/tradejournal/backend/src/config"
	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/model"
	"github.com/username/tradejournal/backend/src/security/validation"
	"github.com/username/tradejournal/backend/src/services"
	"github.com/username/tradejournal/backend/src/utils"
)

type TradeHandler struct {
	tradeService services.TradeService
}

func NewTradeHandler(tradeService services.TradeService) *TradeHandler {
	return &TradeHandler{
		tradeService: tradeService,
	}
}

// HandleGetTrades serves GET /api/trades. With year and month query
// parameters it returns that month's data plus the hasMore flag;
// without parameters it returns the full history, newest first.
func (h *TradeHandler) HandleGetTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	yearStr := r.URL.Query().Get("year")
	monthStr := r.URL.Query().Get("month")

	if yearStr == "" && monthStr == "" {
		trades, err := h.tradeService.ListTrades(userID)
		if err != nil {
			logger.FromContext(r.Context()).Error("Failed to list trades", "error", err)
			utils.SendJSONError(w, "Failed to retrieve trades", http.StatusInternalServerError)
			return
		}
		utils.WriteJSON(w, http.StatusOK, trades)
		return
	}

	year, errY := strconv.Atoi(yearStr)
	month, errM := strconv.Atoi(monthStr)
	if errY != nil || errM != nil || month < 1 || month > 12 || year < 1 {
		utils.SendJSONError(w, "year and month query parameters must form a valid calendar month", http.StatusBadRequest)
		return
	}

	data, err := h.tradeService.GetMonthData(userID, year, month)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to get month data", "year", year, "month", month, "error", err)
		utils.SendJSONError(w, "Failed to retrieve trades for month", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, data)
}

// HandleCreateTrade serves POST /api/trades as a multipart form: the
// trade fields plus zero or more screenshot files.
func (h *TradeHandler) HandleCreateTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}
	ctxLogger := logger.FromContext(r.Context())

	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		ctxLogger.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, "Failed to parse form or upload too large", http.StatusBadRequest)
		return
	}

	input, err := validation.ValidateTradeInput(validation.TradeInput{
		Symbol:     r.FormValue("symbol"),
		Side:       r.FormValue("side"),
		TradeDate:  r.FormValue("tradeDate"),
		ProfitLoss: r.FormValue("profitLoss"),
		Note:       r.FormValue("note"),
	})
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var screenshots []services.ScreenshotUpload
	if r.MultipartForm != nil {
		for _, fileHeader := range r.MultipartForm.File["screenshots"] {
			if fileHeader.Size == 0 {
				continue
			}
			file, err := fileHeader.Open()
			if err != nil {
				utils.SendJSONError(w, "Failed to read screenshot upload", http.StatusBadRequest)
				return
			}
			defer file.Close()

			contentType, err := validation.ValidateScreenshotContent(file)
			if err != nil {
				utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
				return
			}
			screenshots = append(screenshots, services.ScreenshotUpload{
				File:        file,
				ContentType: contentType,
			})
		}
	}

	trade, err := h.tradeService.CreateTrade(userID, input, screenshots)
	if err != nil {
		ctxLogger.Error("Failed to create trade", "error", err)
		utils.SendJSONError(w, "Failed to create trade", http.StatusInternalServerError)
		return
	}

	ctxLogger.Info("Trade created", "tradeID", trade.ID, "symbol", trade.Symbol, "tradeDate", trade.TradeDate)
	utils.WriteJSON(w, http.StatusCreated, trade)
}

type updateTradeRequest struct {
	Symbol     *string `json:"symbol"`
	Side       *string `json:"side"`
	TradeDate  *string `json:"tradeDate"`
	ProfitLoss *string `json:"profitLoss"`
	Note       *string `json:"note"`
}

// HandleUpdateTrade serves PUT /api/trades/{id} with a partial JSON
// body. Ownership is re-verified by the update statement itself.
func (h *TradeHandler) HandleUpdateTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	tradeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid trade id", http.StatusBadRequest)
		return
	}

	var req updateTradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var upd model.TradeUpdate
	if req.Symbol != nil {
		symbol, err := validation.ValidateSymbol(*req.Symbol)
		if err != nil {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		upd.Symbol = &symbol
	}
	if req.Side != nil {
		side, err := validation.ValidateSide(*req.Side)
		if err != nil {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		upd.Side = &side
	}
	if req.TradeDate != nil {
		date, err := validation.ValidateTradeDate(*req.TradeDate)
		if err != nil {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		upd.TradeDate = &date
	}
	if req.ProfitLoss != nil {
		pl, err := validation.ValidateProfitLoss(*req.ProfitLoss)
		if err != nil {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		upd.ProfitLoss = &pl
	}
	if req.Note != nil {
		note, err := validation.ValidateNote(*req.Note)
		if err != nil {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		upd.Note = &note
	}

	trade, err := h.tradeService.UpdateTrade(userID, tradeID, upd)
	if err != nil {
		if errors.Is(err, model.ErrTradeNotFound) {
			utils.SendJSONError(w, "Trade not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to update trade", "tradeID", tradeID, "error", err)
		utils.SendJSONError(w, "Failed to update trade", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, trade)
}

// HandleDeleteTrade serves DELETE /api/trades/{id}. Screenshots are
// removed with the trade; ownership is checked at execution time.
func (h *TradeHandler) HandleDeleteTrade(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	tradeID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid trade id", http.StatusBadRequest)
		return
	}

	if err := h.tradeService.DeleteTrade(userID, tradeID); err != nil {
		if errors.Is(err, model.ErrTradeNotFound) {
			utils.SendJSONError(w, "Trade not found", http.StatusNotFound)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to delete trade", "tradeID", tradeID, "error", err)
		utils.SendJSONError(w, "Failed to delete trade", http.StatusInternalServerError)
		return
	}

	logger.FromContext(r.Context()).Info("Trade deleted", "tradeID", tradeID)
	w.WriteHeader(http.StatusNoContent)
}
