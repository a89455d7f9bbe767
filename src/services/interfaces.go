package services

import (
	"errors"
	"io"

	"github.com/username/tradejournal/backend/src/model"
	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/security/validation"
)

// ErrScreenshotResolve wraps a display URL resolution failure. One
// unresolvable screenshot fails the whole fetch.
var ErrScreenshotResolve = errors.New("screenshot URL resolution failed")

// ScreenshotUpload is one image file attached at trade creation.
type ScreenshotUpload struct {
	File        io.ReadSeeker
	ContentType string
}

// TradeService is the core trade data provider: month-keyed fetches
// with resolved screenshot URLs, plus owner-scoped CRUD.
type TradeService interface {
	// GetMonthData returns the owner's trades for the month with
	// screenshots resolved, and whether earlier trades exist.
	GetMonthData(userID int64, year, month int) (*models.MonthData, error)
	// ListTrades returns all of the owner's trades, newest first.
	ListTrades(userID int64) ([]models.Trade, error)
	CreateTrade(userID int64, input *validation.ValidatedTrade, screenshots []ScreenshotUpload) (*models.Trade, error)
	UpdateTrade(userID, tradeID int64, upd model.TradeUpdate) (*models.Trade, error)
	DeleteTrade(userID, tradeID int64) error
	InvalidateUserCache(userID int64)
}
