package services

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/tradejournal/backend/src/logger"
	"github.com/username/tradejournal/backend/src/model"
	"github.com/username/tradejournal/backend/src/models"
	"github.com/username/tradejournal/backend/src/security/validation"
	"github.com/username/tradejournal/backend/src/storage"
)

const (
	ckMonthData            = "month_data_user_%d_%04d_%02d"
	ckUserPrefix           = "month_data_user_%d_"
	DefaultCacheExpiration = 5 * time.Minute
	CacheCleanupInterval   = 10 * time.Minute
)

type tradeServiceImpl struct {
	db         *sql.DB
	store      storage.ObjectStore
	monthCache *cache.Cache
}

// NewTradeService wires the persistence and object storage
// collaborators. monthCache holds served month results; it must expire
// faster than the display URLs it contains.
func NewTradeService(db *sql.DB, store storage.ObjectStore, monthCache *cache.Cache) TradeService {
	return &tradeServiceImpl{
		db:         db,
		store:      store,
		monthCache: monthCache,
	}
}

func (s *tradeServiceImpl) GetMonthData(userID int64, year, month int) (*models.MonthData, error) {
	cacheKey := fmt.Sprintf(ckMonthData, userID, year, month)
	if cached, found := s.monthCache.Get(cacheKey); found {
		return cached.(*models.MonthData), nil
	}

	rows, err := model.GetTradesForMonth(s.db, userID, year, month)
	if err != nil {
		return nil, fmt.Errorf("querying trades for month: %w", err)
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	earlier, err := model.CountTradesBefore(s.db, userID, first.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("checking for earlier trades: %w", err)
	}

	trades, err := s.toViews(rows)
	if err != nil {
		return nil, err
	}

	data := &models.MonthData{
		Trades:  trades,
		Year:    year,
		Month:   month,
		HasMore: earlier > 0,
	}
	s.monthCache.Set(cacheKey, data, cache.DefaultExpiration)
	return data, nil
}

func (s *tradeServiceImpl) ListTrades(userID int64) ([]models.Trade, error) {
	rows, err := model.GetTradesForUser(s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("querying trades: %w", err)
	}
	return s.toViews(rows)
}

func (s *tradeServiceImpl) CreateTrade(userID int64, input *validation.ValidatedTrade, screenshots []ScreenshotUpload) (*models.Trade, error) {
	var keys []string
	for _, shot := range screenshots {
		key, err := s.store.Put(shot.File, shot.ContentType)
		if err != nil {
			s.removeObjects(keys)
			return nil, fmt.Errorf("storing screenshot: %w", err)
		}
		keys = append(keys, key)
	}

	trade := &model.Trade{
		UserID:     userID,
		Symbol:     input.Symbol,
		Side:       input.Side,
		TradeDate:  input.TradeDate,
		ProfitLoss: input.ProfitLoss,
		Note:       input.Note,
	}
	for _, key := range keys {
		trade.Screenshots = append(trade.Screenshots, model.Screenshot{Key: key})
	}

	if err := trade.Create(s.db); err != nil {
		s.removeObjects(keys)
		return nil, fmt.Errorf("creating trade: %w", err)
	}

	s.InvalidateUserCache(userID)
	return s.toView(trade)
}

func (s *tradeServiceImpl) UpdateTrade(userID, tradeID int64, upd model.TradeUpdate) (*models.Trade, error) {
	trade, err := model.UpdateTrade(s.db, tradeID, userID, upd)
	if err != nil {
		return nil, err
	}
	s.InvalidateUserCache(userID)
	return s.toView(trade)
}

func (s *tradeServiceImpl) DeleteTrade(userID, tradeID int64) error {
	keys, err := model.DeleteTrade(s.db, tradeID, userID)
	if err != nil {
		return err
	}
	// Object removal is best effort; the rows are already gone.
	s.removeObjects(keys)
	s.InvalidateUserCache(userID)
	return nil
}

func (s *tradeServiceImpl) InvalidateUserCache(userID int64) {
	prefix := fmt.Sprintf(ckUserPrefix, userID)
	for key := range s.monthCache.Items() {
		if strings.HasPrefix(key, prefix) {
			s.monthCache.Delete(key)
		}
	}
}

func (s *tradeServiceImpl) removeObjects(keys []string) {
	for _, key := range keys {
		if err := s.store.Remove(key); err != nil {
			logger.L.Warn("Failed to remove stored screenshot", "key", key, "error", err)
		}
	}
}

// toView resolves a persisted trade into its boundary representation,
// signing a fresh display URL per screenshot. Resolution is fail-fast:
// any single failure aborts the whole transform.
func (s *tradeServiceImpl) toView(t *model.Trade) (*models.Trade, error) {
	view := &models.Trade{
		ID:          t.ID,
		UserID:      t.UserID,
		Symbol:      t.Symbol,
		Side:        t.Side,
		TradeDate:   t.TradeDate,
		ProfitLoss:  t.ProfitLoss,
		Note:        t.Note,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Screenshots: []models.Screenshot{},
	}
	for _, shot := range t.Screenshots {
		url, err := s.store.DisplayURL(shot.Key)
		if err != nil {
			return nil, fmt.Errorf("%w: key %s: %v", ErrScreenshotResolve, shot.Key, err)
		}
		view.Screenshots = append(view.Screenshots, models.Screenshot{ID: shot.ID, URL: url})
	}
	return view, nil
}

func (s *tradeServiceImpl) toViews(rows []model.Trade) ([]models.Trade, error) {
	trades := make([]models.Trade, 0, len(rows))
	for i := range rows {
		view, err := s.toView(&rows[i])
		if err != nil {
			return nil, err
		}
		trades = append(trades, *view)
	}
	return trades, nil
}
