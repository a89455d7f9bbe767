// Package client is the Go consumer of the trade API: an HTTP client,
// a month-keyed cache with adjacent-month prefetching, and the
// calendar view model presentation renders from.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/username/tradejournal/backend/src/models"
)

// Fetcher retrieves one month of trade data. It is the seam MonthCache
// de-duplicates and prefetches through.
type Fetcher interface {
	FetchMonth(ctx context.Context, key models.MonthKey) (*models.MonthData, error)
}

// APIClient talks to the backend's JSON API with a bearer token.
type APIClient struct {
	baseURL string
	token   string
	httpc   *http.Client
}

func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// ScreenshotFile is one image attached to a trade being created.
type ScreenshotFile struct {
	Name        string
	ContentType string
	Data        io.Reader
}

// AddTradeInput carries the raw form fields for trade creation. Values
// are validated server-side.
type AddTradeInput struct {
	Symbol      string
	Side        string
	TradeDate   string
	ProfitLoss  string
	Note        string
	Screenshots []ScreenshotFile
}

// UpdateTradeInput is a partial update; nil fields are left unchanged.
type UpdateTradeInput struct {
	Symbol     *string `json:"symbol,omitempty"`
	Side       *string `json:"side,omitempty"`
	TradeDate  *string `json:"tradeDate,omitempty"`
	ProfitLoss *string `json:"profitLoss,omitempty"`
	Note       *string `json:"note,omitempty"`
}

// FetchMonth implements Fetcher against GET /api/trades?year&month.
func (c *APIClient) FetchMonth(ctx context.Context, key models.MonthKey) (*models.MonthData, error) {
	url := fmt.Sprintf("%s/api/trades?year=%d&month=%d", c.baseURL, key.Year, key.Month)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var data models.MonthData
	if err := c.do(req, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// ListTrades fetches the full trade history, newest first.
func (c *APIClient) ListTrades(ctx context.Context) ([]models.Trade, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/trades", nil)
	if err != nil {
		return nil, err
	}
	var trades []models.Trade
	if err := c.do(req, &trades); err != nil {
		return nil, err
	}
	return trades, nil
}

// CreateTrade posts a multipart form with the trade fields and any
// screenshot files.
func (c *APIClient) CreateTrade(ctx context.Context, input AddTradeInput) (*models.Trade, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fields := map[string]string{
		"symbol":     input.Symbol,
		"side":       input.Side,
		"tradeDate":  input.TradeDate,
		"profitLoss": input.ProfitLoss,
		"note":       input.Note,
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, err
		}
	}
	for _, shot := range input.Screenshots {
		part, err := mw.CreateFormFile("screenshots", shot.Name)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, shot.Data); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/trades", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var trade models.Trade
	if err := c.do(req, &trade); err != nil {
		return nil, err
	}
	return &trade, nil
}

// UpdateTrade applies a partial update to one trade.
func (c *APIClient) UpdateTrade(ctx context.Context, id int64, input UpdateTradeInput) (*models.Trade, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, err
	}
	url := c.baseURL + "/api/trades/" + strconv.FormatInt(id, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var trade models.Trade
	if err := c.do(req, &trade); err != nil {
		return nil, err
	}
	return &trade, nil
}

// DeleteTrade removes one trade.
func (c *APIClient) DeleteTrade(ctx context.Context, id int64) error {
	url := c.baseURL + "/api/trades/" + strconv.FormatInt(id, 10)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *APIClient) do(req *http.Request, out interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("api error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("api error: unexpected status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
