package task

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/butler/pkg/model"
)

const defaultStockURL = "https://www.alphavantage.co/query"

// StockHandler answers get_stock_price via Alpha Vantage global quotes
type StockHandler struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

type StockOption func(*StockHandler)

func WithStockBaseURL(u string) StockOption {
	return func(h *StockHandler) {
		h.baseURL = u
	}
}

func NewStockHandler(apiKey string, opts ...StockOption) *StockHandler {
	h := &StockHandler{
		apiKey:  apiKey,
		baseURL: defaultStockURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *StockHandler) Intent() model.Action { return model.ActionGetStockPrice }
func (h *StockHandler) Required() []string   { return []string{"symbol"} }

func (h *StockHandler) Execute(ctx context.Context, entities map[string]string) (string, error) {
	if h.apiKey == "" {
		return "My stock service is not configured.", nil
	}

	symbol := strings.ToUpper(entities["symbol"])

	q := url.Values{}
	q.Set("function", "GLOBAL_QUOTE")
	q.Set("symbol", symbol)
	q.Set("apikey", h.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to build stock request")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "stock service unreachable", goerr.V("symbol", symbol))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", goerr.New("stock service returned an error", goerr.V("status", resp.StatusCode))
	}

	var body struct {
		Quote struct {
			Price string `json:"05. price"`
		} `json:"Global Quote"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", goerr.Wrap(err, "failed to decode stock response")
	}

	price, err := strconv.ParseFloat(body.Quote.Price, 64)
	if err != nil {
		return fmt.Sprintf("I couldn't find a price for %s.", symbol), nil
	}
	return fmt.Sprintf("The current price of %s is %.2f dollars.", symbol, price), nil
}
