package quote

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const defaultBaseURL = "https://pro-api.coinmarketcap.com"

// Client fetches spot prices from the CoinMarketCap quotes endpoint.
type Client struct {
	http   *resty.Client
	apiKey string
}

// NewClient builds a quote client authenticated with the given API key.
func NewClient(apiKey string) *Client {
	c := resty.New()
	c.SetBaseURL(defaultBaseURL)
	return &Client{http: c, apiKey: apiKey}
}

// SetBaseURL overrides the provider endpoint, used by tests.
func (c *Client) SetBaseURL(url string) {
	c.http.SetBaseURL(url)
}

type quotesResponse struct {
	Data map[string]struct {
		Quote map[string]struct {
			Price *float64 `json:"price"`
		} `json:"quote"`
	} `json:"data"`
}

// Latest returns the current USD price for symbol. The symbol is uppercased
// before the request since the provider keys its response by the uppercase
// ticker. Failures come back as *Error so callers can log the failure class
// even though the user-facing message stays uniform.
func (c *Client) Latest(ctx context.Context, symbol string) (float64, error) {
	symbol = strings.ToUpper(symbol)

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-CMC_PRO_API_KEY", c.apiKey).
		SetQueryParam("symbol", symbol).
		Get("/v1/cryptocurrency/quotes/latest")
	if err != nil {
		return 0, &Error{Kind: KindNetwork, cause: err}
	}

	switch {
	case res.StatusCode() == http.StatusTooManyRequests:
		return 0, &Error{Kind: KindRateLimited, Status: res.StatusCode()}
	case !res.IsSuccess():
		return 0, &Error{Kind: KindStatus, Status: res.StatusCode()}
	}

	var body quotesResponse
	if err := json.Unmarshal(res.Body(), &body); err != nil {
		return 0, &Error{Kind: KindMalformed, cause: errors.Wrap(err, "decode quotes response")}
	}

	entry, ok := body.Data[symbol]
	if !ok {
		return 0, &Error{Kind: KindMalformed, cause: errors.Errorf("symbol %s missing from response", symbol)}
	}
	usd, ok := entry.Quote["USD"]
	if !ok || usd.Price == nil {
		return 0, &Error{Kind: KindMalformed, cause: errors.Errorf("no USD quote for %s", symbol)}
	}

	log.Debugf("quote %s = %f USD", symbol, *usd.Price)
	return *usd.Price, nil
}
