// Package alphavantage fetches daily stock prices from the Alpha Vantage API.
// API Doc: https://www.alphavantage.co/documentation/#daily
//
// Response format:
//
//	{
//	  "Meta Data": {...},
//	  "Time Series (Daily)": {
//	    "2024-01-03": {
//	      "1. open": "184.2200",
//	      "2. high": "185.8800",
//	      "3. low": "183.4300",
//	      "4. close": "184.2500",
//	      "5. volume": "58414460"
//	    },
//	    ...
//	  }
//	}
//
// When the quota is exhausted or the symbol is unknown the time series is
// missing and an "Information" (or "Note"/"Error Message") string explains why.
package alphavantage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/navid-fn/stockpipe/internal/models"

	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://www.alphavantage.co"

	dailyFunction   = "TIME_SERIES_DAILY"
	maxErrorBodyLen = 200
)

// Client issues TIME_SERIES_DAILY requests. One request per call, no retries.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *logrus.Entry
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a client for the given API key.
// The default HTTP client has no timeout; cancel the context to abort a request.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{},
		logger:     logrus.NewEntry(logrus.StandardLogger()),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithBaseURL points the client at another host (used by tests and proxies).
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Entry) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// FetchDaily downloads the daily time series of symbol.
//
// Errors:
//   - *ConnectionError when no response was received
//   - *HTTPError for non-2xx statuses
//   - *APIResponseError when the payload has no time series or is not valid JSON
func (c *Client) FetchDaily(ctx context.Context, symbol string) (models.RawSeries, error) {
	query := url.Values{}
	query.Set("function", dailyFunction)
	query.Set("symbol", symbol)
	query.Set("apikey", c.apiKey)
	fullURL := c.baseURL + "/query?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, &ConnectionError{Err: c.redact(err)}
	}
	req.Header.Set("Accept", "application/json")

	c.logger.WithField("symbol", symbol).Debug("Requesting daily time series")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ConnectionError{Err: c.redact(err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectionError{Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       truncate(string(body), maxErrorBodyLen),
		}
	}

	return parseDaily(body)
}

// parseDaily validates the payload and returns the time series in provider order.
func parseDaily(body []byte) (models.RawSeries, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &APIResponseError{Message: fmt.Sprintf("malformed response: %v", err)}
	}

	raw, ok := payload[TimeSeriesKey]
	if !ok {
		return nil, &APIResponseError{Message: diagnostic(payload)}
	}

	series, err := decodeSeries(raw)
	if err != nil {
		return nil, &APIResponseError{Message: fmt.Sprintf("malformed %q: %v", TimeSeriesKey, err)}
	}
	return series, nil
}

// diagnostic extracts the provider's explanation for a payload without data.
func diagnostic(payload map[string]json.RawMessage) string {
	for _, key := range diagnosticKeys {
		raw, ok := payload[key]
		if !ok {
			continue
		}
		var msg string
		if err := json.Unmarshal(raw, &msg); err == nil && msg != "" {
			return msg
		}
	}
	return fallbackMessage
}

// decodeSeries walks the time series object token by token so that the
// provider's key order survives; a map would lose it.
func decodeSeries(raw json.RawMessage) (models.RawSeries, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected an object, got %v", tok)
	}

	series := models.RawSeries{}
	position := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		date, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", tok)
		}

		var fields json.RawMessage
		if err := dec.Decode(&fields); err != nil {
			return nil, fmt.Errorf("value of %q: %w", date, err)
		}

		if i, seen := position[date]; seen {
			series[i].Fields = fields
			continue
		}
		position[date] = len(series)
		series = append(series, models.RawDay{Date: date, Fields: fields})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return series, nil
}

// redact strips the API key from URLs embedded in transport errors.
func (c *Client) redact(err error) error {
	var urlErr *url.Error
	if c.apiKey == "" || !errors.As(err, &urlErr) {
		return err
	}
	urlErr.URL = strings.ReplaceAll(urlErr.URL, url.QueryEscape(c.apiKey), "REDACTED")
	return err
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
