package bitrue

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"arby/internal/types"
)

// DefaultRESTBase is Bitrue's production REST host.
const DefaultRESTBase = "https://openapi.bitrue.com"

// Client submits orders to Bitrue's signed REST endpoint.
type Client struct {
	apiKey     string
	secretKey  string
	baseURL    string
	pair       string // venue symbol, e.g. "chatusdt"
	httpClient *http.Client
}

// NewClient returns a Client for pair, authenticated with apiKey/secretKey.
func NewClient(baseURL, apiKey, secretKey, pair string) *Client {
	return &Client{
		apiKey:    apiKey,
		secretKey: secretKey,
		baseURL:   baseURL,
		pair:      pair,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type orderResponse struct {
	Code    json.Number `json:"code"`
	Msg     string      `json:"msg"`
	OrderID json.Number `json:"orderId"`
}

// Submit signs and POSTs an order to /api/v1/order. A non-zero response
// code surfaces as an error; the venue order id is returned as a string.
func (c *Client) Submit(ctx context.Context, order types.PendingOrder) (string, error) {
	params := url.Values{}
	params.Set("symbol", strings.ToUpper(c.pair))
	params.Set("quantity", order.Amount.String())
	params.Set("side", sideOf(order.Direction))
	params.Set("timestamp", strconv.FormatInt(time.Now().UnixMilli(), 10))

	if order.Kind == types.KindLimit {
		params.Set("type", "LIMIT")
		params.Set("price", order.Price.String())
	} else {
		params.Set("type", "MARKET")
	}

	queryString := canonicalQuery(params)
	signature := c.sign(queryString)
	queryString += "&signature=" + signature

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/order", strings.NewReader(queryString))
	if err != nil {
		return "", fmt.Errorf("bitrue: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-MBX-APIKEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("bitrue: submitting order: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("bitrue: reading response: %w", err)
	}

	var parsed orderResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("bitrue: decoding response: %w", err)
	}

	if parsed.Code != "" && parsed.Code != "0" {
		return "", fmt.Errorf("bitrue: order rejected, code %s: %s", parsed.Code, parsed.Msg)
	}
	if parsed.OrderID == "" {
		return "", errors.New("bitrue: order accepted without an order id")
	}

	return parsed.OrderID.String(), nil
}

// sign returns the hex HMAC-SHA256 of query under the account secret,
// matching the source's signedRequest idiom exactly.
func (c *Client) sign(query string) string {
	h := hmac.New(sha256.New, []byte(c.secretKey))
	h.Write([]byte(query))
	return hex.EncodeToString(h.Sum(nil))
}

func sideOf(d types.Direction) string {
	if d == types.Buy {
		return "BUY"
	}
	return "SELL"
}

// canonicalQuery renders params key-sorted, "&"-joined, matching the
// signature scheme both venues document.
func canonicalQuery(params url.Values) string {
	return params.Encode() // url.Values.Encode already sorts keys
}
