package lbank

import (
	"context"
	"crypto/hmac"
	"crypto/md5"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"arby/internal/types"
)

// DefaultRESTBase is LBank's production REST host.
const DefaultRESTBase = "https://www.lbkex.net"

// Client submits orders to LBank's signed REST endpoint.
type Client struct {
	apiKey     string
	secretKey  string
	baseURL    string
	pair       string // venue symbol, e.g. "chat_usdt"
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

// Submit signs and POSTs an order to /v2/supplement/create_order.do.
func (c *Client) Submit(ctx context.Context, order types.PendingOrder) (string, error) {
	params := map[string]string{
		"symbol": c.pair,
		"amount": order.Amount.String(),
		"type":   orderType(order),
	}
	if order.Kind == types.KindLimit {
		params["price"] = order.Price.String()
	}

	params["api_key"] = c.apiKey
	params["echostr"] = generateEchostr()
	params["signature_method"] = "HmacSHA256"
	params["timestamp"] = strconv.FormatInt(time.Now().UnixMilli(), 10)

	query := canonicalQuery(params)
	signature := c.sign(query)
	query += "&sign=" + signature

	url := c.baseURL + "/v2/supplement/create_order.do?" + query
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return "", fmt.Errorf("lbank: building request: %w", err)
	}
	req.Header.Set("contentType", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("lbank: submitting order: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("lbank: reading response: %w", err)
	}

	var parsed orderResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("lbank: decoding response: %w", err)
	}

	if parsed.Code != "" && parsed.Code != "0" {
		return "", fmt.Errorf("lbank: order rejected, code %s: %s", parsed.Code, parsed.Msg)
	}
	if parsed.OrderID == "" {
		return "", errors.New("lbank: order accepted without an order id")
	}

	return parsed.OrderID.String(), nil
}

// sign reproduces the source's get_signature: uppercase-hex MD5 of the
// canonical query, then hex HMAC-SHA256 of that string under the secret.
func (c *Client) sign(query string) string {
	sum := md5.Sum([]byte(query))
	upperHex := strings.ToUpper(hex.EncodeToString(sum[:]))

	h := hmac.New(sha256.New, []byte(c.secretKey))
	h.Write([]byte(upperHex))
	return hex.EncodeToString(h.Sum(nil))
}

func orderType(order types.PendingOrder) string {
	buy := order.Direction == types.Buy
	if order.Kind == types.KindLimit {
		if buy {
			return "buy_maker"
		}
		return "sell_maker"
	}
	if buy {
		return "buy_market"
	}
	return "sell_market"
}

// canonicalQuery renders params key-sorted as "&"-joined key=value pairs.
func canonicalQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}

func generateEchostr() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand.Read failing means the OS entropy source is broken;
		// nothing downstream can recover from that either.
		panic(fmt.Sprintf("lbank: reading random bytes: %v", err))
	}
	return hex.EncodeToString(buf)
}
