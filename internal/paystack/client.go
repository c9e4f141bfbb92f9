package paystack

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultBaseURL = "https://api.paystack.co"

// Client is a thin wrapper over the Paystack transaction API. Amounts
// cross this boundary in whole currency units and are converted to the
// minor unit (kobo) on the wire.
type Client struct {
	secretKey string
	baseURL   string
	http      *http.Client
}

func NewClient(secretKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		secretKey: secretKey,
		baseURL:   baseURL,
		http:      &http.Client{Timeout: timeout},
	}
}

type InitializeRequest struct {
	Amount    int64
	Email     string
	Reference string
	Metadata  map[string]string
}

type InitializeResult struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type VerifyResult struct {
	TransactionID int64  `json:"id"`
	Status        string `json:"status"`
	Amount        int64  `json:"amount"`
	PaidAt        string `json:"paid_at"`
}

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	payload := map[string]interface{}{
		"amount":    req.Amount * 100,
		"email":     req.Email,
		"reference": req.Reference,
		"metadata":  req.Metadata,
	}
	var out InitializeResult
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	var out VerifyResult
	if err := c.do(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyWebhookSignature checks the HMAC-SHA512 hex digest of the raw
// request body against the header-supplied signature in constant time.
func (c *Client) VerifyWebhookSignature(signature string, body []byte) bool {
	mac := hmac.New(sha512.New, []byte(c.secretKey))
	mac.Write(body)
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(mac.Sum(nil), expected)
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("paystack %s %s: status %d: %s", method, path, resp.StatusCode, truncate(raw, 256))
	}

	var env apiEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("paystack %s %s: decode response: %w", method, path, err)
	}
	if !env.Status {
		return fmt.Errorf("paystack %s %s: %s", method, path, env.Message)
	}
	return json.Unmarshal(env.Data, out)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
