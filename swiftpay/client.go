package swiftpay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/perejack/canadaman/utils"
)

// ErrBadProviderResponse marks a SwiftPay reply that could not be
// interpreted at all (non-JSON body). Handlers translate it to 502.
var ErrBadProviderResponse = errors.New("invalid response from payment service")

// ProviderError carries a SwiftPay-reported rejection of a charge. The
// raw payload is preserved so the client sees what the provider said.
type ProviderError struct {
	Message string
	Payload map[string]interface{}
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "Payment initiation failed"
}

// STKPushResult is the outcome of an accepted STK push request.
type STKPushResult struct {
	CheckoutRequestID string
}

// VerifyResult is the normalized outcome of a verification-proxy query.
type VerifyResult struct {
	// Status is one of pending, success, failed, cancelled.
	Status string
}

// Gateway is the SwiftPay M-Pesa surface used by the payment handlers.
type Gateway interface {
	STKPush(ctx context.Context, phoneNumber string, amount float64) (*STKPushResult, error)
	VerifyPayment(ctx context.Context, checkoutID string) (*VerifyResult, error)
}

// Client talks to the SwiftPay backend and its M-Pesa verification
// proxy over HTTP.
type Client struct {
	APIKey      string
	TillID      string
	BackendURL  string
	ProxyURL    string
	ProxyAPIKey string
	HTTPClient  *http.Client
}

// NewClient builds a SwiftPay client with a bounded request timeout.
func NewClient(apiKey, tillID, backendURL, proxyURL, proxyAPIKey string) *Client {
	return &Client{
		APIKey:      apiKey,
		TillID:      tillID,
		BackendURL:  backendURL,
		ProxyURL:    proxyURL,
		ProxyAPIKey: proxyAPIKey,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

type stkPushRequest struct {
	PhoneNumber string  `json:"phone_number"`
	Amount      float64 `json:"amount"`
	TillID      string  `json:"till_id"`
}

// STKPush asks SwiftPay to prompt the subscriber's phone for an
// authorization. The provider reports acceptance of the push, not the
// final payment outcome; that arrives via webhook or verification.
func (c *Client) STKPush(ctx context.Context, phoneNumber string, amount float64) (*STKPushResult, error) {
	payload, err := json.Marshal(stkPushRequest{
		PhoneNumber: phoneNumber,
		Amount:      amount,
		TillID:      c.TillID,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BackendURL+"/api/mpesa/stk-push-api", bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	utils.GetLogger().Info("SwiftPay STK push response",
		zap.Int("status", resp.StatusCode),
		zap.ByteString("body", body))

	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, ErrBadProviderResponse
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	accepted := parsed["success"] == true || parsed["status"] == "success"
	if !ok || !accepted {
		msg, _ := parsed["message"].(string)
		return nil, &ProviderError{Message: msg, Payload: parsed}
	}

	return &STKPushResult{CheckoutRequestID: extractCheckoutID(parsed)}, nil
}

// extractCheckoutID digs the correlation id out of the provider reply.
// SwiftPay has shipped it under several keys; an empty result means the
// caller must fall back to a locally generated reference.
func extractCheckoutID(parsed map[string]interface{}) string {
	if data, ok := parsed["data"].(map[string]interface{}); ok {
		if id, ok := data["checkout_id"].(string); ok && id != "" {
			return id
		}
		if id, ok := data["request_id"].(string); ok && id != "" {
			return id
		}
	}
	if id, ok := parsed["CheckoutRequestID"].(string); ok && id != "" {
		return id
	}
	return ""
}

type verifyRequest struct {
	CheckoutID string `json:"checkoutId"`
	APIKey     string `json:"apiKey"`
}

type verifyResponse struct {
	Success bool `json:"success"`
	Payment struct {
		Status string `json:"status"`
	} `json:"payment"`
}

// VerifyPayment queries the M-Pesa verification proxy for the final
// status of an initiated charge. Transport failures are retried once.
func (c *Client) VerifyPayment(ctx context.Context, checkoutID string) (*VerifyResult, error) {
	result, err := c.verifyOnce(ctx, checkoutID)
	if err != nil && ctx.Err() == nil {
		utils.GetLogger().Warn("Verification proxy call failed, retrying once",
			zap.String("checkout_id", checkoutID), zap.Error(err))
		result, err = c.verifyOnce(ctx, checkoutID)
	}
	return result, err
}

func (c *Client) verifyOnce(ctx context.Context, checkoutID string) (*VerifyResult, error) {
	payload, err := json.Marshal(verifyRequest{CheckoutID: checkoutID, APIKey: c.ProxyAPIKey})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.ProxyURL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("verification proxy returned status %d", resp.StatusCode)
	}

	var parsed verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	status := parsed.Payment.Status
	switch status {
	case "success":
		// The proxy also sets success=true on confirmed payments; a
		// success status without it is treated as still pending.
		if !parsed.Success {
			status = "pending"
		}
	case "failed", "cancelled":
	default:
		status = "pending"
	}

	return &VerifyResult{Status: status}, nil
}
