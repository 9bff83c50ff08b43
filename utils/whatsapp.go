package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// WatiMessage represents the structure of a message to send via Wati API
type WatiMessage struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// WatiNotifier sends best-effort WhatsApp confirmations through the
// Wati session-message API.
type WatiNotifier struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// SendPaymentConfirmation tells the payer their M-Pesa payment went
// through. Failures are logged only; payment reconciliation never
// depends on this delivery.
func (w WatiNotifier) SendPaymentConfirmation(phoneNumber string, amount float64) {
	if w.BaseURL == "" || w.APIKey == "" {
		return
	}

	message := WatiMessage{
		Phone:   phoneNumber,
		Message: fmt.Sprintf("Your payment of KES %.2f has been confirmed. Thank you!", amount),
	}

	messageJSON, err := json.Marshal(message)
	if err != nil {
		GetLogger().Warn("Failed to marshal WhatsApp message", zap.Error(err))
		return
	}

	req, err := http.NewRequest("POST", w.BaseURL+"/api/v1/sendSessionMessage", bytes.NewBuffer(messageJSON))
	if err != nil {
		GetLogger().Warn("Failed to create Wati API request", zap.Error(err))
		return
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+w.APIKey)

	client := w.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		GetLogger().Warn("Failed to send WhatsApp confirmation", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		GetLogger().Warn("WhatsApp confirmation rejected", zap.Int("status", resp.StatusCode))
	}
}
