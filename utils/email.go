package utils

import (
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mailer sends best-effort notification emails over SMTP. Failures are
// logged and never surfaced to request handlers.
type Mailer struct {
	Host   string
	User   string
	Pass   string
	Sender string
}

func (m Mailer) send(to, subject, body string) {
	if m.Host == "" || m.Sender == "" {
		GetLogger().Debug("SMTP not configured, skipping email", zap.String("to", to))
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.Sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.Host, 465, m.User, m.Pass)

	if err := d.DialAndSend(msg); err != nil {
		GetLogger().Warn("Failed to send email", zap.String("to", to), zap.Error(err))
		return
	}

	GetLogger().Info("Email sent", zap.String("to", to), zap.String("subject", subject))
}

// SendApplicationReceivedEmail confirms a submitted job application.
func (m Mailer) SendApplicationReceivedEmail(email, fullName, jobTitle string) {
	body := fmt.Sprintf("Hello %s,\n\nWe have received your application", fullName)
	if jobTitle != "" {
		body += " for " + jobTitle
	}
	body += ". You will be contacted once the activation fee payment is confirmed.\n"
	m.send(email, "Application received", body)
}

// SendPaymentReceiptEmail confirms a successful activation-fee payment.
func (m Mailer) SendPaymentReceiptEmail(email string, amount float64, reference string) {
	body := fmt.Sprintf("Your payment of KES %.2f was received.\nReference: %s\n", amount, reference)
	m.send(email, "Payment confirmed", body)
}
