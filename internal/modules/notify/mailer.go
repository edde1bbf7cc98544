// Package notify delivers transactional mail. Delivery is best-effort:
// callers log failures but never fail an operation because a message
// could not be sent.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Mailer is the provider-agnostic interface every mail adapter must
// implement. To add a new provider (e.g., SES, SendGrid), implement
// this interface.
type Mailer interface {
	// SendOTP delivers a one-time login code to the given address.
	SendOTP(ctx context.Context, email, code string) error
}

// ── EmailJS adapter ───────────────────────────────────────────────────────────

const emailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

type emailJSMailer struct {
	serviceID   string
	templateID  string
	publicKey   string
	accessToken string
	client      *http.Client
}

// NewEmailJSMailer creates a Mailer backed by the EmailJS REST API.
func NewEmailJSMailer(serviceID, templateID, publicKey, accessToken string) Mailer {
	return &emailJSMailer{
		serviceID:   serviceID,
		templateID:  templateID,
		publicKey:   publicKey,
		accessToken: accessToken,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (m *emailJSMailer) SendOTP(ctx context.Context, email, code string) error {
	name := email
	if i := strings.Index(email, "@"); i > 0 {
		name = email[:i]
	}

	payload := map[string]interface{}{
		"service_id":  m.serviceID,
		"template_id": m.templateID,
		"user_id":     m.publicKey,
		"accessToken": m.accessToken,
		"template_params": map[string]string{
			"name":  name,
			"otp":   code,
			"email": email,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, emailJSEndpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send otp email: %s: %s", resp.Status, detail)
	}
	return nil
}

// ── Log adapter ───────────────────────────────────────────────────────────────

type logMailer struct{}

// NewLogMailer creates a Mailer that only logs codes. Used when no mail
// provider is configured, e.g. in local development.
func NewLogMailer() Mailer { return &logMailer{} }

func (m *logMailer) SendOTP(_ context.Context, email, code string) error {
	log.Printf("mail disabled: OTP for %s is %s", email, code)
	return nil
}
