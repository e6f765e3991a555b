// Package contact validates contact form submissions and relays them to an
// EmailJS-style HTTP endpoint.
package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/bodul/folio/internal/httpclient"
)

const (
	maxNameLen    = 200
	maxMessageLen = 5000
)

var (
	ErrConsentRequired = errors.New("consent is required")
	ErrInvalidMessage  = errors.New("invalid message")
	ErrNotConfigured   = errors.New("mail relay not configured")
)

// Message is one contact form submission.
type Message struct {
	Name    string
	Email   string
	Body    string
	Consent bool
	Locale  string
}

// Validate normalizes m in place and checks it. Consent is checked first.
func (m *Message) Validate() error {
	if !m.Consent {
		return ErrConsentRequired
	}
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Body = strings.TrimSpace(m.Body)

	switch {
	case m.Name == "" || len(m.Name) > maxNameLen:
		return fmt.Errorf("%w: name", ErrInvalidMessage)
	case m.Body == "" || len(m.Body) > maxMessageLen:
		return fmt.Errorf("%w: message", ErrInvalidMessage)
	}
	addr, err := mail.ParseAddress(m.Email)
	if err != nil || addr.Address != m.Email {
		return fmt.Errorf("%w: email", ErrInvalidMessage)
	}
	return nil
}

// Config identifies the relay account.
type Config struct {
	Endpoint   string
	ServiceID  string
	TemplateID string
	PublicKey  string
}

// Mailer posts validated messages to the relay. One attempt per message.
type Mailer struct {
	client *http.Client
	cfg    Config
}

func NewMailer(client *http.Client, cfg Config) *Mailer {
	return &Mailer{client: client, cfg: cfg}
}

// Enabled reports whether the relay has the identifiers it needs.
func (m *Mailer) Enabled() bool {
	return m != nil && m.cfg.Endpoint != "" && m.cfg.ServiceID != "" && m.cfg.TemplateID != "" && m.cfg.PublicKey != ""
}

type sendRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// Send validates msg and relays it.
func (m *Mailer) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	if !m.Enabled() {
		return ErrNotConfigured
	}

	payload, err := json.Marshal(sendRequest{
		ServiceID:  m.cfg.ServiceID,
		TemplateID: m.cfg.TemplateID,
		UserID:     m.cfg.PublicKey,
		TemplateParams: map[string]string{
			"from_name": msg.Name,
			"reply_to":  msg.Email,
			"message":   msg.Body,
			"locale":    msg.Locale,
		},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	if _, err := httpclient.DoAndRead(m.client, req); err != nil {
		return fmt.Errorf("send contact message: %w", err)
	}
	return nil
}
