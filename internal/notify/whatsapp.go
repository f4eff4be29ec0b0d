package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"atelier/internal/logs"
	"atelier/internal/models"
)

// WhatsAppSender posts template messages to the WhatsApp Cloud API. Send
// failures are logged and dropped; nothing here retries and no caller
// treats a failed notification as fatal.
type WhatsAppSender struct {
	apiURL        string
	phoneNumberID string
	accessToken   string
	templateName  string
	client        *http.Client
}

func NewWhatsAppSender(apiURL, phoneNumberID, accessToken, templateName string) *WhatsAppSender {
	return &WhatsAppSender{
		apiURL:        strings.TrimRight(apiURL, "/"),
		phoneNumberID: phoneNumberID,
		accessToken:   accessToken,
		templateName:  templateName,
		client:        &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether the sender has credentials to work with.
func (s *WhatsAppSender) Configured() bool {
	return s.accessToken != "" && s.phoneNumberID != "" && s.apiURL != ""
}

type templateParam struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type templateComponent struct {
	Type       string          `json:"type"`
	Parameters []templateParam `json:"parameters"`
}

type templatePayload struct {
	Name       string              `json:"name"`
	Language   map[string]string   `json:"language"`
	Components []templateComponent `json:"components"`
}

type messageRequest struct {
	MessagingProduct string          `json:"messaging_product"`
	To               string          `json:"to"`
	Type             string          `json:"type"`
	Template         templatePayload `json:"template"`
}

// SendOrderCompletion notifies the client that their order is ready for
// pickup. Returns the recipient phone in E.164 form so the caller can
// record the notification.
func (s *WhatsAppSender) SendOrderCompletion(ctx context.Context, o *models.Order) (string, error) {
	if o.Client == nil || strings.TrimSpace(o.Client.Phone) == "" {
		return "", fmt.Errorf("order %d has no client phone number", o.ID)
	}

	phone := FormatPhone(o.Client.Phone)
	clientName := o.Client.Name + " " + o.Client.Surname

	names := make([]string, 0, len(o.Devices))
	for i := range o.Devices {
		names = append(names, o.Devices[i].Brand+" "+o.Devices[i].Model)
	}

	req := messageRequest{
		MessagingProduct: "whatsapp",
		To:               phone,
		Type:             "template",
		Template: templatePayload{
			Name:     s.templateName,
			Language: map[string]string{"code": "ro"},
			Components: []templateComponent{{
				Type: "body",
				Parameters: []templateParam{
					{Type: "text", Text: clientName},
					{Type: "text", Text: fmt.Sprintf("%d", o.ID)},
					{Type: "text", Text: strings.Join(names, ", ")},
				},
			}},
		},
	}

	if err := s.post(ctx, req); err != nil {
		return "", err
	}
	logs.Logger.Infof("whatsapp notification sent for order %d to %s", o.ID, phone)
	return phone, nil
}

func (s *WhatsAppSender) post(ctx context.Context, payload messageRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/%s/messages", s.apiURL, s.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("whatsapp api status %d: %s", resp.StatusCode, string(b))
	}
	return nil
}

// FormatPhone normalizes a phone number to E.164, assuming Romanian numbers
// when no country code is present.
func FormatPhone(phone string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')':
			return -1
		}
		return r
	}, phone)

	if strings.HasPrefix(cleaned, "+") {
		return cleaned
	}
	switch {
	case strings.HasPrefix(cleaned, "0"):
		return "+40" + cleaned[1:]
	case strings.HasPrefix(cleaned, "40"):
		return "+" + cleaned
	default:
		return "+40" + cleaned
	}
}
