package notification

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
)

// Notifier raises operational alerts. Delivery beyond the webhook endpoint is
// someone else's problem.
type Notifier interface {
	DuplicatePhoneAlert(phone string)
}

// Webhook posts alerts to a configured URL, fire-and-forget.
type Webhook struct {
	URL string
}

func NewWebhook(url string) *Webhook {
	return &Webhook{URL: url}
}

func (wh *Webhook) DuplicatePhoneAlert(phone string) {
	if wh.URL == "" {
		return
	}
	payload := map[string]string{
		"message": "alert: new lead created with an already registered phone",
		"phone":   phone,
	}
	body, _ := json.Marshal(payload)

	resp, err := http.Post(wh.URL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		log.Printf("failed to send webhook: %v", err)
		return
	}
	defer resp.Body.Close()
}
