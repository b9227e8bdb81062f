package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/oasistravel/booking/config"
)

type SMSSender interface {
	Send(ctx context.Context, to, body string) error
}

// TwilioSender posts to the Twilio Messages endpoint with basic auth.
type TwilioSender struct {
	cfg    config.SMSConfig
	client *http.Client
}

func NewTwilioSender(cfg config.SMSConfig, client *http.Client) *TwilioSender {
	return &TwilioSender{cfg: cfg, client: client}
}

func (s *TwilioSender) Send(ctx context.Context, to, body string) error {
	form := url.Values{}
	form.Set("To", to)
	form.Set("From", s.cfg.FromNumber)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.cfg.BaseURL, s.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("sms send to %s failed: %w", to, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms send to %s failed with status %d", to, resp.StatusCode)
	}
	return nil
}

var _ SMSSender = (*TwilioSender)(nil)
