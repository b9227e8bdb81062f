package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/oasistravel/booking/config"
	"github.com/oasistravel/booking/internal/domain"
)

// PayPalProvider creates a checkout order and hands the approval URL back to
// the client. Tokens are requested per call; PayPal's client-credentials
// grant is cheap and keeps the provider stateless.
type PayPalProvider struct {
	cfg    config.PayPalConfig
	client *http.Client
}

func NewPayPalProvider(cfg config.PayPalConfig, client *http.Client) *PayPalProvider {
	return &PayPalProvider{cfg: cfg, client: client}
}

func (p *PayPalProvider) Method() domain.PaymentMethod {
	return domain.PaymentMethodPayPal
}

func (p *PayPalProvider) Process(ctx context.Context, req Request) (*Result, error) {
	token, err := p.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	order := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []map[string]any{{
			"amount": map[string]string{
				"currency_code": req.Currency,
				"value":         req.Amount.StringFixed(2),
			},
		}},
		"application_context": map[string]string{
			"return_url": p.cfg.ReturnURL,
			"cancel_url": p.cfg.CancelURL,
		},
	}
	payload, err := json.Marshal(order)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/v2/checkout/orders", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("PayPal-Request-Id", uuid.NewString())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("paypal request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("paypal: order creation failed with status %d", resp.StatusCode)
	}

	var body struct {
		ID    string `json:"id"`
		Links []struct {
			Href string `json:"href"`
			Rel  string `json:"rel"`
		} `json:"links"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("paypal response decode failed: %w", err)
	}

	approvalURL := ""
	for _, link := range body.Links {
		if link.Rel == "approve" {
			approvalURL = link.Href
			break
		}
	}
	if approvalURL == "" {
		return nil, fmt.Errorf("paypal: order %s has no approval link", body.ID)
	}

	return &Result{
		Reference: body.ID,
		ClientPayload: map[string]string{
			"approval_url": approvalURL,
		},
	}, nil
}

func (p *PayPalProvider) accessToken(ctx context.Context) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/v1/oauth2/token", strings.NewReader("grant_type=client_credentials"))
	if err != nil {
		return "", err
	}
	httpReq.SetBasicAuth(p.cfg.ClientID, p.cfg.ClientSecret)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("paypal auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal: authentication failed with status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("paypal token decode failed: %w", err)
	}
	return body.AccessToken, nil
}

var _ Provider = (*PayPalProvider)(nil)
