package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/oasistravel/booking/config"
	"github.com/oasistravel/booking/internal/domain"
)

// PayTabsProvider requests a hosted payment page. The customer finishes the
// flow on PayTabs' side; tran_ref comes back on the confirmation callback.
type PayTabsProvider struct {
	cfg    config.PayTabsConfig
	client *http.Client
}

func NewPayTabsProvider(cfg config.PayTabsConfig, client *http.Client) *PayTabsProvider {
	return &PayTabsProvider{cfg: cfg, client: client}
}

func (p *PayTabsProvider) Method() domain.PaymentMethod {
	return domain.PaymentMethodPayTabs
}

func (p *PayTabsProvider) Process(ctx context.Context, req Request) (*Result, error) {
	payload := map[string]any{
		"profile_id":       p.cfg.MerchantID,
		"tran_type":        "sale",
		"tran_class":       "ecom",
		"cart_id":          req.Metadata["booking_reference"],
		"cart_description": "Travel package booking",
		"cart_currency":    req.Currency,
		"cart_amount":      req.Amount.StringFixed(2),
		"customer_email":   req.Metadata["email"],
		"return":           p.cfg.ReturnURL,
		"callback":         p.cfg.CallbackURL,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/payment/request", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", p.cfg.SecretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("paytabs request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("paytabs: payment page creation failed with status %d", resp.StatusCode)
	}

	var result struct {
		RedirectURL string `json:"redirect_url"`
		TranRef     string `json:"tran_ref"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("paytabs response decode failed: %w", err)
	}
	if result.TranRef == "" {
		return nil, fmt.Errorf("paytabs: response carries no transaction reference")
	}

	return &Result{
		Reference: result.TranRef,
		ClientPayload: map[string]string{
			"payment_url": result.RedirectURL,
		},
	}, nil
}

var _ Provider = (*PayTabsProvider)(nil)
