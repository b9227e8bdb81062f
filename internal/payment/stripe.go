package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/oasistravel/booking/config"
	"github.com/oasistravel/booking/internal/domain"
	"github.com/shopspring/decimal"
)

// StripeProvider creates a PaymentIntent. Stripe bills in the smallest
// currency unit (fils for AED), so the decimal amount is scaled by 100 and
// rejected if anything would be lost in the scaling.
type StripeProvider struct {
	cfg    config.StripeConfig
	client *http.Client
}

func NewStripeProvider(cfg config.StripeConfig, client *http.Client) *StripeProvider {
	return &StripeProvider{cfg: cfg, client: client}
}

func (p *StripeProvider) Method() domain.PaymentMethod {
	return domain.PaymentMethodStripe
}

func (p *StripeProvider) Process(ctx context.Context, req Request) (*Result, error) {
	minor := req.Amount.Mul(decimal.NewFromInt(100))
	if !minor.IsInteger() {
		return nil, fmt.Errorf("amount %s does not convert exactly to minor units", req.Amount)
	}

	form := url.Values{}
	form.Set("amount", minor.String())
	form.Set("currency", strings.ToLower(req.Currency))
	form.Set("automatic_payment_methods[enabled]", "true")
	for k, v := range req.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.SecretKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	// One key per attempt; retries create a new payment row and a new key.
	httpReq.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("stripe request failed: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		ID           string `json:"id"`
		ClientSecret string `json:"client_secret"`
		Status       string `json:"status"`
		Error        struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("stripe response decode failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if body.Error.Message != "" {
			return nil, fmt.Errorf("stripe: %s", body.Error.Message)
		}
		return nil, fmt.Errorf("stripe: payment intent creation failed with status %d", resp.StatusCode)
	}

	return &Result{
		Reference: body.ID,
		ClientPayload: map[string]string{
			"client_secret": body.ClientSecret,
		},
	}, nil
}

var _ Provider = (*StripeProvider)(nil)
