package payment

import (
	"context"

	"github.com/oasistravel/booking/internal/domain"
	"github.com/shopspring/decimal"
)

// Request is the provider-agnostic payment request. Amounts are exact
// decimals; any minor-unit conversion a provider needs happens inside the
// variant and must not lose precision.
type Request struct {
	Amount   decimal.Decimal
	Currency string
	Metadata map[string]string
}

// Result is the normalized provider envelope. Reference is the provider's
// external identifier used later for confirmation callbacks; ClientPayload
// carries whatever the client needs to finish the flow (client secret,
// approval URL, hosted page URL).
type Result struct {
	Reference     string
	ClientPayload map[string]string
}

type Provider interface {
	Method() domain.PaymentMethod
	Process(ctx context.Context, req Request) (*Result, error)
}

// Registry dispatches on the payment method. Adding a provider means adding
// a variant here, not branching on method strings elsewhere.
type Registry struct {
	providers map[domain.PaymentMethod]Provider
}

func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{providers: make(map[domain.PaymentMethod]Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Method()] = p
	}
	return r
}

func (r *Registry) Get(method domain.PaymentMethod) (Provider, error) {
	p, ok := r.providers[method]
	if !ok {
		return nil, domain.ErrUnsupportedMethod
	}
	return p, nil
}
