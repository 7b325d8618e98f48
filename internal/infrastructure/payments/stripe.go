package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"

	"github.com/handyhub/marketplace-system/internal/core/domain"
	"github.com/handyhub/marketplace-system/internal/core/ports"
)

const minorUnitsPerDollar = 100

// StripeProcessor implements ports.PaymentProcessor against the Stripe API.
// Request prices are whole dollars everywhere else in the system; Stripe
// bills in minor units, and the conversion happens only here.
type StripeProcessor struct {
	api      *client.API
	currency string
}

// NewStripeProcessor creates a processor bound to the given secret key.
// Currency defaults to usd.
func NewStripeProcessor(secretKey, currency string) *StripeProcessor {
	api := &client.API{}
	api.Init(secretKey, nil)
	if currency == "" {
		currency = "usd"
	}
	return &StripeProcessor{api: api, currency: currency}
}

// CreateIntent registers a payment intent and returns Stripe's intent id plus
// the client-side confirmation secret.
func (p *StripeProcessor) CreateIntent(ctx context.Context, amountDollars int64, metadata map[string]string) (string, string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(dollarsToMinor(amountDollars)),
		Currency: stripe.String(p.currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return "", "", fmt.Errorf("stripe create intent: %w (%v)", domain.ErrUpstream, err)
	}
	return pi.ID, pi.ClientSecret, nil
}

// RetrieveStatus fetches the intent's current state from Stripe.
func (p *StripeProcessor) RetrieveStatus(ctx context.Context, ref string) (ports.ProcessorStatus, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := p.api.PaymentIntents.Get(ref, params)
	if err != nil {
		return "", fmt.Errorf("stripe retrieve intent: %w (%v)", domain.ErrUpstream, err)
	}
	return mapIntentStatus(pi.Status), nil
}

func dollarsToMinor(dollars int64) int64 {
	return dollars * minorUnitsPerDollar
}

// mapIntentStatus collapses Stripe's intent states to the three outcomes the
// payment service acts on. Every non-terminal state reads as pending.
func mapIntentStatus(s stripe.PaymentIntentStatus) ports.ProcessorStatus {
	switch s {
	case stripe.PaymentIntentStatusSucceeded:
		return ports.ProcessorSucceeded
	case stripe.PaymentIntentStatusCanceled:
		return ports.ProcessorCanceled
	default:
		return ports.ProcessorPending
	}
}
