package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/frostcart/frostcart-api/internal/dto"
)

var ErrInvalidAmount = errors.New("invalid payment amount")

// PaymentIntentCreator is the slice of the Stripe API the service needs;
// tests substitute a stub.
type PaymentIntentCreator interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string) (clientSecret string, err error)
}

type stripeIntentCreator struct {
	api *client.API
}

func NewStripeIntentCreator(secretKey string) PaymentIntentCreator {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &stripeIntentCreator{api: api}
}

func (c *stripeIntentCreator) CreateIntent(_ context.Context, amountMinor int64, currency string) (string, error) {
	pi, err := c.api.PaymentIntents.New(&stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	})
	if err != nil {
		return "", err
	}
	return pi.ClientSecret, nil
}

type PaymentService struct {
	creator        PaymentIntentCreator
	publishableKey string
	currency       string
}

func NewPaymentService(creator PaymentIntentCreator, publishableKey, currency string) *PaymentService {
	return &PaymentService{creator: creator, publishableKey: publishableKey, currency: currency}
}

func (s *PaymentService) PublishableKey() string { return s.publishableKey }

// Process creates a payment intent for the given major-unit amount.
func (s *PaymentService) Process(ctx context.Context, req dto.ProcessPaymentRequest) (*dto.ProcessPaymentResponse, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	minor := req.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	secret, err := s.creator.CreateIntent(ctx, minor, s.currency)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return &dto.ProcessPaymentResponse{ClientSecret: secret}, nil
}
