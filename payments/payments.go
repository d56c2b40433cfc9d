// Package payments talks to the hosted checkout provider.
package payments

import "context"

// CheckoutRequest describes a one-off purchase of a single product.
type CheckoutRequest struct {
	CustomerEmail string
	ProductName   string
	UnitAmount    int64 // smallest currency unit
	Currency      string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// CheckoutSession is the provider's view of a checkout.
type CheckoutSession struct {
	ID            string
	URL           string
	Paid          bool
	CustomerEmail string
	Metadata      map[string]string
}

type Provider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error)
}
