package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/life-lessons/api-go/models"
	"github.com/life-lessons/api-go/payments"
)

const checkoutUserIDKey = "userId"

// CheckoutConfig is the single premium product on sale.
type CheckoutConfig struct {
	ClientURL   string
	ProductName string
	UnitAmount  int64
	Currency    string
}

type PaymentService struct {
	provider payments.Provider
	users    *UserService
	cfg      CheckoutConfig
}

func NewPaymentService(provider payments.Provider, users *UserService, cfg CheckoutConfig) *PaymentService {
	cfg.ClientURL = strings.TrimRight(cfg.ClientURL, "/")
	return &PaymentService{provider: provider, users: users, cfg: cfg}
}

// StartCheckout opens a hosted checkout for the principal and returns the
// URL to redirect to.
func (s *PaymentService) StartCheckout(ctx context.Context, principal string) (string, error) {
	payer, err := s.users.GetByEmail(ctx, principal)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return "", fmt.Errorf("%w: no account for %s", models.ErrUnauthorized, principal)
		}
		return "", err
	}
	if payer.IsPremium {
		return "", fmt.Errorf("%w: account is already premium", models.ErrInvalidInput)
	}

	session, err := s.provider.CreateCheckoutSession(ctx, payments.CheckoutRequest{
		CustomerEmail: payer.Email,
		ProductName:   s.cfg.ProductName,
		UnitAmount:    s.cfg.UnitAmount,
		Currency:      s.cfg.Currency,
		SuccessURL:    s.cfg.ClientURL + "/payment/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:     s.cfg.ClientURL + "/payment/cancelled",
		Metadata:      map[string]string{checkoutUserIDKey: payer.ID},
	})
	if err != nil {
		return "", fmt.Errorf("start checkout: %w", err)
	}
	return session.URL, nil
}

// CompleteCheckout confirms a session with the provider and grants premium
// to the user recorded in its metadata. Replaying a session that was already
// applied returns the user unchanged.
func (s *PaymentService) CompleteCheckout(ctx context.Context, sessionID string) (*models.User, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session_id is required", models.ErrInvalidInput)
	}

	session, err := s.provider.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}
	if !session.Paid {
		return nil, models.ErrPaymentIncomplete
	}

	userID := session.Metadata[checkoutUserIDKey]
	if userID == "" {
		return nil, fmt.Errorf("%w: checkout session carries no user", models.ErrInvalidInput)
	}
	payer, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if payer.IsPremium && payer.PaymentSessionID == session.ID {
		return payer, nil
	}
	return s.users.MarkPremium(ctx, payer.Email, session.ID)
}
