package payment

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/napsterimports/backend/internal/domain/order"
	"github.com/napsterimports/backend/internal/domain/payment"
	"github.com/napsterimports/backend/internal/domain/shared"
	"github.com/napsterimports/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

var (
	// ErrAlreadyPaid means the requested part of the order is already paid
	ErrAlreadyPaid = shared.NewDomainError("ALREADY_PAID", "This part of the order is already paid")
	// ErrNothingToPay means the requested part of the order has no amount due
	ErrNothingToPay = shared.NewDomainError("NOTHING_TO_PAY", "Nothing is due for this payment type")
)

// CheckoutService starts hosted checkout sessions. It never mutates orders;
// payment state changes only arrive through the Reconciler.
type CheckoutService struct {
	orderRepo    order.OrderRepository
	provider     payment.Provider
	callbackURL  string
	redirectURL  string
	webhookToken string
	logger       *zap.Logger
}

// CheckoutServiceConfig holds dependencies for CheckoutService
type CheckoutServiceConfig struct {
	OrderRepo order.OrderRepository
	Provider  payment.Provider
	// CallbackURL is the public webhook URL the provider posts to
	CallbackURL string
	// RedirectURL is the storefront base the customer returns to
	RedirectURL string
	// WebhookToken is appended to CallbackURL as ?token= when set
	WebhookToken string
	Logger       *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(cfg CheckoutServiceConfig) *CheckoutService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		orderRepo:    cfg.OrderRepo,
		provider:     cfg.Provider,
		callbackURL:  cfg.CallbackURL,
		redirectURL:  cfg.RedirectURL,
		webhookToken: cfg.WebhookToken,
		logger:       logger,
	}
}

// Initiate computes the amount due for the requested payment type on the
// server and asks the provider for a checkout URL
func (s *CheckoutService) Initiate(ctx context.Context, req CheckoutRequest, customerID uuid.UUID) (*CheckoutResponse, error) {
	pt, err := order.ParsePaymentType(req.PaymentType)
	if err != nil {
		return nil, err
	}

	o, err := s.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if !o.IsOwnedBy(customerID) {
		return nil, shared.ErrForbidden
	}
	if o.IsSettledFor(pt) {
		return nil, ErrAlreadyPaid
	}
	amount := valueobject.Round2(o.AmountFor(pt))
	if !amount.IsPositive() {
		return nil, ErrNothingToPay
	}

	callback, err := s.callbackWithToken()
	if err != nil {
		return nil, err
	}
	checkout := payment.CheckoutRequest{
		OrderID:       o.ID,
		PaymentType:   pt,
		Amount:        amount,
		Currency:      string(valueobject.DefaultCurrency),
		CustomerEmail: req.Email,
		Description:   fmt.Sprintf("Order %s (%s payment)", o.ID, pt),
		RedirectURL:   s.redirectFor(o.ID),
		CallbackURL:   callback,
	}

	checkoutURL, err := s.provider.Initiate(ctx, checkout)
	if err != nil {
		s.logger.Error("Failed to initiate checkout",
			zap.String("order_id", o.ID.String()),
			zap.String("payment_type", string(pt)),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Checkout initiated",
		zap.String("order_id", o.ID.String()),
		zap.String("payment_type", string(pt)),
		zap.String("amount", amount.String()),
		zap.String("provider", s.provider.Name()))

	return &CheckoutResponse{
		CheckoutURL: checkoutURL,
		Reference:   checkout.Reference(),
		PaymentType: string(pt),
		Amount:      amount,
		Currency:    checkout.Currency,
	}, nil
}

func (s *CheckoutService) callbackWithToken() (string, error) {
	if s.webhookToken == "" {
		return s.callbackURL, nil
	}
	u, err := url.Parse(s.callbackURL)
	if err != nil {
		return "", fmt.Errorf("invalid payment callback url: %w", err)
	}
	q := u.Query()
	q.Set("token", s.webhookToken)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *CheckoutService) redirectFor(orderID uuid.UUID) string {
	if s.redirectURL == "" {
		return ""
	}
	return s.redirectURL + "/order/" + orderID.String()
}
