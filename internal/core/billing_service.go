package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
	"github.com/stripe/stripe-go/v74/webhook"

	"incorpora-backend-go/internal/mailer"
	"incorpora-backend-go/internal/models"
)

var (
	// ErrWebhookSignature is returned when webhook signature verification
	// fails; the request is rejected without side effects.
	ErrWebhookSignature = errors.New("stripe webhook signature verification failed")
	// ErrPaymentNotCompleted is returned when a session is confirmed
	// before its payment has actually been collected.
	ErrPaymentNotCompleted = errors.New("checkout session is not paid")
	// ErrSessionMetadata is returned when a session lacks the metadata
	// needed to recover the registration.
	ErrSessionMetadata = errors.New("checkout session metadata is incomplete")
)

// Session metadata keys. The registration payload is embedded so that
// both confirmation paths can recover it without a separate lookup.
const (
	metadataUserID       = "userId"
	metadataBusinessID   = "businessId"
	metadataRegistration = "registration"
)

const checkoutCurrency = "usd"

// billingService implements BillingService using Stripe hosted checkout.
type billingService struct {
	sc            *client.API
	webhookSecret string
	clientURL     string
	business      BusinessService
	wizard        WizardService
	mail          *mailer.Mailer
}

// NewBillingService creates a BillingService backed by the Stripe API.
func NewBillingService(secretKey, webhookSecret, clientURL string, business BusinessService, wizard WizardService, mail *mailer.Mailer) (BillingService, error) {
	if secretKey == "" || webhookSecret == "" {
		return nil, errors.New("stripe secret key and webhook secret are required for BillingService")
	}
	if business == nil || wizard == nil {
		return nil, errors.New("BusinessService and WizardService are required for BillingService")
	}

	var sc client.API
	sc.Init(secretKey, nil)

	return &billingService{
		sc:            &sc,
		webhookSecret: webhookSecret,
		clientURL:     clientURL,
		business:      business,
		wizard:        wizard,
		mail:          mail,
	}, nil
}

// CreateCheckoutSession starts a hosted checkout for the caller's
// in-progress registration. The registration must pass the review check
// first; the draft business ID and the serialized registration are
// embedded as session metadata.
func (s *billingService) CreateCheckoutSession(ctx context.Context, userID, email string, req models.CreateCheckoutSessionRequest) (string, string, error) {
	session, missing, err := s.wizard.Review(ctx, userID)
	if err != nil {
		return "", "", fmt.Errorf("failed to load registration of user '%s': %w", userID, err)
	}
	if len(missing) > 0 {
		return "", "", newValidationError("Registration is incomplete, missing: %s", strings.Join(missing, ", "))
	}

	amountCents := session.Form.Package.Price * 100

	businessID := req.BusinessID
	if businessID == "" {
		businessID = session.BusinessID
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(checkoutCurrency),
					UnitAmount: stripe.Int64(amountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Business Registration - " + session.Form.Package.Name),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.clientURL + "/register/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(s.clientURL + "/register"),
	}
	if email != "" {
		params.CustomerEmail = stripe.String(email)
	}
	params.AddMetadata(metadataUserID, userID)
	if businessID != "" {
		params.AddMetadata(metadataBusinessID, businessID)
	} else {
		// No draft record exists; embed the registration itself so the
		// confirmation paths can persist it from the session alone.
		registrationJSON, err := json.Marshal(BusinessFromForm(&session.Form))
		if err != nil {
			return "", "", fmt.Errorf("failed to serialize registration of user '%s': %w", userID, err)
		}
		params.AddMetadata(metadataRegistration, string(registrationJSON))
	}

	checkoutSession, err := s.sc.CheckoutSessions.New(params)
	if err != nil {
		return "", "", fmt.Errorf("failed to create checkout session for user '%s': %w", userID, err)
	}
	return checkoutSession.ID, checkoutSession.URL, nil
}

// ConfirmPayment verifies a checkout session from the client return page
// and persists the business. Safe to call any number of times per session.
func (s *billingService) ConfirmPayment(ctx context.Context, sessionID string) (*models.PaymentConfirmation, error) {
	if sessionID == "" {
		return nil, newValidationError("Session ID is required")
	}
	checkoutSession, err := s.sc.CheckoutSessions.Get(sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch checkout session '%s': %w", sessionID, err)
	}
	return s.finalizeSession(ctx, checkoutSession)
}

// HandleWebhook verifies the provider signature and processes the event.
// Per the webhook contract, internal save failures after a valid
// signature are logged but still acknowledged, so only signature errors
// propagate.
func (s *billingService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWebhookSignature, err)
	}

	switch event.Type {
	case "checkout.session.completed":
		var checkoutSession stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &checkoutSession); err != nil {
			log.Printf("BillingService: failed to decode checkout.session.completed payload: %v", err)
			return nil
		}
		if _, err := s.finalizeSession(ctx, &checkoutSession); err != nil {
			log.Printf("BillingService: failed to persist business for session %s from webhook: %v", checkoutSession.ID, err)
		}
	default:
		// Other event types are not actionable for this application.
	}
	return nil
}

// finalizeSession persists the business behind a paid checkout session and
// tears down the wizard. It is the shared idempotent core of both
// confirmation paths.
func (s *billingService) finalizeSession(ctx context.Context, checkoutSession *stripe.CheckoutSession) (*models.PaymentConfirmation, error) {
	if checkoutSession.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return nil, fmt.Errorf("%w: session '%s' has payment status %q", ErrPaymentNotCompleted, checkoutSession.ID, checkoutSession.PaymentStatus)
	}

	userID := checkoutSession.Metadata[metadataUserID]
	if userID == "" {
		return nil, fmt.Errorf("%w: session '%s' carries no user ID", ErrSessionMetadata, checkoutSession.ID)
	}

	paymentIntentID := ""
	if checkoutSession.PaymentIntent != nil {
		paymentIntentID = checkoutSession.PaymentIntent.ID
	}
	details := &models.PaymentDetails{
		Amount:                checkoutSession.AmountTotal,
		Currency:              strings.ToUpper(string(checkoutSession.Currency)),
		PaymentMethod:         "card",
		Status:                "succeeded",
		StripePaymentIntentID: paymentIntentID,
		CreatedAt:             time.Now().UTC(),
	}

	businessID := checkoutSession.Metadata[metadataBusinessID]
	if businessID != "" {
		if err := s.business.Finalize(ctx, userID, businessID, details); err != nil {
			return nil, err
		}
	} else {
		registrationJSON := checkoutSession.Metadata[metadataRegistration]
		if registrationJSON == "" {
			return nil, fmt.Errorf("%w: session '%s' carries neither a business ID nor a registration", ErrSessionMetadata, checkoutSession.ID)
		}
		var business models.Business
		if err := json.Unmarshal([]byte(registrationJSON), &business); err != nil {
			return nil, fmt.Errorf("failed to decode registration metadata of session '%s': %w", checkoutSession.ID, err)
		}
		id, err := s.business.CompleteFromSession(ctx, userID, checkoutSession.ID, &business, details)
		if err != nil {
			return nil, err
		}
		businessID = id
	}

	// The persisted record is the durable artifact; the wizard snapshot
	// is torn down best effort.
	if err := s.wizard.Clear(ctx, userID); err != nil {
		log.Printf("BillingService: failed to clear wizard session of user %s: %v", userID, err)
	}

	s.sendConfirmationEmail(checkoutSession, details)

	return &models.PaymentConfirmation{
		BusinessID:            businessID,
		Amount:                details.Amount,
		Currency:              details.Currency,
		StripePaymentIntentID: details.StripePaymentIntentID,
		CreatedAt:             details.CreatedAt,
	}, nil
}

// sendConfirmationEmail notifies the payer, best effort.
func (s *billingService) sendConfirmationEmail(checkoutSession *stripe.CheckoutSession, details *models.PaymentDetails) {
	if !s.mail.Configured() {
		return
	}
	if checkoutSession.CustomerDetails == nil || checkoutSession.CustomerDetails.Email == "" {
		return
	}
	body := fmt.Sprintf("<html><p>Your business registration payment of $%.2f %s has been received. Your registration is now complete.</p></html>",
		float64(details.Amount)/100, details.Currency)
	if err := s.mail.Send(checkoutSession.CustomerDetails.Email, "Business registration confirmed", body); err != nil {
		log.Printf("BillingService: failed to send confirmation email for session %s: %v", checkoutSession.ID, err)
	}
}
