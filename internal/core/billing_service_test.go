package core

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v74"

	"incorpora-backend-go/internal/mailer"
	"incorpora-backend-go/internal/models"
)

func newTestBilling(business *fakeBusinessService, wizard *fakeWizardService) *billingService {
	return &billingService{
		webhookSecret: "whsec_test",
		clientURL:     "https://app.example.com",
		business:      business,
		wizard:        wizard,
		mail:          mailer.New("", "", "", "", ""),
	}
}

func paidSession(metadata map[string]string) *stripe.CheckoutSession {
	return &stripe.CheckoutSession{
		ID:            "cs_test_1",
		PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
		AmountTotal:   15900,
		Currency:      stripe.CurrencyUSD,
		PaymentIntent: &stripe.PaymentIntent{ID: "pi_test_1"},
		Metadata:      metadata,
	}
}

func TestFinalizeSessionRejectsUnpaid(t *testing.T) {
	svc := newTestBilling(newFakeBusinessService(), &fakeWizardService{})

	session := paidSession(map[string]string{metadataUserID: "u1"})
	session.PaymentStatus = stripe.CheckoutSessionPaymentStatusUnpaid

	_, err := svc.finalizeSession(context.Background(), session)
	require.ErrorIs(t, err, ErrPaymentNotCompleted)
}

func TestFinalizeSessionRequiresMetadata(t *testing.T) {
	svc := newTestBilling(newFakeBusinessService(), &fakeWizardService{})

	_, err := svc.finalizeSession(context.Background(), paidSession(nil))
	require.ErrorIs(t, err, ErrSessionMetadata)

	// A user ID alone is not enough either; there is nothing to persist.
	_, err = svc.finalizeSession(context.Background(), paidSession(map[string]string{metadataUserID: "u1"}))
	require.ErrorIs(t, err, ErrSessionMetadata)
}

func TestFinalizeSessionDraftPath(t *testing.T) {
	ctx := context.Background()
	business := newFakeBusinessService()
	wizard := &fakeWizardService{}
	svc := newTestBilling(business, wizard)

	// Seed the draft record the wizard created at the address step.
	draft, err := business.SaveDraft(ctx, "u1", nil, "")
	require.NoError(t, err)

	session := paidSession(map[string]string{
		metadataUserID:     "u1",
		metadataBusinessID: draft.ID,
	})

	confirmation, err := svc.finalizeSession(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, confirmation.BusinessID)
	assert.Equal(t, int64(15900), confirmation.Amount)
	assert.Equal(t, "USD", confirmation.Currency)
	assert.Equal(t, "pi_test_1", confirmation.StripePaymentIntentID)

	record, err := business.GetByID(ctx, "u1", draft.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BusinessStatusCompleted, record.Status)
	require.NotNil(t, record.PaymentDetails)
	assert.Equal(t, "card", record.PaymentDetails.PaymentMethod)
	assert.Equal(t, "succeeded", record.PaymentDetails.Status)

	assert.Equal(t, 1, wizard.clearCalls)
}

func TestFinalizeSessionIsIdempotent(t *testing.T) {
	ctx := context.Background()
	business := newFakeBusinessService()
	wizard := &fakeWizardService{}
	svc := newTestBilling(business, wizard)

	registration, err := json.Marshal(BusinessFromForm(&models.WizardForm{
		Company: &models.Company{Name: "Acme", Type: "LLC", Industry: "Software"},
		Package: &models.PackageSelection{Name: "Standard", Price: 159},
	}))
	require.NoError(t, err)

	session := paidSession(map[string]string{
		metadataUserID:       "u1",
		metadataRegistration: string(registration),
	})

	// Both the client return page and the webhook confirm the same session.
	first, err := svc.finalizeSession(ctx, session)
	require.NoError(t, err)
	second, err := svc.finalizeSession(ctx, session)
	require.NoError(t, err)

	assert.Equal(t, first.BusinessID, second.BusinessID)
	assert.Equal(t, session.ID, first.BusinessID)

	// Exactly one record exists, keyed by the session ID.
	records, err := business.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.BusinessStatusCompleted, records[0].Status)
	assert.Equal(t, session.ID, records[0].CheckoutSessionID)
	assert.Equal(t, "Acme", records[0].Company.Name)
}
