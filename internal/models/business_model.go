package models

import "time"

// Business status values. The only legal transition is draft -> completed,
// and only after a payment has been confirmed.
const (
	BusinessStatusDraft     = "draft"
	BusinessStatusCompleted = "completed"
)

// Company holds the company details collected in the wizard.
type Company struct {
	Name     string `json:"name" firestore:"name"`
	Type     string `json:"type" firestore:"type"`         // e.g. "LLC", "C-Corp"
	Industry string `json:"industry" firestore:"industry"`
}

// CountrySelection is the country of incorporation chosen in step one.
type CountrySelection struct {
	Name string `json:"name" firestore:"name"`
}

// PackageSelection is the registration package chosen in step two.
// Price is the advertised package price in whole currency units; the
// charged amount in PaymentDetails is converted to cents by the billing
// layer.
type PackageSelection struct {
	Name  string `json:"name" firestore:"name"`
	Price int64  `json:"price" firestore:"price"`
}

// Address is the business address collected in the wizard.
type Address struct {
	Street     string `json:"street" firestore:"street"`
	City       string `json:"city" firestore:"city"`
	State      string `json:"state" firestore:"state"`
	PostalCode string `json:"postalCode" firestore:"postalCode"`
	Country    string `json:"country" firestore:"country"`
}

// Owner is a beneficial owner of a business. Ownership percentages across
// all owners of one business must sum to exactly 100, and exactly one
// owner must be flagged CEO when there is more than one owner.
type Owner struct {
	ID           string `json:"id" firestore:"id"`
	FullName     string `json:"fullName" firestore:"fullName"`
	Ownership    int    `json:"ownership" firestore:"ownership"` // percent
	IsCEO        bool   `json:"isCEO" firestore:"isCEO"`
	BirthDate    string `json:"birthDate,omitempty" firestore:"birthDate,omitempty"`
	DocumentURL  string `json:"documentUrl,omitempty" firestore:"documentUrl,omitempty"`
	DocumentName string `json:"documentName,omitempty" firestore:"documentName,omitempty"`
}

// Document is one entry of a business's document map. Keys of the map are
// semantic slot identifiers (e.g. "filedArticles", "einTaxId",
// "organizerStatement", "boiReport").
type Document struct {
	URL  string `json:"url" firestore:"url"`
	Name string `json:"name" firestore:"name"`
}

// PaymentDetails records the confirmed payment of a business registration.
// Amount is in minor currency units (cents).
type PaymentDetails struct {
	Amount                int64     `json:"amount" firestore:"amount"`
	Currency              string    `json:"currency" firestore:"currency"`
	PaymentMethod         string    `json:"paymentMethod" firestore:"paymentMethod"`
	Status                string    `json:"status" firestore:"status"`
	StripePaymentIntentID string    `json:"stripePaymentIntentId" firestore:"stripePaymentIntentId"`
	CreatedAt             time.Time `json:"createdAt" firestore:"createdAt"`
}

// Business is a business-registration record. It lives in the
// users/{uid}/businesses subcollection and is subordinate to one user.
type Business struct {
	ID                string              `json:"id" firestore:"-"` // document ID
	Company           Company             `json:"company" firestore:"company"`
	Country           CountrySelection    `json:"country" firestore:"country"`
	Package           PackageSelection    `json:"package" firestore:"package"`
	Address           Address             `json:"address" firestore:"address"`
	Owners            []Owner             `json:"owner" firestore:"owner"`
	Documents         map[string]Document `json:"documents,omitempty" firestore:"documents,omitempty"`
	PaymentDetails    *PaymentDetails     `json:"paymentDetails,omitempty" firestore:"paymentDetails,omitempty"`
	Status            string              `json:"status" firestore:"status"`
	CheckoutSessionID string              `json:"checkoutSessionId,omitempty" firestore:"checkoutSessionId,omitempty"`
	CreatedAt         time.Time           `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt         time.Time           `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// PaymentConfirmation is the result of verifying a completed checkout
// session, returned to the client return page.
type PaymentConfirmation struct {
	BusinessID            string    `json:"businessId"`
	Amount                int64     `json:"amount"` // cents
	Currency              string    `json:"currency"`
	StripePaymentIntentID string    `json:"stripePaymentIntentId"`
	CreatedAt             time.Time `json:"createdAt"`
}

// AdminBusiness is the flattened admin listing shape: a business joined to
// its owning user, with a synthetic path field for traceability.
type AdminBusiness struct {
	Business
	UserID    string `json:"userId"`
	UserEmail string `json:"userEmail"`
	Path      string `json:"path"` // users/{uid}/businesses/{id}
}

// AdminUserListing is one row of the admin user listing: the identity
// provider record joined with the profile document and all businesses.
type AdminUserListing struct {
	UID         string     `json:"uid"`
	Email       string     `json:"email"`
	DisplayName string     `json:"displayName,omitempty"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Profile     *User      `json:"profile,omitempty"`
	Businesses  []Business `json:"businesses"`
}
