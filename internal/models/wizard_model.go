package models

import "time"

// Wizard step numbers. The main flow has seven steps; step seven is the
// hosted checkout hand-off and the wizard is torn down once the payment
// redirect confirms.
const (
	WizardStepCountry = 1
	WizardStepPackage = 2
	WizardStepCompany = 3
	WizardStepOwners  = 4
	WizardStepAddress = 5
	WizardStepReview  = 6
	WizardStepPayment = 7

	WizardStepFirst = WizardStepCountry
	WizardStepLast  = WizardStepPayment
)

// WizardForm is the accumulated form object of an in-progress
// registration. Each section is filled in by its step and nil until then,
// so a snapshot serializes only what the user has actually entered.
type WizardForm struct {
	Country *CountrySelection `json:"country,omitempty"`
	Package *PackageSelection `json:"package,omitempty"`
	Company *Company          `json:"company,omitempty"`
	Owners  []Owner           `json:"owners,omitempty"`
	Address *Address          `json:"address,omitempty"`
}

// WizardStepData is the payload of a single wizard step submission. Only
// the section belonging to the submitted step is read; the rest stays nil.
type WizardStepData struct {
	Country *CountrySelection `json:"country,omitempty"`
	Package *PackageSelection `json:"package,omitempty"`
	Company *Company          `json:"company,omitempty"`
	Owners  []Owner           `json:"owners,omitempty"`
	Address *Address          `json:"address,omitempty"`
}

// WizardSession is the explicit, serializable wizard state: current step
// plus the accumulated form. It replaces the ambient client-side storage
// of earlier revisions so that persistence and recovery are first-class.
type WizardSession struct {
	Step       int        `json:"step"`
	Form       WizardForm `json:"form"`
	BusinessID string     `json:"businessId,omitempty"` // set once a draft record exists
	UpdatedAt  time.Time  `json:"updatedAt"`
}
