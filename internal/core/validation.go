package core

import (
	"fmt"
	"regexp"

	"incorpora-backend-go/internal/models"
)

// ValidationError is a user-facing, field-level validation failure. Its
// message is rendered to the client verbatim and never sent to upstream
// services.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func newValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// companyNameRe allows letters, numbers, spaces and the ampersand, which
// is common in legal entity names ("Acme & Co").
var companyNameRe = regexp.MustCompile(`^[A-Za-z0-9 &]+$`)

// ValidateCompanyName checks a company name against the allowed character
// set.
func ValidateCompanyName(name string) error {
	if name == "" {
		return newValidationError("Company name is required")
	}
	if !companyNameRe.MatchString(name) {
		return newValidationError("Only letters, numbers, spaces, and '&' symbol are allowed")
	}
	return nil
}

// ValidateOwners enforces the cross-field owner invariants: ownership
// percentages must sum to exactly 100, exactly one owner must be flagged
// CEO when there is more than one owner, and the flagged owner (or the
// sole owner) must supply a birth date and an identity document.
//
// The ownership-sum check runs first so its message takes precedence; the
// CEO message appears once the sum is fixed.
func ValidateOwners(owners []models.Owner) error {
	if len(owners) == 0 {
		return newValidationError("At least one owner is required")
	}

	for _, o := range owners {
		if o.FullName == "" {
			return newValidationError("Every owner must have a full name")
		}
	}

	sum := 0
	for _, o := range owners {
		sum += o.Ownership
	}
	if sum < 100 {
		return newValidationError("Total ownership is %d%%. You need %d%% more to reach 100%%.", sum, 100-sum)
	}
	if sum > 100 {
		return newValidationError("Total ownership is %d%%. You need to remove %d%% to get back to 100%%.", sum, sum-100)
	}

	responsible := &owners[0]
	if len(owners) > 1 {
		ceoCount := 0
		for i := range owners {
			if owners[i].IsCEO {
				ceoCount++
				responsible = &owners[i]
			}
		}
		if ceoCount == 0 {
			return newValidationError("Please designate one owner as CEO")
		}
		if ceoCount > 1 {
			return newValidationError("Only one owner can be designated as CEO")
		}
	}

	if responsible.BirthDate == "" {
		return newValidationError("The designated CEO must provide a birth date")
	}
	if responsible.DocumentURL == "" {
		return newValidationError("The designated CEO must upload an identity document")
	}
	return nil
}

func validateCountry(c *models.CountrySelection) error {
	if c == nil || c.Name == "" {
		return newValidationError("Please select a country")
	}
	return nil
}

func validatePackage(p *models.PackageSelection) error {
	if p == nil || p.Name == "" {
		return newValidationError("Please select a package")
	}
	if p.Price <= 0 {
		return newValidationError("Selected package has an invalid price")
	}
	return nil
}

func validateCompany(c *models.Company) error {
	if c == nil {
		return newValidationError("Company details are required")
	}
	if err := ValidateCompanyName(c.Name); err != nil {
		return err
	}
	if c.Type == "" {
		return newValidationError("Company type is required")
	}
	if c.Industry == "" {
		return newValidationError("Company industry is required")
	}
	return nil
}

func validateAddress(a *models.Address) error {
	if a == nil {
		return newValidationError("Business address is required")
	}
	if a.Street == "" || a.City == "" || a.State == "" || a.PostalCode == "" || a.Country == "" {
		return newValidationError("All address fields are required")
	}
	return nil
}

// validateStep dispatches to the validator owning the given wizard step.
// The review and payment steps carry no data of their own.
func validateStep(step int, data *models.WizardStepData) error {
	switch step {
	case models.WizardStepCountry:
		return validateCountry(data.Country)
	case models.WizardStepPackage:
		return validatePackage(data.Package)
	case models.WizardStepCompany:
		return validateCompany(data.Company)
	case models.WizardStepOwners:
		return ValidateOwners(data.Owners)
	case models.WizardStepAddress:
		return validateAddress(data.Address)
	case models.WizardStepReview, models.WizardStepPayment:
		return nil
	default:
		return newValidationError("Unknown wizard step %d", step)
	}
}

// missingSections returns the names of form sections that are absent or
// invalid, in wizard order. Used by the review step to detect data loss
// from direct navigation.
func missingSections(form *models.WizardForm) []string {
	missing := make([]string, 0)
	if validateCountry(form.Country) != nil {
		missing = append(missing, "country")
	}
	if validatePackage(form.Package) != nil {
		missing = append(missing, "package")
	}
	if validateCompany(form.Company) != nil {
		missing = append(missing, "company")
	}
	if ValidateOwners(form.Owners) != nil {
		missing = append(missing, "owners")
	}
	if validateAddress(form.Address) != nil {
		missing = append(missing, "address")
	}
	return missing
}
