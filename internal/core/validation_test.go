package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incorpora-backend-go/internal/models"
)

func TestValidateCompanyName(t *testing.T) {
	assert.NoError(t, ValidateCompanyName("Acme Holdings 42"))
	assert.NoError(t, ValidateCompanyName("Smith & Sons"))

	err := ValidateCompanyName("Acme, Inc.")
	require.Error(t, err)
	assert.Equal(t, "Only letters, numbers, spaces, and '&' symbol are allowed", err.Error())

	err = ValidateCompanyName("Ācme")
	require.Error(t, err)
	assert.Equal(t, "Only letters, numbers, spaces, and '&' symbol are allowed", err.Error())

	require.Error(t, ValidateCompanyName(""))
}

func validOwner() models.Owner {
	return models.Owner{
		ID:          "o1",
		FullName:    "Jane Smith",
		Ownership:   100,
		BirthDate:   "1985-04-02",
		DocumentURL: "https://storage.googleapis.com/test-bucket/users/u1/documents/1.pdf",
	}
}

func TestValidateOwners_OwnershipSumMessages(t *testing.T) {
	under := []models.Owner{
		{ID: "o1", FullName: "Jane Smith", Ownership: 40},
		{ID: "o2", FullName: "John Doe", Ownership: 20},
	}
	err := ValidateOwners(under)
	require.Error(t, err)
	assert.Equal(t, "Total ownership is 60%. You need 40% more to reach 100%.", err.Error())

	over := []models.Owner{
		{ID: "o1", FullName: "Jane Smith", Ownership: 70},
		{ID: "o2", FullName: "John Doe", Ownership: 50},
	}
	err = ValidateOwners(over)
	require.Error(t, err)
	assert.Equal(t, "Total ownership is 120%. You need to remove 20% to get back to 100%.", err.Error())
}

func TestValidateOwners_SumCheckedBeforeCEO(t *testing.T) {
	// Neither owner is CEO and the sum is off; the sum message must win.
	owners := []models.Owner{
		{ID: "o1", FullName: "Jane Smith", Ownership: 30},
		{ID: "o2", FullName: "John Doe", Ownership: 30},
	}
	err := ValidateOwners(owners)
	require.Error(t, err)
	assert.Equal(t, "Total ownership is 60%. You need 40% more to reach 100%.", err.Error())
}

func TestValidateOwners_CEODesignation(t *testing.T) {
	owners := []models.Owner{
		{ID: "o1", FullName: "Jane Smith", Ownership: 50},
		{ID: "o2", FullName: "John Doe", Ownership: 50},
	}
	err := ValidateOwners(owners)
	require.Error(t, err)
	assert.Equal(t, "Please designate one owner as CEO", err.Error())

	owners[0].IsCEO = true
	owners[1].IsCEO = true
	err = ValidateOwners(owners)
	require.Error(t, err)
	assert.Equal(t, "Only one owner can be designated as CEO", err.Error())

	owners[1].IsCEO = false
	owners[0].BirthDate = "1985-04-02"
	owners[0].DocumentURL = "https://storage.googleapis.com/test-bucket/users/u1/documents/1.pdf"
	assert.NoError(t, ValidateOwners(owners))
}

func TestValidateOwners_SoleOwnerNeedsNoCEOFlag(t *testing.T) {
	owner := validOwner()
	owner.IsCEO = false
	assert.NoError(t, ValidateOwners([]models.Owner{owner}))

	owner.BirthDate = ""
	err := ValidateOwners([]models.Owner{owner})
	require.Error(t, err)
	assert.Equal(t, "The designated CEO must provide a birth date", err.Error())

	owner.BirthDate = "1985-04-02"
	owner.DocumentURL = ""
	err = ValidateOwners([]models.Owner{owner})
	require.Error(t, err)
	assert.Equal(t, "The designated CEO must upload an identity document", err.Error())
}

func TestMissingSections(t *testing.T) {
	form := &models.WizardForm{}
	assert.Equal(t, []string{"country", "package", "company", "owners", "address"}, missingSections(form))

	form.Country = &models.CountrySelection{Name: "United States"}
	form.Package = &models.PackageSelection{Name: "Standard", Price: 159}
	form.Company = &models.Company{Name: "Acme", Type: "LLC", Industry: "Software"}
	form.Owners = []models.Owner{validOwner()}
	form.Address = &models.Address{
		Street:     "1 Main St",
		City:       "Dover",
		State:      "DE",
		PostalCode: "19901",
		Country:    "United States",
	}
	assert.Empty(t, missingSections(form))

	// An invalid section counts as missing, not just an absent one.
	form.Owners[0].Ownership = 50
	assert.Equal(t, []string{"owners"}, missingSections(form))
}
