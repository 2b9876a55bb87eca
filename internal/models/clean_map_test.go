package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanMapRemovesNilsAtEveryDepth(t *testing.T) {
	in := map[string]interface{}{
		"name":  "Acme",
		"notes": nil,
		"address": map[string]interface{}{
			"city":   "Dover",
			"street": nil,
			"geo": map[string]interface{}{
				"lat": 39.16,
				"lng": nil,
			},
		},
		"owner": []interface{}{
			map[string]interface{}{"fullName": "Jane Smith", "birthDate": nil},
			nil,
			"keep-me",
		},
	}

	out := CleanMap(in)

	assert.Equal(t, "Acme", out["name"])
	assert.NotContains(t, out, "notes")

	address := out["address"].(map[string]interface{})
	assert.Equal(t, "Dover", address["city"])
	assert.NotContains(t, address, "street")
	geo := address["geo"].(map[string]interface{})
	assert.Equal(t, 39.16, geo["lat"])
	assert.NotContains(t, geo, "lng")

	owners := out["owner"].([]interface{})
	assert.Len(t, owners, 2)
	first := owners[0].(map[string]interface{})
	assert.Equal(t, "Jane Smith", first["fullName"])
	assert.NotContains(t, first, "birthDate")
	assert.Equal(t, "keep-me", owners[1])

	// The input map is left untouched.
	assert.Contains(t, in, "notes")
}

func TestCleanMapPreservesFalsyValues(t *testing.T) {
	out := CleanMap(map[string]interface{}{
		"zero":  0,
		"empty": "",
		"false": false,
	})
	assert.Equal(t, 0, out["zero"])
	assert.Equal(t, "", out["empty"])
	assert.Equal(t, false, out["false"])
}

func TestCleanMapNilInput(t *testing.T) {
	assert.Nil(t, CleanMap(nil))
}
