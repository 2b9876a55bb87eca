package db

import (
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
)

func TestStampedFieldsLeavesInputUntouched(t *testing.T) {
	fields := map[string]interface{}{"company": "Acme"}
	stamped := stampedFields(fields)

	assert.Equal(t, firestore.ServerTimestamp, stamped["updatedAt"])
	assert.Equal(t, "Acme", stamped["company"])

	// The caller's map must not pick up the timestamp sentinel.
	assert.NotContains(t, fields, "updatedAt")
	assert.Len(t, fields, 1)
}
