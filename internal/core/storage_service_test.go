package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUpload(t *testing.T) {
	assert.NoError(t, validateUpload("application/pdf", 1024))
	assert.NoError(t, validateUpload("image/png", maxUploadSize))
	// Content-type parameters are ignored.
	assert.NoError(t, validateUpload("image/jpeg; charset=binary", 1024))
	assert.NoError(t, validateUpload("IMAGE/PNG", 1024))

	var vErr *ValidationError

	err := validateUpload("application/pdf", 0)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Uploaded file is empty", vErr.Message)

	err = validateUpload("application/pdf", maxUploadSize+1)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "File exceeds the 5MB size limit", vErr.Message)

	err = validateUpload("application/zip", 1024)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Only PDF, JPG and PNG files are allowed", vErr.Message)

	err = validateUpload("", 1024)
	require.ErrorAs(t, err, &vErr)
}

func TestObjectName(t *testing.T) {
	name := objectName("u1", "passport.PDF")
	assert.True(t, strings.HasPrefix(name, "users/u1/documents/"))
	assert.True(t, strings.HasSuffix(name, ".pdf"))

	// Files without an extension still get a valid object path.
	name = objectName("u1", "passport")
	assert.True(t, strings.HasPrefix(name, "users/u1/documents/"))
}

func TestObjectPathFromURL(t *testing.T) {
	object, err := ObjectPathFromURL("my-bucket", "https://storage.googleapis.com/my-bucket/users/u1/documents/123.pdf")
	require.NoError(t, err)
	assert.Equal(t, "users/u1/documents/123.pdf", object)

	// Firebase download URLs percent-encode the object path.
	object, err = ObjectPathFromURL("my-bucket", "https://firebasestorage.googleapis.com/v0/b/my-bucket/o/users%2Fu1%2Fdocuments%2F123.pdf?alt=media")
	require.NoError(t, err)
	assert.Equal(t, "users/u1/documents/123.pdf", object)

	_, err = ObjectPathFromURL("my-bucket", "https://storage.googleapis.com/other-bucket/users/u1/documents/123.pdf")
	require.Error(t, err)

	_, err = ObjectPathFromURL("my-bucket", "https://example.com/users/u1/documents/123.pdf")
	require.Error(t, err)

	_, err = ObjectPathFromURL("my-bucket", "https://storage.googleapis.com/my-bucket/")
	require.Error(t, err)
}
