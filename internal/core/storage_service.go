package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/url"
	"path"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"

	"incorpora-backend-go/internal/models"
)

// maxUploadSize caps owner/compliance document uploads at 5MB.
const maxUploadSize = 5 << 20

// allowedUploadTypes is the MIME allow-list for document uploads. The
// admin document-replace path enforces the same list.
var allowedUploadTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
}

// storageService implements the StorageService interface over the
// document-upload bucket.
type storageService struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

// NewStorageService creates a new StorageService.
func NewStorageService(bucket *gcs.BucketHandle, bucketName string) (StorageService, error) {
	if bucket == nil {
		return nil, errors.New("storage bucket handle is required for StorageService")
	}
	if bucketName == "" {
		return nil, errors.New("bucket name is required for StorageService")
	}
	return &storageService{bucket: bucket, bucketName: bucketName}, nil
}

// validateUpload checks the size and MIME-type constraints.
func validateUpload(contentType string, size int64) error {
	if size <= 0 {
		return newValidationError("Uploaded file is empty")
	}
	if size > maxUploadSize {
		return newValidationError("File exceeds the 5MB size limit")
	}
	// Content types may carry parameters ("image/png; charset=binary").
	mime := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if !allowedUploadTypes[mime] {
		return newValidationError("Only PDF, JPG and PNG files are allowed")
	}
	return nil
}

// objectName builds the stored object path. The epoch-millisecond suffix
// avoids collisions under normal interactive usage; concurrent uploads
// within the same millisecond are not a supported pattern.
func objectName(userID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("users/%s/documents/%d%s", userID, time.Now().UnixMilli(), ext)
}

// publicURL builds the canonical public URL of a stored object.
func publicURL(bucketName, object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucketName, object)
}

// ObjectPathFromURL parses the object path out of a public storage URL.
// Both the canonical storage.googleapis.com form and the Firebase
// download-URL form are recognized.
func ObjectPathFromURL(bucketName, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid storage URL %q: %w", rawURL, err)
	}
	switch u.Host {
	case "storage.googleapis.com":
		prefix := "/" + bucketName + "/"
		if !strings.HasPrefix(u.Path, prefix) {
			return "", fmt.Errorf("URL %q does not reference bucket %q", rawURL, bucketName)
		}
		object := strings.TrimPrefix(u.Path, prefix)
		if object == "" {
			return "", fmt.Errorf("URL %q carries no object path", rawURL)
		}
		return object, nil
	case "firebasestorage.googleapis.com":
		prefix := "/v0/b/" + bucketName + "/o/"
		escaped := u.EscapedPath()
		if !strings.HasPrefix(escaped, prefix) {
			return "", fmt.Errorf("URL %q does not reference bucket %q", rawURL, bucketName)
		}
		object, err := url.PathUnescape(strings.TrimPrefix(escaped, prefix))
		if err != nil {
			return "", fmt.Errorf("failed to unescape object path of URL %q: %w", rawURL, err)
		}
		if object == "" {
			return "", fmt.Errorf("URL %q carries no object path", rawURL)
		}
		return object, nil
	default:
		return "", fmt.Errorf("unrecognized storage URL host %q", u.Host)
	}
}

// Upload validates and stores one document, returning its public URL and
// display name.
func (s *storageService) Upload(ctx context.Context, userID, filename, contentType string, size int64, r io.Reader) (*models.Document, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for Upload operation")
	}
	if err := validateUpload(contentType, size); err != nil {
		return nil, err
	}

	object := objectName(userID, filename)
	w := s.bucket.Object(object).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to write object %q: %w", object, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish upload of object %q: %w", object, err)
	}

	// Buckets with uniform access control reject per-object ACLs; the
	// bucket policy serves the objects in that case.
	if err := s.bucket.Object(object).ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		log.Printf("StorageService: could not set public read ACL on %q: %v", object, err)
	}

	return &models.Document{
		URL:  publicURL(s.bucketName, object),
		Name: filename,
	}, nil
}

// Remove deletes the object behind a public URL. An already-deleted
// object is treated as success; removal is best effort by contract.
func (s *storageService) Remove(ctx context.Context, rawURL string) error {
	object, err := ObjectPathFromURL(s.bucketName, rawURL)
	if err != nil {
		return err
	}
	if err := s.bucket.Object(object).Delete(ctx); err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return nil
		}
		return fmt.Errorf("failed to delete object %q: %w", object, err)
	}
	return nil
}
