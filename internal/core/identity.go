package core

import (
	"context"
	"errors"
	"fmt"

	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/iterator"
)

// IdentityUser is the subset of an identity-provider user record the
// admin panel needs.
type IdentityUser struct {
	UID         string
	Email       string
	DisplayName string
	PhoneNumber string
}

// IdentityProvider enumerates the users known to the identity provider.
type IdentityProvider interface {
	ListUsers(ctx context.Context) ([]IdentityUser, error)
}

// firebaseIdentityProvider implements IdentityProvider on the Firebase
// Auth admin client.
type firebaseIdentityProvider struct {
	authClient *auth.Client
}

// NewFirebaseIdentityProvider wraps a Firebase Auth client as an
// IdentityProvider.
func NewFirebaseIdentityProvider(authClient *auth.Client) (IdentityProvider, error) {
	if authClient == nil {
		return nil, errors.New("Firebase Auth client is required for IdentityProvider")
	}
	return &firebaseIdentityProvider{authClient: authClient}, nil
}

// ListUsers drains the Firebase Auth user export iterator into a slice.
// User counts in this system are small.
func (p *firebaseIdentityProvider) ListUsers(ctx context.Context) ([]IdentityUser, error) {
	users := make([]IdentityUser, 0)
	iter := p.authClient.Users(ctx, "")
	for {
		record, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate identity-provider users: %w", err)
		}
		users = append(users, IdentityUser{
			UID:         record.UID,
			Email:       record.Email,
			DisplayName: record.DisplayName,
			PhoneNumber: record.PhoneNumber,
		})
	}
	return users, nil
}
