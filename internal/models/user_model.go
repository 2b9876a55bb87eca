package models

import "time"

// User represents an application user profile document.
// The Firebase Auth record is the source of truth for identity; this
// document carries the profile fields collected at sign-up.
type User struct {
	ID          string    `json:"id" firestore:"-"` // Firebase Auth UID, used as the document ID
	Email       string    `json:"email" firestore:"email"`
	FirstName   string    `json:"firstName,omitempty" firestore:"firstName,omitempty"`
	LastName    string    `json:"lastName,omitempty" firestore:"lastName,omitempty"`
	DisplayName string    `json:"displayName,omitempty" firestore:"displayName,omitempty"`
	Phone       string    `json:"phone,omitempty" firestore:"phone,omitempty"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// AdminUser gatekeeps the admin routes. Stored in the "admins" collection,
// keyed by email.
type AdminUser struct {
	Email     string    `json:"email" firestore:"email"`
	Role      string    `json:"role" firestore:"role"` // expected to be "admin"
	CreatedAt time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
}
