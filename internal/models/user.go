package models

import "time"

// User is an account. Password users carry a bcrypt hash; OAuth users are
// keyed by the provider subject.
type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Sub          string    `bson:"sub" json:"sub"`
	Email        string    `bson:"email" json:"email"`
	Name         string    `bson:"name" json:"name"`
	Provider     string    `bson:"provider" json:"provider"`
	PasswordHash string    `bson:"passwordHash,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

const (
	ProviderPassword = "password"
	ProviderOIDC     = "oidc"
)
