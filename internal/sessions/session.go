package sessions

import "time"

// DefaultTTL applies to sessions created without an explicit expiry.
const DefaultTTL = 7 * 24 * time.Hour

// Session is a refresh session. The access token it was issued with is
// short-lived and not stored.
type Session struct {
	ID           string    `bson:"_id,omitempty" json:"id,omitempty"`
	RefreshToken string    `bson:"refreshToken" json:"refreshToken"`
	Sub          string    `bson:"sub" json:"sub"`
	ExpiresAt    time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
