package tokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/resumeforge/resumeforge/internal/models"
	"github.com/resumeforge/resumeforge/pkg/middleware"
)

var (
	ErrMissingSecret = errors.New("jwt secret is not configured")
	ErrNoExpiry      = errors.New("token has no expiry")
)

// Issuer signs and verifies HS256 access tokens.
type Issuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret, issuer string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Issuer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}, nil
}

// TTL is the lifetime of issued access tokens.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue creates a signed access token for the user and returns it with its
// expiry.
func (i *Issuer) Issue(u *models.User) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(i.ttl)
	claims := jwt.MapClaims{
		"sub":   u.Sub,
		"name":  u.Name,
		"email": u.Email,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	}
	if i.issuer != "" {
		claims["iss"] = i.issuer
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, exp, nil
}

// Verify implements middleware.Verifier.
func (i *Issuer) Verify(_ context.Context, raw string) (middleware.Token, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if exp, _ := claims.GetExpirationTime(); exp == nil {
		return nil, ErrNoExpiry
	}
	return verified(claims), nil
}

// Remaining returns how long a token issued by i stays valid, or zero when it
// cannot be parsed or is already expired. It does not check the signature.
func (i *Issuer) Remaining(raw string) time.Duration {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return 0
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0
	}
	if d := exp.Sub(i.now()); d > 0 {
		return d
	}
	return 0
}

type verified jwt.MapClaims

func (v verified) Claims(out interface{}) error {
	b, err := json.Marshal(map[string]interface{}(v))
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}
