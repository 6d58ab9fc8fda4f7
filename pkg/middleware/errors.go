package middleware

import "errors"

var (
	errRevoked   = errors.New("token revoked")
	errBadClaims = errors.New("failed to parse claims")
)
