package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AccessCookie carries the access token for browser page requests.
const AccessCookie = "access_token"

// Token is minimal interface for a verified token that can expose claims
type Token interface {
	Claims(v interface{}) error
}

// Verifier is the minimal interface the middleware depends on
type Verifier interface {
	Verify(ctx context.Context, raw string) (Token, error)
}

// Blacklist reports revoked access tokens.
type Blacklist interface {
	Contains(ctx context.Context, token string) (bool, error)
}

type authOptions struct {
	blacklist Blacklist
}

type AuthOption func(*authOptions)

// WithBlacklist rejects tokens revoked at logout.
func WithBlacklist(b Blacklist) AuthOption {
	return func(o *authOptions) { o.blacklist = b }
}

// AuthMiddleware returns a Gin middleware that verifies Bearer tokens using the provided verifier
func AuthMiddleware(ver Verifier, opts ...AuthOption) gin.HandlerFunc {
	var o authOptions
	for _, opt := range opts {
		opt(&o)
	}
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}
		token, ok := bearer(auth)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}
		claims, err := o.verify(c.Request.Context(), ver, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token", "details": err.Error()})
			return
		}
		c.Set("claims", claims)
		c.Next()
	}
}

// RequireAuth guards browser pages: requests without a valid token in the
// Authorization header or AccessCookie are redirected to loginPath.
func RequireAuth(ver Verifier, loginPath string, opts ...AuthOption) gin.HandlerFunc {
	var o authOptions
	for _, opt := range opts {
		opt(&o)
	}
	return func(c *gin.Context) {
		claims, ok := o.fromRequest(c, ver)
		if !ok {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Set("claims", claims)
		c.Next()
	}
}

// RedirectIfAuthenticated sends signed-in users away from pages such as
// login and signup.
func RedirectIfAuthenticated(ver Verifier, dest string, opts ...AuthOption) gin.HandlerFunc {
	var o authOptions
	for _, opt := range opts {
		opt(&o)
	}
	return func(c *gin.Context) {
		if _, ok := o.fromRequest(c, ver); ok {
			c.Redirect(http.StatusFound, dest)
			c.Abort()
			return
		}
		c.Next()
	}
}

// Subject returns the authenticated subject set by the middleware.
func Subject(c *gin.Context) string {
	v, ok := c.Get("claims")
	if !ok {
		return ""
	}
	cm, ok := v.(map[string]interface{})
	if !ok {
		return ""
	}
	sub, _ := cm["sub"].(string)
	return sub
}

// RawToken returns the access token presented with the request.
func RawToken(c *gin.Context) string {
	if t, ok := bearer(c.GetHeader("Authorization")); ok {
		return t
	}
	if t, err := c.Cookie(AccessCookie); err == nil {
		return t
	}
	return ""
}

func (o authOptions) fromRequest(c *gin.Context, ver Verifier) (map[string]interface{}, bool) {
	raw := RawToken(c)
	if raw == "" {
		return nil, false
	}
	claims, err := o.verify(c.Request.Context(), ver, raw)
	return claims, err == nil
}

func (o authOptions) verify(ctx context.Context, ver Verifier, raw string) (map[string]interface{}, error) {
	tok, err := ver.Verify(ctx, raw)
	if err != nil {
		return nil, err
	}
	if o.blacklist != nil {
		revoked, err := o.blacklist.Contains(ctx, raw)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, errRevoked
		}
	}
	var claims map[string]interface{}
	if err := tok.Claims(&claims); err != nil {
		return nil, errBadClaims
	}
	return claims, nil
}

func bearer(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	t := strings.TrimSpace(header[len(prefix):])
	return t, t != ""
}
