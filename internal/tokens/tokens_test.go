package tokens

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/resumeforge/resumeforge/internal/models"
)

const secret = "test-secret-32-bytes-should-be-long-enough"

func newIssuer(t *testing.T, ttl time.Duration) *Issuer {
	t.Helper()
	i, err := NewIssuer(secret, "resumeforge", ttl)
	require.NoError(t, err)
	return i
}

func TestIssueAndVerify(t *testing.T) {
	i := newIssuer(t, 2*time.Minute)
	u := &models.User{Sub: "user-123", Name: "Test User", Email: "test@example.com"}

	raw, exp, err := i.Issue(u)
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(2*time.Minute), exp, 5*time.Second)

	tok, err := i.Verify(context.Background(), raw)
	require.NoError(t, err)
	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "user-123", claims["sub"])
	require.Equal(t, "test@example.com", claims["email"])
	require.Equal(t, "resumeforge", claims["iss"])
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	_, err := NewIssuer("", "x", time.Minute)
	require.ErrorIs(t, err, ErrMissingSecret)
}

func TestVerifyRejectsExpired(t *testing.T) {
	i := newIssuer(t, time.Minute)
	raw, _, err := i.Issue(&models.User{Sub: "u2"})
	require.NoError(t, err)

	i.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = i.Verify(context.Background(), raw)
	require.Error(t, err)
	require.Zero(t, i.Remaining(raw))
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	raw, _, err := newIssuer(t, time.Minute).Issue(&models.User{Sub: "u3"})
	require.NoError(t, err)

	other, err := NewIssuer("different-secret-xxxxxxxxxxxxxxxx", "resumeforge", time.Minute)
	require.NoError(t, err)
	_, err = other.Verify(context.Background(), raw)
	require.Error(t, err)
}

func TestVerifyRejectsMalformed(t *testing.T) {
	_, err := newIssuer(t, time.Minute).Verify(context.Background(), "not.a.jwt")
	require.Error(t, err)
}

func TestVerifyRejectsAlgNone(t *testing.T) {
	headerEnc := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none"}`))
	payloadEnc := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"u-none","exp":9999999999,"iss":"resumeforge"}`))
	_, err := newIssuer(t, time.Minute).Verify(context.Background(), headerEnc+"."+payloadEnc+".")
	require.Error(t, err)
}

func TestVerifyRejectsTamperedPayload(t *testing.T) {
	i := newIssuer(t, 5*time.Minute)
	raw, _, err := i.Issue(&models.User{Sub: "user-t"})
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(strings.Replace(string(payload), "user-t", "attacker", 1)))
	_, err = i.Verify(context.Background(), strings.Join(parts, "."))
	require.Error(t, err)
}

func TestRemaining(t *testing.T) {
	i := newIssuer(t, 10*time.Minute)
	raw, _, err := i.Issue(&models.User{Sub: "u"})
	require.NoError(t, err)
	d := i.Remaining(raw)
	require.Greater(t, d, 9*time.Minute)
	require.LessOrEqual(t, d, 10*time.Minute)
	require.Zero(t, i.Remaining("garbage"))
}

func TestVerifyRequiresExpiry(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u", "iss": "resumeforge"}).SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = newIssuer(t, time.Minute).Verify(context.Background(), raw)
	require.ErrorIs(t, err, ErrNoExpiry)
}
