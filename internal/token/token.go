// Package token is the credential authority: it issues and verifies the
// signed bearer tokens that carry identity between services. Both operations
// are pure functions over the shared secret, with no store lookup and no
// network, so every service verifies independently. The flip side: a token
// cannot be invalidated before it expires.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/marketbay/order-system/internal/core/domain"
)

// Claims is the decoded claim set of a verified token.
type Claims struct {
	// Subject is the opaque user id the token was issued for.
	Subject   string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type jwtClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Authority signs and verifies bearer tokens with a shared HMAC secret.
type Authority struct {
	secret []byte
	ttl    time.Duration
}

// New returns an Authority signing with secret. ttl is the default token
// lifetime used by Issue; it defaults to 30 minutes when non-positive.
func New(secret string, ttl time.Duration) *Authority {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Authority{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for subject with the authority's default TTL.
func (a *Authority) Issue(subject, email string) (string, error) {
	return a.IssueWithTTL(subject, email, a.ttl)
}

// IssueWithTTL signs a token for subject expiring after ttl.
func (a *Authority) IssueWithTTL(subject, email string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwtClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(a.secret)
}

// Verify checks the signature and expiry of raw and returns its claims.
// It fails with domain.ErrInvalidToken when the signature does not match,
// the algorithm is not HS256, the token is expired (strict comparison, no
// clock skew allowance), or the subject claim is absent.
func (a *Authority) Verify(raw string) (*Claims, error) {
	var claims jwtClaims
	t, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return a.secret, nil
	}, jwt.WithLeeway(0))
	if err != nil || !t.Valid {
		return nil, domain.ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}

	out := &Claims{Subject: claims.Subject, Email: claims.Email}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
