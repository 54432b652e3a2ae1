package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName is the cookie carrying the signed session
const CookieName = "session"

var ErrInvalidSession = errors.New("invalid session")

// Session is the request-scoped view of the authenticated user
type Session struct {
	UserID string
}

// Authenticated reports whether the session names a user
func (s Session) Authenticated() bool {
	return s.UserID != ""
}

// Claims represents the session JWT claims
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Codec signs and verifies session cookies
type Codec struct {
	secret []byte
}

// NewCodec creates a codec using an HS256 shared secret
func NewCodec(secret string) *Codec {
	return &Codec{secret: []byte(secret)}
}

// Encode signs a session for userID valid for ttl
func (c *Codec) Encode(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies a signed session and returns it
func (c *Codec) Decode(tokenString string) (Session, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Session{}, errors.Join(ErrInvalidSession, err)
	}

	if !token.Valid {
		return Session{}, ErrInvalidSession
	}

	return Session{UserID: claims.UserID}, nil
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored in ctx, if any
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}
