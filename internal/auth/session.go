package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "wagewise"

var ErrInvalidToken = errors.New("invalid session token")

// Session is the identity carried by a valid token.
type Session struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// Issuer signs and verifies HMAC-SHA256 session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, ttl time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is how long issued tokens stay valid.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token for the user.
func (i *Issuer) Issue(userID, email string) (string, Session, error) {
	now := i.now()
	s := Session{UserID: userID, Email: email, ExpiresAt: now.Add(i.ttl)}
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"iss":   issuer,
		"iat":   now.Unix(),
		"exp":   s.ExpiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", Session{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, s, nil
}

// Verify checks signature, issuer and expiry.
func (i *Issuer) Verify(tokenString string) (Session, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired(), jwt.WithTimeFunc(i.now))
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sub, _ := claims.GetSubject()
	if sub == "" {
		return Session{}, ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	exp, _ := claims.GetExpirationTime()
	s := Session{UserID: sub, Email: email}
	if exp != nil {
		s.ExpiresAt = exp.Time
	}
	return s, nil
}
