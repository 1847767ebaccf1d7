package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is the authenticated caller of a request. SessionID is stable
// across token refreshes within one login.
type Identity struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
}

type claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secretKey []byte
	expiresIn time.Duration
	now       func() time.Time
}

func NewTokenService(secret string, expiresIn time.Duration) *TokenService {
	return &TokenService{
		secretKey: []byte(secret),
		expiresIn: expiresIn,
		now:       time.Now,
	}
}

// Issue signs an HS256 token for identity and returns it with its expiry.
func (s *TokenService) Issue(identity Identity) (string, time.Time, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.expiresIn)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		SessionID: identity.SessionID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies tokenStr and returns the identity it carries.
func (s *TokenService) Parse(tokenStr string) (Identity, error) {
	parsed := &claims{}
	_, err := jwt.ParseWithClaims(tokenStr, parsed, func(token *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := uuid.FromString(parsed.Subject)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: subject: %v", ErrInvalidToken, err)
	}
	sessionID, err := uuid.FromString(parsed.SessionID)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: sid: %v", ErrInvalidToken, err)
	}
	return Identity{UserID: userID, SessionID: sessionID}, nil
}
