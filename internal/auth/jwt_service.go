package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var (
	// ErrTokenInvalid is returned for a token with a bad signature or shape.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrTokenExpired is returned for a well-formed token past its expiry.
	ErrTokenExpired = errors.New("token expired")
)

// Claims represents JWT claims carried by both token kinds.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTService mints and verifies access and refresh tokens. The two kinds are
// signed with independent secrets and lifetimes so a leaked access token never
// verifies as a refresh token and vice versa.
type JWTService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewJWTService creates a JWT service with distinct access and refresh secrets.
func NewJWTService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *JWTService {
	return &JWTService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// GenerateAccessToken mints a short-lived access token for the user.
func (s *JWTService) GenerateAccessToken(userID uuid.UUID) (string, error) {
	return s.generate(userID, s.accessSecret, s.accessTTL)
}

// GenerateRefreshToken mints a long-lived refresh token for the user.
func (s *JWTService) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	return s.generate(userID, s.refreshSecret, s.refreshTTL)
}

func (s *JWTService) generate(userID uuid.UUID, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			// A unique ID keeps tokens minted within the same second distinct,
			// so rotation always produces a new byte sequence.
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyAccessToken validates an access token and returns the user ID it carries.
func (s *JWTService) VerifyAccessToken(tokenString string) (uuid.UUID, error) {
	return s.verify(tokenString, s.accessSecret)
}

// VerifyRefreshToken validates a refresh token and returns the user ID it carries.
// Verification is stateless; revocation is enforced by the session service
// comparing against the value persisted on the user record.
func (s *JWTService) VerifyRefreshToken(tokenString string) (uuid.UUID, error) {
	return s.verify(tokenString, s.refreshSecret)
}

func (s *JWTService) verify(tokenString string, secret []byte) (uuid.UUID, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, ErrTokenExpired
		}
		return uuid.Nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return uuid.Nil, ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}
	return userID, nil
}
