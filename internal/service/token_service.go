package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"bolx/internal/config"
	"bolx/internal/domain"
)

const tokenAudience = "api"

// Claims are the JWT claims carried by an API token.
type Claims struct {
	jwt.RegisteredClaims
}

// IssuedToken is a signed API token.
type IssuedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenService issues and validates API tokens.
type TokenService interface {
	// Issue signs a token for subject. A non-positive ttl uses the configured
	// expiry.
	Issue(subject string, ttl time.Duration) (*IssuedToken, error)
	Validate(tokenString string) (*Claims, error)
}

type tokenService struct {
	cfg *config.JWTConfig
	now func() time.Time
}

// NewTokenService creates a new TokenService implementation.
func NewTokenService(cfg *config.JWTConfig) TokenService {
	return &tokenService{cfg: cfg, now: time.Now}
}

func (s *tokenService) Issue(subject string, ttl time.Duration) (*IssuedToken, error) {
	if subject == "" {
		return nil, errors.New("token subject is required")
	}
	if ttl <= 0 {
		ttl = s.cfg.TokenExpiry
	}
	now := s.now()
	expiry := now.Add(ttl)

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
			ID:        uuid.New().String(),
			Audience:  jwt.ClaimStrings{tokenAudience},
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}
	return &IssuedToken{Token: signed, ExpiresAt: expiry}, nil
}

func (s *tokenService) Validate(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithAudience(tokenAudience),
		jwt.WithIssuer(s.cfg.Issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
