package service

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"reportsvc/internal/config"
	"reportsvc/internal/domain"
)

const bearerScheme = "bearer"

// IdentityService resolves the caller of a request from its bearer token.
type IdentityService interface {
	Decode(authorization string) (*domain.Identity, error)
}

type identityService struct {
	cfg config.JWTConfig
}

// NewIdentityService creates an IdentityService verifying tokens with the
// configured shared secret.
func NewIdentityService(cfg config.JWTConfig) IdentityService {
	return &identityService{cfg: cfg}
}

// Decode accepts a raw Authorization header value, with or without the
// "Bearer " scheme.
func (s *identityService) Decode(authorization string) (*domain.Identity, error) {
	token := strings.TrimSpace(authorization)
	if scheme, rest, found := strings.Cut(token, " "); found && strings.EqualFold(scheme, bearerScheme) {
		token = strings.TrimSpace(rest)
	} else if strings.EqualFold(token, bearerScheme) {
		token = ""
	}
	return DecodeToken(token, s.cfg.Secret)
}

// DecodeToken verifies an HMAC-signed token and extracts the caller identity.
// Absent claims leave the zero value; a userId or roleId that is present but
// not a UUID invalidates the token.
func DecodeToken(tokenString, secret string) (*domain.Identity, error) {
	if tokenString == "" {
		return nil, domain.ErrEmptyToken
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}

	identity := &domain.Identity{
		Email: stringClaim(claims, "email"),
		Name:  stringClaim(claims, "name"),
	}
	if identity.UserID, err = uuidClaim(claims, "userId"); err != nil {
		return nil, err
	}
	if identity.RoleID, err = uuidClaim(claims, "roleId"); err != nil {
		return nil, err
	}
	return identity, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}

func uuidClaim(claims jwt.MapClaims, key string) (uuid.UUID, error) {
	raw, ok := claims[key]
	if !ok || raw == nil {
		return uuid.Nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("%w: claim %s is not a string", domain.ErrInvalidToken, key)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: claim %s: %w", domain.ErrInvalidToken, key, err)
	}
	return id, nil
}
