package jwt

import (
	"crypto/ecdsa"
	"fmt"
	"strconv"
	"time"

	"notify-srv/pkg/scope"

	"github.com/golang-jwt/jwt/v5"
)

// Validator verifies bearer tokens and implements scope.Verifier.
type Validator struct {
	method jwt.SigningMethod
	key    any
	parser *jwt.Parser
}

// NewValidator builds a Validator for cfg.
func NewValidator(cfg Config) (*Validator, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	cfg = withDefaults(cfg)

	v := &Validator{}
	if len(cfg.PublicKeyPEM) > 0 {
		pub, err := jwt.ParseECPublicKeyFromPEM(cfg.PublicKeyPEM)
		if err != nil {
			return nil, fmt.Errorf("jwt: parse public key: %w", err)
		}
		v.method, v.key = jwt.SigningMethodES256, pub
	} else {
		v.method, v.key = jwt.SigningMethodHS256, []byte(cfg.SecretKey)
	}

	v.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{v.method.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
		jwt.WithExpirationRequired(),
	)
	return v, nil
}

// ValidateToken parses and verifies tokenString and returns its claims.
func (v *Validator) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return v.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	if claims.UserID == 0 && claims.Subject != "" {
		id, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid 'sub' claim: %w", err)
		}
		claims.UserID = id
	}
	if claims.UserID == 0 {
		return nil, fmt.Errorf("missing user id claim")
	}
	return claims, nil
}

// Verify implements scope.Verifier.
func (v *Validator) Verify(tokenString string) (scope.Principal, error) {
	if tokenString == "" {
		return scope.Principal{}, scope.ErrMissingToken
	}
	claims, err := v.ValidateToken(tokenString)
	if err != nil {
		return scope.Principal{}, fmt.Errorf("%w: %v", scope.ErrInvalidToken, err)
	}
	return scope.Principal{
		UserID:   claims.UserID,
		WsID:     claims.WsID,
		Fullname: claims.Fullname,
		Email:    claims.Email,
	}, nil
}

// Signer issues tokens in the layout Validator accepts. The service itself
// never issues tokens; Signer backs tests and cmd/token-generator.
type Signer struct {
	method   jwt.SigningMethod
	key      any
	issuer   string
	audience string
}

// NewHMACSigner returns an HS256 Signer.
func NewHMACSigner(secretKey, issuer, audience string) *Signer {
	cfg := withDefaults(Config{Issuer: issuer, Audience: audience})
	return &Signer{method: jwt.SigningMethodHS256, key: []byte(secretKey), issuer: cfg.Issuer, audience: cfg.Audience}
}

// NewES256Signer returns an ES256 Signer.
func NewES256Signer(key *ecdsa.PrivateKey, issuer, audience string) *Signer {
	cfg := withDefaults(Config{Issuer: issuer, Audience: audience})
	return &Signer{method: jwt.SigningMethodES256, key: key, issuer: cfg.Issuer, audience: cfg.Audience}
}

// GenerateToken signs a token for p that expires after ttl.
func (s *Signer) GenerateToken(p scope.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   p.UserID,
		WsID:     p.WsID,
		Fullname: p.Fullname,
		Email:    p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	tokenString, err := jwt.NewWithClaims(s.method, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}
