package service

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/class-scheduling-api/internal/models"
	"github.com/noah-isme/class-scheduling-api/pkg/config"
	appErrors "github.com/noah-isme/class-scheduling-api/pkg/errors"
)

// TokenVerifier validates access tokens issued by the identity service. Login and token issuance
// live elsewhere; this service only checks signatures and claims.
type TokenVerifier struct {
	secret   []byte
	issuer   string
	audience []string
}

// NewTokenVerifier constructs a verifier from JWT configuration.
func NewTokenVerifier(cfg config.JWTConfig) *TokenVerifier {
	return &TokenVerifier{secret: []byte(cfg.Secret), issuer: cfg.Issuer, audience: cfg.Audience}
}

// ValidateToken parses and validates a signed HS256 access token.
func (v *TokenVerifier) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || strings.TrimSpace(claims.UserID) == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if len(v.audience) > 0 && !audienceMatches(claims.Audience, v.audience) {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token audience not accepted")
	}

	return claims, nil
}

func audienceMatches(got jwt.ClaimStrings, accepted []string) bool {
	for _, aud := range got {
		for _, want := range accepted {
			if aud == want {
				return true
			}
		}
	}
	return false
}
