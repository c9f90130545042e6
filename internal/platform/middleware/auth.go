package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"veritask/pkg/requestcontext"
)

// JWTValidator validates bearer tokens into claims.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims are the claims the platform cares about. Authorization beyond
// identity is the identity provider's problem; the core only needs an actor.
type JWTClaims struct {
	Subject string
	Role    string
}

// HMACValidator validates HS256 tokens with a shared signing key.
type HMACValidator struct {
	signingKey []byte
}

// NewHMACValidator creates an HMACValidator.
func NewHMACValidator(signingKey string) *HMACValidator {
	return &HMACValidator{signingKey: []byte(signingKey)}
}

func (v *HMACValidator) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.signingKey, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	subject, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	return &JWTClaims{Subject: subject, Role: role}, nil
}

// RequireAuth enforces a valid bearer token and exposes the actor through
// requestcontext.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok {
				unauthorized(w, r, logger, "missing or malformed Authorization header")
				return
			}
			claims, err := validator.ValidateToken(token)
			if err != nil {
				unauthorized(w, r, logger, "invalid or expired token")
				return
			}
			ctx := requestcontext.WithActorID(r.Context(), claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request, logger *slog.Logger, reason string) {
	logger.WarnContext(r.Context(), "unauthorized request",
		"reason", reason,
		"request_id", requestcontext.RequestID(r.Context()),
	)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
}
