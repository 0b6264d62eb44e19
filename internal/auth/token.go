package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/medicare/practice-api/pkg/config"
	"github.com/medicare/practice-api/pkg/types"
)

// TokenManager issues and validates the bearer tokens used for sessions
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// Claims represents the JWT claims carried by a session token
type Claims struct {
	SubjectID int64  `json:"subject_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// NewTokenManager creates a new token manager
func NewTokenManager(cfg *config.JWTConfig) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.SecretKey),
		ttl:    time.Duration(cfg.AccessTokenTTL) * time.Second,
		issuer: cfg.Issuer,
	}
}

// Issue generates a signed token for the given identity
func (tm *TokenManager) Issue(identity types.Identity) (*types.AuthToken, error) {
	now := time.Now()

	claims := &Claims{
		SubjectID: identity.SubjectID,
		Role:      string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tm.issuer,
			Subject:   fmt.Sprintf("%d", identity.SubjectID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &types.AuthToken{
		AccessToken: tokenString,
		TokenType:   "Bearer",
		ExpiresIn:   int64(tm.ttl / time.Second),
		IssuedAt:    now,
	}, nil
}

// Validate validates a token string and returns the caller identity
func (tm *TokenManager) Validate(tokenString string) (types.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.secret, nil
	})

	if err != nil {
		return types.Identity{}, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return types.Identity{}, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return types.Identity{}, fmt.Errorf("invalid token claims")
	}

	role := types.Role(claims.Role)
	if !role.Valid() {
		return types.Identity{}, fmt.Errorf("unknown role in token: %s", claims.Role)
	}

	return types.Identity{
		SubjectID: claims.SubjectID,
		Role:      role,
	}, nil
}
