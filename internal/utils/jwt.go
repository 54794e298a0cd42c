package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"cse_motors/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingSecret is returned when no signing secret was configured.
var ErrMissingSecret = errors.New("jwt secret not configured")

// roleClaimKeys lists the claim names a role may be issued under, in lookup order.
var roleClaimKeys = []string{"account_type", "accountType", "accType", "role"}

// JWTClaims custom claims for JWT
type JWTClaims struct {
	AccountID   int    `json:"account_id"`
	FirstName   string `json:"account_firstname"`
	LastName    string `json:"account_lastname"`
	Email       string `json:"account_email"`
	AccountType string `json:"account_type"`
	jwt.RegisteredClaims
}

// JWTUtil provides JWT generation and validation
type JWTUtil struct {
	secretKey  string
	expiration time.Duration
}

// NewJWTUtil creates a new JWTUtil. An empty secret is allowed; every
// operation then fails with ErrMissingSecret.
func NewJWTUtil(secretKey string, expiration time.Duration) *JWTUtil {
	return &JWTUtil{secretKey: secretKey, expiration: expiration}
}

// Configured reports whether a signing secret is available.
func (ju *JWTUtil) Configured() bool {
	return ju.secretKey != ""
}

// Expiration is the lifetime of issued tokens.
func (ju *JWTUtil) Expiration() time.Duration {
	return ju.expiration
}

// GenerateToken signs a token carrying the principal
func (ju *JWTUtil) GenerateToken(p model.Principal) (string, error) {
	if !ju.Configured() {
		return "", ErrMissingSecret
	}
	now := time.Now()
	claims := &JWTClaims{
		AccountID:   p.ID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		AccountType: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ju.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   strconv.Itoa(p.ID),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(ju.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken verifies signature and expiry and decodes the principal.
// Expired tokens yield an error matching jwt.ErrTokenExpired.
func (ju *JWTUtil) ValidateToken(tokenString string) (*model.Principal, error) {
	if !ju.Configured() {
		return nil, ErrMissingSecret
	}
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ju.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return principalFromClaims(claims), nil
}

// principalFromClaims is the single place where claim aliases are resolved.
func principalFromClaims(claims jwt.MapClaims) *model.Principal {
	p := &model.Principal{
		FirstName: stringClaim(claims, "account_firstname"),
		LastName:  stringClaim(claims, "account_lastname"),
		Email:     stringClaim(claims, "account_email"),
	}
	for _, key := range roleClaimKeys {
		if role := stringClaim(claims, key); role != "" {
			p.Role = role
			break
		}
	}
	switch id := claims["account_id"].(type) {
	case float64:
		p.ID = int(id)
	case string:
		p.ID, _ = strconv.Atoi(id)
	}
	if p.ID == 0 {
		if sub, err := claims.GetSubject(); err == nil {
			p.ID, _ = strconv.Atoi(sub)
		}
	}
	return p
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
