package jwt

import (
	"time"

	jwtstd "github.com/golang-jwt/jwt/v5"
)

// TokenError represents JWT token related errors
type TokenError string

func (e TokenError) Error() string {
	return string(e)
}

const (
	DefaultAccessTokenExpire = time.Hour * 24

	ErrNeedTokenProvider = TokenError("cannot sign token without token provider")
	ErrInvalidToken      = TokenError("invalid token")
	ErrTokenParsing      = TokenError("token parsing error")
	ErrMissingUser       = TokenError("token carries no user")
)

// Token represents the token body
type Token struct {
	JTI     string         `json:"jti"`
	Payload map[string]any `json:"payload"`
	Subject string         `json:"sub"`
	Expire  time.Duration  `json:"exp"`
}

// TokenManager handles JWT token operations
type TokenManager struct {
	key    string
	expire time.Duration
}

// NewTokenManager creates a new TokenManager instance.
// A non-positive expire falls back to DefaultAccessTokenExpire.
func NewTokenManager(key string, expire ...time.Duration) *TokenManager {
	tm := &TokenManager{key: key, expire: DefaultAccessTokenExpire}
	if len(expire) > 0 && expire[0] > 0 {
		tm.expire = expire[0]
	}
	return tm
}

// validateKey validates the token key
func (jtm *TokenManager) validateKey() error {
	if jtm.key == "" {
		return ErrNeedTokenProvider
	}
	return nil
}

// generateToken generates a JWT token
func (jtm *TokenManager) generateToken(token *Token) (string, error) {
	if err := jtm.validateKey(); err != nil {
		return "", err
	}

	now := time.Now()
	claims := jwtstd.MapClaims{
		"jti":     token.JTI,
		"sub":     token.Subject,
		"payload": token.Payload,
		"iat":     now.Unix(),
		"exp":     now.Add(token.Expire).Unix(),
	}

	t := jwtstd.NewWithClaims(jwtstd.SigningMethodHS256, claims)
	return t.SignedString([]byte(jtm.key))
}

// GenerateAccessToken signs an access token for the user with the manager's expiry.
func (jtm *TokenManager) GenerateAccessToken(jti, userID string) (string, error) {
	return jtm.GenerateAccessTokenWithExpiry(jti, userID, jtm.expire)
}

// GenerateAccessTokenWithExpiry signs an access token with a custom expiration duration.
func (jtm *TokenManager) GenerateAccessTokenWithExpiry(jti, userID string, expiry time.Duration) (string, error) {
	if userID == "" {
		return "", ErrMissingUser
	}
	return jtm.generateToken(&Token{
		JTI:     jti,
		Payload: map[string]any{"user_id": userID},
		Subject: "access",
		Expire:  expiry,
	})
}

// ValidateToken validates a JWT token
func (jtm *TokenManager) ValidateToken(tokenString string) (*jwtstd.Token, error) {
	if err := jtm.validateKey(); err != nil {
		return nil, err
	}

	return jwtstd.Parse(tokenString, func(token *jwtstd.Token) (any, error) {
		return []byte(jtm.key), nil
	}, jwtstd.WithValidMethods([]string{jwtstd.SigningMethodHS256.Alg()}))
}

// DecodeToken decodes a JWT token into its claims
func (jtm *TokenManager) DecodeToken(tokenString string) (map[string]any, error) {
	token, err := jtm.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwtstd.MapClaims)
	if !ok {
		return nil, ErrTokenParsing
	}
	return claims, nil
}

// ResolveUser returns the user id carried by a valid token.
func (jtm *TokenManager) ResolveUser(tokenString string) (string, error) {
	claims, err := jtm.DecodeToken(tokenString)
	if err != nil {
		return "", err
	}
	userID := GetUserIDFromToken(claims)
	if userID == "" {
		return "", ErrMissingUser
	}
	return userID, nil
}

// GetTokenExpiryTime extracts the expiration time from a token
func (jtm *TokenManager) GetTokenExpiryTime(tokenString string) (time.Time, error) {
	claims, err := jtm.DecodeToken(tokenString)
	if err != nil {
		return time.Time{}, err
	}

	exp := GetExpirationFromToken(claims)
	if exp.IsZero() {
		return time.Time{}, ErrTokenParsing
	}
	return exp, nil
}
