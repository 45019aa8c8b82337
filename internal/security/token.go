package security

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed validity of issued access tokens.
const TokenTTL = 7 * 24 * time.Hour

// TokenPayload is the credential carried inside a signed token.
type TokenPayload struct {
	UserID int64
	Email  string
}

// TokenService wraps JWT creation and validation. The secret is process
// configuration; an empty secret is rejected at startup, not per request.
type TokenService struct {
	secret    []byte
	expiresIn time.Duration
}

func NewTokenService(secret string, expiresIn time.Duration) *TokenService {
	if expiresIn <= 0 {
		expiresIn = TokenTTL
	}
	return &TokenService{
		secret:    []byte(secret),
		expiresIn: expiresIn,
	}
}

// Create signs a token carrying the user id and email.
func (t *TokenService) Create(p TokenPayload) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(p.UserID, 10),
		"email": p.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(t.expiresIn).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Parse validates a token and returns its payload. Expired, malformed, and
// tampered tokens all fail the same way.
func (t *TokenService) Parse(tokenStr string) (*TokenPayload, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenMalformed
	}

	sub, _ := claims["sub"].(string)
	userID, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || userID <= 0 {
		return nil, jwt.ErrTokenInvalidSubject
	}
	email, _ := claims["email"].(string)

	return &TokenPayload{UserID: userID, Email: email}, nil
}
