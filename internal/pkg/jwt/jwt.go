package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/campus-attendance/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess = "access"
	TokenTypeSSE    = "sse"

	sseTokenLifetime = 5 * time.Minute
)

var ErrMissingIdentity = errors.New("token does not identify a user")

// Identity is who the request acts for, as asserted by the identity provider.
type Identity struct {
	UserID string
	Email  string
	Role   user.Role
}

type Service interface {
	GenerateAccessToken(userID string, email string, role user.Role) (token string, expiresAt int64, err error)
	GenerateSSEToken(id Identity) (token string, expiresIn int, err error)
	ValidateSSEToken(tokenString string) (Identity, error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime time.Duration
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime time.Duration) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(userID string, email string, role user.Role) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpirationTime).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": userID,
		"email":   email,
		"role":    string(role),
		"type":    TokenTypeAccess,
		"exp":     expiresAt,
	})
	return tokenString, expiresAt, err
}

// GenerateSSEToken generates a short-lived token for SSE connections,
// which cannot send an Authorization header from the browser.
func (j *JWTService) GenerateSSEToken(id Identity) (token string, expiresIn int, err error) {
	expiresAt := j.now().Add(sseTokenLifetime).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": id.UserID,
		"role":    string(id.Role),
		"type":    TokenTypeSSE,
		"exp":     expiresAt,
	})
	if err != nil {
		return "", 0, err
	}

	return tokenString, int(sseTokenLifetime.Seconds()), nil
}

// ValidateSSEToken validates an SSE token and returns its identity
func (j *JWTService) ValidateSSEToken(tokenString string) (Identity, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return Identity{}, err
	}

	claims, err := token.AsMap(context.Background())
	if err != nil {
		return Identity{}, err
	}

	if tokenType, _ := claims["type"].(string); tokenType != TokenTypeSSE {
		return Identity{}, jwt.ErrInvalidJWT()
	}

	return identityFromClaims(claims)
}

// IdentityFromContext reads the identity from the token verified by
// jwtauth.Verifier.
func IdentityFromContext(ctx context.Context) (Identity, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return Identity{}, err
	}
	return identityFromClaims(claims)
}

func identityFromClaims(claims map[string]interface{}) (Identity, error) {
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return Identity{}, ErrMissingIdentity
	}

	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return Identity{}, ErrMissingIdentity
	}

	email, _ := claims["email"].(string)

	return Identity{
		UserID: userID,
		Email:  email,
		Role:   user.Role(role),
	}, nil
}
