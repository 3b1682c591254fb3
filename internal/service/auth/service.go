package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/campus-attendance/internal/domain/auth"
	"github.com/cmlabs-hris/campus-attendance/internal/domain/user"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/jwt"
)

type AuthServiceImpl struct {
	user.UserRepository
	jwt.Service
}

func NewAuthService(userRepository user.UserRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository: userRepository,
		Service:        jwtService,
	}
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context) (auth.MeResponse, error) {
	id, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return auth.MeResponse{}, auth.ErrUnauthenticated
	}

	u, err := a.UserRepository.GetByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.MeResponse{}, err
		}
		return auth.MeResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	// The stored role is authoritative over the one carried in the token.
	permissions := make([]string, 0, len(user.RolePermissions[u.Role]))
	for _, p := range user.RolePermissions[u.Role] {
		permissions = append(permissions, string(p))
	}

	return auth.MeResponse{
		User:        user.NewUserResponse(u),
		Permissions: permissions,
	}, nil
}

// IssueSSEToken implements auth.AuthService.
func (a *AuthServiceImpl) IssueSSEToken(ctx context.Context) (auth.SSETokenResponse, error) {
	id, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return auth.SSETokenResponse{}, auth.ErrUnauthenticated
	}

	token, expiresIn, err := a.Service.GenerateSSEToken(id)
	if err != nil {
		return auth.SSETokenResponse{}, fmt.Errorf("failed to generate SSE token: %w", err)
	}

	return auth.SSETokenResponse{Token: token, ExpiresIn: expiresIn}, nil
}
