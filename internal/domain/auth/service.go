package auth

import "context"

type AuthService interface {
	// Me returns the authenticated user and what their role may do.
	Me(ctx context.Context) (MeResponse, error)
	IssueSSEToken(ctx context.Context) (SSETokenResponse, error)
}
