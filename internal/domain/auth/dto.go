package auth

import "github.com/cmlabs-hris/campus-attendance/internal/domain/user"

type MeResponse struct {
	User        user.UserResponse `json:"user"`
	Permissions []string          `json:"permissions"`
}

type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}
