package http

import (
	"net/http"

	"github.com/cmlabs-hris/campus-attendance/internal/domain/auth"
	"github.com/cmlabs-hris/campus-attendance/internal/handler/http/response"
)

type AuthHandler interface {
	Me(w http.ResponseWriter, r *http.Request)
	IssueSSEToken(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{
		authService: authService,
	}
}

// Me implements AuthHandler.
func (a *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	result, err := a.authService.Me(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// IssueSSEToken implements AuthHandler.
func (a *AuthHandlerImpl) IssueSSEToken(w http.ResponseWriter, r *http.Request) {
	result, err := a.authService.IssueSSEToken(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
