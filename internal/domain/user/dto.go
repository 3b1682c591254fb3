package user

import (
	"time"

	"github.com/cmlabs-hris/campus-attendance/internal/pkg/validator"
)

// UserResponse represents user data in API responses
type UserResponse struct {
	ID        string  `json:"id"`
	NIM       *string `json:"nim,omitempty"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	CreatedAt string  `json:"created_at"`
}

func NewUserResponse(u User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		NIM:       u.NIM,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
}

// CreateUserRequest registers a user known to the identity provider.
type CreateUserRequest struct {
	ID    string  `json:"id"`
	NIM   *string `json:"nim,omitempty"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Role  string  `json:"role"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.ID != "" && !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	if !validator.IsInSlice(r.Role, RoleValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: ErrInvalidRole.Error(),
		})
	}

	if r.NIM != nil && !validator.IsValidNIM(*r.NIM) {
		errs = append(errs, validator.ValidationError{
			Field:   "nim",
			Message: "nim must be 8 to 15 digits",
		})
	}
	if r.Role == string(RoleStudent) && r.NIM == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "nim",
			Message: "nim is required for students",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
