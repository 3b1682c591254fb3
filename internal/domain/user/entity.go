package user

import "time"

type Role string

const (
	RoleStudent Role = "student" // Checks in and out, sees own history
	RoleAdmin   Role = "admin"   // Manages schedules and the attendance location
)

var RoleValues = []string{
	string(RoleStudent),
	string(RoleAdmin),
}

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent, RoleAdmin:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

type User struct {
	ID        string
	NIM       *string // student number, nil for admins
	Name      string
	Email     string
	Role      Role
	CreatedAt time.Time
}

// IsAdmin checks if user is an administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
