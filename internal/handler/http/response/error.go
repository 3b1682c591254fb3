package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/campus-attendance/internal/domain/attendance"
	"github.com/cmlabs-hris/campus-attendance/internal/domain/auth"
	"github.com/cmlabs-hris/campus-attendance/internal/domain/schedule"
	"github.com/cmlabs-hris/campus-attendance/internal/domain/setting"
	"github.com/cmlabs-hris/campus-attendance/internal/domain/user"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/geo"
	"github.com/cmlabs-hris/campus-attendance/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrUnauthenticated):
		Unauthorized(w, "Authentication required")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")

	// Location
	case errors.Is(err, geo.ErrInvalidCoordinate):
		BadRequest(w, "Invalid coordinates", nil)
	case errors.Is(err, attendance.ErrLocationUnavailable):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrPermissionDenied):
		Forbidden(w, err.Error())
	case errors.Is(err, attendance.ErrOutOfRange):
		Forbidden(w, err.Error())
	case errors.Is(err, setting.ErrSettingsUnavailable):
		ServiceUnavailable(w, "Attendance location has not been configured, contact an administrator")

	// Attendance state
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "You have already checked in today")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "You have already checked out today")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		Conflict(w, "You have not checked in yet")

	// Not found / conflicts
	case errors.Is(err, schedule.ErrScheduleNotFound):
		NotFound(w, "Schedule not found")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
