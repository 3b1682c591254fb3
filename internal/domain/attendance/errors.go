package attendance

import "errors"

// Attendance domain errors
var (
	// Location errors
	ErrOutOfRange          = errors.New("you are outside the allowed attendance area")
	ErrLocationUnavailable = errors.New("your location could not be determined, refresh your location and try again")
	ErrPermissionDenied    = errors.New("location permission was denied, allow location access to record attendance")

	// State errors
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out today")
)
