package setting

import "errors"

var (
	ErrSettingsUnavailable = errors.New("attendance location has not been configured")
	ErrInvalidRadius       = errors.New("radius must be greater than zero")
)
