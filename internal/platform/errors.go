package platform

import "errors"

var (
	ErrPlatformUnavailable = errors.New("host platform unavailable")
	ErrUnexpectedStatus    = errors.New("unexpected status from host platform")
)
