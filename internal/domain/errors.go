package domain

import "errors"

var (
	ErrPermissionDenied = errors.New("audio capture permission denied")
	ErrInvalidState     = errors.New("invalid voice lifecycle state")
	ErrTransport        = errors.New("backend transport failure")
	ErrPlayback         = errors.New("speech playback failed")
)
