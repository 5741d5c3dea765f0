// Package services: services/errors.go
package services

import "errors"

// Shared service errors. Gated socket events that fail with one of these are
// surfaced to the caller as an action-error event rather than dropped.
var (
	ErrNotAuthorized       = errors.New("only the host or a co-host may perform this action")
	ErrParticipantNotFound = errors.New("participant not found in this meeting")
	ErrMeetingLocked       = errors.New("meeting is locked and cannot be joined")
	ErrRequestNotFound     = errors.New("recording request not found or already answered")
	ErrInvalidPermission   = errors.New("invalid recording permission value")

	// rename validation failures; each message is user-visible
	ErrEmptyName      = errors.New("name must not be empty")
	ErrNameTooLong    = errors.New("name must be 50 characters or fewer")
	ErrNameTaken      = errors.New("that name is already in use by another participant")
	ErrSameName       = errors.New("new name must differ from your current name")
	ErrRenameDisabled = errors.New("renaming is disabled by the host")

	ErrHandRaisingDisabled = errors.New("hand raising is disabled by the host")
)
