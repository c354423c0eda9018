package core

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrChatNotFound       = errors.New("chat not found")
	ErrMessageNotFound    = errors.New("message not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrAlreadyParticipant = errors.New("already a participant")
	ErrNotParticipant     = errors.New("not a participant")
	ErrChatFull           = errors.New("chat is full")
	ErrEditWindowExpired  = errors.New("edit window expired")

	ErrInvalidName     = errors.New("invalid name")
	ErrNameTaken       = errors.New("name already taken")
	ErrAlreadyLoggedIn = errors.New("user already logged in")
)
