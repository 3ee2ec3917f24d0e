package user

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUserInactive          = errors.New("user is not active")
	ErrManagerAccessRequired = errors.New("manager access required")
)
