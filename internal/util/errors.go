package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrInvalidObjectID    = errors.New("invalid object id")
	ErrExamNotFound       = errors.New("exam not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrExamNotAvailable   = errors.New("exam is not open for attempts")
	ErrInvalidQuestion    = errors.New("invalid question")
	ErrInvalidExam        = errors.New("invalid exam")
	ErrResultNotFound     = errors.New("result not found")
)
