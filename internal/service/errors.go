package service

import "errors"

// Domain errors surfaced to handlers. NotFound and validation errors are
// terminal; anything else bubbling out of a service is treated as a store
// failure by the presentation layer.
var (
	ErrPostNotFound          = errors.New("post not found")
	ErrCommentNotFound       = errors.New("comment not found")
	ErrParentCommentNotFound = errors.New("parent comment not found")
	ErrParentPostMismatch    = errors.New("parent comment does not belong to this post")
	ErrMemberNotFound        = errors.New("member not found")
	ErrImageNotFound         = errors.New("image not found")

	ErrContentEmpty   = errors.New("content must not be empty")
	ErrContentTooLong = errors.New("content exceeds maximum length")

	ErrEmailTaken         = errors.New("email already registered")
	ErrNicknameTaken      = errors.New("nickname already in use")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")

	ErrNotOwner = errors.New("only the owner can modify this resource")

	ErrEmptyFile        = errors.New("uploaded file is empty")
	ErrInvalidExtension = errors.New("unsupported file extension")
	ErrUploadsDisabled  = errors.New("image uploads are not configured")
)
