// Package businessflow contains the core business logic and use cases for the blogging workflows
package businessflow

import (
	"errors"
	"fmt"
)

// Business flow error constants
var (
	// User-related errors
	ErrUserNotFound          = errors.New("user not found")
	ErrAccountInactive       = errors.New("account is inactive")
	ErrIncorrectPassword     = errors.New("incorrect password")
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")

	// Blog-related errors
	ErrBlogNotFound      = errors.New("blog not found")
	ErrBlogAccessDenied  = errors.New("blog access denied")
	ErrBlogTitleRequired = errors.New("blog title is required")
	ErrBlogBodyRequired  = errors.New("blog description is required")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryRequired  = errors.New("category is required")

	// Favourite-related errors
	ErrAlreadyInFavourites = errors.New("blog already in favorites")
	ErrNotInFavourites     = errors.New("blog not in favorites")

	// Review-related errors
	ErrReviewCommentRequired = errors.New("review comment is required")
	ErrRatingOutOfRange      = errors.New("rating must be between 1 and 5")

	// Filter errors
	ErrInvalidPage     = errors.New("page must be at least 1")
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")

	ErrCacheNotAvailable = errors.New("cache not available")
)

type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NewBusinessErrorf(code, message string, err error, args ...any) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: fmt.Sprintf(message, args...),
		Err:     err,
	}
}

func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}

func IsAccountInactive(err error) bool {
	return errors.Is(err, ErrAccountInactive)
}

func IsIncorrectPassword(err error) bool {
	return errors.Is(err, ErrIncorrectPassword)
}

func IsEmailAlreadyExists(err error) bool {
	return errors.Is(err, ErrEmailAlreadyExists)
}

func IsUsernameAlreadyExists(err error) bool {
	return errors.Is(err, ErrUsernameAlreadyExists)
}

func IsBlogNotFound(err error) bool {
	return errors.Is(err, ErrBlogNotFound)
}

func IsBlogAccessDenied(err error) bool {
	return errors.Is(err, ErrBlogAccessDenied)
}

func IsCategoryNotFound(err error) bool {
	return errors.Is(err, ErrCategoryNotFound)
}

func IsAlreadyInFavourites(err error) bool {
	return errors.Is(err, ErrAlreadyInFavourites)
}

func IsNotInFavourites(err error) bool {
	return errors.Is(err, ErrNotInFavourites)
}

func IsRatingOutOfRange(err error) bool {
	return errors.Is(err, ErrRatingOutOfRange)
}
