package domain

import "errors"

const DefaultPageSize = 6

var (
	MessageFailedBodyRequest    = "failed to process request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"

	ErrParseID          = errors.New("failed to parse id")
	ErrTokenNotFound    = errors.New("token not found")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenInvalid     = errors.New("token invalid")
	ErrUserBlocked      = errors.New("blocked users can not modify data")
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// Page is the list envelope used by every paginated endpoint.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}
