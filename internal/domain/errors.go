package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidCriteria = errors.New("invalid search criteria")
	// ErrStaleResponse marks a result that resolved after a newer request was issued.
	ErrStaleResponse = errors.New("superseded by a newer request")
)

// AuthError means no access token could be obtained.
type AuthError struct {
	Status int // 0 when the token endpoint was never reached
	Err    error
}

func (e *AuthError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("auth: token endpoint status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("auth: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// SearchError is a failed or malformed offer search.
type SearchError struct {
	Status int
	Err    error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("flight search failed: %d: %v", e.Status, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

// LocationLookupError is logged and swallowed; suggestions degrade to an empty list.
type LocationLookupError struct {
	Query string
	Err   error
}

func (e *LocationLookupError) Error() string {
	return fmt.Sprintf("location lookup %q: %v", e.Query, e.Err)
}

func (e *LocationLookupError) Unwrap() error { return e.Err }

// UserMessage turns a search-path error into text fit for the person who triggered it.
func UserMessage(err error) string {
	var ae *AuthError
	var se *SearchError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCriteria):
		return err.Error()
	case errors.As(err, &ae):
		return "Unable to connect to flight search service. Please check your API credentials."
	case errors.As(err, &se):
		if se.Status == 0 || se.Status >= 500 {
			return "The flight search service is unavailable right now. Please try again later."
		}
		return fmt.Sprintf("Flight search failed: %d", se.Status)
	case errors.Is(err, ErrStaleResponse):
		return "A newer search replaced this one."
	}
	return "Something went wrong while searching for flights."
}
