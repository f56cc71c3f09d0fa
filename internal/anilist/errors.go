package anilist

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorLocation points at the query position an API error refers to.
type ErrorLocation struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// APIError is one structured error returned by the AniList API.
type APIError struct {
	Message   string          `json:"message"`
	Status    int             `json:"status"`
	Locations []ErrorLocation `json:"locations"`
}

func (e APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("anilist: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("anilist: %s", e.Message)
}

// RequestError wraps the full error list of a failed API request.
type RequestError struct {
	Errors []APIError
}

func (e *RequestError) Error() string {
	if len(e.Errors) == 0 {
		return "anilist: request failed"
	}
	msgs := make([]string, len(e.Errors))
	for i, apiErr := range e.Errors {
		msgs[i] = apiErr.Error()
	}
	return strings.Join(msgs, "; ")
}

// Status returns the status code of the first error, or 0 when absent.
func (e *RequestError) Status() int {
	if len(e.Errors) == 0 {
		return 0
	}
	return e.Errors[0].Status
}

// AsRequestError unwraps err into a *RequestError if it is one.
func AsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}
