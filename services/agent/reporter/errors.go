package reporter

import "errors"

// ErrEmptyEndpoint signals a reporter created without the backend URL
var ErrEmptyEndpoint = errors.New("empty report endpoint")

// ErrEmptyKey signals a reporter created without the backend credentials
var ErrEmptyKey = errors.New("empty report key")

// ErrEmptyName signals a reporter created without the component or agent name
var ErrEmptyName = errors.New("empty name")
