package config

import "errors"

// ErrInvalidConfig signals a config value the agent can not start with
var ErrInvalidConfig = errors.New("invalid config")
