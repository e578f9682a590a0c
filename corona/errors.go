package corona

import "errors"

// ErrInvalidConfig is wrapped by every balance validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// InvalidConfigError names the offending balance field.
type InvalidConfigError string

func (e InvalidConfigError) Error() string { return "invalid config: " + string(e) }

func (e InvalidConfigError) Unwrap() error { return ErrInvalidConfig }
